package inbox

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/receiptscan/email-receipts/internal/entity"
)

// GmailSource fetches receipt candidates over the Gmail API. It expects
// an OAuth client credentials file and a previously stored token file,
// the same two-file layout the Google quickstarts use.
type GmailSource struct {
	svc    *gmail.Service
	logger *slog.Logger
}

func NewGmailSource(ctx context.Context, credentialsFile, tokenFile string, logger *slog.Logger) (*GmailSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(creds, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	rawTok, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(rawTok, &tok); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, &tok)))
	if err != nil {
		return nil, fmt.Errorf("gmail service: %w", err)
	}
	return &GmailSource{svc: svc, logger: logger}, nil
}

func (s *GmailSource) Fetch(ctx context.Context, query string, max int) ([]entity.InboundMessage, error) {
	call := s.svc.Users.Messages.List("me").Q(query).Context(ctx)
	if max > 0 {
		call = call.MaxResults(int64(max))
	}
	list, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	msgs := make([]entity.InboundMessage, 0, len(list.Messages))
	for _, ref := range list.Messages {
		full, err := s.svc.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			s.logger.Warn("inbox.gmail.skip", "id", ref.Id, "error", err)
			continue
		}
		msgs = append(msgs, messageFromPayload(full))
	}

	s.logger.Info("inbox.gmail.fetched", "query", query, "messages", len(msgs))
	return msgs, nil
}

func messageFromPayload(m *gmail.Message) entity.InboundMessage {
	var msg entity.InboundMessage
	if m.Payload == nil {
		return msg
	}
	for _, h := range m.Payload.Headers {
		switch h.Name {
		case "Subject":
			msg.Subject = h.Value
		case "From":
			msg.From = h.Value
		case "Date":
			msg.Date = h.Value
		}
	}
	// Prefer HTML parts: the normalizer strips markup anyway and HTML
	// bodies usually carry the richer receipt layout.
	if body := findPart(m.Payload, "text/html"); body != "" {
		msg.Body = body
	} else {
		msg.Body = findPart(m.Payload, "text/plain")
	}
	return msg
}

func findPart(part *gmail.MessagePart, mimeType string) string {
	if part == nil {
		return ""
	}
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		return decodeBody(part.Body.Data)
	}
	for _, p := range part.Parts {
		if body := findPart(p, mimeType); body != "" {
			return body
		}
	}
	return ""
}

func decodeBody(data string) string {
	// Gmail emits unpadded url-safe base64; tolerate padded too.
	if b, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	return ""
}
