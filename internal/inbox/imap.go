package inbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"github.com/receiptscan/email-receipts/internal/entity"
)

// IMAPConfig configures an IMAP mailbox connection. Host may be left
// empty for well-known providers; it is then derived from the address
// domain.
type IMAPConfig struct {
	Address  string
	Password string
	Host     string
	Port     int
	Mailbox  string
}

// IMAPSource fetches receipt candidates from any IMAP mailbox over
// TLS, for accounts that are not Gmail or where API access is not set
// up. A fresh connection is dialed per Fetch and logged out after.
type IMAPSource struct {
	cfg    IMAPConfig
	logger *slog.Logger
}

func NewIMAPSource(cfg IMAPConfig, logger *slog.Logger) (*IMAPSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Address == "" || cfg.Password == "" {
		return nil, fmt.Errorf("imap: address and password are required")
	}
	if cfg.Host == "" {
		host, ok := guessIMAPHost(cfg.Address)
		if !ok {
			return nil, fmt.Errorf("imap: no known host for %q, set IMAP_HOST", cfg.Address)
		}
		cfg.Host = host
	}
	if cfg.Port == 0 {
		cfg.Port = 993
	}
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	return &IMAPSource{cfg: cfg, logger: logger}, nil
}

// guessIMAPHost maps well-known mail domains to their IMAP endpoints.
func guessIMAPHost(address string) (string, bool) {
	at := strings.LastIndex(address, "@")
	if at < 0 {
		return "", false
	}
	switch strings.ToLower(address[at+1:]) {
	case "gmail.com":
		return "imap.gmail.com", true
	case "outlook.com", "hotmail.com":
		return "outlook.office365.com", true
	case "yahoo.com":
		return "imap.mail.yahoo.com", true
	}
	return "", false
}

// Fetch searches the mailbox and returns the parsed messages. A
// non-empty query filters on the Subject header; an empty query
// matches everything.
func (s *IMAPSource) Fetch(ctx context.Context, query string, max int) ([]entity.InboundMessage, error) {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	c, err := imapclient.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("imap dial %s: %w", addr, err)
	}
	defer c.Close()

	if err := c.Login(s.cfg.Address, s.cfg.Password).Wait(); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}
	defer func() { _ = c.Logout().Wait() }()

	if _, err := c.Select(s.cfg.Mailbox, nil).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %s: %w", s.cfg.Mailbox, err)
	}

	criteria := &imap.SearchCriteria{}
	if query != "" {
		criteria.Header = []imap.SearchCriteriaHeaderField{{Key: "Subject", Value: query}}
	}
	sd, err := c.Search(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}
	nums := sd.AllSeqNums()
	if max > 0 && len(nums) > max {
		nums = nums[:max]
	}
	if len(nums) == 0 {
		s.logger.Info("inbox.imap.fetched", "mailbox", s.cfg.Mailbox, "messages", 0)
		return []entity.InboundMessage{}, nil
	}

	section := &imap.FetchItemBodySection{}
	bufs, err := c.Fetch(imap.SeqSetNum(nums...), &imap.FetchOptions{
		BodySection: []*imap.FetchItemBodySection{section},
	}).Collect()
	if err != nil {
		return nil, fmt.Errorf("imap fetch: %w", err)
	}

	msgs := make([]entity.InboundMessage, 0, len(bufs))
	for _, buf := range bufs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := buf.FindBodySection(section)
		if len(raw) == 0 {
			continue
		}
		msg, err := messageFromRFC822(raw)
		if err != nil {
			s.logger.Warn("inbox.imap.skip", "seq", buf.SeqNum, "error", err)
			continue
		}
		msgs = append(msgs, msg)
	}

	s.logger.Info("inbox.imap.fetched", "mailbox", s.cfg.Mailbox, "messages", len(msgs))
	return msgs, nil
}

// messageFromRFC822 parses a raw RFC 822 message into the engine's
// input shape. Inline text/plain is preferred over text/html;
// attachments are ignored.
func messageFromRFC822(raw []byte) (entity.InboundMessage, error) {
	var msg entity.InboundMessage

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return msg, fmt.Errorf("parse message: %w", err)
	}

	msg.Subject, _ = mr.Header.Subject()
	msg.From = mr.Header.Get("From")
	msg.Date = mr.Header.Get("Date")

	var plain, html string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ct, _, err := h.ContentType()
		if err != nil {
			continue
		}
		body, err := io.ReadAll(p.Body)
		if err != nil {
			continue
		}
		switch ct {
		case "text/plain":
			if plain == "" {
				plain = string(body)
			}
		case "text/html":
			if html == "" {
				html = string(body)
			}
		}
	}

	if plain != "" {
		msg.Body = plain
	} else {
		msg.Body = html
	}
	return msg, nil
}
