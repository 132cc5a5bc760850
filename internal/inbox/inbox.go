package inbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/receiptscan/email-receipts/internal/entity"
)

// Source fetches inbound messages for the scraper. Implementations own
// all I/O and authentication; the extraction engine never sees them.
type Source interface {
	Fetch(ctx context.Context, query string, max int) ([]entity.InboundMessage, error)
}

// DirSource reads messages from a directory of JSON files, one message
// per file with the {subject, from, date, body} shape. Useful for local
// runs and fixtures; the query is ignored.
type DirSource struct {
	dir    string
	logger *slog.Logger
}

func NewDirSource(dir string, logger *slog.Logger) *DirSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirSource{dir: dir, logger: logger}
}

func (s *DirSource) Fetch(ctx context.Context, _ string, max int) ([]entity.InboundMessage, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read message dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	msgs := make([]entity.InboundMessage, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if max > 0 && len(msgs) >= max {
			break
		}
		path := filepath.Join(s.dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var msg entity.InboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.Warn("inbox.dir.skip", "file", name, "error", err)
			continue
		}
		msgs = append(msgs, msg)
	}

	s.logger.Info("inbox.dir.fetched", "dir", s.dir, "messages", len(msgs))
	return msgs, nil
}
