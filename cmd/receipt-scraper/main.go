package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/receiptscan/email-receipts/internal/async"
	"github.com/receiptscan/email-receipts/internal/common"
	"github.com/receiptscan/email-receipts/internal/entity"
	"github.com/receiptscan/email-receipts/internal/export"
	"github.com/receiptscan/email-receipts/internal/inbox"
	"github.com/receiptscan/email-receipts/internal/parser"
	"github.com/receiptscan/email-receipts/internal/repository"
	"github.com/receiptscan/email-receipts/internal/sheets"
)

func main() {
	fs := ff.NewFlagSet("receipt-scraper")
	var (
		inputDir    = fs.StringLong("input-dir", "", "read messages from a directory of JSON files instead of Gmail")
		useIMAP     = fs.BoolLong("imap", "fetch over IMAP instead of the Gmail API (see IMAP_* env vars)")
		out         = fs.StringLong("out", "receipts.xlsx", "output XLSX file path")
		saveDir     = fs.StringLong("save-dir", "", "also save each accepted receipt as a JSON file in this directory")
		workers     = fs.IntLong("workers", 4, "number of parse workers")
		query       = fs.StringLong("query", "", "Gmail search query (overrides GMAIL_QUERY)")
		maxMessages = fs.IntLong("max", 0, "maximum messages to fetch (overrides GMAIL_MAX_MESSAGES)")
		appendSheet = fs.BoolLong("append-sheet", "append accepted receipts to the configured Google spreadsheet")
		inmem       = fs.BoolLong("inmem", "use an in-memory SQLite store")
	)
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("RECEIPTS")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *query != "" {
		cfg.Inbox.Query = *query
	}
	if *maxMessages > 0 {
		cfg.Inbox.MaxMessages = *maxMessages
	}
	if *inmem {
		cfg.Store.DSN = ":memory:"
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger, *inputDir, *out, *saveDir, *workers, *appendSheet, *useIMAP); err != nil {
		logger.Error("scrape failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *common.Config, logger *slog.Logger,
	inputDir, out, saveDir string, workers int, appendSheet, useIMAP bool) error {

	store, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Store.DSN,
		DialTimeout: cfg.Store.DialTimeout,
	}, logger)
	if err != nil {
		return err
	}
	defer store.Close(logger)

	repo := repository.NewReceiptRepository(store, logger)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}

	validator, err := parser.NewRecordValidator()
	if err != nil {
		return err
	}

	var source inbox.Source
	switch {
	case inputDir != "":
		source = inbox.NewDirSource(inputDir, logger)
	case useIMAP:
		source, err = inbox.NewIMAPSource(inbox.IMAPConfig{
			Address:  cfg.Inbox.IMAP.Address,
			Password: cfg.Inbox.IMAP.Password,
			Host:     cfg.Inbox.IMAP.Host,
			Port:     cfg.Inbox.IMAP.Port,
			Mailbox:  cfg.Inbox.IMAP.Mailbox,
		}, logger)
		if err != nil {
			return err
		}
	default:
		source, err = inbox.NewGmailSource(ctx, cfg.Google.CredentialsFile, cfg.Google.TokenFile, logger)
		if err != nil {
			return err
		}
	}

	logger.Info("fetching messages", "query", cfg.Inbox.Query, "max", cfg.Inbox.MaxMessages)
	msgs, err := source.Fetch(ctx, cfg.Inbox.Query, cfg.Inbox.MaxMessages)
	if err != nil {
		return err
	}
	logger.Info("messages fetched", "count", len(msgs))

	eng := parser.New(parser.Config{DefaultCurrency: cfg.Parser.DefaultCurrency}, logger)
	queue := async.NewParseQueue(eng, validator, repo, cfg.Parser.MinConfidence, logger,
		async.WithWorkers(workers),
		async.WithQueueSize(len(msgs)+1),
	)
	for _, msg := range msgs {
		if err := queue.Enqueue(ctx, async.Job{Message: msg, SubmittedAt: time.Now()}); err != nil {
			break
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	queue.Shutdown(shutdownCtx)
	cancel()

	accepted := queue.Accepted()
	logger.Info("parsing complete", "accepted", len(accepted), "fetched", len(msgs))

	if saveDir != "" {
		if err := saveReceipts(saveDir, accepted); err != nil {
			return err
		}
	}

	if out != "" {
		svc := export.NewService(repo, logger)
		xlsx, err := svc.ExportReceiptsXLSX(ctx)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, xlsx, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		logger.Info("workbook written", "path", out)
	}

	if appendSheet {
		client, err := sheets.NewClient(ctx, cfg.Google.CredentialsFile, cfg.Google.TokenFile, logger)
		if err != nil {
			return err
		}
		spreadsheetID := cfg.Google.SpreadsheetID
		if spreadsheetID == "" {
			spreadsheetID, err = client.CreateSpreadsheet(ctx, cfg.Google.SpreadsheetTitle)
			if err != nil {
				return err
			}
			logger.Info("created new spreadsheet", "url", sheets.SpreadsheetURL(spreadsheetID))
		} else if err := client.EnsureHeader(ctx, spreadsheetID); err != nil {
			return err
		}
		if err := client.AppendRecords(ctx, spreadsheetID, accepted); err != nil {
			return err
		}
		fmt.Printf("Receipt data appended to %s\n", sheets.SpreadsheetURL(spreadsheetID))
	}

	return nil
}

func saveReceipts(dir string, recs []entity.ReceiptRecord) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for i, rec := range recs {
		date := time.Now().Format("2006-01-02")
		if rec.Date != nil {
			date = *rec.Date
		}
		vendor := "unknown"
		if rec.Vendor != nil {
			vendor = *rec.Vendor
		}
		raw, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal receipt: %w", err)
		}
		name := fmt.Sprintf("receipt_%s_%s_%d.json", date, vendor, i)
		if err := os.WriteFile(filepath.Join(dir, name), raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
