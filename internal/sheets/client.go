package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/receiptscan/email-receipts/internal/entity"
)

const headerRange = "A1:K1"

// Client appends accepted receipt rows to a Google spreadsheet. It is a
// thin wrapper over the Sheets API; all record shaping lives in entity.
type Client struct {
	svc    *sheets.Service
	logger *slog.Logger
}

func NewClient(ctx context.Context, credentialsFile, tokenFile string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(creds, sheets.SpreadsheetsScope)
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

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, &tok)))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, logger: logger}, nil
}

// CreateSpreadsheet creates a new spreadsheet with a single "Receipts"
// sheet, frozen header row included, and returns its ID. Used when no
// spreadsheet ID is configured.
func (c *Client) CreateSpreadsheet(ctx context.Context, title string) (string, error) {
	ss := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
		Sheets: []*sheets.Sheet{{
			Properties: &sheets.SheetProperties{
				Title:          "Receipts",
				GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
			},
		}},
	}
	created, err := c.svc.Spreadsheets.Create(ss).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create spreadsheet: %w", err)
	}
	if err := c.EnsureHeader(ctx, created.SpreadsheetId); err != nil {
		return "", err
	}

	c.logger.Info("sheets.created", "spreadsheet_id", created.SpreadsheetId, "title", title)
	return created.SpreadsheetId, nil
}

// EnsureHeader writes the fixed 11-column header row when the sheet is
// still empty. Existing headers are left alone.
func (c *Client) EnsureHeader(ctx context.Context, spreadsheetID string) error {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	header := make([]any, len(entity.RowHeader))
	for i, h := range entity.RowHeader {
		header[i] = h
	}
	vr := &sheets.ValueRange{Values: [][]any{header}}
	_, err = c.svc.Spreadsheets.Values.Update(spreadsheetID, headerRange, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	c.logger.Info("sheets.header.written", "spreadsheet_id", spreadsheetID)
	return nil
}

// AppendRecords appends one row per record below the existing data.
func (c *Client) AppendRecords(ctx context.Context, spreadsheetID string, recs []entity.ReceiptRecord) error {
	if len(recs) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(recs))
	for i := range recs {
		rows = append(rows, recs[i].Row())
	}
	vr := &sheets.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.Append(spreadsheetID, "A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append rows: %w", err)
	}

	c.logger.Info("sheets.append.ok", "spreadsheet_id", spreadsheetID, "rows", len(rows))
	return nil
}

// SpreadsheetURL returns the browser URL for a spreadsheet ID.
func SpreadsheetURL(spreadsheetID string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", spreadsheetID)
}
