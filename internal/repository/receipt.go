package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/receiptscan/email-receipts/internal/common"
	"github.com/receiptscan/email-receipts/internal/entity"
)

const receiptsDDL = `
CREATE TABLE IF NOT EXISTS receipts (
	id            TEXT PRIMARY KEY,
	vendor        TEXT,
	tx_date       TEXT,
	total         TEXT,
	subtotal      TEXT,
	tax           TEXT,
	shipping      TEXT,
	discount      TEXT,
	order_number  TEXT,
	currency      TEXT NOT NULL,
	email_subject TEXT NOT NULL,
	email_from    TEXT NOT NULL,
	email_date    TEXT NOT NULL,
	confidence    REAL NOT NULL,
	items_json    TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
)`

// ReceiptRepository persists accepted receipt records.
type ReceiptRepository struct {
	store  *Store
	logger *slog.Logger
}

func NewReceiptRepository(store *Store, logger *slog.Logger) *ReceiptRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReceiptRepository{store: store, logger: logger}
}

// Migrate creates the receipts table if it does not exist yet.
func (r *ReceiptRepository) Migrate(ctx context.Context) error {
	if _, err := r.store.DB.ExecContext(ctx, receiptsDDL); err != nil {
		return fmt.Errorf("create receipts table: %w", err)
	}
	return nil
}

// Save inserts one record and returns its generated row ID.
func (r *ReceiptRepository) Save(ctx context.Context, rec *entity.ReceiptRecord) (uuid.UUID, error) {
	items, err := json.Marshal(rec.Items)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal items: %w", err)
	}

	id := uuid.New()
	query := r.store.bind(`INSERT INTO receipts (
		id, vendor, tx_date, total, subtotal, tax, shipping, discount,
		order_number, currency, email_subject, email_from, email_date,
		confidence, items_json, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = r.store.DB.ExecContext(ctx, query,
		id.String(),
		nullStr(rec.Vendor),
		nullStr(rec.Date),
		nullMoney(rec.Total),
		nullMoney(rec.Subtotal),
		nullMoney(rec.Tax),
		nullMoney(rec.Shipping),
		nullMoney(rec.Discount),
		nullStr(rec.OrderNumber),
		rec.Currency,
		rec.EmailSubject,
		rec.EmailFrom,
		rec.EmailDate,
		rec.Confidence,
		string(items),
		// fixed-width fraction keeps lexicographic order == insertion order
		time.Now().UTC().Format("2006-01-02 15:04:05.000000000"),
	)
	if err != nil {
		return uuid.Nil, common.NewAppError("DB_INSERT", "insert receipt", err)
	}

	r.logger.Info("receipt.saved", "id", id.String(), "vendor", strOrEmpty(rec.Vendor), "confidence", rec.Confidence)
	return id, nil
}

// List returns all stored records in insertion order.
func (r *ReceiptRepository) List(ctx context.Context) ([]entity.ReceiptRecord, error) {
	query := r.store.bind(`SELECT vendor, tx_date, total, subtotal, tax, shipping,
		discount, order_number, currency, email_subject, email_from, email_date,
		confidence, items_json
	FROM receipts ORDER BY created_at, id`)

	rows, err := r.store.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, common.NewAppError("DB_QUERY", "query receipts", err)
	}
	defer rows.Close()

	var recs []entity.ReceiptRecord
	for rows.Next() {
		var (
			rec       entity.ReceiptRecord
			vendor    sql.NullString
			txDate    sql.NullString
			total     sql.NullString
			subtotal  sql.NullString
			tax       sql.NullString
			shipping  sql.NullString
			discount  sql.NullString
			orderNum  sql.NullString
			itemsJSON string
		)
		if err := rows.Scan(&vendor, &txDate, &total, &subtotal, &tax, &shipping,
			&discount, &orderNum, &rec.Currency, &rec.EmailSubject, &rec.EmailFrom,
			&rec.EmailDate, &rec.Confidence, &itemsJSON); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		rec.Vendor = strPtr(vendor)
		rec.Date = strPtr(txDate)
		rec.Total = moneyPtr(total)
		rec.Subtotal = moneyPtr(subtotal)
		rec.Tax = moneyPtr(tax)
		rec.Shipping = moneyPtr(shipping)
		rec.Discount = moneyPtr(discount)
		rec.OrderNumber = strPtr(orderNum)
		rec.Items = []entity.LineItem{}
		if err := json.Unmarshal([]byte(itemsJSON), &rec.Items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func nullStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullMoney(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func moneyPtr(ns sql.NullString) *decimal.Decimal {
	if !ns.Valid {
		return nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil
	}
	return &d
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
