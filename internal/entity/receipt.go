package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ReceiptRecord is the record produced for one parsed email. Optional
// fields are pointers; nil means the extractor found nothing for them.
type ReceiptRecord struct {
	Vendor      *string          `json:"vendor"`
	Date        *string          `json:"date"` // YYYY-MM-DD once normalized, else raw capture
	Total       *decimal.Decimal `json:"total"`
	Subtotal    *decimal.Decimal `json:"subtotal"`
	Tax         *decimal.Decimal `json:"tax"`
	Shipping    *decimal.Decimal `json:"shipping"`
	Discount    *decimal.Decimal `json:"discount"`
	OrderNumber *string          `json:"order_number"`
	Items       []LineItem       `json:"items"`
	Currency    string           `json:"currency"`

	// Source metadata echoed from the input for traceability.
	EmailSubject string `json:"email_subject"`
	EmailFrom    string `json:"email_from"`
	EmailDate    string `json:"email_date"`

	Confidence float64 `json:"confidence"`
}

// LineItem is one heuristically recovered purchased good. Its total is
// always derived from quantity and unit price, never extracted on its own.
type LineItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Total returns quantity × unit price.
func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// MarshalJSON includes the derived line total so serialized records are
// self-contained.
func (li LineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string          `json:"name"`
		Quantity int             `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
		Total    decimal.Decimal `json:"total"`
	}{
		Name:     li.Name,
		Quantity: li.Quantity,
		Price:    li.UnitPrice,
		Total:    li.Total(),
	})
}

// UnmarshalJSON accepts the serialized shape and drops the stored total;
// it is recomputed from quantity × price on the way out.
func (li *LineItem) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name     string          `json:"name"`
		Quantity int             `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	li.Name = raw.Name
	li.Quantity = raw.Quantity
	li.UnitPrice = raw.Price
	return nil
}

// RowHeader is the fixed column order expected by the spreadsheet sink.
// Downstream storage depends on this exact order; do not reorder.
var RowHeader = []string{
	"date",
	"vendor",
	"total",
	"subtotal",
	"tax",
	"shipping",
	"discount",
	"order_number",
	"currency",
	"email_subject",
	"confidence",
}

// Row flattens the record into the fixed 11-column shape of RowHeader.
// Missing optionals become empty cells, money becomes numbers.
func (r *ReceiptRecord) Row() []any {
	return []any{
		strCell(r.Date),
		strCell(r.Vendor),
		moneyCell(r.Total),
		moneyCell(r.Subtotal),
		moneyCell(r.Tax),
		moneyCell(r.Shipping),
		moneyCell(r.Discount),
		strCell(r.OrderNumber),
		r.Currency,
		r.EmailSubject,
		r.Confidence,
	}
}

func strCell(s *string) any {
	if s == nil {
		return ""
	}
	return *s
}

func moneyCell(d *decimal.Decimal) any {
	if d == nil {
		return ""
	}
	f, _ := d.Float64()
	return f
}
