package parser

import (
	"log/slog"
	"strings"

	"github.com/receiptscan/email-receipts/internal/entity"
)

// Parser is the receipt extraction engine. The pattern tables it runs
// are package-level and compiled once, so a single Parser is safe to
// share across goroutines; Parse holds no state between calls.
type Parser struct {
	defaultCurrency string
	logger          *slog.Logger
}

type Config struct {
	DefaultCurrency string // default USD
}

func New(cfg Config, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "USD"
	}
	return &Parser{defaultCurrency: cfg.DefaultCurrency, logger: logger}
}

// Parse extracts a receipt record from one email. It is a pure function
// of the message and the static tables: malformed input degrades to nil
// fields and a low confidence score, never an error.
func (p *Parser) Parse(msg entity.InboundMessage) entity.ReceiptRecord {
	body := NormalizeBody(msg.Body)

	rec := entity.ReceiptRecord{
		Items:        []entity.LineItem{},
		Currency:     p.defaultCurrency,
		EmailSubject: msg.Subject,
		EmailFrom:    msg.From,
		EmailDate:    msg.Date,
	}

	if vendor := IdentifyVendor(msg.Subject, msg.From); vendor != "" {
		rec.Vendor = &vendor
		if vp, ok := vendorProfiles[strings.ToLower(vendor)]; ok {
			applyVendorRules(&rec, vp, body)
		}
	}

	applyGenericRules(&rec, body)

	if rec.Date != nil {
		if iso, ok := NormalizeDate(*rec.Date); ok {
			rec.Date = &iso
		}
		// unparseable dates keep the raw capture
	}

	rec.Items = ExtractItems(body)
	rec.Confidence = Confidence(&rec)

	p.logger.Debug("parse.done",
		"subject", msg.Subject,
		"vendor", strCellLog(rec.Vendor),
		"items", len(rec.Items),
		"confidence", rec.Confidence,
	)
	return rec
}

func strCellLog(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
