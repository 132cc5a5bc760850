package parser

import "github.com/receiptscan/email-receipts/internal/entity"

const (
	requiredWeight = 0.7
	optionalWeight = 0.3
)

// Confidence scores a record purely from which of the 8 scored fields
// were populated: required {vendor, date, total} weighted 0.7, optional
// {subtotal, tax, shipping, discount, order_number} weighted 0.3.
// Item extraction never influences the score.
func Confidence(rec *entity.ReceiptRecord) float64 {
	required := 0
	if rec.Vendor != nil {
		required++
	}
	if rec.Date != nil {
		required++
	}
	if rec.Total != nil {
		required++
	}

	optional := 0
	if rec.Subtotal != nil {
		optional++
	}
	if rec.Tax != nil {
		optional++
	}
	if rec.Shipping != nil {
		optional++
	}
	if rec.Discount != nil {
		optional++
	}
	if rec.OrderNumber != nil {
		optional++
	}

	return float64(required)/3*requiredWeight + float64(optional)/5*optionalWeight
}
