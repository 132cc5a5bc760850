package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/receiptscan/email-receipts/internal/entity"
)

// moneyField reports whether a field holds a monetary amount and needs
// decimal conversion before it can be written.
func moneyField(f field) bool {
	switch f {
	case fieldTotal, fieldSubtotal, fieldTax, fieldShipping, fieldDiscount:
		return true
	}
	return false
}

// populated reports whether a field already holds a value. Both cascades
// gate their writes on this: first writer wins, across passes.
func populated(rec *entity.ReceiptRecord, f field) bool {
	switch f {
	case fieldTotal:
		return rec.Total != nil
	case fieldDate:
		return rec.Date != nil
	case fieldVendor:
		return rec.Vendor != nil
	case fieldOrderNumber:
		return rec.OrderNumber != nil
	case fieldSubtotal:
		return rec.Subtotal != nil
	case fieldTax:
		return rec.Tax != nil
	case fieldShipping:
		return rec.Shipping != nil
	case fieldDiscount:
		return rec.Discount != nil
	}
	return false
}

// assign converts the raw captured substring and writes it into the
// record. A false return means the capture failed conversion and the
// cascade should treat the pattern as a miss and keep going.
func assign(rec *entity.ReceiptRecord, f field, raw string) bool {
	if moneyField(f) {
		d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
		if err != nil || d.IsNegative() {
			return false
		}
		switch f {
		case fieldTotal:
			rec.Total = &d
		case fieldSubtotal:
			rec.Subtotal = &d
		case fieldTax:
			rec.Tax = &d
		case fieldShipping:
			rec.Shipping = &d
		case fieldDiscount:
			rec.Discount = &d
		}
		return true
	}

	switch f {
	case fieldDate:
		rec.Date = &raw
	case fieldVendor:
		rec.Vendor = &raw
	case fieldOrderNumber:
		rec.OrderNumber = &raw
	}
	return true
}

// applyVendorRules runs a known merchant's tighter pattern set. The
// display name is written outright; everything else goes through the
// usual conversion rules.
func applyVendorRules(rec *entity.ReceiptRecord, vp vendorProfile, body string) {
	display := vp.display
	rec.Vendor = &display

	for _, r := range vp.rules {
		if populated(rec, r.field) {
			continue
		}
		m := r.re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		assign(rec, r.field, strings.TrimSpace(m[1]))
	}
}

// applyGenericRules runs the fallback cascade, filling only fields that
// are still empty. Per field the first matching pattern whose capture
// converts cleanly wins and ends that field's cascade.
func applyGenericRules(rec *entity.ReceiptRecord, body string) {
	for _, fr := range genericRules {
		if populated(rec, fr.field) {
			continue
		}
		for _, re := range fr.patterns {
			m := re.FindStringSubmatch(body)
			if m == nil {
				continue
			}
			if assign(rec, fr.field, strings.TrimSpace(m[1])) {
				break
			}
		}
	}
}
