package parser

import "regexp"

// field identifies one extractable receipt field.
type field int

const (
	fieldTotal field = iota
	fieldDate
	fieldVendor
	fieldOrderNumber
	fieldSubtotal
	fieldTax
	fieldShipping
	fieldDiscount
)

func (f field) String() string {
	switch f {
	case fieldTotal:
		return "total"
	case fieldDate:
		return "date"
	case fieldVendor:
		return "vendor"
	case fieldOrderNumber:
		return "order_number"
	case fieldSubtotal:
		return "subtotal"
	case fieldTax:
		return "tax"
	case fieldShipping:
		return "shipping"
	case fieldDiscount:
		return "discount"
	}
	return "unknown"
}

// fieldRules is one field's ordered pattern cascade. The first pattern
// whose first capturing group matches wins; later patterns are not tried.
type fieldRules struct {
	field    field
	patterns []*regexp.Regexp
}

func rx(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + expr)
}

// genericRules is evaluated top-down per field. Slice, not map: the
// iteration order is part of the extraction contract.
var genericRules = []fieldRules{
	{fieldTotal, []*regexp.Regexp{
		rx(`(?:total|amount|sum)(?:\s+\w+){0,3}?\s*[:]\s*[$€£]?([0-9,]+\.[0-9]{2})`),
		rx(`(?:total|amount|sum)(?:\s+\w+){0,3}?\s*[$€£]([0-9,]+\.[0-9]{2})`),
		rx(`(?:total|amount|sum)(?:\s+\w+){0,3}?\s*\$\s*([0-9,]+\.[0-9]{2})`),
		rx(`(?:total|amount|sum)(?:\s+\w+){0,3}?\s*\$([0-9,]+\.[0-9]{2})`),
		rx(`(?:total|amount|sum)(?:\s+\w+){0,3}?\s*([0-9,]+\.[0-9]{2})`),
	}},
	{fieldDate, []*regexp.Regexp{
		rx(`(?:date|purchased|order date|invoice date)(?:\s+\w+){0,3}?\s*[:]\s*([A-Za-z]{3,9}\.?\s+\d{1,2},?\s+\d{4})`),
		rx(`(?:date|purchased|order date|invoice date)(?:\s+\w+){0,3}?\s*[:]\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		rx(`(?:date|purchased|order date|invoice date)(?:\s+\w+){0,3}?\s*[:]\s*(\d{4}[/-]\d{1,2}[/-]\d{1,2})`),
		rx(`(?:date|purchased|order date|invoice date)(?:\s+\w+){0,3}?\s*[:]\s*(\d{1,2}\s+[A-Za-z]{3,9}\.?\s+\d{4})`),
		rx(`(?:date|purchased|order date|invoice date)(?:\s+\w+){0,3}?\s*[:]\s*(\d{4}\s+[A-Za-z]{3,9}\.?\s+\d{1,2})`),
	}},
	{fieldVendor, []*regexp.Regexp{
		rx(`(?:from|vendor|merchant|store|retailer)(?:\s+\w+){0,3}?\s*[:]\s*([A-Za-z0-9\s&',\.]+)`),
		rx(`(?:thank you for shopping at|thank you for your order from|thank you for your purchase from)(?:\s+\w+){0,3}?\s*([A-Za-z0-9\s&',\.]+)`),
		rx(`(?:receipt from|order from|purchase from)(?:\s+\w+){0,3}?\s*([A-Za-z0-9\s&',\.]+)`),
	}},
	{fieldOrderNumber, []*regexp.Regexp{
		rx(`(?:order|confirmation|reference|invoice|receipt)(?:\s+\w+){0,3}?\s*(?:number|#|no|id)(?:\s+\w+){0,3}?\s*[:]\s*([A-Za-z0-9\-]+)`),
		rx(`(?:order|confirmation|reference|invoice|receipt)(?:\s+\w+){0,3}?\s*(?:number|#|no|id)(?:\s+\w+){0,3}?\s*([A-Za-z0-9\-]+)`),
		rx(`(?:order|confirmation|reference|invoice|receipt)(?:\s+\w+){0,3}?\s*(?:#|no|id)(?:\s+\w+){0,3}?\s*[:]\s*([A-Za-z0-9\-]+)`),
	}},
	{fieldSubtotal, []*regexp.Regexp{
		rx(`(?:subtotal|sub-total|sub total)(?:\s+\w+){0,3}?\s*[:]\s*[$€£]?([0-9,]+\.[0-9]{2})`),
		rx(`(?:subtotal|sub-total|sub total)(?:\s+\w+){0,3}?\s*[$€£]([0-9,]+\.[0-9]{2})`),
		rx(`(?:subtotal|sub-total|sub total)(?:\s+\w+){0,3}?\s*\$\s*([0-9,]+\.[0-9]{2})`),
		rx(`(?:subtotal|sub-total|sub total)(?:\s+\w+){0,3}?\s*\$([0-9,]+\.[0-9]{2})`),
		rx(`(?:subtotal|sub-total|sub total)(?:\s+\w+){0,3}?\s*([0-9,]+\.[0-9]{2})`),
	}},
	{fieldTax, []*regexp.Regexp{
		rx(`(?:tax|vat|gst|hst|pst)(?:\s+\w+){0,3}?\s*[:]\s*[$€£]?([0-9,]+\.[0-9]{2})`),
		rx(`(?:tax|vat|gst|hst|pst)(?:\s+\w+){0,3}?\s*[$€£]([0-9,]+\.[0-9]{2})`),
		rx(`(?:tax|vat|gst|hst|pst)(?:\s+\w+){0,3}?\s*\$\s*([0-9,]+\.[0-9]{2})`),
		rx(`(?:tax|vat|gst|hst|pst)(?:\s+\w+){0,3}?\s*\$([0-9,]+\.[0-9]{2})`),
		rx(`(?:tax|vat|gst|hst|pst)(?:\s+\w+){0,3}?\s*([0-9,]+\.[0-9]{2})`),
	}},
	{fieldShipping, []*regexp.Regexp{
		rx(`(?:shipping|delivery|freight)(?:\s+\w+){0,3}?\s*[:]\s*[$€£]?([0-9,]+\.[0-9]{2})`),
		rx(`(?:shipping|delivery|freight)(?:\s+\w+){0,3}?\s*[$€£]([0-9,]+\.[0-9]{2})`),
		rx(`(?:shipping|delivery|freight)(?:\s+\w+){0,3}?\s*\$\s*([0-9,]+\.[0-9]{2})`),
		rx(`(?:shipping|delivery|freight)(?:\s+\w+){0,3}?\s*\$([0-9,]+\.[0-9]{2})`),
		rx(`(?:shipping|delivery|freight)(?:\s+\w+){0,3}?\s*([0-9,]+\.[0-9]{2})`),
	}},
	{fieldDiscount, []*regexp.Regexp{
		rx(`(?:discount|savings|coupon|promo)(?:\s+\w+){0,3}?\s*[:]\s*[$€£]?([0-9,]+\.[0-9]{2})`),
		rx(`(?:discount|savings|coupon|promo)(?:\s+\w+){0,3}?\s*[$€£]([0-9,]+\.[0-9]{2})`),
		rx(`(?:discount|savings|coupon|promo)(?:\s+\w+){0,3}?\s*\$\s*([0-9,]+\.[0-9]{2})`),
		rx(`(?:discount|savings|coupon|promo)(?:\s+\w+){0,3}?\s*\$([0-9,]+\.[0-9]{2})`),
		rx(`(?:discount|savings|coupon|promo)(?:\s+\w+){0,3}?\s*([0-9,]+\.[0-9]{2})`),
	}},
}

// vendorRule pairs one field with a single tighter pattern.
type vendorRule struct {
	field field
	re    *regexp.Regexp
}

// vendorProfile is the vendor-specific pattern set for one known merchant.
// display overrides the vendor field outright; rules run before the
// generic cascade and whatever they populate is never overwritten.
type vendorProfile struct {
	display string
	rules   []vendorRule
}

// vendorProfiles is keyed by the lower-cased vendor display name.
var vendorProfiles = map[string]vendorProfile{
	"amazon": {
		display: "Amazon",
		rules: []vendorRule{
			{fieldTotal, rx(`(?:Grand Total|Order Total):\s*\$([0-9,]+\.[0-9]{2})`)},
			{fieldDate, rx(`(?:Order Placed|Date):\s*([A-Za-z]+\s+\d{1,2},\s+\d{4})`)},
			{fieldOrderNumber, rx(`(?:Order|Confirmation)?\s*#\s*([A-Z0-9\-]+)`)},
		},
	},
	"walmart": {
		display: "Walmart",
		rules: []vendorRule{
			{fieldTotal, rx(`(?:Total|Order Total):\s*\$([0-9,]+\.[0-9]{2})`)},
			{fieldDate, rx(`(?:Date|Order Date):\s*(\d{1,2}/\d{1,2}/\d{2,4})`)},
			{fieldOrderNumber, rx(`(?:Order|Receipt) #:\s*(\d+)`)},
		},
	},
	"target": {
		display: "Target",
		rules: []vendorRule{
			{fieldTotal, rx(`(?:Total):\s*\$([0-9,]+\.[0-9]{2})`)},
			{fieldDate, rx(`(?:Date):\s*(\d{1,2}/\d{1,2}/\d{2,4})`)},
			{fieldOrderNumber, rx(`(?:Receipt) #:\s*(\d+)`)},
		},
	},
	"starbucks": {
		display: "Starbucks",
		rules: []vendorRule{
			{fieldTotal, rx(`(?:Total):\s*\$([0-9,]+\.[0-9]{2})`)},
			{fieldDate, rx(`(?:Date):\s*([A-Za-z]+\s+\d{1,2},\s+\d{4})`)},
			{fieldOrderNumber, rx(`(?:Order) #:\s*(\d+)`)},
		},
	},
	"uber eats": {
		display: "Uber Eats",
		rules: []vendorRule{
			{fieldTotal, rx(`(?:Total):\s*\$([0-9,]+\.[0-9]{2})`)},
			{fieldDate, rx(`(?:Date):\s*([A-Za-z]+\s+\d{1,2},\s+\d{4})`)},
			{fieldOrderNumber, rx(`(?:Order) #:\s*([A-Z0-9\-]+)`)},
		},
	},
	"doordash": {
		display: "DoorDash",
		rules: []vendorRule{
			{fieldTotal, rx(`(?:Total):\s*\$([0-9,]+\.[0-9]{2})`)},
			{fieldDate, rx(`(?:Date):\s*([A-Za-z]+\s+\d{1,2},\s+\d{4})`)},
			{fieldOrderNumber, rx(`(?:Order) #:\s*([A-Z0-9\-]+)`)},
		},
	},
}
