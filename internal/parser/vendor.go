package parser

import "strings"

// receiptKeywords gates vendor identification: mail whose subject carries
// none of these is assumed unrelated and gets no vendor at all.
var receiptKeywords = []string{"receipt", "order", "purchase", "confirmation", "invoice"}

type domainVendor struct {
	domain string
	vendor string
}

// domainTable maps sender domains to display names. Checked in order with
// substring containment, so the table key only needs to appear within the
// extracted domain. Domain is the strongest vendor signal we have.
var domainTable = []domainVendor{
	{"amazon.com", "Amazon"},
	{"walmart.com", "Walmart"},
	{"target.com", "Target"},
	{"starbucks.com", "Starbucks"},
	{"uber.com", "Uber Eats"},
	{"doordash.com", "DoorDash"},
	{"bestbuy.com", "Best Buy"},
	{"homedepot.com", "Home Depot"},
	{"lowes.com", "Lowes"},
	{"costco.com", "Costco"},
	{"samsclub.com", "Sam's Club"},
	{"apple.com", "Apple"},
	{"microsoft.com", "Microsoft"},
	{"ebay.com", "eBay"},
	{"etsy.com", "Etsy"},
}

// vendorNames is the weaker subject-scan fallback, in priority order.
var vendorNames = []string{
	"Amazon", "Walmart", "Target", "Starbucks", "Uber Eats",
	"DoorDash", "Best Buy", "Home Depot", "Lowes", "Costco",
	"Sam's Club", "Apple", "Microsoft", "eBay", "Etsy",
}

// IdentifyVendor infers a known merchant from the sender address and
// subject. It returns "" when the mail does not look like a receipt or
// no known vendor signal is present.
func IdentifyVendor(subject, from string) string {
	subjectLower := strings.ToLower(subject)

	isReceipt := false
	for _, kw := range receiptKeywords {
		if strings.Contains(subjectLower, kw) {
			isReceipt = true
			break
		}
	}
	if !isReceipt {
		return ""
	}

	if domain := senderDomain(from); domain != "" {
		for _, dv := range domainTable {
			if strings.Contains(domain, dv.domain) {
				return dv.vendor
			}
		}
	}

	for _, name := range vendorNames {
		if strings.Contains(subjectLower, strings.ToLower(name)) {
			return name
		}
	}

	return ""
}

// senderDomain returns the lower-cased text after '@' up to the closing
// '>' of an angle-bracketed address, or "" when there is no '@' at all.
func senderDomain(from string) string {
	at := strings.Index(from, "@")
	if at < 0 {
		return ""
	}
	domain := from[at+1:]
	if end := strings.Index(domain, ">"); end >= 0 {
		domain = domain[:end]
	}
	return strings.ToLower(domain)
}
