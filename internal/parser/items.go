package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/receiptscan/email-receipts/internal/entity"
)

// Line-item shapes in priority order: explicit quantity, "each" pricing,
// then the bare name/price pair. All three are applied and their matches
// accumulated; the shapes overlap on purpose and the extractor does not
// deduplicate, so incidental pricing text can and does produce spurious
// items. Known precision/recall tradeoff, not a bug.
var (
	reItemQty  = regexp.MustCompile(`(\d+)\s+x\s+([\w\s\-&']+)\s+\$?(\d+\.\d{2})`)
	reItemEach = regexp.MustCompile(`([\w\s\-&']+)\s+\$?(\d+\.\d{2})\s+(?:ea|each)`)
	reItemBare = regexp.MustCompile(`([\w\s\-&']+)\s+\$?(\d+\.\d{2})`)
)

// ExtractItems heuristically recovers purchased goods from the normalized
// body. Best-effort only: candidates whose price fails to parse are
// dropped, quantity defaults to 1, and the line total is always derived.
func ExtractItems(body string) []entity.LineItem {
	items := make([]entity.LineItem, 0, 4)

	for _, m := range reItemQty.FindAllStringSubmatch(body, -1) {
		qty, err := strconv.Atoi(m[1])
		if err != nil || qty <= 0 {
			continue
		}
		price, err := decimal.NewFromString(m[3])
		if err != nil || price.IsNegative() {
			continue
		}
		items = append(items, entity.LineItem{
			Name:      strings.TrimSpace(m[2]),
			Quantity:  qty,
			UnitPrice: price,
		})
	}

	for _, m := range reItemEach.FindAllStringSubmatch(body, -1) {
		if item, ok := unitItem(m[1], m[2]); ok {
			items = append(items, item)
		}
	}

	for _, m := range reItemBare.FindAllStringSubmatch(body, -1) {
		if item, ok := unitItem(m[1], m[2]); ok {
			items = append(items, item)
		}
	}

	return items
}

func unitItem(name, rawPrice string) (entity.LineItem, bool) {
	price, err := decimal.NewFromString(rawPrice)
	if err != nil || price.IsNegative() {
		return entity.LineItem{}, false
	}
	return entity.LineItem{
		Name:      strings.TrimSpace(name),
		Quantity:  1,
		UnitPrice: price,
	}, true
}
