package parser

import (
	"strings"
	"time"
)

// dateLayouts covers the date shapes the extraction patterns can capture:
// month-name forms, slashed and dashed US dates, ISO, and day-first forms.
// Tried in order; first parse wins.
var dateLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Jan. 2, 2006",
	"Jan. 2 2006",
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
	"1-2-06",
	"2 January 2006",
	"2 Jan 2006",
	"2 Jan. 2006",
	"2006 January 2",
	"2006 Jan 2",
}

// NormalizeDate rewrites a free-form date capture as YYYY-MM-DD. The
// second return is false when no layout matched; callers keep the raw
// string in that case rather than nulling the field.
func NormalizeDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
