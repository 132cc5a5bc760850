package parser

import (
	"strings"

	"golang.org/x/net/html"
)

// NormalizeBody converts an HTML email body into a newline-joined stream
// of trimmed text fragments suitable for pattern matching. Bodies without
// markup indicators are returned verbatim, and any conversion failure
// falls back to the original text rather than surfacing an error.
func NormalizeBody(body string) string {
	lower := strings.ToLower(body)
	if !strings.Contains(lower, "<html") && !strings.Contains(lower, "<body") {
		return body
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return body
	}

	var fragments []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			// collapse internal whitespace, drop empty fragments
			if frag := strings.Join(strings.Fields(n.Data), " "); frag != "" {
				fragments = append(fragments, frag)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(fragments, "\n")
}
