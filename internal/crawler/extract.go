package crawler

import (
	"strings"

	colly "github.com/gocolly/colly/v2"
)

// extractText extracts text from the first element matching the selector.
// Returns empty string if nothing matches. Comma-separated selectors are
// tried in order.
func extractText(e *colly.HTMLElement, selector string) string {
	if selector == "" {
		return ""
	}

	selectors := strings.Split(selector, ",")
	for _, sel := range selectors {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		// ChildText covers direct children, DOM.Find searches anywhere
		// in the element.
		text := e.ChildText(sel)
		if text != "" {
			return strings.TrimSpace(text)
		}
		element := e.DOM.Find(sel).First()
		if element.Length() > 0 {
			text = element.Text()
			if text != "" {
				return strings.TrimSpace(text)
			}
		}
	}
	return ""
}
