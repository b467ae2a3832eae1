package crawler

import (
	"regexp"
	"strings"

	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/newsdigest/internal/logger"
)

// EnqueueFunc requests a visit of the given URL under the given label.
type EnqueueFunc func(rawURL string, label Label) error

// ListingHandler routes article links found on listing pages. It never
// fetches, emits records, or bills.
type ListingHandler struct {
	logger         logger.Interface
	articlePattern *regexp.Regexp
	enqueue        EnqueueFunc
}

// NewListingHandler creates a handler that enqueues links matching the
// article pattern.
func NewListingHandler(log logger.Interface, articlePattern *regexp.Regexp, enqueue EnqueueFunc) *ListingHandler {
	return &ListingHandler{
		logger:         log,
		articlePattern: articlePattern,
		enqueue:        enqueue,
	}
}

// HandleLink processes a single anchor from a listing page.
func (h *ListingHandler) HandleLink(e *colly.HTMLElement) {
	link := e.Attr("href")
	if link == "" {
		return
	}

	if shouldSkipLink(link) {
		return
	}

	absLink := e.Request.AbsoluteURL(link)
	if absLink == "" {
		h.logger.Debug("Failed to make absolute URL", "url", link)
		return
	}

	if !h.articlePattern.MatchString(absLink) {
		return
	}

	if err := h.enqueue(absLink, LabelArticle); err != nil {
		if isExpectedCrawlError(err) {
			h.logger.Debug("Skipping article link", "url", absLink, "reason", err)
			return
		}
		h.logger.Warn("Failed to enqueue article link", "url", absLink, "error", err)
	}
}

// shouldSkipLink reports whether a link is a pseudo-link that should be
// skipped before URL resolution.
func shouldSkipLink(link string) bool {
	skipPrefixes := []string{"#", "javascript:", "mailto:", "tel:"}

	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(link, prefix) {
			return true
		}
	}

	return false
}
