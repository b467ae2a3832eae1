package helpers

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/newsdigest/internal/domain"
)

// Selectors matched by the fixture HTML below. Crawler configs in
// integration tests should use these.
const (
	TestTitleSelector   = "h1.headline"
	TestContentSelector = "div.article-body"
)

// RecordOption mutates a fixture record.
type RecordOption func(*domain.ArticleRecord)

// TestRecord builds an article record fixture with a title and content
// derived from the title.
func TestRecord(url, title string, opts ...RecordOption) *domain.ArticleRecord {
	record := &domain.ArticleRecord{
		URL:     url,
		Title:   domain.OptionalText(title),
		Content: domain.OptionalText("Body text for " + title + "."),
	}
	for _, opt := range opts {
		opt(record)
	}
	return record
}

// WithSummary sets the record's summary.
func WithSummary(text string) RecordOption {
	return func(r *domain.ArticleRecord) {
		r.Summary = domain.OptionalText(text)
	}
}

// WithoutContent clears the record's content.
func WithoutContent() RecordOption {
	return func(r *domain.ArticleRecord) {
		r.Content = nil
	}
}

// ListingHTML renders a listing page linking the given article paths.
func ListingHTML(paths ...string) string {
	var links strings.Builder
	for _, path := range paths {
		fmt.Fprintf(&links, `<li><a href=%q>%s</a></li>`, path, path)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Latest Stories</title></head>
<body>
<ul class="river">%s</ul>
</body>
</html>`, links.String())
}

// ArticleHTML renders an article page matching the test selectors.
func ArticleHTML(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<h1 class="headline">%s</h1>
<div class="article-body"><p>%s</p></div>
</body>
</html>`, title, title, body)
}
