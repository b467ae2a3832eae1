package crawler_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsdigest/internal/crawler"
	"github.com/jonesrussell/newsdigest/internal/logger"
)

// enqueueRecorder captures enqueue calls and returns configured errors.
type enqueueRecorder struct {
	urls   []string
	labels []crawler.Label
	err    error
}

func (r *enqueueRecorder) enqueue(rawURL string, label crawler.Label) error {
	r.urls = append(r.urls, rawURL)
	r.labels = append(r.labels, label)
	return r.err
}

func newListingHandler(t *testing.T, recorder *enqueueRecorder) *crawler.ListingHandler {
	t.Helper()

	pattern, err := crawler.CompileGlob("https://www.wired.com/story/**")
	require.NoError(t, err)

	return crawler.NewListingHandler(logger.NewNoOp(), pattern, recorder.enqueue)
}

func TestListingHandler_EnqueuesMatchingLinks(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<a href="/story/first-article">First</a>
		<a href="https://www.wired.com/story/second-article">Second</a>
		<a href="/tag/programming">Tag page</a>
		<a href="https://example.com/story/elsewhere">Other site</a>
	</body></html>`

	recorder := &enqueueRecorder{}
	handler := newListingHandler(t, recorder)

	forEachAnchor(t, "https://www.wired.com/tag/programming", html, handler.HandleLink)

	require.Equal(t, []string{
		"https://www.wired.com/story/first-article",
		"https://www.wired.com/story/second-article",
	}, recorder.urls)

	for _, label := range recorder.labels {
		assert.Equal(t, crawler.LabelArticle, label)
	}
}

func TestListingHandler_SkipsPseudoLinks(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<a href="#section">Fragment</a>
		<a href="javascript:void(0)">Script</a>
		<a href="mailto:news@wired.com">Mail</a>
		<a href="tel:+15551234567">Phone</a>
	</body></html>`

	recorder := &enqueueRecorder{}
	handler := newListingHandler(t, recorder)

	forEachAnchor(t, "https://www.wired.com/tag/programming", html, handler.HandleLink)

	assert.Empty(t, recorder.urls)
}

func TestListingHandler_NoMatchesIsValid(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<a href="/about">About</a>
		<a href="/contact">Contact</a>
	</body></html>`

	recorder := &enqueueRecorder{}
	handler := newListingHandler(t, recorder)

	forEachAnchor(t, "https://www.wired.com/tag/programming", html, handler.HandleLink)

	assert.Empty(t, recorder.urls)
}

func TestListingHandler_ToleratesExpectedEnqueueErrors(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<a href="/story/seen-before">Seen</a>
	</body></html>`

	recorder := &enqueueRecorder{err: errors.New("URL already visited")}
	handler := newListingHandler(t, recorder)

	forEachAnchor(t, "https://www.wired.com/tag/programming", html, handler.HandleLink)

	// The enqueue was attempted; the duplicate is simply skipped.
	assert.Len(t, recorder.urls, 1)
}
