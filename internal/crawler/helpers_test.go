package crawler_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"
	"github.com/stretchr/testify/require"
)

// createHTMLElement creates a colly HTMLElement from an HTML string for
// testing.
func createHTMLElement(t *testing.T, pageURL, htmlContent string) *colly.HTMLElement {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	require.NoError(t, err)

	htmlSelection := doc.Find("html")
	if htmlSelection.Length() == 0 {
		htmlSelection = doc.Selection
	}

	req := newTestRequest(t, pageURL)

	return &colly.HTMLElement{
		Request: req,
		Response: &colly.Response{
			Request:    req,
			StatusCode: http.StatusOK,
			Body:       []byte(htmlContent),
		},
		DOM: htmlSelection,
	}
}

// forEachAnchor invokes fn for every a[href] element the way the
// collector's OnHTML dispatch would.
func forEachAnchor(t *testing.T, pageURL, htmlContent string, fn func(*colly.HTMLElement)) {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	require.NoError(t, err)

	req := newTestRequest(t, pageURL)
	resp := &colly.Response{
		Request:    req,
		StatusCode: http.StatusOK,
		Body:       []byte(htmlContent),
	}

	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			fn(colly.NewHTMLElementFromSelectionNode(resp, s, n, i))
		}
	})
}

func newTestRequest(t *testing.T, pageURL string) *colly.Request {
	t.Helper()

	parsedURL, err := url.Parse(pageURL)
	require.NoError(t, err)

	return &colly.Request{
		URL:     parsedURL,
		Method:  http.MethodGet,
		Headers: &http.Header{},
	}
}
