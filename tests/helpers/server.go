package helpers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
)

// SiteArticle is one article served by a NewsSite.
type SiteArticle struct {
	// Path is the URL path of the article page, e.g. "/story/alpha".
	Path  string
	Title string
	Body  string
}

// NewsSite is a mock news feed for crawl tests: a paginated listing at
// "/" whose pages link the configured articles in order, and an article
// page per entry. Unknown paths answer 404.
type NewsSite struct {
	// Server is the underlying test server. Closed by Close.
	Server *httptest.Server

	pageSize int
	articles []SiteArticle
	byPath   map[string]SiteArticle
}

// NewNewsSite starts a news site serving the given articles, pageSize
// per listing page.
func NewNewsSite(pageSize int, articles []SiteArticle) *NewsSite {
	site := &NewsSite{
		pageSize: pageSize,
		articles: articles,
		byPath:   make(map[string]SiteArticle, len(articles)),
	}
	for _, article := range articles {
		site.byPath[article.Path] = article
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", site.handle)
	site.Server = httptest.NewServer(mux)
	return site
}

// URL returns the site's base URL. Usable as a crawl plan's base URL;
// listing pages beyond the first are served from the page query
// parameter.
func (s *NewsSite) URL() string {
	return s.Server.URL
}

// ArticleURL returns the absolute URL of the article at the given path.
func (s *NewsSite) ArticleURL(path string) string {
	return s.Server.URL + path
}

// Close shuts the site down.
func (s *NewsSite) Close() {
	s.Server.Close()
}

func (s *NewsSite) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		s.serveListing(w, r)
		return
	}

	article, ok := s.byPath[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "<html><body>404 Not Found</body></html>")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, ArticleHTML(article.Title, article.Body))
}

func (s *NewsSite) serveListing(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		page = parsed
	}

	start := (page - 1) * s.pageSize
	if start >= len(s.articles) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, ListingHTML())
		return
	}
	end := start + s.pageSize
	if end > len(s.articles) {
		end = len(s.articles)
	}

	paths := make([]string, 0, end-start)
	for _, article := range s.articles[start:end] {
		paths = append(paths, article.Path)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, ListingHTML(paths...))
}
