// Package planner computes the listing-page plan for a crawl run.
package planner

import (
	"errors"
	"fmt"
	"net/url"
)

// Common errors returned by the planner package.
var (
	// ErrInvalidPageSize is returned when the page size is not positive.
	ErrInvalidPageSize = errors.New("page size must be positive")
	// ErrInvalidBaseURL is returned when the base URL is not an absolute URL.
	ErrInvalidBaseURL = errors.New("base url must be absolute")
)

// Plan describes the listing pages a crawl will visit and the request
// budget derived from them. Computed once at startup, never mutated.
type Plan struct {
	// BaseURL is the bare listing feed URL.
	BaseURL string
	// PageSize is the number of articles per listing page.
	PageSize int
	// TargetItemCount is the number of articles the run aims to collect.
	TargetItemCount int
	// PageCount is the number of listing pages needed to cover the target.
	PageCount int
	// SeedURLs are the listing page URLs in visit order.
	SeedURLs []string
}

// RequestBudget returns the total request budget for the crawl: one
// request per expected article plus one per listing page.
func (p Plan) RequestBudget() int {
	if p.PageCount == 0 {
		return 0
	}
	return p.TargetItemCount + p.PageCount
}

// IsEmpty reports whether the plan covers no pages at all.
func (p Plan) IsEmpty() bool {
	return p.PageCount == 0
}

// Compute builds the crawl plan for a listing feed. The page count is
// the ceiling of targetItemCount over pageSize. A non-positive target
// yields an empty plan rather than an error; callers are expected to
// short-circuit instead of launching a crawl.
func Compute(baseURL string, targetItemCount, pageSize int) (Plan, error) {
	if pageSize <= 0 {
		return Plan{}, fmt.Errorf("%w: got %d", ErrInvalidPageSize, pageSize)
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return Plan{}, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	plan := Plan{
		BaseURL:         baseURL,
		PageSize:        pageSize,
		TargetItemCount: targetItemCount,
	}

	if targetItemCount <= 0 {
		return plan, nil
	}

	plan.PageCount = (targetItemCount + pageSize - 1) / pageSize
	plan.SeedURLs = make([]string, 0, plan.PageCount)
	for page := 1; page <= plan.PageCount; page++ {
		plan.SeedURLs = append(plan.SeedURLs, seedURL(baseURL, page))
	}

	return plan, nil
}

// seedURL returns the listing URL for a 1-based page index. The first
// page is the bare feed URL; later pages carry the page query parameter.
func seedURL(baseURL string, page int) string {
	if page == 1 {
		return baseURL
	}
	return fmt.Sprintf("%s/?page=%d", baseURL, page)
}
