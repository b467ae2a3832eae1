// Package api implements the HTTP API for the digest service.
package api

import "github.com/jonesrussell/newsdigest/internal/domain"

// PlanResponse is the crawl plan preview returned by the plan endpoint.
type PlanResponse struct {
	BaseURL         string   `json:"base_url"`
	PageSize        int      `json:"page_size"`
	TargetItemCount int      `json:"target_item_count"`
	PageCount       int      `json:"page_count"`
	RequestBudget   int      `json:"request_budget"`
	SeedURLs        []string `json:"seed_urls"`
}

// RunStatus is the crawl state returned by the status endpoint.
type RunStatus struct {
	State          RunState           `json:"state"`
	RunID          string             `json:"run_id,omitempty"`
	RecordsEmitted int64              `json:"records_emitted"`
	EventsBilled   int64              `json:"events_billed"`
	LastRun        *domain.RunSummary `json:"last_run,omitempty"`
}

// BillingResponse is the per-event-name billing aggregate.
type BillingResponse struct {
	RunID  string              `json:"run_id,omitempty"`
	Events []domain.EventCount `json:"events"`
}

// RecordsResponse is a page of recently stored article records.
type RecordsResponse struct {
	Records []domain.ArticleRecord `json:"records"`
	Total   int                    `json:"total"`
}
