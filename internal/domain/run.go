package domain

import "time"

// RunSummary carries the final counters for a finished crawl run.
type RunSummary struct {
	// RunID identifies the crawl run.
	RunID string `json:"run_id"`
	// PagesVisited is the number of listing pages processed.
	PagesVisited int64 `json:"pages_visited"`
	// ArticlesEmitted is the number of records handed to the sink.
	ArticlesEmitted int64 `json:"articles_emitted"`
	// SummariesProduced is the number of successful summarizer calls.
	SummariesProduced int64 `json:"summaries_produced"`
	// EventsBilled is the number of metered billing events.
	EventsBilled int64 `json:"events_billed"`
	// Errors is the number of recoverable errors encountered.
	Errors int64 `json:"errors"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
	// FinishedAt is when the run completed or was aborted.
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns the wall-clock duration of the run.
func (s *RunSummary) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
