package domain

import "time"

// BillingEvent is one metered, billable occurrence during a crawl run.
type BillingEvent struct {
	// ID is the unique identifier for the event.
	ID string `json:"id" db:"id" mapstructure:"id"`
	// RunID identifies the crawl run that produced the event.
	RunID string `json:"run_id" db:"run_id" mapstructure:"run_id"`
	// EventName is the billed event name, e.g. "article_summary".
	EventName string `json:"event_name" db:"event_name" mapstructure:"event_name"`
	// URL is the article URL the event was billed for.
	URL string `json:"url" db:"url" mapstructure:"url"`
	// OccurredAt is when the event was recorded.
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at" mapstructure:"occurred_at"`
}

// EventCount aggregates billed events by name.
type EventCount struct {
	EventName string `json:"event_name" db:"event_name"`
	Count     int64  `json:"count" db:"count"`
}
