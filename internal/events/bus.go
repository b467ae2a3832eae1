package events

import (
	"context"
	"sync"

	"github.com/jonesrussell/newsdigest/internal/domain"
	"github.com/jonesrussell/newsdigest/internal/logger"
)

// Handler receives crawl lifecycle events.
type Handler interface {
	// HandleStart is called when a crawl run begins.
	HandleStart(ctx context.Context, runID string) error
	// HandleRecord is called for every emitted article record.
	HandleRecord(ctx context.Context, record *domain.ArticleRecord) error
	// HandleBilled is called for every recorded billing event.
	HandleBilled(ctx context.Context, event *domain.BillingEvent) error
	// HandleDone is called once when a crawl run finishes.
	HandleDone(ctx context.Context, summary *domain.RunSummary) error
}

// Bus distributes crawl events to registered handlers.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   logger.Interface
}

// NewBus creates a new Bus instance.
func NewBus(log logger.Interface) *Bus {
	return &Bus{
		handlers: make([]Handler, 0),
		logger:   log,
	}
}

// Subscribe adds an event handler to the bus.
func (b *Bus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// HandlerCount returns the number of registered handlers.
func (b *Bus) HandlerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// snapshot copies the handler slice under read lock so dispatch never
// holds the lock.
func (b *Bus) snapshot() []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	return handlers
}

// PublishStart publishes a run start event to all handlers.
func (b *Bus) PublishStart(ctx context.Context, runID string) {
	if ctx.Err() != nil {
		return
	}

	for _, handler := range b.snapshot() {
		if err := handler.HandleStart(ctx, runID); err != nil {
			b.logger.Error("Failed to handle start event",
				"error", err,
				"run_id", runID,
			)
		}
	}
}

// PublishRecord publishes an emitted article record to all handlers.
func (b *Bus) PublishRecord(ctx context.Context, record *domain.ArticleRecord) {
	if record == nil || ctx.Err() != nil {
		return
	}

	for _, handler := range b.snapshot() {
		if err := handler.HandleRecord(ctx, record); err != nil {
			b.logger.Error("Failed to handle record event",
				"error", err,
				"url", record.URL,
			)
		}
	}
}

// PublishBilled publishes a billing event to all handlers.
func (b *Bus) PublishBilled(ctx context.Context, event *domain.BillingEvent) {
	if event == nil || ctx.Err() != nil {
		return
	}

	for _, handler := range b.snapshot() {
		if err := handler.HandleBilled(ctx, event); err != nil {
			b.logger.Error("Failed to handle billing event",
				"error", err,
				"event_name", event.EventName,
			)
		}
	}
}

// PublishDone publishes a run summary to all handlers. Unlike the other
// publish methods it ignores context cancellation so that handlers still
// observe summaries of aborted runs.
func (b *Bus) PublishDone(ctx context.Context, summary *domain.RunSummary) {
	if summary == nil {
		return
	}

	for _, handler := range b.snapshot() {
		if err := handler.HandleDone(ctx, summary); err != nil {
			b.logger.Error("Failed to handle done event",
				"error", err,
				"run_id", summary.RunID,
			)
		}
	}
}
