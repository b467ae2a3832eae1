package metering

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/newsdigest/internal/domain"
	"github.com/jonesrussell/newsdigest/internal/events"
	"github.com/jonesrussell/newsdigest/internal/logger"
)

// EventArticleSummary is the billed event name for a summarized article.
const EventArticleSummary = "article_summary"

// Meter records billable events for a crawl run.
type Meter interface {
	// Bill records one billable event for the given article URL.
	Bill(ctx context.Context, eventName, articleURL string) error
	// Close releases resources held by the meter.
	Close() error
}

// newBillingEvent assembles a billing event for the given run.
func newBillingEvent(runID, eventName, articleURL string) *domain.BillingEvent {
	return &domain.BillingEvent{
		ID:         uuid.NewString(),
		RunID:      runID,
		EventName:  eventName,
		URL:        articleURL,
		OccurredAt: time.Now().UTC(),
	}
}

// LogMeter is the degraded meter used when no ledger is configured. It
// writes each event to the log and keeps no history.
type LogMeter struct {
	logger logger.Interface
	bus    *events.Bus
	runID  string
}

// NewLogMeter creates a meter that only logs events. The bus may be nil.
func NewLogMeter(log logger.Interface, bus *events.Bus, runID string) *LogMeter {
	return &LogMeter{logger: log, bus: bus, runID: runID}
}

// Bill logs the billable event and publishes it on the bus.
func (m *LogMeter) Bill(ctx context.Context, eventName, articleURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	event := newBillingEvent(m.runID, eventName, articleURL)
	m.logger.Info("Billing event recorded",
		"event_name", eventName,
		"url", articleURL,
		"run_id", m.runID,
	)

	if m.bus != nil {
		m.bus.PublishBilled(ctx, event)
	}
	return nil
}

// Close is a no-op for the log meter.
func (m *LogMeter) Close() error {
	return nil
}

// LedgerMeter records billable events into a persistent ledger.
type LedgerMeter struct {
	ledger *Ledger
	logger logger.Interface
	bus    *events.Bus
	runID  string
}

// NewLedgerMeter creates a meter that persists events for the given run.
// The bus may be nil.
func NewLedgerMeter(ledger *Ledger, log logger.Interface, bus *events.Bus, runID string) *LedgerMeter {
	return &LedgerMeter{
		ledger: ledger,
		logger: log,
		bus:    bus,
		runID:  runID,
	}
}

// Bill persists one billing event and publishes it on the bus.
func (m *LedgerMeter) Bill(ctx context.Context, eventName, articleURL string) error {
	event := newBillingEvent(m.runID, eventName, articleURL)

	if err := m.ledger.Insert(ctx, event); err != nil {
		return fmt.Errorf("failed to record billing event: %w", err)
	}

	m.logger.Debug("Billing event recorded",
		"event_name", eventName,
		"url", articleURL,
		"run_id", m.runID,
	)

	if m.bus != nil {
		m.bus.PublishBilled(ctx, event)
	}
	return nil
}

// Close is a no-op. The ledger outlives the run's meter and is closed
// by whoever opened it.
func (m *LedgerMeter) Close() error {
	return nil
}

// Interface assertions.
var (
	_ Meter = (*LogMeter)(nil)
	_ Meter = (*LedgerMeter)(nil)
)
