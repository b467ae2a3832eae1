package api

import (
	"context"
	"sync"

	"github.com/jonesrussell/newsdigest/internal/domain"
	"github.com/jonesrussell/newsdigest/internal/events"
)

// RunState describes where a crawl run currently is.
type RunState string

const (
	// RunStateIdle means no run has happened yet.
	RunStateIdle RunState = "idle"
	// RunStateRunning means a crawl is in progress.
	RunStateRunning RunState = "running"
	// RunStateDone means the last run finished.
	RunStateDone RunState = "done"
)

// RunTracker follows bus events so status queries never touch the
// engine. Subscribe it to the run's event bus.
type RunTracker struct {
	mu             sync.RWMutex
	state          RunState
	runID          string
	recordsEmitted int64
	eventsBilled   int64
	lastRun        *domain.RunSummary
}

// NewRunTracker creates an idle run tracker.
func NewRunTracker() *RunTracker {
	return &RunTracker{state: RunStateIdle}
}

var _ events.Handler = (*RunTracker)(nil)

// HandleStart resets the live counters for a new run.
func (t *RunTracker) HandleStart(_ context.Context, runID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = RunStateRunning
	t.runID = runID
	t.recordsEmitted = 0
	t.eventsBilled = 0
	return nil
}

// HandleRecord counts an emitted article record.
func (t *RunTracker) HandleRecord(context.Context, *domain.ArticleRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recordsEmitted++
	return nil
}

// HandleBilled counts a metered billing event.
func (t *RunTracker) HandleBilled(context.Context, *domain.BillingEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eventsBilled++
	return nil
}

// HandleDone stores the finished run's summary.
func (t *RunTracker) HandleDone(_ context.Context, summary *domain.RunSummary) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = RunStateDone
	t.lastRun = summary
	return nil
}

// Status returns a snapshot of the tracked run.
func (t *RunTracker) Status() RunStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return RunStatus{
		State:          t.state,
		RunID:          t.runID,
		RecordsEmitted: t.recordsEmitted,
		EventsBilled:   t.eventsBilled,
		LastRun:        t.lastRun,
	}
}
