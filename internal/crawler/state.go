package crawler

import (
	"context"
	"sync"
	"time"

	"github.com/jonesrussell/newsdigest/internal/domain"
	"github.com/jonesrussell/newsdigest/internal/logger"
)

// State tracks a crawl run: lifecycle, context, and counters.
type State struct {
	mu                sync.RWMutex
	isRunning         bool
	runID             string
	startTime         time.Time
	finishedAt        time.Time
	ctx               context.Context
	cancel            context.CancelFunc
	pagesVisited      int64
	articlesEmitted   int64
	summariesProduced int64
	eventsBilled      int64
	errorCount        int64
	logger            logger.Interface
}

// NewState creates a new crawl state.
func NewState(log logger.Interface) *State {
	return &State{
		logger: log,
	}
}

// IsRunning returns whether a crawl is running.
func (s *State) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunID returns the current run's identifier.
func (s *State) RunID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runID
}

// Context returns the run's context. Nil when no run is active.
func (s *State) Context() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx
}

// Cancel cancels the run's context.
func (s *State) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Start initializes state for a new run.
func (s *State) Start(ctx context.Context, runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isRunning = true
	s.runID = runID
	s.startTime = time.Now()
	s.finishedAt = time.Time{}
	s.pagesVisited = 0
	s.articlesEmitted = 0
	s.summariesProduced = 0
	s.eventsBilled = 0
	s.errorCount = 0
	s.ctx, s.cancel = context.WithCancel(ctx)
}

// Stop closes out the run.
func (s *State) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.isRunning = false
	s.finishedAt = time.Now()
	s.ctx = nil

	s.logger.Info("Crawl stopped",
		"run_id", s.runID,
		"pages_visited", s.pagesVisited,
		"articles_emitted", s.articlesEmitted,
		"summaries_produced", s.summariesProduced,
		"events_billed", s.eventsBilled,
		"errors", s.errorCount,
		"duration", time.Since(s.startTime),
	)
}

// BuildSummary returns a snapshot of the run's counters.
func (s *State) BuildSummary() *domain.RunSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &domain.RunSummary{
		RunID:             s.runID,
		PagesVisited:      s.pagesVisited,
		ArticlesEmitted:   s.articlesEmitted,
		SummariesProduced: s.summariesProduced,
		EventsBilled:      s.eventsBilled,
		Errors:            s.errorCount,
		StartedAt:         s.startTime,
		FinishedAt:        s.finishedAt,
	}
}

// IncrementPagesVisited increments the listing page counter.
func (s *State) IncrementPagesVisited() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pagesVisited++
}

// IncrementArticlesEmitted increments the emitted record counter.
func (s *State) IncrementArticlesEmitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articlesEmitted++
}

// IncrementSummariesProduced increments the summary counter.
func (s *State) IncrementSummariesProduced() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summariesProduced++
}

// IncrementEventsBilled increments the billed event counter.
func (s *State) IncrementEventsBilled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventsBilled++
}

// IncrementError increments the error count.
func (s *State) IncrementError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorCount++
}

// GetErrorCount returns the number of errors.
func (s *State) GetErrorCount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errorCount
}
