package common

import (
	"context"

	"github.com/jonesrussell/newsdigest/internal/crawler"
	"github.com/jonesrussell/newsdigest/internal/dataset"
	"github.com/jonesrussell/newsdigest/internal/logger"
	"github.com/jonesrussell/newsdigest/internal/metering"
)

// Run is one crawl run: an engine wired to a run-scoped sink and meter.
type Run struct {
	ID     string
	Engine *crawler.Engine

	logger logger.Interface
	sink   dataset.Sink
	meter  metering.Meter
}

// Start executes the run to completion and releases the run-scoped sink
// and meter afterwards. Close failures are logged, not returned.
func (r *Run) Start(ctx context.Context) error {
	defer r.release()
	return r.Engine.Start(ctx, r.ID)
}

func (r *Run) release() {
	if err := r.sink.Close(); err != nil {
		r.logger.Error("Failed to close dataset sink", "run_id", r.ID, "error", err)
	}
	if err := r.meter.Close(); err != nil {
		r.logger.Error("Failed to close meter", "run_id", r.ID, "error", err)
	}
}
