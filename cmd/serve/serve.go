// Package serve implements the serve command, which runs the HTTP API
// and starts crawls on request.
package serve

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsdigest/cmd/common"
	"github.com/jonesrussell/newsdigest/internal/api"
	"github.com/jonesrussell/newsdigest/internal/crawler"
	"github.com/jonesrussell/newsdigest/internal/logger"
)

// Command returns the serve command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the HTTP API. Crawls are triggered with POST /api/v1/crawl and
run one at a time; records and billing summaries are served from the
configured backends. The server shuts down gracefully on SIGINT or
SIGTERM.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return err
	}
	log := deps.Logger

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := common.NewRunServices(ctx, deps)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := services.Close(); closeErr != nil {
			log.Error("Failed to close services", "error", closeErr)
		}
	}()

	tracker := api.NewRunTracker()
	services.Bus.Subscribe(tracker)

	runner := newCrawlRunner(ctx, services)

	apiDeps := api.Deps{
		Logger:  log,
		Runner:  runner,
		Tracker: tracker,
		Plan:    services.Plan,
	}
	// Leave the interface fields nil when no backend is configured; the
	// handlers answer 501 for nil backends.
	if services.Reader != nil {
		apiDeps.Records = services.Reader
	}
	if services.Ledger != nil {
		apiDeps.Billing = services.Ledger
	}

	srv := api.NewHTTPServer(apiDeps, &deps.Config.Server)

	errChan := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server")
	runner.StopRun()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("HTTP server stopped")
	return nil
}

// crawlRunner starts crawl runs on behalf of the API and enforces the
// one-run-at-a-time rule across runs.
type crawlRunner struct {
	ctx      context.Context
	services *common.RunServices
	logger   logger.Interface

	mu      sync.Mutex
	active  bool
	current *common.Run
}

func newCrawlRunner(ctx context.Context, services *common.RunServices) *crawlRunner {
	return &crawlRunner{
		ctx:      ctx,
		services: services,
		logger:   services.Logger,
	}
}

var _ api.Runner = (*crawlRunner)(nil)

// StartRun launches a crawl in the background and returns its run ID.
// A second call while a run is active returns ErrAlreadyRunning.
func (r *crawlRunner) StartRun() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		return "", crawler.ErrAlreadyRunning
	}

	run, err := r.services.NewRun()
	if err != nil {
		return "", err
	}

	r.active = true
	r.current = run

	go func() {
		if err := run.Start(r.ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Error("Crawl run failed", "run_id", run.ID, "error", err)
		}
		r.mu.Lock()
		r.active = false
		r.mu.Unlock()
	}()

	return run.ID, nil
}

// StopRun aborts the active run, if any.
func (r *crawlRunner) StopRun() {
	r.mu.Lock()
	run := r.current
	r.mu.Unlock()

	if run != nil {
		run.Engine.Stop()
	}
}

// IsRunning reports whether a crawl run is active.
func (r *crawlRunner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}
