package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/newsdigest/internal/config"
	"github.com/jonesrussell/newsdigest/internal/dataset"
	"github.com/jonesrussell/newsdigest/internal/domain"
	"github.com/jonesrussell/newsdigest/internal/events"
	"github.com/jonesrussell/newsdigest/internal/logger"
	"github.com/jonesrussell/newsdigest/internal/metering"
	"github.com/jonesrussell/newsdigest/internal/planner"
	"github.com/jonesrussell/newsdigest/internal/summarizer"
)

// defaultAbortGrace bounds how long in-flight requests may finish after
// an abort when config leaves it unset.
const defaultAbortGrace = 2 * time.Second

// Params carries the engine's dependencies.
type Params struct {
	Logger     logger.Interface
	Crawler    *config.CrawlerConfig
	Policy     metering.Policy
	Plan       planner.Plan
	Bus        *events.Bus
	Sink       dataset.Sink
	Meter      metering.Meter
	Summarizer summarizer.Summarizer
}

// Engine drives one crawl run: it visits the planned listing pages with
// one collector and the discovered article pages with a second, so the
// two request caps stay independent.
type Engine struct {
	logger     logger.Interface
	cfg        *config.CrawlerConfig
	policy     metering.Policy
	plan       planner.Plan
	state      *State
	signals    *SignalCoordinator
	bus        *events.Bus
	sink       dataset.Sink
	meter      metering.Meter
	summarizer summarizer.Summarizer

	listingCollector *colly.Collector
	articleCollector *colly.Collector
	listingHandler   *ListingHandler
	articleHandler   *ArticleHandler
}

// New creates a crawl engine.
func New(p Params) (*Engine, error) {
	if p.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if p.Crawler == nil {
		return nil, errors.New("crawler config is required")
	}
	if p.Bus == nil {
		return nil, errors.New("event bus is required")
	}
	if p.Sink == nil {
		return nil, errors.New("dataset sink is required")
	}
	if p.Meter == nil {
		return nil, errors.New("meter is required")
	}

	return &Engine{
		logger:     p.Logger,
		cfg:        p.Crawler,
		policy:     p.Policy,
		plan:       p.Plan,
		state:      NewState(p.Logger),
		signals:    NewSignalCoordinator(),
		bus:        p.Bus,
		sink:       p.Sink,
		meter:      p.Meter,
		summarizer: p.Summarizer,
	}, nil
}

// State exposes the engine's run state.
func (e *Engine) State() *State {
	return e.state
}

// IsRunning reports whether a crawl run is active.
func (e *Engine) IsRunning() bool {
	return e.state.IsRunning()
}

// Start runs one crawl to completion. It blocks until all queued
// requests finish, the context is cancelled, or Stop is called.
func (e *Engine) Start(ctx context.Context, runID string) error {
	if e.state.IsRunning() {
		return ErrAlreadyRunning
	}

	e.logger.Debug("Starting crawl engine",
		"run_id", runID,
		"base_url", e.cfg.BaseURL,
	)

	e.signals.Reset()
	e.state.Start(ctx, runID)
	defer e.signals.SignalAbort()

	if err := e.setupCollectors(ctx); err != nil {
		e.state.Stop()
		return err
	}

	e.bus.PublishStart(ctx, runID)
	e.logger.Info("Starting crawl",
		"run_id", runID,
		"base_url", e.cfg.BaseURL,
		"target_articles", e.plan.TargetItemCount,
		"listing_pages", e.plan.PageCount,
		"request_budget", e.plan.RequestBudget(),
	)

	e.visitSeeds()

	err := e.wait(ctx, runID)

	e.state.Stop()

	summary := e.state.BuildSummary()
	e.bus.PublishDone(ctx, summary)
	e.logger.Info("Crawl finished",
		"run_id", runID,
		"pages_visited", summary.PagesVisited,
		"articles_emitted", summary.ArticlesEmitted,
		"summaries_produced", summary.SummariesProduced,
		"events_billed", summary.EventsBilled,
		"errors", summary.Errors,
	)

	return err
}

// Stop aborts the active run. Queued requests are dropped, in-flight
// handlers get the configured grace period.
func (e *Engine) Stop() {
	e.logger.Info("Stopping crawl", "run_id", e.state.RunID())
	e.signals.SignalAbort()
	e.state.Cancel()
}

// setupCollectors builds the listing and article collectors for a run.
// The listing collector is capped at the planned page count, the article
// collector at the article target, so the run's total request count
// never exceeds the plan's budget.
func (e *Engine) setupCollectors(ctx context.Context) error {
	articlePattern, err := CompileGlob(e.cfg.ArticleGlob)
	if err != nil {
		return err
	}

	base, err := url.Parse(e.cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	// Colly matches allowed domains against URL.Hostname(), ports
	// excluded.
	listingOpts := buildCollectorOptions(ctx, e.cfg, e.plan.PageCount, []string{base.Hostname()}, nil)
	e.listingCollector = colly.NewCollector(listingOpts...)
	if limitErr := configureCollector(e.listingCollector, e.cfg); limitErr != nil {
		return limitErr
	}

	articleOpts := buildCollectorOptions(
		ctx, e.cfg, e.plan.TargetItemCount, nil, []*regexp.Regexp{articlePattern},
	)
	e.articleCollector = colly.NewCollector(articleOpts...)
	if limitErr := configureCollector(e.articleCollector, e.cfg); limitErr != nil {
		return limitErr
	}

	e.listingHandler = NewListingHandler(e.logger, articlePattern, e.enqueue)
	e.articleHandler = NewArticleHandler(
		e.logger,
		e.state,
		e.cfg.TitleSelector,
		e.cfg.ContentSelector,
		e.policy,
		HandlerDeps{
			Summarize: e.summarizeFunc(),
			Emit:      e.emit,
			Bill:      e.meter.Bill,
		},
	)

	e.setupCallbacks(ctx)

	return nil
}

// setupCallbacks wires both collectors' callbacks.
func (e *Engine) setupCallbacks(ctx context.Context) {
	e.listingCollector.OnRequest(e.requestCallback(ctx))
	e.listingCollector.OnError(e.errorCallback())
	e.listingCollector.OnHTML("a[href]", func(el *colly.HTMLElement) {
		select {
		case <-ctx.Done():
			return
		case <-e.signals.AbortChannel():
			return
		default:
			e.listingHandler.HandleLink(el)
		}
	})
	e.listingCollector.OnScraped(func(r *colly.Response) {
		e.state.IncrementPagesVisited()
		e.logger.Debug("Listing page processed", "url", r.Request.URL.String())
	})

	e.articleCollector.OnRequest(e.requestCallback(ctx))
	e.articleCollector.OnError(e.errorCallback())
	e.articleCollector.OnHTML("html", func(el *colly.HTMLElement) {
		select {
		case <-ctx.Done():
			return
		case <-e.signals.AbortChannel():
			return
		default:
			e.articleHandler.HandleArticle(el)
		}
	})
}

// visitSeeds queues every planned listing page.
func (e *Engine) visitSeeds() {
	for _, seed := range e.plan.SeedURLs {
		if err := e.listingCollector.Visit(seed); err != nil {
			if isExpectedCrawlError(err) {
				e.logger.Debug("Skipping seed URL", "url", seed, "reason", err)
				continue
			}
			e.logger.Error("Failed to visit seed URL", "url", seed, "error", err)
			e.state.IncrementError()
		}
	}
}

// wait blocks until both collectors drain, honoring cancellation with a
// bounded grace period.
func (e *Engine) wait(ctx context.Context, runID string) error {
	waitDone := make(chan struct{})
	go func() {
		e.listingCollector.Wait()
		e.articleCollector.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		e.logger.Debug("Collectors finished", "run_id", runID)
		return nil
	case <-ctx.Done():
		e.logger.Info("Context cancelled, aborting crawl", "run_id", runID)
		e.signals.SignalAbort()

		grace := e.cfg.AbortGrace
		if grace <= 0 {
			grace = defaultAbortGrace
		}
		select {
		case <-waitDone:
		case <-time.After(grace):
			e.logger.Warn("Collectors did not finish after cancellation", "run_id", runID)
		}
		return ctx.Err()
	}
}

// enqueue routes a URL to the collector owning its label.
func (e *Engine) enqueue(rawURL string, label Label) error {
	switch label {
	case LabelArticle:
		return e.articleCollector.Visit(rawURL)
	case LabelListing:
		return e.listingCollector.Visit(rawURL)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownLabel, label)
	}
}

// summarizeFunc adapts the configured summarizer for handler injection.
// A nil summarizer disables summarization.
func (e *Engine) summarizeFunc() SummarizeFunc {
	if e.summarizer == nil {
		return nil
	}
	return e.summarizer.Summarize
}

// emit persists a record, counts it, and publishes it on the bus.
func (e *Engine) emit(ctx context.Context, record *domain.ArticleRecord) error {
	if err := e.sink.Emit(ctx, record); err != nil {
		return err
	}
	e.state.IncrementArticlesEmitted()
	e.bus.PublishRecord(ctx, record)
	return nil
}
