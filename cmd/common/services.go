package common

import (
	"context"
	"fmt"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"

	"github.com/jonesrussell/newsdigest/internal/config"
	"github.com/jonesrussell/newsdigest/internal/crawler"
	"github.com/jonesrussell/newsdigest/internal/dataset"
	"github.com/jonesrussell/newsdigest/internal/events"
	"github.com/jonesrussell/newsdigest/internal/logger"
	"github.com/jonesrussell/newsdigest/internal/metering"
	"github.com/jonesrussell/newsdigest/internal/planner"
	"github.com/jonesrussell/newsdigest/internal/summarizer"
)

// RunServices holds the long-lived pieces shared across crawl runs: the
// plan, the event bus, the billing ledger, and the dataset backends.
// Sinks and meters are run-scoped and built per run by NewRun.
type RunServices struct {
	Logger logger.Interface
	Config *config.Config
	Plan   planner.Plan
	Bus    *events.Bus

	// Reader is non-nil only when the Elasticsearch driver is active.
	Reader *dataset.Reader
	// Ledger is non-nil only when a ledger path is configured.
	Ledger *metering.Ledger

	policy     metering.Policy
	summarizer summarizer.Summarizer
	esClient   *es.Client
}

// NewRunServices builds the long-lived services from validated config.
func NewRunServices(ctx context.Context, deps *CommandDeps) (*RunServices, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	cfg := deps.Config
	log := deps.Logger

	plan, err := planner.Compute(cfg.Crawler.BaseURL, cfg.Crawler.MaxArticles, cfg.Crawler.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to compute crawl plan: %w", err)
	}

	policy, err := metering.ParsePolicy(cfg.Metering.Policy)
	if err != nil {
		return nil, fmt.Errorf("failed to parse metering policy: %w", err)
	}

	s := &RunServices{
		Logger: log,
		Config: cfg,
		Plan:   plan,
		Bus:    events.NewBus(log),
		policy: policy,
	}

	if cfg.Summarizer.Enabled {
		claude, err := summarizer.NewClaude(&cfg.Summarizer, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create summarizer: %w", err)
		}
		s.summarizer = claude
	} else {
		s.summarizer = summarizer.NewNoOp()
		log.Info("Summarization disabled, records will carry no summary")
	}

	if cfg.Metering.LedgerPath != "" {
		db, err := metering.OpenSQLite(ctx, cfg.Metering.LedgerPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open billing ledger: %w", err)
		}
		s.Ledger = metering.NewLedger(db)
	}

	if cfg.Dataset.UsesElasticsearch() {
		client, err := dataset.NewClient(&cfg.Dataset.Elasticsearch, log)
		if err != nil {
			s.closeOnError()
			return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
		}
		if err := dataset.EnsureIndex(ctx, client, cfg.Dataset.Elasticsearch.Index, log); err != nil {
			s.closeOnError()
			return nil, fmt.Errorf("failed to ensure Elasticsearch index: %w", err)
		}
		s.esClient = client
		s.Reader = dataset.NewReader(client, cfg.Dataset.Elasticsearch.Index)
	}

	return s, nil
}

// NewRun assembles one crawl run with a fresh run ID, a run-scoped sink,
// and a run-scoped meter.
func (s *RunServices) NewRun() (*Run, error) {
	runID := uuid.NewString()

	sink, err := s.newSink(runID)
	if err != nil {
		return nil, err
	}

	meter := s.newMeter(runID)

	engine, err := crawler.New(crawler.Params{
		Logger:     s.Logger,
		Crawler:    &s.Config.Crawler,
		Policy:     s.policy,
		Plan:       s.Plan,
		Bus:        s.Bus,
		Sink:       sink,
		Meter:      meter,
		Summarizer: s.summarizer,
	})
	if err != nil {
		if closeErr := sink.Close(); closeErr != nil {
			s.Logger.Error("Failed to close dataset sink", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to create crawl engine: %w", err)
	}

	return &Run{
		ID:     runID,
		Engine: engine,
		logger: s.Logger,
		sink:   sink,
		meter:  meter,
	}, nil
}

// newSink builds the dataset sink for one run based on the configured
// driver.
func (s *RunServices) newSink(runID string) (dataset.Sink, error) {
	cfg := &s.Config.Dataset

	var sinks []dataset.Sink

	if cfg.UsesJSONL() {
		jsonl, err := dataset.NewJSONLSink(cfg.JSONL.Dir, runID, s.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create JSONL sink: %w", err)
		}
		sinks = append(sinks, jsonl)
	}

	if cfg.UsesElasticsearch() {
		sinks = append(sinks, dataset.NewElasticsearchSink(s.esClient, cfg.Elasticsearch.Index, s.Logger))
	}

	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return dataset.NewMultiSink(sinks...), nil
}

// newMeter builds the billing meter for one run. Runs bill into the
// ledger when one is open and fall back to log-only metering otherwise.
func (s *RunServices) newMeter(runID string) metering.Meter {
	if s.Ledger != nil {
		return metering.NewLedgerMeter(s.Ledger, s.Logger, s.Bus, runID)
	}
	return metering.NewLogMeter(s.Logger, s.Bus, runID)
}

// Close releases the long-lived resources.
func (s *RunServices) Close() error {
	if s.Ledger != nil {
		if err := s.Ledger.Close(); err != nil {
			return fmt.Errorf("failed to close billing ledger: %w", err)
		}
	}
	return nil
}

// closeOnError releases partially constructed resources during
// NewRunServices failure paths.
func (s *RunServices) closeOnError() {
	if s.Ledger != nil {
		if err := s.Ledger.Close(); err != nil {
			s.Logger.Error("Failed to close billing ledger", "error", err)
		}
	}
}
