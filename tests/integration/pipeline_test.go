package integration_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsdigest/internal/config"
	"github.com/jonesrussell/newsdigest/internal/crawler"
	"github.com/jonesrussell/newsdigest/internal/dataset"
	"github.com/jonesrussell/newsdigest/internal/events"
	"github.com/jonesrussell/newsdigest/internal/logger"
	"github.com/jonesrussell/newsdigest/internal/metering"
	"github.com/jonesrussell/newsdigest/internal/planner"
	"github.com/jonesrussell/newsdigest/tests/helpers"
)

// staticSummarizer returns the same summary for every article.
type staticSummarizer struct {
	text string
}

func (s staticSummarizer) Summarize(_ context.Context, _ string) (string, error) {
	return s.text, nil
}

// TestIntegration_CrawlPipeline runs a full crawl against a mock news
// site, indexing records into Elasticsearch and billing into a SQLite
// ledger.
func TestIntegration_CrawlPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	esContainer, err := helpers.StartElasticsearch(ctx)
	require.NoError(t, err, "failed to start Elasticsearch container")
	defer func() {
		_ = esContainer.Stop(ctx)
	}()

	site := helpers.NewNewsSite(2, []helpers.SiteArticle{
		{Path: "/story/alpha", Title: "Alpha", Body: "First article body."},
		{Path: "/story/beta", Title: "Beta", Body: "Second article body."},
		{Path: "/story/gamma", Title: "Gamma", Body: "Third article body."},
		{Path: "/story/delta", Title: "Delta", Body: "Fourth article body."},
	})
	defer site.Close()

	log := logger.NewNoOp()

	esCfg := esContainer.DatasetConfig("newsdigest-pipeline-test")
	client, err := dataset.NewClient(esCfg, log)
	require.NoError(t, err, "failed to create Elasticsearch client")
	require.NoError(t, dataset.EnsureIndex(ctx, client, esCfg.Index, log))
	sink := dataset.NewElasticsearchSink(client, esCfg.Index, log)

	db, err := metering.OpenSQLite(ctx, filepath.Join(t.TempDir(), "billing.db"))
	require.NoError(t, err, "failed to open billing ledger")
	ledger := metering.NewLedger(db)
	defer func() {
		_ = ledger.Close()
	}()

	bus := events.NewBus(log)
	const runID = "run-pipeline-1"
	meter := metering.NewLedgerMeter(ledger, log, bus, runID)

	plan, err := planner.Compute(site.URL(), 4, 2)
	require.NoError(t, err)
	require.Equal(t, 2, plan.PageCount)

	engine, err := crawler.New(crawler.Params{
		Logger: log,
		Crawler: &config.CrawlerConfig{
			BaseURL:         site.URL(),
			MaxArticles:     4,
			PageSize:        2,
			ArticleGlob:     site.URL() + "/story/**",
			TitleSelector:   helpers.TestTitleSelector,
			ContentSelector: helpers.TestContentSelector,
			UserAgent:       "newsdigest-integration",
			MaxBodySize:     1 << 20,
			Parallelism:     2,
			Delay:           time.Millisecond,
			RequestTimeout:  10 * time.Second,
			AbortGrace:      2 * time.Second,
		},
		Policy:     metering.PolicyOnSummary,
		Plan:       plan,
		Bus:        bus,
		Sink:       sink,
		Meter:      meter,
		Summarizer: staticSummarizer{text: "Three sentence summary."},
	})
	require.NoError(t, err)

	require.NoError(t, engine.Start(ctx, runID))

	reader := dataset.NewReader(client, esCfg.Index)
	stored := helpers.SearchRecords(t, ctx, reader, 10)
	require.Len(t, stored, 4)

	alpha := helpers.RequireRecord(t, stored, site.ArticleURL("/story/alpha"))
	require.NotNil(t, alpha.Title)
	assert.Equal(t, "Alpha", *alpha.Title)
	require.NotNil(t, alpha.Content)
	assert.Contains(t, *alpha.Content, "First article body.")
	require.NotNil(t, alpha.Summary)
	assert.Equal(t, "Three sentence summary.", *alpha.Summary)

	counts, err := ledger.CountsForRun(ctx, runID)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, metering.EventArticleSummary, counts[0].EventName)
	assert.Equal(t, int64(4), counts[0].Count)

	summary := engine.State().BuildSummary()
	assert.Equal(t, int64(2), summary.PagesVisited)
	assert.Equal(t, int64(4), summary.ArticlesEmitted)
	assert.Equal(t, int64(4), summary.SummariesProduced)
	assert.Equal(t, int64(0), summary.Errors)
}
