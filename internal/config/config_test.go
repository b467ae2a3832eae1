package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsdigest/internal/config"
)

// defaultConfig loads a config built purely from defaults.
func defaultConfig(t *testing.T) *config.Config {
	t.Helper()

	v := viper.New()
	config.SetDefaults(v)

	cfg, err := config.Load(v)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig(t)

	assert.Equal(t, "newsdigest", cfg.App.Name)
	assert.Equal(t, "production", cfg.App.Environment)

	assert.Equal(t, config.DefaultBaseURL, cfg.Crawler.BaseURL)
	assert.Equal(t, config.DefaultMaxArticles, cfg.Crawler.MaxArticles)
	assert.Equal(t, config.DefaultPageSize, cfg.Crawler.PageSize)
	assert.Equal(t, config.DefaultArticleGlob, cfg.Crawler.ArticleGlob)
	assert.Equal(t, config.DefaultTitleSelector, cfg.Crawler.TitleSelector)
	assert.Equal(t, config.DefaultContentSelector, cfg.Crawler.ContentSelector)
	assert.Equal(t, config.DefaultParallelism, cfg.Crawler.Parallelism)
	assert.Equal(t, time.Second, cfg.Crawler.Delay)
	assert.Equal(t, 30*time.Second, cfg.Crawler.RequestTimeout)

	assert.True(t, cfg.Summarizer.Enabled)
	assert.Equal(t, config.DefaultModel, cfg.Summarizer.Model)
	assert.Equal(t, 1024, cfg.Summarizer.MaxTokens)

	assert.Equal(t, config.DatasetDriverJSONL, cfg.Dataset.Driver)
	assert.Equal(t, "data/datasets", cfg.Dataset.JSONL.Dir)
	assert.Equal(t, "newsdigest-articles", cfg.Dataset.Elasticsearch.Index)

	assert.Equal(t, "on_content", cfg.Metering.Policy)
	assert.Equal(t, "data/billing.db", cfg.Metering.LedgerPath)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

	assert.False(t, cfg.Schedule.Enabled)
	assert.Equal(t, "0 * * * *", cfg.Schedule.Cron)
}

func TestLoad_OverridesApply(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)
	v.Set("crawler.base_url", "https://news.example.com/tag/go")
	v.Set("crawler.max_articles", 48)
	v.Set("dataset.driver", config.DatasetDriverElasticsearch)

	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "https://news.example.com/tag/go", cfg.Crawler.BaseURL)
	assert.Equal(t, 48, cfg.Crawler.MaxArticles)
	assert.Equal(t, config.DatasetDriverElasticsearch, cfg.Dataset.Driver)
}

func TestLoad_InvalidValueRejected(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)
	v.Set("crawler.max_articles", 0)

	_, err := config.Load(v)
	require.ErrorIs(t, err, config.ErrNonPositiveMaxArticles)
}

func TestLoad_UnmarshalError(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)
	v.Set("crawler.max_articles", "twelve")

	_, err := config.Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config")
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(cfg *config.Config)
		wantErr   bool
		wantErrIs error
	}{
		{
			name:    "valid defaults",
			mutate:  func(*config.Config) {},
			wantErr: false,
		},
		{
			name: "relative base url",
			mutate: func(cfg *config.Config) {
				cfg.Crawler.BaseURL = "/tag/programming"
			},
			wantErr: true,
		},
		{
			name: "base url without host",
			mutate: func(cfg *config.Config) {
				cfg.Crawler.BaseURL = "notaurl"
			},
			wantErr: true,
		},
		{
			name: "zero max articles",
			mutate: func(cfg *config.Config) {
				cfg.Crawler.MaxArticles = 0
			},
			wantErr:   true,
			wantErrIs: config.ErrNonPositiveMaxArticles,
		},
		{
			name: "negative max articles",
			mutate: func(cfg *config.Config) {
				cfg.Crawler.MaxArticles = -5
			},
			wantErr:   true,
			wantErrIs: config.ErrNonPositiveMaxArticles,
		},
		{
			name: "zero page size",
			mutate: func(cfg *config.Config) {
				cfg.Crawler.PageSize = 0
			},
			wantErr: true,
		},
		{
			name: "missing article glob",
			mutate: func(cfg *config.Config) {
				cfg.Crawler.ArticleGlob = ""
			},
			wantErr: true,
		},
		{
			name: "missing title selector",
			mutate: func(cfg *config.Config) {
				cfg.Crawler.TitleSelector = ""
			},
			wantErr: true,
		},
		{
			name: "missing content selector",
			mutate: func(cfg *config.Config) {
				cfg.Crawler.ContentSelector = ""
			},
			wantErr: true,
		},
		{
			name: "summarizer enabled without model",
			mutate: func(cfg *config.Config) {
				cfg.Summarizer.Model = ""
			},
			wantErr: true,
		},
		{
			name: "summarizer enabled with zero max tokens",
			mutate: func(cfg *config.Config) {
				cfg.Summarizer.MaxTokens = 0
			},
			wantErr: true,
		},
		{
			name: "summarizer disabled skips summarizer checks",
			mutate: func(cfg *config.Config) {
				cfg.Summarizer.Enabled = false
				cfg.Summarizer.Model = ""
				cfg.Summarizer.MaxTokens = 0
			},
			wantErr: false,
		},
		{
			name: "unknown dataset driver",
			mutate: func(cfg *config.Config) {
				cfg.Dataset.Driver = "postgres"
			},
			wantErr:   true,
			wantErrIs: config.ErrUnknownDatasetDriver,
		},
		{
			name: "jsonl driver without dir",
			mutate: func(cfg *config.Config) {
				cfg.Dataset.JSONL.Dir = ""
			},
			wantErr: true,
		},
		{
			name: "elasticsearch driver without addresses",
			mutate: func(cfg *config.Config) {
				cfg.Dataset.Driver = config.DatasetDriverElasticsearch
				cfg.Dataset.Elasticsearch.Addresses = nil
			},
			wantErr: true,
		},
		{
			name: "elasticsearch driver without index",
			mutate: func(cfg *config.Config) {
				cfg.Dataset.Driver = config.DatasetDriverElasticsearch
				cfg.Dataset.Elasticsearch.Index = ""
			},
			wantErr: true,
		},
		{
			name: "both driver without jsonl dir",
			mutate: func(cfg *config.Config) {
				cfg.Dataset.Driver = config.DatasetDriverBoth
				cfg.Dataset.JSONL.Dir = ""
			},
			wantErr: true,
		},
		{
			name: "unknown metering policy",
			mutate: func(cfg *config.Config) {
				cfg.Metering.Policy = "on_visit"
			},
			wantErr: true,
		},
		{
			name: "schedule enabled with invalid cron",
			mutate: func(cfg *config.Config) {
				cfg.Schedule.Enabled = true
				cfg.Schedule.Cron = "every tuesday"
			},
			wantErr: true,
		},
		{
			name: "schedule disabled ignores invalid cron",
			mutate: func(cfg *config.Config) {
				cfg.Schedule.Enabled = false
				cfg.Schedule.Cron = "every tuesday"
			},
			wantErr: false,
		},
	}

	for i := range tests {
		test := &tests[i]
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig(t)
			test.mutate(cfg)

			err := cfg.Validate()
			if !test.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if test.wantErrIs != nil {
				require.ErrorIs(t, err, test.wantErrIs)
			}
		})
	}
}

func TestDatasetConfig_DriverHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		driver      string
		wantJSONL   bool
		wantElastic bool
	}{
		{driver: config.DatasetDriverJSONL, wantJSONL: true, wantElastic: false},
		{driver: config.DatasetDriverElasticsearch, wantJSONL: false, wantElastic: true},
		{driver: config.DatasetDriverBoth, wantJSONL: true, wantElastic: true},
	}

	for i := range tests {
		test := &tests[i]
		t.Run(test.driver, func(t *testing.T) {
			t.Parallel()

			cfg := config.DatasetConfig{Driver: test.driver}
			assert.Equal(t, test.wantJSONL, cfg.UsesJSONL())
			assert.Equal(t, test.wantElastic, cfg.UsesElasticsearch())
		})
	}
}
