package config

import "github.com/spf13/viper"

// Crawl defaults matching the production feed.
const (
	// DefaultBaseURL is the listing feed crawled when none is configured.
	DefaultBaseURL = "https://www.wired.com/tag/programming"
	// DefaultArticleGlob restricts followed links to story pages.
	DefaultArticleGlob = "https://www.wired.com/story/**"
	// DefaultTitleSelector locates the article headline.
	DefaultTitleSelector = `h1[data-testid="ContentHeaderHed"]`
	// DefaultContentSelector locates the article body container.
	DefaultContentSelector = `div[data-testid="ArticlePageChunks"]`
	// DefaultPageSize is the number of articles the feed lists per page.
	DefaultPageSize = 24
	// DefaultMaxArticles is the article target when none is configured.
	DefaultMaxArticles = 24
	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// DefaultMaxBodySize caps response bodies at 10 MiB.
	DefaultMaxBodySize = 10 * 1024 * 1024
	// DefaultParallelism is the number of concurrent requests.
	DefaultParallelism = 2
)

// DefaultModel is the summarizer model used when none is configured.
const DefaultModel = "claude-3-5-haiku-latest"

// SetDefaults applies default configuration values to the given Viper
// instance. Values from config files or environment variables override
// these.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app", map[string]any{
		"name":        "newsdigest",
		"environment": "production",
		"debug":       false,
	})

	v.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"encoding":     "json",
		"output_paths": []string{"stdout"},
		"enable_color": false,
	})

	v.SetDefault("crawler", map[string]any{
		"base_url":         DefaultBaseURL,
		"max_articles":     DefaultMaxArticles,
		"page_size":        DefaultPageSize,
		"article_glob":     DefaultArticleGlob,
		"title_selector":   DefaultTitleSelector,
		"content_selector": DefaultContentSelector,
		"user_agent":       DefaultUserAgent,
		"max_body_size":    DefaultMaxBodySize,
		"parallelism":      DefaultParallelism,
		"delay":            "1s",
		"random_delay":     "500ms",
		"request_timeout":  "30s",
		"max_retries":      2,
		"retry_delay":      "2s",
		"abort_grace":      "2s",
	})

	v.SetDefault("summarizer", map[string]any{
		"enabled":     true,
		"model":       DefaultModel,
		"max_tokens":  1024,
		"timeout":     "60s",
		"max_retries": 2,
	})

	v.SetDefault("dataset", map[string]any{
		"driver": DatasetDriverJSONL,
		"jsonl": map[string]any{
			"dir": "data/datasets",
		},
		"elasticsearch": map[string]any{
			"addresses": []string{"http://127.0.0.1:9200"},
			"index":     "newsdigest-articles",
		},
	})

	v.SetDefault("metering", map[string]any{
		"policy":      "on_content",
		"ledger_path": "data/billing.db",
	})

	v.SetDefault("server", map[string]any{
		"address":          ":8080",
		"read_timeout":     "15s",
		"write_timeout":    "15s",
		"shutdown_timeout": "30s",
	})

	v.SetDefault("schedule", map[string]any{
		"enabled": false,
		"cron":    "0 * * * *",
	})
}
