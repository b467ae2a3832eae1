// Package config provides configuration management for the application.
// It handles loading, validation, and access to configuration values from
// YAML files and environment variables via Viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/jonesrussell/newsdigest/internal/logger"
	"github.com/jonesrussell/newsdigest/internal/metering"
)

// Dataset driver names.
const (
	// DatasetDriverJSONL writes records to local JSONL files.
	DatasetDriverJSONL = "jsonl"
	// DatasetDriverElasticsearch indexes records into Elasticsearch.
	DatasetDriverElasticsearch = "elasticsearch"
	// DatasetDriverBoth fans records out to both sinks.
	DatasetDriverBoth = "both"
)

// Common errors returned by the config package.
var (
	// ErrNonPositiveMaxArticles is returned when crawler.max_articles
	// is zero or negative.
	ErrNonPositiveMaxArticles = errors.New("crawler.max_articles must be positive")
	// ErrUnknownDatasetDriver is returned for an unrecognized dataset driver.
	ErrUnknownDatasetDriver = errors.New("unknown dataset driver")
)

// Config represents the application configuration.
type Config struct {
	// App holds application-level settings.
	App AppConfig `yaml:"app" mapstructure:"app"`
	// Logger holds logger settings.
	Logger logger.Config `yaml:"logger" mapstructure:"logger"`
	// Crawler holds crawl settings.
	Crawler CrawlerConfig `yaml:"crawler" mapstructure:"crawler"`
	// Summarizer holds summarizer settings.
	Summarizer SummarizerConfig `yaml:"summarizer" mapstructure:"summarizer"`
	// Dataset holds record sink settings.
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`
	// Metering holds billing settings.
	Metering MeteringConfig `yaml:"metering" mapstructure:"metering"`
	// Server holds HTTP server settings.
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	// Schedule holds recurring crawl settings.
	Schedule ScheduleConfig `yaml:"schedule" mapstructure:"schedule"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// CrawlerConfig holds crawl settings.
type CrawlerConfig struct {
	// BaseURL is the listing feed to crawl.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// MaxArticles is the target number of articles for a run.
	MaxArticles int `yaml:"max_articles" mapstructure:"max_articles"`
	// PageSize is the number of articles per listing page.
	PageSize int `yaml:"page_size" mapstructure:"page_size"`
	// ArticleGlob restricts which discovered links are followed.
	ArticleGlob string `yaml:"article_glob" mapstructure:"article_glob"`
	// TitleSelector locates the article headline element.
	TitleSelector string `yaml:"title_selector" mapstructure:"title_selector"`
	// ContentSelector locates the article body container.
	ContentSelector string `yaml:"content_selector" mapstructure:"content_selector"`
	// UserAgent is sent with every request.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// MaxBodySize caps response bodies in bytes. Zero means no cap.
	MaxBodySize int `yaml:"max_body_size" mapstructure:"max_body_size"`
	// Parallelism is the number of concurrent requests.
	Parallelism int `yaml:"parallelism" mapstructure:"parallelism"`
	// Delay is the fixed delay between requests to the same domain.
	Delay time.Duration `yaml:"delay" mapstructure:"delay"`
	// RandomDelay is an extra randomized delay on top of Delay.
	RandomDelay time.Duration `yaml:"random_delay" mapstructure:"random_delay"`
	// RequestTimeout bounds a single fetch.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	// MaxRetries bounds transient-error retries per request.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
	// RetryDelay is the pause before a transient-error retry.
	RetryDelay time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`
	// AbortGrace is how long in-flight work may finish after an abort.
	AbortGrace time.Duration `yaml:"abort_grace" mapstructure:"abort_grace"`
}

// SummarizerConfig holds summarizer settings. The API key is taken from
// the ANTHROPIC_API_KEY environment variable, never from config files.
type SummarizerConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Model      string        `yaml:"model" mapstructure:"model"`
	MaxTokens  int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxRetries int           `yaml:"max_retries" mapstructure:"max_retries"`
}

// DatasetConfig holds record sink settings.
type DatasetConfig struct {
	// Driver selects the sink: "jsonl", "elasticsearch", or "both".
	Driver        string              `yaml:"driver" mapstructure:"driver"`
	JSONL         JSONLConfig         `yaml:"jsonl" mapstructure:"jsonl"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch" mapstructure:"elasticsearch"`
}

// UsesJSONL reports whether the configured driver writes JSONL files.
func (c *DatasetConfig) UsesJSONL() bool {
	return c.Driver == DatasetDriverJSONL || c.Driver == DatasetDriverBoth
}

// UsesElasticsearch reports whether the configured driver indexes into
// Elasticsearch.
func (c *DatasetConfig) UsesElasticsearch() bool {
	return c.Driver == DatasetDriverElasticsearch || c.Driver == DatasetDriverBoth
}

// JSONLConfig holds local JSONL sink settings.
type JSONLConfig struct {
	// Dir is the directory run files are written into.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ElasticsearchConfig holds Elasticsearch sink settings.
type ElasticsearchConfig struct {
	Addresses []string `yaml:"addresses" mapstructure:"addresses"`
	Username  string   `yaml:"username" mapstructure:"username"`
	Password  string   `yaml:"password" mapstructure:"password"`
	APIKey    string   `yaml:"api_key" mapstructure:"api_key"`
	Index     string   `yaml:"index" mapstructure:"index"`
}

// MeteringConfig holds billing settings.
type MeteringConfig struct {
	// Policy decides when an article bills: "on_content" or "on_summary".
	Policy string `yaml:"policy" mapstructure:"policy"`
	// LedgerPath is the SQLite ledger file. Empty selects the log meter.
	LedgerPath string `yaml:"ledger_path" mapstructure:"ledger_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address         string        `yaml:"address" mapstructure:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ScheduleConfig holds recurring crawl settings.
type ScheduleConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Cron is a standard 5-field cron expression.
	Cron string `yaml:"cron" mapstructure:"cron"`
}

// Load builds and validates the configuration from the given Viper
// instance. Callers are expected to have applied defaults, config file,
// and environment bindings beforehand.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for values that would make a run
// misbehave. Validation failures surface before any network work.
func (c *Config) Validate() error {
	if err := c.validateCrawler(); err != nil {
		return err
	}
	if err := c.validateSummarizer(); err != nil {
		return err
	}
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateMetering(); err != nil {
		return err
	}
	return c.validateSchedule()
}

func (c *Config) validateCrawler() error {
	parsed, err := url.Parse(c.Crawler.BaseURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("crawler.base_url must be an absolute URL, got %q", c.Crawler.BaseURL)
	}
	if c.Crawler.MaxArticles <= 0 {
		return fmt.Errorf("%w: got %d", ErrNonPositiveMaxArticles, c.Crawler.MaxArticles)
	}
	if c.Crawler.PageSize <= 0 {
		return fmt.Errorf("crawler.page_size must be positive, got %d", c.Crawler.PageSize)
	}
	if c.Crawler.ArticleGlob == "" {
		return errors.New("crawler.article_glob is required")
	}
	if c.Crawler.TitleSelector == "" {
		return errors.New("crawler.title_selector is required")
	}
	if c.Crawler.ContentSelector == "" {
		return errors.New("crawler.content_selector is required")
	}
	return nil
}

func (c *Config) validateSummarizer() error {
	if !c.Summarizer.Enabled {
		return nil
	}
	if c.Summarizer.Model == "" {
		return errors.New("summarizer.model is required when the summarizer is enabled")
	}
	if c.Summarizer.MaxTokens <= 0 {
		return fmt.Errorf("summarizer.max_tokens must be positive, got %d", c.Summarizer.MaxTokens)
	}
	return nil
}

func (c *Config) validateDataset() error {
	switch c.Dataset.Driver {
	case DatasetDriverJSONL:
		if c.Dataset.JSONL.Dir == "" {
			return errors.New("dataset.jsonl.dir is required for the jsonl driver")
		}
	case DatasetDriverElasticsearch:
		return c.validateElasticsearch()
	case DatasetDriverBoth:
		if c.Dataset.JSONL.Dir == "" {
			return errors.New("dataset.jsonl.dir is required for the both driver")
		}
		return c.validateElasticsearch()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDatasetDriver, c.Dataset.Driver)
	}
	return nil
}

func (c *Config) validateElasticsearch() error {
	if len(c.Dataset.Elasticsearch.Addresses) == 0 {
		return errors.New("dataset.elasticsearch.addresses is required")
	}
	if c.Dataset.Elasticsearch.Index == "" {
		return errors.New("dataset.elasticsearch.index is required")
	}
	return nil
}

func (c *Config) validateMetering() error {
	if _, err := metering.ParsePolicy(c.Metering.Policy); err != nil {
		return fmt.Errorf("metering.policy: %w", err)
	}
	return nil
}

func (c *Config) validateSchedule() error {
	if !c.Schedule.Enabled {
		return nil
	}
	if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
		return fmt.Errorf("schedule.cron is not a valid cron expression: %w", err)
	}
	return nil
}
