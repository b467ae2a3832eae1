package crawler

import (
	"context"
	"fmt"
	"regexp"
	"time"

	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/newsdigest/internal/config"
)

// Collector defaults applied when config leaves them unset.
const (
	defaultParallelism = 2
	defaultDelay       = 1 * time.Second
)

// collectorMaxDepth keeps both collectors on explicitly enqueued URLs
// only: seeds and enqueued article links sit at depth 1, anything
// discovered past them is refused.
const collectorMaxDepth = 1

// retryCountKey is the request context key for the HTTP retry count in
// OnError.
const retryCountKey = "retry_count"

// buildCollectorOptions builds the Colly options shared by the listing
// and article collectors. maxRequests caps the number of fetches the
// collector performs; urlFilters restricts which URLs it accepts.
func buildCollectorOptions(
	ctx context.Context,
	cfg *config.CrawlerConfig,
	maxRequests int,
	allowedDomains []string,
	urlFilters []*regexp.Regexp,
) []colly.CollectorOption {
	opts := []colly.CollectorOption{
		colly.StdlibContext(ctx),
		colly.MaxDepth(collectorMaxDepth),
		colly.Async(true),
		colly.ParseHTTPErrorResponse(),
		colly.IgnoreRobotsTxt(),
	}

	if cfg.UserAgent != "" {
		opts = append(opts, colly.UserAgent(cfg.UserAgent))
	}
	if cfg.MaxBodySize > 0 {
		opts = append(opts, colly.MaxBodySize(cfg.MaxBodySize))
	}
	if maxRequests > 0 {
		opts = append(opts, colly.MaxRequests(uint32(maxRequests)))
	}
	if len(urlFilters) > 0 {
		opts = append(opts, colly.URLFilters(urlFilters...))
	}
	if len(allowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(allowedDomains...))
	}

	return opts
}

// configureCollector applies the request timeout and rate limit to a
// freshly built collector.
func configureCollector(collector *colly.Collector, cfg *config.CrawlerConfig) error {
	if cfg.RequestTimeout > 0 {
		collector.SetRequestTimeout(cfg.RequestTimeout)
	}

	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	delay := cfg.Delay
	if delay <= 0 {
		delay = defaultDelay
	}

	err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       delay,
		RandomDelay: cfg.RandomDelay,
		Parallelism: parallelism,
	})
	if err != nil {
		return fmt.Errorf("failed to set rate limit: %w", err)
	}

	return nil
}

// requestCallback returns the OnRequest callback that aborts pending
// requests once the run is cancelled or aborted.
func (e *Engine) requestCallback(ctx context.Context) func(*colly.Request) {
	return func(r *colly.Request) {
		select {
		case <-ctx.Done():
			r.Abort()
			return
		case <-e.signals.AbortChannel():
			r.Abort()
			return
		default:
			e.logger.Debug("Visiting URL", "url", r.URL.String())
		}
	}
}

// errorCallback returns the OnError callback with expected-error
// filtering and transient-error retries.
func (e *Engine) errorCallback() func(*colly.Response, error) {
	return func(r *colly.Response, visitErr error) {
		if isExpectedCrawlError(visitErr) {
			e.logger.Debug("Expected error while crawling",
				"url", r.Request.URL.String(),
				"status", r.StatusCode,
				"error", visitErr.Error(),
			)
			return
		}

		if e.tryHTTPRetry(r, visitErr) {
			return
		}

		e.logger.Error("Crawl error",
			"url", r.Request.URL.String(),
			"status", r.StatusCode,
			"error", visitErr,
		)
		e.state.IncrementError()
	}
}

// tryHTTPRetry attempts to retry the request for transient errors.
// Returns true if it handled the error, false if not retryable.
func (e *Engine) tryHTTPRetry(r *colly.Response, visitErr error) bool {
	if !isTransientCrawlError(r.StatusCode, visitErr) || e.cfg.MaxRetries <= 0 {
		return false
	}

	count := 0
	if v := r.Request.Ctx.GetAny(retryCountKey); v != nil {
		if n, ok := v.(int); ok {
			count = n
		}
	}

	if count >= e.cfg.MaxRetries {
		e.logger.Error("Crawl error after retries",
			"url", r.Request.URL.String(),
			"status", r.StatusCode,
			"error", visitErr,
			"retries", count,
		)
		e.state.IncrementError()
		return true
	}

	r.Request.Ctx.Put(retryCountKey, count+1)
	time.Sleep(e.cfg.RetryDelay)
	if retryErr := r.Request.Retry(); retryErr != nil {
		if !isExpectedCrawlError(retryErr) {
			e.logger.Warn("Retry failed",
				"url", r.Request.URL.String(),
				"error", retryErr,
			)
			e.state.IncrementError()
		}
	}
	return true
}
