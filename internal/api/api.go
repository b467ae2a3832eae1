// Package api implements the HTTP API for the digest service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/newsdigest/internal/config"
	"github.com/jonesrussell/newsdigest/internal/domain"
	"github.com/jonesrussell/newsdigest/internal/logger"
	"github.com/jonesrussell/newsdigest/internal/planner"
)

// Runner starts and stops crawl runs on behalf of the HTTP surface.
// Runs outlive the triggering request, so StartRun takes no context.
type Runner interface {
	// StartRun launches an asynchronous crawl and returns its run ID.
	// Returns crawler.ErrAlreadyRunning while a run is active.
	StartRun() (string, error)

	// StopRun aborts the active run, if any.
	StopRun()

	// IsRunning reports whether a run is active.
	IsRunning() bool
}

// RecordReader lists recently indexed article records.
type RecordReader interface {
	SearchRecent(ctx context.Context, size int) ([]domain.ArticleRecord, error)
}

// BillingReader aggregates billed events from the ledger.
type BillingReader interface {
	Counts(ctx context.Context) ([]domain.EventCount, error)
	CountsForRun(ctx context.Context, runID string) ([]domain.EventCount, error)
}

// Constants
const (
	readHeaderTimeout  = 10 * time.Second // Timeout for reading headers
	defaultRecordsSize = 10
	maxRecordsSize     = 100
)

// Deps holds the router's collaborators. Records and Billing are
// optional; their routes answer 501 when the configured dataset driver
// or meter cannot serve them.
type Deps struct {
	Logger  logger.Interface
	Runner  Runner
	Tracker *RunTracker
	Plan    planner.Plan
	Records RecordReader
	Billing BillingReader
}

// SetupRouter creates and configures the Gin router with all routes.
func SetupRouter(deps Deps) *gin.Engine {
	// Disable Gin's default logging
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(deps.Logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	crawlHandler := NewCrawlHandler(deps.Logger, deps.Runner, deps.Tracker, deps.Plan)
	dataHandler := NewDataHandler(deps.Records, deps.Billing)

	v1 := router.Group("/api/v1")
	v1.GET("/plan", crawlHandler.GetPlan)
	v1.GET("/status", crawlHandler.GetStatus)
	v1.POST("/crawl", crawlHandler.StartCrawl)
	v1.DELETE("/crawl", crawlHandler.StopCrawl)
	v1.GET("/records", dataHandler.ListRecords)
	v1.GET("/billing", dataHandler.BillingSummary)

	return router
}

// loggingMiddleware creates a middleware that logs HTTP requests
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP Request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", statusCode,
			"latency", latency,
		)
	}
}

// NewHTTPServer builds the HTTP server for the digest API with the
// configured address and timeouts. The caller owns ListenAndServe and
// shutdown.
func NewHTTPServer(deps Deps, cfg *config.ServerConfig) *http.Server {
	router := SetupRouter(deps)

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
