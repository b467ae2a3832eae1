package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/newsdigest/internal/crawler"
	"github.com/jonesrussell/newsdigest/internal/logger"
	"github.com/jonesrussell/newsdigest/internal/planner"
)

// CrawlHandler handles crawl control and status requests.
type CrawlHandler struct {
	logger  logger.Interface
	runner  Runner
	tracker *RunTracker
	plan    planner.Plan
}

// NewCrawlHandler creates a new crawl handler.
func NewCrawlHandler(
	log logger.Interface,
	runner Runner,
	tracker *RunTracker,
	plan planner.Plan,
) *CrawlHandler {
	return &CrawlHandler{
		logger:  log,
		runner:  runner,
		tracker: tracker,
		plan:    plan,
	}
}

// GetPlan handles GET /api/v1/plan
func (h *CrawlHandler) GetPlan(c *gin.Context) {
	c.JSON(http.StatusOK, PlanResponse{
		BaseURL:         h.plan.BaseURL,
		PageSize:        h.plan.PageSize,
		TargetItemCount: h.plan.TargetItemCount,
		PageCount:       h.plan.PageCount,
		RequestBudget:   h.plan.RequestBudget(),
		SeedURLs:        h.plan.SeedURLs,
	})
}

// GetStatus handles GET /api/v1/status
func (h *CrawlHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Status())
}

// StartCrawl handles POST /api/v1/crawl
func (h *CrawlHandler) StartCrawl(c *gin.Context) {
	runID, err := h.runner.StartRun()
	if err != nil {
		if errors.Is(err, crawler.ErrAlreadyRunning) {
			respondError(c, http.StatusConflict, "crawl already running")
			return
		}
		h.logger.Error("Failed to start crawl", "error", err)
		respondInternalError(c, "Failed to start crawl")
		return
	}

	h.logger.Info("Crawl triggered via API", "run_id", runID)
	c.JSON(http.StatusAccepted, gin.H{
		"run_id": runID,
		"status": "started",
	})
}

// StopCrawl handles DELETE /api/v1/crawl
func (h *CrawlHandler) StopCrawl(c *gin.Context) {
	if !h.runner.IsRunning() {
		respondError(c, http.StatusConflict, "no crawl running")
		return
	}

	h.runner.StopRun()
	c.JSON(http.StatusAccepted, gin.H{"status": "stopping"})
}
