package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/newsdigest/internal/domain"
)

// DataHandler serves stored records and billing aggregates.
type DataHandler struct {
	records RecordReader
	billing BillingReader
}

// NewDataHandler creates a new data handler. Either reader may be nil
// when the deployment has no backing store for it.
func NewDataHandler(records RecordReader, billing BillingReader) *DataHandler {
	return &DataHandler{
		records: records,
		billing: billing,
	}
}

// ListRecords handles GET /api/v1/records
func (h *DataHandler) ListRecords(c *gin.Context) {
	if h.records == nil {
		respondError(c, http.StatusNotImplemented,
			"records require the elasticsearch dataset driver")
		return
	}

	size := parseSize(c, defaultRecordsSize, maxRecordsSize)

	records, err := h.records.SearchRecent(c.Request.Context(), size)
	if err != nil {
		respondInternalError(c, "Failed to retrieve records")
		return
	}

	c.JSON(http.StatusOK, RecordsResponse{
		Records: records,
		Total:   len(records),
	})
}

// BillingSummary handles GET /api/v1/billing
func (h *DataHandler) BillingSummary(c *gin.Context) {
	if h.billing == nil {
		respondError(c, http.StatusNotImplemented,
			"billing summary requires a ledger-backed meter")
		return
	}

	runID := c.Query("run_id")

	counts, err := h.countsFor(c, runID)
	if err != nil {
		respondInternalError(c, "Failed to retrieve billing summary")
		return
	}

	c.JSON(http.StatusOK, BillingResponse{
		RunID:  runID,
		Events: counts,
	})
}

func (h *DataHandler) countsFor(c *gin.Context, runID string) ([]domain.EventCount, error) {
	if runID != "" {
		return h.billing.CountsForRun(c.Request.Context(), runID)
	}
	return h.billing.Counts(c.Request.Context())
}
