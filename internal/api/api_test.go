package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsdigest/internal/api"
	"github.com/jonesrussell/newsdigest/internal/crawler"
	"github.com/jonesrussell/newsdigest/internal/domain"
	"github.com/jonesrussell/newsdigest/internal/logger"
	"github.com/jonesrussell/newsdigest/internal/planner"
)

// fakeRunner implements api.Runner for testing.
type fakeRunner struct {
	startErr error
	running  bool
	stopped  bool
}

func (r *fakeRunner) StartRun() (string, error) {
	if r.startErr != nil {
		return "", r.startErr
	}
	return "run-test-1", nil
}

func (r *fakeRunner) StopRun() { r.stopped = true }

func (r *fakeRunner) IsRunning() bool { return r.running }

// fakeRecordReader implements api.RecordReader for testing.
type fakeRecordReader struct {
	gotSize int
	records []domain.ArticleRecord
	err     error
}

func (f *fakeRecordReader) SearchRecent(_ context.Context, size int) ([]domain.ArticleRecord, error) {
	f.gotSize = size
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

// fakeBillingReader implements api.BillingReader for testing.
type fakeBillingReader struct {
	gotRunID string
	counts   []domain.EventCount
	err      error
}

func (f *fakeBillingReader) Counts(context.Context) ([]domain.EventCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.counts, nil
}

func (f *fakeBillingReader) CountsForRun(_ context.Context, runID string) ([]domain.EventCount, error) {
	f.gotRunID = runID
	if f.err != nil {
		return nil, f.err
	}
	return f.counts, nil
}

func testPlan(t *testing.T) planner.Plan {
	t.Helper()
	plan, err := planner.Compute("https://news.example.com/tag/go", 48, 24)
	require.NoError(t, err)
	return plan
}

func newTestDeps(t *testing.T) api.Deps {
	t.Helper()
	return api.Deps{
		Logger:  logger.NewNoOp(),
		Runner:  &fakeRunner{},
		Tracker: api.NewRunTracker(),
		Plan:    testPlan(t),
	}
}

func doRequest(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, http.NoBody)
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := api.SetupRouter(newTestDeps(t))

	w := doRequest(router, http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetPlan(t *testing.T) {
	router := api.SetupRouter(newTestDeps(t))

	w := doRequest(router, http.MethodGet, "/api/v1/plan")

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://news.example.com/tag/go", resp.BaseURL)
	assert.Equal(t, 24, resp.PageSize)
	assert.Equal(t, 48, resp.TargetItemCount)
	assert.Equal(t, 2, resp.PageCount)
	assert.Equal(t, 50, resp.RequestBudget)
	assert.Equal(t, []string{
		"https://news.example.com/tag/go",
		"https://news.example.com/tag/go/?page=2",
	}, resp.SeedURLs)
}

func TestGetStatus_Idle(t *testing.T) {
	router := api.SetupRouter(newTestDeps(t))

	w := doRequest(router, http.MethodGet, "/api/v1/status")

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.RunStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, api.RunStateIdle, resp.State)
	assert.Empty(t, resp.RunID)
	assert.Nil(t, resp.LastRun)
}

func TestGetStatus_AfterRun(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	require.NoError(t, deps.Tracker.HandleStart(ctx, "run-9"))
	require.NoError(t, deps.Tracker.HandleRecord(ctx, &domain.ArticleRecord{URL: "https://news.example.com/story/a"}))
	require.NoError(t, deps.Tracker.HandleRecord(ctx, &domain.ArticleRecord{URL: "https://news.example.com/story/b"}))
	require.NoError(t, deps.Tracker.HandleBilled(ctx, &domain.BillingEvent{RunID: "run-9"}))
	require.NoError(t, deps.Tracker.HandleDone(ctx, &domain.RunSummary{RunID: "run-9", ArticlesEmitted: 2}))

	router := api.SetupRouter(deps)
	w := doRequest(router, http.MethodGet, "/api/v1/status")

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.RunStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, api.RunStateDone, resp.State)
	assert.Equal(t, "run-9", resp.RunID)
	assert.Equal(t, int64(2), resp.RecordsEmitted)
	assert.Equal(t, int64(1), resp.EventsBilled)
	require.NotNil(t, resp.LastRun)
	assert.Equal(t, int64(2), resp.LastRun.ArticlesEmitted)
}

func TestRunTracker_StartResetsCounters(t *testing.T) {
	t.Parallel()

	tracker := api.NewRunTracker()
	ctx := context.Background()

	require.NoError(t, tracker.HandleStart(ctx, "run-1"))
	require.NoError(t, tracker.HandleRecord(ctx, &domain.ArticleRecord{}))
	require.NoError(t, tracker.HandleDone(ctx, &domain.RunSummary{RunID: "run-1"}))

	require.NoError(t, tracker.HandleStart(ctx, "run-2"))

	status := tracker.Status()
	assert.Equal(t, api.RunStateRunning, status.State)
	assert.Equal(t, "run-2", status.RunID)
	assert.Zero(t, status.RecordsEmitted)
	require.NotNil(t, status.LastRun)
	assert.Equal(t, "run-1", status.LastRun.RunID)
}

func TestStartCrawl(t *testing.T) {
	deps := newTestDeps(t)
	router := api.SetupRouter(deps)

	w := doRequest(router, http.MethodPost, "/api/v1/crawl")

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"run_id":"run-test-1","status":"started"}`, w.Body.String())
}

func TestStartCrawl_AlreadyRunning(t *testing.T) {
	deps := newTestDeps(t)
	deps.Runner = &fakeRunner{startErr: crawler.ErrAlreadyRunning}
	router := api.SetupRouter(deps)

	w := doRequest(router, http.MethodPost, "/api/v1/crawl")

	require.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"crawl already running"}`, w.Body.String())
}

func TestStartCrawl_Failure(t *testing.T) {
	deps := newTestDeps(t)
	deps.Runner = &fakeRunner{startErr: errors.New("no sink")}
	router := api.SetupRouter(deps)

	w := doRequest(router, http.MethodPost, "/api/v1/crawl")

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStopCrawl(t *testing.T) {
	deps := newTestDeps(t)
	runner := &fakeRunner{running: true}
	deps.Runner = runner
	router := api.SetupRouter(deps)

	w := doRequest(router, http.MethodDelete, "/api/v1/crawl")

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.True(t, runner.stopped)
}

func TestStopCrawl_NothingRunning(t *testing.T) {
	router := api.SetupRouter(newTestDeps(t))

	w := doRequest(router, http.MethodDelete, "/api/v1/crawl")

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestListRecords(t *testing.T) {
	deps := newTestDeps(t)
	reader := &fakeRecordReader{
		records: []domain.ArticleRecord{
			{Title: domain.OptionalText("First"), URL: "https://news.example.com/story/a"},
			{Title: domain.OptionalText("Second"), URL: "https://news.example.com/story/b"},
		},
	}
	deps.Records = reader
	router := api.SetupRouter(deps)

	w := doRequest(router, http.MethodGet, "/api/v1/records?size=5")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, reader.gotSize)

	var resp api.RecordsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Records, 2)
	require.NotNil(t, resp.Records[0].Title)
	assert.Equal(t, "First", *resp.Records[0].Title)
}

func TestListRecords_SizeCapped(t *testing.T) {
	deps := newTestDeps(t)
	reader := &fakeRecordReader{}
	deps.Records = reader
	router := api.SetupRouter(deps)

	w := doRequest(router, http.MethodGet, "/api/v1/records?size=1000")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, reader.gotSize)
}

func TestListRecords_NotConfigured(t *testing.T) {
	router := api.SetupRouter(newTestDeps(t))

	w := doRequest(router, http.MethodGet, "/api/v1/records")

	require.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestListRecords_Failure(t *testing.T) {
	deps := newTestDeps(t)
	deps.Records = &fakeRecordReader{err: errors.New("index unavailable")}
	router := api.SetupRouter(deps)

	w := doRequest(router, http.MethodGet, "/api/v1/records")

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestBillingSummary(t *testing.T) {
	deps := newTestDeps(t)
	deps.Billing = &fakeBillingReader{
		counts: []domain.EventCount{{EventName: "article_summary", Count: 4}},
	}
	router := api.SetupRouter(deps)

	w := doRequest(router, http.MethodGet, "/api/v1/billing")

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.BillingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "article_summary", resp.Events[0].EventName)
	assert.Equal(t, int64(4), resp.Events[0].Count)
}

func TestBillingSummary_ForRun(t *testing.T) {
	deps := newTestDeps(t)
	billing := &fakeBillingReader{counts: []domain.EventCount{}}
	deps.Billing = billing
	router := api.SetupRouter(deps)

	w := doRequest(router, http.MethodGet, "/api/v1/billing?run_id=run-7")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "run-7", billing.gotRunID)

	var resp api.BillingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "run-7", resp.RunID)
}

func TestBillingSummary_NotConfigured(t *testing.T) {
	router := api.SetupRouter(newTestDeps(t))

	w := doRequest(router, http.MethodGet, "/api/v1/billing")

	require.Equal(t, http.StatusNotImplemented, w.Code)
}
