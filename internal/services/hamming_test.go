package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsos/hamming-cli/internal/async"
	"github.com/kelsos/hamming-cli/internal/config"
	"github.com/kelsos/hamming-cli/internal/models"
	"github.com/kelsos/hamming-cli/internal/storage"
)

type fakeAPI struct {
	mu       sync.Mutex
	requests []string
	statuses []string
	results  string
}

func (f *fakeAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.RequestURI())
		f.mu.Unlock()

		switch r.Method + " " + r.URL.Path {
		case "POST /api/v1/outbound/test-runs", "POST /api/v1/inbound/test-runs":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_, _ = w.Write([]byte(`{"run_id": "run-1", "status": "completed",
				"phone_numbers": [{"number": "+15550100", "region": "us", "provider": "twilio"}]}`))
		case "POST /api/rest/test-runs/test-outbound-agent":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "agent-7", body["agentId"])
			assert.Equal(t, []any{"default"}, body["tagIds"])
			_, _ = w.Write([]byte(`{"testRunId": "tr-1", "assignedNumbers": [
				{"phoneNumber": "+15550111", "testCaseTitle": "Refund", "testCaseRunId": "tc-1"}]}`))
		case "GET /api/v1/outbound/test-runs/run-1", "GET /api/v1/inbound/test-runs/run-1", "GET /api/rest/test-runs/tr-1/status":
			f.mu.Lock()
			status := f.statuses[0]
			if len(f.statuses) > 1 {
				f.statuses = f.statuses[1:]
			}
			f.mu.Unlock()
			_, _ = w.Write([]byte(`{"status": "` + status + `"}`))
		case "GET /api/v1/outbound/test-runs/run-1/results", "GET /api/v1/inbound/test-runs/run-1/results", "GET /api/rest/test-runs/tr-1/results":
			_, _ = w.Write([]byte(f.results))
		case "GET /api/v1/inbound/test-runs":
			assert.Equal(t, "2", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"test_runs": [{"run_id": "a"}, {"run_id": "b"}, {"run_id": "c"}]}`))
		case "GET /api/v1/outbound/test-runs":
			_, _ = w.Write([]byte(`[{"run_id": "a"}]`))
		default:
			http.NotFound(w, r)
		}
	}
}

func newTestService(t *testing.T, api *fakeAPI) *HammingService {
	t.Helper()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	cfg := config.NewConfig()
	cfg.APIKey = "sk-test"
	cfg.AppURL = srv.URL
	cfg.BaseURL = srv.URL + "/api/v1"
	cfg.RESTURL = srv.URL + "/api/rest"
	cfg.RetryDelay = time.Millisecond
	cfg.MaxRetries = 1
	cfg.RateLimit = 0

	svc, err := NewHammingService(cfg)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func TestNewHammingServiceRequiresAPIKey(t *testing.T) {
	_, err := NewHammingService(config.NewConfig())
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestCreateThenTerminalStatusFetchesResultsWithoutDelay(t *testing.T) {
	api := &fakeAPI{statuses: []string{"completed"}, results: `{"total_calls": 1, "calls": [{"status": "completed"}]}`}
	svc := newTestService(t, api)
	ctx := context.Background()

	run, err := svc.CreateOutboundRun(ctx, models.OutboundTestConfig{Name: "Basic Outbound Test"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.RunID)

	dir := t.TempDir()
	workflow := NewWorkflow(svc, dir)

	start := time.Now()
	outcome, err := workflow.Complete(ctx, models.CategoryOutbound, run.RunID, async.WaitOptions{})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second, "terminal status must not wait a poll interval")

	assert.Equal(t, models.RunStatusCompleted, outcome.FinalStatus())
	assert.Equal(t, 1, outcome.Results.Int("total_calls", 0))
	assert.Equal(t, filepath.Join(dir, "outbound_test_results_run-1.json"), outcome.ResultsPath)

	saved, err := storage.LoadResults(outcome.ResultsPath)
	require.NoError(t, err)
	assert.Len(t, saved.Objects("calls"), 1)

	assert.Equal(t, []string{
		"POST /api/v1/outbound/test-runs",
		"GET /api/v1/outbound/test-runs/run-1",
		"GET /api/v1/outbound/test-runs/run-1/results",
	}, api.requests)
}

func TestWorkflowPollsUntilTerminal(t *testing.T) {
	api := &fakeAPI{statuses: []string{"RUNNING", "COMPLETED"}, results: `{"summary": {"total": 1}}`}
	svc := newTestService(t, api)

	var ticks int
	outcome, err := NewWorkflow(svc, t.TempDir()).Complete(context.Background(), models.CategoryAgent, "tr-1",
		async.WaitOptions{Interval: time.Millisecond, OnTick: func(async.Tick) { ticks++ }})
	require.NoError(t, err)

	assert.Equal(t, 2, ticks)
	assert.Equal(t, "COMPLETED", outcome.FinalStatus().String())
	assert.Equal(t, 1, outcome.Results.Object("summary").Int("total", 0))
	assert.Equal(t, "outbound_test_results_tr-1.json", filepath.Base(outcome.ResultsPath))
}

func TestInboundWorkflowRereadsFinalStatusBeforeResults(t *testing.T) {
	api := &fakeAPI{statuses: []string{"completed", "COMPLETED"}, results: `{"total_calls": 2}`}
	svc := newTestService(t, api)

	outcome, err := NewWorkflow(svc, t.TempDir()).Complete(context.Background(), models.CategoryInbound, "run-1",
		async.WaitOptions{Interval: time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", outcome.FinalStatus().String())
	assert.Equal(t, 2, outcome.Results.Int("total_calls", 0))
	assert.Equal(t, []string{
		"GET /api/v1/inbound/test-runs/run-1",
		"GET /api/v1/inbound/test-runs/run-1",
		"GET /api/v1/inbound/test-runs/run-1/results",
	}, api.requests)
}

func TestWorkflowTimeoutSkipsResults(t *testing.T) {
	api := &fakeAPI{statuses: []string{"running"}}
	svc := newTestService(t, api)

	_, err := NewWorkflow(svc, t.TempDir()).Complete(context.Background(), models.CategoryOutbound, "run-1",
		async.WaitOptions{Interval: time.Millisecond, MaxWait: 20 * time.Millisecond})
	require.ErrorIs(t, err, async.ErrTimeout)

	for _, req := range api.requests {
		assert.NotContains(t, req, "/results")
	}
}

func TestCreateAgentRunAppliesDefaults(t *testing.T) {
	svc := newTestService(t, &fakeAPI{})

	run, err := svc.CreateAgentRun(context.Background(), models.AgentTestRunRequest{AgentID: "agent-7"})
	require.NoError(t, err)
	assert.Equal(t, "tr-1", run.TestRunID)
	require.Len(t, run.AssignedNumbers, 1)
	assert.Equal(t, "Refund", run.AssignedNumbers[0].TestCaseTitle)

	_, err = svc.CreateAgentRun(context.Background(), models.AgentTestRunRequest{})
	assert.Error(t, err)
}

func TestCreateInboundRunReturnsPhoneNumbers(t *testing.T) {
	svc := newTestService(t, &fakeAPI{})

	run, err := svc.CreateInboundRun(context.Background(), models.InboundTestConfig{Name: "Basic Inbound Test"})
	require.NoError(t, err)
	require.Len(t, run.PhoneNumbers, 1)
	assert.Equal(t, "twilio", run.PhoneNumbers[0].Provider)
}

func TestListRuns(t *testing.T) {
	svc := newTestService(t, &fakeAPI{})

	runs, err := svc.ListRuns(context.Background(), models.CategoryInbound, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "a", runs[0].String("run_id", ""))

	runs, err = svc.ListRuns(context.Background(), models.CategoryOutbound, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestFetchStatusRejectsEmptyRunID(t *testing.T) {
	svc := newTestService(t, &fakeAPI{})

	_, err := svc.FetchStatus(context.Background(), models.CategoryOutbound, "")
	assert.ErrorIs(t, err, models.ErrEmptyRunID)
}

func TestDashboardURL(t *testing.T) {
	svc := newTestService(t, &fakeAPI{})
	assert.Equal(t, svc.config.AppURL+"/test-runs/tr-1", svc.DashboardURL("tr-1"))
}
