package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsos/hamming-cli/internal/config"
	"github.com/kelsos/hamming-cli/internal/models"
)

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.APIKey = "sk-test"
	cfg.RetryDelay = time.Millisecond
	cfg.RateLimit = 0
	cfg.Timeout = 2 * time.Second
	return cfg
}

func newTestClient(t *testing.T, cfg *config.Config, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewAPIClient(cfg, srv.URL+"/api/v1")
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestNewAPIClientRequiresAPIKey(t *testing.T) {
	cfg := config.NewConfig()
	_, err := NewAPIClient(cfg, cfg.BaseURL)
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestDoSendsHeadersAndBody(t *testing.T) {
	c := newTestClient(t, testConfig(), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/outbound/test-runs", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Basic Outbound Test", body["name"])

		_, _ = w.Write([]byte(`{"run_id": "run-1", "status": "pending"}`))
	})

	payload, err := c.Do(context.Background(), http.MethodPost, "/outbound/test-runs",
		map[string]any{"name": "Basic Outbound Test"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", payload.String("run_id", ""))
	assert.Equal(t, models.RunStatusPending, models.StatusOf(payload))
}

func TestRetriesExactlyMaxRetriesThenFails(t *testing.T) {
	var calls atomic.Int32
	cfg := testConfig()
	cfg.MaxRetries = 3

	c := newTestClient(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": "down for maintenance"}`))
	})

	_, err := c.Do(context.Background(), http.MethodGet, "/outbound/test-runs/run-1", nil)
	require.Error(t, err)
	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, http.StatusServiceUnavailable, StatusCode(err))
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "down for maintenance")
	assert.Contains(t, err.Error(), "4 attempts")
}

func TestRetriesClientErrorsToo(t *testing.T) {
	var calls atomic.Int32
	cfg := testConfig()
	cfg.MaxRetries = 1

	c := newTestClient(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	_, err := c.Do(context.Background(), http.MethodGet, "/inbound/test-runs/run-1", nil)
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
}

func TestRecoversAfterTransientFailures(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	requestIDs := map[string]bool{}

	c := newTestClient(t, testConfig(), func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requestIDs[r.Header.Get("X-Request-ID")] = true
		mu.Unlock()

		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"status": "completed"}`))
	})

	payload, err := c.Do(context.Background(), http.MethodGet, "/outbound/test-runs/run-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "completed", payload.String("status", ""))
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, requestIDs, 1, "request ID must be stable across retries")
}

func TestZeroRetriesMakesSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	cfg := testConfig()
	cfg.MaxRetries = 0

	c := newTestClient(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Do(context.Background(), http.MethodGet, "/outbound/test-runs", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPerAttemptTimeoutIsRetried(t *testing.T) {
	var calls atomic.Int32
	cfg := testConfig()
	cfg.Timeout = 50 * time.Millisecond
	cfg.MaxRetries = 1

	c := newTestClient(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
			return
		}
		_, _ = w.Write([]byte(`{"status": "running"}`))
	})

	payload, err := c.Do(context.Background(), http.MethodGet, "/outbound/test-runs/run-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "running", payload.String("status", ""))
	assert.Equal(t, int32(2), calls.Load())
}

func TestDecodeErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, testConfig(), func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.Do(context.Background(), http.MethodGet, "/outbound/test-runs/run-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding response")
	assert.Equal(t, int32(1), calls.Load())
}

func TestEmptyBodyYieldsEmptyPayload(t *testing.T) {
	c := newTestClient(t, testConfig(), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	payload, err := c.Do(context.Background(), http.MethodGet, "/outbound/test-runs/run-1", nil)
	require.NoError(t, err)
	assert.NotNil(t, payload)
	assert.Empty(t, payload)
}

func TestFetchDecodesTypedResponse(t *testing.T) {
	c := newTestClient(t, testConfig(), func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"run_id": "run-9", "status": "pending",
			"phone_numbers": [{"number": "+15550100", "region": "us"}]}`))
	})

	resp, err := Fetch[models.CreateRunResponse](context.Background(), c, http.MethodPost, "/inbound/test-runs", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "run-9", resp.RunID)
	require.Len(t, resp.PhoneNumbers, 1)
	assert.Equal(t, "+15550100", resp.PhoneNumbers[0].Number)
}

func TestCanceledContextStopsRetrying(t *testing.T) {
	var calls atomic.Int32
	cfg := testConfig()
	cfg.RetryDelay = time.Hour

	c := newTestClient(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := c.Do(ctx, http.MethodGet, "/outbound/test-runs/run-1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewBackoffDoubles(t *testing.T) {
	b := NewBackoff(time.Second, 3)

	var delays []time.Duration
	for {
		next, stop := b.Next()
		if stop {
			break
		}
		delays = append(delays, next)
	}

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, delays)
}

func TestBuildURL(t *testing.T) {
	c, err := NewAPIClient(testConfig(), "https://app.hamming.ai/api/v1/")
	require.NoError(t, err)

	assert.Equal(t, "https://app.hamming.ai/api/v1/outbound/test-runs", c.BuildURL("/outbound/test-runs"))
	assert.Equal(t, "/outbound/test-runs?limit=10", BuildURLWithParams("/outbound/test-runs", map[string]string{"limit": "10"}))
	assert.Equal(t, "/x", BuildURLWithParams("/x", nil))
}
