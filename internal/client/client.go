package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/kelsos/hamming-cli/internal/config"
	"github.com/kelsos/hamming-cli/internal/logger"
	"github.com/kelsos/hamming-cli/internal/models"
)

// UserAgent is sent with every request
const UserAgent = "hamming-cli/1.0.0"

// APIError is a non-2xx response from the API
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Body)
}

// StatusCode returns the HTTP status of the last failed attempt, 0 when no
// response was received
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// APIClient handles all HTTP communication with the Hamming API
type APIClient struct {
	config     *config.Config
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAPIClient creates a new API client for the given base URL. It fails
// fast when no API key is configured.
func NewAPIClient(cfg *config.Config, baseURL string) (*APIClient, error) {
	if cfg.APIKey == "" {
		return nil, config.ErrMissingAPIKey
	}

	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		burst = max(1, int(cfg.RateLimit))
	}

	return &APIClient{
		config:  cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
	}, nil
}

// NewBackoff returns the retry schedule: base, 2*base, 4*base... for at most
// maxRetries retries
func NewBackoff(base time.Duration, maxRetries int) retry.Backoff {
	return retry.WithMaxRetries(uint64(max(0, maxRetries)), retry.NewExponential(base))
}

// BuildURL constructs a full URL for the given endpoint
func (c *APIClient) BuildURL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// Close releases pooled connections
func (c *APIClient) Close() {
	c.httpClient.CloseIdleConnections()
}

// Do performs a request and returns the decoded JSON object
func (c *APIClient) Do(ctx context.Context, method, endpoint string, body interface{}) (models.Payload, error) {
	var payload models.Payload
	if err := c.request(ctx, method, endpoint, body, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = models.Payload{}
	}
	return payload, nil
}

// Get makes a GET request to the specified endpoint
func (c *APIClient) Get(ctx context.Context, endpoint string, result interface{}) error {
	return c.request(ctx, http.MethodGet, endpoint, nil, result)
}

// Fetch performs a request and decodes the response into a new T
func Fetch[T any](ctx context.Context, c *APIClient, method, endpoint string, body interface{}) (*T, error) {
	var result T
	if err := c.request(ctx, method, endpoint, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// request is the core HTTP request method. Transport errors and non-2xx
// responses are retried with exponential backoff.
func (c *APIClient) request(ctx context.Context, method, endpoint string, body interface{}, result interface{}) error {
	url := c.BuildURL(endpoint)

	var payload []byte
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request body: %w", err)
		}
		payload = jsonBody
	}

	requestID := uuid.NewString()
	attempts := c.config.MaxRetries + 1
	attempt := 0
	var lastErr error

	schedule := NewBackoff(c.config.RetryDelay, c.config.MaxRetries)
	backoff := retry.BackoffFunc(func() (time.Duration, bool) {
		next, stop := schedule.Next()
		if !stop {
			logger.Warn("Request failed (attempt %d/%d): %v", attempt, attempts, lastErr)
			logger.Warn("Retrying in %s...", next)
		}
		return next, stop
	})

	var responseBody []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		b, err := c.attempt(ctx, method, url, requestID, payload)
		if err != nil {
			lastErr = err
			return err
		}
		responseBody = b
		return nil
	})
	if err != nil {
		if attempt > 1 {
			return fmt.Errorf("%s %s failed after %d attempts: %w", method, url, attempt, err)
		}
		return fmt.Errorf("%s %s failed: %w", method, url, err)
	}

	if result == nil || len(bytes.TrimSpace(responseBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(responseBody, result); err != nil {
		logger.Error("%s: Error decoding response: %v", url, err)
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}

// attempt sends one request. Retryable failures are wrapped with
// retry.RetryableError.
func (c *APIClient) attempt(ctx context.Context, method, url, requestID string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	logger.Debug("Making %s request to %s", method, url)
	if c.config.Debug && payload != nil {
		logger.Debug("Payload: %s", indent(payload))
	}

	var requestBody io.Reader
	if payload != nil {
		requestBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, requestBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("Request to %s failed after %v: %v", url, time.Since(start), err)
		return nil, retry.RetryableError(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("error reading response: %w", err))
	}

	logger.Debug("Request to %s completed in %v with status %d", url, time.Since(start), resp.StatusCode)
	if c.config.Debug {
		logger.Debug("Response: %s", string(body))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, retry.RetryableError(&APIError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		})
	}

	return body, nil
}

func indent(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// BuildURLWithParams properly builds a URL with query parameters
func BuildURLWithParams(endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return endpoint
	}

	parts := strings.SplitN(endpoint, "?", 2)
	baseURL := parts[0]

	values := url.Values{}
	if len(parts) > 1 {
		existingParams, _ := url.ParseQuery(parts[1])
		values = existingParams
	}

	for key, value := range params {
		values.Set(key, value)
	}

	if len(values) > 0 {
		return baseURL + "?" + values.Encode()
	}
	return baseURL
}
