package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingAPIKey is returned when no API key has been configured
var ErrMissingAPIKey = errors.New("API key is required, set the HAMMING_API_KEY environment variable")

const (
	DefaultAppURL = "https://app.hamming.ai"
)

// Config holds all application configuration
type Config struct {
	// API settings
	APIKey  string
	AppURL  string
	BaseURL string
	RESTURL string

	// Request settings
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	RateLimit  float64
	Debug      bool

	// Polling settings, zero means the category default
	PollInterval time.Duration
	WaitTimeout  time.Duration

	// Output settings
	ResultsDir string

	AgentID string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		AppURL:     DefaultAppURL,
		BaseURL:    DefaultAppURL + "/api/v1",
		RESTURL:    DefaultAppURL + "/api/rest",
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second,
		RateLimit:  5,
		ResultsDir: ".",
	}
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() {
	if apiKey := os.Getenv("HAMMING_API_KEY"); apiKey != "" {
		c.APIKey = apiKey
	}

	// The API URLs follow the app URL unless they are set explicitly
	if appURL := os.Getenv("HAMMING_APP_URL"); appURL != "" {
		c.AppURL = strings.TrimRight(appURL, "/")
		c.BaseURL = c.AppURL + "/api/v1"
		c.RESTURL = c.AppURL + "/api/rest"
	}

	if baseURL := os.Getenv("HAMMING_API_URL"); baseURL != "" {
		c.BaseURL = strings.TrimRight(baseURL, "/")
	}

	if restURL := os.Getenv("HAMMING_REST_API_URL"); restURL != "" {
		c.RESTURL = strings.TrimRight(restURL, "/")
	}

	if timeout := os.Getenv("HAMMING_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			c.Timeout = time.Duration(t) * time.Second
		}
	}

	if retries := os.Getenv("HAMMING_MAX_RETRIES"); retries != "" {
		if r, err := strconv.Atoi(retries); err == nil {
			c.MaxRetries = r
		}
	}

	if delay := os.Getenv("HAMMING_RETRY_DELAY"); delay != "" {
		if d, err := strconv.Atoi(delay); err == nil {
			c.RetryDelay = time.Duration(d) * time.Millisecond
		}
	}

	if limit := os.Getenv("HAMMING_RATE_LIMIT"); limit != "" {
		if l, err := strconv.ParseFloat(limit, 64); err == nil {
			c.RateLimit = l
		}
	}

	if debug := os.Getenv("HAMMING_DEBUG"); debug != "" {
		c.Debug = strings.EqualFold(debug, "true")
	}

	if interval := os.Getenv("HAMMING_POLL_INTERVAL"); interval != "" {
		if i, err := strconv.Atoi(interval); err == nil {
			c.PollInterval = time.Duration(i) * time.Second
		}
	}

	if wait := os.Getenv("HAMMING_WAIT_TIMEOUT"); wait != "" {
		if w, err := strconv.Atoi(wait); err == nil {
			c.WaitTimeout = time.Duration(w) * time.Second
		}
	}

	if resultsDir := os.Getenv("HAMMING_RESULTS_DIR"); resultsDir != "" {
		c.ResultsDir = resultsDir
	}

	if agentID := os.Getenv("HAMMING_AGENT_ID"); agentID != "" {
		c.AgentID = agentID
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}

	for name, raw := range map[string]string{"base URL": c.BaseURL, "REST URL": c.RESTURL, "app URL": c.AppURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", name, raw)
		}
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got: %s", c.Timeout)
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be non-negative, got: %d", c.MaxRetries)
	}

	if c.RetryDelay <= 0 {
		return fmt.Errorf("retry delay must be positive, got: %s", c.RetryDelay)
	}

	if c.PollInterval < 0 || c.WaitTimeout < 0 {
		return fmt.Errorf("poll interval and wait timeout must be non-negative")
	}

	return nil
}
