package models

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

// Category selects the endpoint family a test run lives in
type Category string

const (
	CategoryOutbound Category = "outbound"
	CategoryInbound  Category = "inbound"
	// CategoryAgent is the agent-driven outbound flow served by the REST API
	CategoryAgent Category = "agent"
)

// Categories lists every supported category
var Categories = []Category{CategoryOutbound, CategoryInbound, CategoryAgent}

// ParseCategory parses a category name, case-insensitively
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Categories, c) {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q, expected one of outbound, inbound, agent", s)
}

func (c Category) String() string {
	return string(c)
}

// UsesRESTAPI reports whether the category is served from the REST base URL
func (c Category) UsesRESTAPI() bool {
	return c == CategoryAgent
}

// CreatePath is the endpoint that creates a run
func (c Category) CreatePath() string {
	if c == CategoryAgent {
		return "/test-runs/test-outbound-agent"
	}
	return fmt.Sprintf("/%s/test-runs", c)
}

// ListPath is the endpoint that lists recent runs
func (c Category) ListPath() string {
	if c == CategoryAgent {
		return "/test-runs"
	}
	return fmt.Sprintf("/%s/test-runs", c)
}

// StatusPath is the endpoint polled for the run status
func (c Category) StatusPath(runID string) string {
	if c == CategoryAgent {
		return fmt.Sprintf("/test-runs/%s/status", url.PathEscape(runID))
	}
	return fmt.Sprintf("/%s/test-runs/%s", c, url.PathEscape(runID))
}

// ResultsPath is the endpoint returning the run results
func (c Category) ResultsPath(runID string) string {
	if c == CategoryAgent {
		return fmt.Sprintf("/test-runs/%s/results", url.PathEscape(runID))
	}
	return fmt.Sprintf("/%s/test-runs/%s/results", c, url.PathEscape(runID))
}

// DefaultPollInterval is the fixed delay between two status requests
func (c Category) DefaultPollInterval() time.Duration {
	if c == CategoryAgent {
		return 10 * time.Second
	}
	return 5 * time.Second
}

// DefaultMaxWait is how long a run is polled before giving up
func (c Category) DefaultMaxWait() time.Duration {
	if c == CategoryOutbound {
		return 300 * time.Second
	}
	return 600 * time.Second
}

// ResultsFilePrefix names the results dump, agent runs are outbound calls
func (c Category) ResultsFilePrefix() string {
	if c == CategoryAgent {
		return string(CategoryOutbound)
	}
	return string(c)
}
