package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kelsos/hamming-cli/internal/client"
	"github.com/kelsos/hamming-cli/internal/config"
	"github.com/kelsos/hamming-cli/internal/logger"
	"github.com/kelsos/hamming-cli/internal/models"
)

// ErrMissingRunID is returned when a create call does not return a run ID
var ErrMissingRunID = errors.New("create test run response has no run ID")

// HammingService wraps the test-run endpoints of both API families
type HammingService struct {
	config *config.Config
	v1     *client.APIClient
	rest   *client.APIClient
}

// NewHammingService creates the service, failing fast without an API key
func NewHammingService(cfg *config.Config) (*HammingService, error) {
	v1, err := client.NewAPIClient(cfg, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	rest, err := client.NewAPIClient(cfg, cfg.RESTURL)
	if err != nil {
		return nil, err
	}

	return &HammingService{
		config: cfg,
		v1:     v1,
		rest:   rest,
	}, nil
}

// Close releases the connections of both clients
func (s *HammingService) Close() {
	s.v1.Close()
	s.rest.Close()
}

func (s *HammingService) clientFor(category models.Category) *client.APIClient {
	if category.UsesRESTAPI() {
		return s.rest
	}
	return s.v1
}

// CreateOutboundRun creates an outbound test run
func (s *HammingService) CreateOutboundRun(ctx context.Context, cfg models.OutboundTestConfig) (*models.CreateRunResponse, error) {
	return s.createRun(ctx, models.CategoryOutbound, cfg)
}

// CreateInboundRun creates an inbound test run, the response carries the
// phone numbers to call
func (s *HammingService) CreateInboundRun(ctx context.Context, cfg models.InboundTestConfig) (*models.CreateRunResponse, error) {
	return s.createRun(ctx, models.CategoryInbound, cfg)
}

func (s *HammingService) createRun(ctx context.Context, category models.Category, body interface{}) (*models.CreateRunResponse, error) {
	logger.Info("Creating %s test run...", category)

	response, err := client.Fetch[models.CreateRunResponse](ctx, s.v1, http.MethodPost, category.CreatePath(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s test run: %w", category, err)
	}
	if response.RunID == "" {
		return nil, ErrMissingRunID
	}

	logger.Info("Created %s test run %s (status: %s)", category, response.RunID, response.Status)
	return response, nil
}

// CreateAgentRun creates an agent test run and returns the assigned numbers
func (s *HammingService) CreateAgentRun(ctx context.Context, req models.AgentTestRunRequest) (*models.AgentTestRunResponse, error) {
	if req.AgentID == "" {
		return nil, errors.New("agent ID is required, set HAMMING_AGENT_ID or pass --agent-id")
	}
	if req.Name == "" {
		req.Name = "API Test Run"
	}
	if len(req.TagIDs) == 0 {
		req.TagIDs = []string{"default"}
	}
	if req.TimeoutMinutes <= 0 {
		req.TimeoutMinutes = 10
	}

	logger.Info("Creating agent test run for agent %s...", req.AgentID)

	response, err := client.Fetch[models.AgentTestRunResponse](ctx, s.rest, http.MethodPost, models.CategoryAgent.CreatePath(), req)
	if err != nil {
		return nil, fmt.Errorf("failed to create test run: %w", err)
	}
	if response.TestRunID == "" {
		return nil, ErrMissingRunID
	}

	logger.Info("Created agent test run %s with %d assigned numbers", response.TestRunID, len(response.AssignedNumbers))
	return response, nil
}

// FetchStatus returns the current status snapshot of a run
func (s *HammingService) FetchStatus(ctx context.Context, category models.Category, runID string) (models.Payload, error) {
	if err := models.ValidateRunID(runID); err != nil {
		return nil, err
	}
	return s.clientFor(category).Do(ctx, http.MethodGet, category.StatusPath(runID), nil)
}

// FetchResults returns the results payload of a run
func (s *HammingService) FetchResults(ctx context.Context, category models.Category, runID string) (models.Payload, error) {
	if err := models.ValidateRunID(runID); err != nil {
		return nil, err
	}

	results, err := s.clientFor(category).Do(ctx, http.MethodGet, category.ResultsPath(runID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get test results: %w", err)
	}
	return results, nil
}

// ListRuns returns recent runs of a category
func (s *HammingService) ListRuns(ctx context.Context, category models.Category, limit int) ([]models.Payload, error) {
	endpoint := category.ListPath()
	if limit > 0 {
		endpoint = client.BuildURLWithParams(endpoint, map[string]string{"limit": strconv.Itoa(limit)})
	}

	var response interface{}
	if err := s.clientFor(category).Get(ctx, endpoint, &response); err != nil {
		return nil, fmt.Errorf("failed to list %s test runs: %w", category, err)
	}

	runs := runsFrom(response)
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// runsFrom accepts a bare list or an object wrapping the list
func runsFrom(response interface{}) []models.Payload {
	switch v := response.(type) {
	case []interface{}:
		return models.Payload{"items": v}.Objects("items")
	case map[string]interface{}:
		p := models.Payload(v)
		for _, key := range []string{"test_runs", "testRuns", "runs", "data", "items"} {
			if p.Has(key) {
				return p.Objects(key)
			}
		}
	}
	return nil
}

// DashboardURL is where the run can be inspected in the web app
func (s *HammingService) DashboardURL(runID string) string {
	return fmt.Sprintf("%s/test-runs/%s", s.config.AppURL, runID)
}
