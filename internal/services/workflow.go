package services

import (
	"context"
	"fmt"

	"github.com/kelsos/hamming-cli/internal/async"
	"github.com/kelsos/hamming-cli/internal/logger"
	"github.com/kelsos/hamming-cli/internal/models"
	"github.com/kelsos/hamming-cli/internal/storage"
)

// RunAPI is the part of the API a workflow needs once a run exists
type RunAPI interface {
	async.StatusFetcher
	FetchResults(ctx context.Context, category models.Category, runID string) (models.Payload, error)
}

// RunOutcome is everything collected for a finished run
type RunOutcome struct {
	Category    models.Category
	RunID       string
	Final       models.Payload
	Results     models.Payload
	ResultsPath string
}

// FinalStatus is the status of the terminal snapshot
func (o *RunOutcome) FinalStatus() models.RunStatus {
	return models.StatusOf(o.Final)
}

// Workflow waits for a run, fetches its results and saves them
type Workflow struct {
	api        RunAPI
	waiter     *async.RunWaiter
	resultsDir string
}

// NewWorkflow creates a workflow writing results into resultsDir
func NewWorkflow(api RunAPI, resultsDir string) *Workflow {
	return &Workflow{
		api:        api,
		waiter:     async.NewRunWaiter(api),
		resultsDir: resultsDir,
	}
}

// Wait blocks until the run is terminal
func (w *Workflow) Wait(ctx context.Context, category models.Category, runID string, opts async.WaitOptions) (models.Payload, error) {
	return w.waiter.Wait(ctx, category, runID, opts)
}

// Complete waits for the run, fetches the results and writes them to disk
func (w *Workflow) Complete(ctx context.Context, category models.Category, runID string, opts async.WaitOptions) (*RunOutcome, error) {
	logger.Info("Waiting for %s test run %s to complete...", category, runID)

	final, err := w.waiter.Wait(ctx, category, runID, opts)
	if err != nil {
		return nil, err
	}

	if category == models.CategoryInbound {
		// Inbound runs read the final status once more before the results
		final, err = w.api.FetchStatus(ctx, category, runID)
		if err != nil {
			return nil, fmt.Errorf("failed to get final status of test run %s: %w", runID, err)
		}
	}

	logger.Info("Test run %s finished with status %s, retrieving results...", runID, models.StatusOf(final))

	results, err := w.api.FetchResults(ctx, category, runID)
	if err != nil {
		return nil, err
	}

	path, err := w.Save(category, runID, results)
	if err != nil {
		return nil, err
	}

	return &RunOutcome{
		Category:    category,
		RunID:       runID,
		Final:       final,
		Results:     results,
		ResultsPath: path,
	}, nil
}

// Save writes the results of a run into the results directory
func (w *Workflow) Save(category models.Category, runID string, results models.Payload) (string, error) {
	path, err := storage.SaveResults(w.resultsDir, category.ResultsFilePrefix(), runID, results)
	if err != nil {
		return "", fmt.Errorf("failed to save results of test run %s: %w", runID, err)
	}
	logger.Debug("Saved results of test run %s to %s", runID, path)
	return path, nil
}
