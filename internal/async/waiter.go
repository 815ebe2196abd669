package async

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kelsos/hamming-cli/internal/logger"
	"github.com/kelsos/hamming-cli/internal/models"
)

// ErrTimeout matches any *TimeoutError
var ErrTimeout = errors.New("test run did not complete in time")

// TimeoutError is returned when a run is still in progress at the deadline
type TimeoutError struct {
	RunID    string
	Category models.Category
	Elapsed  time.Duration
	MaxWait  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("test run %s did not complete within %s (waited %s)",
		e.RunID, e.MaxWait, e.Elapsed.Round(time.Second))
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// StatusFetcher queries the status endpoint of a category for one run
type StatusFetcher interface {
	FetchStatus(ctx context.Context, category models.Category, runID string) (models.Payload, error)
}

// Tick describes one status request and its response
type Tick struct {
	RunID    string
	Attempt  int
	Status   models.RunStatus
	Snapshot models.Payload
	Elapsed  time.Duration
}

// WaitOptions tune a single wait, zero values take the category defaults
type WaitOptions struct {
	Interval time.Duration
	MaxWait  time.Duration
	// OnTick is called after every status response, including the terminal one
	OnTick func(Tick)
}

// RunWaiter blocks until a test run reaches a terminal status
type RunWaiter struct {
	fetcher StatusFetcher
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewRunWaiter creates a waiter polling through the given fetcher
func NewRunWaiter(fetcher StatusFetcher) *RunWaiter {
	return &RunWaiter{
		fetcher: fetcher,
		now:     time.Now,
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Wait polls the status endpoint of the run at a fixed interval until the
// status is terminal and returns that snapshot. Requests are strictly
// sequential. Fetch errors abort the wait, the fetcher has already retried.
func (w *RunWaiter) Wait(ctx context.Context, category models.Category, runID string, opts WaitOptions) (models.Payload, error) {
	if err := models.ValidateRunID(runID); err != nil {
		return nil, err
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = category.DefaultPollInterval()
	}
	maxWait := opts.MaxWait
	if maxWait <= 0 {
		maxWait = category.DefaultMaxWait()
	}

	start := w.now()
	attempt := 0

	for w.now().Sub(start) < maxWait {
		attempt++

		snapshot, err := w.fetcher.FetchStatus(ctx, category, runID)
		if err != nil {
			return nil, fmt.Errorf("failed to get status of test run %s: %w", runID, err)
		}

		status := models.StatusOf(snapshot)
		logger.Info("Test run %s status: %s", runID, status)

		if opts.OnTick != nil {
			opts.OnTick(Tick{
				RunID:    runID,
				Attempt:  attempt,
				Status:   status,
				Snapshot: snapshot,
				Elapsed:  w.now().Sub(start),
			})
		}

		if status.IsTerminal() {
			return snapshot, nil
		}

		if err := w.sleep(ctx, interval); err != nil {
			return nil, err
		}
	}

	return nil, &TimeoutError{
		RunID:    runID,
		Category: category,
		Elapsed:  w.now().Sub(start),
		MaxWait:  maxWait,
	}
}
