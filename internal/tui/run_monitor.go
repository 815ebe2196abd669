package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kelsos/hamming-cli/internal/async"
	"github.com/kelsos/hamming-cli/internal/logger"
	"github.com/kelsos/hamming-cli/internal/models"
)

// RunMonitor renders the progress of one test run while it is polled
type RunMonitor struct {
	program *tea.Program
}

func NewRunMonitor(category models.Category, runID string, opts ...tea.ProgramOption) *RunMonitor {
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &RunMonitor{
		program: tea.NewProgram(NewModel(category, runID), opts...),
	}
}

// OnTick forwards a poll tick to the UI, pass it as async.WaitOptions.OnTick
func (rm *RunMonitor) OnTick(tick async.Tick) {
	rm.program.Send(StatusUpdate{
		Status:         tick.Status,
		Attempt:        tick.Attempt,
		CallsCompleted: tick.Snapshot.Int("calls_completed", 0),
		CallsExpected:  tick.Snapshot.Int("calls_expected", 0),
		Elapsed:        tick.Elapsed,
	})
	rm.AddLog(fmt.Sprintf("Poll %d: status %s", tick.Attempt, tick.Status))
}

func (rm *RunMonitor) AddLog(message string) {
	rm.program.Send(LogMessage{Message: message})
}

// Run executes work while the UI is shown. Quitting the UI cancels the
// context handed to work.
func (rm *RunMonitor) Run(ctx context.Context, work func(ctx context.Context) (models.RunStatus, error)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		status, err := work(ctx)
		if err != nil {
			logger.Error("Monitored run failed: %v", err)
		}
		rm.program.Send(RunFinished{Status: status, Err: err})
		done <- err
	}()

	if _, err := rm.program.Run(); err != nil {
		cancel()
		<-done
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	// The user may have quit before the run finished
	cancel()
	return <-done
}
