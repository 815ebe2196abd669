package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kelsos/hamming-cli/internal/async"
	"github.com/kelsos/hamming-cli/internal/config"
	"github.com/kelsos/hamming-cli/internal/logger"
	"github.com/kelsos/hamming-cli/internal/models"
	"github.com/kelsos/hamming-cli/internal/services"
	"github.com/kelsos/hamming-cli/internal/tui"
	"github.com/kelsos/hamming-cli/internal/utils"
)

type app struct {
	cfg *config.Config
	tui bool
}

func (a *app) newService() (*services.HammingService, error) {
	svc, err := services.NewHammingService(a.cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("Client initialized for %s", a.cfg.BaseURL)
	return svc, nil
}

func (a *app) waitOptions() async.WaitOptions {
	return async.WaitOptions{
		Interval: a.cfg.PollInterval,
		MaxWait:  a.cfg.WaitTimeout,
	}
}

// useFileLogging moves logging to a file while the TUI owns the terminal,
// keeping the debug level
func useFileLogging(debug bool) error {
	if err := logger.InitFileOnly(); err != nil {
		return err
	}
	logger.SetDebug(debug)
	return nil
}

// completeRun waits for the run, then fetches and saves its results. In TUI
// mode the progress callback is replaced by the monitor.
func (a *app) completeRun(ctx context.Context, svc *services.HammingService, category models.Category, runID string, progress func(async.Tick)) (*services.RunOutcome, error) {
	workflow := services.NewWorkflow(svc, a.cfg.ResultsDir)
	opts := a.waitOptions()

	if !a.tui {
		opts.OnTick = progress
		return workflow.Complete(ctx, category, runID, opts)
	}

	if err := useFileLogging(a.cfg.Debug); err != nil {
		return nil, err
	}
	defer func() {
		logger.Close()
		logger.Init()
		logger.SetDebug(a.cfg.Debug)
	}()

	monitor := tui.NewRunMonitor(category, runID)
	opts.OnTick = monitor.OnTick

	var outcome *services.RunOutcome
	err := monitor.Run(ctx, func(ctx context.Context) (models.RunStatus, error) {
		var err error
		outcome, err = workflow.Complete(ctx, category, runID, opts)
		if err != nil {
			return "", err
		}
		return outcome.FinalStatus(), nil
	})
	return outcome, err
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hamming",
		Short: "A CLI tool for running Hamming voice agent tests",
		Long: `hamming creates voice agent test runs, waits for them to complete and
saves their results. Configuration is read from HAMMING_* environment
variables and .env files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.SetDebug(a.cfg.Debug)
			return a.cfg.Validate()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&a.tui, "tui", false, "Show a live monitor while waiting for a run")
	flags.BoolVar(&a.cfg.Debug, "debug", a.cfg.Debug, "Log requests and responses")
	flags.StringVar(&a.cfg.ResultsDir, "results-dir", a.cfg.ResultsDir, "Directory where results files are written")
	flags.DurationVar(&a.cfg.PollInterval, "poll-interval", a.cfg.PollInterval, "Delay between status requests (default: per category)")
	flags.DurationVar(&a.cfg.WaitTimeout, "wait-timeout", a.cfg.WaitTimeout, "Maximum time to wait for a run (default: per category)")

	rootCmd.AddCommand(newOutboundCommand(a))
	rootCmd.AddCommand(newInboundCommand(a))
	rootCmd.AddCommand(newAgentCommand(a))
	rootCmd.AddCommand(newStatusCommand(a))
	rootCmd.AddCommand(newWaitCommand(a))
	rootCmd.AddCommand(newResultsCommand(a))
	rootCmd.AddCommand(newListCommand(a))

	return rootCmd
}

func main() {
	utils.LoadEnvironment()
	logger.Init()

	cfg := config.NewConfig()
	cfg.LoadFromEnvironment()

	rootCmd := newRootCommand(&app{cfg: cfg})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "\n❌ Error: %v\n", err)
		os.Exit(1)
	}
}
