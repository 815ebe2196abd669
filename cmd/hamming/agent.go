package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kelsos/hamming-cli/internal/async"
	"github.com/kelsos/hamming-cli/internal/models"
	"github.com/kelsos/hamming-cli/internal/report"
	"github.com/kelsos/hamming-cli/internal/scenarios"
)

func newAgentCommand(a *app) *cobra.Command {
	var (
		configFile string
		wait       bool
	)
	request := scenarios.DefaultAgentRun(a.cfg.AgentID)

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Create an agent test run and show the numbers to call",
		Long: `Create a test run for an agent through the REST API. The assigned numbers
must be called to execute the test cases. With --wait the command polls the
run until it completes and saves the results, otherwise it prints the
dashboard URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if configFile != "" {
				if err := scenarios.LoadFile(configFile, &request); err != nil {
					return err
				}
			}

			fmt.Fprintln(out, "🚀 Starting Agent Outbound Call Test")

			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			run, err := svc.CreateAgentRun(ctx, request)
			if err != nil {
				return err
			}

			dashboardURL := svc.DashboardURL(run.TestRunID)
			fmt.Fprintln(out, "✅ Test run created successfully!")
			fmt.Fprintf(out, "📊 Test Run ID: %s\n", run.TestRunID)
			report.PrintAssignedNumbers(out, run.AssignedNumbers)

			if !wait {
				fmt.Fprintf(out, "\n📊 Dashboard URL: %s\n", dashboardURL)
				fmt.Fprintln(out, "📞 Call the numbers shown above to execute the tests")
				fmt.Fprintln(out, "💡 Tip: Monitor progress in the dashboard")
				return nil
			}

			fmt.Fprintf(out, "\n⏳ Waiting for test run %s to complete...\n", run.TestRunID)
			fmt.Fprintln(out, "💡 Tip: You can skip waiting and check results later in the dashboard")

			outcome, err := a.completeRun(ctx, svc, models.CategoryAgent, run.TestRunID, func(tick async.Tick) {
				if !tick.Status.IsTerminal() {
					fmt.Fprintf(out, "🔄 Status: %s - waiting...\n", tick.Status)
				}
			})
			if err != nil {
				var timeoutErr *async.TimeoutError
				if errors.As(err, &timeoutErr) {
					fmt.Fprintf(out, "⏰ Timeout reached (%s). Check dashboard for results: %s\n", timeoutErr.MaxWait, dashboardURL)
				}
				return err
			}

			fmt.Fprintf(out, "✅ Test run %s\n", outcome.FinalStatus().Normalized())
			report.PrintAgentResults(out, run.TestRunID, dashboardURL, outcome.Results)
			fmt.Fprintf(out, "\n💾 Full results saved to: %s\n", outcome.ResultsPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config-file", "f", "", "YAML or JSON run request")
	cmd.Flags().StringVar(&request.AgentID, "agent-id", request.AgentID, "Agent to test (default: HAMMING_AGENT_ID)")
	cmd.Flags().StringVar(&request.Name, "name", request.Name, "Name of the test run")
	cmd.Flags().StringSliceVar(&request.TagIDs, "tag", request.TagIDs, "Tag selecting test cases, repeatable")
	cmd.Flags().IntVar(&request.TimeoutMinutes, "timeout-minutes", request.TimeoutMinutes, "Run timeout on the server side")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the run to complete and save its results")

	return cmd
}
