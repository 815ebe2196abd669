package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kelsos/hamming-cli/internal/async"
	"github.com/kelsos/hamming-cli/internal/models"
	"github.com/kelsos/hamming-cli/internal/report"
	"github.com/kelsos/hamming-cli/internal/scenarios"
)

const stillMonitoringEvery = 30 * time.Second

// inboundProgress prints call progress and a periodic reminder
func inboundProgress(w io.Writer, expectedCalls int) func(async.Tick) {
	var lastNotice time.Duration
	return func(tick async.Tick) {
		if tick.Snapshot.Has("calls_completed") {
			fmt.Fprintf(w, "📊 Progress: %d/%d calls completed\n",
				tick.Snapshot.Int("calls_completed", 0),
				tick.Snapshot.Int("calls_expected", expectedCalls))
		}

		if tick.Elapsed-lastNotice >= stillMonitoringEvery {
			lastNotice = tick.Elapsed
			fmt.Fprintf(w, "⏳ Still monitoring... (Status: %s)\n", tick.Status)
		}
	}
}

func newInboundCommand(a *app) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "inbound",
		Short: "Run an inbound call test, show the numbers to call and wait for results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			testConfig := scenarios.DefaultInbound()
			if configFile != "" {
				if err := scenarios.LoadFile(configFile, &testConfig); err != nil {
					return err
				}
			}

			fmt.Fprintln(out, "📞 Starting Inbound Call Test")
			fmt.Fprintf(out, "🎯 Test scenarios: %d\n", len(testConfig.TestScenarios))
			fmt.Fprintf(out, "📞 Requesting %d phone numbers\n", testConfig.TelephonyConfig.NumberCount)

			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			run, err := svc.CreateInboundRun(ctx, testConfig)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "✅ Test run created successfully!")
			fmt.Fprintf(out, "📊 Run ID: %s\n", run.RunID)
			fmt.Fprintf(out, "🔗 Status: %s\n", run.Status)

			if len(run.PhoneNumbers) > 0 {
				report.PrintPhoneNumbers(out, run.PhoneNumbers)
			}

			fmt.Fprintln(out, "⏳ Monitoring for incoming calls...")
			fmt.Fprintln(out, "💡 Tip: Call the numbers above to start testing!")

			outcome, err := a.completeRun(ctx, svc, models.CategoryInbound, run.RunID,
				inboundProgress(out, len(testConfig.TestScenarios)))
			if err != nil {
				return err
			}

			report.PrintCallResults(out, models.CategoryInbound, outcome.Final, outcome.Results)
			fmt.Fprintf(out, "\n💾 Full results saved to: %s\n", outcome.ResultsPath)
			fmt.Fprintln(out, "\n🎉 Inbound test completed!")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config-file", "f", "", "YAML or JSON test configuration")

	return cmd
}
