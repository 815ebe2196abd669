package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kelsos/hamming-cli/internal/models"
	"github.com/kelsos/hamming-cli/internal/report"
	"github.com/kelsos/hamming-cli/internal/scenarios"
)

func newOutboundCommand(a *app) *cobra.Command {
	var (
		configFile string
		phones     []string
	)

	cmd := &cobra.Command{
		Use:   "outbound",
		Short: "Run an outbound call test and wait for its results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			testConfig := scenarios.DefaultOutbound()
			if configFile != "" {
				if err := scenarios.LoadFile(configFile, &testConfig); err != nil {
					return err
				}
			}
			if len(phones) > 0 {
				testConfig.PhoneNumbers = phones
			}
			scenarios.EnsurePhoneNumbers(&testConfig)

			fmt.Fprintln(out, "🚀 Starting Outbound Call Test")
			fmt.Fprintf(out, "📞 Test will call %d number(s)\n", len(testConfig.PhoneNumbers))
			fmt.Fprintf(out, "📋 Test cases: %d\n", len(testConfig.TestCases))

			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			run, err := svc.CreateOutboundRun(ctx, testConfig)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "✅ Test run created successfully!")
			fmt.Fprintf(out, "📊 Run ID: %s\n", run.RunID)
			fmt.Fprintf(out, "🔗 Status: %s\n", run.Status)
			fmt.Fprintln(out, "\n⏳ Monitoring test execution...")

			outcome, err := a.completeRun(ctx, svc, models.CategoryOutbound, run.RunID, nil)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\n🎉 Test completed!\n📊 Final Status: %s\n", outcome.FinalStatus())
			report.PrintCallResults(out, models.CategoryOutbound, outcome.Final, outcome.Results)
			fmt.Fprintf(out, "\n💾 Full results saved to: %s\n", outcome.ResultsPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config-file", "f", "", "YAML or JSON test configuration")
	cmd.Flags().StringSliceVar(&phones, "phone", nil, "Phone number to call, repeatable")

	return cmd
}
