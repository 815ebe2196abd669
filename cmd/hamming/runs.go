package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kelsos/hamming-cli/internal/models"
	"github.com/kelsos/hamming-cli/internal/report"
	"github.com/kelsos/hamming-cli/internal/services"
)

func addCategoryFlag(cmd *cobra.Command, category *string) {
	cmd.Flags().StringVarP(category, "category", "c", string(models.CategoryOutbound), "Run category: outbound, inbound or agent")
}

func printJSON(w io.Writer, payload models.Payload) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printResults(w io.Writer, svc *services.HammingService, category models.Category, runID string, final, results models.Payload) {
	if category == models.CategoryAgent {
		report.PrintAgentResults(w, runID, svc.DashboardURL(runID), results)
		return
	}
	report.PrintCallResults(w, category, final, results)
}

func newStatusCommand(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "status RUN_ID",
		Short: "Show the current status of a test run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := models.ParseCategory(category)
			if err != nil {
				return err
			}

			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			snapshot, err := svc.FetchStatus(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Test run %s status: %s\n", args[0], models.StatusOf(snapshot))
			return printJSON(out, snapshot)
		},
	}
	addCategoryFlag(cmd, &category)

	return cmd
}

func newWaitCommand(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "wait RUN_ID",
		Short: "Wait for an existing test run, then fetch and save its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := models.ParseCategory(category)
			if err != nil {
				return err
			}

			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			outcome, err := a.completeRun(cmd.Context(), svc, c, args[0], nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "📊 Final Status: %s\n", outcome.FinalStatus())
			printResults(out, svc, c, args[0], outcome.Final, outcome.Results)
			fmt.Fprintf(out, "\n💾 Full results saved to: %s\n", outcome.ResultsPath)
			return nil
		},
	}
	addCategoryFlag(cmd, &category)

	return cmd
}

func newResultsCommand(a *app) *cobra.Command {
	var (
		category string
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "results RUN_ID",
		Short: "Fetch the results of a test run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := models.ParseCategory(category)
			if err != nil {
				return err
			}

			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			results, err := svc.FetchResults(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printResults(out, svc, c, args[0], nil, results)

			if save {
				path, err := services.NewWorkflow(svc, a.cfg.ResultsDir).Save(c, args[0], results)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n💾 Full results saved to: %s\n", path)
			}
			return nil
		},
	}
	addCategoryFlag(cmd, &category)
	cmd.Flags().BoolVar(&save, "save", false, "Write the raw results to a JSON file")

	return cmd
}

func newListCommand(a *app) *cobra.Command {
	var (
		category string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent test runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := models.ParseCategory(category)
			if err != nil {
				return err
			}

			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			runs, err := svc.ListRuns(cmd.Context(), c, limit)
			if err != nil {
				return err
			}

			report.PrintRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	addCategoryFlag(cmd, &category)
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")

	return cmd
}
