// Package report renders create responses and result payloads for humans.
// Every field is optional; missing values print as N/A or 0.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kelsos/hamming-cli/internal/models"
)

const (
	NotAvailable = "N/A"

	OutboundTranscriptPreview = 100
	InboundTranscriptPreview  = 150
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	rule        = strings.Repeat("=", 50)
)

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, headerStyle.Render(title), rule)
}

// Preview shortens text to limit runes and appends an ellipsis
func Preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + "..."
}

// PrintPhoneNumbers lists the numbers assigned to an inbound run
func PrintPhoneNumbers(w io.Writer, numbers []models.PhoneNumber) {
	fmt.Fprintf(w, "\n📞 PHONE NUMBERS TO CALL:\n%s\n", strings.Repeat("=", 30))
	for i, number := range numbers {
		fmt.Fprintf(w, "  %d. %s\n", i+1, orNA(number.Number))
		fmt.Fprintf(w, "     Region: %s\n", orNA(number.Region))
		fmt.Fprintf(w, "     Provider: %s\n\n", orNA(number.Provider))
	}

	fmt.Fprintln(w, "🎯 INSTRUCTIONS:")
	fmt.Fprintln(w, "1. Call the numbers above to test your inbound agent")
	fmt.Fprintln(w, "2. Follow the test scenarios or speak naturally")
	fmt.Fprintln(w, "3. The system will record and analyze the conversations")
	fmt.Fprintln(w, "4. This command will monitor for completed calls")
	fmt.Fprintln(w)
}

// PrintAssignedNumbers lists the numbers assigned to an agent run
func PrintAssignedNumbers(w io.Writer, numbers []models.AssignedNumber) {
	fmt.Fprintf(w, "\n📞 ASSIGNED PHONE NUMBERS\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintln(w, "Call these numbers to test your agent:")

	for i, assignment := range numbers {
		title := assignment.TestCaseTitle
		if title == "" {
			title = "Unknown Test"
		}
		fmt.Fprintf(w, "  %d. %s\n", i+1, orNA(assignment.PhoneNumber))
		fmt.Fprintf(w, "     Test Case: %s\n", title)
		fmt.Fprintf(w, "     Test ID: %s\n\n", orNA(assignment.TestCaseRunID))
	}

	fmt.Fprintln(w, "📋 Instructions:")
	fmt.Fprintln(w, "  1. Call each number from your test phone")
	fmt.Fprintln(w, "  2. Follow the test case scenario")
	fmt.Fprintln(w, "  3. Wait for the test run to complete")
	fmt.Fprintln(w, "  4. Review results in the dashboard")
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

// PrintCallResults prints the summary and per-call details of an outbound or
// inbound run
func PrintCallResults(w io.Writer, category models.Category, final, results models.Payload) {
	section(w, "📋 TEST RESULTS SUMMARY")

	if final != nil {
		fmt.Fprintf(w, "Final Status: %s\n", models.StatusOf(final))
	}

	callsLabel := "Total Calls"
	if category == models.CategoryInbound {
		callsLabel = "Total Calls Received"
	}
	fmt.Fprintf(w, "%s: %d\n", callsLabel, results.Int("total_calls", 0))
	fmt.Fprintf(w, "Successful Calls: %d\n", results.Int("successful_calls", 0))
	fmt.Fprintf(w, "Failed Calls: %d\n", results.Int("failed_calls", 0))
	fmt.Fprintf(w, "Average Duration: %.1fs\n", results.Float("average_duration", 0))

	calls := results.Objects("calls")
	if len(calls) == 0 {
		if category == models.CategoryInbound {
			fmt.Fprintln(w, "\n⚠️  No calls were received during the test period")
			fmt.Fprintln(w, "   Make sure to call the provided numbers to generate test data")
		}
		return
	}

	if category == models.CategoryInbound {
		fmt.Fprintln(w, "\n📞 CALL DETAILS:")
	} else {
		fmt.Fprintln(w, "\n📞 INDIVIDUAL CALL RESULTS:")
	}

	for i, call := range calls {
		fmt.Fprintf(w, "\n  Call %d:\n", i+1)
		if category == models.CategoryInbound {
			fmt.Fprintf(w, "    Caller: %s\n", call.String("caller_number", NotAvailable))
			fmt.Fprintf(w, "    Called: %s\n", call.String("called_number", NotAvailable))
		} else {
			fmt.Fprintf(w, "    Phone: %s\n", call.String("phone_number", NotAvailable))
		}
		fmt.Fprintf(w, "    Status: %s\n", call.String("status", NotAvailable))
		fmt.Fprintf(w, "    Duration: %.1fs\n", call.Float("duration", 0))

		if call.Has("transcript") {
			transcript := call.String("transcript", NotAvailable)
			if category == models.CategoryInbound {
				fmt.Fprintf(w, "    Transcript Preview:\n      %s\n", Preview(transcript, InboundTranscriptPreview))
			} else {
				fmt.Fprintf(w, "    Transcript Preview: %s\n", Preview(transcript, OutboundTranscriptPreview))
			}
		}

		printAnalysis(w, call, category == models.CategoryInbound)
	}
}

func printAnalysis(w io.Writer, call models.Payload, withSentiment bool) {
	if !call.Has("analysis") {
		return
	}

	analysis := call.Object("analysis")
	fmt.Fprintf(w, "    Analysis Score: %s\n", analysis.String("overall_score", NotAvailable))
	if withSentiment && analysis.Has("sentiment") {
		fmt.Fprintf(w, "    Sentiment: %s\n", analysis.String("sentiment", NotAvailable))
	}
	if points := analysis.Strings("key_points"); len(points) > 0 {
		fmt.Fprintf(w, "    Key Points: %s\n", strings.Join(points[:min(3, len(points))], ", "))
	}
}

// PrintAgentResults prints the results of an agent run
func PrintAgentResults(w io.Writer, runID, dashboardURL string, results models.Payload) {
	section(w, "VOICE AGENT TEST RESULTS")
	fmt.Fprintf(w, "Test Run ID: %s\n", runID)
	fmt.Fprintf(w, "View Results: %s\n", dimStyle.Render(dashboardURL))

	// Older responses nest the counters under summary.stats
	summary := results.Object("summary")
	if stats := summary.Object("stats"); len(stats) > 0 {
		summary = stats
	}

	total := summary.Int("total", 0)
	completed := summary.Int("completed", 0)
	failed := summary.Int("failed", 0)
	pending := summary.Int("pending", 0)

	fmt.Fprintf(w, "Total Tests: %d\n", total)
	fmt.Fprintf(w, "Completed: %d\n", completed)
	fmt.Fprintf(w, "Failed: %d\n", failed)
	fmt.Fprintf(w, "Pending: %d\n", pending)

	if rate, ok := SuccessRate(completed, failed); ok {
		fmt.Fprintf(w, "Success Rate: %.1f%%\n", rate)
	}

	testResults := results.Objects("results")
	if len(testResults) > 0 {
		fmt.Fprintf(w, "\nIndividual Test Results (%d tests):\n", len(testResults))
	}
	for i, result := range testResults {
		fmt.Fprintf(w, "  %d. Status: %s, Duration: %.1fs\n",
			i+1, result.String("status", "Unknown"), result.Float("durationSeconds", 0))

		if url := result.String("recordingUrl", ""); url != "" {
			fmt.Fprintf(w, "     🎵 Recording: %s\n", url)
		}
		if url := result.String("transcriptionDataUrl", ""); url != "" {
			fmt.Fprintf(w, "     📝 Transcript: %s\n", url)
		}
		printAnalysis(w, result, false)
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
}

// SuccessRate is the share of completed tests that did not fail, in percent
func SuccessRate(completed, failed int) (float64, bool) {
	if completed <= 0 {
		return 0, false
	}
	return float64(completed-failed) / float64(completed) * 100, true
}

// PrintRuns prints a compact list of runs
func PrintRuns(w io.Writer, runs []models.Payload) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No test runs found")
		return
	}

	for i, run := range runs {
		id := run.String("run_id", run.String("testRunId", run.String("id", NotAvailable)))
		fmt.Fprintf(w, "%2d. %-36s %-12s %s\n", i+1, id,
			run.String("status", NotAvailable), run.String("name", ""))
	}
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
