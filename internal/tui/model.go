package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kelsos/hamming-cli/internal/models"
)

const maxLogLines = 10

type Model struct {
	runID          string
	category       models.Category
	status         models.RunStatus
	attempt        int
	callsCompleted int
	callsExpected  int
	elapsed        time.Duration
	logs           []string
	spinner        spinner.Model
	progress       progress.Model
	width          int
	height         int
	quit           bool
	finished       bool
	err            error
}

// StatusUpdate is sent after every status request
type StatusUpdate struct {
	Status         models.RunStatus
	Attempt        int
	CallsCompleted int
	CallsExpected  int
	Elapsed        time.Duration
}

type LogMessage struct {
	Message string
}

// RunFinished ends the program, Err is nil when the run reached a terminal status
type RunFinished struct {
	Status models.RunStatus
	Err    error
}

func NewModel(category models.Category, runID string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	pr := progress.New(progress.WithDefaultGradient())

	return Model{
		runID:    runID,
		category: category,
		status:   models.RunStatusPending,
		logs:     []string{},
		spinner:  sp,
		progress: pr,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(10, msg.Width-40)

	case StatusUpdate:
		m.status = msg.Status
		m.attempt = msg.Attempt
		m.callsCompleted = msg.CallsCompleted
		m.callsExpected = msg.CallsExpected
		m.elapsed = msg.Elapsed

	case LogMessage:
		m = m.appendLog(msg.Message)

	case RunFinished:
		m.finished = true
		m.err = msg.Err
		if msg.Status != "" {
			m.status = msg.Status
		}
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		if progressModel, ok := progressModel.(progress.Model); ok {
			m.progress = progressModel
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) appendLog(message string) Model {
	m.logs = append(m.logs, fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), message))
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
	return m
}

// CallProgress is the completed share of expected calls, 0 when unknown
func (m Model) CallProgress() float64 {
	if m.callsExpected <= 0 {
		return 0
	}
	return min(1, float64(m.callsCompleted)/float64(m.callsExpected))
}

func (m Model) View() string {
	if m.quit {
		return "Shutting down...\n"
	}

	var s strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginBottom(1)

	s.WriteString(headerStyle.Render("📞 Hamming Test Run Monitor"))
	s.WriteString("\n\n")

	summaryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	summary := fmt.Sprintf("Run: %s | Category: %s | Polls: %d | Elapsed: %s",
		m.runID, m.category, m.attempt, m.elapsed.Round(time.Second))
	s.WriteString(summaryStyle.Render(summary))
	s.WriteString("\n\n")

	runSectionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1).
		Width(max(20, m.width-2))

	var run strings.Builder
	icon := m.spinner.View()
	if m.finished || m.status.IsTerminal() {
		icon = getStatusIcon(m.status)
	}

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(getStatusColor(m.status)))
	run.WriteString(fmt.Sprintf("%s Status: %s\n", icon, statusStyle.Render(m.status.String())))

	if m.callsExpected > 0 {
		run.WriteString(fmt.Sprintf("Calls: %d/%d %s\n", m.callsCompleted, m.callsExpected, m.progress.ViewAs(m.CallProgress())))
	} else if m.callsCompleted > 0 {
		run.WriteString(fmt.Sprintf("Calls completed: %d\n", m.callsCompleted))
	}

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		run.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		run.WriteString("\n")
	}

	s.WriteString(runSectionStyle.Render(run.String()))
	s.WriteString("\n\n")

	logSectionStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(max(20, m.width-2)).
		Height(maxLogLines + 1)

	var logSection strings.Builder
	logSection.WriteString("📝 Recent Logs\n")
	for _, log := range m.logs {
		logSection.WriteString(log + "\n")
	}

	s.WriteString(logSectionStyle.Render(logSection.String()))
	s.WriteString("\n\n")

	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	s.WriteString(footerStyle.Render("Press 'q' to quit | Logs: logs/hamming_*.log"))

	return s.String()
}

func getStatusIcon(status models.RunStatus) string {
	switch status.Normalized() {
	case models.RunStatusCompleted:
		return "✅"
	case models.RunStatusFailed:
		return "❌"
	case models.RunStatusCancelled:
		return "🚫"
	default:
		return "⏳"
	}
}

func getStatusColor(status models.RunStatus) string {
	switch status.Normalized() {
	case models.RunStatusCompleted:
		return "82"
	case models.RunStatusFailed, models.RunStatusCancelled:
		return "196"
	default:
		return "39"
	}
}
