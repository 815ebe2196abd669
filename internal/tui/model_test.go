package tui

import (
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsos/hamming-cli/internal/models"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestStatusUpdate(t *testing.T) {
	m := NewModel(models.CategoryInbound, "run-1")

	m, _ = update(t, m, StatusUpdate{
		Status:         models.RunStatusRunning,
		Attempt:        3,
		CallsCompleted: 1,
		CallsExpected:  2,
		Elapsed:        15 * time.Second,
	})

	assert.Equal(t, models.RunStatusRunning, m.status)
	assert.Equal(t, 0.5, m.CallProgress())

	view := m.View()
	assert.Contains(t, view, "run-1")
	assert.Contains(t, view, "running")
	assert.Contains(t, view, "Calls: 1/2")
	assert.Contains(t, view, "Polls: 3")
}

func TestCallProgressBounds(t *testing.T) {
	m := NewModel(models.CategoryInbound, "run-1")
	assert.Zero(t, m.CallProgress())

	m, _ = update(t, m, StatusUpdate{CallsCompleted: 5, CallsExpected: 2})
	assert.Equal(t, 1.0, m.CallProgress())
}

func TestLogsAreCapped(t *testing.T) {
	m := NewModel(models.CategoryOutbound, "run-1")
	for i := 0; i < 15; i++ {
		m, _ = update(t, m, LogMessage{Message: fmt.Sprintf("line %d", i)})
	}

	require.Len(t, m.logs, maxLogLines)
	assert.Contains(t, m.logs[0], "line 5")
	assert.Contains(t, m.logs[maxLogLines-1], "line 14")
}

func TestRunFinishedQuits(t *testing.T) {
	m := NewModel(models.CategoryAgent, "tr-1")

	m, cmd := update(t, m, RunFinished{Status: "COMPLETED"})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.finished)
	assert.Contains(t, m.View(), "✅")

	m, _ = update(t, NewModel(models.CategoryAgent, "tr-2"), RunFinished{Err: errors.New("test run tr-2 did not complete")})
	assert.Contains(t, m.View(), "did not complete")
}

func TestQuitKey(t *testing.T) {
	m := NewModel(models.CategoryOutbound, "run-1")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, m.quit)
	assert.Equal(t, "Shutting down...\n", m.View())
}
