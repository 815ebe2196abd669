package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetOutputAndLevels(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	SetOutput(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Debug("hidden %d", 1)
	Info("run %s status: %s", "run-1", "pending")

	out := buf.String()
	assert.Contains(t, out, "[info]")
	assert.Contains(t, out, "run run-1 status: pending")
	assert.NotContains(t, out, "hidden")

	buf.Reset()
	SetDebug(true)
	Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}
