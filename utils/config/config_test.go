package config_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/signal-monitor/utils/config"
)

const sample = `
simulator:
  path: ./build/FreeRTOS-ubuntu
  kill_grace: 500ms
control:
  max_lines: 100
  timeout: 10s
  tick_interval: 1s
render:
  terminal: true
  listen: ":51200"
`

func TestParseAndDefaults(t *testing.T) {
	c, err := config.Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "./build/FreeRTOS-ubuntu", c.Simulator.Path)
	assert.Equal(t, 100, c.Control.MaxLines)
	assert.Equal(t, 10*time.Second, c.Control.Timeout)

	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)
	assert.Equal(t, time.Second, rc.C.TickInterval)
	assert.Equal(t, 200*time.Millisecond, rc.C.ReadBudget)
	assert.Equal(t, config.DefaultBatchSize, rc.C.BatchSize)
	assert.Equal(t, 500*time.Millisecond, rc.S.KillGrace)
	assert.Equal(t, config.DefaultStderrBuffer, rc.S.StderrBuffer)
	assert.Equal(t, []string{"A", "B", "C", "D"}, rc.C.Intersections)
	assert.Equal(t, ":51200", rc.R.Listen)
}

func TestReadBudgetFollowsShortTicks(t *testing.T) {
	rc, err := config.NewRuntimeConfig(config.Config{
		Simulator: config.Simulator{Path: "sim"},
		Control:   config.Control{TickInterval: 100 * time.Millisecond},
	})
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, rc.C.ReadBudget)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := config.Parse([]byte("control:\n  max_line: 3\n"))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRuntimeConfigValidation(t *testing.T) {
	_, err := config.NewRuntimeConfig(config.Config{})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = config.NewRuntimeConfig(config.Config{
		Simulator: config.Simulator{Path: "sim"},
		Control:   config.Control{MaxLines: -1},
	})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	fromFile, err := config.Load(path, "")
	require.NoError(t, err)
	fromData, err := config.Load("", base64.StdEncoding.EncodeToString([]byte(sample)))
	require.NoError(t, err)
	assert.Equal(t, fromFile, fromData)

	empty, err := config.Load("", "")
	require.NoError(t, err)
	assert.True(t, empty.Render.Terminal)

	_, err = config.Load(filepath.Join(dir, "missing.yml"), "")
	assert.Error(t, err)
}
