package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Version(t *testing.T) {
	var out, errOut bytes.Buffer
	require.Equal(t, 0, run([]string{"--version"}, &out, &errOut))
	assert.Equal(t, "liftcast dev\n", out.String())
}

func TestRun_UnknownCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run([]string{"squat-more"}, &out, &errOut))
	assert.Contains(t, errOut.String(), `unknown command "squat-more"`)
	assert.Contains(t, errOut.String(), "forecast")
}

func TestRun_OneRepMax(t *testing.T) {
	var out, errOut bytes.Buffer
	require.Equal(t, 0, run([]string{"onerm", "-w", "100", "-r", "5", "--formula", "brzycki"}, &out, &errOut), errOut.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "brzycki", got["formula"])
	assert.InDelta(t, 112.5, got["estimated_1rm"], 1e-9)
}

func TestRun_ForecastFromHistoryFile(t *testing.T) {
	dir := t.TempDir()
	hist := filepath.Join(dir, "history.yaml")
	require.NoError(t, os.WriteFile(hist, []byte(`workouts:
  - date: 2024-01-01
    exercises:
      - name: bench
        sets: [{weight: 100, reps: 1}]
`), 0o644))
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("data:\n  history: "+hist+"\n"), 0o644))

	var out, errOut bytes.Buffer
	require.Equal(t, 0, run([]string{"-c", cfg, "forecast", "bench press"}, &out, &errOut), errOut.String())
	assert.Contains(t, out.String(), "Need at least 3 workout sessions for predictions. Found: 1")
}

func TestRun_MissingExercise(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 1, run([]string{"forecast"}, &out, &errOut))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "expected one exercise")
}
