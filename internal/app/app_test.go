package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/liftcast/internal/app"
	"github.com/claude/liftcast/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historyYAML = `workouts:
  - date: 2024-02-01
    name: Push
    perceived_exertion: 7
    exercises:
      - name: bench
        sets:
          - {weight: 100, reps: 5, count: 3}
  - date: 2024-02-03
    name: Legs
    exercises:
      - name: Squat
        sets:
          - {weight: 60, reps: 10, type: warmup}
          - {weight: 140, reps: 5}
`

const alphaCSV = `"Pull · Day 3";"2024-02-05 6:00 h";"1:00 hr"
"1. Lat Pulldowns · Cable · 10 reps"
#;KG;REPS;RIR
1;60;10;2
2;60;9;1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFromConfig_LoadsEverySource(t *testing.T) {
	cfg := config.Default()
	cfg.Data.History = writeFile(t, "history.yaml", historyYAML)
	cfg.Data.AlphaCSV = []string{writeFile(t, "export.csv", alphaCSV)}

	var logs bytes.Buffer
	a, err := app.FromConfig(context.Background(), cfg, &logs)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 3, a.Store.Len())
	assert.Contains(t, logs.String(), "training log loaded")

	calc, err := a.Service.OneRepMax(100, 5, "epley")
	require.NoError(t, err)
	assert.InDelta(t, 116.7, calc.Estimated1RM, 1e-9)
}

func TestFromConfig_EmptyLog(t *testing.T) {
	a, err := app.FromConfig(context.Background(), config.Default(), &bytes.Buffer{})
	require.NoError(t, err)
	defer a.Close()

	assert.Zero(t, a.Store.Len())
	plan, err := a.Service.NextWorkout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "full_body", plan.Recommendation)
}

func TestFromConfig_MissingDataFile(t *testing.T) {
	cfg := config.Default()
	cfg.Data.History = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := app.FromConfig(context.Background(), cfg, &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromConfig_BadHistory(t *testing.T) {
	cfg := config.Default()
	cfg.Data.History = writeFile(t, "history.yaml", "workouts:\n  - date: yesterday\n    name: x\n")

	_, err := app.FromConfig(context.Background(), cfg, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestLoad_ConfigFile(t *testing.T) {
	hist := writeFile(t, "history.yaml", historyYAML)
	path := writeFile(t, "config.yaml", "log:\n  level: debug\ndata:\n  history: "+hist+"\n")

	a, err := app.Load(context.Background(), path, &bytes.Buffer{})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "debug", a.Config.Log.Level)
	assert.Equal(t, 2, a.Store.Len())
}
