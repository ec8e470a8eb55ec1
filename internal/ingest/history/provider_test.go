package history_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/claude/liftcast/internal/catalog"
	"github.com/claude/liftcast/internal/ingest"
	"github.com/claude/liftcast/internal/ingest/history"
	"github.com/claude/liftcast/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

const doc = `
workouts:
  - date: 2024-03-01
    name: Push A
    perceived_exertion: 8
    exercises:
      - name: Bench Press
        equipment: barbell
        sets:
          - {weight: 60, reps: 10, type: warmup}
          - {weight: 100, reps: 5, rpe: 8, count: 3}
      - name: Landmine Press
        sets:
          - {weight: 30, reps: 10}
  - date: 2024-03-03
    name: Pull A
    exercises:
      - name: deadlift
        sets:
          - {weight: 140, reps: 5, count: 2}
`

func newStore(t *testing.T) *ingest.Store {
	t.Helper()
	cat, err := catalog.Default(nil)
	require.NoError(t, err)
	return ingest.NewStore(cat, nil)
}

func TestIngest(t *testing.T) {
	store := newStore(t)
	p := history.NewProvider(store, nil)

	res, err := p.Ingest(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, res.WorkoutsReceived)
	assert.Equal(t, 7, res.SetsReceived)
	assert.Equal(t, []string{"Landmine Press"}, res.ExercisesAdded)

	h, err := store.History(context.Background())
	require.NoError(t, err)
	require.Len(t, h.Workouts, 2)

	push := h.Workouts[0]
	assert.Equal(t, "Push A", push.Name)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), push.Date)
	require.NotNil(t, push.PerceivedExertion)
	assert.Equal(t, 8, *push.PerceivedExertion)
	assert.Nil(t, h.Workouts[1].PerceivedExertion)
	assert.Equal(t, ingest.WorkoutID(history.Source, push.Date, "push a"), push.ID)

	bench, ok := store.Catalog().Lookup("bench press")
	require.True(t, ok)
	var numbers []int
	for _, s := range h.Sets {
		if s.ExerciseID != bench.ID {
			continue
		}
		numbers = append(numbers, s.SetNumber)
		if s.SetNumber == 1 {
			assert.Equal(t, models.Warmup, s.Type)
			assert.Nil(t, s.RPE)
			continue
		}
		assert.Equal(t, models.Working, s.Type)
		require.NotNil(t, s.RPE)
		assert.Equal(t, 8.0, *s.RPE)
		assert.Equal(t, 100.0, s.Weight)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, numbers)
}

func TestIngest_ReimportReplaces(t *testing.T) {
	store := newStore(t)
	p := history.NewProvider(store, nil)

	_, err := p.Ingest(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	res, err := p.Ingest(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, res.WorkoutsReplaced)
	assert.Empty(t, res.ExercisesAdded)
	assert.Equal(t, 2, store.Len())
}

func TestParse_Empty(t *testing.T) {
	f, err := history.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Workouts)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := history.Parse(strings.NewReader("workouts:\n  - date: 2024-01-01\n    mood: great\n"))
	assert.Error(t, err)
}

func TestParse_ReportsEveryProblem(t *testing.T) {
	bad := `
workouts:
  - date: yesterday
    perceived_exertion: 11
    exercises:
      - name: ""
        sets:
          - {weight: -5, reps: -1, type: dropset, rpe: 12}
`
	_, err := history.Parse(strings.NewReader(bad))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 7)
	assert.Contains(t, err.Error(), `invalid date "yesterday"`)
	assert.Contains(t, err.Error(), `unknown set type "dropset"`)
	assert.Contains(t, err.Error(), "rpe 12 outside 0-10")
}

func TestIngest_InvalidFileStoresNothing(t *testing.T) {
	store := newStore(t)
	_, err := history.NewProvider(store, nil).Ingest(context.Background(),
		strings.NewReader("workouts:\n  - date: 2024-13-01\n"))
	require.Error(t, err)
	assert.Zero(t, store.Len())
}
