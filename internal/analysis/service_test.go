package analysis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/claude/liftcast/internal/analysis"
	"github.com/claude/liftcast/internal/anomaly"
	"github.com/claude/liftcast/internal/forecast"
	"github.com/claude/liftcast/internal/models"
	"github.com/claude/liftcast/internal/recommend"
	"github.com/google/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	bench = models.ExerciseRecord{
		ID: uuid.New(), Name: "Barbell Bench Press", MuscleGroup: models.Chest,
		IsCompound: true, Equipment: "barbell", Aliases: []string{"bench"},
	}
	squat = models.ExerciseRecord{
		ID: uuid.New(), Name: "Barbell Squat", MuscleGroup: models.Legs,
		IsCompound: true, Equipment: "barbell",
	}
	legExtension = models.ExerciseRecord{
		ID: uuid.New(), Name: "Leg Extension", MuscleGroup: models.Legs, Equipment: "machine",
	}
	catalog = []models.ExerciseRecord{bench, squat, legExtension}
)

// builder assembles a History one workout at a time.
type builder struct{ h models.History }

func newBuilder() *builder {
	return &builder{h: models.History{Exercises: catalog}}
}

func (b *builder) workout(date string, exertion *int, sets ...models.SetRecord) *builder {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	w := models.Workout{ID: uuid.New(), Date: d, PerceivedExertion: exertion}
	b.h.Workouts = append(b.h.Workouts, w)
	for i, s := range sets {
		s.WorkoutID = w.ID
		s.SetNumber = i + 1
		if s.Type == "" {
			s.Type = models.Working
		}
		b.h.Sets = append(b.h.Sets, s)
	}
	return b
}

func (b *builder) history() *models.History { return &b.h }

func set(ex models.ExerciseRecord, weight float64, reps int) models.SetRecord {
	return models.SetRecord{ExerciseID: ex.ID, Weight: weight, Reps: reps}
}

func newService(t *testing.T, h *models.History) *analysis.Service {
	t.Helper()
	src := NewMockHistorySource(gomock.NewController(t))
	if h != nil {
		src.EXPECT().History(gomock.Any()).Return(h, nil).AnyTimes()
	}
	return analysis.New(src, analysis.WithClock(func() time.Time { return now }))
}

// benchProgression is a weekly single that climbs 5kg a week, backed off
// so every session totals 1000kg of volume.
func benchProgression() *models.History {
	return newBuilder().
		workout("2024-01-01", nil, set(bench, 100, 1), set(bench, 90, 10)).
		workout("2024-01-08", nil, set(bench, 105, 1), set(bench, 89.5, 10)).
		workout("2024-01-15", nil, set(bench, 110, 1), set(bench, 89, 10)).
		history()
}

func TestStrengthForecast(t *testing.T) {
	svc := newService(t, benchProgression())

	out, err := svc.StrengthForecast(context.Background(), "BENCH", 14)
	require.NoError(t, err)
	assert.Equal(t, bench.ID, out.Exercise.ID)
	assert.Equal(t, 3, out.SessionsUsed)
	require.NotNil(t, out.Current1RM)
	assert.Equal(t, 110.0, *out.Current1RM)
	require.NotNil(t, out.Metrics)
	assert.Equal(t, "linear", out.Metrics.ModelType)
	assert.Empty(t, out.Message)

	require.Len(t, out.Predictions, 2)
	assert.Equal(t, "2024-01-22", out.Predictions[0].Date)
	assert.Greater(t, out.Predictions[1].Predicted1RM, out.Predictions[0].Predicted1RM)
	for _, p := range out.Predictions {
		assert.Positive(t, p.DaysFromNow)
	}
}

func TestStrengthForecast_ByID(t *testing.T) {
	svc := newService(t, benchProgression())
	out, err := svc.StrengthForecast(context.Background(), bench.ID.String(), 30)
	require.NoError(t, err)
	assert.Equal(t, "Barbell Bench Press", out.Exercise.Name)
}

func TestStrengthForecast_NotEnoughSessions(t *testing.T) {
	h := newBuilder().
		workout("2024-01-01", nil, set(bench, 100, 5)).
		workout("2024-01-08", nil, set(bench, 105, 5)).
		history()
	svc := newService(t, h)

	out, err := svc.StrengthForecast(context.Background(), "bench", 30)
	require.NoError(t, err)
	assert.Equal(t, "Need at least 3 workout sessions for predictions. Found: 2", out.Message)
	assert.Nil(t, out.Metrics)
	assert.Empty(t, out.Predictions)
}

func TestStrengthForecast_BodyweightOnly(t *testing.T) {
	h := newBuilder().
		workout("2024-01-01", nil, set(bench, 0, 10)).
		workout("2024-01-08", nil, set(bench, 0, 12)).
		workout("2024-01-15", nil, set(bench, 0, 15)).
		history()
	svc := newService(t, h)

	out, err := svc.StrengthForecast(context.Background(), "bench", 30)
	require.NoError(t, err)
	assert.Equal(t, "Not enough valid data points for prediction", out.Message)
}

func TestStrengthForecast_InvalidArguments(t *testing.T) {
	// No History expectation: validation must fail before the log is read.
	svc := newService(t, nil)

	_, err := svc.StrengthForecast(context.Background(), "bench", 6)
	assert.ErrorIs(t, err, analysis.ErrInvalidArgument)
	_, err = svc.StrengthForecast(context.Background(), "bench", 181)
	assert.ErrorIs(t, err, analysis.ErrInvalidArgument)
	_, err = svc.GoalDate(context.Background(), "bench", 0)
	assert.ErrorIs(t, err, analysis.ErrInvalidArgument)
}

func TestStrengthForecast_UnknownExercise(t *testing.T) {
	svc := newService(t, benchProgression())

	_, err := svc.StrengthForecast(context.Background(), "cable crossover", 30)
	assert.ErrorIs(t, err, analysis.ErrExerciseNotFound)
	_, err = svc.StrengthForecast(context.Background(), uuid.NewString(), 30)
	assert.ErrorIs(t, err, analysis.ErrExerciseNotFound)
}

func TestSourceErrorPropagates(t *testing.T) {
	boom := errors.New("disk on fire")
	src := NewMockHistorySource(gomock.NewController(t))
	src.EXPECT().History(gomock.Any()).Return(nil, boom)

	_, err := analysis.New(src).Deload(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestGoalDate(t *testing.T) {
	svc := newService(t, benchProgression())

	out, err := svc.GoalDate(context.Background(), "bench", 100)
	require.NoError(t, err)
	require.NotNil(t, out.Prediction)
	assert.Equal(t, forecast.AlreadyAchieved, out.Prediction.Status)
	assert.Equal(t, 100.0, out.TargetWeight)

	out, err = svc.GoalDate(context.Background(), "bench", 118)
	require.NoError(t, err)
	require.NotNil(t, out.Prediction)
	assert.Equal(t, forecast.Achievable, out.Prediction.Status)
	assert.Equal(t, 2, out.Prediction.SessionsNeeded)
}

func TestOneRepMax(t *testing.T) {
	svc := newService(t, nil)

	c, err := svc.OneRepMax(225, 1, "")
	require.NoError(t, err)
	assert.Equal(t, 225.0, c.Estimated1RM)

	c, err = svc.OneRepMax(100, 5, "")
	require.NoError(t, err)
	assert.Equal(t, "average", c.Formula)
	assert.Equal(t, 114.8, c.Estimated1RM)

	c, err = svc.OneRepMax(100, 5, "Brzycki")
	require.NoError(t, err)
	assert.Equal(t, 112.5, c.Estimated1RM)

	_, err = svc.OneRepMax(100, 5, "wendler")
	assert.ErrorIs(t, err, analysis.ErrInvalidArgument)
	_, err = svc.OneRepMax(100, 31, "")
	assert.ErrorIs(t, err, analysis.ErrInvalidArgument)
	_, err = svc.OneRepMax(-1, 5, "")
	assert.ErrorIs(t, err, analysis.ErrInvalidArgument)
}

func TestExerciseAnomalies_NotEnoughData(t *testing.T) {
	// Only the February session falls inside the 30-day window.
	h := newBuilder().
		workout("2023-12-01", nil, set(bench, 100, 5)).
		workout("2023-12-08", nil, set(bench, 100, 5)).
		workout("2024-02-20", nil, set(bench, 100, 5)).
		history()
	svc := newService(t, h)

	out, err := svc.ExerciseAnomalies(context.Background(), "bench", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, out.SessionsAnalyzed)
	assert.Empty(t, out.Anomalies)
	assert.NotEmpty(t, out.Message)

	_, err = svc.ExerciseAnomalies(context.Background(), "bench", 29)
	assert.ErrorIs(t, err, analysis.ErrInvalidArgument)
}

func TestExerciseAnomalies_LongGap(t *testing.T) {
	b := newBuilder()
	for _, d := range []string{"2023-12-01", "2023-12-03", "2023-12-05", "2023-12-07", "2023-12-09", "2023-12-11"} {
		b.workout(d, nil, set(bench, 100, 5))
	}
	// 14 days is the floor for a gap; the earlier gaps are all 2 days.
	b.workout("2024-01-10", nil, set(bench, 100, 5))
	svc := newService(t, b.history())

	out, err := svc.ExerciseAnomalies(context.Background(), "bench", 120)
	require.NoError(t, err)
	require.Equal(t, 1, out.AnomaliesFound)
	assert.Equal(t, anomaly.LongGap, out.Anomalies[0].Type)
	assert.Equal(t, "2024-01-10", out.Anomalies[0].Date)
}

func TestAllAnomalies_FlagsImbalance(t *testing.T) {
	b := newBuilder()
	for _, d := range []string{"2024-02-20", "2024-02-23", "2024-02-26"} {
		b.workout(d, nil,
			set(bench, 100, 5),
			set(squat, 140, 5), set(squat, 140, 5), set(squat, 140, 5))
	}
	svc := newService(t, b.history())

	out, err := svc.AllAnomalies(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 3, out.WorkoutsAnalyzed)
	assert.Empty(t, out.Anomalies)
	assert.Zero(t, out.Summary.Total)
	require.Len(t, out.Imbalances, 1)
	assert.Equal(t, models.Legs, out.Imbalances[0].MuscleGroup)
	assert.Equal(t, "overtrained", out.Imbalances[0].Issue)
	assert.Equal(t, 80.8, out.Imbalances[0].Percentage)
}

func TestAllAnomalies_NotEnoughData(t *testing.T) {
	svc := newService(t, newBuilder().workout("2024-02-28", nil, set(bench, 100, 5)).history())

	out, err := svc.AllAnomalies(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Not enough data for analysis", out.Message)
	assert.Empty(t, out.Imbalances)
}

func TestHealthScore(t *testing.T) {
	b := newBuilder()
	for i, d := range []string{"2024-02-10", "2024-02-13", "2024-02-16", "2024-02-19", "2024-02-22", "2024-02-25"} {
		b.workout(d, models.Int(7), set(bench, 100+float64(i)*2.5, 5), set(bench, 100+float64(i)*2.5, 5))
	}
	svc := newService(t, b.history())

	out, err := svc.HealthScore(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 6, out.WorkoutsAnalyzed)
	require.NotNil(t, out.Score)
	assert.GreaterOrEqual(t, *out.Score, 60)
	assert.LessOrEqual(t, *out.Score, 100)
	assert.NotEmpty(t, out.Rating)
}

func TestHealthScore_NotEnoughWorkouts(t *testing.T) {
	svc := newService(t, benchProgression())

	out, err := svc.HealthScore(context.Background(), 90)
	require.NoError(t, err)
	assert.Nil(t, out.Score)
	assert.Equal(t, "Need at least 5 workouts for health score. Found: 3", out.Message)
	assert.Equal(t, []string{"Keep training consistently to build enough data"}, out.Recommendations)

	_, err = svc.HealthScore(context.Background(), 91)
	assert.ErrorIs(t, err, analysis.ErrInvalidArgument)
}

func TestBalance(t *testing.T) {
	svc := newService(t, newBuilder().workout("2024-02-28", nil, set(squat, 100, 5)).history())

	out, err := svc.Balance(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalWorkouts)
	assert.Equal(t, 1, out.MuscleGroups[models.Legs].Sets)

	_, err = svc.Balance(context.Background(), 31)
	assert.ErrorIs(t, err, analysis.ErrInvalidArgument)
}

func TestNextWorkout(t *testing.T) {
	// Three weeks ago falls outside the two-week history.
	svc := newService(t, newBuilder().workout("2024-02-09", nil, set(squat, 100, 5)).history())
	plan, err := svc.NextWorkout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, recommend.FullBody, plan.Recommendation)

	svc = newService(t, newBuilder().workout("2024-02-29", nil, set(bench, 100, 5)).history())
	plan, err = svc.NextWorkout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, recommend.Targeted, plan.Recommendation)
	assert.Equal(t, []models.MuscleGroup{models.Chest}, plan.Avoid)
	assert.NotContains(t, plan.SuggestedMuscles, models.Chest)
}

func TestDeload_NotEnoughHistory(t *testing.T) {
	svc := newService(t, benchProgression())

	v, err := svc.Deload(context.Background())
	require.NoError(t, err)
	assert.False(t, v.NeedsDeload)
	assert.Equal(t, 3, v.WorkoutsLogged)
	assert.Equal(t, recommend.MinDeloadWorkouts, v.MinimumNeeded)
}

func TestExercises(t *testing.T) {
	svc := newService(t, benchProgression())

	list, err := svc.Exercises(context.Background(), " Legs ", "", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalFound)
	require.Len(t, list.Compounds, 1)
	assert.Equal(t, "Barbell Squat", list.Compounds[0].Name)
	require.Len(t, list.Isolations, 1)

	list, err = svc.Exercises(context.Background(), "legs", "Machines", 5)
	require.NoError(t, err)
	assert.Equal(t, "machine", list.EquipmentFilter)
	assert.Equal(t, 1, list.TotalFound)

	_, err = svc.Exercises(context.Background(), "toes", "", 5)
	assert.ErrorIs(t, err, analysis.ErrInvalidArgument)
	_, err = svc.Exercises(context.Background(), "legs", "", 0)
	assert.ErrorIs(t, err, analysis.ErrInvalidArgument)
}
