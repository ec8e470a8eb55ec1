// Package recommend holds the rule-based training advice: muscle-group
// balance, what to train next and when to deload.
package recommend

import (
	"log/slog"
	"sort"
	"time"

	"github.com/claude/liftcast/internal/models"
	"github.com/google/uuid"
)

// Target is the weekly working-set range for a muscle group.
type Target struct {
	Min     int
	Max     int
	Optimal int
}

// VolumeTargets are the weekly working-set ranges per tracked group.
var VolumeTargets = map[models.MuscleGroup]Target{
	models.Chest:     {Min: 10, Max: 20, Optimal: 14},
	models.Back:      {Min: 10, Max: 20, Optimal: 16},
	models.Shoulders: {Min: 8, Max: 16, Optimal: 12},
	models.Legs:      {Min: 12, Max: 22, Optimal: 16},
	models.Arms:      {Min: 6, Max: 14, Optimal: 10},
	models.Core:      {Min: 4, Max: 12, Optimal: 8},
}

// RecoveryDays is the minimum rest between two sessions for the same group.
var RecoveryDays = map[models.MuscleGroup]int{
	models.Chest:     2,
	models.Back:      2,
	models.Shoulders: 2,
	models.Legs:      2,
	models.Arms:      1,
	models.Core:      1,
}

// tracked is the table order every report iterates in.
var tracked = []models.MuscleGroup{
	models.Chest, models.Back, models.Shoulders, models.Legs, models.Arms, models.Core,
}

const (
	defaultRecovery = 2
	neverTrained    = 999
)

// Recommender applies the rule tables to one training history. It keeps no
// state between calls.
type Recommender struct {
	exercises []models.ExerciseRecord
	byID      map[uuid.UUID]models.ExerciseRecord
	now       func() time.Time
	log       *slog.Logger
}

// Option configures a Recommender.
type Option func(*Recommender)

// WithClock overrides the wall clock used to place the trailing windows.
func WithClock(now func() time.Time) Option {
	return func(r *Recommender) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(r *Recommender) {
		if log != nil {
			r.log = log
		}
	}
}

// New builds a Recommender over the exercise catalog. Catalog order decides
// which exercises get suggested first.
func New(exercises []models.ExerciseRecord, opts ...Option) *Recommender {
	r := &Recommender{
		exercises: exercises,
		byID:      make(map[uuid.UUID]models.ExerciseRecord, len(exercises)),
		now:       time.Now,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, ex := range exercises {
		r.byID[ex.ID] = ex
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recommender) today() time.Time { return models.Day(r.now()) }

func (r *Recommender) group(exerciseID uuid.UUID) (models.MuscleGroup, bool) {
	ex, ok := r.byID[exerciseID]
	if !ok {
		return "", false
	}
	return ex.MuscleGroup, true
}

// sortedWorkouts returns a date-ordered copy. Workouts on the same day keep
// their input order.
func sortedWorkouts(workouts []models.Workout) []models.Workout {
	out := make([]models.Workout, len(workouts))
	copy(out, workouts)
	sort.SliceStable(out, func(i, j int) bool { return models.Day(out[i].Date).Before(models.Day(out[j].Date)) })
	return out
}

func recoveryFor(g models.MuscleGroup) int {
	if d, ok := RecoveryDays[g]; ok {
		return d
	}
	return defaultRecovery
}
