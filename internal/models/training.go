package models

import (
	"time"

	"github.com/google/uuid"
)

// MuscleGroup is the primary muscle group an exercise trains.
type MuscleGroup string

const (
	Chest     MuscleGroup = "chest"
	Back      MuscleGroup = "back"
	Shoulders MuscleGroup = "shoulders"
	Legs      MuscleGroup = "legs"
	Arms      MuscleGroup = "arms"
	Core      MuscleGroup = "core"
	Other     MuscleGroup = "other"
)

// MuscleGroups lists every known group in display order.
var MuscleGroups = []MuscleGroup{Chest, Back, Shoulders, Legs, Arms, Core, Other}

// Valid reports whether g is one of the known groups.
func (g MuscleGroup) Valid() bool {
	for _, known := range MuscleGroups {
		if g == known {
			return true
		}
	}
	return false
}

// SetType distinguishes warmup sets from working sets.
type SetType string

const (
	Working SetType = "working"
	Warmup  SetType = "warmup"
)

// Workout is one logged training session.
type Workout struct {
	ID                uuid.UUID `json:"id"`
	Date              time.Time `json:"date"`
	Name              string    `json:"name,omitempty"`
	PerceivedExertion *int      `json:"perceived_exertion,omitempty"`
}

// SetRecord is one logged set. Only working sets count towards volume.
type SetRecord struct {
	WorkoutID  uuid.UUID `json:"workout_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	SetNumber  int       `json:"set_number"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	Type       SetType   `json:"set_type"`
	RPE        *float64  `json:"rpe,omitempty"`
}

// IsWorking reports whether the set counts towards volume.
func (s SetRecord) IsWorking() bool { return s.Type == Working }

// Volume returns weight x reps.
func (s SetRecord) Volume() float64 { return s.Weight * float64(s.Reps) }

// ExerciseRecord is a catalog entry.
type ExerciseRecord struct {
	ID          uuid.UUID   `json:"id" yaml:"-"`
	Name        string      `json:"name" yaml:"name"`
	MuscleGroup MuscleGroup `json:"muscle_group" yaml:"muscle_group"`
	IsCompound  bool        `json:"is_compound" yaml:"compound"`
	Equipment   string      `json:"equipment" yaml:"equipment"`
	Aliases     []string    `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// SessionRecord is the normalized per-session row every analysis engine consumes.
type SessionRecord struct {
	Date              time.Time `json:"date"`
	MaxWeight         *float64  `json:"max_weight,omitempty"`
	RepsAtMaxWeight   *int      `json:"reps_at_max_weight,omitempty"`
	TotalVolume       float64   `json:"total_volume"`
	WorkingSets       int       `json:"working_sets"`
	AvgRPE            *float64  `json:"avg_rpe,omitempty"`
	PerceivedExertion *int      `json:"perceived_exertion,omitempty"`
	Estimated1RM      *float64  `json:"estimated_1rm,omitempty"`
}

// History is the flat training log handed to the analysis layer.
type History struct {
	Workouts  []Workout
	Sets      []SetRecord
	Exercises []ExerciseRecord
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
