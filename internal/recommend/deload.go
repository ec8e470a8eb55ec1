package recommend

import (
	"fmt"

	"github.com/claude/liftcast/internal/models"
	"gonum.org/v1/gonum/stat"
)

const (
	// MinDeloadWorkouts is the history needed before a deload is assessed.
	MinDeloadWorkouts = 8

	deloadLookback      = 12
	deloadMinSpanDays   = 21
	minExertionReadings = 4
	exertionRiseLimit   = 1.0
	breakGapDays        = 7
	workoutsPerBlock    = 16
)

// DeloadVerdict says whether a recovery week is due.
type DeloadVerdict struct {
	NeedsDeload         bool   `json:"needs_deload"`
	Reason              string `json:"reason,omitempty"`
	Suggestion          string `json:"suggestion,omitempty"`
	WorkoutsLogged      int    `json:"workouts_logged,omitempty"`
	MinimumNeeded       int    `json:"minimum_needed,omitempty"`
	WorkoutsUntilDeload int    `json:"workouts_until_deload,omitempty"`
}

// SuggestDeload flags a deload when perceived exertion is climbing over the
// last twelve workouts or when sixteen workouts have passed since the last
// week-long break.
func (r *Recommender) SuggestDeload(workouts []models.Workout) DeloadVerdict {
	if len(workouts) < MinDeloadWorkouts {
		return DeloadVerdict{
			Reason:         "Not enough training history to evaluate",
			WorkoutsLogged: len(workouts),
			MinimumNeeded:  MinDeloadWorkouts,
		}
	}

	ordered := sortedWorkouts(workouts)
	recent := ordered[max(0, len(ordered)-deloadLookback):]
	if models.DaysBetween(recent[0].Date, recent[len(recent)-1].Date) < deloadMinSpanDays {
		return DeloadVerdict{Reason: "Training period too short for deload"}
	}

	var exertion []float64
	for _, w := range recent {
		if w.PerceivedExertion != nil {
			exertion = append(exertion, float64(*w.PerceivedExertion))
		}
	}
	if len(exertion) >= minExertionReadings {
		half := len(exertion) / 2
		first := stat.Mean(exertion[:half], nil)
		second := stat.Mean(exertion[len(exertion)-half:], nil)
		if second > first+exertionRiseLimit {
			r.log.Debug("deload suggested by exertion trend", "first_half", first, "second_half", second)
			return DeloadVerdict{
				NeedsDeload: true,
				Reason:      "Perceived exertion increasing - signs of accumulated fatigue",
				Suggestion:  "Reduce weights by 40-50% and volume by 50% for 1 week",
			}
		}
	}

	since := workoutsSinceBreak(ordered)
	if since >= workoutsPerBlock {
		return DeloadVerdict{
			NeedsDeload: true,
			Reason:      fmt.Sprintf("%d workouts since last break", since),
			Suggestion:  "Schedule a deload week: reduce intensity by 40%, volume by 50%",
		}
	}
	return DeloadVerdict{
		WorkoutsUntilDeload: workoutsPerBlock - since,
		Suggestion:          "Continue training as normal",
	}
}

// workoutsSinceBreak counts the workouts from the one after the last gap of
// at least a week to the end, inclusive.
func workoutsSinceBreak(ordered []models.Workout) int {
	for i := len(ordered) - 1; i > 0; i-- {
		if models.DaysBetween(ordered[i-1].Date, ordered[i].Date) >= breakGapDays {
			return len(ordered) - i
		}
	}
	return len(ordered)
}
