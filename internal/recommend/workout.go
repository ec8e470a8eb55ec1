package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/claude/liftcast/internal/models"
	"github.com/google/uuid"
)

// Plan kinds.
const (
	FullBody    = "full_body"
	Targeted    = "targeted"
	RestOrLight = "rest_or_light"
)

// DefaultExerciseList is the list length used when no limit is given.
const DefaultExerciseList = 5

const (
	nextWorkoutWindow = 7
	maxFocusGroups    = 3
	exercisesPerGroup = 2
)

var fullBodyGroups = []models.MuscleGroup{models.Chest, models.Back, models.Legs, models.Shoulders}

// Focus is one muscle group picked for the next session.
type Focus struct {
	MuscleGroup models.MuscleGroup `json:"muscle"`
	Priority    string             `json:"priority"`
	Reason      string             `json:"reason"`
}

// Suggestion is one suggested exercise.
type Suggestion struct {
	ExerciseID  uuid.UUID          `json:"exercise_id"`
	Name        string             `json:"name"`
	MuscleGroup models.MuscleGroup `json:"muscle_group"`
	Equipment   string             `json:"equipment,omitempty"`
	IsCompound  bool               `json:"is_compound"`
}

// NextWorkoutPlan says what to train next.
type NextWorkoutPlan struct {
	Recommendation   string               `json:"recommendation"`
	Reason           string               `json:"reason"`
	FocusMuscles     []Focus              `json:"focus_muscles,omitempty"`
	SuggestedMuscles []models.MuscleGroup `json:"suggested_muscles,omitempty"`
	Exercises        []Suggestion         `json:"exercises,omitempty"`
	Avoid            []models.MuscleGroup `json:"avoid,omitempty"`
	Alternative      string               `json:"alternative,omitempty"`
}

// NextWorkout picks up to three muscle groups for the next session. Groups
// that are undertrained this week and past their recovery window come
// first; otherwise any recovered group not hit in the last session.
func (r *Recommender) NextWorkout(workouts []models.Workout, sets []models.SetRecord) NextWorkoutPlan {
	balance := r.AnalyzeTrainingBalance(workouts, sets, nextWorkoutWindow)
	if balance.Status == NoData {
		return NextWorkoutPlan{
			Recommendation:   FullBody,
			Reason:           "Starting fresh after a break",
			SuggestedMuscles: fullBodyGroups,
			Exercises:        r.suggestions(fullBodyGroups),
		}
	}

	ordered := sortedWorkouts(workouts)
	last := ordered[len(ordered)-1]
	lastGroups := r.groupsIn(last.ID, sets)
	rested := r.daysSinceTrained(workouts, sets)

	var focus []Focus
	for _, g := range tracked {
		if balance.MuscleGroups[g].Status != Undertrained {
			continue
		}
		if days := rested[g]; days >= recoveryFor(g) {
			focus = append(focus, Focus{
				MuscleGroup: g,
				Priority:    "high",
				Reason:      fmt.Sprintf("Undertrained and %d days rest", days),
			})
		}
	}
	if len(focus) == 0 {
		for _, g := range tracked {
			days := rested[g]
			if days >= recoveryFor(g) && !contains(lastGroups, g) {
				focus = append(focus, Focus{
					MuscleGroup: g,
					Priority:    "medium",
					Reason:      fmt.Sprintf("Fully recovered (%d days rest)", days),
				})
			}
		}
	}

	if len(focus) == 0 {
		return NextWorkoutPlan{
			Recommendation: RestOrLight,
			Reason:         "All muscle groups recently trained - consider rest day",
			Alternative:    "Light cardio, stretching, or mobility work",
		}
	}

	focus = focus[:min(len(focus), maxFocusGroups)]
	groups := make([]models.MuscleGroup, len(focus))
	for i, f := range focus {
		groups[i] = f.MuscleGroup
	}
	return NextWorkoutPlan{
		Recommendation:   Targeted,
		Reason:           "Based on training balance and recovery",
		FocusMuscles:     focus,
		SuggestedMuscles: groups,
		Exercises:        r.suggestions(groups),
		Avoid:            lastGroups,
	}
}

// daysSinceTrained returns, for every tracked group, the days since any set
// for it was logged. Untrained groups get 999.
func (r *Recommender) daysSinceTrained(workouts []models.Workout, sets []models.SetRecord) map[models.MuscleGroup]int {
	dates := make(map[uuid.UUID]models.Workout, len(workouts))
	for _, w := range workouts {
		dates[w.ID] = w
	}

	today := r.today()
	out := make(map[models.MuscleGroup]int, len(tracked))
	for _, g := range tracked {
		out[g] = neverTrained
	}
	for _, s := range sets {
		w, ok := dates[s.WorkoutID]
		if !ok {
			continue
		}
		g, ok := r.group(s.ExerciseID)
		if !ok {
			continue
		}
		if _, known := out[g]; !known {
			continue
		}
		if d := models.DaysBetween(w.Date, today); d < out[g] {
			out[g] = d
		}
	}
	return out
}

// groupsIn lists the muscle groups of a workout's sets in first-seen order.
func (r *Recommender) groupsIn(workoutID uuid.UUID, sets []models.SetRecord) []models.MuscleGroup {
	var out []models.MuscleGroup
	for _, s := range sets {
		if s.WorkoutID != workoutID {
			continue
		}
		if g, ok := r.group(s.ExerciseID); ok && !contains(out, g) {
			out = append(out, g)
		}
	}
	return out
}

// suggestions picks one compound and one isolation per group, topping up
// from the rest of the group. Picks follow catalog order.
func (r *Recommender) suggestions(groups []models.MuscleGroup) []Suggestion {
	out := make([]Suggestion, 0, len(groups)*exercisesPerGroup)
	for _, g := range groups {
		var pool []models.ExerciseRecord
		for _, ex := range r.exercises {
			if ex.MuscleGroup == g {
				pool = append(pool, ex)
			}
		}

		var picked []models.ExerciseRecord
		if i := indexOf(pool, func(ex models.ExerciseRecord) bool { return ex.IsCompound }); i >= 0 {
			picked = append(picked, pool[i])
		}
		if i := indexOf(pool, func(ex models.ExerciseRecord) bool { return !ex.IsCompound }); i >= 0 && len(picked) < exercisesPerGroup {
			picked = append(picked, pool[i])
		}
		for _, ex := range pool {
			if len(picked) >= exercisesPerGroup {
				break
			}
			if indexOf(picked, func(p models.ExerciseRecord) bool { return p.ID == ex.ID }) < 0 {
				picked = append(picked, ex)
			}
		}

		for _, ex := range picked {
			out = append(out, suggestionFor(ex))
		}
	}
	return out
}

// ExerciseList is the catalog slice for one muscle group.
type ExerciseList struct {
	MuscleGroup     models.MuscleGroup `json:"muscle_group"`
	EquipmentFilter string             `json:"equipment_filter,omitempty"`
	TotalFound      int                `json:"total_found"`
	Recommendation  string             `json:"recommendation"`
	Compounds       []Suggestion       `json:"compound_exercises"`
	Isolations      []Suggestion       `json:"isolation_exercises"`
}

// ExerciseRecommendations lists up to limit catalog exercises for a group,
// compounds first and then by name. An empty equipment matches everything.
func (r *Recommender) ExerciseRecommendations(group models.MuscleGroup, equipment string, limit int) ExerciseList {
	if limit <= 0 {
		limit = DefaultExerciseList
	}
	equipment = strings.ToLower(strings.TrimSpace(equipment))

	var matches []models.ExerciseRecord
	for _, ex := range r.exercises {
		if ex.MuscleGroup != group {
			continue
		}
		if equipment != "" && !strings.EqualFold(ex.Equipment, equipment) {
			continue
		}
		matches = append(matches, ex)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].IsCompound != matches[j].IsCompound {
			return matches[i].IsCompound
		}
		return matches[i].Name < matches[j].Name
	})
	matches = matches[:min(len(matches), limit)]

	list := ExerciseList{
		MuscleGroup:     group,
		EquipmentFilter: equipment,
		TotalFound:      len(matches),
		Recommendation:  "Start with compound movements, finish with isolations",
		Compounds:       []Suggestion{},
		Isolations:      []Suggestion{},
	}
	for _, ex := range matches {
		if ex.IsCompound {
			list.Compounds = append(list.Compounds, suggestionFor(ex))
		} else {
			list.Isolations = append(list.Isolations, suggestionFor(ex))
		}
	}
	return list
}

func suggestionFor(ex models.ExerciseRecord) Suggestion {
	return Suggestion{
		ExerciseID:  ex.ID,
		Name:        ex.Name,
		MuscleGroup: ex.MuscleGroup,
		Equipment:   ex.Equipment,
		IsCompound:  ex.IsCompound,
	}
}

func indexOf(exs []models.ExerciseRecord, match func(models.ExerciseRecord) bool) int {
	for i, ex := range exs {
		if match(ex) {
			return i
		}
	}
	return -1
}

func contains(groups []models.MuscleGroup, g models.MuscleGroup) bool {
	for _, x := range groups {
		if x == g {
			return true
		}
	}
	return false
}
