package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/claude/liftcast/internal/anomaly"
	"github.com/claude/liftcast/internal/models"
	"github.com/google/uuid"
)

// Status classifies a group's weekly set count against its target.
type Status string

const (
	Undertrained Status = "undertrained"
	Optimal      Status = "optimal"
	Overtrained  Status = "overtrained"
)

// GroupBalance is the balance detail for one muscle group.
type GroupBalance struct {
	Sets           int     `json:"sets"`
	Volume         float64 `json:"volume"`
	TargetRange    string  `json:"target_range"`
	Status         Status  `json:"status"`
	Recommendation string  `json:"recommendation"`
}

// BalanceScore is the overall 0-100 balance rating.
type BalanceScore struct {
	Score  int    `json:"score"`
	Rating string `json:"rating"`
}

// BalanceReport is the result of AnalyzeTrainingBalance. Status is "no_data"
// and the group fields are empty when nothing was logged in the window.
type BalanceReport struct {
	Status         string                              `json:"status,omitempty"`
	Message        string                              `json:"message,omitempty"`
	PeriodDays     int                                 `json:"period_days"`
	TotalWorkouts  int                                 `json:"total_workouts"`
	MuscleGroups   map[models.MuscleGroup]GroupBalance `json:"muscle_groups"`
	MostTrained    models.MuscleGroup                  `json:"most_trained,omitempty"`
	LeastTrained   models.MuscleGroup                  `json:"least_trained,omitempty"`
	OverallBalance *BalanceScore                       `json:"overall_balance,omitempty"`
}

// NoData is the BalanceReport status for an empty window.
const NoData = "no_data"

// AnalyzeTrainingBalance counts working sets and volume per muscle group
// over the trailing days and grades each group against VolumeTargets.
func (r *Recommender) AnalyzeTrainingBalance(workouts []models.Workout, sets []models.SetRecord, days int) BalanceReport {
	cutoff := r.today().AddDate(0, 0, -days)

	recent := make(map[uuid.UUID]bool)
	for _, w := range workouts {
		if !models.Day(w.Date).Before(cutoff) {
			recent[w.ID] = true
		}
	}
	if len(recent) == 0 {
		return BalanceReport{
			Status:       NoData,
			Message:      fmt.Sprintf("No workouts in the last %d days", days),
			PeriodDays:   days,
			MuscleGroups: map[models.MuscleGroup]GroupBalance{},
		}
	}

	counts := make(map[models.MuscleGroup]int)
	volumes := make(map[models.MuscleGroup]float64)
	for _, s := range sets {
		if !recent[s.WorkoutID] || !s.IsWorking() {
			continue
		}
		g, ok := r.group(s.ExerciseID)
		if !ok {
			continue
		}
		counts[g]++
		volumes[g] += s.Volume()
	}

	groups := make(map[models.MuscleGroup]GroupBalance, len(tracked))
	for _, g := range tracked {
		t := VolumeTargets[g]
		n := counts[g]
		gb := GroupBalance{
			Sets:        n,
			Volume:      math.RoundToEven(volumes[g]),
			TargetRange: fmt.Sprintf("%d-%d", t.Min, t.Max),
		}
		switch {
		case n < t.Min:
			gb.Status = Undertrained
			gb.Recommendation = fmt.Sprintf("Add %d more sets", t.Min-n)
		case n > t.Max:
			gb.Status = Overtrained
			gb.Recommendation = fmt.Sprintf("Consider reducing by %d sets", n-t.Max)
		default:
			gb.Status = Optimal
			gb.Recommendation = "Volume is good"
		}
		groups[g] = gb
	}

	order := make([]models.MuscleGroup, len(tracked))
	copy(order, tracked)
	sort.SliceStable(order, func(i, j int) bool { return groups[order[i]].Sets > groups[order[j]].Sets })

	score := balanceScore(groups)
	r.log.Debug("training balance analyzed", "days", days, "workouts", len(recent), "score", score)

	return BalanceReport{
		PeriodDays:     days,
		TotalWorkouts:  len(recent),
		MuscleGroups:   groups,
		MostTrained:    order[0],
		LeastTrained:   order[len(order)-1],
		OverallBalance: &BalanceScore{Score: score, Rating: anomaly.Rating(score)},
	}
}

// groupScore rates one group: near optimal scores up to 100, under the
// minimum scales towards 0 and over the maximum loses 5 per extra set.
func groupScore(sets int, t Target) float64 {
	switch {
	case sets < t.Min:
		return math.Max(0, 50*float64(sets)/float64(t.Min))
	case sets > t.Max:
		return math.Max(0, 70-5*float64(sets-t.Max))
	}
	maxDist := max(t.Optimal-t.Min, t.Max-t.Optimal)
	if maxDist == 0 {
		return 100
	}
	dist := math.Abs(float64(sets - t.Optimal))
	return 100 - dist/float64(maxDist)*30
}

// balanceScore averages the group scores in table order.
func balanceScore(groups map[models.MuscleGroup]GroupBalance) int {
	var total float64
	for _, g := range tracked {
		total += groupScore(groups[g].Sets, VolumeTargets[g])
	}
	return max(0, int(math.RoundToEven(total/float64(len(tracked)))))
}
