package anomaly

import (
	"fmt"
	"sort"

	"github.com/claude/liftcast/internal/models"
)

const (
	overtrainedShare  = 40.0
	undertrainedShare = 5.0
)

// majorGroups are flagged when they fall below undertrainedShare of the volume.
var majorGroups = map[models.MuscleGroup]bool{
	models.Legs:  true,
	models.Back:  true,
	models.Chest: true,
}

// Imbalance flags a muscle group with a lopsided share of total volume.
type Imbalance struct {
	MuscleGroup models.MuscleGroup `json:"muscle_group"`
	Percentage  float64            `json:"percentage"`
	Issue       string             `json:"issue"`
	Message     string             `json:"message"`
}

// DetectImbalances flags groups carrying more than 40% of the volume, and
// major groups under 5%. Groups are reported in name order.
func DetectImbalances(volumeByGroup map[models.MuscleGroup]float64) []Imbalance {
	var total float64
	groups := make([]models.MuscleGroup, 0, len(volumeByGroup))
	for g, v := range volumeByGroup {
		total += v
		groups = append(groups, g)
	}
	out := []Imbalance{}
	if total <= 0 {
		return out
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })

	for _, g := range groups {
		pct := volumeByGroup[g] / total * 100
		switch {
		case pct > overtrainedShare:
			out = append(out, Imbalance{
				MuscleGroup: g,
				Percentage:  round(pct, 1),
				Issue:       "overtrained",
				Message:     fmt.Sprintf("%s accounts for %.0f%% of your training volume", g, pct),
			})
		case pct < undertrainedShare && majorGroups[g]:
			out = append(out, Imbalance{
				MuscleGroup: g,
				Percentage:  round(pct, 1),
				Issue:       "undertrained",
				Message:     fmt.Sprintf("%s only accounts for %.0f%% of your training", g, pct),
			})
		}
	}
	return out
}
