package anomaly

import (
	"fmt"
	"math"

	"github.com/claude/liftcast/internal/models"
	"gonum.org/v1/gonum/stat"
)

// MinHealthSessions is the smallest history that gets a health score.
const MinHealthSessions = 5

const neutralSubscore = 12.5

// Breakdown holds the four 0-25 sub-scores.
type Breakdown struct {
	Consistency int `json:"consistency"`
	Progress    int `json:"progress"`
	Volume      int `json:"volume"`
	Recovery    int `json:"recovery"`
}

// Total sums the sub-scores.
func (b Breakdown) Total() int {
	return b.Consistency + b.Progress + b.Volume + b.Recovery
}

// HealthReport is the training health score. Score is nil when the history
// is too short to rate.
type HealthReport struct {
	Score           *int       `json:"score"`
	Rating          string     `json:"rating,omitempty"`
	Breakdown       *Breakdown `json:"breakdown,omitempty"`
	Recommendations []string   `json:"recommendations,omitempty"`
	Message         string     `json:"message,omitempty"`
}

// Rating maps a 0-100 score onto the four-tier scale.
func Rating(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Needs Attention"
	}
}

// HealthScore rates consistency, progress, volume and recovery over the sessions.
func (d *Detector) HealthScore(sessions []models.SessionRecord) HealthReport {
	if len(sessions) < MinHealthSessions {
		return HealthReport{
			Message: fmt.Sprintf("Need at least %d workouts for health score. Found: %d", MinHealthSessions, len(sessions)),
		}
	}

	ss := sortByDate(sessions)
	b := Breakdown{
		Consistency: consistencyScore(ss),
		Progress:    progressScore(ss),
		Volume:      volumeScore(ss),
		Recovery:    recoveryScore(ss),
	}
	total := b.Total()

	d.log.Debug("health score computed", "sessions", len(ss), "score", total)
	return HealthReport{
		Score:           &total,
		Rating:          Rating(total),
		Breakdown:       &b,
		Recommendations: recommendations(b),
	}
}

func consistencyScore(ss []models.SessionRecord) int {
	gaps := dayGaps(ss)
	avg, variance := stat.MeanVariance(gaps, nil)

	var c float64
	switch {
	case avg >= 2 && avg <= 4:
		c = 25
	case avg < 2:
		c = 20
	case avg <= 7:
		c = 20 - (avg-4)*3
	default:
		c = math.Max(0, 15-(avg-7))
	}
	if variance > 10 {
		c -= math.Min(10, variance/2)
	}
	return int(math.Max(0, math.RoundToEven(c)))
}

// progressScore compares the mean 1RM of the first and last halves.
// Missing 1RM data scores neutral.
func progressScore(ss []models.SessionRecord) int {
	half := len(ss) / 2
	first := defined1RMs(ss[:half])
	second := defined1RMs(ss[len(ss)-half:])
	if len(first) == 0 || len(second) == 0 {
		return int(math.RoundToEven(neutralSubscore))
	}

	firstMean, secondMean := stat.Mean(first, nil), stat.Mean(second, nil)
	if firstMean <= 0 {
		return int(math.RoundToEven(neutralSubscore))
	}
	pct := (secondMean - firstMean) / firstMean * 100
	return int(math.RoundToEven(clamp(neutralSubscore+pct*2, 0, 25)))
}

// volumeScore rewards a rising, steady volume.
func volumeScore(ss []models.SessionRecord) int {
	volumes := make([]float64, len(ss))
	var changes []float64
	for i, s := range ss {
		volumes[i] = s.TotalVolume
		if i > 0 && volumes[i-1] > 0 {
			changes = append(changes, volumes[i]/volumes[i-1]-1)
		}
	}

	var trend float64
	if len(changes) > 0 {
		trend = stat.Mean(changes, nil)
	}
	var steadiness float64
	if mean, std := stat.MeanStdDev(volumes, nil); mean > 0 {
		steadiness = 1 - math.Min(1, std/mean)
	}

	v := neutralSubscore + trend*50 + steadiness*10
	return int(math.RoundToEven(clamp(v, 0, 25)))
}

// recoveryScore penalizes the longest run of sessions at exertion 8 or above.
func recoveryScore(ss []models.SessionRecord) int {
	var streak, longest int
	for _, s := range ss {
		if s.PerceivedExertion != nil && *s.PerceivedExertion >= 8 {
			streak++
			longest = max(longest, streak)
			continue
		}
		streak = 0
	}
	return int(math.Max(0, math.RoundToEven(float64(25-3*longest))))
}

func recommendations(b Breakdown) []string {
	var out []string
	if b.Consistency < 15 {
		out = append(out, "Try to maintain more consistent training frequency")
	}
	if b.Progress < 10 {
		out = append(out, "Consider progressive overload - gradually increase weight or volume")
	}
	if b.Recovery < 15 {
		out = append(out, "Consider adding deload weeks or reducing intensity periodically")
	}
	if b.Volume < 10 {
		out = append(out, "Training volume may be inconsistent - try to standardize your workouts")
	}
	if len(out) == 0 {
		out = append(out, "Keep up the great work! Your training looks well-balanced.")
	}
	return out
}
