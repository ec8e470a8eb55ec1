package anomaly

import (
	"math"
	"sort"

	"github.com/claude/liftcast/internal/models"
)

// sortByDate returns an ascending copy; the caller's slice is left alone.
func sortByDate(sessions []models.SessionRecord) []models.SessionRecord {
	ss := make([]models.SessionRecord, len(sessions))
	copy(ss, sessions)
	sort.SliceStable(ss, func(i, j int) bool { return ss[i].Date.Before(ss[j].Date) })
	return ss
}

func defined1RMs(ss []models.SessionRecord) []float64 {
	var out []float64
	for _, s := range ss {
		if s.Estimated1RM != nil {
			out = append(out, *s.Estimated1RM)
		}
	}
	return out
}

// dayGaps returns the day gap into each session after the first.
func dayGaps(ss []models.SessionRecord) []float64 {
	if len(ss) < 2 {
		return nil
	}
	gaps := make([]float64, len(ss)-1)
	for i := 1; i < len(ss); i++ {
		gaps[i-1] = float64(models.DaysBetween(ss[i-1].Date, ss[i].Date))
	}
	return gaps
}

// usable reports whether a standard deviation can be divided by.
func usable(std float64) bool {
	return std > 0 && !math.IsNaN(std) && !math.IsInf(std, 0)
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
