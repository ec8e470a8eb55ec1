package forecast

import (
	"math"
	"sort"

	"github.com/claude/liftcast/internal/models"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Feature columns, in matrix order.
const (
	featDaysSinceStart = iota
	featSessionNumber
	featCumulativeVolume
	featRollingAvg1RM
	featDaysSinceLast
	numFeatures
)

const (
	rollingSpan     = 3
	defaultFirstGap = 7.0
)

// usableSessions returns the sessions that carry a 1RM, sorted by date.
func usableSessions(sessions []models.SessionRecord) []models.SessionRecord {
	out := make([]models.SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		if s.Estimated1RM != nil {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// buildFeatures derives the feature rows and the 1RM target.
func buildFeatures(ss []models.SessionRecord) ([][]float64, []float64) {
	x := make([][]float64, len(ss))
	y := make([]float64, len(ss))
	start := ss[0].Date

	var cum, prevDays float64
	for i, s := range ss {
		y[i] = *s.Estimated1RM
		days := float64(models.DaysBetween(start, s.Date))
		cum += s.TotalVolume

		lo := max(0, i-rollingSpan+1)
		rolling := stat.Mean(y[lo:i+1], nil)

		gap := defaultFirstGap
		if i > 0 {
			gap = days - prevDays
		}
		prevDays = days

		row := make([]float64, numFeatures)
		row[featDaysSinceStart] = days
		row[featSessionNumber] = float64(i + 1)
		row[featCumulativeVolume] = cum
		row[featRollingAvg1RM] = rolling
		row[featDaysSinceLast] = gap
		x[i] = row
	}
	return x, y
}

// scaler standardizes each column to zero mean and unit population variance.
// Constant columns keep a scale of 1.
type scaler struct {
	mean  []float64
	scale []float64
}

func fitScaler(x [][]float64) scaler {
	p := len(x[0])
	s := scaler{mean: make([]float64, p), scale: make([]float64, p)}
	col := make([]float64, len(x))
	for j := 0; j < p; j++ {
		for i, row := range x {
			col[i] = row[j]
		}
		mean := stat.Mean(col, nil)
		var ss float64
		for _, v := range col {
			ss += (v - mean) * (v - mean)
		}
		sd := math.Sqrt(ss / float64(len(col)))
		if sd == 0 {
			sd = 1
		}
		s.mean[j], s.scale[j] = mean, sd
	}
	return s
}

func (s scaler) transformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.mean[j]) / s.scale[j]
	}
	return out
}

func (s scaler) transform(x [][]float64) *mat.Dense {
	out := mat.NewDense(len(x), len(s.mean), nil)
	for i, row := range x {
		out.SetRow(i, s.transformRow(row))
	}
	return out
}
