// Package anomaly flags statistically unusual training sessions and scores
// overall training health.
package anomaly

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/claude/liftcast/internal/models"
	"gonum.org/v1/gonum/stat"
)

// Kind is the category of a detected anomaly.
type Kind string

const (
	PerformanceDrop  Kind = "performance_drop"
	PerformanceSpike Kind = "performance_spike"
	VolumeSpike      Kind = "volume_spike"
	VolumeDrop       Kind = "volume_drop"
	HighFatigue      Kind = "high_fatigue"
	PossiblePR       Kind = "possible_pr"
	LongGap          Kind = "long_gap"
	UnusualRPE       Kind = "unusual_rpe"
)

// Severity grades an anomaly.
type Severity string

const (
	Low    Severity = "low"
	Medium Severity = "medium"
	High   Severity = "high"
)

const (
	// DefaultZThreshold is the number of standard deviations that marks an anomaly.
	DefaultZThreshold = 2.0

	// MinSessions is the smallest history Detect will scan.
	MinSessions = 3

	rollingWindow     = 5
	rollingMinPeriods = 2
	minGapDays        = 14.0
	dateLayout        = "2006-01-02"
)

// Anomaly is one detected finding.
type Anomaly struct {
	Type     Kind           `json:"type"`
	Date     string         `json:"date"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details"`
}

// Detector runs the anomaly checks. The zero value is not usable; call NewDetector.
type Detector struct {
	zThreshold float64
	log        *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithZThreshold overrides the default z-score threshold.
func WithZThreshold(z float64) Option {
	return func(d *Detector) {
		if z > 0 {
			d.zThreshold = z
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(d *Detector) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDetector creates a detector with the default threshold.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		zThreshold: DefaultZThreshold,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Detect runs every check over the sessions and returns the findings,
// most recent first. Fewer than MinSessions sessions yield an empty list.
func (d *Detector) Detect(sessions []models.SessionRecord) []Anomaly {
	out := []Anomaly{}
	if len(sessions) < MinSessions {
		return out
	}

	ss := sortByDate(sessions)
	out = append(out, d.performance(ss)...)
	out = append(out, d.volume(ss)...)
	out = append(out, d.fatigue(ss)...)
	out = append(out, d.gaps(ss)...)

	// ISO dates sort lexically; stable keeps detector order on ties.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })

	d.log.Debug("anomaly scan complete", "sessions", len(ss), "anomalies", len(out))
	return out
}

func (d *Detector) performance(ss []models.SessionRecord) []Anomaly {
	var out []Anomaly
	for i, s := range ss {
		if s.Estimated1RM == nil {
			continue
		}
		window := defined1RMs(ss[max(0, i-rollingWindow+1) : i+1])
		if len(window) < rollingMinPeriods {
			continue
		}
		mean, std := stat.MeanStdDev(window, nil)
		if !usable(std) {
			continue
		}

		actual := *s.Estimated1RM
		z := (actual - mean) / std
		details := map[string]any{
			"actual_1rm":   round(actual, 1),
			"expected_1rm": round(mean, 1),
			"z_score":      round(z, 2),
		}
		switch {
		case z < -d.zThreshold:
			sev := Medium
			if z < -3 {
				sev = High
			}
			out = append(out, Anomaly{
				Type:     PerformanceDrop,
				Date:     s.Date.Format(dateLayout),
				Severity: sev,
				Message:  fmt.Sprintf("Performance dropped significantly (%.1f std below average)", math.Abs(z)),
				Details:  details,
			})
		case z > d.zThreshold:
			out = append(out, Anomaly{
				Type:     PerformanceSpike,
				Date:     s.Date.Format(dateLayout),
				Severity: Low,
				Message:  fmt.Sprintf("Exceptional performance! (%.1f std above average)", z),
				Details:  details,
			})
		}
	}
	return out
}

func (d *Detector) volume(ss []models.SessionRecord) []Anomaly {
	volumes := make([]float64, len(ss))
	for i, s := range ss {
		volumes[i] = s.TotalVolume
	}
	mean, std := stat.MeanStdDev(volumes, nil)
	if !usable(std) || mean <= 0 {
		return nil
	}

	var out []Anomaly
	for _, s := range ss {
		z := (s.TotalVolume - mean) / std
		switch {
		case z > d.zThreshold:
			out = append(out, Anomaly{
				Type:     VolumeSpike,
				Date:     s.Date.Format(dateLayout),
				Severity: Medium,
				Message:  "Training volume unusually high",
				Details: map[string]any{
					"volume":         round(s.TotalVolume, 0),
					"average_volume": round(mean, 0),
					"percent_above":  round((s.TotalVolume/mean-1)*100, 1),
				},
			})
		case z < -d.zThreshold:
			out = append(out, Anomaly{
				Type:     VolumeDrop,
				Date:     s.Date.Format(dateLayout),
				Severity: Low,
				Message:  "Training volume unusually low",
				Details: map[string]any{
					"volume":         round(s.TotalVolume, 0),
					"average_volume": round(mean, 0),
					"percent_below":  round((1-s.TotalVolume/mean)*100, 1),
				},
			})
		}
	}
	return out
}

func (d *Detector) fatigue(ss []models.SessionRecord) []Anomaly {
	var out []Anomaly

	// High effort with a falling 1RM.
	for i := 1; i < len(ss); i++ {
		s, prev := ss[i], ss[i-1]
		if s.AvgRPE == nil || *s.AvgRPE < 8.5 {
			continue
		}
		if s.Estimated1RM == nil || prev.Estimated1RM == nil || *prev.Estimated1RM <= 0 {
			continue
		}
		change := *s.Estimated1RM / *prev.Estimated1RM - 1
		if change < -0.05 {
			out = append(out, Anomaly{
				Type:     HighFatigue,
				Date:     s.Date.Format(dateLayout),
				Severity: Medium,
				Message:  "High effort but declining performance - possible fatigue",
				Details: map[string]any{
					"rpe":                *s.AvgRPE,
					"performance_change": round(change*100, 1),
				},
			})
		}
	}

	// Three hard sessions in a row at the end of the history.
	if len(ss) >= 3 {
		recent := ss[len(ss)-3:]
		exertion := make([]int, 0, 3)
		for _, s := range recent {
			if s.PerceivedExertion == nil || *s.PerceivedExertion < 8 {
				break
			}
			exertion = append(exertion, *s.PerceivedExertion)
		}
		if len(exertion) == 3 {
			out = append(out, Anomaly{
				Type:     HighFatigue,
				Date:     recent[2].Date.Format(dateLayout),
				Severity: High,
				Message:  "3 consecutive high-exertion workouts - consider a deload",
				Details:  map[string]any{"recent_exertion": exertion},
			})
		}
	}
	return out
}

func (d *Detector) gaps(ss []models.SessionRecord) []Anomaly {
	gaps := dayGaps(ss)
	if len(gaps) < 2 {
		return nil
	}
	mean, std := stat.MeanStdDev(gaps, nil)
	if !usable(std) {
		return nil
	}

	limit := math.Max(minGapDays, mean+2*std)
	var out []Anomaly
	for i, g := range gaps {
		if g <= limit {
			continue
		}
		out = append(out, Anomaly{
			Type:     LongGap,
			Date:     ss[i+1].Date.Format(dateLayout),
			Severity: Low,
			Message:  fmt.Sprintf("Long gap since last workout (%d days)", int(g)),
			Details: map[string]any{
				"days_gap":    int(g),
				"average_gap": round(mean, 1),
			},
		})
	}
	return out
}

// Summary counts anomalies by severity.
type Summary struct {
	Total  int `json:"total_anomalies"`
	High   int `json:"high_severity"`
	Medium int `json:"medium_severity"`
	Low    int `json:"low_severity"`
}

// Summarize tallies the anomalies by severity.
func Summarize(anomalies []Anomaly) Summary {
	s := Summary{Total: len(anomalies)}
	for _, a := range anomalies {
		switch a.Severity {
		case High:
			s.High++
		case Medium:
			s.Medium++
		case Low:
			s.Low++
		}
	}
	return s
}
