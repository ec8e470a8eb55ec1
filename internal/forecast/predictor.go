// Package forecast projects future one-rep-max strength from a session history.
//
// A Model is fitted from one history and discarded after the request that
// built it. Models are never shared between histories.
package forecast

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/claude/liftcast/internal/models"
)

var (
	// ErrInsufficientData means the history is too short to fit a model.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrComputation means the regression itself failed.
	ErrComputation = errors.New("regression failed")
)

const (
	// MinSamples is the smallest history Train accepts.
	MinSamples = 2

	cvMinSamples    = 5
	maxFolds        = 5
	goalHorizonDays = 365
	dateLayout      = "2006-01-02"
)

// Report describes the fitted model.
type Report struct {
	ModelType   string             `json:"model_type"`
	DataPoints  int                `json:"data_points"`
	MAE         float64            `json:"mae"`
	RMSE        float64            `json:"rmse"`
	RSquared    float64            `json:"r_squared"`
	ModelScores map[string]float64 `json:"model_scores"`
}

// Prediction is one projected future session.
type Prediction struct {
	Date          string  `json:"date"`
	SessionNumber int     `json:"session_number"`
	Predicted1RM  float64 `json:"predicted_1rm"`
	DaysFromNow   int     `json:"days_from_now"`
}

// GoalStatus is the outcome of a goal-date search.
type GoalStatus string

const (
	AlreadyAchieved GoalStatus = "already_achieved"
	Achievable      GoalStatus = "achievable"
	LongTerm        GoalStatus = "long_term"
	Uncertain       GoalStatus = "uncertain"
)

// GoalEstimate answers "when will I lift this much".
type GoalEstimate struct {
	Status         GoalStatus `json:"status"`
	TargetWeight   float64    `json:"target_weight,omitempty"`
	PredictedDate  string     `json:"predicted_date,omitempty"`
	DaysFromNow    int        `json:"days_from_now,omitempty"`
	SessionsNeeded int        `json:"sessions_needed,omitempty"`
	Current1RM     float64    `json:"current_1rm,omitempty"`
	EstimatedDays  int        `json:"estimated_days,omitempty"`
	Message        string     `json:"message,omitempty"`
}

// Model is a fitted strength model together with the state needed to
// extrapolate features forward.
type Model struct {
	report Report
	fit    linearFit
	scaler scaler

	lastDate      time.Time
	lastDays      float64
	lastSession   int
	lastCumVolume float64
	first1RM      float64
	last1RM       float64
	avgGap        float64
}

type options struct {
	log *slog.Logger
}

// Option configures Train.
type Option func(*options)

// WithLogger sets the logger used for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// Train fits every candidate model to the sessions that carry a 1RM, keeps
// the best scoring one and refits it on all of them.
func Train(sessions []models.SessionRecord, opts ...Option) (*Model, error) {
	o := options{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	ss := usableSessions(sessions)
	if len(ss) < MinSamples {
		return nil, fmt.Errorf("%w: need at least %d sessions with a 1RM, got %d", ErrInsufficientData, MinSamples, len(ss))
	}

	rawX, y := buildFeatures(ss)
	for i, row := range rawX {
		if !allFinite(row) || !finite(y[i]) {
			return nil, fmt.Errorf("%w: non-finite input on %s", ErrComputation, ss[i].Date.Format(dateLayout))
		}
	}

	sc := fitScaler(rawX)
	x := sc.transform(rawX)

	scores := make(map[string]float64, len(strategies))
	best := -1
	bestScore := math.Inf(-1)
	for i, st := range strategies {
		s, err := score(st.fit, x, y)
		if err != nil {
			return nil, fmt.Errorf("scoring %s model: %w", st.name, err)
		}
		scores[st.name] = round(s, 3)
		if best < 0 || s > bestScore {
			best, bestScore = i, s
		}
	}

	chosen := strategies[best]
	fit, err := chosen.fit(x, y)
	if err != nil {
		return nil, fmt.Errorf("fitting %s model: %w", chosen.name, err)
	}
	pred := predictAll(fit, x)

	last := rawX[len(rawX)-1]
	var gapSum float64
	for _, row := range rawX {
		gapSum += row[featDaysSinceLast]
	}

	m := &Model{
		report: Report{
			ModelType:   chosen.name,
			DataPoints:  len(y),
			MAE:         round(meanAbsError(y, pred), 2),
			RMSE:        round(rootMeanSquaredError(y, pred), 2),
			RSquared:    round(rSquared(y, pred), 3),
			ModelScores: scores,
		},
		fit:           fit,
		scaler:        sc,
		lastDate:      models.Day(ss[len(ss)-1].Date),
		lastDays:      last[featDaysSinceStart],
		lastSession:   len(ss),
		lastCumVolume: last[featCumulativeVolume],
		first1RM:      y[0],
		last1RM:       y[len(y)-1],
		avgGap:        gapSum / float64(len(rawX)),
	}

	o.log.Debug("strength model trained",
		"model", m.report.ModelType, "samples", m.report.DataPoints, "mae", m.report.MAE)
	return m, nil
}

// Report returns the training metrics.
func (m *Model) Report() Report { return m.report }

// Current1RM returns the most recent observed 1RM.
func (m *Model) Current1RM() float64 { return m.last1RM }

// PredictFuture projects one point per expected session over the next daysAhead days.
func (m *Model) PredictFuture(daysAhead int) []Prediction {
	return m.forecast(m.sessionsWithin(daysAhead, 1))
}

// PredictTargetDate searches up to a year ahead for the first day on which
// the forecast reaches target.
func (m *Model) PredictTargetDate(target float64) GoalEstimate {
	if target <= m.last1RM {
		return GoalEstimate{
			Status:  AlreadyAchieved,
			Message: fmt.Sprintf("You can already lift %.1f (current 1RM: %.1f)", target, m.last1RM),
		}
	}

	// Every day with the same session count projects the same point, so each
	// count is checked once.
	checked := 0
	for days := 1; days <= goalHorizonDays; days++ {
		sessions := m.sessionsWithin(days, 0)
		if sessions < 1 || sessions == checked {
			continue
		}
		checked = sessions

		p := m.predictAt(sessions)
		if p.Predicted1RM >= target {
			return GoalEstimate{
				Status:         Achievable,
				TargetWeight:   target,
				PredictedDate:  p.Date,
				DaysFromNow:    days,
				SessionsNeeded: sessions,
				Current1RM:     round(m.last1RM, 1),
			}
		}
	}

	if m.lastDays > 0 {
		rate := (m.last1RM - m.first1RM) / m.lastDays
		if rate > 0 {
			needed := int((target - m.last1RM) / rate)
			return GoalEstimate{
				Status:        LongTerm,
				TargetWeight:  target,
				EstimatedDays: needed,
				Message:       fmt.Sprintf("At current rate, this could take ~%d days", needed),
			}
		}
	}

	return GoalEstimate{Status: Uncertain, Message: "Not enough data to predict this target"}
}

// sessionsWithin converts a day span to a session count at the average
// training frequency, never below floor.
func (m *Model) sessionsWithin(days, floor int) int {
	if m.avgGap <= 0 {
		return max(floor, days)
	}
	return max(floor, int(float64(days)/m.avgGap))
}

func (m *Model) forecast(sessions int) []Prediction {
	out := make([]Prediction, 0, sessions)
	for i := 1; i <= sessions; i++ {
		out = append(out, m.predictAt(i))
	}
	return out
}

// predictAt projects the i-th future session. Volume continues at the
// historical per-session average and the rolling 1RM holds at its last value.
func (m *Model) predictAt(i int) Prediction {
	offset := float64(i) * m.avgGap
	row := make([]float64, numFeatures)
	row[featDaysSinceStart] = m.lastDays + offset
	row[featSessionNumber] = float64(m.lastSession + i)
	row[featCumulativeVolume] = m.lastCumVolume + float64(i)*m.lastCumVolume/float64(m.lastSession)
	row[featRollingAvg1RM] = m.last1RM
	row[featDaysSinceLast] = m.avgGap

	return Prediction{
		Date:          m.lastDate.AddDate(0, 0, int(offset)).Format(dateLayout),
		SessionNumber: m.lastSession + i,
		Predicted1RM:  round(m.fit.predict(m.scaler.transformRow(row)), 1),
		DaysFromNow:   int(offset),
	}
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
