package analysis

import (
	"context"

	"github.com/claude/liftcast/internal/anomaly"
	"github.com/claude/liftcast/internal/sessions"
)

// ExerciseAnomalies lists unusual sessions of one exercise.
type ExerciseAnomalies struct {
	Exercise         ExerciseRef       `json:"exercise"`
	PeriodDays       int               `json:"period_days"`
	SessionsAnalyzed int               `json:"sessions_analyzed"`
	AnomaliesFound   int               `json:"anomalies_found"`
	Anomalies        []anomaly.Anomaly `json:"anomalies"`
	Message          string            `json:"message,omitempty"`
}

// AllAnomalies is the whole-log anomaly view.
type AllAnomalies struct {
	PeriodDays       int                 `json:"period_days"`
	WorkoutsAnalyzed int                 `json:"workouts_analyzed"`
	Anomalies        []anomaly.Anomaly   `json:"anomalies"`
	Imbalances       []anomaly.Imbalance `json:"muscle_imbalances"`
	Summary          anomaly.Summary     `json:"summary"`
	Message          string              `json:"message,omitempty"`
}

// Health is the training health score over a trailing window.
type Health struct {
	PeriodDays       int `json:"period_days"`
	WorkoutsAnalyzed int `json:"workouts_analyzed"`
	anomaly.HealthReport
}

// ExerciseAnomalies scans the exercise's sessions in the last days days.
func (s *Service) ExerciseAnomalies(ctx context.Context, exercise string, days int) (*ExerciseAnomalies, error) {
	if err := checkRange("days", days, ExerciseAnomalyRange); err != nil {
		return nil, err
	}
	h, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	ex, err := findExercise(h.Exercises, exercise)
	if err != nil {
		return nil, err
	}

	rows := sessions.ForExercise(h, ex.ID, s.since(days), s.sessionFormula)
	out := &ExerciseAnomalies{
		Exercise:         refFor(ex),
		PeriodDays:       days,
		SessionsAnalyzed: len(rows),
		Anomalies:        []anomaly.Anomaly{},
	}
	if len(rows) < anomaly.MinSessions {
		out.Message = "Not enough data for anomaly detection (need at least 3 sessions)"
		return out, nil
	}

	out.Anomalies = s.detector().Detect(rows)
	out.AnomaliesFound = len(out.Anomalies)
	return out, nil
}

// AllAnomalies scans daily totals across every exercise and flags muscle
// groups with a lopsided share of the volume.
func (s *Service) AllAnomalies(ctx context.Context, days int) (*AllAnomalies, error) {
	if err := checkRange("days", days, AllAnomalyRange); err != nil {
		return nil, err
	}
	h, err := s.history(ctx)
	if err != nil {
		return nil, err
	}

	view := sessions.ForAllExercises(h, s.since(days))
	out := &AllAnomalies{
		PeriodDays:       days,
		WorkoutsAnalyzed: len(view.Sessions),
		Anomalies:        []anomaly.Anomaly{},
		Imbalances:       []anomaly.Imbalance{},
	}
	if len(view.Sessions) < anomaly.MinSessions {
		out.Message = "Not enough data for analysis"
		return out, nil
	}

	out.Anomalies = s.detector().Detect(view.Sessions)
	out.Imbalances = anomaly.DetectImbalances(view.VolumeByGroup)
	out.Summary = anomaly.Summarize(out.Anomalies)
	return out, nil
}

// HealthScore rates every workout in the last days days.
func (s *Service) HealthScore(ctx context.Context, days int) (*Health, error) {
	if err := checkRange("days", days, HealthRange); err != nil {
		return nil, err
	}
	h, err := s.history(ctx)
	if err != nil {
		return nil, err
	}

	rows := sessions.ForWorkouts(h, s.since(days))
	out := &Health{
		PeriodDays:       days,
		WorkoutsAnalyzed: len(rows),
		HealthReport:     s.detector().HealthScore(rows),
	}
	if out.Score == nil {
		out.Recommendations = []string{"Keep training consistently to build enough data"}
	}
	return out, nil
}
