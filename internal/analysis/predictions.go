package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/liftcast/internal/forecast"
	"github.com/claude/liftcast/internal/models"
	"github.com/claude/liftcast/internal/onerm"
	"github.com/claude/liftcast/internal/sessions"
)

// MinForecastSessions is the shortest exercise history that gets a forecast.
const MinForecastSessions = 3

// StrengthForecast is the projected 1RM curve of one exercise.
type StrengthForecast struct {
	Exercise     ExerciseRef           `json:"exercise"`
	Current1RM   *float64              `json:"current_estimated_1rm,omitempty"`
	SessionsUsed int                   `json:"training_sessions_used"`
	Metrics      *forecast.Report      `json:"model_metrics,omitempty"`
	Predictions  []forecast.Prediction `json:"predictions"`
	Message      string                `json:"message,omitempty"`
}

// GoalForecast answers when an exercise will reach a target 1RM.
type GoalForecast struct {
	Exercise     ExerciseRef            `json:"exercise"`
	TargetWeight float64                `json:"target_weight"`
	Prediction   *forecast.GoalEstimate `json:"prediction,omitempty"`
	Message      string                 `json:"message,omitempty"`
}

// StrengthForecast fits a model to the exercise's full history and projects
// it daysAhead days forward.
func (s *Service) StrengthForecast(ctx context.Context, exercise string, daysAhead int) (*StrengthForecast, error) {
	if err := checkRange("days_ahead", daysAhead, ForecastRange); err != nil {
		return nil, err
	}
	ex, model, msg, err := s.train(ctx, exercise)
	if err != nil {
		return nil, err
	}

	out := &StrengthForecast{Exercise: refFor(ex), Predictions: []forecast.Prediction{}, Message: msg}
	if model == nil {
		return out, nil
	}
	report := model.Report()
	out.Metrics = &report
	out.SessionsUsed = report.DataPoints
	out.Current1RM = models.Float(onerm.Round(model.Current1RM(), 1))
	out.Predictions = model.PredictFuture(daysAhead)

	s.log.Debug("strength forecast", "exercise", ex.Name, "model", report.ModelType, "points", len(out.Predictions))
	return out, nil
}

// GoalDate estimates when the exercise's 1RM reaches target.
func (s *Service) GoalDate(ctx context.Context, exercise string, target float64) (*GoalForecast, error) {
	if !(target > 0) {
		return nil, fmt.Errorf("%w: target_weight must be positive, got %g", ErrInvalidArgument, target)
	}
	ex, model, msg, err := s.train(ctx, exercise)
	if err != nil {
		return nil, err
	}

	out := &GoalForecast{Exercise: refFor(ex), TargetWeight: target, Message: msg}
	if model == nil {
		return out, nil
	}
	goal := model.PredictTargetDate(target)
	out.Prediction = &goal

	s.log.Debug("goal forecast", "exercise", ex.Name, "target", target, "status", goal.Status)
	return out, nil
}

// train resolves the exercise and fits a model over its whole history. A
// nil model with a message means the history is too thin to fit.
func (s *Service) train(ctx context.Context, exercise string) (models.ExerciseRecord, *forecast.Model, string, error) {
	h, err := s.history(ctx)
	if err != nil {
		return models.ExerciseRecord{}, nil, "", err
	}
	ex, err := findExercise(h.Exercises, exercise)
	if err != nil {
		return ex, nil, "", err
	}

	rows := sessions.ForExercise(h, ex.ID, time.Time{}, s.sessionFormula)
	if len(rows) < MinForecastSessions {
		return ex, nil, fmt.Sprintf("Need at least %d workout sessions for predictions. Found: %d", MinForecastSessions, len(rows)), nil
	}
	usable := 0
	for _, r := range rows {
		if r.Estimated1RM != nil {
			usable++
		}
	}
	if usable < MinForecastSessions {
		return ex, nil, "Not enough valid data points for prediction", nil
	}

	model, err := forecast.Train(rows, forecast.WithLogger(s.log))
	switch {
	case errors.Is(err, forecast.ErrInsufficientData):
		return ex, nil, "Not enough valid data points for prediction", nil
	case err != nil:
		return ex, nil, "", fmt.Errorf("forecasting %s: %w", ex.Name, err)
	}
	return ex, model, "", nil
}

// OneRepMax runs the 1RM calculator. An empty formula uses the configured
// calculator default.
func (s *Service) OneRepMax(weight float64, reps int, formula string) (*onerm.Calculation, error) {
	if !(weight > 0) {
		return nil, fmt.Errorf("%w: weight must be positive, got %g", ErrInvalidArgument, weight)
	}
	if err := checkRange("reps", reps, CalculatorRepsRange); err != nil {
		return nil, err
	}
	f, err := onerm.ParseFormulaOr(formula, s.calcFormula)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	c := onerm.EstimateAll(weight, reps, f)
	return &c, nil
}
