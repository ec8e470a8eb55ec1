package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/claude/liftcast/internal/catalog"
	"github.com/claude/liftcast/internal/models"
	"github.com/claude/liftcast/internal/recommend"
)

// Balance grades per-muscle-group working sets over the last days days.
func (s *Service) Balance(ctx context.Context, days int) (*recommend.BalanceReport, error) {
	if err := checkRange("days", days, BalanceRange); err != nil {
		return nil, err
	}
	h, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	report := s.recommender(h).AnalyzeTrainingBalance(h.Workouts, h.Sets, days)
	return &report, nil
}

// NextWorkout suggests what to train next from the last two weeks.
func (s *Service) NextWorkout(ctx context.Context) (*recommend.NextWorkoutPlan, error) {
	h, err := s.history(ctx)
	if err != nil {
		return nil, err
	}

	since := s.since(nextWorkoutHistory)
	recent := make([]models.Workout, 0, len(h.Workouts))
	for _, w := range h.Workouts {
		if !models.Day(w.Date).Before(since) {
			recent = append(recent, w)
		}
	}
	plan := s.recommender(h).NextWorkout(recent, h.Sets)
	s.log.Debug("next workout", "recommendation", plan.Recommendation, "recent_workouts", len(recent))
	return &plan, nil
}

// Deload checks the whole log for signs that a lighter week is due.
func (s *Service) Deload(ctx context.Context) (*recommend.DeloadVerdict, error) {
	h, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	verdict := s.recommender(h).SuggestDeload(h.Workouts)
	return &verdict, nil
}

// Exercises lists catalog exercises for a muscle group, optionally limited
// to one kind of equipment.
func (s *Service) Exercises(ctx context.Context, group, equipment string, limit int) (*recommend.ExerciseList, error) {
	g := models.MuscleGroup(strings.ToLower(strings.TrimSpace(group)))
	if !g.Valid() {
		return nil, fmt.Errorf("%w: unknown muscle group %q", ErrInvalidArgument, group)
	}
	if err := checkRange("limit", limit, ExerciseLimitRange); err != nil {
		return nil, err
	}
	if gear := catalog.NormalizeEquipment(equipment); gear != "" {
		equipment = gear
	}

	h, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	list := s.recommender(h).ExerciseRecommendations(g, equipment, limit)
	return &list, nil
}
