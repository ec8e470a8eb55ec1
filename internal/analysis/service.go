// Package analysis answers training questions over a HistorySource. Each
// call takes a fresh snapshot of the log and builds its engines from
// scratch; nothing is cached between calls.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/claude/liftcast/internal/anomaly"
	"github.com/claude/liftcast/internal/models"
	"github.com/claude/liftcast/internal/onerm"
	"github.com/claude/liftcast/internal/recommend"
	"github.com/google/uuid"
)

var (
	// ErrExerciseNotFound is returned when an exercise reference matches
	// no catalog entry.
	ErrExerciseNotFound = errors.New("exercise not found")

	// ErrInvalidArgument is returned when a parameter is outside its range.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Default windows and limits, in days unless noted.
const (
	DefaultForecastDays      = 30
	DefaultExerciseAnomalies = 90
	DefaultAllAnomalies      = 30
	DefaultHealthDays        = 30
	DefaultBalanceDays       = 7
	DefaultExerciseLimit     = recommend.DefaultExerciseList

	nextWorkoutHistory = 14
)

// Range is an inclusive bound on an integer parameter.
type Range struct{ Min, Max int }

func (r Range) contains(v int) bool { return v >= r.Min && v <= r.Max }

// Accepted parameter ranges.
var (
	ForecastRange        = Range{7, 180}
	ExerciseAnomalyRange = Range{30, 365}
	AllAnomalyRange      = Range{7, 90}
	HealthRange          = Range{14, 90}
	BalanceRange         = Range{7, 30}
	ExerciseLimitRange   = Range{1, 10}
	CalculatorRepsRange  = Range{1, 30}
)

// Service runs the analyses. It is safe for concurrent use as long as
// its HistorySource is.
type Service struct {
	src            HistorySource
	now            func() time.Time
	log            *slog.Logger
	zThreshold     float64
	sessionFormula onerm.Formula
	calcFormula    onerm.Formula
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock that anchors trailing windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the service logger. Engines log through it too.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithZThreshold sets the anomaly z-score threshold.
func WithZThreshold(z float64) Option {
	return func(s *Service) {
		if z > 0 {
			s.zThreshold = z
		}
	}
}

// WithSessionFormula sets the formula that turns a session's top set into
// a 1RM for forecasting and anomaly detection.
func WithSessionFormula(f onerm.Formula) Option {
	return func(s *Service) { s.sessionFormula = f }
}

// WithCalculatorFormula sets the formula OneRepMax uses when none is named.
func WithCalculatorFormula(f onerm.Formula) Option {
	return func(s *Service) { s.calcFormula = f }
}

// New creates a Service over src.
func New(src HistorySource, opts ...Option) *Service {
	s := &Service{
		src:            src,
		now:            time.Now,
		log:            slog.New(slog.DiscardHandler),
		zThreshold:     anomaly.DefaultZThreshold,
		sessionFormula: onerm.Epley,
		calcFormula:    onerm.Average,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExerciseRef identifies the exercise an analysis ran on.
type ExerciseRef struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	MuscleGroup models.MuscleGroup `json:"muscle_group"`
}

func (s *Service) history(ctx context.Context) (*models.History, error) {
	h, err := s.src.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return h, nil
}

// since returns the first calendar day of a trailing window of days.
func (s *Service) since(days int) time.Time {
	return models.Day(s.now()).AddDate(0, 0, -days)
}

func (s *Service) detector() *anomaly.Detector {
	return anomaly.NewDetector(anomaly.WithZThreshold(s.zThreshold), anomaly.WithLogger(s.log))
}

func (s *Service) recommender(h *models.History) *recommend.Recommender {
	return recommend.New(h.Exercises, recommend.WithClock(s.now), recommend.WithLogger(s.log))
}

func checkRange(name string, v int, r Range) error {
	if !r.contains(v) {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidArgument, name, r.Min, r.Max, v)
	}
	return nil
}

// findExercise resolves ref as an ID, a name or an alias. Names and
// aliases match case-insensitively with whitespace collapsed.
func findExercise(exercises []models.ExerciseRecord, ref string) (models.ExerciseRecord, error) {
	if id, err := uuid.Parse(strings.TrimSpace(ref)); err == nil {
		for _, ex := range exercises {
			if ex.ID == id {
				return ex, nil
			}
		}
		return models.ExerciseRecord{}, fmt.Errorf("%w: %s", ErrExerciseNotFound, ref)
	}

	want := normalize(ref)
	if want == "" {
		return models.ExerciseRecord{}, fmt.Errorf("%w: exercise is required", ErrInvalidArgument)
	}
	for _, ex := range exercises {
		if normalize(ex.Name) == want {
			return ex, nil
		}
	}
	for _, ex := range exercises {
		for _, a := range ex.Aliases {
			if normalize(a) == want {
				return ex, nil
			}
		}
	}
	return models.ExerciseRecord{}, fmt.Errorf("%w: %q", ErrExerciseNotFound, ref)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func refFor(ex models.ExerciseRecord) ExerciseRef {
	return ExerciseRef{ID: ex.ID, Name: ex.Name, MuscleGroup: ex.MuscleGroup}
}
