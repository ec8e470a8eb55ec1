package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/claude/liftcast/internal/ingest"
	"github.com/claude/liftcast/internal/models"
	"gonum.org/v1/gonum/stat"
)

// Source tags workout IDs derived from Alpha Progression exports.
const Source = "alpha"

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	store *ingest.Store
	log   *slog.Logger
}

var _ ingest.Provider = (*Provider)(nil)

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(store *ingest.Store, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Provider{store: store, log: log}
}

// Ingest parses a CSV export and stores every session. Re-importing a
// session replaces the earlier copy, so the store always reflects the
// latest parser output.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{}
	for _, s := range sessions {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		w, sets, added, err := p.convert(s)
		if err != nil {
			return result, fmt.Errorf("session %s: %w", s.Date.Format("2006-01-02"), err)
		}
		if p.store.Replace(w, sets) {
			result.WorkoutsReplaced++
		}
		result.WorkoutsReceived++
		result.SetsReceived += len(sets)
		result.ExercisesAdded = append(result.ExercisesAdded, added...)
	}

	p.log.Info("alpha progression import",
		"workouts", result.WorkoutsReceived, "replaced", result.WorkoutsReplaced,
		"sets", result.SetsReceived, "new_exercises", len(result.ExercisesAdded))
	return result, nil
}

// convert maps a parsed session onto a workout and its sets. The workout's
// perceived exertion is the rounded mean RPE of its working sets.
func (p *Provider) convert(s Session) (models.Workout, []models.SetRecord, []string, error) {
	w := models.Workout{
		ID:   ingest.WorkoutID(Source, s.Date, s.Name),
		Date: models.Day(s.Date),
		Name: s.Name,
	}

	var (
		sets  []models.SetRecord
		added []string
		rpes  []float64
	)
	for _, ex := range s.Exercises {
		rec, isNew, err := p.store.Catalog().Resolve(ex.Name, ex.Equipment)
		if err != nil {
			return w, nil, nil, fmt.Errorf("exercise %d: %w", ex.Number, err)
		}
		if isNew {
			added = append(added, rec.Name)
		}

		for i, set := range ex.Sets {
			typ := models.Working
			if set.IsWarmup {
				typ = models.Warmup
			}
			rpe := set.RPE()
			if rpe != nil {
				rpes = append(rpes, *rpe)
			}
			sets = append(sets, models.SetRecord{
				WorkoutID:  w.ID,
				ExerciseID: rec.ID,
				SetNumber:  i + 1,
				Weight:     set.WeightKg,
				Reps:       set.Reps,
				Type:       typ,
				RPE:        rpe,
			})
		}
	}

	if len(rpes) > 0 {
		w.PerceivedExertion = models.Int(int(math.Round(stat.Mean(rpes, nil))))
	}
	return w, sets, added, nil
}
