// Package history ingests a hand-maintained YAML training log.
//
// The file lists workouts by date:
//
//	workouts:
//	  - date: 2024-03-01
//	    name: Push A
//	    perceived_exertion: 8
//	    exercises:
//	      - name: Bench Press
//	        equipment: barbell
//	        sets:
//	          - {weight: 60, reps: 10, type: warmup}
//	          - {weight: 100, reps: 5, rpe: 8, count: 3}
package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/liftcast/internal/ingest"
	"github.com/claude/liftcast/internal/models"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Source tags workout IDs derived from YAML history files.
const Source = "history"

const dateLayout = "2006-01-02"

// File is the YAML document.
type File struct {
	Workouts []Workout `yaml:"workouts"`
}

// Workout is one dated session in the file.
type Workout struct {
	Date              string     `yaml:"date"`
	Name              string     `yaml:"name"`
	PerceivedExertion *int       `yaml:"perceived_exertion"`
	Exercises         []Exercise `yaml:"exercises"`
}

// Exercise groups the sets of one movement.
type Exercise struct {
	Name      string `yaml:"name"`
	Equipment string `yaml:"equipment"`
	Sets      []Set  `yaml:"sets"`
}

// Set is one line of sets. Count repeats it; zero means once.
type Set struct {
	Weight float64  `yaml:"weight"`
	Reps   int      `yaml:"reps"`
	Type   string   `yaml:"type"`
	RPE    *float64 `yaml:"rpe"`
	Count  int      `yaml:"count"`
}

// Parse decodes and validates a history document. Every problem in the
// file is reported, not just the first.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decoding history: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	var errs error
	for i, w := range f.Workouts {
		where := fmt.Sprintf("workout %d", i+1)
		if _, err := time.Parse(dateLayout, w.Date); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: invalid date %q", where, w.Date))
		}
		if w.PerceivedExertion != nil && (*w.PerceivedExertion < 1 || *w.PerceivedExertion > 10) {
			errs = multierr.Append(errs, fmt.Errorf("%s: perceived_exertion %d outside 1-10", where, *w.PerceivedExertion))
		}
		for j, ex := range w.Exercises {
			exWhere := fmt.Sprintf("%s exercise %d", where, j+1)
			if ex.Name == "" {
				errs = multierr.Append(errs, fmt.Errorf("%s: name is required", exWhere))
			}
			for k, s := range ex.Sets {
				setWhere := fmt.Sprintf("%s set %d", exWhere, k+1)
				if s.Reps < 0 {
					errs = multierr.Append(errs, fmt.Errorf("%s: reps must not be negative", setWhere))
				}
				if s.Weight < 0 {
					errs = multierr.Append(errs, fmt.Errorf("%s: weight must not be negative", setWhere))
				}
				if s.Count < 0 {
					errs = multierr.Append(errs, fmt.Errorf("%s: count must not be negative", setWhere))
				}
				switch models.SetType(s.Type) {
				case "", models.Working, models.Warmup:
				default:
					errs = multierr.Append(errs, fmt.Errorf("%s: unknown set type %q", setWhere, s.Type))
				}
				if s.RPE != nil && (*s.RPE < 0 || *s.RPE > 10) {
					errs = multierr.Append(errs, fmt.Errorf("%s: rpe %g outside 0-10", setWhere, *s.RPE))
				}
			}
		}
	}
	return errs
}

// Provider loads YAML history files into a store.
type Provider struct {
	store *ingest.Store
	log   *slog.Logger
}

var _ ingest.Provider = (*Provider)(nil)

// NewProvider creates a YAML history provider.
func NewProvider(store *ingest.Store, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Provider{store: store, log: log}
}

// Ingest parses a history document and stores every workout in it.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	f, err := Parse(r)
	if err != nil {
		return nil, err
	}

	result := &ingest.Result{}
	for _, w := range f.Workouts {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		// Validated above.
		date, _ := time.Parse(dateLayout, w.Date)
		workout := models.Workout{
			ID:                ingest.WorkoutID(Source, date, w.Name),
			Date:              date,
			Name:              w.Name,
			PerceivedExertion: w.PerceivedExertion,
		}

		var sets []models.SetRecord
		for _, ex := range w.Exercises {
			rec, isNew, err := p.store.Catalog().Resolve(ex.Name, ex.Equipment)
			if err != nil {
				return result, fmt.Errorf("workout %s: %w", w.Date, err)
			}
			if isNew {
				result.ExercisesAdded = append(result.ExercisesAdded, rec.Name)
			}
			number := 0
			for _, s := range ex.Sets {
				typ := models.SetType(s.Type)
				if typ == "" {
					typ = models.Working
				}
				for range max(1, s.Count) {
					number++
					sets = append(sets, models.SetRecord{
						ExerciseID: rec.ID,
						SetNumber:  number,
						Weight:     s.Weight,
						Reps:       s.Reps,
						Type:       typ,
						RPE:        s.RPE,
					})
				}
			}
		}

		if p.store.Replace(workout, sets) {
			result.WorkoutsReplaced++
		}
		result.WorkoutsReceived++
		result.SetsReceived += len(sets)
	}

	p.log.Info("history import",
		"workouts", result.WorkoutsReceived, "replaced", result.WorkoutsReplaced,
		"sets", result.SetsReceived, "new_exercises", len(result.ExercisesAdded))
	return result, nil
}
