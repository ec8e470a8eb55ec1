// Package ingest loads training exports into an in-memory Store that the
// analysis layer reads from.
package ingest

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/claude/liftcast/internal/catalog"
	"github.com/claude/liftcast/internal/models"
	"github.com/google/uuid"
)

// Store is the in-memory training log. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	workouts map[uuid.UUID]models.Workout
	sets     map[uuid.UUID][]models.SetRecord
	catalog  *catalog.Catalog
	log      *slog.Logger
}

// NewStore creates an empty store over the exercise catalog.
func NewStore(cat *catalog.Catalog, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{
		workouts: make(map[uuid.UUID]models.Workout),
		sets:     make(map[uuid.UUID][]models.SetRecord),
		catalog:  cat,
		log:      log,
	}
}

// Catalog returns the exercise catalog backing the store.
func (s *Store) Catalog() *catalog.Catalog { return s.catalog }

// Replace stores a workout and its sets, dropping any earlier copy of the
// same workout ID. It reports whether an earlier copy existed.
func (s *Store) Replace(w models.Workout, sets []models.SetRecord) bool {
	w.Date = models.Day(w.Date)
	own := make([]models.SetRecord, len(sets))
	for i, set := range sets {
		set.WorkoutID = w.ID
		own[i] = set
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.workouts[w.ID]
	s.workouts[w.ID] = w
	s.sets[w.ID] = own
	return existed
}

// Len returns the number of stored workouts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workouts)
}

// History returns a snapshot of the log, workouts in date order. The
// snapshot shares no memory with the store.
func (s *Store) History(ctx context.Context) (*models.History, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	h := &models.History{Workouts: make([]models.Workout, 0, len(s.workouts))}
	for _, w := range s.workouts {
		if w.PerceivedExertion != nil {
			w.PerceivedExertion = models.Int(*w.PerceivedExertion)
		}
		h.Workouts = append(h.Workouts, w)
	}
	sort.Slice(h.Workouts, func(i, j int) bool {
		a, b := h.Workouts[i], h.Workouts[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ID.String() < b.ID.String()
	})
	for _, w := range h.Workouts {
		for _, set := range s.sets[w.ID] {
			if set.RPE != nil {
				set.RPE = models.Float(*set.RPE)
			}
			h.Sets = append(h.Sets, set)
		}
	}
	s.mu.RUnlock()

	if s.catalog != nil {
		h.Exercises = s.catalog.Exercises()
	}
	return h, nil
}
