package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Result holds the outcome of an ingest operation.
type Result struct {
	WorkoutsReceived int      `json:"workouts_received"`
	WorkoutsReplaced int      `json:"workouts_replaced"`
	SetsReceived     int      `json:"sets_received"`
	ExercisesAdded   []string `json:"exercises_added,omitempty"`

	Message string `json:"message,omitempty"`
}

// Provider parses one export format into a Store.
type Provider interface {
	Ingest(ctx context.Context, r io.Reader) (*Result, error)
}

// IngestFile opens path and feeds it to p.
func IngestFile(ctx context.Context, p Provider, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	res, err := p.Ingest(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", path, err)
	}
	return res, nil
}

// Namespace seeds workout IDs derived from source, date and name, so
// re-importing the same export replaces rather than duplicates.
var Namespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("workouts.liftcast"))

// WorkoutID returns the deterministic ID of a workout from a given source.
func WorkoutID(source string, date time.Time, name string) uuid.UUID {
	key := strings.Join([]string{source, date.Format("2006-01-02"), strings.ToLower(strings.TrimSpace(name))}, "|")
	return uuid.NewSHA1(Namespace, []byte(key))
}
