// Package catalog is the exercise catalog: an embedded default list that a
// user file can extend, plus keyword classification for exercises that
// show up in imports under names the catalog does not know.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/claude/liftcast/internal/models"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

//go:embed exercises.yaml
var defaultCatalog []byte

// Namespace seeds the name-based exercise IDs, so the same name maps to the
// same ID across runs.
var Namespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("exercises.liftcast"))

// IDFor returns the deterministic ID for an exercise name.
func IDFor(name string) uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte(key(name)))
}

type file struct {
	Exercises []entry `yaml:"exercises"`
}

type entry struct {
	ID                    string `yaml:"id,omitempty"`
	models.ExerciseRecord `yaml:",inline"`
}

// Catalog is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries []models.ExerciseRecord
	byKey   map[string]int
	byID    map[uuid.UUID]int
	log     *slog.Logger
}

// Default returns the embedded catalog.
func Default(log *slog.Logger) (*Catalog, error) {
	return Load("", log)
}

// Load returns the embedded catalog, extended by the YAML file at path when
// path is not empty. User entries replace default entries of the same name.
func Load(path string, log *slog.Logger) (*Catalog, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	base, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}

	c := &Catalog{log: log}
	c.reindex(base)

	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	extra, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}

	merged := c.entries
	replaced := 0
	for _, ex := range extra {
		if i, ok := c.byKey[key(ex.Name)]; ok && key(merged[i].Name) == key(ex.Name) {
			merged[i] = ex
			replaced++
			continue
		}
		merged = append(merged, ex)
	}
	if err := validate(merged); err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	c.reindex(merged)
	log.Info("exercise catalog loaded", "path", path, "entries", len(merged), "overrides", replaced)
	return c, nil
}

// Parse decodes and validates a catalog document. Every problem is reported,
// not just the first.
func Parse(data []byte) ([]models.ExerciseRecord, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	var errs error
	out := make([]models.ExerciseRecord, 0, len(f.Exercises))
	for i, e := range f.Exercises {
		ex := e.ExerciseRecord
		ex.Name = strings.TrimSpace(ex.Name)
		ex.Equipment = strings.ToLower(strings.TrimSpace(ex.Equipment))
		if ex.Equipment == "" {
			ex.Equipment = GuessEquipment(ex.Name)
		}
		if e.ID != "" {
			id, err := uuid.Parse(e.ID)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("exercise %d (%s): invalid id: %w", i+1, ex.Name, err))
				continue
			}
			ex.ID = id
		} else {
			ex.ID = IDFor(ex.Name)
		}
		out = append(out, ex)
	}
	if errs != nil {
		return nil, errs
	}
	if err := validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

func validate(exs []models.ExerciseRecord) error {
	var errs error
	owners := make(map[string]int)
	ids := make(map[uuid.UUID]int)
	claim := func(k string, i int) {
		if prev, ok := owners[k]; ok && prev != i {
			errs = multierr.Append(errs, fmt.Errorf("%q is used by both %s and %s", k, exs[prev].Name, exs[i].Name))
			return
		}
		owners[k] = i
	}

	for i, ex := range exs {
		if ex.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("exercise %d: name is required", i+1))
			continue
		}
		if !ex.MuscleGroup.Valid() {
			errs = multierr.Append(errs, fmt.Errorf("%s: unknown muscle group %q", ex.Name, ex.MuscleGroup))
		}
		if !validEquipment(ex.Equipment) {
			errs = multierr.Append(errs, fmt.Errorf("%s: unknown equipment %q", ex.Name, ex.Equipment))
		}
		if prev, ok := ids[ex.ID]; ok {
			errs = multierr.Append(errs, fmt.Errorf("%s: id %s already used by %s", ex.Name, ex.ID, exs[prev].Name))
		}
		ids[ex.ID] = i

		claim(key(ex.Name), i)
		for _, a := range ex.Aliases {
			claim(key(a), i)
		}
	}
	return errs
}

func (c *Catalog) reindex(exs []models.ExerciseRecord) {
	c.entries = exs
	c.byKey = make(map[string]int, len(exs)*2)
	c.byID = make(map[uuid.UUID]int, len(exs))
	for i, ex := range exs {
		c.byID[ex.ID] = i
		c.byKey[key(ex.Name)] = i
		for _, a := range ex.Aliases {
			c.byKey[key(a)] = i
		}
	}
}

// Exercises returns a copy of the catalog in catalog order.
func (c *Catalog) Exercises() []models.ExerciseRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.ExerciseRecord, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Lookup finds an exercise by ID, name or alias. Names are matched
// case-insensitively.
func (c *Catalog) Lookup(ref string) (models.ExerciseRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookup(ref)
}

func (c *Catalog) lookup(ref string) (models.ExerciseRecord, bool) {
	if id, err := uuid.Parse(strings.TrimSpace(ref)); err == nil {
		if i, ok := c.byID[id]; ok {
			return c.entries[i], true
		}
		return models.ExerciseRecord{}, false
	}
	if i, ok := c.byKey[key(ref)]; ok {
		return c.entries[i], true
	}
	return models.ExerciseRecord{}, false
}

// ErrEmptyName is returned by Resolve for a blank exercise name.
var ErrEmptyName = errors.New("exercise name is empty")

// Resolve returns the catalog entry for name, adding a keyword-classified
// entry when the name is unknown. equipment is a free-form label from the
// import source and is only used for new entries.
func (c *Catalog) Resolve(name, equipment string) (ex models.ExerciseRecord, added bool, err error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return models.ExerciseRecord{}, false, ErrEmptyName
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ex, ok := c.lookup(name); ok {
		return ex, false, nil
	}

	gear := NormalizeEquipment(equipment)
	if gear == "" {
		gear = GuessEquipment(name)
	}
	ex = models.ExerciseRecord{
		ID:          IDFor(name),
		Name:        name,
		MuscleGroup: GuessMuscleGroup(name),
		IsCompound:  GuessCompound(name),
		Equipment:   gear,
	}
	c.entries = append(c.entries, ex)
	c.byID[ex.ID] = len(c.entries) - 1
	c.byKey[key(name)] = len(c.entries) - 1

	c.log.Info("new exercise added to catalog",
		"name", ex.Name, "muscle_group", ex.MuscleGroup, "equipment", ex.Equipment, "compound", ex.IsCompound)
	return ex, true, nil
}

func key(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
