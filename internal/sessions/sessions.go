// Package sessions folds a flat training log into the per-session rows the
// analysis engines consume. Only working sets contribute.
package sessions

import (
	"sort"
	"time"

	"github.com/claude/liftcast/internal/models"
	"github.com/claude/liftcast/internal/onerm"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// day accumulates one calendar date.
type day struct {
	date      time.Time
	exertion  *int
	maxWeight *float64
	maxReps   int
	volume    float64
	working   int
	rpes      []float64
}

func (d *day) add(s models.SetRecord) {
	if !s.IsWorking() {
		return
	}
	d.working++
	d.volume += s.Volume()
	if s.RPE != nil {
		d.rpes = append(d.rpes, *s.RPE)
	}
	switch {
	case d.maxWeight == nil || s.Weight > *d.maxWeight:
		d.maxWeight = models.Float(s.Weight)
		d.maxReps = s.Reps
	case s.Weight == *d.maxWeight && s.Reps > d.maxReps:
		d.maxReps = s.Reps
	}
}

func (d *day) record() models.SessionRecord {
	rec := models.SessionRecord{
		Date:              d.date,
		TotalVolume:       d.volume,
		WorkingSets:       d.working,
		PerceivedExertion: d.exertion,
	}
	if d.maxWeight != nil {
		rec.MaxWeight = models.Float(*d.maxWeight)
		rec.RepsAtMaxWeight = models.Int(d.maxReps)
	}
	if len(d.rpes) > 0 {
		rec.AvgRPE = models.Float(stat.Mean(d.rpes, nil))
	}
	return rec
}

// days groups workouts on or after since by calendar date. The first
// non-nil exertion of a date wins.
type days struct {
	byDate    map[time.Time]*day
	byWorkout map[uuid.UUID]*day
}

func collect(h *models.History, since time.Time) days {
	ds := days{
		byDate:    make(map[time.Time]*day),
		byWorkout: make(map[uuid.UUID]*day),
	}
	since = models.Day(since)
	for _, w := range h.Workouts {
		date := models.Day(w.Date)
		if date.Before(since) {
			continue
		}
		d, ok := ds.byDate[date]
		if !ok {
			d = &day{date: date}
			ds.byDate[date] = d
		}
		if d.exertion == nil && w.PerceivedExertion != nil {
			d.exertion = models.Int(*w.PerceivedExertion)
		}
		ds.byWorkout[w.ID] = d
	}
	return ds
}

func (ds days) records(keep func(*day) bool) []models.SessionRecord {
	out := make([]models.SessionRecord, 0, len(ds.byDate))
	for _, d := range ds.byDate {
		if keep(d) {
			out = append(out, d.record())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ForExercise returns one row per date on which the exercise had a working
// set, with the 1RM estimated from the heaviest set using f.
func ForExercise(h *models.History, exerciseID uuid.UUID, since time.Time, f onerm.Formula) []models.SessionRecord {
	ds := collect(h, since)
	for _, s := range h.Sets {
		if s.ExerciseID != exerciseID {
			continue
		}
		if d, ok := ds.byWorkout[s.WorkoutID]; ok {
			d.add(s)
		}
	}

	out := ds.records(func(d *day) bool { return d.working > 0 })
	for i, rec := range out {
		if rec.MaxWeight != nil && *rec.MaxWeight > 0 && *rec.RepsAtMaxWeight > 0 {
			out[i].Estimated1RM = models.Float(onerm.Estimate(*rec.MaxWeight, *rec.RepsAtMaxWeight, f))
		}
	}
	return out
}

// ForWorkouts returns one row per training date, including dates with no
// sets. The 1RM column carries volume per working set, which the health
// score uses as a progress proxy.
func ForWorkouts(h *models.History, since time.Time) []models.SessionRecord {
	ds := collect(h, since)
	for _, s := range h.Sets {
		if d, ok := ds.byWorkout[s.WorkoutID]; ok {
			d.add(s)
		}
	}

	out := ds.records(func(*day) bool { return true })
	for i, rec := range out {
		out[i].Estimated1RM = models.Float(rec.TotalVolume / float64(max(1, rec.WorkingSets)))
	}
	return out
}

// Overview is the whole-log view behind the all-exercise anomaly report.
type Overview struct {
	Sessions      []models.SessionRecord
	VolumeByGroup map[models.MuscleGroup]float64
}

// ForAllExercises returns daily totals across every exercise, with the
// heaviest weight of the day standing in for the 1RM, and the working
// volume per muscle group over the same window.
func ForAllExercises(h *models.History, since time.Time) Overview {
	groups := make(map[uuid.UUID]models.MuscleGroup, len(h.Exercises))
	for _, ex := range h.Exercises {
		groups[ex.ID] = ex.MuscleGroup
	}

	ds := collect(h, since)
	volume := make(map[models.MuscleGroup]float64)
	for _, s := range h.Sets {
		d, ok := ds.byWorkout[s.WorkoutID]
		if !ok {
			continue
		}
		g, ok := groups[s.ExerciseID]
		if !ok {
			continue
		}
		d.add(s)
		if s.IsWorking() {
			volume[g] += s.Volume()
		}
	}

	out := ds.records(func(d *day) bool { return d.working > 0 })
	for i, rec := range out {
		if rec.MaxWeight != nil {
			out[i].Estimated1RM = models.Float(*rec.MaxWeight)
		}
	}
	return Overview{Sessions: out, VolumeByGroup: volume}
}
