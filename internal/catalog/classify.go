package catalog

import (
	"strings"

	"github.com/claude/liftcast/internal/models"
)

// Equipment kinds.
const (
	Barbell    = "barbell"
	Dumbbell   = "dumbbell"
	Cable      = "cable"
	Machine    = "machine"
	Bodyweight = "bodyweight"
	OtherGear  = "other"
)

var equipmentKinds = []string{Barbell, Dumbbell, Cable, Machine, Bodyweight, OtherGear}

// groupKeywords is checked in order; the first group with a matching
// keyword wins.
var groupKeywords = []struct {
	group    models.MuscleGroup
	keywords []string
}{
	{models.Chest, []string{"bench", "chest", "pec", "fly", "flys", "flies", "push up", "pushup", "dip"}},
	{models.Back, []string{"row", "pulldown", "pull down", "lat ", "deadlift", "pull up", "pullup", "chin"}},
	{models.Shoulders, []string{"shoulder", "lateral", "raise", "shrug", "delt", "press machine", "ohp", "military"}},
	{models.Legs, []string{"squat", "leg", "lunge", "calf", "hip thrust", "rdl", "hamstring", "quad", "glute"}},
	{models.Arms, []string{"curl", "bicep", "tricep", "hammer", "pushdown", "extension", "skull"}},
	{models.Core, []string{"ab", "crunch", "plank", "twist", "core"}},
}

var compoundKeywords = []string{"squat", "deadlift", "bench", "row", "press", "pull up", "dip", "lunge"}

// GuessMuscleGroup classifies an exercise by keywords in its name.
func GuessMuscleGroup(name string) models.MuscleGroup {
	n := strings.ToLower(name)
	for _, gk := range groupKeywords {
		if containsAny(n, gk.keywords) {
			return gk.group
		}
	}
	return models.Other
}

// GuessEquipment infers the equipment from an exercise name.
func GuessEquipment(name string) string {
	n := strings.ToLower(name)
	switch {
	case containsAny(n, []string{"barbell", "bar "}):
		return Barbell
	case containsAny(n, []string{"dumbbell", "db "}):
		return Dumbbell
	case strings.Contains(n, "cable"):
		return Cable
	case strings.Contains(n, "machine"):
		return Machine
	case containsAny(n, []string{"bodyweight", "push up", "pull up"}):
		return Bodyweight
	default:
		return OtherGear
	}
}

// GuessCompound reports whether the name looks like a multi-joint lift.
func GuessCompound(name string) bool {
	return containsAny(strings.ToLower(name), compoundKeywords)
}

// NormalizeEquipment maps free-form equipment labels such as "Dumbbells" or
// "Smith machine" onto the catalog's equipment kinds. Unknown labels return "".
func NormalizeEquipment(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case l == "":
		return ""
	case strings.Contains(l, "barbell"), strings.Contains(l, "ez bar"), strings.Contains(l, "trap bar"):
		return Barbell
	case strings.Contains(l, "dumbbell"), strings.Contains(l, "kettlebell"):
		return Dumbbell
	case strings.Contains(l, "cable"), strings.Contains(l, "band"):
		return Cable
	case strings.Contains(l, "machine"), strings.Contains(l, "smith"), strings.Contains(l, "sled"):
		return Machine
	case strings.Contains(l, "bodyweight"), strings.Contains(l, "body weight"):
		return Bodyweight
	default:
		return ""
	}
}

func validEquipment(e string) bool {
	for _, k := range equipmentKinds {
		if e == k {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
