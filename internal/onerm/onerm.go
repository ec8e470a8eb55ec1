// Package onerm estimates a one-rep max from a sub-maximal weight x reps pair.
package onerm

import (
	"fmt"
	"math"
	"strings"
)

// Formula selects the estimation formula.
type Formula int

const (
	Epley Formula = iota
	Brzycki
	Lombardi
	OConner
	Mayhew
	Average
)

var names = map[Formula]string{
	Epley:    "epley",
	Brzycki:  "brzycki",
	Lombardi: "lombardi",
	OConner:  "oconner",
	Mayhew:   "mayhew",
	Average:  "average",
}

// Standalone lists the formulas that feed Average. Mayhew is only available on its own.
var Standalone = []Formula{Epley, Brzycki, Lombardi, OConner}

func (f Formula) String() string {
	if n, ok := names[f]; ok {
		return n
	}
	return fmt.Sprintf("Formula(%d)", int(f))
}

// ParseFormula maps a formula name to its kind. An empty name means the
// internal default, epley.
func ParseFormula(name string) (Formula, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return Epley, nil
	}
	for f, fn := range names {
		if fn == n {
			return f, nil
		}
	}
	return Epley, fmt.Errorf("unknown 1RM formula %q", name)
}

// ParseFormulaOr is ParseFormula with a caller-supplied default for an empty name.
func ParseFormulaOr(name string, def Formula) (Formula, error) {
	if strings.TrimSpace(name) == "" {
		return def, nil
	}
	return ParseFormula(name)
}

// Estimate returns the estimated one-rep max. A single rep is taken as the
// true max. Non-positive weight or zero reps yield 0.
func Estimate(weight float64, reps int, f Formula) float64 {
	if reps == 1 {
		return weight
	}
	if reps < 1 || weight <= 0 {
		return 0
	}

	r := float64(reps)
	switch f {
	case Epley:
		return weight * (1 + r/30)
	case Brzycki:
		if reps < 37 {
			return weight * 36 / (37 - r)
		}
		return weight * 2
	case Lombardi:
		return weight * math.Pow(r, 0.10)
	case OConner:
		return weight * (1 + r/40)
	case Mayhew:
		return weight * 100 / (52.2 + 41.9*math.Exp(-0.055*r))
	case Average:
		var sum float64
		for _, s := range Standalone {
			sum += Estimate(weight, reps, s)
		}
		return sum / float64(len(Standalone))
	default:
		// Unknown kinds fall back to epley.
		return Estimate(weight, reps, Epley)
	}
}

// Calculation is the result of the 1RM calculator.
type Calculation struct {
	Weight       float64            `json:"weight"`
	Reps         int                `json:"reps"`
	Formula      string             `json:"formula,omitempty"`
	Estimated1RM float64            `json:"estimated_1rm"`
	AllFormulas  map[string]float64 `json:"all_formulas,omitempty"`
	Note         string             `json:"note,omitempty"`
}

// EstimateAll runs every standalone formula, rounded to one decimal, and
// reports the requested one. Average is the mean of the rounded values.
func EstimateAll(weight float64, reps int, f Formula) Calculation {
	if reps == 1 {
		return Calculation{Weight: weight, Reps: reps, Estimated1RM: weight, Note: "1 rep = actual 1RM"}
	}

	c := Calculation{
		Weight:      weight,
		Reps:        reps,
		Formula:     f.String(),
		AllFormulas: make(map[string]float64, len(Standalone)),
	}
	var sum float64
	for _, s := range Standalone {
		v := Round(Estimate(weight, reps, s), 1)
		c.AllFormulas[s.String()] = v
		sum += v
	}
	switch f {
	case Average:
		c.Estimated1RM = Round(sum/float64(len(Standalone)), 1)
	case Mayhew:
		c.Estimated1RM = Round(Estimate(weight, reps, Mayhew), 1)
	default:
		v, ok := c.AllFormulas[f.String()]
		if !ok {
			c.Formula = Epley.String()
			v = c.AllFormulas[Epley.String()]
		}
		c.Estimated1RM = v
	}
	return c
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
