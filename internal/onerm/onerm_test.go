package onerm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate_SingleRepIsExact(t *testing.T) {
	for _, f := range []Formula{Epley, Brzycki, Lombardi, OConner, Mayhew, Average, Formula(99)} {
		assert.Equal(t, 225.0, Estimate(225, 1, f), f.String())
		assert.Equal(t, 42.5, Estimate(42.5, 1, f), f.String())
	}
}

func TestEstimate_Degenerate(t *testing.T) {
	assert.Zero(t, Estimate(100, 0, Epley))
	assert.Zero(t, Estimate(100, -3, Brzycki))
	assert.Zero(t, Estimate(0, 5, Epley))
	assert.Zero(t, Estimate(-20, 5, Average))
}

func TestEstimate_Formulas(t *testing.T) {
	const w, r = 100.0, 10

	assert.InDelta(t, 133.333, Estimate(w, r, Epley), 0.001)
	assert.InDelta(t, 133.333, Estimate(w, r, Brzycki), 0.001)
	assert.InDelta(t, 100*math.Pow(10, 0.1), Estimate(w, r, Lombardi), 1e-9)
	assert.InDelta(t, 125.0, Estimate(w, r, OConner), 1e-9)
	assert.InDelta(t, 100*100/(52.2+41.9*math.Exp(-0.55)), Estimate(w, r, Mayhew), 1e-9)
}

func TestEstimate_AverageExcludesMayhew(t *testing.T) {
	const w, r = 80.0, 6
	want := (Estimate(w, r, Epley) + Estimate(w, r, Brzycki) +
		Estimate(w, r, Lombardi) + Estimate(w, r, OConner)) / 4
	assert.InDelta(t, want, Estimate(w, r, Average), 1e-9)
}

func TestEstimate_BrzyckiCap(t *testing.T) {
	assert.Equal(t, 200.0, Estimate(100, 37, Brzycki))
	assert.Equal(t, 200.0, Estimate(100, 50, Brzycki))
	assert.InDelta(t, 3600.0, Estimate(100, 36, Brzycki), 1e-9)
}

func TestEstimate_UnknownFallsBackToEpley(t *testing.T) {
	assert.Equal(t, Estimate(100, 8, Epley), Estimate(100, 8, Formula(42)))
}

func TestParseFormula(t *testing.T) {
	f, err := ParseFormula("Brzycki")
	require.NoError(t, err)
	assert.Equal(t, Brzycki, f)

	f, err = ParseFormula("")
	require.NoError(t, err)
	assert.Equal(t, Epley, f)

	f, err = ParseFormulaOr("", Average)
	require.NoError(t, err)
	assert.Equal(t, Average, f)

	_, err = ParseFormula("wathan")
	assert.Error(t, err)
}

func TestEstimateAll(t *testing.T) {
	c := EstimateAll(100, 10, Average)
	assert.Equal(t, "average", c.Formula)
	require.Len(t, c.AllFormulas, 4)
	assert.Equal(t, 133.3, c.AllFormulas["epley"])
	assert.Equal(t, 125.0, c.AllFormulas["oconner"])
	assert.NotContains(t, c.AllFormulas, "mayhew")

	var sum float64
	for _, v := range c.AllFormulas {
		sum += v
	}
	assert.Equal(t, Round(sum/4, 1), c.Estimated1RM)

	one := EstimateAll(225, 1, Lombardi)
	assert.Equal(t, 225.0, one.Estimated1RM)
	assert.NotEmpty(t, one.Note)
	assert.Nil(t, one.AllFormulas)
}
