package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/liftcast/internal/catalog"
	"github.com/claude/liftcast/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDefault_LookupByNameAliasAndID(t *testing.T) {
	c, err := catalog.Default(nil)
	require.NoError(t, err)
	assert.Greater(t, c.Len(), 40)

	bench, ok := c.Lookup("  BENCH ")
	require.True(t, ok)
	assert.Equal(t, "Barbell Bench Press", bench.Name)
	assert.Equal(t, models.Chest, bench.MuscleGroup)
	assert.Equal(t, catalog.Barbell, bench.Equipment)
	assert.True(t, bench.IsCompound)
	assert.Equal(t, catalog.IDFor("barbell bench press"), bench.ID)

	byID, ok := c.Lookup(bench.ID.String())
	require.True(t, ok)
	assert.Equal(t, bench.Name, byID.Name)

	_, ok = c.Lookup("underwater basket weaving")
	assert.False(t, ok)
}

func TestLoad_UserFileOverridesAndExtends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
exercises:
  - name: barbell bench press
    muscle_group: chest
    equipment: barbell
    compound: true
    aliases: [bp]
  - name: Zercher Squat
    muscle_group: legs
    equipment: barbell
    compound: true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	def, err := catalog.Default(nil)
	require.NoError(t, err)
	c, err := catalog.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, def.Len()+1, c.Len())

	bp, ok := c.Lookup("bp")
	require.True(t, ok)
	assert.Equal(t, "barbell bench press", bp.Name)
	_, ok = c.Lookup("flat bench")
	assert.False(t, ok, "overridden aliases are dropped")

	z, ok := c.Lookup("zercher squat")
	require.True(t, ok)
	assert.Equal(t, models.Legs, z.MuscleGroup)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := catalog.Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestParse_ReportsEveryProblem(t *testing.T) {
	doc := `
exercises:
  - name: ""
    muscle_group: chest
  - name: Mystery Lift
    muscle_group: toes
    equipment: spoon
  - name: Good Lift
    muscle_group: back
    aliases: [mystery lift]
  - name: Bad ID
    id: not-a-uuid
    muscle_group: core
`
	_, err := catalog.Parse([]byte(doc))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1, "id errors stop before validation")

	doc = doc[:len(doc)-len("  - name: Bad ID\n    id: not-a-uuid\n    muscle_group: core\n")]
	_, err = catalog.Parse([]byte(doc))
	require.Error(t, err)
	errs := multierr.Errors(err)
	assert.Len(t, errs, 4)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), `unknown muscle group "toes"`)
	assert.Contains(t, err.Error(), `unknown equipment "spoon"`)
	assert.Contains(t, err.Error(), `"mystery lift" is used by both Mystery Lift and Good Lift`)
}

func TestResolve(t *testing.T) {
	c, err := catalog.Default(nil)
	require.NoError(t, err)
	before := c.Len()

	known, added, err := c.Resolve("Hanging Leg Raises", "Bodyweight")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, "Hanging Leg Raise", known.Name)

	hack, added, err := c.Resolve("Hack  Squats", "Machine")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "Hack Squats", hack.Name)
	assert.Equal(t, models.Legs, hack.MuscleGroup)
	assert.Equal(t, catalog.Machine, hack.Equipment)
	assert.True(t, hack.IsCompound)
	assert.Equal(t, before+1, c.Len())

	again, added, err := c.Resolve("hack squats", "")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, hack.ID, again.ID)

	_, _, err = c.Resolve("   ", "")
	assert.ErrorIs(t, err, catalog.ErrEmptyName)
}

func TestGuessMuscleGroup(t *testing.T) {
	cases := map[string]models.MuscleGroup{
		"Pec Fly Machine":       models.Chest,
		"Chest Supported Row":   models.Chest,
		"Pendlay Row":           models.Back,
		"Arnold Shoulder Press": models.Shoulders,
		"Bulgarian Split Squat": models.Legs,
		"Spider Curl":           models.Arms,
		"Dead Bug Core Hold":    models.Core,
		"Farmer Walk":           models.Other,
	}
	for name, want := range cases {
		assert.Equal(t, want, catalog.GuessMuscleGroup(name), name)
	}
}

func TestGuessEquipmentAndCompound(t *testing.T) {
	assert.Equal(t, catalog.Barbell, catalog.GuessEquipment("Barbell Hip Thrust"))
	assert.Equal(t, catalog.Dumbbell, catalog.GuessEquipment("DB Row"))
	assert.Equal(t, catalog.Cable, catalog.GuessEquipment("Cable Lateral Raise"))
	assert.Equal(t, catalog.Machine, catalog.GuessEquipment("Hack Squat Machine"))
	assert.Equal(t, catalog.Bodyweight, catalog.GuessEquipment("Pull Up"))
	assert.Equal(t, catalog.OtherGear, catalog.GuessEquipment("Kettlebell Swing"))

	assert.True(t, catalog.GuessCompound("Incline Press"))
	assert.False(t, catalog.GuessCompound("Lateral Raise"))
}

func TestNormalizeEquipment(t *testing.T) {
	assert.Equal(t, catalog.Dumbbell, catalog.NormalizeEquipment("Dumbbells"))
	assert.Equal(t, catalog.Machine, catalog.NormalizeEquipment("Smith machine"))
	assert.Equal(t, catalog.Bodyweight, catalog.NormalizeEquipment("Bodyweight"))
	assert.Equal(t, catalog.Barbell, catalog.NormalizeEquipment("EZ Bar"))
	assert.Empty(t, catalog.NormalizeEquipment("Landmine"))
	assert.Empty(t, catalog.NormalizeEquipment(""))
}
