package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/testutil"
)

func TestMinimumViableTank_PanicsWhenEmpty(t *testing.T) {
	assert.Panics(t, func() { MinimumViableTank(nil) })
}

func TestMinimumViableTank_Size(t *testing.T) {
	small := testutil.FixtureSpecies("small", testutil.WithSize(3, false))
	swimmer := testutil.FixtureSpecies("swimmer", testutil.WithSize(4, false), func(s *models.Species) {
		s.Habitat.ActiveSwimmer = true
	})
	coral := testutil.FixtureSpecies("coral", testutil.WithSize(9, false), func(s *models.Species) {
		s.Size.Immobile = true
	})
	terr := testutil.FixtureSpecies("terr", testutil.WithSize(10, false), func(s *models.Species) {
		s.Habitat.Territorial = true
	})
	terr2 := testutil.FixtureSpecies("terr2", testutil.WithSize(6, false), func(s *models.Species) {
		s.Habitat.Territorial = true
	})

	tests := []struct {
		name    string
		animals []models.AnimalRef
		want    uint16
	}{
		{"sum of bodies", append(testutil.Animals(small, 3, 1), testutil.Animal(4, small)), 12},
		{"active swimmer headroom", []models.AnimalRef{testutil.Animal(1, small), testutil.Animal(2, swimmer)}, 24},
		{"bodies exceed headroom", append(testutil.Animals(small, 9, 1), testutil.Animal(10, swimmer)), 31},
		{"immobile takes no space", []models.AnimalRef{testutil.Animal(1, coral), testutil.Animal(2, small)}, 3},
		{"territorial pair", testutil.Animals(terr, 2, 1), 40},
		{
			"territorial per species",
			append(testutil.Animals(terr, 2, 1), testutil.Animals(terr2, 4, 3)...),
			48,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := MinimumViableTank(tt.animals)
			assert.Equal(t, tt.want, env.Size)
		})
	}
}

func TestMinimumViableTank_Water(t *testing.T) {
	warm := testutil.FixtureSpecies("warm", func(s *models.Species) {
		s.Habitat.MinimumQuality = 60
	})
	cold := testutil.FixtureSpecies("cold", func(s *models.Species) {
		s.Habitat.Temperature = models.TemperatureCold
		s.Habitat.MinimumQuality = 80
		s.Habitat.Salinity = models.SalinityFresh
	})

	env := MinimumViableTank([]models.AnimalRef{testutil.Animal(1, warm), testutil.Animal(2, cold)})
	assert.Equal(t, models.TemperatureWarm, env.Temperature, "first animal picks temperature")
	assert.Equal(t, models.SalinityFresh, env.Salinity, "first concrete salinity wins")
	assert.Equal(t, uint8(80), env.Quality)

	env = MinimumViableTank([]models.AnimalRef{testutil.Animal(1, warm)})
	assert.Equal(t, models.SalinitySalty, env.Salinity, "salty by default")
	assert.Equal(t, models.InteriorNone, env.Interior)
}

func needs(id string, set func(*models.Needs)) *models.Species {
	return testutil.FixtureSpecies(id, func(s *models.Species) { set(&s.Needs) })
}

func TestMinimumViableTank_Light(t *testing.T) {
	dark := needs("dark", func(n *models.Needs) { n.Light = models.Dislikes() })
	dim := needs("dim", func(n *models.Needs) { n.Light = models.Loves(10) })
	bright := needs("bright", func(n *models.Needs) { n.Light = models.Loves(30) })
	plain := testutil.FixtureSpecies("plain")

	tests := []struct {
		name    string
		species []*models.Species
		want    models.Amount
	}{
		{"nobody cares", []*models.Species{plain}, models.Amount{}},
		{"max of loves", []*models.Species{bright, dim, plain}, models.Some(30)},
		{"dislike first", []*models.Species{dark, bright}, models.Some(0)},
		{"dislike last", []*models.Species{bright, dim, dark}, models.Some(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var animals []models.AnimalRef
			for i, s := range tt.species {
				animals = append(animals, testutil.Animal(models.AnimalID(i+1), s))
			}
			assert.Equal(t, tt.want, MinimumViableTank(animals).Light)
		})
	}
}

func TestMinimumViableTank_PlantsAndRocks(t *testing.T) {
	hates := needs("hates", func(n *models.Needs) {
		n.Plants = models.Dislikes()
		n.Rocks = models.Dislikes()
	})
	loves := needs("loves", func(n *models.Needs) {
		n.Plants = models.Loves(4)
		n.Rocks = models.Loves(2)
	})
	plain := testutil.FixtureSpecies("plain")

	env := MinimumViableTank([]models.AnimalRef{testutil.Animal(1, plain)})
	assert.Equal(t, models.Amount{}, env.Plants, "no preference leaves plants unset")
	assert.Equal(t, models.Amount{}, env.Rocks)

	env = MinimumViableTank([]models.AnimalRef{testutil.Animal(1, loves), testutil.Animal(2, loves), testutil.Animal(3, plain)})
	assert.Equal(t, models.Some(8), env.Plants, "loves are summed")
	assert.Equal(t, models.Some(4), env.Rocks)

	for _, order := range [][]*models.Species{{hates, loves}, {loves, hates}, {loves, hates, loves}} {
		var animals []models.AnimalRef
		for i, s := range order {
			animals = append(animals, testutil.Animal(models.AnimalID(i+1), s))
		}
		env := MinimumViableTank(animals)
		assert.Equal(t, models.Some(0), env.Plants, "dislike dominates in any order")
		assert.Equal(t, models.Some(0), env.Rocks)
	}
}

func TestMinimumViableTank_Decorations(t *testing.T) {
	a := needs("a", func(n *models.Needs) {
		n.Caves = models.Some(2)
		n.Bogwood = models.Some(1)
		n.FlatSurfaces = models.Some(3)
		n.OpenSpace = models.Some(40)
		n.Explorer = models.Some(2)
	})
	b := needs("b", func(n *models.Needs) {
		n.Caves = models.Some(1)
		n.VerticalSurfaces = models.Some(5)
		n.FluffyFoliage = models.Some(6)
		n.OpenSpace = models.Some(25)
		n.Explorer = models.Some(5)
	})
	c := testutil.FixtureSpecies("c", func(s *models.Species) { s.Habitat.Interior = models.InteriorRounded })
	d := testutil.FixtureSpecies("d", func(s *models.Species) { s.Habitat.Interior = models.InteriorKreisel })

	env := MinimumViableTank([]models.AnimalRef{
		testutil.Animal(1, a), testutil.Animal(2, b), testutil.Animal(3, b),
		testutil.Animal(4, c), testutil.Animal(5, d),
	})

	assert.Equal(t, models.Some(4), env.Caves)
	assert.Equal(t, models.Some(1), env.Bogwood)
	assert.Equal(t, models.Some(3), env.FlatSurfaces)
	assert.Equal(t, models.Some(10), env.VerticalSurfaces)
	assert.Equal(t, models.Some(12), env.FluffyFoliage)
	assert.Equal(t, models.Some(40), env.OpenSpace, "open space is a max")
	assert.Equal(t, models.Some(5), env.DifferentDecorations, "explorer is a max")
	assert.Equal(t, models.InteriorRounded, env.Interior, "first interior wins")
}

func TestMinimumRequiredFood(t *testing.T) {
	flakes := testutil.FixtureSpecies("flakes", testutil.WithSize(6, false), testutil.WithFood("flakes", 1))
	greedy := testutil.FixtureSpecies("greedy", testutil.WithSize(6, false), testutil.WithFood("flakes", 2), func(s *models.Species) {
		s.Greedy = true
	})
	shrimp := testutil.FixtureSpecies("shrimp", testutil.WithSize(3, false), testutil.WithFood("shrimp", 1))
	mystery := testutil.FixtureSpecies("mystery", testutil.WithFood("unknown", 1))
	scavenger := testutil.FixtureSpecies("scav", func(s *models.Species) { s.Diet.Kind = models.DietScavenger })

	animals := []models.AnimalRef{
		testutil.Animal(1, shrimp),
		testutil.Animal(2, flakes),
		testutil.Animal(3, greedy),
		testutil.Animal(4, mystery),
		testutil.Animal(5, scavenger),
	}

	got := MinimumRequiredFood([]string{"flakes", "pellets", "shrimp"}, animals)
	require.Len(t, got, 2)
	assert.Equal(t, []models.FoodAmount{
		{Food: "flakes", Count: 10},
		{Food: "shrimp", Count: 3},
	}, got)

	assert.Empty(t, MinimumRequiredFood(nil, animals))
}

func TestMinimumViableTank_SizeSaturates(t *testing.T) {
	big := testutil.FixtureSpecies("big", testutil.WithSize(100, false))
	assert.Equal(t, uint16(65535), MinimumViableTank(testutil.Animals(big, 1000, 1)).Size)

	terr := testutil.FixtureSpecies("terr", testutil.WithSize(100, false), func(s *models.Species) {
		s.Habitat.Territorial = true
	})
	assert.Equal(t, uint16(65535), MinimumViableTank(testutil.Animals(terr, 400, 1)).Size)

	// just below the bound nothing saturates
	assert.Equal(t, uint16(65500), MinimumViableTank(testutil.Animals(big, 655, 1)).Size)
}

func TestMinimumViableTank_NeedsSaturate(t *testing.T) {
	caves := needs("caves", func(n *models.Needs) { n.Caves = models.Some(40000) })
	plants := needs("plants", func(n *models.Needs) { n.Plants = models.Loves(40000) })

	env := MinimumViableTank(append(testutil.Animals(caves, 2, 1), testutil.Animals(plants, 2, 3)...))
	assert.Equal(t, models.Some(65535), env.Caves)
	assert.Equal(t, models.Some(65535), env.Plants)
}

func TestMinimumRequiredFood_Saturates(t *testing.T) {
	big := testutil.FixtureSpecies("big", testutil.WithSize(100, false), testutil.WithFood("flakes", 1))

	got := MinimumRequiredFood([]string{"flakes"}, testutil.Animals(big, 1000, 1))
	assert.Equal(t, []models.FoodAmount{{Food: "flakes", Count: 65535}}, got)
}
