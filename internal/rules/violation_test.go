package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/testutil"
)

// violationsOf returns the violations of the given kind.
func violationsOf(vs []Violation, kind Kind) []Violation {
	var out []Violation
	for _, v := range vs {
		if v.Constraint.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

func conflict(a models.AnimalRef) *models.Animal {
	animal := a.Animal()
	return &animal
}

func TestFindViolations_TemperatureConflict(t *testing.T) {
	warm := testutil.FixtureSpecies("warm")
	cold := testutil.FixtureSpecies("cold", func(s *models.Species) { s.Habitat.Temperature = models.TemperatureCold })
	a := testutil.Animal(1, warm)
	b := testutil.Animal(2, cold)
	animals := []models.AnimalRef{a, b}

	env := MinimumViableTank(animals)
	require.Equal(t, models.TemperatureWarm, env.Temperature)

	got := FindViolations(animals, env)
	want := []Violation{{
		Animal:      b.Animal(),
		Constraint:  Temperature(models.TemperatureCold),
		Conflicting: conflict(a),
	}}
	assert.Equal(t, want, got)
}

func TestFindViolations_Salinity(t *testing.T) {
	salty := testutil.FixtureSpecies("salty", func(s *models.Species) { s.Habitat.Salinity = models.SalinitySalty })
	either := testutil.FixtureSpecies("either")
	fresh := testutil.FixtureSpecies("fresh", func(s *models.Species) { s.Habitat.Salinity = models.SalinityFresh })

	animals := []models.AnimalRef{testutil.Animal(1, either), testutil.Animal(2, salty), testutil.Animal(3, fresh)}
	got := violationsOf(FindViolations(animals, MinimumViableTank(animals)), KindSalinity)

	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].Animal.Species)
	require.NotNil(t, got[0].Conflicting)
	assert.Equal(t, "salty", got[0].Conflicting.Species, "animals tolerating both are never the culprit")

	env := testutil.Environment(func(e *models.Environment) { e.Salinity = models.SalinityFresh })
	got = violationsOf(FindViolations([]models.AnimalRef{testutil.Animal(1, salty)}, env), KindSalinity)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Conflicting)
}

func TestFindViolations_Quality(t *testing.T) {
	picky := testutil.FixtureSpecies("picky", func(s *models.Species) { s.Habitat.MinimumQuality = 90 })
	animals := []models.AnimalRef{testutil.Animal(1, picky)}

	tests := []struct {
		quality uint8
		want    int
	}{
		{89, 1},
		{90, 0},
		{100, 0},
	}

	for _, tt := range tests {
		env := testutil.Environment(func(e *models.Environment) { e.Quality = tt.quality })
		got := violationsOf(FindViolations(animals, env), KindQuality)
		assert.Len(t, got, tt.want, "quality %d", tt.quality)
	}
}

func TestFindViolations_ShoalingThresholds(t *testing.T) {
	shoaler := testutil.FixtureSpecies("shoaler", func(s *models.Species) {
		s.Shoaling = &models.Shoaling{Count: 3, OneOK: true}
	})
	pairs := testutil.FixtureSpecies("pairs", func(s *models.Species) {
		s.Shoaling = &models.Shoaling{Count: 4, TwoOK: true}
	})

	tests := []struct {
		name    string
		species *models.Species
		count   int
		wantBad bool
	}{
		{"alone with one ok", shoaler, 1, false},
		{"pair without two ok", shoaler, 2, true},
		{"trio", shoaler, 3, false},
		{"larger shoal", shoaler, 6, false},
		{"alone without one ok", pairs, 1, true},
		{"pair with two ok", pairs, 2, false},
		{"three of four", pairs, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			animals := testutil.Animals(tt.species, tt.count, 1)
			got := violationsOf(FindViolations(animals, testutil.Environment()), KindShoaler)
			if tt.wantBad {
				assert.Len(t, got, tt.count, "every shoaler reports")
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFindViolations_ShoalingUsesIdentity(t *testing.T) {
	a := testutil.FixtureSpecies("twin", func(s *models.Species) { s.Shoaling = &models.Shoaling{Count: 2} })
	b := testutil.FixtureSpecies("twin", func(s *models.Species) { s.Shoaling = &models.Shoaling{Count: 2} })

	animals := []models.AnimalRef{testutil.Animal(1, a), testutil.Animal(2, b)}
	got := violationsOf(FindViolations(animals, testutil.Environment()), KindShoaler)
	assert.Len(t, got, 2, "distinct catalog entries do not shoal together")
}

func TestFindViolations_BullyAndNibbler(t *testing.T) {
	wimp := testutil.FixtureSpecies("wimp", func(s *models.Species) {
		s.Fighting = models.FightingWimp
		s.Nibbling = models.NibblingNibbleable
	})
	bully := testutil.FixtureSpecies("bully", func(s *models.Species) { s.Fighting = models.FightingBully })
	nibbler := testutil.FixtureSpecies("nibbler", func(s *models.Species) { s.Nibbling = models.NibblingNibbler })

	alone := FindViolations([]models.AnimalRef{testutil.Animal(1, wimp)}, testutil.Environment())
	assert.Empty(t, alone)

	w := testutil.Animal(1, wimp)
	b := testutil.Animal(2, bully)
	n := testutil.Animal(3, nibbler)
	got := FindViolations([]models.AnimalRef{w, b, n}, testutil.Environment())

	assert.Equal(t, []Violation{
		{Animal: w.Animal(), Constraint: NoBully(), Conflicting: conflict(b)},
		{Animal: w.Animal(), Constraint: NoNibbler(), Conflicting: conflict(n)},
	}, got)
}

func TestFindViolations_Lighting(t *testing.T) {
	dark := testutil.FixtureSpecies("dark", func(s *models.Species) { s.Needs.Light = models.Dislikes() })
	bright := testutil.FixtureSpecies("bright", func(s *models.Species) { s.Needs.Light = models.Loves(20) })

	lit := func(a models.Amount) models.Environment {
		return testutil.Environment(func(e *models.Environment) { e.Light = a })
	}

	t.Run("dislike satisfied by zero light", func(t *testing.T) {
		got := FindViolations([]models.AnimalRef{testutil.Animal(1, dark)}, lit(models.Some(0)))
		assert.Empty(t, got)
	})

	t.Run("dislike fails with no light value", func(t *testing.T) {
		got := FindViolations([]models.AnimalRef{testutil.Animal(1, dark)}, lit(models.Amount{}))
		require.Len(t, got, 1)
		assert.Nil(t, got[0].Conflicting)
	})

	t.Run("dark tank starves light lover", func(t *testing.T) {
		d := testutil.Animal(1, dark)
		b := testutil.Animal(2, bright)
		animals := []models.AnimalRef{d, b}
		env := MinimumViableTank(animals)
		require.Equal(t, models.Some(0), env.Light)

		got := violationsOf(FindViolations(animals, env), KindLighting)
		assert.Equal(t, []Violation{
			{Animal: b.Animal(), Constraint: Lighting(models.Loves(20))},
		}, got)
	})

	t.Run("lit tank conflicts with light lover", func(t *testing.T) {
		d := testutil.Animal(1, dark)
		b := testutil.Animal(2, bright)
		got := violationsOf(FindViolations([]models.AnimalRef{d, b}, lit(models.Some(20))), KindLighting)
		assert.Equal(t, []Violation{
			{Animal: d.Animal(), Constraint: Lighting(models.Dislikes()), Conflicting: conflict(b)},
		}, got)
	})

	t.Run("loves", func(t *testing.T) {
		animals := []models.AnimalRef{testutil.Animal(1, bright)}
		assert.Len(t, FindViolations(animals, lit(models.Amount{})), 1)
		assert.Len(t, FindViolations(animals, lit(models.Some(19))), 1)
		assert.Empty(t, FindViolations(animals, lit(models.Some(20))))
	})
}

func TestFindViolations_Cohabitation(t *testing.T) {
	cohab := func(id, genus string, c models.Cohabitation) *models.Species {
		return testutil.FixtureSpecies(id, testutil.WithGenus(genus), func(s *models.Species) { s.Cohabitation = c })
	}

	onlyCongeners := cohab("only", "tang", models.CohabitationOnlyCongeners)
	noCongeners := cohab("none", "wrasse", models.CohabitationNoCongeners)
	noConspecifics := cohab("solo", "goby", models.CohabitationNoConspecifics)
	pairs := cohab("pairs", "clown", models.CohabitationPairsOnly)
	tang := testutil.FixtureSpecies("tang2", testutil.WithGenus("tang"))
	wrasse := testutil.FixtureSpecies("wrasse2", testutil.WithGenus("wrasse"))
	goby := testutil.FixtureSpecies("goby2", testutil.WithGenus("goby"))

	tests := []struct {
		name         string
		animals      []models.AnimalRef
		wantCount    int
		wantConflict string
	}{
		{"only congeners with congener", []models.AnimalRef{testutil.Animal(1, onlyCongeners), testutil.Animal(2, tang)}, 0, ""},
		{"only congeners with stranger", []models.AnimalRef{testutil.Animal(1, onlyCongeners), testutil.Animal(2, goby)}, 1, "goby2"},
		{"no congeners alone", []models.AnimalRef{testutil.Animal(1, noCongeners)}, 0, ""},
		{"no congeners with congener", []models.AnimalRef{testutil.Animal(1, noCongeners), testutil.Animal(2, wrasse)}, 1, "wrasse2"},
		{"no congeners with same species", testutil.Animals(noCongeners, 2, 1), 2, "none"},
		{"no congeners with stranger", []models.AnimalRef{testutil.Animal(1, noCongeners), testutil.Animal(2, goby)}, 0, ""},
		{"no conspecifics alone", []models.AnimalRef{testutil.Animal(1, noConspecifics)}, 0, ""},
		{"no conspecifics with congener", []models.AnimalRef{testutil.Animal(1, noConspecifics), testutil.Animal(2, goby)}, 0, ""},
		{"no conspecifics twice", testutil.Animals(noConspecifics, 2, 1), 2, ""},
		{"pairs of two", testutil.Animals(pairs, 2, 1), 0, ""},
		{"pairs of three", testutil.Animals(pairs, 3, 1), 3, ""},
		{"pairs of four", testutil.Animals(pairs, 4, 1), 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := violationsOf(FindViolations(tt.animals, testutil.Environment()), KindCohabitation)
			require.Len(t, got, tt.wantCount)
			for _, v := range got {
				if tt.wantConflict == "" {
					assert.Nil(t, v.Conflicting)
					continue
				}
				require.NotNil(t, v.Conflicting)
				assert.Equal(t, tt.wantConflict, v.Conflicting.Species)
				assert.NotEqual(t, v.Animal.ID, v.Conflicting.ID, "never conflicts with itself")
			}
		})
	}
}

func TestFindViolations_NoFoodCompetitors(t *testing.T) {
	picky := testutil.FixtureSpecies("picky", testutil.WithFood("flakes", 1), func(s *models.Species) {
		s.Cohabitation = models.CohabitationNoFoodCompetitors
	})
	rival := testutil.FixtureSpecies("rival", testutil.WithFood("flakes", 2))
	other := testutil.FixtureSpecies("other", testutil.WithFood("pellets", 1))
	starving := testutil.FixtureSpecies("starving", func(s *models.Species) {
		s.Cohabitation = models.CohabitationNoFoodCompetitors
	})

	got := FindViolations(testutil.Animals(picky, 3, 1), testutil.Environment())
	assert.Empty(t, got, "own species is not a competitor")

	got = FindViolations([]models.AnimalRef{testutil.Animal(1, picky), testutil.Animal(2, other)}, testutil.Environment())
	assert.Empty(t, got)

	p := testutil.Animal(1, picky)
	r := testutil.Animal(2, rival)
	got = FindViolations([]models.AnimalRef{p, r}, testutil.Environment())
	assert.Equal(t, []Violation{
		{Animal: p.Animal(), Constraint: Cohabitation(models.CohabitationNoFoodCompetitors), Conflicting: conflict(r)},
	}, got)

	got = FindViolations([]models.AnimalRef{testutil.Animal(1, starving), testutil.Animal(2, rival)}, testutil.Environment())
	assert.Empty(t, got, "does not apply to animals without food")
}

func TestFindViolations_InteriorAndTankSize(t *testing.T) {
	round := testutil.FixtureSpecies("round", func(s *models.Species) { s.Habitat.Interior = models.InteriorRounded })
	swimmer := testutil.FixtureSpecies("swimmer", func(s *models.Species) { s.Habitat.ActiveSwimmer = true })

	animals := []models.AnimalRef{testutil.Animal(1, round), testutil.Animal(2, swimmer)}

	env := testutil.Environment(func(e *models.Environment) {
		e.Size = 29
		e.Interior = models.InteriorKreisel
	})
	got := FindViolations(animals, env)
	require.Len(t, got, 2)
	assert.Equal(t, Interior(models.InteriorRounded), got[0].Constraint)
	assert.Equal(t, TankSize(30), got[1].Constraint)

	env = MinimumViableTank(animals)
	assert.Empty(t, FindViolations(animals, env))
}

func TestFindViolations_TerritorialScaling(t *testing.T) {
	terr := testutil.FixtureSpecies("terr", testutil.WithSize(10, false), func(s *models.Species) {
		s.Habitat.Territorial = true
	})
	animals := testutil.Animals(terr, 2, 1)

	at := func(size uint16) []Violation {
		env := testutil.Environment(func(e *models.Environment) { e.Size = size })
		return violationsOf(FindViolations(animals, env), KindTerritorial)
	}

	assert.Empty(t, at(40))
	assert.Len(t, at(39), 2)
	assert.Equal(t, uint16(40), MinimumViableTank(animals).Size)
}

func TestFindViolations_PredatorBoundary(t *testing.T) {
	// final size 10 eats prey up to size 4
	shark := testutil.FixtureSpecies("shark", testutil.WithSize(10, false), func(s *models.Species) {
		s.Predation = []models.PreyType{models.PreyFish}
	})

	tests := []struct {
		name    string
		prey    *models.Species
		growth  models.Growth
		wantBad bool
	}{
		{"equal size is eaten", testutil.FixtureSpecies("four", testutil.WithSize(4, false)), models.GrowthFinal, true},
		{"one larger is safe", testutil.FixtureSpecies("five", testutil.WithSize(5, false)), models.GrowthFinal, false},
		{"armor doubles size", testutil.FixtureSpecies("armored", testutil.WithSize(3, true)), models.GrowthFinal, false},
		{"small armored still eaten", testutil.FixtureSpecies("tiny", testutil.WithSize(2, true)), models.GrowthFinal, true},
		{"other prey type", testutil.FixtureSpecies("crab", testutil.WithSize(1, false), testutil.WithPrey(models.PreyCrustacean)), models.GrowthFinal, false},
		{
			"young prey uses current size",
			testutil.FixtureSpecies("fry", testutil.WithSize(8, false), testutil.WithStages(models.Stage{Size: 4, Duration: 5})),
			models.Growing(0, 1),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prey := models.AnimalRef{ID: 2, Species: tt.prey, Growth: tt.growth}
			animals := []models.AnimalRef{testutil.Animal(1, shark), prey}
			got := violationsOf(FindViolations(animals, testutil.Environment()), KindPredator)
			if !tt.wantBad {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, []Violation{
				{Animal: animals[0].Animal(), Constraint: Predator(models.PreyFish, 4), Conflicting: conflict(prey)},
			}, got)
		})
	}
}

func TestFindViolations_CommunalStrictness(t *testing.T) {
	communal := testutil.FixtureSpecies("communal", func(s *models.Species) { s.Communal = 2 })
	b := testutil.FixtureSpecies("b")
	c := testutil.FixtureSpecies("c")

	two := []models.AnimalRef{testutil.Animal(1, communal), testutil.Animal(2, b), testutil.Animal(3, b)}
	got := violationsOf(FindViolations(two, testutil.Environment()), KindCommunal)
	assert.Len(t, got, 1, "2 distinct species is not more than 2")

	three := append(two, testutil.Animal(4, c))
	got = violationsOf(FindViolations(three, testutil.Environment()), KindCommunal)
	assert.Empty(t, got)
}

func TestFindViolations_FirstConflictOnly(t *testing.T) {
	wimp := testutil.FixtureSpecies("wimp", func(s *models.Species) { s.Fighting = models.FightingWimp })
	bully1 := testutil.FixtureSpecies("bully1", func(s *models.Species) { s.Fighting = models.FightingBully })
	bully2 := testutil.FixtureSpecies("bully2", func(s *models.Species) { s.Fighting = models.FightingBully })

	animals := []models.AnimalRef{testutil.Animal(1, wimp), testutil.Animal(2, bully2), testutil.Animal(3, bully1)}
	got := FindViolations(animals, testutil.Environment())
	require.Len(t, got, 1)
	assert.Equal(t, "bully2", got[0].Conflicting.Species)
}

func TestCheckConstraint_Pure(t *testing.T) {
	terr := testutil.FixtureSpecies("terr", func(s *models.Species) { s.Habitat.Territorial = true })
	animals := testutil.Animals(terr, 3, 1)
	env := testutil.Environment(func(e *models.Environment) { e.Size = 10 })

	first, ok1 := CheckConstraint(animals, env, 1, Territorial())
	second, ok2 := CheckConstraint(animals, env, 1, Territorial())
	assert.True(t, ok1)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
	assert.Equal(t, models.AnimalID(2), first.Animal.ID)
}

func TestFindViolations_TerritorialSaturation(t *testing.T) {
	terr := testutil.FixtureSpecies("terr", testutil.WithSize(100, false), func(s *models.Species) {
		s.Habitat.Territorial = true
	})
	animals := testutil.Animals(terr, 400, 1)

	for _, size := range []uint16{15000, 65535} {
		env := testutil.Environment(func(e *models.Environment) { e.Size = size })
		assert.Len(t, violationsOf(FindViolations(animals, env), KindTerritorial), 400, "size %d", size)
	}
}

// Two catalog entries with the same content are still different species.
func TestFindViolations_DistinctEntriesAreDistinctSpecies(t *testing.T) {
	twins := func(override func(*models.Species)) []models.AnimalRef {
		a := testutil.FixtureSpecies("twin", testutil.WithGenus("twin"), testutil.WithSize(10, false), override)
		b := testutil.FixtureSpecies("twin", testutil.WithGenus("twin"), testutil.WithSize(10, false), override)
		require.Equal(t, a, b)
		return []models.AnimalRef{testutil.Animal(1, a), testutil.Animal(2, b)}
	}
	cohabitation := func(c models.Cohabitation) func(*models.Species) {
		return func(s *models.Species) { s.Cohabitation = c }
	}

	tests := []struct {
		name    string
		animals []models.AnimalRef
		kind    Kind
		size    uint16
		want    int
	}{
		{"no conspecifics", twins(cohabitation(models.CohabitationNoConspecifics)), KindCohabitation, 100, 0},
		{"pairs only", twins(cohabitation(models.CohabitationPairsOnly)), KindCohabitation, 100, 2},
		{"no congeners still shares genus", twins(cohabitation(models.CohabitationNoCongeners)), KindCohabitation, 100, 2},
		{"territorial", twins(func(s *models.Species) { s.Habitat.Territorial = true }), KindTerritorial, 20, 0},
		{"shoaler", twins(func(s *models.Species) { s.Shoaling = &models.Shoaling{Count: 2} }), KindShoaler, 100, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.Environment(func(e *models.Environment) { e.Size = tt.size })
			assert.Len(t, violationsOf(FindViolations(tt.animals, env), tt.kind), tt.want)
		})
	}
}
