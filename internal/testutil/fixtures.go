package testutil

import (
	"time"

	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/util"
)

var fixtureIDs = util.NewIDGenerator()

// FixtureSpecies creates a test species with sensible defaults: a warm,
// salty, size 5 fish of genus "fish" that does not eat.
func FixtureSpecies(id string, overrides ...func(*models.Species)) *models.Species {
	species := &models.Species{
		ID:       id,
		Genus:    "fish",
		PreyType: models.PreyFish,
		Size:     models.Size{FinalSize: 5},
		Habitat: models.Habitat{
			MinimumQuality: 55,
			Temperature:    models.TemperatureWarm,
		},
		Diet:     models.Diet{Kind: models.DietDoesNotEat},
		Breeding: models.BreedingCannotBreed,
	}

	for _, override := range overrides {
		override(species)
	}

	return species
}

// WithGenus sets the genus.
func WithGenus(genus string) func(*models.Species) {
	return func(s *models.Species) { s.Genus = genus }
}

// WithSize sets the final size and armor.
func WithSize(final uint16, armored bool) func(*models.Species) {
	return func(s *models.Species) {
		s.Size.FinalSize = final
		s.Size.Armored = armored
	}
}

// WithStages sets the growth stages.
func WithStages(stages ...models.Stage) func(*models.Species) {
	return func(s *models.Species) { s.Size.Stages = stages }
}

// WithFood sets a food diet eaten every period days.
func WithFood(food string, period uint16) func(*models.Species) {
	return func(s *models.Species) { s.Diet = models.FoodDiet(food, period) }
}

// WithPrey sets the prey type the species counts as.
func WithPrey(prey models.PreyType) func(*models.Species) {
	return func(s *models.Species) { s.PreyType = prey }
}

// Animal creates a fully grown occupant.
func Animal(id models.AnimalID, species *models.Species) models.AnimalRef {
	return models.AnimalRef{ID: id, Species: species, Growth: models.GrowthFinal}
}

// Animals creates n fully grown occupants of species with ids from first.
func Animals(species *models.Species, n int, first models.AnimalID) []models.AnimalRef {
	animals := make([]models.AnimalRef, n)
	for i := range animals {
		animals[i] = Animal(first+models.AnimalID(i), species)
	}
	return animals
}

// FixtureTankModel creates a test tank model: a 1x1 to 10x10 tank holding
// 2 volume per tile.
func FixtureTankModel(id string, overrides ...func(*models.TankModel)) *models.TankModel {
	model := &models.TankModel{
		ID:            id,
		MinSize:       models.Dimensions{1, 1},
		MaxSize:       models.Dimensions{10, 10},
		DoubleDensity: 4,
	}

	for _, override := range overrides {
		override(model)
	}

	return model
}

// Environment creates a permissive environment for the default fixture
// species.
func Environment(overrides ...func(*models.Environment)) models.Environment {
	env := models.Environment{
		Size:        100,
		Temperature: models.TemperatureWarm,
		Salinity:    models.SalinitySalty,
		Quality:     100,
	}

	for _, override := range overrides {
		override(&env)
	}

	return env
}

// FixtureReport creates a failed check report with one violation.
func FixtureReport(overrides ...func(*models.CheckReport)) *models.CheckReport {
	report := &models.CheckReport{
		ID:           fixtureIDs.NewID(),
		Kind:         models.ReportKindCheck,
		Subject:      "clownfish=3 grouper=1",
		ExhibitCount: 1,
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Violations: []models.ReportViolation{{
			AnimalID:    1,
			Species:     "clownfish",
			Constraint:  "predator",
			Conflicting: "grouper",
			Message:     "grouper will eat clownfish",
		}},
	}

	for _, override := range overrides {
		override(report)
	}

	return report
}
