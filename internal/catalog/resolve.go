package catalog

import (
	"fmt"
	"log/slog"

	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/util"
)

// ResolveAquarium resolves a description against the catalog. Counted
// entries become that many new animals numbered by ids; ids already
// present in the description are reserved first so none is reused. New
// animals start at their earliest growth stage unless assumeGrown is set.
func (g *GameData) ResolveAquarium(desc models.AquariumDesc, ids *util.Counter, assumeGrown bool) (*models.AquariumRef, error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid aquarium: %w", err)
	}

	for _, e := range desc.Exhibits {
		for _, a := range e.Animals {
			if a.ID != 0 {
				ids.Reserve(uint64(a.ID))
			}
		}
	}

	aquarium := &models.AquariumRef{Exhibits: make([]models.ExhibitRef, 0, len(desc.Exhibits))}
	for _, e := range desc.Exhibits {
		exhibit, err := g.resolveExhibit(e, ids, assumeGrown)
		if err != nil {
			return nil, fmt.Errorf("exhibit %q: %w", e.Name, err)
		}
		aquarium.Exhibits = append(aquarium.Exhibits, exhibit)
	}

	return aquarium, nil
}

func (g *GameData) resolveExhibit(e models.ExhibitDesc, ids *util.Counter, assumeGrown bool) (models.ExhibitRef, error) {
	tank, err := g.ResolveTank(e.Tank)
	if err != nil {
		return models.ExhibitRef{}, err
	}

	animals, err := g.ResolveAnimals(e.Animals, ids, assumeGrown)
	if err != nil {
		return models.ExhibitRef{}, err
	}

	return models.ExhibitRef{Name: e.Name, Tank: tank, Animals: animals}, nil
}

// ResolveTank resolves a placed tank and its fixtures.
func (g *GameData) ResolveTank(t models.Tank) (models.TankRef, error) {
	model, err := g.TankRef(t.Model)
	if err != nil {
		return models.TankRef{}, err
	}
	if !model.Fits(t.Size) {
		slog.Warn("tank size outside model range", "tank", t.ID, "model", model.ID, "size", t.Size.String())
	}

	ref := models.TankRef{ID: t.ID, Model: model, Size: t.Size}
	for _, f := range t.Fixtures {
		fm, err := g.FixtureRef(f.Model)
		if err != nil {
			return models.TankRef{}, err
		}
		ref.Fixtures = append(ref.Fixtures, models.FixtureRef{ID: f.ID, Model: fm})
	}

	return ref, nil
}

// ResolveAnimals resolves animal descriptions by exact species id.
func (g *GameData) ResolveAnimals(descs []models.AnimalDesc, ids *util.Counter, assumeGrown bool) ([]models.AnimalRef, error) {
	var animals []models.AnimalRef

	for _, d := range descs {
		species, err := g.SpeciesRef(d.Species)
		if err != nil {
			return nil, err
		}

		if d.IsSummary() {
			growth := species.EarliestGrowthStage()
			if assumeGrown {
				growth = models.GrowthFinal
			}
			for i := uint16(0); i < d.Count; i++ {
				animals = append(animals, models.AnimalRef{
					ID:      models.AnimalID(ids.Next()),
					Species: species,
					Growth:  growth,
				})
			}
			continue
		}

		id := d.ID
		if id == 0 {
			id = models.AnimalID(ids.Next())
		}
		growth := models.GrowthFinal
		if d.Growth != nil && !assumeGrown {
			growth = *d.Growth
		}

		a, err := models.NewAnimalRef(id, species, growth)
		if err != nil {
			return nil, err
		}
		animals = append(animals, a)
	}

	return animals, nil
}
