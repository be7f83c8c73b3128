package aquarium

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/rules"
)

// ExhibitValidation is the outcome of checking one exhibit of an
// aquarium. Loaded is what the real tank offers, Needed what the animals
// require.
type ExhibitValidation struct {
	Name       string
	TankVolume uint16
	Animals    int
	Loaded     models.Environment
	Needed     models.Environment
	Food       []models.FoodAmount
	Violations []rules.Violation
}

// IsOkay reports whether no constraint was violated.
func (e *ExhibitValidation) IsOkay() bool {
	return len(e.Violations) == 0
}

// Shortfall is a resource the tank offers less of than its animals need.
type Shortfall struct {
	Resource string
	Needed   uint16
	Loaded   uint16
}

// Shortfalls compares the loaded tank against the needed environment.
// Size is compared against the tank volume; decorations and light only
// when the animals need them.
func (e *ExhibitValidation) Shortfalls() []Shortfall {
	var result []Shortfall

	if e.Loaded.Size < e.Needed.Size {
		result = append(result, Shortfall{Resource: "size", Needed: e.Needed.Size, Loaded: e.Loaded.Size})
	}

	for _, r := range resources(e.Loaded, e.Needed) {
		needed, ok := r.needed.Get()
		if !ok {
			continue
		}
		if loaded := r.loaded.Or(0); loaded < needed {
			result = append(result, Shortfall{Resource: r.name, Needed: needed, Loaded: loaded})
		}
	}

	return result
}

type resource struct {
	name           string
	loaded, needed models.Amount
}

// resources lists the fixture-provided amounts of two environments.
func resources(loaded, needed models.Environment) []resource {
	return []resource{
		{"light", loaded.Light, needed.Light},
		{"plants", loaded.Plants, needed.Plants},
		{"rocks", loaded.Rocks, needed.Rocks},
		{"caves", loaded.Caves, needed.Caves},
		{"bogwood", loaded.Bogwood, needed.Bogwood},
		{"flat_surfaces", loaded.FlatSurfaces, needed.FlatSurfaces},
		{"vertical_surfaces", loaded.VerticalSurfaces, needed.VerticalSurfaces},
		{"fluffy_foliage", loaded.FluffyFoliage, needed.FluffyFoliage},
	}
}

// AquariumCheckResult is the outcome of validating every occupied exhibit,
// in aquarium order.
type AquariumCheckResult struct {
	Exhibits []*ExhibitValidation
}

// IsOkay reports whether every exhibit is okay.
func (r *AquariumCheckResult) IsOkay() bool {
	for _, e := range r.Exhibits {
		if !e.IsOkay() {
			return false
		}
	}
	return true
}

// ValidateAquarium checks every occupied exhibit. Exhibits are checked
// concurrently, at most MaxParallelExhibits at a time; empty exhibits are
// skipped.
func (s *Service) ValidateAquarium(ctx context.Context, aquarium *models.AquariumRef) (*AquariumCheckResult, error) {
	results := make([]*ExhibitValidation, len(aquarium.Exhibits))

	g, ctx := errgroup.WithContext(ctx)
	if s.check.MaxParallelExhibits > 0 {
		g.SetLimit(s.check.MaxParallelExhibits)
	}

	for i := range aquarium.Exhibits {
		exhibit := &aquarium.Exhibits[i]
		if len(exhibit.Animals) == 0 {
			slog.Debug("skipping empty exhibit", "exhibit", exhibit.Name)
			continue
		}

		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.validateExhibit(exhibit)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &AquariumCheckResult{}
	for _, r := range results {
		if r != nil {
			result.Exhibits = append(result.Exhibits, r)
		}
	}

	return result, nil
}

func (s *Service) validateExhibit(exhibit *models.ExhibitRef) *ExhibitValidation {
	check := s.CheckForViableTank(exhibit.Animals)

	return &ExhibitValidation{
		Name:       exhibit.Name,
		TankVolume: exhibit.Tank.Volume(),
		Animals:    len(exhibit.Animals),
		Loaded:     LoadedEnvironment(exhibit),
		Needed:     check.MinimumViableEnvironment,
		Food:       check.Food,
		Violations: check.Violations,
	}
}

// Validate validates an aquarium and records the result under subject.
func (s *Service) Validate(ctx context.Context, subject string, aquarium *models.AquariumRef) (*AquariumCheckResult, error) {
	result, err := s.ValidateAquarium(ctx, aquarium)
	if err != nil {
		return nil, err
	}

	found := make([]exhibitViolations, len(result.Exhibits))
	for i, e := range result.Exhibits {
		found[i] = exhibitViolations{exhibit: e.Name, violations: e.Violations}
	}
	s.recordReport(ctx, models.ReportKindValidate, subject, len(result.Exhibits), found)

	return result, nil
}

// LoadedEnvironment is what a placed tank offers: its volume, the
// interior of its model and the sum of what its fixtures provide.
// Temperature, salinity and quality are not known from the tank and are
// left zero.
func LoadedEnvironment(exhibit *models.ExhibitRef) models.Environment {
	env := models.Environment{
		Size:     exhibit.Tank.Volume(),
		Interior: exhibit.Tank.Model.Interior,
	}

	for _, f := range exhibit.Tank.Fixtures {
		m := f.Model
		env.Light = sum(env.Light, m.Light)
		env.Plants = sum(env.Plants, m.Plants)
		env.Rocks = sum(env.Rocks, m.Rocks)
		env.Caves = sum(env.Caves, m.Caves)
		env.Bogwood = sum(env.Bogwood, m.Bogwood)
		env.FlatSurfaces = sum(env.FlatSurfaces, m.FlatSurfaces)
		env.VerticalSurfaces = sum(env.VerticalSurfaces, m.VerticalSurfaces)
		env.FluffyFoliage = sum(env.FluffyFoliage, m.FluffyFoliage)
	}

	return env
}

func sum(total, a models.Amount) models.Amount {
	if !a.Valid {
		return total
	}
	return models.Some(total.V + a.V)
}

// EnvironmentForExhibit is the minimum viable environment of an occupied
// exhibit, corrected to the tank's real volume and interior since some
// animals may not be grown. It reports false for an empty exhibit.
func EnvironmentForExhibit(exhibit *models.ExhibitRef) (models.Environment, bool) {
	if len(exhibit.Animals) == 0 {
		return models.Environment{}, false
	}

	env := rules.MinimumViableTank(exhibit.Animals)
	env.Size = exhibit.Tank.Volume()
	env.Interior = exhibit.Tank.Model.Interior

	return env, true
}
