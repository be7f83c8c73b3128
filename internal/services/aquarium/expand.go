package aquarium

import (
	"context"
	"strconv"

	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/util"
)

// ResolveAquarium resolves a description, numbering counted animals from
// a fresh counter.
func (s *Service) ResolveAquarium(desc models.AquariumDesc) (*models.AquariumRef, error) {
	return s.data.ResolveAquarium(desc, util.NewCounter(0), s.check.AssumeFullyGrown)
}

// TryExpandTank checks an exhibit's occupants together with additions.
func (s *Service) TryExpandTank(exhibit *models.ExhibitRef, additions []models.AnimalRef) ExhibitCheckResult {
	animals := make([]models.AnimalRef, 0, len(exhibit.Animals)+len(additions))
	animals = append(animals, exhibit.Animals...)
	animals = append(animals, additions...)
	return s.CheckForViableTank(animals)
}

// ExhibitExpansion is the outcome of adding the new animals to one exhibit.
// Original is the exhibit's environment before the addition; it is nil
// for an exhibit that was empty.
type ExhibitExpansion struct {
	Name     string
	Result   ExhibitCheckResult
	Original *models.Environment
}

// Differences lists what the exhibit would need beyond what it has.
func (e *ExhibitExpansion) Differences() []Difference {
	if e.Original == nil {
		return nil
	}
	return Differences(*e.Original, e.Result.MinimumViableEnvironment)
}

// ExpansionResult is the outcome of trying to add animals to an aquarium.
// When the new animals cannot live together, Base carries their
// violations and no exhibit is tried.
type ExpansionResult struct {
	Query    *CheckQuery
	Base     ExhibitCheckResult
	Exhibits []ExhibitExpansion
}

// CanAddSomewhere reports whether some exhibit accepts the new animals.
func (r *ExpansionResult) CanAddSomewhere() bool {
	for _, e := range r.Exhibits {
		if e.Result.IsOkay() {
			return true
		}
	}
	return false
}

// Expand checks whether the animals counted can be added to each exhibit
// of the aquarium. The new animals are first checked on their own; they
// start at their earliest growth stage and are numbered after the
// aquarium's animals.
func (s *Service) Expand(ctx context.Context, subject string, aquarium *models.AquariumRef, counts []models.SpeciesCount) (*ExpansionResult, error) {
	ids := util.NewCounter(0)
	for _, e := range aquarium.Exhibits {
		for _, a := range e.Animals {
			ids.Reserve(uint64(a.ID))
		}
	}

	query, err := s.CreateCheckQuery(counts, false, ids)
	if err != nil {
		return nil, err
	}

	result := &ExpansionResult{Query: query, Base: s.CheckForViableTank(query.Animals)}
	if subject == "" {
		subject = CountsSubject(query.Counts)
	}

	if !result.Base.IsOkay() {
		s.recordReport(ctx, models.ReportKindExpand, subject, 0,
			[]exhibitViolations{{violations: result.Base.Violations}})
		return result, nil
	}

	var found []exhibitViolations
	for i := range aquarium.Exhibits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		exhibit := &aquarium.Exhibits[i]
		expansion := ExhibitExpansion{
			Name:   exhibit.Name,
			Result: s.TryExpandTank(exhibit, query.Animals),
		}
		if env, ok := EnvironmentForExhibit(exhibit); ok {
			expansion.Original = &env
		}

		result.Exhibits = append(result.Exhibits, expansion)
		found = append(found, exhibitViolations{exhibit: exhibit.Name, violations: expansion.Result.Violations})
	}

	// An expansion succeeds when any exhibit takes the animals, so only a
	// complete failure is recorded with violations.
	if result.CanAddSomewhere() {
		found = nil
	}
	s.recordReport(ctx, models.ReportKindExpand, subject, len(result.Exhibits), found)

	return result, nil
}

// Difference is an environment value that has to grow.
type Difference struct {
	Name string
	Old  string
	New  string
}

// Differences lists the values of the environment that are larger in
// updated than in original.
func Differences(original, updated models.Environment) []Difference {
	var result []Difference

	if original.Size < updated.Size {
		result = append(result, Difference{"size", itoa(original.Size), itoa(updated.Size)})
	}
	if original.Quality < updated.Quality {
		result = append(result, Difference{"quality", itoa(uint16(original.Quality)), itoa(uint16(updated.Quality))})
	}

	amounts := []struct {
		name     string
		old, new models.Amount
	}{
		{"plants", original.Plants, updated.Plants},
		{"rocks", original.Rocks, updated.Rocks},
		{"caves", original.Caves, updated.Caves},
		{"light", original.Light, updated.Light},
	}
	for _, a := range amounts {
		if a.old.Less(a.new) {
			result = append(result, Difference{a.name, a.old.String(), a.new.String()})
		}
	}

	return result
}

func itoa(v uint16) string {
	return strconv.Itoa(int(v))
}
