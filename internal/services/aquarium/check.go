package aquarium

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/rules"
	"github.com/tankmate/tankmate/internal/util"
)

// ExhibitCheckResult is the outcome of checking one set of occupants.
type ExhibitCheckResult struct {
	Violations               []rules.Violation
	Food                     []models.FoodAmount
	MinimumViableEnvironment models.Environment
}

// IsOkay reports whether no constraint was violated.
func (r ExhibitCheckResult) IsOkay() bool {
	return len(r.Violations) == 0
}

// CheckQuery is a resolved request to check species counts. Counts carry
// the catalog ids the search terms resolved to.
type CheckQuery struct {
	Counts  []models.SpeciesCount
	Animals []models.AnimalRef
}

// ParseSpeciesCounts parses species=count arguments.
func ParseSpeciesCounts(args []string) ([]models.SpeciesCount, error) {
	counts := make([]models.SpeciesCount, 0, len(args))

	for _, arg := range args {
		species, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid species=count %q: no '=' found", arg)
		}
		species = strings.TrimSpace(species)
		if species == "" {
			return nil, fmt.Errorf("invalid species=count %q: species is empty", arg)
		}

		n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid species=count %q: %w", arg, err)
		}
		if n == 0 {
			return nil, fmt.Errorf("invalid species=count %q: count must be at least 1", arg)
		}

		counts = append(counts, models.SpeciesCount{Species: species, Count: uint16(n)})
	}

	return counts, nil
}

// CreateCheckQuery resolves each species search term and creates the
// animals it counts, numbered by ids. Animals start at their earliest
// growth stage unless assumeGrown is set.
func (s *Service) CreateCheckQuery(counts []models.SpeciesCount, assumeGrown bool, ids *util.Counter) (*CheckQuery, error) {
	query := &CheckQuery{Counts: make([]models.SpeciesCount, 0, len(counts))}

	for _, c := range counts {
		species, err := s.data.Lookup(c.Species)
		if err != nil {
			return nil, err
		}

		query.Counts = append(query.Counts, models.SpeciesCount{Species: species.ID, Count: c.Count})

		growth := species.EarliestGrowthStage()
		if assumeGrown {
			growth = models.GrowthFinal
		}
		for i := uint16(0); i < c.Count; i++ {
			query.Animals = append(query.Animals, models.AnimalRef{
				ID:      models.AnimalID(ids.Next()),
				Species: species,
				Growth:  growth,
			})
		}
	}

	return query, nil
}

// CheckForViableTank derives the minimum viable environment for animals
// and checks them against it. No animals is trivially okay.
func (s *Service) CheckForViableTank(animals []models.AnimalRef) ExhibitCheckResult {
	if len(animals) == 0 {
		return ExhibitCheckResult{}
	}

	env := rules.MinimumViableTank(animals)

	return ExhibitCheckResult{
		Violations:               rules.FindViolations(animals, env),
		Food:                     rules.MinimumRequiredFood(s.data.Food, animals),
		MinimumViableEnvironment: env,
	}
}

// Check resolves counts into a hypothetical tank, checks it and records
// the result.
func (s *Service) Check(ctx context.Context, counts []models.SpeciesCount) (*CheckQuery, ExhibitCheckResult, error) {
	query, err := s.CreateCheckQuery(counts, s.check.AssumeFullyGrown, util.NewCounter(0))
	if err != nil {
		return nil, ExhibitCheckResult{}, err
	}

	result := s.CheckForViableTank(query.Animals)
	s.recordReport(ctx, models.ReportKindCheck, CountsSubject(query.Counts), 1,
		[]exhibitViolations{{violations: result.Violations}})

	return query, result, nil
}

// CountsSubject renders counts the way they are given on the command line.
func CountsSubject(counts []models.SpeciesCount) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s=%d", c.Species, c.Count)
	}
	return strings.Join(parts, " ")
}
