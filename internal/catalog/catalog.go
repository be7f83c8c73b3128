// Package catalog loads the game's species, tank, fixture and food data
// and answers lookups against it.
package catalog

import (
	"strings"

	"github.com/tankmate/tankmate/internal/models"
)

// GameData is the loaded catalog. Entries are shared by pointer and never
// mutated after loading.
type GameData struct {
	Species  []*models.Species
	Tanks    []*models.TankModel
	Fixtures []*models.FixtureModel
	Food     []string
}

// TrySpeciesRef returns the species with exactly this id, or nil.
func (g *GameData) TrySpeciesRef(id string) *models.Species {
	for _, s := range g.Species {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// SpeciesRef returns the species with exactly this id.
func (g *GameData) SpeciesRef(id string) (*models.Species, error) {
	if s := g.TrySpeciesRef(id); s != nil {
		return s, nil
	}
	return nil, notFound("species", id)
}

// SpeciesSearch returns the adult species whose id contains every
// whitespace-separated part of query, in catalog order.
func (g *GameData) SpeciesSearch(query string) []*models.Species {
	parts := strings.Fields(query)

	var result []*models.Species
	for _, s := range g.Species {
		if s.IsAdult() && containsAll(s.ID, parts) {
			result = append(result, s)
		}
	}
	return result
}

// Lookup resolves a user-supplied species name. An exact id always wins;
// otherwise the search must match exactly one adult species.
func (g *GameData) Lookup(query string) (*models.Species, error) {
	if s := g.TrySpeciesRef(query); s != nil {
		return s, nil
	}

	matches := g.SpeciesSearch(query)
	switch len(matches) {
	case 0:
		return nil, notFound("species", query)
	case 1:
		return matches[0], nil
	}

	candidates := make([]string, len(matches))
	for i, s := range matches {
		candidates[i] = s.ID
	}
	return nil, &LookupError{Kind: Ambiguous, Entity: "species", Query: query, Candidates: candidates}
}

// TankRef returns the tank model with exactly this id.
func (g *GameData) TankRef(id string) (*models.TankModel, error) {
	for _, t := range g.Tanks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, notFound("tank", id)
}

// FixtureRef returns the fixture model with exactly this id.
func (g *GameData) FixtureRef(id string) (*models.FixtureModel, error) {
	for _, f := range g.Fixtures {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, notFound("fixture", id)
}

// MatchingSpecies returns every species, adult or not, whose id contains
// term.
func (g *GameData) MatchingSpecies(term string) []*models.Species {
	var result []*models.Species
	for _, s := range g.Species {
		if strings.Contains(s.ID, term) {
			result = append(result, s)
		}
	}
	return result
}

// MatchingTanks returns every tank model whose id contains term.
func (g *GameData) MatchingTanks(term string) []*models.TankModel {
	var result []*models.TankModel
	for _, t := range g.Tanks {
		if strings.Contains(t.ID, term) {
			result = append(result, t)
		}
	}
	return result
}

func containsAll(s string, parts []string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
