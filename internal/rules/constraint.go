// Package rules derives the constraints a species imposes on a tank,
// aggregates the minimum viable environment for a group of animals and
// checks every constraint against that environment and the other
// occupants.
package rules

import (
	"fmt"

	"github.com/tankmate/tankmate/internal/models"
)

// Kind identifies a constraint variant.
type Kind int

const (
	KindTemperature Kind = iota
	KindSalinity
	KindQuality
	KindShoaler
	KindNoBully
	KindNoNibbler
	KindLighting
	KindCohabitation
	KindInterior
	KindTankSize
	KindTerritorial
	KindPredator
	KindCommunal
)

var kindNames = [...]string{
	KindTemperature:  "temperature",
	KindSalinity:     "salinity",
	KindQuality:      "quality",
	KindShoaler:      "shoaler",
	KindNoBully:      "no-bully",
	KindNoNibbler:    "no-nibbler",
	KindLighting:     "lighting",
	KindCohabitation: "cohabitation",
	KindInterior:     "interior",
	KindTankSize:     "tank-size",
	KindTerritorial:  "territorial",
	KindPredator:     "predator",
	KindCommunal:     "communal",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Constraint is one atomic requirement a species imposes. Only the payload
// fields belonging to Kind are set, so constraints compare with ==.
type Constraint struct {
	Kind Kind

	Temperature  models.Temperature
	Salinity     models.Salinity
	Quality      uint8
	Shoaling     models.Shoaling
	Light        models.Need
	Cohabitation models.Cohabitation
	Interior     models.Interior
	// Size is the minimum tank size for KindTankSize and the largest prey
	// eaten for KindPredator.
	Size     uint16
	Prey     models.PreyType
	Communal uint8
}

// Temperature requires water of the given temperature.
func Temperature(t models.Temperature) Constraint {
	return Constraint{Kind: KindTemperature, Temperature: t}
}

// Salinity requires water of the given salinity.
func Salinity(s models.Salinity) Constraint {
	return Constraint{Kind: KindSalinity, Salinity: s}
}

// Quality requires at least the given water quality.
func Quality(minimum uint8) Constraint {
	return Constraint{Kind: KindQuality, Quality: minimum}
}

// Shoaler requires enough animals of the same species.
func Shoaler(s models.Shoaling) Constraint {
	return Constraint{Kind: KindShoaler, Shoaling: s}
}

// NoBully forbids bullies in the tank.
func NoBully() Constraint {
	return Constraint{Kind: KindNoBully}
}

// NoNibbler forbids nibblers in the tank.
func NoNibbler() Constraint {
	return Constraint{Kind: KindNoNibbler}
}

// Lighting requires the tank to be lit to the need, or to be dark.
func Lighting(n models.Need) Constraint {
	return Constraint{Kind: KindLighting, Light: n}
}

// Cohabitation restricts which other animals may share the tank.
func Cohabitation(c models.Cohabitation) Constraint {
	return Constraint{Kind: KindCohabitation, Cohabitation: c}
}

// Interior requires the given tank interior.
func Interior(i models.Interior) Constraint {
	return Constraint{Kind: KindInterior, Interior: i}
}

// TankSize requires a tank of at least minimum size.
func TankSize(minimum uint16) Constraint {
	return Constraint{Kind: KindTankSize, Size: minimum}
}

// Territorial requires twice the total size of the species in tank space.
func Territorial() Constraint {
	return Constraint{Kind: KindTerritorial}
}

// Predator eats prey of the given type up to and including size.
func Predator(prey models.PreyType, size uint16) Constraint {
	return Constraint{Kind: KindPredator, Prey: prey, Size: size}
}

// Communal requires more than others distinct species in the tank,
// counting the communal species itself.
func Communal(others uint8) Constraint {
	return Constraint{Kind: KindCommunal, Communal: others}
}

// String renders the constraint compactly, e.g. "predator(fish<=4)".
func (c Constraint) String() string {
	switch c.Kind {
	case KindTemperature:
		return fmt.Sprintf("temperature(%s)", c.Temperature)
	case KindSalinity:
		return fmt.Sprintf("salinity(%s)", c.Salinity)
	case KindQuality:
		return fmt.Sprintf("quality(%d)", c.Quality)
	case KindShoaler:
		return fmt.Sprintf("shoaler(%d)", c.Shoaling.Count)
	case KindLighting:
		return fmt.Sprintf("lighting(%s)", c.Light)
	case KindCohabitation:
		return fmt.Sprintf("cohabitation(%s)", c.Cohabitation)
	case KindInterior:
		return fmt.Sprintf("interior(%s)", c.Interior)
	case KindTankSize:
		return fmt.Sprintf("tank-size(%d)", c.Size)
	case KindPredator:
		return fmt.Sprintf("predator(%s<=%d)", c.Prey, c.Size)
	case KindCommunal:
		return fmt.Sprintf("communal(%d)", c.Communal)
	default:
		return c.Kind.String()
	}
}

// Constraints expands a species into the constraints it imposes, in a
// fixed order.
func Constraints(s *models.Species) []Constraint {
	result := []Constraint{
		Temperature(s.Habitat.Temperature),
		Quality(s.Habitat.MinimumQuality),
	}

	if s.Habitat.Salinity != models.SalinityAny {
		result = append(result, Salinity(s.Habitat.Salinity))
	}

	if s.Shoaling != nil {
		result = append(result, Shoaler(*s.Shoaling))
	}

	if s.Fighting == models.FightingWimp {
		result = append(result, NoBully())
	}

	if s.Nibbling == models.NibblingNibbleable {
		result = append(result, NoNibbler())
	}

	if !s.Needs.Light.IsZero() {
		result = append(result, Lighting(s.Needs.Light))
	}

	if s.Cohabitation != models.CohabitationNone {
		result = append(result, Cohabitation(s.Cohabitation))
	}

	if s.Habitat.ActiveSwimmer {
		result = append(result, TankSize(s.MinimumNeededTankSize()))
	}

	if s.Habitat.Territorial {
		result = append(result, Territorial())
	}

	if s.Habitat.Interior != models.InteriorNone {
		result = append(result, Interior(s.Habitat.Interior))
	}

	for _, prey := range s.Predation {
		result = append(result, Predator(prey, s.PredationSize()))
	}

	if s.Communal > 0 {
		result = append(result, Communal(s.Communal))
	}

	return result
}
