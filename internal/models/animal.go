package models

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// AnimalID identifies one animal within a check or a save.
type AnimalID uint64

// Growth is how far an animal has grown. The zero value is fully grown.
type Growth struct {
	Growing bool
	Stage   uint8
	Days    uint8
}

// GrowthFinal is a fully grown animal.
var GrowthFinal = Growth{}

// Growing returns the growth of an animal days into stage.
func Growing(stage, days uint8) Growth {
	return Growth{Growing: true, Stage: stage, Days: days}
}

// IsFinal reports whether the animal is fully grown.
func (g Growth) IsFinal() bool {
	return !g.Growing
}

func (g Growth) String() string {
	if !g.Growing {
		return "grown"
	}
	return fmt.Sprintf("stage %d day %d", g.Stage, g.Days)
}

type growthDoc struct {
	Stage uint8 `yaml:"stage"`
	Days  uint8 `yaml:"days"`
}

// MarshalYAML writes "grown" or a stage/days mapping.
func (g Growth) MarshalYAML() (interface{}, error) {
	if !g.Growing {
		return "grown", nil
	}
	return growthDoc{Stage: g.Stage, Days: g.Days}, nil
}

// UnmarshalYAML reads "grown" or a stage/days mapping.
func (g *Growth) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Value != "grown" {
			return fmt.Errorf("line %d: unknown growth %q", value.Line, value.Value)
		}
		*g = GrowthFinal
		return nil
	case yaml.MappingNode:
		var doc growthDoc
		if err := value.Decode(&doc); err != nil {
			return err
		}
		*g = Growing(doc.Stage, doc.Days)
		return nil
	default:
		return fmt.Errorf("line %d: growth must be \"grown\" or a mapping", value.Line)
	}
}

// GrowthError reports a growth stage the species does not have.
type GrowthError struct {
	Species string
	Stage   uint8
	Stages  int
}

func (e *GrowthError) Error() string {
	return fmt.Sprintf("%s: growth stage %d beyond %d stages", e.Species, e.Stage, e.Stages)
}

// Is matches ErrInvalidGrowth.
func (e *GrowthError) Is(target error) bool {
	return target == ErrInvalidGrowth
}

// ErrInvalidGrowth is matched by every GrowthError.
var ErrInvalidGrowth = errors.New("invalid growth stage")

// Animal is an owned snapshot of an occupant, identified by species id.
type Animal struct {
	ID      AnimalID `yaml:"id"`
	Species string   `yaml:"species"`
	Growth  Growth   `yaml:"growth"`
}

// AnimalRef is an occupant of a tank, pointing at its catalog species.
type AnimalRef struct {
	ID      AnimalID
	Species *Species
	Growth  Growth
}

// NewAnimalRef builds an occupant. Growth is read like a save's growth
// stage: the stage after the last one is fully grown, anything further
// is rejected.
func NewAnimalRef(id AnimalID, species *Species, growth Growth) (AnimalRef, error) {
	if growth.Growing {
		var err error
		if growth, err = species.GrowthAt(growth.Stage, growth.Days); err != nil {
			return AnimalRef{}, err
		}
	}
	return AnimalRef{ID: id, Species: species, Growth: growth}, nil
}

// Animal returns an owned snapshot of the occupant.
func (a AnimalRef) Animal() Animal {
	return Animal{ID: a.ID, Species: a.Species.ID, Growth: a.Growth}
}

// SameSpecies reports whether both occupants share a catalog entry.
func (a AnimalRef) SameSpecies(b AnimalRef) bool {
	return a.Species == b.Species
}

// Size is the current size of the animal.
func (a AnimalRef) Size() uint16 {
	if !a.Growth.Growing {
		return a.Species.Size.FinalSize
	}
	stages := a.Species.Size.Stages
	if int(a.Growth.Stage) >= len(stages) {
		return a.Species.Size.FinalSize
	}
	return stages[a.Growth.Stage].Size
}

// SizeForPredation is the size predators compare against. Armor counts
// double.
func (a AnimalRef) SizeForPredation() uint16 {
	size := a.Size()
	if a.Species.Size.Armored {
		return 2 * size
	}
	return size
}

// SpeciesCount is a number of animals of one species.
type SpeciesCount struct {
	Species string `yaml:"species"`
	Count   uint16 `yaml:"count"`
}

func (c SpeciesCount) String() string {
	return fmt.Sprintf("%dx %s", c.Count, c.Species)
}

// CountSpecies groups animals into per-species counts, in order of first
// appearance.
func CountSpecies(animals []Animal) []SpeciesCount {
	var counts []SpeciesCount
	index := make(map[string]int)

	for _, a := range animals {
		i, ok := index[a.Species]
		if !ok {
			i = len(counts)
			index[a.Species] = i
			counts = append(counts, SpeciesCount{Species: a.Species})
		}
		counts[i].Count++
	}

	return counts
}
