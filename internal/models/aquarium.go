package models

import (
	"errors"
	"fmt"
)

// AnimalDesc describes animals in an exhibit. With a Count it is a summary
// of that many animals of Species; otherwise it is one individual.
type AnimalDesc struct {
	ID      AnimalID `yaml:"id,omitempty"`
	Species string   `yaml:"species"`
	Count   uint16   `yaml:"count,omitempty"`
	Growth  *Growth  `yaml:"growth,omitempty"`
}

// IsSummary reports whether the description counts several animals.
func (d AnimalDesc) IsSummary() bool {
	return d.Count > 0
}

// Validate checks that the description is one of the two forms.
func (d AnimalDesc) Validate() error {
	if d.Species == "" {
		return errors.New("species is required")
	}
	if d.IsSummary() && (d.ID != 0 || d.Growth != nil) {
		return fmt.Errorf("%s: a counted entry cannot carry an id or growth", d.Species)
	}
	return nil
}

// ExhibitDesc describes one tank and its animals.
type ExhibitDesc struct {
	Name    string       `yaml:"name"`
	Tank    Tank         `yaml:"tank"`
	Animals []AnimalDesc `yaml:"animals"`
}

// AquariumDesc is the document form of an aquarium.
type AquariumDesc struct {
	Exhibits []ExhibitDesc `yaml:"exhibits"`
}

// Validate checks every exhibit and animal description.
func (a *AquariumDesc) Validate() error {
	var errs []error

	for i, e := range a.Exhibits {
		if e.Name == "" {
			errs = append(errs, fmt.Errorf("exhibit %d: name is required", i+1))
		}
		if e.Tank.Model == "" {
			errs = append(errs, fmt.Errorf("exhibit %q: tank model is required", e.Name))
		}
		for _, d := range e.Animals {
			if err := d.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("exhibit %q: %w", e.Name, err))
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// ExhibitRef is a resolved exhibit.
type ExhibitRef struct {
	Name    string
	Tank    TankRef
	Animals []AnimalRef
}

// AquariumRef is a resolved aquarium.
type AquariumRef struct {
	Exhibits []ExhibitRef
}

// Describe converts the aquarium back into its document form. With
// summary set, animals are grouped into per-species counts and growth is
// dropped.
func (a *AquariumRef) Describe(summary bool) AquariumDesc {
	desc := AquariumDesc{Exhibits: make([]ExhibitDesc, 0, len(a.Exhibits))}

	for _, e := range a.Exhibits {
		animals := make([]Animal, len(e.Animals))
		for i, r := range e.Animals {
			animals[i] = r.Animal()
		}

		desc.Exhibits = append(desc.Exhibits, ExhibitDesc{
			Name:    e.Name,
			Tank:    e.Tank.Tank(),
			Animals: DescribeAnimals(animals, summary),
		})
	}

	return desc
}

// DescribeAnimals converts animals into descriptions.
func DescribeAnimals(animals []Animal, summary bool) []AnimalDesc {
	descs := make([]AnimalDesc, 0, len(animals))

	if summary {
		for _, c := range CountSpecies(animals) {
			descs = append(descs, AnimalDesc{Species: c.Species, Count: c.Count})
		}
		return descs
	}

	for _, a := range animals {
		growth := a.Growth
		descs = append(descs, AnimalDesc{ID: a.ID, Species: a.Species, Growth: &growth})
	}
	return descs
}

// Counts totals the animals described, per species, in order of first
// appearance.
func Counts(descs []AnimalDesc) []SpeciesCount {
	var counts []SpeciesCount
	index := make(map[string]int)

	for _, d := range descs {
		n := d.Count
		if !d.IsSummary() {
			n = 1
		}
		i, ok := index[d.Species]
		if !ok {
			i = len(counts)
			index[d.Species] = i
			counts = append(counts, SpeciesCount{Species: d.Species})
		}
		counts[i].Count += n
	}

	return counts
}
