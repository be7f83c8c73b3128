package models

import "fmt"

// Dimensions is a tank footprint in tiles, width then height.
type Dimensions [2]uint16

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d[0], d[1])
}

// Tiles is the number of tiles covered.
func (d Dimensions) Tiles() uint32 {
	return uint32(d[0]) * uint32(d[1])
}

// TankModel is a kind of tank that can be built in a range of sizes.
// DoubleDensity is twice the volume per tile, kept integral.
type TankModel struct {
	ID            string     `yaml:"id"`
	MinSize       Dimensions `yaml:"min_size,flow"`
	MaxSize       Dimensions `yaml:"max_size,flow"`
	DoubleDensity uint16     `yaml:"double_density"`
	Interior      Interior   `yaml:"interior,omitempty"`
}

// Volume is the water volume of the model at the given size.
func (m *TankModel) Volume(size Dimensions) uint16 {
	return uint16(size.Tiles() * uint32(m.DoubleDensity) / 2)
}

// Fits reports whether the model can be built at the given size.
func (m *TankModel) Fits(size Dimensions) bool {
	return size[0] >= m.MinSize[0] && size[1] >= m.MinSize[1] &&
		size[0] <= m.MaxSize[0] && size[1] <= m.MaxSize[1]
}

// FixtureModel is a decoration or light with the resources it provides.
type FixtureModel struct {
	ID               string `yaml:"id"`
	Light            Amount `yaml:"light,omitempty"`
	Plants           Amount `yaml:"plants,omitempty"`
	Rocks            Amount `yaml:"rocks,omitempty"`
	Caves            Amount `yaml:"caves,omitempty"`
	Bogwood          Amount `yaml:"bogwood,omitempty"`
	FlatSurfaces     Amount `yaml:"flat_surfaces,omitempty"`
	VerticalSurfaces Amount `yaml:"vertical_surfaces,omitempty"`
	FluffyFoliage    Amount `yaml:"fluffy_foliage,omitempty"`
}

// Fixture is a placed fixture, identified by model id.
type Fixture struct {
	ID    uint64 `yaml:"id"`
	Model string `yaml:"model"`
}

// FixtureRef is a placed fixture resolved against the catalog.
type FixtureRef struct {
	ID    uint64
	Model *FixtureModel
}

// Tank is a placed tank, identified by model id.
type Tank struct {
	ID       uint64     `yaml:"id"`
	Model    string     `yaml:"model"`
	Size     Dimensions `yaml:"size,flow"`
	Fixtures []Fixture  `yaml:"fixtures,omitempty"`
}

// TankRef is a placed tank resolved against the catalog.
type TankRef struct {
	ID       uint64
	Model    *TankModel
	Size     Dimensions
	Fixtures []FixtureRef
}

// Volume is the water volume of the tank.
func (t TankRef) Volume() uint16 {
	return t.Model.Volume(t.Size)
}

// Tank returns the description of the tank.
func (t TankRef) Tank() Tank {
	tank := Tank{ID: t.ID, Model: t.Model.ID, Size: t.Size}
	for _, f := range t.Fixtures {
		tank.Fixtures = append(tank.Fixtures, Fixture{ID: f.ID, Model: f.Model.ID})
	}
	return tank
}
