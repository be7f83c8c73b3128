package models

import (
	"fmt"
	"strconv"
)

// Temperature is the water temperature of a tank.
type Temperature string

const (
	TemperatureWarm Temperature = "warm"
	TemperatureCold Temperature = "cold"
)

// Valid returns true if the temperature is valid.
func (t Temperature) Valid() bool {
	return t == TemperatureWarm || t == TemperatureCold
}

// Other returns the opposite temperature.
func (t Temperature) Other() Temperature {
	if t == TemperatureWarm {
		return TemperatureCold
	}
	return TemperatureWarm
}

// Salinity is the water type of a tank. On a species, empty means the
// species tolerates both.
type Salinity string

const (
	SalinityAny   Salinity = ""
	SalinitySalty Salinity = "salty"
	SalinityFresh Salinity = "fresh"
)

// Valid returns true if the salinity is a concrete water type.
func (s Salinity) Valid() bool {
	return s == SalinitySalty || s == SalinityFresh
}

// Other returns the opposite salinity.
func (s Salinity) Other() Salinity {
	if s == SalinityFresh {
		return SalinitySalty
	}
	return SalinityFresh
}

// Interior is a special tank shape. Empty means a regular tank.
type Interior string

const (
	InteriorNone    Interior = ""
	InteriorRounded Interior = "rounded"
	InteriorKreisel Interior = "kreisel"
)

// Valid returns true if the interior is valid.
func (i Interior) Valid() bool {
	return i == InteriorNone || i == InteriorRounded || i == InteriorKreisel
}

// String returns the display string for the interior.
func (i Interior) String() string {
	if i == InteriorNone {
		return "none"
	}
	return string(i)
}

// NeedKind is the state of a Need.
type NeedKind uint8

const (
	NeedUnset NeedKind = iota
	NeedDislikes
	NeedLoves
)

// Need is a decoration or light preference: unset, dislikes (the resource
// must be absent) or loves (at least Amount of it).
type Need struct {
	Kind   NeedKind
	Amount uint16
}

// Loves returns a need for at least n of a resource.
func Loves(n uint16) Need {
	return Need{Kind: NeedLoves, Amount: n}
}

// Dislikes returns a need for none of a resource.
func Dislikes() Need {
	return Need{Kind: NeedDislikes}
}

// IsZero reports whether the need is unset.
func (n Need) IsZero() bool {
	return n.Kind == NeedUnset
}

func (n Need) String() string {
	switch n.Kind {
	case NeedDislikes:
		return "dislikes"
	case NeedLoves:
		return "loves " + strconv.Itoa(int(n.Amount))
	default:
		return "unset"
	}
}

// MarshalYAML renders loves as its amount and dislikes as a word.
func (n Need) MarshalYAML() (interface{}, error) {
	switch n.Kind {
	case NeedDislikes:
		return "dislikes", nil
	case NeedLoves:
		return n.Amount, nil
	default:
		return nil, nil
	}
}

// Amount is an optional quantity. The zero value is "none", which is
// distinct from Some(0).
type Amount struct {
	V     uint16
	Valid bool
}

// Some returns an amount holding v.
func Some(v uint16) Amount {
	return Amount{V: v, Valid: true}
}

// Get returns the value and whether it is set.
func (a Amount) Get() (uint16, bool) {
	return a.V, a.Valid
}

// Or returns the value, or def when unset.
func (a Amount) Or(def uint16) uint16 {
	if !a.Valid {
		return def
	}
	return a.V
}

// Less orders amounts with none before every value.
func (a Amount) Less(b Amount) bool {
	if !a.Valid {
		return b.Valid
	}
	return b.Valid && a.V < b.V
}

// IsZero reports whether the amount is unset.
func (a Amount) IsZero() bool {
	return !a.Valid
}

func (a Amount) String() string {
	if !a.Valid {
		return "n/a"
	}
	return strconv.Itoa(int(a.V))
}

// MarshalYAML renders the bare value.
func (a Amount) MarshalYAML() (interface{}, error) {
	if !a.Valid {
		return nil, nil
	}
	return a.V, nil
}

// Environment is the state of a tank, either computed as the minimum an
// occupant set needs or read from a real tank.
type Environment struct {
	Size                 uint16      `yaml:"size"`
	Temperature          Temperature `yaml:"temperature"`
	Salinity             Salinity    `yaml:"salinity"`
	Quality              uint8       `yaml:"quality"`
	Light                Amount      `yaml:"light,omitempty"`
	Plants               Amount      `yaml:"plants,omitempty"`
	Rocks                Amount      `yaml:"rocks,omitempty"`
	Caves                Amount      `yaml:"caves,omitempty"`
	Bogwood              Amount      `yaml:"bogwood,omitempty"`
	FlatSurfaces         Amount      `yaml:"flat_surfaces,omitempty"`
	VerticalSurfaces     Amount      `yaml:"vertical_surfaces,omitempty"`
	FluffyFoliage        Amount      `yaml:"fluffy_foliage,omitempty"`
	OpenSpace            Amount      `yaml:"open_space,omitempty"`
	DifferentDecorations Amount      `yaml:"different_decorations,omitempty"`
	Interior             Interior    `yaml:"interior,omitempty"`
}

// FoodAmount is the average amount of one food needed per day.
type FoodAmount struct {
	Food  string `yaml:"food"`
	Count uint16 `yaml:"count"`
}

func (f FoodAmount) String() string {
	return fmt.Sprintf("%dx %s", f.Count, f.Food)
}
