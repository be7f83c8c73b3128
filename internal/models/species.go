// Package models defines the domain types for tankmate.
package models

import "math"

// PreyType is the kind of prey an animal counts as for predators.
type PreyType string

const (
	PreyFish       PreyType = "fish"
	PreyStarfish   PreyType = "starfish"
	PreyCrustacean PreyType = "crustacean"
	PreyStonyCoral PreyType = "stonyCoral"
	PreySoftCoral  PreyType = "softCoral"
	PreyClam       PreyType = "clam"
	PreyGorgonian  PreyType = "gorgonian"
	PreyAnemone    PreyType = "anemone"
	PreyBaby       PreyType = "baby"
)

// Valid returns true if the prey type is valid.
func (p PreyType) Valid() bool {
	switch p {
	case PreyFish, PreyStarfish, PreyCrustacean, PreyStonyCoral, PreySoftCoral,
		PreyClam, PreyGorgonian, PreyAnemone, PreyBaby:
		return true
	default:
		return false
	}
}

// Fighting marks a species as a bully or as bullied. Empty means neither.
type Fighting string

const (
	FightingNone  Fighting = ""
	FightingWimp  Fighting = "wimp"
	FightingBully Fighting = "bully"
)

// Valid returns true if the fighting behavior is valid.
func (f Fighting) Valid() bool {
	return f == FightingNone || f == FightingWimp || f == FightingBully
}

// Nibbling marks a species as a nibbler or as nibbled. Empty means neither.
type Nibbling string

const (
	NibblingNone       Nibbling = ""
	NibblingNibbleable Nibbling = "nibbleable"
	NibblingNibbler    Nibbling = "nibbler"
)

// Valid returns true if the nibbling behavior is valid.
func (n Nibbling) Valid() bool {
	return n == NibblingNone || n == NibblingNibbleable || n == NibblingNibbler
}

// Cohabitation restricts which animals may share a tank with a species.
type Cohabitation string

const (
	CohabitationNone              Cohabitation = ""
	CohabitationOnlyCongeners     Cohabitation = "only-congeners"
	CohabitationNoConspecifics    Cohabitation = "no-conspecifics"
	CohabitationNoCongeners       Cohabitation = "no-congeners"
	CohabitationNoFoodCompetitors Cohabitation = "no-food-competitors"
	CohabitationPairsOnly         Cohabitation = "pairs-only"
)

// Valid returns true if the cohabitation rule is valid.
func (c Cohabitation) Valid() bool {
	switch c {
	case CohabitationNone, CohabitationOnlyCongeners, CohabitationNoConspecifics,
		CohabitationNoCongeners, CohabitationNoFoodCompetitors, CohabitationPairsOnly:
		return true
	default:
		return false
	}
}

// DietKind distinguishes feeding behaviors.
type DietKind string

const (
	DietDoesNotEat DietKind = "none"
	DietFood       DietKind = "food"
	DietScavenger  DietKind = "scavenger"
)

// Diet describes what and how often a species eats.
// Food and Period are only meaningful for DietFood.
type Diet struct {
	Kind   DietKind `yaml:"kind"`
	Food   string   `yaml:"food,omitempty"`
	Period uint16   `yaml:"period,omitempty"`
}

// FoodDiet returns a diet eating food once every period days.
func FoodDiet(food string, period uint16) Diet {
	return Diet{Kind: DietFood, Food: food, Period: period}
}

// Eats returns the food id when the diet is a food diet.
func (d Diet) Eats() (string, bool) {
	if d.Kind != DietFood {
		return "", false
	}
	return d.Food, true
}

// Breeding describes whether an entry is an adult and what it breeds into.
type Breeding string

const (
	BreedingBreedable     Breeding = "breedable"
	BreedingCannotBreed   Breeding = "cannot-breed"
	BreedingNotFullyGrown Breeding = "not-fully-grown"
)

// Stage is a single growth stage.
type Stage struct {
	Size     uint16 `yaml:"size"`
	Duration uint16 `yaml:"duration"`
}

// Size is the growth model of a species.
type Size struct {
	Stages    []Stage `yaml:"stages,omitempty"`
	FinalSize uint16  `yaml:"final"`
	Armored   bool    `yaml:"armored,omitempty"`
	Immobile  bool    `yaml:"immobile,omitempty"`
}

// Habitat holds the water and tank requirements of a species.
type Habitat struct {
	MinimumQuality uint8       `yaml:"minimum_quality"`
	Temperature    Temperature `yaml:"temperature"`
	Salinity       Salinity    `yaml:"salinity,omitempty"`
	Interior       Interior    `yaml:"interior,omitempty"`
	ActiveSwimmer  bool        `yaml:"active_swimmer,omitempty"`
	Territorial    bool        `yaml:"territorial,omitempty"`
}

// Needs holds the decoration and light requirements of a species.
type Needs struct {
	Light            Need   `yaml:"light,omitempty"`
	Plants           Need   `yaml:"plants,omitempty"`
	Rocks            Need   `yaml:"rocks,omitempty"`
	Caves            Amount `yaml:"caves,omitempty"`
	Bogwood          Amount `yaml:"bogwood,omitempty"`
	FlatSurfaces     Amount `yaml:"flat_surfaces,omitempty"`
	VerticalSurfaces Amount `yaml:"vertical_surfaces,omitempty"`
	FluffyFoliage    Amount `yaml:"fluffy_foliage,omitempty"`
	OpenSpace        Amount `yaml:"open_space,omitempty"`
	Explorer         Amount `yaml:"explorer,omitempty"`
}

// Shoaling requires a minimum number of the same species in a tank.
// OneOK and TwoOK allow a lone animal or a pair instead.
type Shoaling struct {
	Count uint8 `yaml:"count"`
	OneOK bool  `yaml:"one_ok,omitempty"`
	TwoOK bool  `yaml:"two_ok,omitempty"`
}

// Species is a catalog entry. Entries are loaded once and shared by pointer;
// two animals are the same species when they point at the same entry.
type Species struct {
	ID           string       `yaml:"id"`
	Genus        string       `yaml:"genus"`
	PreyType     PreyType     `yaml:"prey_type"`
	Size         Size         `yaml:"size"`
	Habitat      Habitat      `yaml:"habitat"`
	Diet         Diet         `yaml:"diet"`
	Needs        Needs        `yaml:"needs,omitempty"`
	Greedy       bool         `yaml:"greedy,omitempty"`
	Shoaling     *Shoaling    `yaml:"shoaling,omitempty"`
	Fighting     Fighting     `yaml:"fighting,omitempty"`
	Nibbling     Nibbling     `yaml:"nibbling,omitempty"`
	Cohabitation Cohabitation `yaml:"cohabitation,omitempty"`
	Predation    []PreyType   `yaml:"predation,omitempty"`
	// Communal is the number of other species required. Zero means not communal.
	Communal uint8    `yaml:"communal,omitempty"`
	Breeding Breeding `yaml:"breeding,omitempty"`
	Baby     string   `yaml:"baby,omitempty"`
}

// IsBully reports whether the species bullies wimps.
func (s *Species) IsBully() bool {
	return s.Fighting == FightingBully
}

// IsNibbler reports whether the species nibbles nibbleable animals.
func (s *Species) IsNibbler() bool {
	return s.Nibbling == NibblingNibbler
}

// NeedsLight reports whether the species loves light.
func (s *Species) NeedsLight() bool {
	return s.Needs.Light.Kind == NeedLoves
}

// IsAdult reports whether the entry is a fully grown species rather than
// an egg or fry.
func (s *Species) IsAdult() bool {
	return s.Breeding != BreedingNotFullyGrown
}

// MinimumNeededTankSize is the smallest tank the species tolerates alone.
// Active swimmers need six times their final size.
func (s *Species) MinimumNeededTankSize() uint16 {
	if s.Size.Immobile {
		return 0
	}
	if s.Habitat.ActiveSwimmer {
		return clampSize(6 * uint32(s.Size.FinalSize))
	}
	return s.Size.FinalSize
}

// MaximumSize is the tank space a fully grown animal occupies.
func (s *Species) MaximumSize() uint16 {
	if s.Size.Immobile {
		return 0
	}
	return s.Size.FinalSize
}

// EarliestGrowthStage is the growth of a newly bought animal.
func (s *Species) EarliestGrowthStage() Growth {
	if len(s.Size.Stages) > 0 {
		return Growing(0, 0)
	}
	return GrowthFinal
}

// PredationSize is the largest prey the species eats: 40% of its final
// size, rounded down.
func (s *Species) PredationSize() uint16 {
	return uint16(uint32(s.Size.FinalSize) * 2 / 5)
}

// AmountFoodEaten is the average amount of food eaten per day.
func (s *Species) AmountFoodEaten() uint16 {
	if s.Diet.Kind != DietFood {
		return 0
	}

	size := uint32(s.MaximumSize())
	perFeed := size
	if s.Greedy {
		perFeed = (4 * size) / 3
	}

	period := uint32(s.Diet.Period)
	if period == 0 {
		period = 1
	}
	return clampSize(perFeed / period)
}

// clampSize narrows a widened size, saturating at the largest tank.
func clampSize(v uint32) uint16 {
	return uint16(min(v, math.MaxUint16))
}

// GrowthAt converts a stage index and days into that stage into a Growth.
// A stage equal to the number of stages means fully grown.
func (s *Species) GrowthAt(stage, days uint8) (Growth, error) {
	n := len(s.Size.Stages)
	switch {
	case int(stage) > n:
		return Growth{}, &GrowthError{Species: s.ID, Stage: stage, Stages: n}
	case int(stage) == n:
		return GrowthFinal, nil
	default:
		return Growing(stage, days), nil
	}
}
