package rules

import (
	"math"

	"github.com/tankmate/tankmate/internal/models"
)

// MinimumViableTank estimates the smallest environment that could hold the
// animals. The estimate is optimistic: conflicts between the animals are
// left to FindViolations.
//
// It panics when animals is empty; callers skip empty exhibits.
func MinimumViableTank(animals []models.AnimalRef) models.Environment {
	if len(animals) == 0 {
		panic("rules: minimum viable tank needs at least one animal")
	}

	first := animals[0].Species

	env := models.Environment{
		Size:        tankSize(animals),
		Temperature: first.Habitat.Temperature,
		Salinity:    models.SalinitySalty,
		Quality:     first.Habitat.MinimumQuality,
		Interior:    models.InteriorNone,
	}

	for _, a := range animals {
		if a.Species.Habitat.Salinity != models.SalinityAny {
			env.Salinity = a.Species.Habitat.Salinity
			break
		}
	}

	for _, a := range animals {
		if a.Species.Habitat.Interior != models.InteriorNone {
			env.Interior = a.Species.Habitat.Interior
			break
		}
	}

	var (
		light, plants, rocks needTotal
		open, explorer       models.Amount
		caves, bogwood       models.Amount
		flat, vertical       models.Amount
		fluffy               models.Amount
	)

	for _, a := range animals {
		s := a.Species
		needs := s.Needs

		env.Quality = max(env.Quality, s.Habitat.MinimumQuality)

		light.raise(needs.Light)
		plants.add(needs.Plants)
		rocks.add(needs.Rocks)

		caves = addAmount(caves, needs.Caves)
		bogwood = addAmount(bogwood, needs.Bogwood)
		flat = addAmount(flat, needs.FlatSurfaces)
		vertical = addAmount(vertical, needs.VerticalSurfaces)
		fluffy = addAmount(fluffy, needs.FluffyFoliage)

		open = maxAmount(open, needs.OpenSpace)
		explorer = maxAmount(explorer, needs.Explorer)
	}

	env.Light = light.amount()
	env.Plants = plants.amount()
	env.Rocks = rocks.amount()
	env.Caves = caves
	env.Bogwood = bogwood
	env.FlatSurfaces = flat
	env.VerticalSurfaces = vertical
	env.FluffyFoliage = fluffy
	env.OpenSpace = open
	env.DifferentDecorations = explorer

	return env
}

// tankSize is the space the bodies take, raised to the largest single
// species minimum and then to twice the total size of each territorial
// species. Sizes beyond what a tank can hold saturate.
func tankSize(animals []models.AnimalRef) uint16 {
	var size, largest uint32
	for _, a := range animals {
		size += uint32(a.Species.MaximumSize())
		largest = max(largest, uint32(a.Species.MinimumNeededTankSize()))
	}
	size = max(size, largest)

	seen := make(map[*models.Species]bool)
	for _, a := range animals {
		if !a.Species.Habitat.Territorial || seen[a.Species] {
			continue
		}
		seen[a.Species] = true
		size = max(size, territorySize(animals, a.Species))
	}

	return saturate(size)
}

// territorySize is twice the total size of every animal of species.
func territorySize(animals []models.AnimalRef, species *models.Species) uint32 {
	var total uint32
	for _, a := range animals {
		if a.Species == species {
			total += uint32(a.Species.MaximumSize())
		}
	}
	return 2 * total
}

func saturate(v uint32) uint16 {
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}

// needTotal folds Need values. Any dislike pins the total to zero no
// matter where it appears.
type needTotal struct {
	set      bool
	disliked bool
	value    uint32
}

func (t *needTotal) add(n models.Need) {
	switch n.Kind {
	case models.NeedDislikes:
		t.set, t.disliked = true, true
	case models.NeedLoves:
		t.set = true
		t.value += uint32(n.Amount)
	}
}

func (t *needTotal) raise(n models.Need) {
	switch n.Kind {
	case models.NeedDislikes:
		t.set, t.disliked = true, true
	case models.NeedLoves:
		t.set = true
		t.value = max(t.value, uint32(n.Amount))
	}
}

func (t *needTotal) amount() models.Amount {
	switch {
	case !t.set:
		return models.Amount{}
	case t.disliked:
		return models.Some(0)
	default:
		return models.Some(saturate(t.value))
	}
}

func addAmount(total, a models.Amount) models.Amount {
	if !a.Valid {
		return total
	}
	return models.Some(saturate(uint32(total.V) + uint32(a.V)))
}

func maxAmount(best, a models.Amount) models.Amount {
	if !a.Valid {
		return best
	}
	if !best.Valid {
		return a
	}
	return models.Some(max(best.V, a.V))
}

// MinimumRequiredFood totals the average daily food of the animals for
// each food in foods, in that order. Foods nobody eats are left out.
func MinimumRequiredFood(foods []string, animals []models.AnimalRef) []models.FoodAmount {
	eaten := make(map[string]uint32)
	for _, a := range animals {
		if food, ok := a.Species.Diet.Eats(); ok {
			eaten[food] += uint32(a.Species.AmountFoodEaten())
		}
	}

	var result []models.FoodAmount
	for _, food := range foods {
		if count := eaten[food]; count > 0 {
			result = append(result, models.FoodAmount{Food: food, Count: saturate(count)})
		}
	}

	return result
}
