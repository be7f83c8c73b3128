package rules

import "github.com/tankmate/tankmate/internal/models"

// Violation is a constraint of Animal that the tank fails. Conflicting
// names one co-occupant responsible, when there is one.
type Violation struct {
	Animal      models.Animal
	Constraint  Constraint
	Conflicting *models.Animal
}

// FindViolations checks every constraint of every animal against env and
// the other animals. Identical animals each report their own violations.
func FindViolations(animals []models.AnimalRef, env models.Environment) []Violation {
	var result []Violation

	for i := range animals {
		for _, c := range Constraints(animals[i].Species) {
			if v, ok := CheckConstraint(animals, env, i, c); ok {
				result = append(result, v)
			}
		}
	}

	return result
}

// CheckConstraint evaluates constraint c of animals[self].
func CheckConstraint(animals []models.AnimalRef, env models.Environment, self int, c Constraint) (Violation, bool) {
	ck := checker{animals: animals, env: env, self: self, c: c}
	return ck.check()
}

type checker struct {
	animals []models.AnimalRef
	env     models.Environment
	self    int
	c       Constraint
}

// noConflict is returned by find when nothing matches.
const noConflict = -1

func (ck *checker) me() models.AnimalRef {
	return ck.animals[ck.self]
}

// find returns the index of the first animal matching pred.
func (ck *checker) find(pred func(i int, a models.AnimalRef) bool) int {
	for i, a := range ck.animals {
		if pred(i, a) {
			return i
		}
	}
	return noConflict
}

// count returns the number of animals of my species, me included.
func (ck *checker) count() int {
	n := 0
	for _, a := range ck.animals {
		if a.SameSpecies(ck.me()) {
			n++
		}
	}
	return n
}

func (ck *checker) violation(conflict int) Violation {
	v := Violation{Animal: ck.me().Animal(), Constraint: ck.c}
	if conflict != noConflict {
		other := ck.animals[conflict].Animal()
		v.Conflicting = &other
	}
	return v
}

// simple fails without a culprit.
func (ck *checker) simple(okay bool) (Violation, bool) {
	if okay {
		return Violation{}, false
	}
	return ck.violation(noConflict), true
}

// ifConflict fails only when a culprit exists.
func (ck *checker) ifConflict(conflict int) (Violation, bool) {
	if conflict == noConflict {
		return Violation{}, false
	}
	return ck.violation(conflict), true
}

// withConflict fails on okay alone and attaches a culprit when found.
func (ck *checker) withConflict(okay bool, conflict int) (Violation, bool) {
	if okay {
		return Violation{}, false
	}
	return ck.violation(conflict), true
}

func (ck *checker) check() (Violation, bool) {
	me := ck.me()
	c := ck.c

	switch c.Kind {
	case KindTemperature:
		return ck.withConflict(c.Temperature == ck.env.Temperature,
			ck.find(func(_ int, a models.AnimalRef) bool {
				return a.Species.Habitat.Temperature != c.Temperature
			}))

	case KindSalinity:
		return ck.withConflict(c.Salinity == ck.env.Salinity,
			ck.find(func(_ int, a models.AnimalRef) bool {
				s := a.Species.Habitat.Salinity
				return s != models.SalinityAny && s != c.Salinity
			}))

	case KindQuality:
		return ck.simple(c.Quality <= ck.env.Quality)

	case KindShoaler:
		n := ck.count()
		okay := n >= int(c.Shoaling.Count) ||
			(c.Shoaling.OneOK && n == 1) ||
			(c.Shoaling.TwoOK && n == 2)
		return ck.simple(okay)

	case KindNoBully:
		return ck.ifConflict(ck.find(func(_ int, a models.AnimalRef) bool {
			return a.Species.IsBully()
		}))

	case KindNoNibbler:
		return ck.ifConflict(ck.find(func(_ int, a models.AnimalRef) bool {
			return a.Species.IsNibbler()
		}))

	case KindLighting:
		return ck.checkLighting()

	case KindCohabitation:
		return ck.checkCohabitation()

	case KindInterior:
		return ck.simple(ck.env.Interior == c.Interior)

	case KindTankSize:
		return ck.simple(ck.env.Size >= c.Size)

	case KindTerritorial:
		return ck.simple(uint32(ck.env.Size) >= territorySize(ck.animals, me.Species))

	case KindPredator:
		return ck.ifConflict(ck.find(func(_ int, a models.AnimalRef) bool {
			return a.Species.PreyType == c.Prey && a.SizeForPredation() <= c.Size
		}))

	case KindCommunal:
		return ck.simple(distinctSpecies(ck.animals) > int(c.Communal))
	}

	return Violation{}, false
}

func (ck *checker) checkLighting() (Violation, bool) {
	light := ck.c.Light
	switch light.Kind {
	case models.NeedDislikes:
		lit, ok := ck.env.Light.Get()
		return ck.withConflict(ok && lit == 0,
			ck.find(func(_ int, a models.AnimalRef) bool {
				return a.Species.NeedsLight()
			}))
	case models.NeedLoves:
		lit, ok := ck.env.Light.Get()
		return ck.simple(ok && lit >= light.Amount)
	}
	return Violation{}, false
}

func (ck *checker) checkCohabitation() (Violation, bool) {
	me := ck.me()

	switch ck.c.Cohabitation {
	case models.CohabitationOnlyCongeners:
		return ck.ifConflict(ck.find(func(_ int, a models.AnimalRef) bool {
			return a.Species.Genus != me.Species.Genus
		}))

	case models.CohabitationNoCongeners:
		return ck.ifConflict(ck.find(func(i int, a models.AnimalRef) bool {
			return i != ck.self && a.Species.Genus == me.Species.Genus
		}))

	case models.CohabitationNoConspecifics:
		other := ck.find(func(i int, a models.AnimalRef) bool {
			return i != ck.self && a.SameSpecies(me)
		})
		return ck.simple(other == noConflict)

	case models.CohabitationPairsOnly:
		return ck.simple(ck.count()%2 == 0)

	case models.CohabitationNoFoodCompetitors:
		food, eats := me.Species.Diet.Eats()
		if !eats {
			return Violation{}, false
		}
		return ck.ifConflict(ck.find(func(_ int, a models.AnimalRef) bool {
			theirs, ok := a.Species.Diet.Eats()
			return ok && !a.SameSpecies(me) && theirs == food
		}))
	}

	return Violation{}, false
}

// distinctSpecies counts the species ids present.
func distinctSpecies(animals []models.AnimalRef) int {
	ids := make(map[string]struct{}, len(animals))
	for _, a := range animals {
		ids[a.Species.ID] = struct{}{}
	}
	return len(ids)
}
