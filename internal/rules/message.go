package rules

import (
	"fmt"

	"github.com/tankmate/tankmate/internal/models"
)

// String renders the violation as a sentence for reports.
func (v Violation) String() string {
	s := v.Animal.Species
	c := v.Constraint
	o := v.Conflicting

	switch c.Kind {
	case KindTemperature:
		if o == nil {
			return fmt.Sprintf("%s requires %s tank", s, c.Temperature)
		}
		return fmt.Sprintf("%s requires %s tank but %s requires %s", s, c.Temperature, o.Species, c.Temperature.Other())

	case KindSalinity:
		if o == nil {
			return fmt.Sprintf("%s requires %s tank", s, c.Salinity)
		}
		return fmt.Sprintf("%s requires %s tank but %s requires %s", s, c.Salinity, o.Species, c.Salinity.Other())

	case KindQuality:
		return fmt.Sprintf("%s requires at least quality %d", s, c.Quality)

	case KindShoaler:
		msg := fmt.Sprintf("%s is a shoaler and needs %d of its species", s, c.Shoaling.Count)
		if c.Shoaling.OneOK {
			msg += ", or 1"
		}
		if c.Shoaling.TwoOK {
			msg += ", or 2"
		}
		return msg

	case KindNoBully:
		return fmt.Sprintf("%s will bully %s", culprit(o), s)

	case KindNoNibbler:
		return fmt.Sprintf("%s will nibble %s", culprit(o), s)

	case KindLighting:
		if c.Light.Kind == models.NeedDislikes {
			if o == nil {
				return fmt.Sprintf("%s requires no light", s)
			}
			return fmt.Sprintf("%s requires no light but %s needs light", s, o.Species)
		}
		return fmt.Sprintf("%s requires at least %d light", s, c.Light.Amount)

	case KindCohabitation:
		return cohabitationMessage(v)

	case KindInterior:
		return fmt.Sprintf("%s requires a %s tank", s, c.Interior)

	case KindTankSize:
		return fmt.Sprintf("%s requires a tank of size at least %d", s, c.Size)

	case KindTerritorial:
		return fmt.Sprintf("%s is territorial, total size can only be 50%% of tank size", s)

	case KindPredator:
		if o != nil && !o.Growth.IsFinal() {
			return fmt.Sprintf("%s will eat %s (though may be fine if fully grown)", s, o.Species)
		}
		return fmt.Sprintf("%s will eat %s", s, culprit(o))

	case KindCommunal:
		return fmt.Sprintf("%s is communal and requires at least %d other species", s, c.Communal)
	}

	return fmt.Sprintf("%s violates %s", s, c)
}

func cohabitationMessage(v Violation) string {
	s := v.Animal.Species
	o := v.Conflicting

	switch v.Constraint.Cohabitation {
	case models.CohabitationOnlyCongeners:
		return fmt.Sprintf("%s requires congeners but there is %s", s, culprit(o))
	case models.CohabitationNoCongeners:
		if o != nil && o.Species == s {
			return fmt.Sprintf("%s cannot be with congeners but there are multiple %s", s, s)
		}
		return fmt.Sprintf("%s cannot be with congeners but there is %s", s, culprit(o))
	case models.CohabitationNoConspecifics:
		return fmt.Sprintf("%s cannot be with its own species but there are multiple", s)
	case models.CohabitationPairsOnly:
		return fmt.Sprintf("%s must only be a multiple of two", s)
	case models.CohabitationNoFoodCompetitors:
		return fmt.Sprintf("%s will compete for food with %s", s, culprit(o))
	}
	return fmt.Sprintf("%s violates %s", s, v.Constraint)
}

func culprit(o *models.Animal) string {
	if o == nil {
		return "another animal"
	}
	return o.Species
}
