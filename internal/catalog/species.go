package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tankmate/tankmate/internal/models"
)

// preyStats maps stat keys to prey types, in precedence order.
var preyStats = []struct {
	stat string
	prey models.PreyType
}{
	{"baby", models.PreyBaby},
	{"isFish", models.PreyFish},
	{"isStarfish", models.PreyStarfish},
	{"isCrustacean", models.PreyCrustacean},
	{"isStonyCoral", models.PreyStonyCoral},
	{"isSoftCoral", models.PreySoftCoral},
	{"isClam", models.PreyClam},
	{"isGorgonian", models.PreyGorgonian},
	{"isAnemone", models.PreyAnemone},
}

type choice[T any] struct {
	stat  string
	value T
}

var cohabitationStats = []choice[models.Cohabitation]{
	{"dislikesConspecifics", models.CohabitationNoConspecifics},
	{"dislikesCongeners", models.CohabitationNoCongeners},
	{"congenersOnly", models.CohabitationOnlyCongeners},
	{"dislikesFoodCompetitors", models.CohabitationNoFoodCompetitors},
	{"pairsOnly", models.CohabitationPairsOnly},
}

var fightingStats = []choice[models.Fighting]{
	{"wimp", models.FightingWimp},
	{"bully", models.FightingBully},
}

var nibblingStats = []choice[models.Nibbling]{
	{"nibbleable", models.NibblingNibbleable},
	{"nibbler", models.NibblingNibbler},
}

var errExclusive = errors.New("species has mutually exclusive properties")

// oneOf returns the value of the single present stat, or zero when none is.
func oneOf[T any](stats gjson.Result, choices []choice[T]) (T, error) {
	var result T
	found := false
	for _, c := range choices {
		if !has(stats, c.stat) {
			continue
		}
		if found {
			var zero T
			return zero, errExclusive
		}
		result = c.value
		found = true
	}
	return result, nil
}

func parseSpecies(o gjson.Result) (*models.Species, error) {
	id := o.Get("id")
	if id.Type != gjson.String {
		return nil, errors.New("no id")
	}
	animal := o.Get("animal")
	if !animal.IsObject() {
		return nil, errors.New("no animal")
	}
	stats := animal.Get("stats")
	if !stats.IsObject() {
		return nil, errors.New("no stats")
	}

	s := &models.Species{ID: id.String(), Greedy: has(stats, "greedy")}

	tags, err := stringArray(o.Get("tags"))
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	s.Genus = "unknown"
	if len(tags) >= 2 {
		s.Genus = tags[1]
	}

	if s.Size, err = parseSize(o, animal, stats); err != nil {
		return nil, err
	}
	if s.Habitat, err = parseHabitat(o, stats); err != nil {
		return nil, err
	}
	if s.Diet, err = parseDiet(stats); err != nil {
		return nil, err
	}
	if s.Needs, err = parseNeeds(stats); err != nil {
		return nil, err
	}
	if s.PreyType, err = parsePreyType(stats); err != nil {
		return nil, err
	}
	if s.Predation, err = parsePredation(stats); err != nil {
		return nil, err
	}
	if s.Shoaling, err = parseShoaling(stats); err != nil {
		return nil, err
	}
	if s.Cohabitation, err = oneOf(stats, cohabitationStats); err != nil {
		return nil, err
	}
	if s.Fighting, err = oneOf(stats, fightingStats); err != nil {
		return nil, err
	}
	if s.Nibbling, err = oneOf(stats, nibblingStats); err != nil {
		return nil, err
	}

	communal, err := statValue(stats, "communal")
	if err != nil {
		return nil, err
	}
	s.Communal = uint8(communal.Or(0))

	if err := parseBreeding(s, stats); err != nil {
		return nil, err
	}

	return s, nil
}

// parseSize converts cumulative stage growth times into per-stage
// durations. The last stage is the final size.
func parseSize(o, animal, stats gjson.Result) (models.Size, error) {
	raw := animal.Get("stages")
	if !raw.IsArray() || len(raw.Array()) == 0 {
		return models.Size{}, errors.New("no stages")
	}
	stages := raw.Array()

	size := models.Size{
		Armored:  has(stats, "armored"),
		Immobile: has(o, "immobile"),
	}

	var last uint64
	for i, st := range stages {
		sz, err := uintOr(st.Get("size"), 0, math.MaxUint16)
		if err != nil {
			return models.Size{}, fmt.Errorf("stage %d size: %w", i, err)
		}
		if i == len(stages)-1 {
			size.FinalSize = uint16(sz)
			break
		}

		t := st.Get("growthTime")
		if !t.Exists() {
			return models.Size{}, fmt.Errorf("stage %d: no growthTime", i)
		}
		total, err := uintOr(t, 0, math.MaxUint16)
		if err != nil {
			return models.Size{}, fmt.Errorf("stage %d growthTime: %w", i, err)
		}
		if total < last {
			return models.Size{}, fmt.Errorf("stage %d: growthTime %d before previous %d", i, total, last)
		}
		size.Stages = append(size.Stages, models.Stage{Size: uint16(sz), Duration: uint16(total - last)})
		last = total
	}

	return size, nil
}

func parseHabitat(o, stats gjson.Result) (models.Habitat, error) {
	var h models.Habitat

	switch {
	case has(stats, "isTropical"):
		h.Temperature = models.TemperatureWarm
	case has(stats, "isColdwater"):
		h.Temperature = models.TemperatureCold
	default:
		return h, errors.New("unknown temperature")
	}

	salinity := o.Get("salinity")
	switch {
	case !isTrue(salinity, "canGoInFreshwater"):
		h.Salinity = models.SalinitySalty
	case isTrue(salinity, "canGoInSaltwater"):
		h.Salinity = models.SalinityAny
	default:
		h.Salinity = models.SalinityFresh
	}

	quality, err := statValue(stats, "waterQuality")
	if err != nil {
		return h, err
	}
	h.MinimumQuality = uint8(quality.Or(0))

	h.ActiveSwimmer = has(stats, "activeSwimmer")
	h.Territorial = has(stats, "territorial")

	switch {
	case has(stats, "needsRounded"):
		h.Interior = models.InteriorRounded
	case has(stats, "needsKreisel"):
		h.Interior = models.InteriorKreisel
	}

	return h, nil
}

func parseDiet(stats gjson.Result) (models.Diet, error) {
	eats := stats.Get("eats")
	switch {
	case eats.Exists():
		item := eats.Get("item")
		if item.Type != gjson.String {
			return models.Diet{}, errors.New("eats: no item")
		}
		days, err := uintOr(eats.Get("daysBetweenFeed"), 0, math.MaxUint16-1)
		if err != nil {
			return models.Diet{}, fmt.Errorf("eats: %w", err)
		}
		return models.FoodDiet(item.String(), uint16(days+1)), nil
	case has(stats, "scavenger"):
		return models.Diet{Kind: models.DietScavenger}, nil
	default:
		return models.Diet{Kind: models.DietDoesNotEat}, nil
	}
}

func parseNeeds(stats gjson.Result) (models.Needs, error) {
	var n models.Needs

	amounts := []struct {
		stat string
		dst  *models.Amount
	}{
		{"likesCave", &n.Caves},
		{"likesBogwood", &n.Bogwood},
		{"likesFlatSurface", &n.FlatSurfaces},
		{"likesVerticalSurface", &n.VerticalSurfaces},
		{"likesFluffyFoliage", &n.FluffyFoliage},
		{"openSpace", &n.OpenSpace},
		{"explorer", &n.Explorer},
	}
	for _, a := range amounts {
		v, err := statValue(stats, a.stat)
		if err != nil {
			return n, err
		}
		*a.dst = v
	}

	loves := []struct {
		stat string
		dst  *models.Need
	}{
		{"likesPlants", &n.Plants},
		{"likesRocks", &n.Rocks},
		{"light", &n.Light},
	}
	for _, l := range loves {
		v, err := statValue(stats, l.stat)
		if err != nil {
			return n, err
		}
		if amount, ok := v.Get(); ok {
			*l.dst = models.Loves(amount)
		}
	}

	if has(stats, "dislikesLights") {
		n.Light = models.Dislikes()
	}

	return n, nil
}

func parsePreyType(stats gjson.Result) (models.PreyType, error) {
	for _, p := range preyStats {
		if has(stats, p.stat) {
			return p.prey, nil
		}
	}
	return "", errors.New("unknown prey type")
}

// parsePredation reads the "<prey>Eater" keys of the eater stat, in
// document order.
func parsePredation(stats gjson.Result) ([]models.PreyType, error) {
	eater := stats.Get("eater")
	if !eater.IsObject() {
		return nil, nil
	}

	var result []models.PreyType
	var err error
	eater.ForEach(func(key, _ gjson.Result) bool {
		name, ok := strings.CutSuffix(key.String(), "Eater")
		if !ok {
			err = fmt.Errorf("eater %q: no Eater suffix", key.String())
			return false
		}
		prey := models.PreyType(name)
		if !prey.Valid() {
			err = fmt.Errorf("unknown prey type %q", name)
			return false
		}
		result = append(result, prey)
		return true
	})

	return result, err
}

func parseShoaling(stats gjson.Result) (*models.Shoaling, error) {
	shoaler := stats.Get("shoaler")
	if !shoaler.Exists() {
		return nil, nil
	}
	req := shoaler.Get("req")
	if !req.Exists() {
		return nil, errors.New("shoaler: no req")
	}
	count, err := uintOr(req, 0, math.MaxUint8)
	if err != nil {
		return nil, fmt.Errorf("shoaler: %w", err)
	}
	return &models.Shoaling{
		Count: uint8(count),
		OneOK: isTrue(shoaler, "or1"),
		TwoOK: isTrue(shoaler, "or2"),
	}, nil
}

// parseBreeding marks eggs and fry as not fully grown and records what
// adults breed into.
func parseBreeding(s *models.Species, stats gjson.Result) error {
	if strings.HasSuffix(s.ID, ".egg") || strings.HasSuffix(s.ID, ".fry") {
		s.Breeding = models.BreedingNotFullyGrown
		return nil
	}

	breeder := stats.Get("breeder")
	if !breeder.Exists() {
		s.Breeding = models.BreedingCannotBreed
		return nil
	}
	if !breeder.IsObject() {
		return errors.New("breeder is not an object")
	}
	baby := breeder.Get("babySpec")
	if baby.Type != gjson.String {
		return errors.New("breeder: no babySpec")
	}

	s.Breeding = models.BreedingBreedable
	s.Baby = baby.String()
	return nil
}
