package catalog

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/tankmate/tankmate/internal/models"
)

func parseTankModel(o gjson.Result) (*models.TankModel, error) {
	id := o.Get("id")
	if id.Type != gjson.String {
		return nil, errors.New("no id")
	}

	readSize := func(key string) (models.Dimensions, error) {
		size := o.Get("multisize." + key)
		m, err := uintOr(size.Get("m"), 0, math.MaxUint16)
		if err != nil || !size.Get("m").Exists() {
			return models.Dimensions{}, fmt.Errorf("%s: bad width", key)
		}
		n, err := uintOr(size.Get("n"), 0, math.MaxUint16)
		if err != nil || !size.Get("n").Exists() {
			return models.Dimensions{}, fmt.Errorf("%s: bad height", key)
		}
		return models.Dimensions{uint16(m), uint16(n)}, nil
	}

	minSize, err := readSize("minSize")
	if err != nil {
		return nil, err
	}
	maxSize, err := readSize("baseSize")
	if err != nil {
		return nil, err
	}

	tank := o.Get("tank")
	density := tank.Get("volumePerTile")
	if density.Type != gjson.Number || density.Num < 0 {
		return nil, errors.New("no volumePerTile")
	}

	model := &models.TankModel{
		ID:            id.String(),
		MinSize:       minSize,
		MaxSize:       maxSize,
		DoubleDensity: uint16(math.Round(2 * density.Num)),
	}

	switch {
	case isTrue(tank, "isRounded"):
		model.Interior = models.InteriorRounded
	case isTrue(tank, "isKreisel"):
		model.Interior = models.InteriorKreisel
	}

	return model, nil
}

// parseFixtureModel reads scenery and lights. Other objects in the file
// are skipped.
func parseFixtureModel(o gjson.Result) (*models.FixtureModel, bool, error) {
	id := o.Get("id")
	if id.Type != gjson.String {
		return nil, false, errors.New("no id")
	}

	tags, err := stringArray(o.Get("tags"))
	if err != nil {
		return nil, false, fmt.Errorf("tags: %w", err)
	}
	if !contains(tags, "scenery") && !contains(tags, "light") {
		return nil, false, nil
	}

	f := &models.FixtureModel{ID: id.String()}
	stats := o.Get("aquascaping.stats")

	fields := []struct {
		stat string
		dst  *models.Amount
	}{
		{"isPlant", &f.Plants},
		{"isRock", &f.Rocks},
		{"isCave", &f.Caves},
		{"isBogwood", &f.Bogwood},
		{"isFlatSurface", &f.FlatSurfaces},
		{"isVerticalSurface", &f.VerticalSurfaces},
		{"isFluffyFoliage", &f.FluffyFoliage},
	}
	for _, field := range fields {
		v, err := statValue(stats, field.stat)
		if err != nil {
			return nil, false, err
		}
		*field.dst = v
	}

	return f, true, nil
}
