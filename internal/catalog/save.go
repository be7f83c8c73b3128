package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/util"
)

// SaveExtension is the file extension of game saves.
const SaveExtension = ".sav"

// SavePath resolves a save name against the save directory. Names that
// already look like paths are returned unchanged.
func SavePath(saveDir, name string) string {
	if strings.ContainsRune(name, filepath.Separator) || strings.HasSuffix(name, SaveExtension) {
		return util.ExpandHome(name)
	}
	return filepath.Join(util.ExpandHome(saveDir), name+SaveExtension)
}

// ReadSave extracts the exhibits of a saved aquarium. Only objects in the
// game world count. Exhibits keep the order tanks appear in the save.
func ReadSave(data *GameData, path string) (*models.AquariumRef, error) {
	doc, err := readJSON(path)
	if err != nil {
		return nil, fmt.Errorf("reading save: %w", err)
	}
	list, err := objects(path, doc)
	if err != nil {
		return nil, err
	}

	r := saveReader{
		data:     data,
		path:     path,
		models:   byLongestID(data.Tanks),
		animals:  make(map[uint64][]models.AnimalRef),
		fixtures: make(map[uint64][]models.FixtureRef),
	}

	for _, o := range list {
		if err := r.read(o); err != nil {
			return nil, err
		}
	}

	aquarium := &models.AquariumRef{Exhibits: make([]models.ExhibitRef, 0, len(r.tanks))}
	for _, t := range r.tanks {
		t.tank.Fixtures = r.fixtures[t.tank.ID]
		aquarium.Exhibits = append(aquarium.Exhibits, models.ExhibitRef{
			Name:    t.name,
			Tank:    t.tank,
			Animals: r.animals[t.tank.ID],
		})
		delete(r.animals, t.tank.ID)
	}

	if len(r.animals) > 0 {
		slog.Debug("animals hosted outside any tank ignored", "hosts", len(r.animals))
	}
	slog.Debug("save loaded", "path", path, "exhibits", len(aquarium.Exhibits))

	return aquarium, nil
}

type namedTank struct {
	name string
	tank models.TankRef
}

type saveReader struct {
	data     *GameData
	path     string
	models   []*models.TankModel
	tanks    []namedTank
	animals  map[uint64][]models.AnimalRef
	fixtures map[uint64][]models.FixtureRef
}

func (r *saveReader) fail(o gjson.Result, err error) error {
	id := "unknown"
	if uid := o.Get("uid"); uid.Exists() {
		id = uid.Raw
	}
	return &DataError{File: r.path, ID: id, Err: err}
}

func (r *saveReader) read(o gjson.Result) error {
	if o.Get("inGameWorld").Type != gjson.True {
		return nil
	}

	switch {
	case has(o, "animal"):
		a, host, err := r.animal(o)
		if err != nil {
			return r.fail(o, err)
		}
		r.animals[host] = append(r.animals[host], a)

	case has(o, "tank"):
		t, err := r.tank(o)
		if err != nil {
			return r.fail(o, err)
		}
		r.tanks = append(r.tanks, t)

	default:
		// Decorations and lights placed in a tank.
		spec := o.Get("specId").String()
		host := o.Get("hosting.host")
		if spec == "" || !host.Exists() {
			return nil
		}
		model, err := r.data.FixtureRef(spec)
		if err != nil {
			return nil
		}
		uid, err := requiredUint(o, "uid")
		if err != nil {
			return r.fail(o, err)
		}
		hostID, err := requiredUint(o, "hosting.host")
		if err != nil {
			return r.fail(o, err)
		}
		r.fixtures[hostID] = append(r.fixtures[hostID], models.FixtureRef{ID: uid, Model: model})
	}

	return nil
}

func (r *saveReader) animal(o gjson.Result) (models.AnimalRef, uint64, error) {
	uid, err := requiredUint(o, "uid")
	if err != nil {
		return models.AnimalRef{}, 0, err
	}
	spec := o.Get("specId")
	if spec.Type != gjson.String {
		return models.AnimalRef{}, 0, errors.New("no specId")
	}
	species, err := r.data.SpeciesRef(spec.String())
	if err != nil {
		return models.AnimalRef{}, 0, err
	}

	stage, err := uintOr(o.Get("animal.stageNumber"), 0, math.MaxUint8)
	if err != nil {
		return models.AnimalRef{}, 0, fmt.Errorf("stageNumber: %w", err)
	}
	days, err := uintOr(o.Get("animal.growth"), 0, math.MaxUint8)
	if err != nil {
		return models.AnimalRef{}, 0, fmt.Errorf("growth: %w", err)
	}
	growth, err := species.GrowthAt(uint8(stage), uint8(days))
	if err != nil {
		return models.AnimalRef{}, 0, err
	}

	host, err := requiredUint(o, "hosting.host")
	if err != nil {
		return models.AnimalRef{}, 0, fmt.Errorf("no host for animal %d", uid)
	}

	return models.AnimalRef{ID: models.AnimalID(uid), Species: species, Growth: growth}, host, nil
}

// tank reads a placed tank. Its specId is the model id followed by the
// dimensions, as in "lagoon_tank_3_4".
func (r *saveReader) tank(o gjson.Result) (namedTank, error) {
	uid, err := requiredUint(o, "uid")
	if err != nil {
		return namedTank{}, err
	}
	spec := o.Get("specId")
	if spec.Type != gjson.String {
		return namedTank{}, errors.New("no specId")
	}
	name := o.Get("name")
	if name.Type != gjson.String {
		return namedTank{}, errors.New("no name")
	}

	model, size, err := splitTankSpec(r.models, spec.String())
	if err != nil {
		return namedTank{}, err
	}

	return namedTank{
		name: name.String(),
		tank: models.TankRef{ID: uid, Model: model, Size: size},
	}, nil
}

// splitTankSpec finds the longest model id prefixing spec and parses the
// dimensions after it. tanks must be ordered longest id first.
func splitTankSpec(tanks []*models.TankModel, spec string) (*models.TankModel, models.Dimensions, error) {
	for _, m := range tanks {
		if !strings.HasPrefix(spec, m.ID) {
			continue
		}

		rest, ok := strings.CutPrefix(spec[len(m.ID):], "_")
		if !ok {
			return nil, models.Dimensions{}, fmt.Errorf("tank %q: cannot extract dimensions", spec)
		}
		parts := strings.Split(rest, "_")
		if len(parts) != 2 {
			return nil, models.Dimensions{}, fmt.Errorf("tank %q: cannot extract dimensions", spec)
		}

		var size models.Dimensions
		for i, p := range parts {
			n, err := strconv.ParseUint(p, 10, 16)
			if err != nil {
				return nil, models.Dimensions{}, fmt.Errorf("tank %q: %w", spec, err)
			}
			size[i] = uint16(n)
		}
		return m, size, nil
	}

	return nil, models.Dimensions{}, fmt.Errorf("tank %q: no tank model", spec)
}

func byLongestID(tanks []*models.TankModel) []*models.TankModel {
	sorted := make([]*models.TankModel, len(tanks))
	copy(sorted, tanks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].ID) > len(sorted[j].ID)
	})
	return sorted
}

func requiredUint(o gjson.Result, key string) (uint64, error) {
	v := o.Get(key)
	if !v.Exists() {
		return 0, fmt.Errorf("no %s", key)
	}
	n, err := uintOr(v, 0, math.MaxUint64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
