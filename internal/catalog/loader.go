package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/util"
)

// Game data files, relative to the data directory. Optional files belong
// to DLC and are skipped when missing.
var (
	TankFiles    = []string{"Data/tanks.data"}
	SpeciesFiles = []string{"Data/animals.data", "Data/corals.data"}
	FixtureFiles = []string{"Data/scenery.data"}
	FoodFiles    = []string{"Data/fishFood.data"}

	OptionalFoodFiles = []string{
		"DLC/Freshwater Frenzy/Data/ff fishFood.data",
		"DLC/Architect's Collection/Data/ac fishFood.data",
	}
)

// The game's data files are JSON with comments, trailing commas and
// multi-line strings. Cleanups run in order; trailing commas go after
// comments.
var cleanups = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`//.*?\n`), "\n"},
	{regexp.MustCompile(`(?s)/\*.*?\*/`), ""},
	{regexp.MustCompile(`,([\r\n \t]*\})`), "${1}"},
	{regexp.MustCompile(`,([\r\n \t]*\])`), "${1}"},
	{regexp.MustCompile(`(?s)"map":\s*".*?"`), `"map":""`},
}

var errNotJSON = errors.New("not valid JSON after cleanup")

// cleanJSON turns a game data file into strict JSON.
func cleanJSON(raw string) string {
	for _, c := range cleanups {
		raw = c.re.ReplaceAllString(raw, c.with)
	}
	return raw
}

// readJSON reads and parses a game data or save file.
func readJSON(path string) (gjson.Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return gjson.Result{}, err
	}

	text := cleanJSON(string(raw))
	if !gjson.Valid(text) {
		return gjson.Result{}, &DataError{File: path, Err: errNotJSON}
	}
	return gjson.Parse(text), nil
}

// objects returns the "objects" array of a data file.
func objects(path string, doc gjson.Result) ([]gjson.Result, error) {
	list := doc.Get("objects")
	if !list.IsArray() {
		return nil, &DataError{File: path, Err: errors.New("no objects array")}
	}
	return list.Array(), nil
}

// FindDataDir returns the first candidate that is an existing directory.
// A leading "~" expands to the home directory.
func FindDataDir(candidates []string) (string, error) {
	for _, c := range candidates {
		dir := util.ExpandHome(c)
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return dir, nil
		}
		slog.Debug("data directory candidate rejected", "path", dir)
	}
	return "", fmt.Errorf("cannot find game data directory; searched: %s", strings.Join(candidates, ", "))
}

// Load reads the whole catalog from a game data directory.
func Load(dir string) (*GameData, error) {
	species, err := loadEach(dir, SpeciesFiles, false, parseSpeciesFile)
	if err != nil {
		return nil, err
	}
	tanks, err := loadEach(dir, TankFiles, false, parseTankFile)
	if err != nil {
		return nil, err
	}
	fixtures, err := loadEach(dir, FixtureFiles, false, parseFixtureFile)
	if err != nil {
		return nil, err
	}
	food, err := loadEach(dir, FoodFiles, false, parseFoodFile)
	if err != nil {
		return nil, err
	}
	extra, err := loadEach(dir, OptionalFoodFiles, true, parseFoodFile)
	if err != nil {
		return nil, err
	}

	data := &GameData{
		Species:  species,
		Tanks:    tanks,
		Fixtures: fixtures,
		Food:     append(food, extra...),
	}

	slog.Debug("game data loaded",
		"dir", dir,
		"species", len(data.Species),
		"tanks", len(data.Tanks),
		"fixtures", len(data.Fixtures),
		"food", len(data.Food),
	)

	return data, nil
}

func loadEach[T any](dir string, files []string, optional bool, parse func(string, []gjson.Result) ([]T, error)) ([]T, error) {
	var result []T

	for _, name := range files {
		path := filepath.Join(dir, name)
		doc, err := readJSON(path)
		if optional && errors.Is(err, fs.ErrNotExist) {
			slog.Debug("optional game data file missing", "path", path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading game data: %w", err)
		}

		list, err := objects(path, doc)
		if err != nil {
			return nil, err
		}

		items, err := parse(path, list)
		if err != nil {
			return nil, err
		}
		result = append(result, items...)
	}

	return result, nil
}

func parseSpeciesFile(path string, list []gjson.Result) ([]*models.Species, error) {
	result := make([]*models.Species, 0, len(list))
	for _, o := range list {
		s, err := parseSpecies(o)
		if err != nil {
			return nil, &DataError{File: path, ID: idOf(o), Err: err}
		}
		result = append(result, s)
	}
	return result, nil
}

func parseTankFile(path string, list []gjson.Result) ([]*models.TankModel, error) {
	result := make([]*models.TankModel, 0, len(list))
	for _, o := range list {
		t, err := parseTankModel(o)
		if err != nil {
			return nil, &DataError{File: path, ID: idOf(o), Err: err}
		}
		result = append(result, t)
	}
	return result, nil
}

func parseFixtureFile(path string, list []gjson.Result) ([]*models.FixtureModel, error) {
	var result []*models.FixtureModel
	for _, o := range list {
		f, ok, err := parseFixtureModel(o)
		if err != nil {
			return nil, &DataError{File: path, ID: idOf(o), Err: err}
		}
		if ok {
			result = append(result, f)
		}
	}
	return result, nil
}

func parseFoodFile(path string, list []gjson.Result) ([]string, error) {
	var result []string
	for _, o := range list {
		id := o.Get("id")
		if id.Type != gjson.String {
			return nil, &DataError{File: path, Err: errors.New("food without id")}
		}
		tags, err := stringArray(o.Get("tags"))
		if err != nil {
			return nil, &DataError{File: path, ID: id.String(), Err: err}
		}
		if contains(tags, "animalFood") {
			result = append(result, id.String())
		}
	}
	return result, nil
}

func idOf(o gjson.Result) string {
	if id := o.Get("id"); id.Type == gjson.String {
		return id.String()
	}
	return "unknown"
}

// Value helpers. Absent keys read as their default; present keys of the
// wrong type are errors.

func has(obj gjson.Result, key string) bool {
	return obj.Get(key).Exists()
}

func isTrue(obj gjson.Result, key string) bool {
	return obj.Get(key).Type == gjson.True
}

func uintOr(r gjson.Result, def, limit uint64) (uint64, error) {
	if !r.Exists() || r.Type == gjson.Null {
		return def, nil
	}
	if r.Type != gjson.Number || r.Num < 0 || r.Num != math.Trunc(r.Num) {
		return 0, fmt.Errorf("expected unsigned integer, got %s", r.Raw)
	}
	if r.Uint() > limit {
		return 0, fmt.Errorf("%s out of range", r.Raw)
	}
	return r.Uint(), nil
}

// statValue reads the "value" of an optional stat object.
func statValue(stats gjson.Result, stat string) (models.Amount, error) {
	s := stats.Get(stat)
	if !s.Exists() {
		return models.Amount{}, nil
	}
	v := s.Get("value")
	if !v.Exists() {
		return models.Amount{}, fmt.Errorf("%s: missing value", stat)
	}
	n, err := uintOr(v, 0, math.MaxUint8)
	if err != nil {
		return models.Amount{}, fmt.Errorf("%s: %w", stat, err)
	}
	return models.Some(uint16(n)), nil
}

func stringArray(r gjson.Result) ([]string, error) {
	if !r.IsArray() {
		return nil, errors.New("expected array of strings")
	}
	var out []string
	for _, v := range r.Array() {
		if v.Type != gjson.String {
			return nil, errors.New("expected array of strings")
		}
		out = append(out, v.String())
	}
	return out, nil
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
