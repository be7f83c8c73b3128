package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tankmate/tankmate/internal/catalog"
)

var gameFiles = map[string]string{
	"Data/animals.data": `{
	"objects": [
		{
			"id": "1_clownfish",
			"tags": ["animal", "clownfish"],
			"animal": {
				"stages": [{"size": 2}],
				"stats": {
					"isFish": {},
					"isTropical": {},
					"waterQuality": {"value": 60},
					"eats": {"item": "flakes", "daysBetweenFeed": 1},
				},
			},
		},
		{
			"id": "2_cold_goby",
			"tags": ["animal", "goby"],
			"animal": {
				"stages": [{"size": 1}],
				"stats": {"isFish": {}, "isColdwater": {}}
			}
		}
	]
}`,
	"Data/corals.data":    `{"objects": []}`,
	"Data/tanks.data":     `{"objects": [{"id": "lagoon_tank", "multisize": {"minSize": {"m": 2, "n": 2}, "baseSize": {"m": 6, "n": 6}}, "tank": {"volumePerTile": 2}}]}`,
	"Data/scenery.data":   `{"objects": [{"id": "big_rock", "tags": ["scenery"], "aquascaping": {"stats": {"isRock": {"value": 3}}}}]}`,
	"Data/fishFood.data":  `{"objects": [{"id": "flakes", "tags": ["animalFood"]}]}`,
	"saves/park.sav":      `{"objects": [{"uid": 100, "specId": "lagoon_tank_4_4", "name": "Reef", "tank": {}, "inGameWorld": true}, {"uid": 1, "specId": "1_clownfish", "animal": {}, "hosting": {"host": 100}, "inGameWorld": true}]}`,
	"aquarium/mixed.yaml": mixedAquarium,
}

const reefAquarium = `exhibits:
  - name: Reef
    tank: {id: 1, model: lagoon_tank, size: [4, 4]}
    animals:
      - {species: 1_clownfish, count: 2}
`

const mixedAquarium = `exhibits:
  - name: Reef
    tank: {id: 1, model: lagoon_tank, size: [4, 4]}
    animals:
      - {species: 1_clownfish, count: 2}
  - name: Chiller
    tank: {id: 2, model: lagoon_tank, size: [4, 4]}
    animals:
      - {id: 5, species: 1_clownfish}
      - {id: 6, species: 2_cold_goby}
`

// setupGame writes game data and a configuration using it, and returns
// the configuration path and the directory holding everything.
func setupGame(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	for name, content := range gameFiles {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := fmt.Sprintf(`[game]
data_dirs = [%q]
save_dir = %q

[display]
color = "never"

[logging]
level = "error"

[database]
path = %q
`, dir, filepath.Join(dir, "saves"), filepath.Join(dir, "history.db"))

	cfgPath := filepath.Join(dir, "tankmate.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	return cfgPath, dir
}

// execute runs a command line against the test configuration.
func execute(t *testing.T, cfgPath, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	err := run(context.Background(), append([]string{"--config", cfgPath}, args...), strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &catalog.LookupError{Kind: catalog.NotFound, Entity: "species", Query: "shark"}, 2},
		{"ambiguous", fmt.Errorf("resolving: %w", &catalog.LookupError{Kind: catalog.Ambiguous, Entity: "species", Query: "fish"}), 2},
		{"usage", &usageError{err: errors.New("bad count")}, 2},
		{"other", errors.New("disk full"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestList(t *testing.T) {
	cfgPath, _ := setupGame(t)

	out, err := execute(t, cfgPath, "", "list", "animals")
	require.NoError(t, err)
	assert.Contains(t, out, "Animals:")
	assert.Contains(t, out, "- 1_clownfish")
	assert.Contains(t, out, "- 2_cold_goby")

	out, err = execute(t, cfgPath, "", "list", "food")
	require.NoError(t, err)
	assert.Contains(t, out, "- flakes")

	_, err = execute(t, cfgPath, "", "list", "staff")
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	cfgPath, _ := setupGame(t)

	out, err := execute(t, cfgPath, "", "lookup", "clown")
	require.NoError(t, err)
	assert.Contains(t, out, "id: 1_clownfish")

	out, err = execute(t, cfgPath, "", "lookup", "shark")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries found for search shark")
}

func TestCheck(t *testing.T) {
	cfgPath, _ := setupGame(t)

	out, err := execute(t, cfgPath, "", "check", "clownfish=3")
	require.NoError(t, err)
	assert.Contains(t, out, "- 3x 1_clownfish")
	assert.Contains(t, out, "The minimum viable tank is:")
	assert.Contains(t, out, "3x flakes")

	out, err = execute(t, cfgPath, "", "check", "clownfish=1", "goby=1")
	require.NoError(t, err)
	assert.Contains(t, out, "A valid tank is not possible:")
	assert.Contains(t, out, "requires cold tank")
}

func TestCheck_Errors(t *testing.T) {
	cfgPath, _ := setupGame(t)

	_, err := execute(t, cfgPath, "", "check", "shark=1")
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Equal(t, 2, exitCode(err))

	_, err = execute(t, cfgPath, "", "check", "clownfish=lots")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	_, err = execute(t, cfgPath, "", "check")
	assert.Error(t, err, "at least one count is required")
}

func TestValidate(t *testing.T) {
	cfgPath, dir := setupGame(t)

	out, err := execute(t, cfgPath, reefAquarium, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Checking 1 tanks...")
	assert.Contains(t, out, "Reef:")
	assert.Contains(t, out, "No problems!")

	out, err = execute(t, cfgPath, "", "validate", filepath.Join(dir, "aquarium", "mixed.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Chiller:")
	assert.Contains(t, out, "requires cold tank")
	assert.NotContains(t, out, "No problems!")

	_, err = execute(t, cfgPath, "exhibits: [", "validate")
	assert.Error(t, err)
}

func TestValidate_Save(t *testing.T) {
	cfgPath, _ := setupGame(t)

	out, err := execute(t, cfgPath, "", "validate", "--save", "park")
	require.NoError(t, err)
	assert.Contains(t, out, "Reef:")
	assert.Contains(t, out, "No problems!")
}

func TestExtract(t *testing.T) {
	cfgPath, _ := setupGame(t)

	out, err := execute(t, cfgPath, "", "extract", "park")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Reef")
	assert.Contains(t, out, "model: lagoon_tank")
	assert.Contains(t, out, "species: 1_clownfish")

	out, err = execute(t, cfgPath, "", "extract", "-s", "park")
	require.NoError(t, err)
	assert.Contains(t, out, "count: 1")
}

func TestExpand(t *testing.T) {
	cfgPath, dir := setupGame(t)
	mixed := filepath.Join(dir, "aquarium", "mixed.yaml")

	out, err := execute(t, cfgPath, "", "expand", "clownfish=1", "--aquarium", mixed)
	require.NoError(t, err)
	assert.Contains(t, out, "New fish will use 2 additional tank size")
	assert.Contains(t, out, "Can add to Reef")
	assert.NotContains(t, out, "Chiller")

	out, err = execute(t, cfgPath, "", "expand", "-a", "clownfish=1", "--aquarium", mixed)
	require.NoError(t, err)
	assert.Contains(t, out, "Cannot add to Chiller")

	out, err = execute(t, cfgPath, reefAquarium, "expand", "goby=1")
	require.NoError(t, err)
	assert.Contains(t, out, "Unable to add to current aquarium!")
}

func TestHistory(t *testing.T) {
	cfgPath, dir := setupGame(t)

	out, err := execute(t, cfgPath, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No reports recorded.")

	_, err = execute(t, cfgPath, "", "check", "clownfish=1", "goby=1")
	require.NoError(t, err)
	_, err = execute(t, cfgPath, reefAquarium, "validate")
	require.NoError(t, err)

	out, err = execute(t, cfgPath, "", "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "validate")
	assert.Contains(t, lines[0], "stdin")
	assert.Contains(t, lines[1], "check")
	assert.Contains(t, lines[1], "1_clownfish=1 2_cold_goby=1")
	assert.Contains(t, lines[2], "page 1 of 1, 2 reports")

	out, err = execute(t, cfgPath, "", "history", "--kind", "check")
	require.NoError(t, err)
	assert.NotContains(t, out, "validate")

	checkID := strings.Fields(lines[1])[0]
	out, err = execute(t, cfgPath, "", "history", "show", checkID)
	require.NoError(t, err)
	assert.Contains(t, out, "requires cold tank")

	_, err = execute(t, cfgPath, "", "history", "show", "not-an-id")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	_, err = execute(t, cfgPath, "", "history", "--kind", "audit")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	out, err = execute(t, cfgPath, "", "history", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "journal:  wal")
	assert.Contains(t, out, "schema:   1")
	assert.Contains(t, out, "reports:  2 (keeping 500)")

	backups := filepath.Join(dir, "backups")
	out, err = execute(t, cfgPath, "", "history", "backup", backups)
	require.NoError(t, err)
	assert.FileExists(t, strings.TrimSpace(out))
}

func TestConfig(t *testing.T) {
	cfgPath, _ := setupGame(t)

	out, err := execute(t, cfgPath, "", "config")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# "+cfgPath+"\n"), out)
	assert.Contains(t, out, "[database]")
	assert.Contains(t, out, "keep_reports = 500")
	assert.Contains(t, out, `color = "never"`)
}

func TestBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "tankmate.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[game]\ndata_dir = \"typo\"\n"), 0o644))

	_, err := execute(t, cfgPath, "", "list", "animals")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys")
}
