package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tankmate/tankmate/internal/catalog"
	"github.com/tankmate/tankmate/internal/config"
	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/services/aquarium"
	"github.com/tankmate/tankmate/internal/testutil"
)

const testSubject = "aquarium.yaml"

// testAquarium returns a catalog and an aquarium with one healthy exhibit,
// "Reef", and one with a temperature conflict, "Chiller".
func testAquarium() (*catalog.GameData, *models.AquariumRef) {
	clown := testutil.FixtureSpecies("clownfish", testutil.WithFood("flakes", 1))
	goby := testutil.FixtureSpecies("cold_goby", func(s *models.Species) {
		s.Habitat.Temperature = models.TemperatureCold
	})
	tank := testutil.FixtureTankModel("basic_tank")

	data := &catalog.GameData{
		Species: []*models.Species{clown, goby},
		Tanks:   []*models.TankModel{tank},
		Food:    []string{"flakes"},
	}

	aq := &models.AquariumRef{Exhibits: []models.ExhibitRef{
		{
			Name:    "Reef",
			Tank:    models.TankRef{ID: 1, Model: tank, Size: models.Dimensions{4, 4}},
			Animals: testutil.Animals(clown, 3, 1),
		},
		{
			Name: "Chiller",
			Tank: models.TankRef{ID: 2, Model: tank, Size: models.Dimensions{4, 4}},
			Animals: []models.AnimalRef{
				testutil.Animal(4, clown),
				testutil.Animal(5, goby),
			},
		},
	}}

	return data, aq
}

// newTestService creates a service over the test catalog. With history
// set, reports go to a migrated in-memory database.
func newTestService(t *testing.T, withHistory bool) (*aquarium.Service, *config.Config, *models.AquariumRef) {
	t.Helper()

	cfg := config.Default()
	data, aq := testAquarium()

	if !withHistory {
		return aquarium.NewService(data, nil, cfg), cfg, aq
	}

	db := testutil.NewTestDB(t)

	return aquarium.NewService(data, db.DB, cfg), cfg, aq
}

// newTestApp creates an App with the window set to 120x40 and marked
// ready. The aquarium is validated and the history loaded before it is
// returned.
func newTestApp(t *testing.T, withHistory bool) *App {
	t.Helper()

	svc, cfg, aq := newTestService(t, withHistory)
	app := New(svc, cfg, testSubject, aq)

	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	runCmd(t, app, app.validate())

	return app
}

// runCmd runs cmd and feeds its message, and those of the commands it
// returns, back into the app.
func runCmd(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()

	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = app.Update(msg)
	}
}

// keyMsg creates a tea.KeyMsg for a regular character key.
func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// specialKeyMsg creates a tea.KeyMsg for a special key type.
func specialKeyMsg(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}

// press sends a key to the app and runs the command it returns.
func press(t *testing.T, app *App, msg tea.KeyMsg) {
	t.Helper()

	_, cmd := app.Update(msg)
	runCmd(t, app, cmd)
}
