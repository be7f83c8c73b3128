// Package report prints check results, catalog entries and the report
// history as text.
package report

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/tankmate/tankmate/internal/config"
	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/rules"
	"github.com/tankmate/tankmate/internal/services/aquarium"
	"github.com/tankmate/tankmate/internal/util"
)

// Printer writes reports to an output.
type Printer struct {
	w      io.Writer
	styles *Styles
	debug  bool
}

// NewPrinter creates a printer styled by the display settings.
func NewPrinter(w io.Writer, display config.DisplayConfig) *Printer {
	r := NewRenderer(w, UseColor(w, display.Color))
	return &Printer{w: w, styles: NewStyles(r, PaletteFor(display.ColorScheme))}
}

// SetDebug makes the printer show raw structures instead of documents.
func (p *Printer) SetDebug(debug bool) {
	p.debug = debug
}

func (p *Printer) println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

func (p *Printer) printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *Printer) item(s string) {
	p.printf("- %s\n", s)
}

// dump writes v as a document, or as a raw structure in debug mode.
func (p *Printer) dump(v any) error {
	if p.debug {
		p.printf("%+v\n", v)
		return nil
	}
	return Dump(p.w, v)
}

// Messages renders violations as sorted, deduplicated sentences.
// Identical animals report identical violations, which read as one.
func Messages(violations []rules.Violation) []string {
	messages := make([]string, len(violations))
	for i, v := range violations {
		messages[i] = v.String()
	}
	slices.Sort(messages)
	return slices.Compact(messages)
}

// Violations prints one line per distinct violation.
func (p *Printer) Violations(violations []rules.Violation) {
	for _, m := range Messages(violations) {
		p.item(p.styles.Problem.Render(m))
	}
}

func (p *Printer) food(food []models.FoodAmount) {
	for _, f := range food {
		p.item(f.String())
	}
}

// CheckResult prints the result of checking a hypothetical tank.
func (p *Printer) CheckResult(query *aquarium.CheckQuery, result aquarium.ExhibitCheckResult) error {
	p.println(p.styles.Heading.Render("For contents:"))
	for _, c := range query.Counts {
		p.item(c.String())
	}

	if !result.IsOkay() {
		p.println()
		p.println(p.styles.Problem.Render("A valid tank is not possible:"))
		p.Violations(result.Violations)
		return nil
	}

	p.println()
	p.println(p.styles.Heading.Render("The minimum viable tank is:"))
	if err := p.dump(result.MinimumViableEnvironment); err != nil {
		return err
	}

	p.println()
	p.println(p.styles.Heading.Render("Will require food (average per day):"))
	p.food(result.Food)

	return nil
}

// EnvironmentDifferences prints what has to grow, as "old → new".
func (p *Printer) EnvironmentDifferences(diffs []aquarium.Difference) {
	for _, d := range diffs {
		p.item(fmt.Sprintf("%s: %s → %s", d.Name, d.Old, p.styles.Warning.Render(d.New)))
	}
}

// exhibitEnvironment prints size as needed/actual, being an upper bound,
// and everything else as actual/needed, being lower bounds.
func (p *Printer) exhibitEnvironment(e *aquarium.ExhibitValidation) {
	loaded, needed := e.Loaded, e.Needed

	size := fmt.Sprintf("%d/%d", needed.Size, loaded.Size)
	if needed.Size > loaded.Size {
		size = p.styles.Problem.Render(size)
	}
	p.item("size: " + size)
	p.item(fmt.Sprintf("quality: %d%%", needed.Quality))

	amounts := []struct {
		name           string
		loaded, needed models.Amount
	}{
		{"light", loaded.Light, needed.Light},
		{"plants", loaded.Plants, needed.Plants},
		{"rocks", loaded.Rocks, needed.Rocks},
		{"caves", loaded.Caves, needed.Caves},
		{"bogwood", loaded.Bogwood, needed.Bogwood},
		{"flat_surfaces", loaded.FlatSurfaces, needed.FlatSurfaces},
		{"vertical_surfaces", loaded.VerticalSurfaces, needed.VerticalSurfaces},
		{"fluffy_foliage", loaded.FluffyFoliage, needed.FluffyFoliage},
		{"different_decorations", loaded.DifferentDecorations, needed.DifferentDecorations},
	}
	for _, a := range amounts {
		if a.needed.Valid {
			p.item(fmt.Sprintf("%s: %s/%d", a.name, a.loaded, a.needed.V))
		}
	}

	if needed.Interior != models.InteriorNone {
		p.item(fmt.Sprintf("interior: %s/%s", loaded.Interior, needed.Interior))
	}
}

// AquariumResult prints the validation of every occupied exhibit.
func (p *Printer) AquariumResult(result *aquarium.AquariumCheckResult) error {
	p.printf("Checking %d tanks...\n", len(result.Exhibits))

	for _, e := range result.Exhibits {
		p.println(p.styles.Name.Render(e.Name + ":"))

		if p.debug {
			p.printf("loaded: %+v\n", e.Loaded)
			p.printf("needed: %+v\n", e.Needed)
		} else {
			p.exhibitEnvironment(e)
		}

		p.food(e.Food)
		p.Violations(e.Violations)
	}

	if result.IsOkay() {
		p.println(p.styles.Okay.Render("No problems!"))
	}

	return nil
}

// Expansion prints where the new animals can go. Exhibits that cannot
// take them are shown only with all set.
func (p *Printer) Expansion(result *aquarium.ExpansionResult, all bool) error {
	if !result.Base.IsOkay() {
		return p.CheckResult(result.Query, result.Base)
	}

	p.printf("New fish will use %d additional tank size\n", result.Base.MinimumViableEnvironment.Size)

	for i := range result.Exhibits {
		e := &result.Exhibits[i]
		okay := e.Result.IsOkay()
		if !all && !okay {
			continue
		}

		if okay {
			p.println(p.styles.Okay.Render("Can add to " + e.Name))
		} else {
			p.println(p.styles.Problem.Render("Cannot add to " + e.Name))
		}

		if e.Original != nil {
			p.Violations(e.Result.Violations)
			p.EnvironmentDifferences(e.Differences())
		}
	}

	if !result.CanAddSomewhere() {
		p.println(p.styles.Problem.Render("Unable to add to current aquarium!"))
	}

	return nil
}

// Lookup prints the species and tank models matching term.
func (p *Printer) Lookup(term string, species []*models.Species, tanks []*models.TankModel) error {
	if len(species) == 0 && len(tanks) == 0 {
		p.printf("No entries found for search %s\n", term)
		return nil
	}

	for _, s := range species {
		if err := p.dump(s); err != nil {
			return err
		}
	}
	for _, t := range tanks {
		if err := p.dump(t); err != nil {
			return err
		}
	}

	return nil
}

// List prints a titled list of ids.
func (p *Printer) List(title string, ids []string) {
	p.println(p.styles.Heading.Render(title + ":"))
	for _, id := range ids {
		p.item(id)
	}
}

// Aquarium prints an aquarium description.
func (p *Printer) Aquarium(desc models.AquariumDesc) error {
	return p.dump(desc)
}

// History prints a page of stored reports, one per line, newest first.
func (p *Printer) History(list *models.CheckReportList, now time.Time) {
	if len(list.Reports) == 0 {
		p.println(p.styles.Muted.Render("No reports recorded."))
		return
	}

	for _, r := range list.Reports {
		status := p.styles.Okay.Render("ok")
		if !r.Okay {
			status = p.styles.Problem.Render(fmt.Sprintf("%d problems", ProblemCount(r.Violations)))
		}
		p.printf("%s  %-8s  %-9s  %s  %s\n",
			r.ID, r.Kind, util.Ago(r.CreatedAt, now), status, p.styles.Value.Render(r.Subject))
	}

	p.println(p.styles.Muted.Render(fmt.Sprintf("page %d of %d, %d reports", list.Page, list.TotalPages, list.Total)))
}

// Report prints one stored report with its violations.
func (p *Printer) Report(r *models.CheckReport) {
	p.printf("%s %s\n", p.styles.Heading.Render(string(r.Kind)), p.styles.Value.Render(r.Subject))
	p.printf("recorded %s, %d exhibits\n", util.FormatTimestamp(r.CreatedAt), r.ExhibitCount)

	if r.Okay {
		p.println(p.styles.Okay.Render("No problems!"))
		return
	}

	exhibit := ""
	seen := make(map[string]bool)
	for i, v := range r.Violations {
		if i == 0 || v.Exhibit != exhibit {
			exhibit = v.Exhibit
			clear(seen)
			if exhibit != "" {
				p.println(p.styles.Name.Render(exhibit + ":"))
			}
		}
		if seen[v.Message] {
			continue
		}
		seen[v.Message] = true
		p.item(p.styles.Problem.Render(v.Message))
	}
}

// ProblemCount counts the distinct messages of stored violations, per
// exhibit.
func ProblemCount(violations []models.ReportViolation) int {
	seen := make(map[string]bool)
	for _, v := range violations {
		seen[v.Exhibit+"\x00"+v.Message] = true
	}
	return len(seen)
}
