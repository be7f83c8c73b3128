package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tankmate/tankmate/internal/config"
	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/services/aquarium"
	"github.com/tankmate/tankmate/internal/tui/views/exhibits"
	"github.com/tankmate/tankmate/internal/tui/views/history"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// MaxContentWidth is the maximum width for content display
const MaxContentWidth = 120

// chromeLines is the height of header, alert bar and footer.
const chromeLines = 6

// Module represents a view module in the application.
type Module string

const (
	ModuleExhibits Module = "exhibits"
	ModuleHistory  Module = "history"
	ModuleHelp     Module = "help"

	moduleQuit Module = "quit"
)

// App is the main Bubble Tea application model.
type App struct {
	// Dependencies
	service  *aquarium.Service
	config   *config.Config
	subject  string
	aquarium *models.AquariumRef

	// Views
	exhibitsView *exhibits.View
	historyView  *history.View

	// UI state
	theme       *Theme
	keys        KeyMap
	width       int
	height      int
	ready       bool
	quitting    bool
	showConfirm bool

	// Current view
	currentModule  Module
	previousModule Module
	showDetail     bool

	alerts []Alert
}

// Alert represents a status message.
type Alert struct {
	Level   AlertLevel
	Message string
	Time    time.Time
}

// AlertLevel indicates the severity of an alert.
type AlertLevel int

const (
	AlertInfo AlertLevel = iota
	AlertWarning
	AlertCritical
)

// tickMsg is sent periodically to refresh report ages.
type tickMsg time.Time

type validatedMsg struct {
	result *aquarium.AquariumCheckResult
	err    error
}

type historyLoadedMsg struct {
	err error
}

// New creates a browser for an aquarium. The aquarium is validated when
// the program starts and recorded under subject.
func New(svc *aquarium.Service, cfg *config.Config, subject string, aq *models.AquariumRef) *App {
	theme := NewTheme(cfg.Display.ColorScheme)

	return &App{
		service:       svc,
		config:        cfg,
		subject:       subject,
		aquarium:      aq,
		exhibitsView:  exhibits.NewView(theme.Palette),
		historyView:   history.NewView(svc, theme.Palette),
		theme:         theme,
		keys:          DefaultKeyMap(),
		currentModule: ModuleExhibits,
		alerts:        []Alert{},
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(),
		a.validate(),
	)
}

// tickCmd returns a command that sends tick messages.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// validate checks the aquarium in the background.
func (a *App) validate() tea.Cmd {
	return func() tea.Msg {
		result, err := a.service.Validate(context.Background(), a.subject, a.aquarium)
		return validatedMsg{result: result, err: err}
	}
}

// loadHistory loads the current history page.
func (a *App) loadHistory() tea.Cmd {
	return func() tea.Msg {
		err := a.historyView.Load(context.Background())
		return historyLoadedMsg{err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		rows := max(ContentHeight(a.height, chromeLines)-8, 3)
		a.exhibitsView.SetVisibleRows(rows)
		return a, nil

	case tickMsg:
		a.historyView.SetNow(time.Time(msg))
		return a, tickCmd()

	case validatedMsg:
		a.exhibitsView.SetResult(a.subject, msg.result, msg.err)
		if msg.err != nil {
			a.AddAlert(AlertCritical, "Validation failed: "+msg.err.Error())
			return a, nil
		}
		okay, total := a.exhibitsView.Counts()
		switch {
		case total == 0:
			a.AddAlert(AlertInfo, "No occupied exhibits")
		case okay == total:
			a.AddAlert(AlertInfo, fmt.Sprintf("All %d exhibits okay", total))
		default:
			a.AddAlert(AlertWarning, fmt.Sprintf("%d of %d exhibits have problems", total-okay, total))
		}
		// The validation was just recorded; show it in the history.
		return a, a.loadHistory()

	case historyLoadedMsg:
		if msg.err != nil {
			a.AddAlert(AlertWarning, "Failed to load history: "+msg.err.Error())
		}
		return a, nil
	}

	return a, nil
}

// handleKeyPress processes key press events.
func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle quit confirmation first (modal takes priority)
	if a.showConfirm {
		switch msg.String() {
		case "y", "Y", "enter":
			a.quitting = true
			return a, tea.Quit
		case "n", "N", "esc":
			a.showConfirm = false
			return a, nil
		}
		return a, nil
	}

	// Search input takes every key before the global bindings.
	if a.currentModule == ModuleHistory && a.historyView.Searching() {
		if a.historyView.HandleSearchKey(msg.String()) {
			return a, a.loadHistory()
		}
		return a, nil
	}

	if a.keys.IsQuit(msg) {
		a.showConfirm = true
		return a, nil
	}

	if module := a.keys.ModuleFor(msg); module != "" {
		switch module {
		case ModuleHelp:
			a.openHelp()
		case ModuleHistory:
			a.currentModule = module
			a.showDetail = false
			return a, a.loadHistory()
		default:
			a.currentModule = module
			a.showDetail = false
		}
		return a, nil
	}

	if a.keys.Help.Matches(msg) {
		a.openHelp()
		return a, nil
	}

	if a.keys.Back.Matches(msg) {
		if a.showDetail {
			a.showDetail = false
			return a, nil
		}
		if a.currentModule == ModuleHelp && a.previousModule != "" {
			a.currentModule = a.previousModule
			a.previousModule = ""
		}
		return a, nil
	}

	switch a.currentModule {
	case ModuleExhibits:
		return a.handleExhibitKeys(msg)
	case ModuleHistory:
		return a.handleHistoryKeys(msg)
	}

	return a, nil
}

func (a *App) openHelp() {
	if a.currentModule != ModuleHelp {
		a.previousModule = a.currentModule
	}
	a.currentModule = ModuleHelp
	a.showDetail = false
}

// handleExhibitKeys handles key presses in the exhibit list.
func (a *App) handleExhibitKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showDetail {
		return a, nil
	}

	switch {
	case a.keys.Up.Matches(msg):
		a.exhibitsView.MoveUp()
	case a.keys.Down.Matches(msg):
		a.exhibitsView.MoveDown()
	case a.keys.PageUp.Matches(msg):
		a.exhibitsView.PageUp()
	case a.keys.PageDown.Matches(msg):
		a.exhibitsView.PageDown()
	case a.keys.Home.Matches(msg):
		a.exhibitsView.GoToTop()
	case a.keys.End.Matches(msg):
		a.exhibitsView.GoToBottom()
	case a.keys.Select.Matches(msg):
		if a.exhibitsView.SelectedExhibit() != nil {
			a.showDetail = true
		}
	}

	return a, nil
}

// handleHistoryKeys handles key presses in the report history.
func (a *App) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showDetail || a.historyView.Disabled() {
		return a, nil
	}

	switch {
	case a.keys.Up.Matches(msg):
		a.historyView.MoveUp()
	case a.keys.Down.Matches(msg):
		a.historyView.MoveDown()
	case a.keys.PageUp.Matches(msg):
		a.historyView.PrevPage()
		return a, a.loadHistory()
	case a.keys.PageDown.Matches(msg):
		a.historyView.NextPage()
		return a, a.loadHistory()
	case a.keys.Select.Matches(msg):
		if a.historyView.SelectedReport() != nil {
			a.showDetail = true
		}
	case a.keys.Search.Matches(msg):
		a.historyView.StartSearch()
	case a.keys.FilterKind.Matches(msg):
		a.historyView.CycleKind()
		return a, a.loadHistory()
	}

	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	if a.quitting {
		return a.theme.Title.Render("Closing tankmate...")
	}

	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	b.WriteString(a.renderAlertBar())
	b.WriteString("\n")

	contentHeight := ContentHeight(a.height, chromeLines)
	if a.showConfirm {
		b.WriteString(a.renderConfirmDialog(contentHeight))
	} else {
		b.WriteString(a.renderContent(contentHeight))
	}

	b.WriteString("\n")
	b.WriteString(a.renderFooter())

	return b.String()
}

// renderHeader renders the top header bar.
func (a *App) renderHeader() string {
	title := fmt.Sprintf("TANKMATE v%s", Version)
	if GetBreakpoint(a.width) == BreakpointNarrow {
		title = "TANKMATE"
	}

	subject := Truncate(a.subject, max(a.width-lipgloss.Width(title)-6, 0))

	spacing := a.width - lipgloss.Width(title) - lipgloss.Width(subject) - 4
	if spacing < 1 {
		spacing = 1
	}

	header := a.theme.Header.Render(title) +
		strings.Repeat(" ", spacing) +
		a.theme.Header.Render(subject)

	return header + "\n" + a.theme.DrawDoubleLine(a.width)
}

// renderAlertBar renders the latest alert.
func (a *App) renderAlertBar() string {
	var alertText string
	switch {
	case len(a.alerts) > 0:
		alert := a.alerts[0]
		switch alert.Level {
		case AlertCritical:
			alertText = a.theme.AlertCrit.Render("ERROR: " + alert.Message)
		case AlertWarning:
			alertText = a.theme.AlertWarn.Render("WARNING: " + alert.Message)
		default:
			alertText = a.theme.Alert.Render(alert.Message)
		}
	case a.exhibitsView.Loading():
		alertText = a.theme.Muted.Render("Validating...")
	default:
		alertText = a.theme.Muted.Render("Ready")
	}

	module := a.theme.Value.Render(strings.ToUpper(string(a.currentModule)))
	return module + a.theme.StatusDivider.Render() + alertText
}

// renderContent renders the main content area based on current module.
func (a *App) renderContent(height int) string {
	contentWidth := ContentWidth(a.width, 20, MaxContentWidth)

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Top)

	contentStyle := lipgloss.NewStyle().
		Width(contentWidth)

	return style.Render(contentStyle.Render(a.getModuleContent(contentWidth)))
}

// getModuleContent returns the content for the current module.
func (a *App) getModuleContent(width int) string {
	switch a.currentModule {
	case ModuleHistory:
		if a.showDetail {
			return a.historyView.RenderDetail(a.historyView.SelectedReport(), width)
		}
		return a.historyView.Render(width)
	case ModuleHelp:
		return a.renderHelp()
	default:
		if a.showDetail {
			return a.renderExhibitDetail(width)
		}
		return a.renderExhibits(width)
	}
}

// renderExhibits renders the exhibit list under a health summary.
func (a *App) renderExhibits(width int) string {
	list := a.exhibitsView.Render(width)

	okay, total := a.exhibitsView.Counts()
	if a.exhibitsView.Loading() || total == 0 {
		return list
	}

	summary := a.theme.Label.Render("Healthy exhibits ") + a.theme.HealthBar(okay, total, 22)

	return list + "\n\n" + summary
}

// renderExhibitDetail renders the environment and problems of the
// selected exhibit side by side.
func (a *App) renderExhibitDetail(width int) string {
	e := a.exhibitsView.SelectedExhibit()
	if e == nil {
		return a.theme.Muted.Render("No exhibit selected")
	}

	panelWidth := width/2 - 1
	if GetBreakpoint(width) == BreakpointNarrow {
		panelWidth = width
	}

	env := a.theme.Panel("ENVIRONMENT", a.exhibitsView.RenderEnvironment(e, panelWidth), panelWidth)
	problems := a.theme.Panel("PROBLEMS", a.exhibitsView.RenderProblems(e), panelWidth)

	var b strings.Builder
	b.WriteString(a.theme.Title.Render("═══ " + e.Name + " ═══"))
	b.WriteString("\n")
	b.WriteString(a.theme.Label.Render(fmt.Sprintf("%d animals, status %s", e.Animals, exhibits.Status(e))))
	b.WriteString("\n\n")
	b.WriteString(SideBySide(env, problems, width, 2))
	b.WriteString("\n\n")
	b.WriteString(a.theme.Muted.Render("Esc:Back"))

	return b.String()
}

// renderHelp renders the help screen.
func (a *App) renderHelp() string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("═══ HELP ═══"))
	b.WriteString("\n\n")

	sections := []struct {
		title string
		items [][2]string
	}{
		{"NAVIGATION", [][2]string{
			{"F1 ?", "Help"},
			{"F2", "Exhibits"},
			{"F3", "Report history"},
			{"F10 q", "Quit"},
		}},
		{"CONTROLS", [][2]string{
			{"Up/Down", "Select"},
			{"Enter", "Details"},
			{"Esc", "Back"},
			{"PgUp/Dn", "Page"},
			{"/", "Search history"},
			{"f", "Filter history by kind"},
		}},
	}

	for _, s := range sections {
		b.WriteString(a.theme.Subtitle.Render(s.title))
		b.WriteString("\n\n")
		for _, item := range s.items {
			line := "    " + PadRight(item[0], 10) + item[1]
			b.WriteString(a.theme.Primary.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(a.theme.Muted.Render("Press Esc to return"))

	return b.String()
}

// renderConfirmDialog renders the quit confirmation dialog.
func (a *App) renderConfirmDialog(height int) string {
	dialog := a.theme.Box.Render(
		a.theme.Title.Render("CONFIRM EXIT") + "\n\n" +
			a.theme.Base.Render("Close the exhibit browser?") + "\n\n" +
			a.theme.Label.Render("[Y]es  [N]o"),
	)

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return style.Render(dialog)
}

// renderFooter renders the bottom status bar.
func (a *App) renderFooter() string {
	return a.theme.DrawHorizontalLine(a.width) + "\n" + a.theme.Footer.Render(a.keys.StatusBarHelp(a.currentModule))
}

// AddAlert adds a new alert to the display.
func (a *App) AddAlert(level AlertLevel, message string) {
	a.alerts = append([]Alert{{
		Level:   level,
		Message: message,
		Time:    time.Now(),
	}}, a.alerts...)

	// Keep only last 10 alerts
	if len(a.alerts) > 10 {
		a.alerts = a.alerts[:10]
	}
}

// ClearAlerts removes all alerts.
func (a *App) ClearAlerts() {
	a.alerts = []Alert{}
}

// Run validates an aquarium and browses the result until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, svc *aquarium.Service, cfg *config.Config, subject string, aq *models.AquariumRef) error {
	app := New(svc, cfg, subject, aq)

	p := tea.NewProgram(app, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}
