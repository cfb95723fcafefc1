// Package tui provides the interactive Bubble Tea dashboard for pvmdash.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/config"
	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
	"github.com/theirongolddev/pvmdash/internal/source"
	"github.com/theirongolddev/pvmdash/internal/tui/components"
	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

// Tab indexes, matching components.Tabs.
const (
	tabOverview = iota
	tabVariance
	tabPVM
	tabCapEx
	tabScenario
	tabForecast
	tabExport
	tabSettings
)

// DataLoadedMsg is sent when the first load of a dashboard finishes.
type DataLoadedMsg struct {
	Dash     *pipeline.Dashboard
	Rows     int
	LoadTime time.Duration
	Err      error
}

// ProgressMsg reports row parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// ReloadedMsg is sent when an explicit reload completes.
type ReloadedMsg struct {
	Result *pipeline.LoadResult
	Err    error
}

// ExportDoneMsg is sent when an export file has been written.
type ExportDoneMsg struct {
	Path string
	Rows int
	Err  error
}

// Options configures a new dashboard.
type Options struct {
	DataPath  string
	Config    config.Config
	Selection model.Selection // empty fields resolve to the first value in the data
	NeedSetup bool            // show the setup form before loading
}

// App is the root Bubble Tea model.
type App struct {
	cfg      config.Config
	dataPath string
	dash     *pipeline.Dashboard

	// Data
	loaded   bool
	loadErr  error
	loadTime time.Duration
	rows     int

	// Current selection and the results computed for it
	sel      model.Selection
	opts     pipeline.FilterOptions
	records  []model.Record
	summary  model.KPISummary
	viewErr  error
	params   pipeline.Params
	scenario []model.ScenarioPoint
	scenErr  error
	periods  int
	metric   int // index into pipeline.KPINames()
	forecast model.Forecast
	fcErr    error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	flash     string
	reloading bool

	// Per-tab state
	scen     scenarioState
	export   exportState
	settings settingsState

	// Forms. Values live behind pointers so they survive model copies.
	filterForm *huh.Form
	filterVals *model.Selection
	setupForm  *huh.Form
	setupVals  *SetupValues
	needSetup  bool

	// Loading
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
)

// NewApp creates the dashboard model.
func NewApp(o Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	periods := o.Config.Forecast.Periods
	if periods < 1 {
		periods = 3
	}

	a := App{
		cfg:       o.Config,
		dataPath:  o.DataPath,
		sel:       o.Selection,
		params:    pipeline.ParamsFromConfig(o.Config.Scenario),
		periods:   periods,
		metric:    kpiIndex("Profit"),
		needSetup: o.NeedSetup || o.DataPath == "",
		spinner:   sp,
		loadSub:   make(chan tea.Msg, 1),
		export:    newExportState(o.Config),
	}
	if a.needSetup {
		a.setupVals = NewSetupValues(o.Config)
		a.setupVals.DataPath = o.DataPath
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.needSetup {
		return tea.Batch(tea.EnableMouseCellMotion, a.setupForm.Init())
	}
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.dataPath, a.cfg, a.loadSub),
		a.spinner.Tick,
	)
}

// recompute refreshes every cached result for the current selection.
func (a *App) recompute() {
	if a.dash == nil {
		return
	}
	opts, err := a.dash.Options()
	if err != nil {
		a.viewErr = err
		return
	}
	a.opts = opts

	sel, err := a.dash.Resolve(a.sel)
	if err != nil {
		a.viewErr = err
		return
	}
	a.sel = sel

	a.records, a.viewErr = a.dash.Filtered(sel)
	if a.viewErr != nil {
		a.records = nil
		a.summary = model.KPISummary{}
		a.scenario = nil
		a.forecast = model.Forecast{}
		return
	}
	a.summary, a.viewErr = a.dash.Summary(sel)
	a.runScenario()
	a.runForecast()
}

func (a *App) runScenario() {
	a.scenario, a.scenErr = a.dash.Scenario(a.sel, a.params)
	if a.scenErr != nil {
		slog.Debug("scenario rejected", "error", a.scenErr)
	}
}

func (a *App) runForecast() {
	a.forecast, a.fcErr = a.dash.Forecast(a.sel, currentKPI(a.metric), a.periods)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for _, f := range []*huh.Form{a.setupForm, a.filterForm, a.export.form} {
			if f != nil {
				f.WithWidth(min(msg.Width, 100)).WithHeight(msg.Height - 4)
			}
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.modal() {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
			if tab := a.tabAt(msg.X, msg.Y); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if msg.String() == "esc" && (a.filterForm != nil || a.export.form != nil) {
			a.filterForm, a.filterVals = nil, nil
			a.export.form = nil
			return a, nil
		}
		switch {
		case a.setupForm != nil:
			return a.updateSetupForm(msg)
		case a.filterForm != nil:
			return a.updateFilterForm(msg)
		case a.export.form != nil:
			return a.updateExportForm(msg)
		}
		if !a.loaded {
			if a.loadErr != nil {
				return a.updateLoadFailed(msg)
			}
			return a, nil
		}
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.loadErr = msg.Err
			slog.Error("load failed", "path", a.dataPath, "error", msg.Err)
			return a, nil
		}
		a.dash = msg.Dash
		a.loaded = true
		a.loadErr = nil
		a.rows = msg.Rows
		a.recompute()
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case ReloadedMsg:
		a.reloading = false
		if msg.Err != nil {
			a.flash = "reload failed, keeping previous data: " + msg.Err.Error()
			slog.Warn("reload failed", "error", msg.Err)
			return a, nil
		}
		a.rows = msg.Result.Rows
		a.loadTime = msg.Result.Duration
		a.flash = fmt.Sprintf("reloaded %s rows", cli.FormatNumber(int64(msg.Result.Rows)))
		a.recompute()
		return a, nil

	case ExportDoneMsg:
		a.export.running = false
		a.export.err = msg.Err
		if msg.Err == nil {
			a.export.result = fmt.Sprintf("Wrote %d rows to %s", msg.Rows, msg.Path)
			a.flash = "exported " + filepath.Base(msg.Path)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded && a.loadErr == nil {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Cursor blinks and other form-internal messages.
	switch {
	case a.setupForm != nil:
		return a.updateSetupForm(msg)
	case a.filterForm != nil:
		return a.updateFilterForm(msg)
	case a.export.form != nil:
		return a.updateExportForm(msg)
	}
	return a, nil
}

// modal reports whether a form currently owns the keyboard.
func (a App) modal() bool {
	return a.setupForm != nil || a.filterForm != nil || a.export.form != nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}
	a.flash = ""

	// Tab-local bindings win over global ones.
	switch a.activeTab {
	case tabScenario:
		if m, cmd, ok := a.updateScenarioKey(key); ok {
			return m, cmd
		}
	case tabForecast:
		if m, cmd, ok := a.updateForecastKey(key); ok {
			return m, cmd
		}
	case tabExport:
		if m, cmd, ok := a.updateExportKey(key); ok {
			return m, cmd
		}
	case tabSettings:
		if m, cmd, ok := a.updateSettingsKey(key); ok {
			return m, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "f":
		vals := a.sel
		a.filterVals = &vals
		a.filterForm = newFilterForm(a.opts, a.filterVals)
		if a.width > 0 {
			a.filterForm.WithWidth(min(a.width, 100)).WithHeight(a.height - 4)
		}
		return a, a.filterForm.Init()
	case "r":
		if a.reloading {
			return a, nil
		}
		a.reloading = true
		return a, reloadCmd(a.dash)
	case "left", "h", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "l", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		r := msg.Runes[0]
		if r >= '1' && r <= '9' && int(r-'1') < len(components.Tabs) {
			a.activeTab = int(r - '1')
			return a, nil
		}
		if idx := components.TabIdxByKey(r); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateLoadFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return a, tea.Quit
	case "r":
		a.loadErr = nil
		a.progress, a.progressMax = 0, 0
		return a, tea.Batch(loadDataCmd(a.dataPath, a.cfg, a.loadSub), a.spinner.Tick)
	case "s":
		a.setupVals = NewSetupValues(a.cfg)
		a.setupVals.DataPath = a.dataPath
		a.setupForm = NewSetupForm(a.setupVals)
		a.needSetup = true
		return a, a.setupForm.Init()
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.setupVals.Apply(&a.cfg)
		theme.SetActive(a.cfg.Appearance.Theme)
		if err := config.Save(a.cfg); err != nil {
			a.flash = "could not save config: " + err.Error()
		}
		a.periods = a.cfg.Forecast.Periods
		a.setupForm, a.setupVals, a.needSetup = nil, nil, false
		return a.startLoad(a.cfg.Input.Path)
	case huh.StateAborted:
		a.setupForm, a.setupVals, a.needSetup = nil, nil, false
		if a.dataPath == "" {
			return a, tea.Quit
		}
		if !a.loaded && a.loadErr == nil {
			return a, tea.Batch(loadDataCmd(a.dataPath, a.cfg, a.loadSub), a.spinner.Tick)
		}
		return a, nil
	}
	return a, cmd
}

func (a App) updateFilterForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.filterForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.filterForm = f
	}

	switch a.filterForm.State {
	case huh.StateCompleted:
		a.sel = *a.filterVals
		a.filterForm, a.filterVals = nil, nil
		a.recompute()
		slog.Debug("selection changed", "selection", a.sel.String())
		return a, nil
	case huh.StateAborted:
		a.filterForm, a.filterVals = nil, nil
		return a, nil
	}
	return a, cmd
}

// startLoad swaps to a new input path and loads it from scratch.
func (a App) startLoad(path string) (tea.Model, tea.Cmd) {
	a.dataPath = path
	a.dash = nil
	a.loaded = false
	a.loadErr = nil
	a.progress, a.progressMax = 0, 0
	a.sel = model.Selection{}
	return a, tea.Batch(loadDataCmd(path, a.cfg, a.loadSub), a.spinner.Tick)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupForm != nil {
		return a.viewForm("Setup", a.setupForm)
	}
	if a.loadErr != nil {
		return a.viewLoadFailed()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.filterForm != nil {
		return a.viewForm("Filter", a.filterForm)
	}
	if a.export.form != nil {
		return a.viewForm("Export KPIs", a.export.form)
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  pvmdash needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewForm(title string, f *huh.Form) string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Padding(1, 2, 0, 2)
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("◈ "+title), f.View())
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ pvmdash"))
	b.WriteString(subtitleStyle.Render(" · planned vs. actual"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := min(max(a.width-30, 20), 40)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Parsing " + filepath.Base(a.dataPath) + "\n\n"))
		b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
		b.WriteString(subtitleStyle.Render(" rows"))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Reading " + filepath.Base(a.dataPath) + "..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadFailed() string {
	t := theme.Active
	w := min(a.width-4, 90)

	body := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Width(components.CardInnerWidth(w)).
		Render(a.loadErr.Error()) +
		"\n\n" +
		lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("[r] retry  [s] setup  [q] quit")

	card := components.FocusCard("Could not load "+filepath.Base(a.dataPath), body, w)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o v p c s t e x", "Jump to tab"},
			{"1-8", "Jump to tab by number"},
			{"← → / tab", "Previous / next tab"},
		}},
		{"Data", [][2]string{
			{"f", "Change region / BU / project / status"},
			{"r", "Reload the input table"},
		}},
		{"Scenario", [][2]string{
			{"j k", "Select ratio"},
			{"← → / H L", "Adjust by 0.5 / 5 points"},
			{"0", "Reset to configured defaults"},
		}},
		{"Forecast", [][2]string{
			{"j k", "Select KPI"},
			{"+ -", "More / fewer months"},
		}},
		{"General", [][2]string{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-16s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	parts := []string{a.sel.Region, a.sel.BusinessUnit, a.sel.Project, a.sel.Status}
	for i, p := range parts {
		parts[i] = accentStyle.Render(p)
	}
	filterLine := lipgloss.NewStyle().Background(t.Surface).Width(w).
		Render(pillStyle.Render(" ") + strings.Join(parts, pillStyle.Render(" │ ")))

	header := components.RenderTabBar(a.activeTab, w) + "\n" + filterLine

	source := fmt.Sprintf("%s · %s rows · %.1fs",
		filepath.Base(a.dataPath), cli.FormatNumber(int64(a.rows)), a.loadTime.Seconds())
	statusBar := components.RenderStatusBar(w, source, a.flash, a.reloading)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.viewErr != nil && a.activeTab != tabSettings:
		content = a.renderError(cw, a.viewErr)
	default:
		switch a.activeTab {
		case tabOverview:
			content = a.renderOverviewTab(cw)
		case tabVariance:
			content = a.renderVarianceTab(cw)
		case tabPVM:
			content = a.renderPVMTab(cw)
		case tabCapEx:
			content = a.renderCapExTab(cw)
		case tabScenario:
			content = a.renderScenarioTab(cw)
		case tabForecast:
			content = a.renderForecastTab(cw)
		case tabExport:
			content = a.renderExportTab(cw)
		case tabSettings:
			content = a.renderSettingsTab(cw)
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderError shows a domain error in place of the tab content.
func (a App) renderError(cw int, err error) string {
	t := theme.Active
	title := "Error"
	hint := ""
	switch {
	case errors.Is(err, model.ErrEmptyFilter):
		title = "No records"
		hint = "Press f to pick another combination."
	case errors.Is(err, model.ErrInsufficientData):
		title = "Not enough data"
		hint = "The trend needs at least two distinct months."
	case errors.Is(err, model.ErrScenarioRange):
		title = "Scenario out of range"
		hint = "Adjust the ratio back into its bounds or press 0 to reset."
	}
	body := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Render(err.Error())
	if hint != "" {
		body += "\n" + lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(hint)
	}
	return components.FocusCard(title, body, cw)
}

// ─── Commands ───────────────────────────────────────────────────

// loadDataCmd builds a dashboard for path and loads it in a goroutine,
// streaming ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(path string, cfg config.Config, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking: a full channel drops the update, the next one catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			cache := pipeline.NewCache(path, source.Options{
				Sheet:      cfg.Input.Sheet,
				Table:      cfg.Input.Table,
				ProgressFn: progressFn,
			})
			dash, err := pipeline.NewDashboard(cache, cfg)
			if err != nil {
				sub <- DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
				return
			}
			tbl, err := dash.Table()
			if err != nil {
				sub <- DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
				return
			}
			sub <- DataLoadedMsg{Dash: dash, Rows: tbl.Len(), LoadTime: time.Since(start)}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the loader goroutine sends its next message.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// reloadCmd re-reads the input without progress UI.
func reloadCmd(d *pipeline.Dashboard) tea.Cmd {
	return func() tea.Msg {
		lr, err := d.Reload()
		return ReloadedMsg{Result: lr, Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func kpiIndex(name string) int {
	for i, n := range pipeline.KPINames() {
		if n == name {
			return i
		}
	}
	return 0
}

func currentKPI(idx int) string {
	names := pipeline.KPINames()
	return names[((idx%len(names))+len(names))%len(names)]
}

// formatKPI renders money KPIs as currency and the rest as plain numbers.
func formatKPI(name string, v float64) string {
	k, err := pipeline.LookupKPI(name)
	if err == nil && !k.Money {
		return cli.FormatIndex(v)
	}
	return cli.FormatMoney(v)
}

func monthLabels(months []time.Time) []string {
	labels := make([]string, len(months))
	prevYear := 0
	for i, m := range months {
		if m.Year() != prevYear {
			labels[i] = m.Format("Jan06")
		} else {
			labels[i] = m.Format("Jan")
		}
		prevYear = m.Year()
	}
	return labels
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAt returns the tab under (x, y) in the two-row tab bar, or -1.
// Hitboxes follow the widths used by RenderTabBar.
func (a App) tabAt(x, y int) int {
	if y < 0 || y*components.TabsPerRow >= len(components.Tabs) {
		return -1
	}
	first := y * components.TabsPerRow
	last := min(first+components.TabsPerRow, len(components.Tabs))

	pos := 0
	for i := first; i < last; i++ {
		tabW := components.TabVisualWidth(components.Tabs[i], i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // one-column separator
	}
	return -1
}
