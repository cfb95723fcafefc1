package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/config"
	"github.com/theirongolddev/pvmdash/internal/logging"
	"github.com/theirongolddev/pvmdash/internal/tui/components"
	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

const (
	settingsFieldDataPath = iota
	settingsFieldTheme
	settingsFieldPeriods
	settingsFieldExportPath
	settingsFieldLogLevel
	settingsFieldCount
)

var settingsLabels = [settingsFieldCount]string{
	"Input table",
	"Theme",
	"Forecast periods",
	"Export file",
	"Log level",
}

// settingsState tracks the settings tab.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

func (a App) settingsValue(field int) string {
	switch field {
	case settingsFieldDataPath:
		return a.dataPath
	case settingsFieldTheme:
		return theme.Active.Name
	case settingsFieldPeriods:
		return strconv.Itoa(a.periods)
	case settingsFieldExportPath:
		return a.export.vals.Path
	case settingsFieldLogLevel:
		return a.cfg.Log.Level
	}
	return ""
}

func (a App) updateSettingsKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.settings.cursor = min(a.settings.cursor+1, settingsFieldCount-1)
	case "k", "up":
		a.settings.cursor = max(a.settings.cursor-1, 0)
	case "enter":
		a.settings.editing = true
		a.settings.saved = false
		ti := textinput.New()
		ti.CharLimit = 512
		ti.Width = 50
		ti.SetValue(a.settingsValue(a.settings.cursor))
		if a.settings.cursor == settingsFieldTheme {
			ti.Placeholder = strings.Join(theme.Names(), ", ")
		}
		ti.Focus()
		a.settings.input = ti
		return a, ti.Cursor.BlinkCmd(), true
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.editing = false
		reload, err := a.applySetting(a.settings.cursor, strings.TrimSpace(a.settings.input.Value()))
		if err != nil {
			a.settings.saveErr = err
			return a, nil
		}
		a.settings.saveErr = config.Save(a.cfg)
		a.settings.saved = a.settings.saveErr == nil
		if reload {
			return a.startLoad(a.cfg.Input.Path)
		}
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// applySetting validates and applies one edited field. reload reports
// whether the dashboard has to load a new input table.
func (a *App) applySetting(field int, val string) (reload bool, err error) {
	switch field {
	case settingsFieldDataPath:
		if err := validateDataPath(val); err != nil {
			return false, err
		}
		a.cfg.Input.Path = val
		return val != a.dataPath, nil
	case settingsFieldTheme:
		found := false
		for _, name := range theme.Names() {
			if name == val {
				found = true
			}
		}
		if !found {
			return false, fmt.Errorf("unknown theme %q", val)
		}
		a.cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldPeriods:
		if err := validatePeriods(val); err != nil {
			return false, err
		}
		a.periods, _ = strconv.Atoi(val)
		a.cfg.Forecast.Periods = a.periods
		if a.dash != nil && a.viewErr == nil {
			a.runForecast()
		}
	case settingsFieldExportPath:
		if err := validateExportPath(val); err != nil {
			return false, err
		}
		a.cfg.Export.Path = val
		a.export.vals.Path = val
	case settingsFieldLogLevel:
		if _, err := logging.ParseLevel(val); err != nil {
			return false, err
		}
		a.cfg.Log.Level = val
	}
	return false, nil
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	space := lipgloss.NewStyle().Background(t.Surface)

	innerW := components.CardInnerWidth(cw)
	var form strings.Builder
	for i, label := range settingsLabels {
		switch {
		case a.settings.editing && i == a.settings.cursor:
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", label)))
			form.WriteString(a.settings.input.View())
		case i == a.settings.cursor:
			line := markerStyle.Render("▸ ") +
				selectedLabelStyle.Render(fmt.Sprintf("%-18s ", label+":")) +
				selectedStyle.Render(a.settingsValue(i))
			form.WriteString(line)
			if pad := innerW - lipgloss.Width(line); pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		default:
			form.WriteString(space.Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", label+":")))
			form.WriteString(valueStyle.Render(a.settingsValue(i)))
		}
		form.WriteString("\n")
	}

	switch {
	case a.settings.saveErr != nil:
		form.WriteString("\n")
		form.WriteString(lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).
			Render("Not saved: " + a.settings.saveErr.Error()))
	case a.settings.saved:
		form.WriteString("\n")
		form.WriteString(lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Render("Saved!"))
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var info strings.Builder
	row := func(label, v string) {
		info.WriteString(labelStyle.Render(fmt.Sprintf("%-17s", label)) + valueStyle.Render(v) + "\n")
	}
	row("Config file:", config.Path())
	row("Rows loaded:", cli.FormatNumber(int64(a.rows)))
	row("Load time:", fmt.Sprintf("%.2fs", a.loadTime.Seconds()))
	if a.dash != nil {
		row("Forecast axis:", string(a.dash.Axis()))
		f, s, fc := a.dash.MemoSizes()
		row("Cached results:", fmt.Sprintf("%d filters, %d scenarios, %d forecasts", f, s, fc))
	}
	info.WriteString(labelStyle.Render("Scenario bounds come from [scenario.bounds] in the config file."))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", form.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Session", info.String(), cw))
	return b.String()
}
