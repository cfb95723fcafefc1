package tui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pvmdash/internal/config"
	"github.com/theirongolddev/pvmdash/internal/export"
	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/tui/components"
	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

// exportPreviewRows is how many rows of the pending export are shown.
const exportPreviewRows = 6

// exportState tracks the export tab.
type exportState struct {
	form    *huh.Form
	vals    *exportValues
	running bool
	result  string
	err     error
}

func newExportState(cfg config.Config) exportState {
	return exportState{vals: newExportValues(cfg)}
}

func (a App) updateExportKey(key string) (tea.Model, tea.Cmd, bool) {
	if key != "enter" || a.export.running {
		return a, nil, false
	}
	a.export.form = newExportForm(a.export.vals)
	if a.width > 0 {
		a.export.form.WithWidth(min(a.width, 100)).WithHeight(a.height - 4)
	}
	return a, a.export.form.Init(), true
}

func (a App) updateExportForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.export.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.export.form = f
	}

	switch a.export.form.State {
	case huh.StateCompleted:
		a.export.form = nil
		a.export.running = true
		a.export.result, a.export.err = "", nil
		return a, exportCmd(a.records, *a.export.vals)
	case huh.StateAborted:
		a.export.form = nil
		return a, nil
	}
	return a, cmd
}

// exportCmd writes the filtered records in the background.
func exportCmd(records []model.Record, vals exportValues) tea.Cmd {
	return func() tea.Msg {
		path := strings.TrimSpace(vals.Path)
		tbl, err := export.Build(records, vals.KPIs)
		if err != nil {
			return ExportDoneMsg{Path: path, Err: err}
		}
		if err := export.Write(path, tbl); err != nil {
			return ExportDoneMsg{Path: path, Err: err}
		}
		slog.Info("export written", "path", path, "rows", tbl.Len(), "kpis", vals.KPIs)
		return ExportDoneMsg{Path: path, Rows: tbl.Len()}
	}
}

func (a App) renderExportTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	vals := a.export.vals
	var info strings.Builder
	info.WriteString(muted.Render("KPIs:   ") + value.Render(strings.Join(vals.KPIs, ", ")) + "\n")
	info.WriteString(muted.Render("Output: ") + value.Render(vals.Path) + "\n")
	info.WriteString(muted.Render("Rows:   ") + value.Render(fmt.Sprintf("%d (current selection)", len(a.records))) + "\n\n")
	switch {
	case a.export.running:
		info.WriteString(lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render("Writing..."))
	case a.export.err != nil:
		info.WriteString(lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render("Export failed: " + a.export.err.Error()))
	case a.export.result != "":
		info.WriteString(lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Render(a.export.result))
	default:
		info.WriteString(muted.Render("[Enter] choose KPIs and file, then export"))
	}

	var b strings.Builder
	b.WriteString(components.FocusCard("Export KPIs", info.String(), cw))
	b.WriteString("\n")

	tbl, err := export.Build(tail(a.records, exportPreviewRows), vals.KPIs)
	if err != nil {
		b.WriteString(a.renderError(cw, err))
		return b.String()
	}
	b.WriteString(components.ContentCard("Preview (last rows)", renderGrid(tbl.Headers, tbl.StringRows(), nil), cw))
	return b.String()
}
