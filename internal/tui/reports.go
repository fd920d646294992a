package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/keyzen/internal/model"
	"github.com/verte-zerg/keyzen/internal/reports"
)

const reportDateLayout = "2006-01-02 15:04"

type reportsView struct {
	keys     reportKeys
	table    table.Model
	viewport viewport.Model
	detail   bool
	items    []model.ReportSnapshot
	width    int
	height   int
}

func newReportsView() *reportsView {
	t := table.New(
		table.WithColumns(reportColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#141414")).Background(lipgloss.Color("#C89A3A"))
	t.SetStyles(styles)
	return &reportsView{
		keys:     newReportKeys(),
		table:    t,
		viewport: viewport.New(80, 10),
	}
}

func reportColumns(width int) []table.Column {
	missing := max(10, width-20-9-9-8)
	return []table.Column{
		{Title: "Date", Width: 18},
		{Title: "Score", Width: 9},
		{Title: "Percent", Width: 9},
		{Title: "Missing", Width: missing},
	}
}

func (v *reportsView) setSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.width = width
	v.height = height
	inner := min(width-2, 100)
	v.table.SetColumns(reportColumns(inner))
	v.table.SetWidth(inner)
	v.table.SetHeight(max(3, height-4))
	v.viewport.Width = inner
	v.viewport.Height = max(3, height-4)
}

func (v *reportsView) setReports(items []model.ReportSnapshot) {
	v.items = items
	rows := make([]table.Row, 0, len(items))
	for _, r := range items {
		rows = append(rows, table.Row{
			r.CreatedAt.Local().Format(reportDateLayout),
			r.Score(),
			fmt.Sprintf("%d%%", r.Percentage),
			missingSummary(r.Missing),
		})
	}
	v.table.SetRows(rows)
	if n := len(rows); n > 0 {
		v.table.SetCursor(min(max(v.table.Cursor(), 0), n-1))
	}
	if len(items) == 0 {
		v.detail = false
	}
}

func missingSummary(missing []model.MissingKey) string {
	if len(missing) == 0 {
		return "None"
	}
	codes := make([]string, 0, len(missing))
	for _, m := range missing {
		codes = append(codes, string(m.Code))
	}
	return strings.Join(codes, ", ")
}

func (v *reportsView) selected() (model.ReportSnapshot, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.items) {
		return model.ReportSnapshot{}, false
	}
	return v.items[i], true
}

func (v *reportsView) render() string {
	if v.detail {
		return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Report"), "", v.viewport.View())
	}
	if len(v.items) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Reports"),
			"",
			mutedStyle.Render("No reports yet. Press n to save a snapshot."),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Reports"), "", v.table.View())
}

func (v *reportsView) update(msg tea.KeyMsg, a *App) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back) && v.detail:
		v.detail = false
		return nil
	case key.Matches(msg, v.keys.Copy):
		v.copySelected(a)
		return nil
	case key.Matches(msg, v.keys.Delete):
		v.deleteSelected(a)
		return nil
	}

	var cmd tea.Cmd
	if v.detail {
		v.viewport, cmd = v.viewport.Update(msg)
		return cmd
	}
	switch {
	case key.Matches(msg, v.keys.New):
		a.saveSnapshot()
		a.reloadReports()
		return nil
	case key.Matches(msg, v.keys.Open):
		snap, ok := v.selected()
		if !ok {
			return nil
		}
		v.viewport.SetContent(reports.FormatText(snap, a.os))
		v.viewport.GotoTop()
		v.detail = true
		return nil
	}
	v.table, cmd = v.table.Update(msg)
	return cmd
}

func (v *reportsView) copySelected(a *App) {
	snap, ok := v.selected()
	if !ok {
		return
	}
	if err := reports.Copy(snap, a.os, a.deps.Clipboard); err != nil {
		a.log.Warn("failed to copy report", zap.String("id", snap.ID), zap.Error(err))
		a.setNotice("Could not copy report to clipboard", true)
		return
	}
	a.setNotice("Report copied to clipboard", false)
}

func (v *reportsView) deleteSelected(a *App) {
	snap, ok := v.selected()
	if !ok || a.deps.History == nil {
		return
	}
	removed, err := a.deps.History.Delete(context.Background(), snap.ID)
	if err != nil {
		a.log.Error("failed to delete report", zap.String("id", snap.ID), zap.Error(err))
		a.setNotice("Could not delete report", true)
		return
	}
	v.detail = false
	if removed {
		a.setNotice("Report deleted", false)
	}
	a.reloadReports()
}
