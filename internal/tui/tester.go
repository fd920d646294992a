package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/keyzen/internal/keyboard"
	"github.com/verte-zerg/keyzen/internal/model"
)

const (
	mainUnits   = 15
	navUnits    = 3
	numpadUnits = 4
	clusterGap  = 2
	minUnit     = 3
	maxUnit     = 7
)

type cluster int

const (
	clusterMain cluster = iota
	clusterNav
	clusterNumpad
)

func clusterOf(k keyboard.Key) cluster {
	switch k.Kind {
	case keyboard.KindNav:
		return clusterNav
	case keyboard.KindNumpad:
		return clusterNumpad
	default:
		return clusterMain
	}
}

// keyUnit picks how many cells one key unit takes at the current width.
func keyUnit(width int, layout keyboard.Layout) int {
	units := mainUnits + navUnits + numpadUnits
	gaps := 2 * clusterGap
	if layout == keyboard.LayoutCompact {
		units -= numpadUnits
		gaps -= clusterGap
	}
	if width <= 0 {
		return 5
	}
	return max(minUnit, min(maxUnit, (width-gaps)/units))
}

func (a *App) viewTester() string {
	unit := keyUnit(a.width, a.layout)
	rows := keyboard.VisibleRows(a.layout)
	rendered := make([]string, 0, len(rows))
	for _, row := range rows {
		rendered = append(rendered, a.renderKeyRow(row, unit))
	}
	board := lipgloss.JoinVertical(lipgloss.Left, rendered...)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("keyzen"),
		"",
		board,
		"",
		a.testedLine(),
		a.historyLine(),
	)
}

func (a *App) renderKeyRow(row []keyboard.Key, unit int) string {
	groups := map[cluster][]string{}
	for _, k := range row {
		c := clusterOf(k)
		groups[c] = append(groups[c], a.renderKey(k, unit))
	}
	// A lone arrow-up sits over arrow-down.
	if nav := groups[clusterNav]; len(nav) == 1 && hasKey(row, "ArrowUp") {
		groups[clusterNav] = []string{strings.Repeat(" ", unit), nav[0]}
	}

	parts := []string{
		padCluster(groups[clusterMain], mainUnits*unit),
		strings.Repeat(" ", clusterGap),
		padCluster(groups[clusterNav], navUnits*unit),
	}
	if a.layout != keyboard.LayoutCompact {
		parts = append(parts,
			strings.Repeat(" ", clusterGap),
			padCluster(groups[clusterNumpad], numpadUnits*unit),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func hasKey(row []keyboard.Key, code model.KeyIdentity) bool {
	for _, k := range row {
		if k.Code == code {
			return true
		}
	}
	return false
}

func padCluster(cells []string, width int) string {
	line := strings.Join(cells, "")
	if pad := width - lipgloss.Width(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line
}

// renderKey draws one key cell followed by a one-column gap.
func (a *App) renderKey(k keyboard.Key, unit int) string {
	width := max(1, int(math.Round(k.Width*float64(unit)))-1)
	style := keyUntestedStyle
	switch {
	case a.tracker.IsActive(k.Code):
		style = keyActiveStyle
	case a.tracker.IsTested(k.Code):
		style = keyTestedStyle
	}
	return style.Width(width).Render(keyCaption(k, a.os, width)) + " "
}

func keyCaption(k keyboard.Key, os keyboard.OS, width int) string {
	label := keyboard.Label(k, os)
	if k.Icon != "" {
		full := k.Icon + " " + label
		if runewidth.StringWidth(full) <= width {
			return full
		}
		if runewidth.StringWidth(label) > width {
			return k.Icon
		}
	}
	return runewidth.Truncate(label, width, "")
}

func (a *App) testedLine() string {
	total := len(keyboard.All())
	tested := 0
	for _, k := range keyboard.All() {
		if a.tracker.IsTested(k.Code) {
			tested++
		}
	}
	pct := 0
	if total > 0 {
		pct = int(math.Round(100 * float64(tested) / float64(total)))
	}
	return fmt.Sprintf("Tested %d/%d (%d%%)  %s",
		tested, total, pct, mutedStyle.Render("Delete resets"))
}

func (a *App) historyLine() string {
	history := a.tracker.History()
	if len(history) == 0 {
		return mutedStyle.Render("Press any key")
	}
	parts := make([]string, 0, len(history))
	for _, ev := range history {
		name := string(ev.Key)
		if k, ok := keyboard.Lookup(ev.Key); ok {
			name = keyboard.Label(k, a.os)
		}
		if ev.Chatter {
			parts = append(parts, chatterStyle.Render(name+"!"))
			continue
		}
		parts = append(parts, historyStyle.Render(name))
	}
	line := strings.Join(parts, " ")
	if a.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(a.width).Render(line)
	}
	return line
}
