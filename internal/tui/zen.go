package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keyzen/internal/drill"
	"github.com/verte-zerg/keyzen/internal/feedback"
)

const (
	particleRows  = 6
	maxTextWidth  = 72
	minTextWidth  = 20
	frameInterval = time.Second / feedback.FrameRate
)

func (a *App) textWidth() int {
	if a.width <= 0 {
		return maxTextWidth
	}
	return max(minTextWidth, min(maxTextWidth, a.width-4))
}

func (a *App) viewZen() string {
	st := a.engine.State()
	if len(st.Target) == 0 {
		return mutedStyle.Render("No quotes loaded.")
	}
	if st.Phase == drill.Complete {
		return a.viewCompletion(st)
	}

	width := a.textWidth()
	lines := layoutStyledRunes(buildStyledRunes(st.Target, st.Caret, st.ErrorFlag), width)
	rendered := make([]string, len(lines))
	for i, line := range lines {
		rendered[i] = renderStyledRunes(line)
	}

	parts := []string{
		renderParticles(a.emitter.Particles(), width, particleRows),
		strings.Join(rendered, "\n"),
	}
	if st.Quote.Author != "" {
		parts = append(parts, "", authorStyle.Render("- "+st.Quote.Author))
	}
	parts = append(parts, "", mutedStyle.Render(zenStatus(st)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func zenStatus(st drill.State) string {
	return fmt.Sprintf("combo %d  best %d  errors %d  %d/%d  completed %d",
		st.Combo, st.MaxCombo, st.Errors, st.Caret, len(st.Target), st.Completed)
}

func (a *App) viewCompletion(st drill.State) string {
	res := st.Result
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("WPM", fmt.Sprintf("%d", res.WPM)),
		card("Accuracy", fmt.Sprintf("%d%%", res.Accuracy)),
		card("Time", formatElapsed(res.Elapsed)),
		card("Errors", fmt.Sprintf("%d", res.Errors)),
		card("Best combo", fmt.Sprintf("%d", res.MaxCombo)),
	)
	body := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Quote complete"),
		"",
		cards,
		"",
		mutedStyle.Render("enter: next quote"),
	)
	return panelStyle.Render(body)
}

func card(title, value string) string {
	return lipgloss.NewStyle().Padding(0, 2).Render(
		lipgloss.JoinVertical(lipgloss.Center, cardTitleStyle.Render(title), cardValueStyle.Render(value)),
	)
}

func formatElapsed(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

// renderParticles draws the particle band. Particle rows below the band are clipped.
func renderParticles(particles []feedback.Particle, width, rows int) string {
	type spark struct {
		glyph  rune
		bright bool
	}
	grid := make([][]*spark, rows)
	for i := range grid {
		grid[i] = make([]*spark, width)
	}
	for _, p := range particles {
		pos := p.Position()
		x := int(math.Round(pos.X))
		y := int(math.Round(pos.Y))
		if x < 0 || x >= width || y < 0 || y >= rows {
			continue
		}
		grid[y][x] = &spark{glyph: particleGlyph(p.Size), bright: p.Life > 0.5}
	}

	lines := make([]string, rows)
	for y, row := range grid {
		var b strings.Builder
		for _, s := range row {
			switch {
			case s == nil:
				b.WriteByte(' ')
			case s.bright:
				b.WriteString(particleStyle.Render(string(s.glyph)))
			default:
				b.WriteString(particleDimStyle.Render(string(s.glyph)))
			}
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func particleGlyph(size float64) rune {
	switch {
	case size >= 3:
		return '*'
	case size >= 1.5:
		return '+'
	default:
		return '.'
	}
}

// spawnBurst starts a burst at the on-screen cell of the rune at index.
func (a *App) spawnBurst(index int) {
	st := a.engine.State()
	if index < 0 || index >= len(st.Target) {
		return
	}
	lines := layoutStyledRunes(buildStyledRunes(st.Target, st.Caret, st.ErrorFlag), a.textWidth())
	pos := runePositions(lines, len(st.Target))[index]
	a.emitter.Spawn(float64(pos.x), float64(particleRows+pos.y))
}

func (a *App) startFrames() tea.Cmd {
	if a.animating {
		return nil
	}
	a.animating = true
	return a.frameTick()
}

func (a *App) frameTick() tea.Cmd {
	gen := a.frameGen
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

// stopFrames clears particles and invalidates any tick already scheduled.
func (a *App) stopFrames() {
	a.emitter.Clear()
	a.animating = false
	a.frameGen++
}

func (a *App) stepFrame(msg frameMsg) tea.Cmd {
	if msg.gen != a.frameGen || !a.animating {
		return nil
	}
	a.emitter.Step()
	if a.emitter.Alive() == 0 {
		a.animating = false
		return nil
	}
	return a.frameTick()
}
