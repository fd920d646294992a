// Package tui provides the Bubble Tea keyboard tester and typing interface.
package tui

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/keyzen/internal/corpus"
	"github.com/verte-zerg/keyzen/internal/drill"
	"github.com/verte-zerg/keyzen/internal/feedback"
	"github.com/verte-zerg/keyzen/internal/input"
	"github.com/verte-zerg/keyzen/internal/keyboard"
	"github.com/verte-zerg/keyzen/internal/logging"
	"github.com/verte-zerg/keyzen/internal/model"
	"github.com/verte-zerg/keyzen/internal/reports"
	"github.com/verte-zerg/keyzen/internal/session"
)

// DefaultReleaseAfter is how long a key stays held without a repeat.
const DefaultReleaseAfter = 150 * time.Millisecond

type screen int

const (
	screenTester screen = iota
	screenZen
	screenReports
)

// AttemptStore persists finished drill attempts.
type AttemptStore interface {
	InsertAttempt(ctx context.Context, a model.Attempt, misses []model.CharMiss) (int64, error)
}

// Deps are the collaborators of the App. Nil fields disable the matching feature.
type Deps struct {
	Picker    *corpus.Picker
	Sounds    input.Sounder
	History   *reports.History
	Attempts  AttemptStore
	Clipboard reports.Clipboard
	Rand      *rand.Rand
	Now       func() time.Time
}

// QuotesMsg replaces the drill corpus, e.g. after the corpus file changed.
type QuotesMsg struct {
	Quotes []corpus.Quote
}

type releaseMsg struct {
	key   model.KeyIdentity
	token uint64
}

type clearErrorMsg struct {
	seq uint64
}

type frameMsg struct {
	gen uint64
}

// App is the root Bubble Tea model.
type App struct {
	cfg    model.Config
	os     keyboard.OS
	layout keyboard.Layout
	deps   Deps
	now    func() time.Time
	log    *zap.Logger

	tracker  *session.Tracker
	engine   *drill.Engine
	router   *input.Router
	releaser *input.Releaser
	emitter  *feedback.Emitter
	reports  *reportsView

	keys globalKeys
	help help.Model

	screen     screen
	prevScreen screen
	width      int
	height     int

	frameGen  uint64
	animating bool
	notice    string
	noticeErr bool
}

// NewApp builds the root model from resolved configuration.
func NewApp(cfg model.Config, deps Deps) (*App, error) {
	os, err := keyboard.ParseOS(cfg.OS)
	if err != nil {
		return nil, err
	}
	layout, err := keyboard.ParseLayout(cfg.Layout)
	if err != nil {
		return nil, err
	}
	if cfg.ReleaseAfter <= 0 {
		cfg.ReleaseAfter = DefaultReleaseAfter
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	var picker drill.Picker
	if deps.Picker != nil {
		picker = deps.Picker
	}

	tracker := session.New(
		session.WithChatterWindow(cfg.ChatterWindow),
		session.WithHistoryLimit(cfg.HistoryLimit),
	)
	engine := drill.New(picker,
		drill.WithKeepStreaks(cfg.KeepStreaks),
		drill.WithResetOnExit(cfg.ResetOnExit),
		drill.WithErrorFlash(cfg.ErrorFlash),
	)
	a := &App{
		cfg:      cfg,
		os:       os,
		layout:   layout,
		deps:     deps,
		now:      now,
		log:      logging.GetLogger().Named("tui"),
		tracker:  tracker,
		engine:   engine,
		router:   input.NewRouter(tracker, engine, deps.Sounds, input.WithSuppressRepeat(cfg.SuppressRepeat)),
		releaser: input.NewReleaser(),
		emitter:  feedback.NewEmitter(deps.Rand),
		reports:  newReportsView(),
		keys:     newGlobalKeys(),
		help:     help.New(),
	}
	if cfg.StartInZen {
		a.enterZen()
	}
	return a, nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.reports.setSize(msg.Width, a.bodyHeight())
		return a, nil
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case releaseMsg:
		if a.releaser.Expire(msg.key, msg.token) {
			a.router.Up(msg.key)
		}
		return a, nil
	case clearErrorMsg:
		a.engine.ClearError(msg.seq)
		return a, nil
	case frameMsg:
		return a, a.stepFrame(msg)
	case QuotesMsg:
		if a.deps.Picker != nil {
			a.deps.Picker.Set(msg.Quotes)
			a.setNotice(fmt.Sprintf("Loaded %d quotes", a.deps.Picker.Len()), false)
		}
		return a, nil
	default:
		return a, nil
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var body string
	switch a.screen {
	case screenZen:
		body = a.viewZen()
	case screenReports:
		body = a.reports.render()
	default:
		body = a.viewTester()
	}
	footer := a.renderFooter()
	if a.width == 0 || a.height == 0 {
		return body + "\n" + footer
	}
	bodyHeight := a.bodyHeight()
	placed := lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	return placed + "\n" + footer
}

func (a *App) bodyHeight() int {
	return max(1, a.height-lipgloss.Height(a.renderFooter())-1)
}

func (a *App) renderFooter() string {
	line := a.help.View(a.helpKeys())
	if a.notice == "" {
		return line
	}
	style := noticeStyle
	if a.noticeErr {
		style = errorStyle
	}
	return style.Render(a.notice) + "\n" + line
}

func (a *App) setNotice(text string, isErr bool) {
	a.notice = text
	a.noticeErr = isErr
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keys.Quit) {
		return tea.Quit
	}
	a.notice = ""
	switch a.screen {
	case screenReports:
		if a.reports.detail || !key.Matches(msg, a.reports.keys.Back) {
			return a.reports.update(msg, a)
		}
		a.closeReports()
		return nil
	case screenZen:
		switch {
		case key.Matches(msg, a.keys.Back), key.Matches(msg, a.keys.Zen):
			a.leaveZen()
			return nil
		case key.Matches(msg, a.keys.Next):
			a.engine.Next()
			a.emitter.Clear()
			return nil
		case key.Matches(msg, a.keys.Reports):
			return a.openReports()
		}
	default:
		switch {
		case key.Matches(msg, a.keys.Zen):
			a.enterZen()
			return nil
		case key.Matches(msg, a.keys.Reports):
			return a.openReports()
		case key.Matches(msg, a.keys.Snapshot):
			a.saveSnapshot()
			return nil
		}
	}
	return a.route(msg)
}

// route feeds a key to the active engine and schedules the follow-up ticks.
func (a *App) route(msg tea.KeyMsg) tea.Cmd {
	var cmds []tea.Cmd
	for _, in := range input.Normalize(msg, a.now()) {
		effects := a.router.Down(in)
		if a.router.Mode() == input.ModeTest && in.Key != "" {
			cmds = append(cmds, a.scheduleRelease(in.Key))
		}
		cmds = append(cmds, a.applyEffects(effects)...)
	}
	return tea.Batch(cmds...)
}

func (a *App) scheduleRelease(k model.KeyIdentity) tea.Cmd {
	token := a.releaser.Arm(k)
	return tea.Tick(a.cfg.ReleaseAfter, func(time.Time) tea.Msg {
		return releaseMsg{key: k, token: token}
	})
}

func (a *App) applyEffects(effects []drill.Effect) []tea.Cmd {
	var cmds []tea.Cmd
	for _, eff := range effects {
		switch e := eff.(type) {
		case drill.Burst:
			a.spawnBurst(e.Index)
			if cmd := a.startFrames(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		case drill.ClearError:
			seq := e.Seq
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg {
				return clearErrorMsg{seq: seq}
			}))
		case drill.Finished:
			a.persistAttempt(e.Result)
		case drill.NextAttempt:
			a.emitter.Clear()
		}
	}
	return cmds
}

func (a *App) enterZen() {
	if a.screen == screenZen {
		return
	}
	a.router.SetMode(input.ModeZen)
	a.screen = screenZen
}

func (a *App) leaveZen() {
	a.router.SetMode(input.ModeTest)
	a.stopFrames()
	a.screen = screenTester
}

func (a *App) openReports() tea.Cmd {
	if a.screen == screenZen {
		a.router.SetMode(input.ModeTest)
		a.stopFrames()
	}
	if a.screen != screenReports {
		a.prevScreen = a.screen
	}
	a.screen = screenReports
	a.reports.setSize(a.width, a.bodyHeight())
	a.reloadReports()
	return nil
}

// closeReports returns to the screen the reports were opened from. Zen keeps
// its attempt while the reports are open.
func (a *App) closeReports() {
	if a.prevScreen == screenZen {
		a.enterZen()
		return
	}
	a.screen = screenTester
}

func (a *App) reloadReports() {
	if a.deps.History == nil {
		a.reports.setReports(nil)
		return
	}
	list, err := a.deps.History.List(context.Background())
	if err != nil {
		a.log.Error("failed to load report history", zap.Error(err))
		a.setNotice("Could not load reports", true)
	}
	a.reports.setReports(list)
}

func (a *App) snapshot() model.ReportSnapshot {
	return reports.NewSnapshot(a.tracker.IsTested, keyboard.All(), a.os, a.now())
}

func (a *App) saveSnapshot() {
	if a.deps.History == nil {
		a.setNotice("Report storage is not available", true)
		return
	}
	snap := a.snapshot()
	if err := a.deps.History.Add(context.Background(), snap); err != nil {
		a.log.Error("failed to save snapshot", zap.Error(err))
		a.setNotice("Could not save snapshot", true)
		return
	}
	a.setNotice(fmt.Sprintf("Saved snapshot %s (%d%%)", snap.Score(), snap.Percentage), false)
}

func (a *App) persistAttempt(res drill.Result) {
	if a.deps.Attempts == nil {
		return
	}
	st := a.engine.State()
	attempt := model.Attempt{
		SessionID:  a.cfg.SessionID,
		StartedAt:  st.StartedAt,
		EndedAt:    st.EndedAt,
		Author:     st.Quote.Author,
		TextLen:    res.Chars,
		Keystrokes: res.Keystrokes,
		Errors:     res.Errors,
		MaxCombo:   res.MaxCombo,
		WPM:        res.WPM,
		Accuracy:   res.Accuracy,
		DurationMs: res.Elapsed.Milliseconds(),
	}
	if _, err := a.deps.Attempts.InsertAttempt(context.Background(), attempt, charMisses(st.Misses)); err != nil {
		a.log.Error("failed to save attempt", zap.Error(err))
		a.setNotice("Could not save attempt", true)
	}
}

func charMisses(misses map[rune]int) []model.CharMiss {
	out := make([]model.CharMiss, 0, len(misses))
	for r, n := range misses {
		out = append(out, model.CharMiss{Char: string(r), Misses: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Char < out[j].Char
	})
	return out
}
