package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type globalKeys struct {
	Quit     key.Binding
	Zen      key.Binding
	Reports  key.Binding
	Snapshot key.Binding
	Back     key.Binding
	Next     key.Binding
}

func newGlobalKeys() globalKeys {
	return globalKeys{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Zen:      key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "zen mode")),
		Reports:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reports")),
		Snapshot: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save snapshot")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Next:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new quote")),
	}
}

type reportKeys struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	New    key.Binding
	Delete key.Binding
	Copy   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func newReportKeys() reportKeys {
	return reportKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new snapshot")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Copy:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// screenHelp adapts a fixed binding list to help.KeyMap.
type screenHelp []key.Binding

func (h screenHelp) ShortHelp() []key.Binding { return h }

func (h screenHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

func (a *App) helpKeys() screenHelp {
	switch a.screen {
	case screenZen:
		return screenHelp{a.keys.Back, a.keys.Next, a.keys.Reports, a.keys.Quit}
	case screenReports:
		k := a.reports.keys
		if a.reports.detail {
			return screenHelp{k.Back, k.Copy, k.Delete, k.Quit}
		}
		return screenHelp{k.Up, k.Down, k.Open, k.New, k.Delete, k.Copy, k.Back}
	default:
		return screenHelp{a.keys.Zen, a.keys.Snapshot, a.keys.Reports, a.keys.Quit}
	}
}
