// Package input turns terminal key messages into key events and routes them.
package input

import (
	"strings"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/keyzen/internal/model"
)

type namedKey struct {
	code  model.KeyIdentity
	text  string
	shift bool
	ctrl  bool
}

var namedKeys = map[tea.KeyType]namedKey{
	tea.KeyEnter:      {code: "Enter", text: "Enter"},
	tea.KeyTab:        {code: "Tab", text: "Tab"},
	tea.KeyShiftTab:   {code: "Tab", text: "Tab", shift: true},
	tea.KeyBackspace:  {code: "Backspace", text: "Backspace"},
	tea.KeyEsc:        {code: "Escape", text: "Escape"},
	tea.KeyDelete:     {code: "Delete", text: "Delete"},
	tea.KeyInsert:     {code: "Insert", text: "Insert"},
	tea.KeyHome:       {code: "Home", text: "Home"},
	tea.KeyEnd:        {code: "End", text: "End"},
	tea.KeyPgUp:       {code: "PageUp", text: "PageUp"},
	tea.KeyPgDown:     {code: "PageDown", text: "PageDown"},
	tea.KeyUp:         {code: "ArrowUp", text: "ArrowUp"},
	tea.KeyDown:       {code: "ArrowDown", text: "ArrowDown"},
	tea.KeyLeft:       {code: "ArrowLeft", text: "ArrowLeft"},
	tea.KeyRight:      {code: "ArrowRight", text: "ArrowRight"},
	tea.KeyShiftUp:    {code: "ArrowUp", text: "ArrowUp", shift: true},
	tea.KeyShiftDown:  {code: "ArrowDown", text: "ArrowDown", shift: true},
	tea.KeyShiftLeft:  {code: "ArrowLeft", text: "ArrowLeft", shift: true},
	tea.KeyShiftRight: {code: "ArrowRight", text: "ArrowRight", shift: true},
	tea.KeyCtrlUp:     {code: "ArrowUp", text: "ArrowUp", ctrl: true},
	tea.KeyCtrlDown:   {code: "ArrowDown", text: "ArrowDown", ctrl: true},
	tea.KeyCtrlLeft:   {code: "ArrowLeft", text: "ArrowLeft", ctrl: true},
	tea.KeyCtrlRight:  {code: "ArrowRight", text: "ArrowRight", ctrl: true},
	tea.KeyF1:         {code: "F1", text: "F1"},
	tea.KeyF2:         {code: "F2", text: "F2"},
	tea.KeyF3:         {code: "F3", text: "F3"},
	tea.KeyF4:         {code: "F4", text: "F4"},
	tea.KeyF5:         {code: "F5", text: "F5"},
	tea.KeyF6:         {code: "F6", text: "F6"},
	tea.KeyF7:         {code: "F7", text: "F7"},
	tea.KeyF8:         {code: "F8", text: "F8"},
	tea.KeyF9:         {code: "F9", text: "F9"},
	tea.KeyF10:        {code: "F10", text: "F10"},
	tea.KeyF11:        {code: "F11", text: "F11"},
	tea.KeyF12:        {code: "F12", text: "F12"},
}

type runeKey struct {
	code  model.KeyIdentity
	shift bool
}

var symbolKeys = map[rune]runeKey{
	' ': {"Space", false},
	'`': {"Backquote", false}, '~': {"Backquote", true},
	'1': {"Digit1", false}, '!': {"Digit1", true},
	'2': {"Digit2", false}, '@': {"Digit2", true},
	'3': {"Digit3", false}, '#': {"Digit3", true},
	'4': {"Digit4", false}, '$': {"Digit4", true},
	'5': {"Digit5", false}, '%': {"Digit5", true},
	'6': {"Digit6", false}, '^': {"Digit6", true},
	'7': {"Digit7", false}, '&': {"Digit7", true},
	'8': {"Digit8", false}, '*': {"Digit8", true},
	'9': {"Digit9", false}, '(': {"Digit9", true},
	'0': {"Digit0", false}, ')': {"Digit0", true},
	'-': {"Minus", false}, '_': {"Minus", true},
	'=': {"Equal", false}, '+': {"Equal", true},
	'[': {"BracketLeft", false}, '{': {"BracketLeft", true},
	']': {"BracketRight", false}, '}': {"BracketRight", true},
	'\\': {"Backslash", false}, '|': {"Backslash", true},
	';': {"Semicolon", false}, ':': {"Semicolon", true},
	'\'': {"Quote", false}, '"': {"Quote", true},
	',': {"Comma", false}, '<': {"Comma", true},
	'.': {"Period", false}, '>': {"Period", true},
	'/': {"Slash", false}, '?': {"Slash", true},
}

// Normalize converts a Bubble Tea key message into key-down inputs.
// Messages carrying several runes yield one input per rune. Pastes yield nothing.
func Normalize(msg tea.KeyMsg, now time.Time) []model.KeyInput {
	if msg.Paste {
		return nil
	}
	mods := model.Modifiers{Alt: msg.Alt}

	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		runes := msg.Runes
		if msg.Type == tea.KeySpace && len(runes) == 0 {
			runes = []rune{' '}
		}
		out := make([]model.KeyInput, 0, len(runes))
		for _, r := range runes {
			code, shift := CodeForRune(r)
			m := mods
			m.Shift = shift
			out = append(out, model.KeyInput{Key: code, Text: string(r), Mods: m, At: now})
		}
		return out
	}

	if named, ok := namedKeys[msg.Type]; ok {
		m := mods
		m.Shift = named.shift
		m.Ctrl = named.ctrl
		return []model.KeyInput{{Key: named.code, Text: named.text, Mods: m, At: now}}
	}

	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		letter := rune('a' + int(msg.Type-tea.KeyCtrlA))
		m := mods
		m.Ctrl = true
		return []model.KeyInput{{
			Key:  model.KeyIdentity("Key" + strings.ToUpper(string(letter))),
			Text: string(letter),
			Mods: m,
			At:   now,
		}}
	}
	return nil
}

// CodeForRune maps a typed character to the US-layout key that produces it.
// Unknown characters map to an empty code.
func CodeForRune(r rune) (model.KeyIdentity, bool) {
	if r < unicode.MaxASCII && unicode.IsLetter(r) {
		return model.KeyIdentity("Key" + string(unicode.ToUpper(r))), unicode.IsUpper(r)
	}
	if k, ok := symbolKeys[r]; ok {
		return k.code, k.shift
	}
	return "", false
}
