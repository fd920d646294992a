package keyboard

import "github.com/verte-zerg/keyzen/internal/model"

func key(code, label string, width float64, kind Kind) Key {
	return Key{Code: model.KeyIdentity(code), Label: label, Width: width, Kind: kind}
}

func icon(code, label, glyph string, width float64, kind Kind) Key {
	k := key(code, label, width, kind)
	k.Icon = glyph
	return k
}

func letters(s string) []Key {
	out := make([]Key, 0, len(s))
	for _, r := range s {
		out = append(out, key("Key"+string(r), string(r), 1, KindAlpha))
	}
	return out
}

func join(parts ...[]Key) []Key {
	var out []Key
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var rows = [][]Key{
	{
		key("Escape", "Esc", 1, KindControl),
		key("F1", "F1", 1, KindFunction), key("F2", "F2", 1, KindFunction),
		key("F3", "F3", 1, KindFunction), key("F4", "F4", 1, KindFunction),
		key("F5", "F5", 1, KindFunction), key("F6", "F6", 1, KindFunction),
		key("F7", "F7", 1, KindFunction), key("F8", "F8", 1, KindFunction),
		key("F9", "F9", 1, KindFunction), key("F10", "F10", 1, KindFunction),
		key("F11", "F11", 1, KindFunction), key("F12", "F12", 1, KindFunction),
		key("PrintScreen", "PrtSc", 1, KindNav), key("ScrollLock", "ScrLk", 1, KindNav),
		key("Pause", "Pause", 1, KindNav),
	},
	{
		key("Backquote", "`", 1, KindSymbol),
		key("Digit1", "1", 1, KindDigit), key("Digit2", "2", 1, KindDigit),
		key("Digit3", "3", 1, KindDigit), key("Digit4", "4", 1, KindDigit),
		key("Digit5", "5", 1, KindDigit), key("Digit6", "6", 1, KindDigit),
		key("Digit7", "7", 1, KindDigit), key("Digit8", "8", 1, KindDigit),
		key("Digit9", "9", 1, KindDigit), key("Digit0", "0", 1, KindDigit),
		key("Minus", "-", 1, KindSymbol), key("Equal", "=", 1, KindSymbol),
		icon("Backspace", "Bksp", "⌫", 2, KindControl),
		key("Insert", "Ins", 1, KindNav), key("Home", "Home", 1, KindNav), key("PageUp", "PgUp", 1, KindNav),
		key("NumLock", "Num", 1, KindNumpad), key("NumpadDivide", "/", 1, KindNumpad),
		key("NumpadMultiply", "*", 1, KindNumpad), key("NumpadSubtract", "-", 1, KindNumpad),
	},
	join(
		[]Key{icon("Tab", "Tab", "⇥", 1.5, KindControl)},
		letters("QWERTYUIOP"),
		[]Key{
			key("BracketLeft", "[", 1, KindSymbol), key("BracketRight", "]", 1, KindSymbol),
			key("Backslash", "\\", 1.5, KindSymbol),
			key("Delete", "Del", 1, KindNav), key("End", "End", 1, KindNav), key("PageDown", "PgDn", 1, KindNav),
			key("Numpad7", "7", 1, KindNumpad), key("Numpad8", "8", 1, KindNumpad),
			key("Numpad9", "9", 1, KindNumpad), key("NumpadAdd", "+", 1, KindNumpad),
		},
	),
	join(
		[]Key{key("CapsLock", "Caps", 1.75, KindModifier)},
		letters("ASDFGHJKL"),
		[]Key{
			key("Semicolon", ";", 1, KindSymbol), key("Quote", "'", 1, KindSymbol),
			icon("Enter", "Enter", "⏎", 2.25, KindControl),
			key("Numpad4", "4", 1, KindNumpad), key("Numpad5", "5", 1, KindNumpad), key("Numpad6", "6", 1, KindNumpad),
		},
	),
	join(
		[]Key{icon("ShiftLeft", "Shift", "⇧", 2.25, KindModifier)},
		letters("ZXCVBNM"),
		[]Key{
			key("Comma", ",", 1, KindSymbol), key("Period", ".", 1, KindSymbol), key("Slash", "/", 1, KindSymbol),
			icon("ShiftRight", "Shift", "⇧", 2.75, KindModifier),
			icon("ArrowUp", "Up", "↑", 1, KindNav),
			key("Numpad1", "1", 1, KindNumpad), key("Numpad2", "2", 1, KindNumpad),
			key("Numpad3", "3", 1, KindNumpad), key("NumpadEnter", "Ent", 1, KindNumpad),
		},
	),
	{
		key("ControlLeft", "Ctrl", 1.25, KindModifier), key("MetaLeft", "Meta", 1.25, KindModifier),
		key("AltLeft", "Alt", 1.25, KindModifier), key("Space", "Space", 6.25, KindSpace),
		key("AltRight", "Alt", 1.25, KindModifier), key("MetaRight", "Meta", 1.25, KindModifier),
		key("ContextMenu", "Menu", 1.25, KindModifier), key("ControlRight", "Ctrl", 1.25, KindModifier),
		icon("ArrowLeft", "Left", "←", 1, KindNav), icon("ArrowDown", "Down", "↓", 1, KindNav),
		icon("ArrowRight", "Right", "→", 1, KindNav),
		key("Numpad0", "0", 2, KindNumpad), key("NumpadDecimal", ".", 1, KindNumpad),
	},
}
