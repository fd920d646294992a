// Package keyboard holds the static key inventory and its OS label variants.
package keyboard

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/verte-zerg/keyzen/internal/model"
)

// Kind groups keys by role.
type Kind string

// Key kinds.
const (
	KindAlpha    Kind = "alpha"
	KindDigit    Kind = "digit"
	KindSymbol   Kind = "symbol"
	KindModifier Kind = "modifier"
	KindFunction Kind = "function"
	KindControl  Kind = "control"
	KindSpace    Kind = "space"
	KindNav      Kind = "nav"
	KindNumpad   Kind = "numpad"
)

// Key describes one physical key. Width is in key units (1u = a letter key).
type Key struct {
	Code  model.KeyIdentity
	Label string
	Width float64
	Icon  string
	Kind  Kind
}

// Layout selects which keys are drawn.
type Layout int

// Layouts.
const (
	LayoutFull Layout = iota
	LayoutCompact
)

// ParseLayout parses "full" or "compact".
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return LayoutFull, nil
	case "compact":
		return LayoutCompact, nil
	default:
		return LayoutFull, fmt.Errorf("unknown layout %q (want full or compact)", s)
	}
}

// OS selects modifier labels.
type OS int

// Supported label variants.
const (
	OSMac OS = iota
	OSWin
)

func (o OS) String() string {
	if o == OSMac {
		return "mac"
	}
	return "win"
}

// DetectOS picks the label variant for the running platform.
func DetectOS() OS {
	if runtime.GOOS == "darwin" {
		return OSMac
	}
	return OSWin
}

// ParseOS parses "auto", "mac" or "win".
func ParseOS(s string) (OS, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DetectOS(), nil
	case "mac", "macos", "darwin":
		return OSMac, nil
	case "win", "windows", "linux", "pc":
		return OSWin, nil
	default:
		return OSWin, fmt.Errorf("unknown os %q (want auto, mac or win)", s)
	}
}

// Label returns the key's label for the given OS.
func Label(k Key, os OS) string {
	switch k.Code {
	case "MetaLeft":
		if os == OSMac {
			return "Cmd"
		}
		return "Win"
	case "MetaRight":
		if os == OSMac {
			return "Cmd"
		}
		return "Menu"
	case "AltLeft", "AltRight":
		if os == OSMac {
			return "Option"
		}
		return "Alt"
	}
	return k.Label
}

// Rows returns the full inventory partitioned into display rows.
func Rows() [][]Key {
	out := make([][]Key, len(rows))
	for i, row := range rows {
		out[i] = append([]Key(nil), row...)
	}
	return out
}

// VisibleRows returns the rows drawn for layout.
func VisibleRows(layout Layout) [][]Key {
	all := Rows()
	if layout != LayoutCompact {
		return all
	}
	for i, row := range all {
		kept := row[:0]
		for _, k := range row {
			if k.Kind != KindNumpad {
				kept = append(kept, k)
			}
		}
		all[i] = kept
	}
	return all
}

// All returns every key in row order.
func All() []Key {
	var out []Key
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

// Lookup finds a key by code.
func Lookup(code model.KeyIdentity) (Key, bool) {
	for _, row := range rows {
		for _, k := range row {
			if k.Code == code {
				return k, true
			}
		}
	}
	return Key{}, false
}
