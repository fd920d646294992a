package keyboard

import (
	"testing"

	"github.com/verte-zerg/keyzen/internal/model"
)

func TestInventoryCodesUnique(t *testing.T) {
	seen := map[model.KeyIdentity]bool{}
	for _, k := range All() {
		if seen[k.Code] {
			t.Fatalf("duplicate key code %s", k.Code)
		}
		seen[k.Code] = true
		if k.Width <= 0 {
			t.Fatalf("key %s has no width", k.Code)
		}
	}
	if len(seen) != 104 {
		t.Fatalf("expected 104 keys, got %d", len(seen))
	}
}

func TestCompactHidesNumpad(t *testing.T) {
	for _, row := range VisibleRows(LayoutCompact) {
		for _, k := range row {
			if k.Kind == KindNumpad {
				t.Fatalf("compact layout shows numpad key %s", k.Code)
			}
		}
	}
	if len(All()) == 0 || len(Rows()) != 6 {
		t.Fatalf("compact filtering must not modify the inventory")
	}
	if _, ok := Lookup("NumpadAdd"); !ok {
		t.Fatalf("expected numpad keys in the full inventory")
	}
}

func TestLabelOverrides(t *testing.T) {
	meta, _ := Lookup("MetaLeft")
	alt, _ := Lookup("AltRight")
	metaRight, _ := Lookup("MetaRight")
	cases := []struct {
		key  Key
		os   OS
		want string
	}{
		{meta, OSMac, "Cmd"},
		{meta, OSWin, "Win"},
		{metaRight, OSWin, "Menu"},
		{alt, OSMac, "Option"},
		{alt, OSWin, "Alt"},
	}
	for _, tc := range cases {
		if got := Label(tc.key, tc.os); got != tc.want {
			t.Fatalf("Label(%s, %s) = %q, want %q", tc.key.Code, tc.os, got, tc.want)
		}
	}
}

func TestParseOS(t *testing.T) {
	if os, err := ParseOS("mac"); err != nil || os != OSMac {
		t.Fatalf("expected mac, got %v %v", os, err)
	}
	if _, err := ParseOS("amiga"); err == nil {
		t.Fatalf("expected error for unknown os")
	}
	if _, err := ParseLayout("tiny"); err == nil {
		t.Fatalf("expected error for unknown layout")
	}
}
