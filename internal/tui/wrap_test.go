package tui

import (
	"strings"
	"testing"
)

func TestBuildStyledRunesCursor(t *testing.T) {
	runes := buildStyledRunes([]rune("ab"), 1, false)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != cursorStyle.Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildStyledRunesNoCursorWhenComplete(t *testing.T) {
	runes := buildStyledRunes([]rune("a"), 1, false)
	if len(runes) != 1 {
		t.Fatalf("expected 1 rune, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestBuildStyledRunesFlashesCaretOnError(t *testing.T) {
	runes := buildStyledRunes([]rune("ab"), 1, true)
	if runes[1].s != flashStyle.Render("b") {
		t.Fatalf("expected flash style on caret rune")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	runes := buildStyledRunes([]rune("one two"), 1, false)
	if runes[0].s != correctStyle.Render("o") {
		t.Fatalf("expected correct style for typed rune")
	}
	if runes[1].s != cursorStyle.Render("n") {
		t.Fatalf("expected cursor style at caret")
	}
	if runes[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
	if runes[6].s != pendingStyle.Render("o") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesErrorOnSpaceShowsDot(t *testing.T) {
	runes := buildStyledRunes([]rune("a b"), 1, true)
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[1].s != flashStyle.Render("·") {
		t.Fatalf("expected flashed dot for space at caret")
	}
	if !runes[1].isSpace {
		t.Fatalf("expected dot to keep space semantics for wrapping")
	}
}

func plainRunes(text string) []styledRune {
	out := make([]styledRune, 0, len(text))
	for i, r := range []rune(text) {
		out = append(out, styledRune{s: string(r), width: 1, isSpace: r == ' ', index: i})
	}
	return out
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	got := wrapStyledRunes(plainRunes("one two three"), 8)
	want := "one two\nthree"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapStyledRunesSplitsLongWords(t *testing.T) {
	got := wrapStyledRunes(plainRunes("abcdefgh"), 3)
	want := "abc\ndef\ngh"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapStyledRunesZeroWidthKeepsOneLine(t *testing.T) {
	got := wrapStyledRunes(plainRunes("one two"), 0)
	if strings.Contains(got, "\n") {
		t.Fatalf("expected single line, got %q", got)
	}
}

func TestRunePositionsFollowWrapping(t *testing.T) {
	lines := layoutStyledRunes(plainRunes("one two three"), 8)
	pos := runePositions(lines, 13)

	if pos[0] != (cell{x: 0, y: 0}) {
		t.Fatalf("expected first rune at origin, got %+v", pos[0])
	}
	if pos[4] != (cell{x: 4, y: 0}) {
		t.Fatalf("expected 't' of two at 4,0, got %+v", pos[4])
	}
	// The space dropped at the break sits after "two".
	if pos[7] != (cell{x: 7, y: 0}) {
		t.Fatalf("expected dropped space at 7,0, got %+v", pos[7])
	}
	if pos[8] != (cell{x: 0, y: 1}) {
		t.Fatalf("expected 'three' to start the second line, got %+v", pos[8])
	}
}
