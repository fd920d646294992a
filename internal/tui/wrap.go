package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
	index   int
}

type cell struct {
	x, y int
}

// buildStyledRunes styles the drill target. Runes before caret are typed,
// the caret rune is underlined or flashed, and the word under the caret is highlighted.
func buildStyledRunes(targetRunes []rune, caret int, errorFlag bool) []styledRune {
	words := findWords(targetRunes)
	cursorIndex := caret
	if caret >= len(targetRunes) {
		cursorIndex = -1
	}
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		style := pendingStyle
		switch {
		case i < caret:
			style = correctStyle
		case i == cursorIndex && errorFlag:
			style = flashStyle
			if target == ' ' {
				displayed = '·'
			}
		case i == cursorIndex:
			style = cursorStyle
		case target != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end:
			style = currentWordStyle
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
			index:   i,
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(targetRunes []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range targetRunes {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(targetRunes)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// layoutStyledRunes breaks runes into lines no wider than width, preferring
// to break at spaces. The space at a break is dropped.
func layoutStyledRunes(runes []styledRune, width int) [][]styledRune {
	if width <= 0 {
		return [][]styledRune{runes}
	}
	var lines [][]styledRune
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				lines = append(lines, line[:lastSpaceIdx])
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				lines = append(lines, line)
				line = []styledRune{}
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	return append(lines, line)
}

func wrapStyledRunes(runes []styledRune, width int) string {
	lines := layoutStyledRunes(runes, width)
	rendered := make([]string, len(lines))
	for i, line := range lines {
		rendered[i] = renderStyledRunes(line)
	}
	return strings.Join(rendered, "\n")
}

// runePositions maps each rune index to its cell within the wrapped block.
// Spaces dropped at line breaks sit just past the end of their line.
func runePositions(lines [][]styledRune, count int) []cell {
	pos := make([]cell, count)
	for i := range pos {
		pos[i] = cell{x: -1, y: -1}
	}
	for y, line := range lines {
		x := 0
		for _, item := range line {
			if item.index >= 0 && item.index < count {
				pos[item.index] = cell{x: x, y: y}
			}
			x += item.width
		}
	}
	for i := range pos {
		if pos[i].y >= 0 {
			continue
		}
		if i > 0 && pos[i-1].y >= 0 {
			pos[i] = cell{x: pos[i-1].x + 1, y: pos[i-1].y}
		} else {
			pos[i] = cell{}
		}
	}
	return pos
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
