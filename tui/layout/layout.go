// Package layout implements word-wrap line layout shared by the message
// area and input area: given a rune sequence and a display width, compute
// where to break lines so that no rendered row exceeds that width.
//
// Grounded on original_source's LineDataCache::calculate_height
// (crates/libtiny_tui/src/line_split.rs): the same single-pass scan that
// tracks current line length, the last whitespace seen, and falls back to
// an unclean mid-word split only when a word alone is wider than the
// available line width. Re-expressed as a pure function returning a
// Layout value rather than mutated cache fields, since Go's GC makes the
// teacher's dirty-bit cache-invalidation dance unnecessary: callers that
// want caching keep the returned Layout value themselves.
package layout

import "github.com/mattn/go-runewidth"

// DisplayWidth returns the terminal column width of r, accounting for wide
// (e.g. CJK) and zero-width characters - spec.md's "wide characters"
// invariant, which the teacher's bot-framework codebase never needed since
// it has no rendering surface.
func DisplayWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// Layout is the result of wrapping a line of text to a fixed width.
type Layout struct {
	// Splits holds the rune index (not byte index) of the first rune of
	// each row after the first.
	Splits []int
	// Rows is the total number of rendered rows, always >= 1.
	Rows int
}

// Wrap lays out text (already split into display runs by the caller - this
// package only knows about []rune, not styling) to firstWidth columns for
// its first row and restWidth columns for every subsequent row (the input
// area and the "Aligned" message layout mode both show a first-line prefix
// - nick or timestamp+nick - that doesn't repeat on wrapped continuation
// rows).
func Wrap(text []rune, firstWidth, restWidth int) Layout {
	if firstWidth <= 0 {
		firstWidth = 1
	}
	if restWidth <= 0 {
		restWidth = 1
	}

	lay := Layout{Rows: 1}
	lineWidth := firstWidth
	curLen := 0
	lastWhitespace := -1

	for i, r := range text {
		w := DisplayWidth(r)
		curLen += w

		if isSpace(r) {
			if curLen > lineWidth {
				lay.Rows++
				curLen = w
				lineWidth = restWidth
				lay.Splits = append(lay.Splits, i)
			}
			lastWhitespace = i
			continue
		}

		if curLen > lineWidth {
			lineWidth = restWidth
			if lastWhitespace >= 0 && i-lastWhitespace <= lineWidth {
				curLen = i - lastWhitespace
				lay.Splits = append(lay.Splits, lastWhitespace+1)
			} else {
				curLen = w
				lay.Splits = append(lay.Splits, i)
			}
			lastWhitespace = -1
			lay.Rows++
		}
	}

	return lay
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

// StringWidth sums the display width of every rune in s, the common case
// callers reach for when they just need total row width, not a full Wrap.
func StringWidth(s string) int {
	total := 0
	for _, r := range s {
		total += DisplayWidth(r)
	}
	return total
}
