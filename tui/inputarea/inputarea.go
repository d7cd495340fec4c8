// Package inputarea implements the single-line (possibly wrapped) text
// entry widget: an edit buffer, cursor motion, input history, and
// trie-backed autocompletion.
//
// Grounded on original_source's InputLine (crates/libtiny_tui/src/
// input_area/input_line.rs) for the buffer/cursor/height-cache shape, and
// on the teacher's irc/network_info.go for the mutex-guarded small-struct
// style. New package: the teacher's bot framework has no input widget.
package inputarea

import (
	"strings"
	"unicode"

	"github.com/aarondl/wick/trie"
	"github.com/aarondl/wick/tui/layout"
)

// Buffer holds the edit state for one input line: runes, a rune-indexed
// cursor, and a cached wrapped-layout height.
type Buffer struct {
	runes  []rune
	cursor int

	cachedWidth, cachedNickLen int
	cachedHeight               int
	dirty                      bool
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{dirty: true}
}

// FromString seeds a Buffer with existing text, cursor at the end - the
// shape history recall needs.
func FromString(s string) *Buffer {
	b := &Buffer{runes: []rune(s), dirty: true}
	b.cursor = len(b.runes)
	return b
}

// String returns the buffer's current contents.
func (b *Buffer) String() string { return string(b.runes) }

// Len returns the number of runes in the buffer.
func (b *Buffer) Len() int { return len(b.runes) }

// Cursor returns the current rune-indexed cursor position.
func (b *Buffer) Cursor() int { return b.cursor }

// InsertRune inserts r at the cursor and advances the cursor past it.
func (b *Buffer) InsertRune(r rune) {
	b.runes = append(b.runes, 0)
	copy(b.runes[b.cursor+1:], b.runes[b.cursor:])
	b.runes[b.cursor] = r
	b.cursor++
	b.dirty = true
}

// InsertString inserts each rune of s at the cursor.
func (b *Buffer) InsertString(s string) {
	for _, r := range s {
		b.InsertRune(r)
	}
}

// DeleteBackward removes the rune before the cursor (backspace). Reports
// whether anything was deleted.
func (b *Buffer) DeleteBackward() bool {
	if b.cursor == 0 {
		return false
	}
	b.runes = append(b.runes[:b.cursor-1], b.runes[b.cursor:]...)
	b.cursor--
	b.dirty = true
	return true
}

// DeleteForward removes the rune under the cursor (delete key).
func (b *Buffer) DeleteForward() bool {
	if b.cursor >= len(b.runes) {
		return false
	}
	b.runes = append(b.runes[:b.cursor], b.runes[b.cursor+1:]...)
	b.dirty = true
	return true
}

// DeleteRange removes runes in [start, end).
func (b *Buffer) DeleteRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(b.runes) {
		end = len(b.runes)
	}
	if start >= end {
		return
	}
	b.runes = append(b.runes[:start], b.runes[end:]...)
	if b.cursor > end {
		b.cursor -= end - start
	} else if b.cursor > start {
		b.cursor = start
	}
	b.dirty = true
}

// MoveLeft/MoveRight move the cursor by one rune, clamped to bounds.
func (b *Buffer) MoveLeft() {
	if b.cursor > 0 {
		b.cursor--
	}
}

func (b *Buffer) MoveRight() {
	if b.cursor < len(b.runes) {
		b.cursor++
	}
}

// Home/End move the cursor to the start/end of the buffer.
func (b *Buffer) Home() { b.cursor = 0 }
func (b *Buffer) End()  { b.cursor = len(b.runes) }

// WordLeft moves the cursor to the start of the previous word.
func (b *Buffer) WordLeft() {
	i := b.cursor
	for i > 0 && unicode.IsSpace(b.runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(b.runes[i-1]) {
		i--
	}
	b.cursor = i
}

// WordRight moves the cursor past any whitespace and then to the end of the
// word that follows.
func (b *Buffer) WordRight() {
	i := b.cursor
	n := len(b.runes)
	for i < n && unicode.IsSpace(b.runes[i]) {
		i++
	}
	for i < n && !unicode.IsSpace(b.runes[i]) {
		i++
	}
	b.cursor = i
}

// DeleteWordBackward deletes the word immediately before the cursor.
func (b *Buffer) DeleteWordBackward() {
	end := b.cursor
	b.WordLeft()
	start := b.cursor
	b.DeleteRange(start, end)
}

// wordBounds returns the [start,end) rune range of the word the cursor sits
// within or immediately after - the span autocompletion replaces.
func (b *Buffer) wordBounds() (start, end int) {
	start, end = b.cursor, b.cursor
	for start > 0 && !unicode.IsSpace(b.runes[start-1]) {
		start--
	}
	for end < len(b.runes) && !unicode.IsSpace(b.runes[end]) {
		end++
	}
	return start, end
}

// Height returns the wrapped row count at the given width, honoring the
// Aligned-style nick-length indent, recomputing only when width, nickLen,
// or the buffer content changed since the last call.
func (b *Buffer) Height(width, nickLen int) int {
	if !b.dirty && b.cachedWidth == width && b.cachedNickLen == nickLen {
		return b.cachedHeight
	}
	rest := width - nickLen
	if rest <= 0 {
		rest = 1
	}
	lay := layout.Wrap(b.runes, width, rest)
	b.cachedHeight = lay.Rows
	b.cachedWidth = width
	b.cachedNickLen = nickLen
	b.dirty = false
	return b.cachedHeight
}

// History is a ring of previously submitted lines with an up/down cursor,
// preserving whatever the user was typing before they started recalling
// history so it isn't lost when they cycle back down past the newest
// entry.
type History struct {
	entries []string
	cap     int
	idx     int // -1 means "not currently recalling"
	draft   string
}

// NewHistory returns an empty History bounded to capacity entries.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{cap: capacity, idx: -1}
}

// Push records a submitted line, evicting the oldest entry if full, and
// resets recall state.
func (h *History) Push(line string) {
	if line == "" {
		return
	}
	h.entries = append(h.entries, line)
	if len(h.entries) > h.cap {
		h.entries = h.entries[len(h.entries)-h.cap:]
	}
	h.idx = -1
	h.draft = ""
}

// Up recalls the previous (older) history entry, stashing the caller's
// current draft the first time it's called. Returns "", false at the
// oldest entry.
func (h *History) Up(currentDraft string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.idx == -1 {
		h.draft = currentDraft
		h.idx = len(h.entries) - 1
	} else if h.idx > 0 {
		h.idx--
	} else {
		return "", false
	}
	return h.entries[h.idx], true
}

// Down recalls the next (newer) history entry, or restores the
// pre-history draft once the newest entry is passed.
func (h *History) Down() (string, bool) {
	if h.idx == -1 {
		return "", false
	}
	if h.idx < len(h.entries)-1 {
		h.idx++
		return h.entries[h.idx], true
	}
	h.idx = -1
	draft := h.draft
	h.draft = ""
	return draft, true
}

// Completer drives Tab-key cycling through candidates matching the word
// under the cursor, sourced from a trie (nicknames, channel names, command
// names - whatever the caller seeded it with).
type Completer struct {
	source *trie.Trie

	active      bool
	candidates  []string
	idx         int
	wordStart   int
	wordEnd     int
}

// NewCompleter returns a Completer backed by source.
func NewCompleter(source *trie.Trie) *Completer {
	return &Completer{source: source}
}

// Cycle advances to the next completion candidate for the word under b's
// cursor, starting a new completion session if one isn't already active,
// and rewrites b's buffer in place. Returns false if there are no
// candidates.
func (c *Completer) Cycle(b *Buffer) bool {
	if !c.active {
		start, end := b.wordBounds()
		word := string(b.runes[start:end])
		if word == "" {
			return false
		}
		c.candidates = c.source.DropPfx(word)
		if len(c.candidates) == 0 {
			return false
		}
		c.active = true
		c.idx = 0
		c.wordStart = start
		c.wordEnd = end
	} else {
		c.idx = (c.idx + 1) % len(c.candidates)
	}

	replacement := c.candidates[c.idx]
	b.DeleteRange(c.wordStart, c.wordEnd)
	b.cursor = c.wordStart
	b.InsertString(replacement)
	c.wordEnd = c.wordStart + len([]rune(replacement))
	return true
}

// Reset ends the current completion session; any subsequent Cycle starts
// fresh from the buffer's current word.
func (c *Completer) Reset() {
	c.active = false
	c.candidates = nil
}

// Active reports whether a completion cycling session is in progress.
func (c *Completer) Active() bool { return c.active }

// Span returns the [start, end) rune range of the buffer currently occupied
// by the inserted completion candidate, for the draw path to highlight with
// the Completion style (spec.md §4.8). ok is false when no completion
// session is active.
func (c *Completer) Span() (start, end int, ok bool) {
	if !c.active {
		return 0, 0, false
	}
	return c.wordStart, c.wordEnd, true
}

// SplitPasteLines splits a multi-line paste into individual non-comment
// lines for ingestion as separate input events, per the editor round-trip
// behaviour: lines beginning with '#' are treated as comments and dropped,
// matching a conventional $EDITOR scratch-file convention; a blank line
// would otherwise submit as an empty message, so it is sent as a single
// space instead.
func SplitPasteLines(paste string) []string {
	var out []string
	for _, line := range strings.Split(paste, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if line == "" {
			line = " "
		}
		out = append(out, line)
	}
	return out
}
