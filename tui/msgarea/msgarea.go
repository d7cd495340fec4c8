// Package msgarea implements the scrollback buffer each tab's message
// history lives in: a bounded ring of styled lines, an in-progress line
// builder, a scroll offset, and activity-line coalescing.
//
// Grounded on original_source's MsgArea (crates/libtiny_tui/src/msg_area/
// mod.rs) and the teacher's small-struct, exported-accessor style (e.g.
// irc/network_info.go's mutex-guarded fields). The teacher's codebase has
// no rendering surface of its own, so this whole package is new; it is
// grounded on original_source rather than the teacher.
package msgarea

import (
	"strings"
	"time"

	"github.com/aarondl/wick/irc"
	"github.com/aarondl/wick/tui/layout"
)

// Style is a rendering role for a segment of text; fixed (fg,bg) pairs come
// from mIRC colour escapes, NickHash from a hashed nickname colour, and the
// named roles from the scheme spec.md §3 lists.
type Style struct {
	Role Role
	// FG/BG are used only when Role == StyleFixed; values follow irc.Attr.
	FG, BG int
	// NickHash is used only when Role == StyleNick: the hash bucket chosen
	// for this nickname's colour.
	NickHash int
}

// Role discriminates Style's meaning.
type Role int

const (
	StyleFixed Role = iota
	StyleNick
	StyleUserMsg
	StyleErrMsg
	StyleTopic
	StyleJoin
	StylePart
	StyleNickChange
	StyleFaded
	StyleHighlight
	StyleTimestamp
	// StyleCompletion marks the substring an in-progress autocompletion
	// inserted into the input area, per spec.md §4.8. It never appears in
	// a msgarea.Line - only package tui's input-area draw path uses it -
	// but it lives alongside the other named roles since they share one
	// style vocabulary end to end.
	StyleCompletion
)

// Segment is one (text, style) run within a line.
type Segment struct {
	Text  string
	Style Style
}

// LayoutMode selects how continuation rows of a wrapped line are indented.
type LayoutMode int

const (
	// Compact wraps continuation rows to the full width.
	Compact LayoutMode = iota
	// Aligned indents continuation rows under the first line's text
	// column, by timestampWidth + maxNickLen + 2 columns.
	Aligned
)

// Line is one scrollback entry: a sequence of styled segments plus a cached
// layout, invalidated on resize (per spec.md §3: "rendered-height cache is
// None after resize and recomputed lazily").
type Line struct {
	Segments []Segment
	IsActivity bool
	Timestamp  time.Time

	cachedWidth int
	cachedLay   layout.Layout
}

func (l *Line) text() string {
	var b strings.Builder
	for _, s := range l.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Height returns the rendered row count of l at the given width, using the
// cached layout if width matches, else recomputing and caching it.
func (l *Line) Height(width, nickPad int, mode LayoutMode) int {
	if l.cachedWidth == width && l.cachedLay.Rows > 0 {
		return l.cachedLay.Rows
	}
	first, rest := width, width
	if mode == Aligned {
		rest = width - nickPad
		if rest <= 0 {
			rest = 1
		}
	}
	l.cachedLay = layout.Wrap([]rune(l.text()), first, rest)
	l.cachedWidth = width
	return l.cachedLay.Rows
}

func (l *Line) invalidate() { l.cachedWidth = 0 }

// Area is the bounded scrollback buffer for one tab.
type Area struct {
	capacity int
	lines    []*Line
	cur      []Segment // in-progress line being composed

	scrollOffset int // rendered rows from the bottom; 0 == pinned to bottom
	mode         LayoutMode
	maxNickLen   int

	lastActivityIdx int // -1 when no activity line is cached
}

// New returns an empty Area with the given scrollback capacity.
func New(capacity int) *Area {
	if capacity <= 0 {
		capacity = 1
	}
	return &Area{capacity: capacity, lastActivityIdx: -1}
}

// SetMode configures the layout mode and, for Aligned, the nickname column
// width continuation rows indent under.
func (a *Area) SetMode(mode LayoutMode, maxNickLen int) {
	a.mode = mode
	a.maxNickLen = maxNickLen
	for _, l := range a.lines {
		l.invalidate()
	}
}

// AddText appends text in the given style to the in-progress line.
func (a *Area) AddText(text string, style Style) {
	a.cur = append(a.cur, Segment{Text: text, Style: style})
}

// AddChar appends a single rune in the given style.
func (a *Area) AddChar(c rune, style Style) {
	a.AddText(string(c), style)
}

// FlushLine finalises the in-progress line and appends it to the ring,
// dropping the oldest line if the ring is at capacity. The activity-line
// cache is invalidated by any non-activity flush, per spec.md §4.7.
func (a *Area) FlushLine() {
	if len(a.cur) == 0 {
		return
	}
	line := &Line{Segments: a.cur}
	a.cur = nil
	a.append(line, false)
}

// FlushActivityLine finalises the in-progress line as a join/part/nick
// change activity entry, recording it as the coalescing target for
// subsequent same-minute activity. The kind of activity (join, part or
// nick change) is not compared when coalescing.
func (a *Area) FlushActivityLine() {
	if len(a.cur) == 0 {
		return
	}
	line := &Line{Segments: a.cur, IsActivity: true, Timestamp: time.Now()}
	a.cur = nil
	a.append(line, true)
}

func (a *Area) append(line *Line, isActivity bool) {
	a.lines = append(a.lines, line)
	if len(a.lines) > a.capacity {
		a.lines = a.lines[len(a.lines)-a.capacity:]
		a.lastActivityIdx -= 1
		if a.lastActivityIdx < -1 {
			a.lastActivityIdx = -1
		}
	}
	if isActivity {
		a.lastActivityIdx = len(a.lines) - 1
	} else {
		a.lastActivityIdx = -1
	}
}

// ModifyLine applies f to the line at idx, for activity coalescing. No-op
// if idx is out of range.
func (a *Area) ModifyLine(idx int, f func(*Line)) {
	if idx < 0 || idx >= len(a.lines) {
		return
	}
	f(a.lines[idx])
	a.lines[idx].invalidate()
}

// CoalesceActivity appends extra text to the most recent activity line if
// one exists and was produced in the same clock minute as now, returning
// true if it coalesced. Otherwise the caller should start a fresh activity
// line with AddText/FlushActivityLine.
func (a *Area) CoalesceActivity(extra string, style Style, now time.Time) bool {
	if a.lastActivityIdx < 0 {
		return false
	}
	line := a.lines[a.lastActivityIdx]
	if !sameMinute(line.Timestamp, now) {
		return false
	}
	a.ModifyLine(a.lastActivityIdx, func(l *Line) {
		l.Segments = append(l.Segments, Segment{Text: extra, Style: style})
	})
	return true
}

func sameMinute(a, b time.Time) bool {
	return a.Truncate(time.Minute).Equal(b.Truncate(time.Minute))
}

// Clear discards all scrollback lines and resets scroll state.
func (a *Area) Clear() {
	a.lines = nil
	a.cur = nil
	a.scrollOffset = 0
	a.lastActivityIdx = -1
}

// Lines returns the current scrollback, oldest first.
func (a *Area) Lines() []*Line { return a.lines }

// totalHeight sums every line's rendered row count at width.
func (a *Area) totalHeight(width int) int {
	total := 0
	for _, l := range a.lines {
		total += l.Height(width, a.nickPad(), a.mode)
	}
	return total
}

func (a *Area) nickPad() int {
	if a.mode != Aligned {
		return 0
	}
	// timestamp_width (fixed "HH:MM " => 6) + max_nick_len + 2, per
	// spec.md §4.7.
	return 6 + a.maxNickLen + 2
}

// ScrollUp increases the scroll offset (scrolling toward older content) by
// n rows, clamped to max(0, total_height - visible_height).
func (a *Area) ScrollUp(n, width, visibleHeight int) {
	max := a.totalHeight(width) - visibleHeight
	if max < 0 {
		max = 0
	}
	a.scrollOffset += n
	if a.scrollOffset > max {
		a.scrollOffset = max
	}
}

// ScrollDown decreases the scroll offset (scrolling toward newest content)
// by n rows, clamped to 0.
func (a *Area) ScrollDown(n int) {
	a.scrollOffset -= n
	if a.scrollOffset < 0 {
		a.scrollOffset = 0
	}
}

// PageUp/PageDown scroll by a full visible page.
func (a *Area) PageUp(width, visibleHeight int)   { a.ScrollUp(visibleHeight, width, visibleHeight) }
func (a *Area) PageDown(visibleHeight int)        { a.ScrollDown(visibleHeight) }

// ScrollTop jumps to the oldest content.
func (a *Area) ScrollTop(width, visibleHeight int) {
	max := a.totalHeight(width) - visibleHeight
	if max < 0 {
		max = 0
	}
	a.scrollOffset = max
}

// ScrollBottom returns the offset to 0 (pinned to the newest content).
func (a *Area) ScrollBottom() { a.scrollOffset = 0 }

// ScrollOffset returns the current scroll offset in rendered rows from the
// bottom.
func (a *Area) ScrollOffset() int { return a.scrollOffset }

// StripForNotify renders text with any IRC formatting escapes removed, the
// shape the notifier needs for its message body (package notify).
func StripForNotify(body string) string {
	return irc.StripFormatting(body)
}
