// Package tabs implements the ordered tab list shared across a TUI's
// server/channel/user views: selection, style escalation on background
// activity, and the choice between two on-screen layouts (bottom tab-line,
// left tab-panel).
//
// Grounded on original_source's Tab/TabArea (libtiny_tui/src/tab.rs and
// libtiny_tui/src/tab_area/{mod,tab_line,tab_panel}.rs) for the data model
// and the active-index/select_tab navigation; re-expressed without the
// Rust enum-of-layouts dispatch since Go prefers a single struct with a
// Layout field switched on at render time.
package tabs

// Style is the visual escalation level of a tab that isn't the active one.
type Style int

const (
	Normal Style = iota
	JoinOrPart
	NewMsg
	Highlight
)

// escalate returns the more urgent of the two styles, per spec.md §4.9's
// escalation-only-upward rule: activity never downgrades a tab's style,
// only switching to it (via Select) resets it to Normal.
func escalate(cur, next Style) Style {
	if next > cur {
		return next
	}
	return cur
}

// Kind discriminates what a tab represents.
type Kind int

const (
	KindServer Kind = iota
	KindChannel
	KindUser
)

// Tab is one entry in the tab list.
type Tab struct {
	Name   string // visible name: server name, "#channel", or nick
	Kind   Kind
	Server string // owning server's name, for grouping/sorting
	Style  Style
	// Switch is the Alt+<char> binding for jumping directly to this tab,
	// or 0 if none is assigned.
	Switch rune
}

// Layout names an on-screen presentation of the tab list. List only records
// the selected Layout and has no drawing code; package tui draws the bottom
// tab line whichever Layout is set.
type Layout int

const (
	// TabLine is a single bottom row of tab names.
	TabLine Layout = iota
	// TabPanel is a narrow vertical column of one tab per row.
	TabPanel
)

// List is the ordered tab set for one TUI instance.
type List struct {
	tabs      []*Tab
	activeIdx int
	layout    Layout
}

// New returns an empty List using the bottom tab-line layout.
func New() *List {
	return &List{}
}

// SetLayout switches between TabLine and TabPanel presentation.
func (l *List) SetLayout(layout Layout) { l.layout = layout }

// Layout returns the current layout.
func (l *List) Layout() Layout { return l.layout }

// Tabs returns the ordered tab list.
func (l *List) Tabs() []*Tab { return l.tabs }

// ActiveIdx returns the index of the currently selected tab.
func (l *List) ActiveIdx() int { return l.activeIdx }

// Active returns the currently selected tab, or nil if the list is empty.
func (l *List) Active() *Tab {
	if l.activeIdx < 0 || l.activeIdx >= len(l.tabs) {
		return nil
	}
	return l.tabs[l.activeIdx]
}

// Add appends a new tab and returns its index. If a tab with the same
// Server already exists, the new tab is inserted directly after the last
// tab of that server to keep server groups contiguous - the grouping
// move_tab_left/move_tab_right preserve in the original.
func (l *List) Add(t *Tab) int {
	insertAt := len(l.tabs)
	for i := len(l.tabs) - 1; i >= 0; i-- {
		if l.tabs[i].Server == t.Server {
			insertAt = i + 1
			break
		}
	}
	l.tabs = append(l.tabs, nil)
	copy(l.tabs[insertAt+1:], l.tabs[insertAt:])
	l.tabs[insertAt] = t
	if len(l.tabs) > 1 && insertAt <= l.activeIdx {
		l.activeIdx++
	}
	return insertAt
}

// Remove deletes the tab at idx, adjusting the active index so it still
// points at a valid tab when possible.
func (l *List) Remove(idx int) {
	if idx < 0 || idx >= len(l.tabs) {
		return
	}
	l.tabs = append(l.tabs[:idx], l.tabs[idx+1:]...)
	switch {
	case len(l.tabs) == 0:
		l.activeIdx = 0
	case l.activeIdx > idx:
		l.activeIdx--
	case l.activeIdx >= len(l.tabs):
		l.activeIdx = len(l.tabs) - 1
	}
}

// Select switches the active tab to idx and resets its style to Normal.
func (l *List) Select(idx int) {
	if idx < 0 || idx >= len(l.tabs) {
		return
	}
	l.activeIdx = idx
	l.tabs[idx].Style = Normal
}

// SelectSwitchChar selects the first tab bound to the given Alt+<char>
// switch key, reporting whether one was found.
func (l *List) SelectSwitchChar(c rune) bool {
	for i, t := range l.tabs {
		if t.Switch == c {
			l.Select(i)
			return true
		}
	}
	return false
}

// Next selects the next tab, wrapping around to the first.
func (l *List) Next() {
	if len(l.tabs) == 0 {
		return
	}
	l.Select((l.activeIdx + 1) % len(l.tabs))
}

// Prev selects the previous tab, wrapping around to the last.
func (l *List) Prev() {
	if len(l.tabs) == 0 {
		return
	}
	l.Select((l.activeIdx - 1 + len(l.tabs)) % len(l.tabs))
}

// Notify escalates the style of the tab at idx, unless it's the active
// tab (which never needs a style, since it's always shown as selected).
func (l *List) Notify(idx int, style Style) {
	if idx < 0 || idx >= len(l.tabs) || idx == l.activeIdx {
		return
	}
	l.tabs[idx].Style = escalate(l.tabs[idx].Style, style)
}

// Find returns the index of the tab with the given name and server, or -1.
func (l *List) Find(server, name string) int {
	for i, t := range l.tabs {
		if t.Server == server && t.Name == name {
			return i
		}
	}
	return -1
}

// PanelWidth returns the column width of the left tab-panel layout for a
// terminal of the given total width, following the original's
// calculate_panel_width: roughly a third of the screen, never more than
// 24 columns.
func PanelWidth(totalWidth int) int {
	w := totalWidth / 3
	if w > 24 {
		w = 24
	}
	if w < 1 {
		w = 1
	}
	return w
}
