// Package tui assembles the message area, input area, and tab set into a
// single terminal screen driven by tcell, and exposes the Handle
// interface command handlers and the orchestrator use to mutate it.
//
// Grounded on spec.md §4.10's single-cooperative-loop design and the
// teacher's pump/siphon goroutine-pair idiom (inet/client.go): tcell's
// event polling runs on its own goroutine and only ever produces events
// onto a channel; every mutation of tab/message-area/input-area state
// happens on the one goroutine draining that channel in Run.
package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/aarondl/wick/irc"
	"github.com/aarondl/wick/tui/inputarea"
	"github.com/aarondl/wick/tui/msgarea"
	"github.com/aarondl/wick/tui/tabs"
)

// Handle is the UI-mutation surface exposed to command handlers and the
// orchestrator: everything that isn't rendering or input decoding.
type Handle interface {
	// StatusLine appends a faded status message to the named tab.
	StatusLine(server, tabName, text string)
	// AddTab creates a tab if one doesn't already exist, returning its
	// index either way.
	AddTab(server, name string, kind tabs.Kind) int
	// RemoveTab deletes the named tab, if present.
	RemoveTab(server, name string)
	// AddMessage appends a rendered PRIVMSG/NOTICE line to the named tab,
	// escalating its tab style. It sends no desktop notification.
	AddMessage(server, tabName, nick, body string, isAction, ourNick bool)
	// Notify escalates the named tab's style without adding a message line
	// (used for JOIN/PART/NICK activity coalescing).
	Notify(server, tabName string, style tabs.Style)
	// SwitchTo selects the named tab.
	SwitchTo(server, name string)
	// CurrentTarget reports the currently active tab as a (server, name,
	// kind) triple.
	CurrentTarget() (server, name string, kind tabs.Kind)
}

// TUI is the whole-screen terminal client.
type TUI struct {
	screen tcell.Screen

	list       *tabs.List
	areas      map[*tabs.Tab]*msgarea.Area
	input      *inputarea.Buffer
	history    *inputarea.History
	completer  *inputarea.Completer

	scrollback int // per-tab capacity passed to new msgarea.Areas

	submit func(line string) // invoked with a finished input line

	events chan tcell.Event
	redraw chan struct{}
}

// New constructs a TUI bound to screen, with scrollback lines kept per
// tab and submit invoked whenever the user presses Enter on a non-empty
// input line.
func New(screen tcell.Screen, scrollback int, submit func(string)) *TUI {
	return &TUI{
		screen:     screen,
		list:       tabs.New(),
		areas:      make(map[*tabs.Tab]*msgarea.Area),
		input:      inputarea.NewBuffer(),
		history:    inputarea.NewHistory(200),
		scrollback: scrollback,
		submit:     submit,
		events:     make(chan tcell.Event, 16),
		redraw:     make(chan struct{}, 1),
	}
}

// SetCompleter installs the autocompletion source (typically reloaded
// whenever the active tab's nick/channel roster changes).
func (t *TUI) SetCompleter(c *inputarea.Completer) { t.completer = c }

func (t *TUI) findOrCreateTab(server, name string, kind tabs.Kind) *tabs.Tab {
	idx := t.list.Find(server, name)
	if idx >= 0 {
		return t.list.Tabs()[idx]
	}
	newTab := &tabs.Tab{Name: name, Server: server, Kind: kind}
	t.list.Add(newTab)
	t.areas[newTab] = msgarea.New(t.scrollback)
	return newTab
}

// AddTab implements Handle.
func (t *TUI) AddTab(server, name string, kind tabs.Kind) int {
	t.findOrCreateTab(server, name, kind)
	return t.list.Find(server, name)
}

// RemoveTab implements Handle.
func (t *TUI) RemoveTab(server, name string) {
	idx := t.list.Find(server, name)
	if idx < 0 {
		return
	}
	delete(t.areas, t.list.Tabs()[idx])
	t.list.Remove(idx)
}

// StatusLine implements Handle.
func (t *TUI) StatusLine(server, tabName, text string) {
	tb := t.findOrCreateTab(server, tabName, tabs.KindServer)
	area := t.areas[tb]
	area.AddText(text, msgarea.Style{Role: msgarea.StyleFaded})
	area.FlushLine()
	t.requestRedraw()
}

// AddMessage implements Handle.
func (t *TUI) AddMessage(server, tabName, nick, body string, isAction, ourNick bool) {
	kind := tabs.KindChannel
	if len(tabName) == 0 || (tabName[0] != '#' && tabName[0] != '&') {
		kind = tabs.KindUser
	}
	tb := t.findOrCreateTab(server, tabName, kind)
	area := t.areas[tb]

	area.AddText(nick+": ", msgarea.Style{Role: msgarea.StyleNick, NickHash: hashNick(nick)})
	for _, run := range irc.SplitFormatting(body) {
		area.AddText(run.Text, msgarea.Style{
			Role: msgarea.StyleFixed,
			FG:   run.Attr.FG,
			BG:   run.Attr.BG,
		})
	}
	area.FlushLine()

	if !ourNick {
		style := tabs.NewMsg
		if containsFold(body, nick) {
			style = tabs.Highlight
		}
		t.list.Notify(t.list.Find(server, tabName), style)
	}
	t.requestRedraw()
}

// Notify implements Handle.
func (t *TUI) Notify(server, tabName string, style tabs.Style) {
	idx := t.list.Find(server, tabName)
	t.list.Notify(idx, style)
	t.requestRedraw()
}

// SwitchTo implements Handle.
func (t *TUI) SwitchTo(server, name string) {
	idx := t.list.Find(server, name)
	if idx >= 0 {
		t.list.Select(idx)
		t.requestRedraw()
	}
}

// CurrentTarget implements Handle.
func (t *TUI) CurrentTarget() (server, name string, kind tabs.Kind) {
	active := t.list.Active()
	if active == nil {
		return "", "", tabs.KindServer
	}
	return active.Server, active.Name, active.Kind
}

func (t *TUI) requestRedraw() {
	select {
	case t.redraw <- struct{}{}:
	default:
	}
}

// Run is the single cooperative event loop: poll tcell events on their own
// goroutine, and service them here alongside a periodic redraw coalescing
// tick, exactly as spec.md §4.10 describes.
func (t *TUI) Run(stop <-chan struct{}) {
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case t.events <- ev:
			case <-stop:
				return
			}
		}
	}()

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	dirty := true
	for {
		select {
		case <-stop:
			return
		case ev := <-t.events:
			t.handleEvent(ev)
			dirty = true
		case <-t.redraw:
			dirty = true
		case <-ticker.C:
			if dirty {
				t.draw()
				dirty = false
			}
		}
	}
}

func (t *TUI) handleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		t.handleKey(e)
	}
}

func (t *TUI) handleKey(e *tcell.EventKey) {
	switch e.Key() {
	case tcell.KeyEnter:
		line := t.input.String()
		if line != "" {
			t.history.Push(line)
			t.input = inputarea.NewBuffer()
			if t.submit != nil {
				t.submit(line)
			}
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		t.input.DeleteBackward()
	case tcell.KeyDelete:
		t.input.DeleteForward()
	case tcell.KeyLeft:
		t.input.MoveLeft()
	case tcell.KeyRight:
		t.input.MoveRight()
	case tcell.KeyHome, tcell.KeyCtrlA:
		t.input.Home()
	case tcell.KeyEnd, tcell.KeyCtrlE:
		t.input.End()
	case tcell.KeyUp:
		if s, ok := t.history.Up(t.input.String()); ok {
			t.input = inputarea.FromString(s)
		}
	case tcell.KeyDown:
		if s, ok := t.history.Down(); ok {
			t.input = inputarea.FromString(s)
		}
	case tcell.KeyTab:
		if t.completer != nil {
			t.completer.Cycle(t.input)
		}
	case tcell.KeyCtrlW:
		t.input.DeleteWordBackward()
	case tcell.KeyRune:
		if e.Modifiers()&tcell.ModAlt != 0 {
			t.handleAltKey(e.Rune())
			return
		}
		t.input.InsertRune(e.Rune())
		if t.completer != nil {
			t.completer.Reset()
		}
	}
}

func (t *TUI) handleAltKey(r rune) {
	switch r {
	case 'n':
		t.list.Next()
	case 'p':
		t.list.Prev()
	default:
		t.list.SelectSwitchChar(r)
	}
}

// draw repaints the whole frame: clear, paint the active tab's message and
// input areas, the tab bar, and present only the changed cells - tcell
// already diffs against its own front buffer on Show, so this package
// only needs to clear and repaint every cell of the back buffer.
func (t *TUI) draw() {
	t.screen.Clear()

	width, height := t.screen.Size()
	tabBarHeight := 1
	inputHeight := 1
	msgHeight := height - tabBarHeight - inputHeight
	if msgHeight < 1 {
		msgHeight = 1
	}

	active := t.list.Active()
	if active != nil {
		t.drawMessages(t.areas[active], width, msgHeight)
	}
	t.drawInput(width, height-1)
	t.drawTabBar(width, height-tabBarHeight-inputHeight)

	t.screen.Show()
}

func (t *TUI) drawMessages(area *msgarea.Area, width, height int) {
	if area == nil {
		return
	}
	lines := area.Lines()
	row := height - 1
	for i := len(lines) - 1; i >= 0 && row >= 0; i-- {
		x := 0
	segments:
		for _, seg := range lines[i].Segments {
			style := segStyle(seg.Style)
			for _, r := range seg.Text {
				if x >= width {
					break segments
				}
				t.screen.SetContent(x, row, r, nil, style)
				x++
			}
		}
		row--
	}
}

func (t *TUI) drawInput(width, y int) {
	runes := []rune(t.input.String())

	compStart, compEnd, compActive := -1, -1, false
	if t.completer != nil {
		compStart, compEnd, compActive = t.completer.Span()
	}

	for x, r := range runes {
		if x >= width {
			break
		}
		style := tcell.StyleDefault
		if compActive && x >= compStart && x < compEnd {
			style = segStyle(msgarea.Style{Role: msgarea.StyleCompletion})
		}
		t.screen.SetContent(x, y, r, nil, style)
	}
	t.screen.ShowCursor(min(t.input.Cursor(), width-1), y)
}

// segStyle maps a msgarea.Style's role and, for StyleFixed/StyleNick, its
// colour fields, to a concrete tcell.Style - the bridge spec.md §3's "Styled
// line" model needs between abstract roles and actual terminal colours.
func segStyle(s msgarea.Style) tcell.Style {
	style := tcell.StyleDefault
	switch s.Role {
	case msgarea.StyleFixed:
		if s.FG >= 0 {
			style = style.Foreground(paletteColor(s.FG))
		}
		if s.BG >= 0 {
			style = style.Background(paletteColor(s.BG))
		}
	case msgarea.StyleNick:
		style = style.Foreground(paletteColor(s.NickHash))
	case msgarea.StyleUserMsg:
		// default fg/bg
	case msgarea.StyleErrMsg:
		style = style.Foreground(tcell.ColorRed)
	case msgarea.StyleTopic:
		style = style.Foreground(tcell.ColorTeal)
	case msgarea.StyleJoin:
		style = style.Foreground(tcell.ColorGreen)
	case msgarea.StylePart:
		style = style.Foreground(tcell.ColorMaroon)
	case msgarea.StyleNickChange:
		style = style.Foreground(tcell.ColorYellow)
	case msgarea.StyleFaded:
		style = style.Foreground(tcell.ColorGray)
	case msgarea.StyleHighlight:
		style = style.Foreground(tcell.ColorRed).Bold(true)
	case msgarea.StyleTimestamp:
		style = style.Foreground(tcell.ColorGray).Dim(true)
	case msgarea.StyleCompletion:
		style = style.Reverse(true)
	}
	return style
}

// paletteColor maps one of irc.Palette16's 16 indices (or NickHash's 0..15
// bucket) to a concrete tcell colour. Out-of-range indices - including the
// -1 "unset" sentinel irc.Attr uses - fall back to the terminal default.
func paletteColor(idx int) tcell.Color {
	if idx < 0 || idx >= len(irc.Palette16) {
		return tcell.ColorDefault
	}
	rgb := irc.Palette16[idx]
	return tcell.NewRGBColor(int32(rgb[0]), int32(rgb[1]), int32(rgb[2]))
}

func (t *TUI) drawTabBar(width, y int) {
	x := 0
	for i, tb := range t.list.Tabs() {
		style := tcell.StyleDefault
		if i == t.list.ActiveIdx() {
			style = style.Reverse(true)
		} else {
			switch tb.Style {
			case tabs.JoinOrPart:
				style = style.Foreground(tcell.ColorGray)
			case tabs.NewMsg:
				style = style.Foreground(tcell.ColorGreen)
			case tabs.Highlight:
				style = style.Foreground(tcell.ColorRed)
			}
		}
		for _, r := range tb.Name + " " {
			if x >= width {
				return
			}
			t.screen.SetContent(x, y, r, nil, style)
			x++
		}
	}
}

func hashNick(nick string) int {
	h := 0
	for _, r := range nick {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return h % 16
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	hl, nl := []rune(lower(haystack)), []rune(lower(needle))
	for i := 0; i+len(nl) <= len(hl); i++ {
		if string(hl[i:i+len(nl)]) == string(nl) {
			boundaryBefore := i == 0 || !isNickChar(hl[i-1])
			boundaryAfter := i+len(nl) == len(hl) || !isNickChar(hl[i+len(nl)])
			if boundaryBefore && boundaryAfter {
				return true
			}
		}
	}
	return false
}

func isNickChar(r rune) bool {
	return r == '_' || r == '-' || r == '[' || r == ']' || r == '\\' || r == '^' || r == '{' || r == '}' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func lower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + ('a' - 'A')
		}
	}
	return string(out)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
