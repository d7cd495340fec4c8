package irc

import "strings"

// mIRC formatting control bytes recognised inside PRIVMSG/NOTICE/TOPIC text
// payloads (spec.md 4.1).
const (
	FmtBold          = 0x02
	FmtColor         = 0x03
	FmtMonospace     = 0x11
	FmtReverse       = 0x16
	FmtReset         = 0x0F
	FmtItalic        = 0x1D
	FmtStrikethrough = 0x1E
	FmtUnderline     = 0x1F
)

// Attr is the set of active formatting attributes at a point in a message.
// FG/BG are mIRC colour indices in 0..15, or -1 when unset (terminal
// default). Indices outside 0..15 reset the respective colour to default,
// per spec.md 4.1.
type Attr struct {
	Bold, Italic, Underline, Strikethrough, Monospace, Reverse bool
	FG, BG                                                     int
}

// Run is a maximal span of text sharing one Attr value.
type Run struct {
	Text string
	Attr Attr
}

func defaultAttr() Attr { return Attr{FG: -1, BG: -1} }

// SplitFormatting walks a message payload and yields the (text, attribute)
// runs produced by mIRC control bytes. Plain ASCII/UTF-8 text passes through
// unchanged; control bytes are consumed and never appear in a Run's Text.
func SplitFormatting(s string) []Run {
	var runs []Run
	attr := defaultAttr()
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			runs = append(runs, Run{Text: cur.String(), Attr: attr})
			cur.Reset()
		}
	}

	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case FmtBold:
			flush()
			attr.Bold = !attr.Bold
		case FmtItalic:
			flush()
			attr.Italic = !attr.Italic
		case FmtUnderline:
			flush()
			attr.Underline = !attr.Underline
		case FmtStrikethrough:
			flush()
			attr.Strikethrough = !attr.Strikethrough
		case FmtMonospace:
			flush()
			attr.Monospace = !attr.Monospace
		case FmtReverse:
			flush()
			attr.Reverse = !attr.Reverse
		case FmtReset:
			flush()
			attr = defaultAttr()
		case FmtColor:
			flush()
			i = parseColorEscape(rs, i, &attr)
		default:
			cur.WriteRune(rs[i])
		}
	}
	flush()

	if runs == nil {
		runs = []Run{{Text: "", Attr: defaultAttr()}}
	}
	return runs
}

// parseColorEscape consumes the 1-2 digit foreground and optional ",bg"
// suffix following a 0x03 byte at rs[i], mutating attr and returning the
// index of the last byte consumed (so the caller's loop increment lands on
// the next unconsumed byte).
func parseColorEscape(rs []rune, i int, attr *Attr) int {
	j := i + 1
	fgDigits := 0
	for j < len(rs) && fgDigits < 2 && isDigit(rs[j]) {
		j++
		fgDigits++
	}
	if fgDigits == 0 {
		// Bare 0x03: clears colour back to default.
		attr.FG = -1
		attr.BG = -1
		return i
	}

	fg := atoiRunes(rs[i+1 : j])
	attr.FG = normalizeColorIndex(fg)

	if j < len(rs) && rs[j] == ',' {
		k := j + 1
		bgDigits := 0
		for k < len(rs) && bgDigits < 2 && isDigit(rs[k]) {
			k++
			bgDigits++
		}
		if bgDigits > 0 {
			bg := atoiRunes(rs[j+1 : k])
			attr.BG = normalizeColorIndex(bg)
			return k - 1
		}
	}

	return j - 1
}

func normalizeColorIndex(n int) int {
	if n < 0 || n > 15 {
		return -1
	}
	return n
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func atoiRunes(rs []rune) int {
	n := 0
	for _, r := range rs {
		n = n*10 + int(r-'0')
	}
	return n
}

// StripFormatting removes all mIRC control bytes and colour escapes,
// returning plain text. Used by the notifier (package notify) which must
// not forward escape bytes to the desktop notification back-end.
func StripFormatting(s string) string {
	runs := SplitFormatting(s)
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Palette16 is the fixed 16-colour mIRC palette, RGB triples in display
// order 0..15. Consumed by the TUI layer to map FG/BG indices to concrete
// terminal colours, kept here so the mapping stays paired with the indices
// it describes.
var Palette16 = [16][3]uint8{
	{255, 255, 255}, // 0 white
	{0, 0, 0},       // 1 black
	{0, 0, 127},     // 2 blue
	{0, 147, 0},     // 3 green
	{255, 0, 0},     // 4 red
	{127, 0, 0},     // 5 brown
	{156, 0, 156},   // 6 purple
	{252, 127, 0},   // 7 orange
	{255, 255, 0},   // 8 yellow
	{0, 252, 0},     // 9 light green
	{0, 147, 147},   // 10 teal
	{0, 255, 255},   // 11 cyan
	{0, 0, 252},     // 12 light blue
	{255, 0, 255},   // 13 pink
	{127, 127, 127}, // 14 grey
	{210, 210, 210}, // 15 light grey
}
