package irc

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// PrefixKind distinguishes the three shapes a message prefix can take.
type PrefixKind int

const (
	// PfxNone means the message carried no prefix at all.
	PfxNone PrefixKind = iota
	// PfxServer is a bare servername, e.g. ":irc.example.org".
	PfxServer
	// PfxUser is a full "nick!user@host" (or "nick!user" with no host).
	PfxUser
	// PfxAmbiguous is a prefix with neither '!' nor '@' seen on a PRIVMSG or
	// NOTICE, where a bouncer may be relaying with a bare nick as sender.
	// Call sites decide whether to treat it as a nick or a servername; see
	// issue 247 in spec.md's testable scenarios.
	PfxAmbiguous
)

// Prefix is the parsed form of the optional leading ":<text> " of a message.
type Prefix struct {
	Kind PrefixKind
	Raw  string

	// Populated only when Kind == PfxUser.
	Nick, User, Host string
}

// Sender returns the best-effort display name for this prefix: the nick for
// PfxUser and PfxAmbiguous, the raw text for PfxServer/PfxNone.
func (p Prefix) Sender() string {
	switch p.Kind {
	case PfxUser, PfxAmbiguous:
		if p.Nick != "" {
			return p.Nick
		}
		return p.Raw
	default:
		return p.Raw
	}
}

// Usermask reconstructs "nick!user@host" when known, else the raw prefix.
func (p Prefix) Usermask() string {
	if p.Kind != PfxUser {
		return p.Raw
	}
	if p.Host == "" {
		return p.Nick + "!" + p.User
	}
	return p.Nick + "!" + p.User + "@" + p.Host
}

func parsePrefixText(raw, command string) Prefix {
	if raw == "" {
		return Prefix{Kind: PfxNone}
	}

	bang := strings.IndexByte(raw, '!')
	at := strings.IndexByte(raw, '@')

	if bang < 0 && at < 0 {
		if command == CmdPrivmsg || command == CmdNotice {
			return Prefix{Kind: PfxAmbiguous, Raw: raw, Nick: raw}
		}
		return Prefix{Kind: PfxServer, Raw: raw}
	}

	if bang < 0 {
		// "nick@host" with no "!user": the part before '@' is the nick, the
		// rest the host.
		return Prefix{Kind: PfxUser, Raw: raw, Nick: raw[:at], Host: raw[at+1:]}
	}

	nick := raw[:bang]
	rest := raw[bang+1:]
	if at < 0 {
		return Prefix{Kind: PfxUser, Raw: raw, Nick: nick, User: rest}
	}
	user := raw[bang+1 : at]
	host := raw[at+1:]
	return Prefix{Kind: PfxUser, Raw: raw, Nick: nick, User: user, Host: host}
}

// Message is a single parsed IRC protocol line: an optional prefix, a
// command (either a named verb or a three digit numeric reply), and a
// parameter list with the trailing ":"-prefixed parameter already
// unwrapped.
type Message struct {
	Prefix  Prefix
	Command string
	Numeric int // -1 when Command is a named verb rather than a numeric
	Params  []string
}

// IsNumeric reports whether this message is a three-digit numeric reply.
func (m *Message) IsNumeric() bool { return m.Numeric >= 0 }

// Verb returns Command for named messages or the zero-padded numeric string
// for numeric replies, so callers can switch on a single string regardless
// of which kind the message is.
func (m *Message) Verb() string {
	if m.Numeric >= 0 {
		return numericString(m.Numeric)
	}
	return m.Command
}

func numericString(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

// Param returns the i'th parameter, or "" if it doesn't exist.
func (m *Message) Param(i int) string {
	if i < 0 || i >= len(m.Params) {
		return ""
	}
	return m.Params[i]
}

// Trailing returns the last parameter, the conventional location of freeform
// text (PRIVMSG/NOTICE message bodies, QUIT reasons, etc). "" if there are
// no parameters at all.
func (m *Message) Trailing() string {
	if len(m.Params) == 0 {
		return ""
	}
	return m.Params[len(m.Params)-1]
}

// Parse extracts exactly one message from the front of buf. buf must already
// have had its terminator (CRLF, or a tolerated bare LF) located by the
// caller; line is the bytes of the message with the terminator stripped.
//
// Parse never fails: any byte sequence that isn't valid UTF-8 is replaced
// with U+FFFD rather than rejected, per spec.md 4.1 ("the codec never fails
// on non-UTF-8"). A completely empty line yields ok == false.
func Parse(line []byte) (msg *Message, ok bool) {
	text := toValidUTF8(line)
	text = strings.TrimRight(text, " ")
	if text == "" {
		return nil, false
	}

	var rawPrefix string
	if text[0] == ':' {
		sp := strings.IndexByte(text, ' ')
		if sp < 0 {
			return nil, false
		}
		rawPrefix = text[1:sp]
		text = strings.TrimLeft(text[sp+1:], " ")
	}

	if text == "" {
		return nil, false
	}

	var params []string
	if colon := strings.Index(text, " :"); colon >= 0 {
		head := text[:colon]
		trailing := text[colon+2:]
		params = strings.Fields(head)
		params = append(params, trailing)
	} else if text[0] == ':' {
		params = []string{text[1:]}
	} else {
		params = strings.Fields(text)
	}

	if len(params) == 0 {
		return nil, false
	}

	command := strings.ToUpper(params[0])
	params = params[1:]

	m := &Message{Numeric: -1, Params: params}
	if n, isNum := parseNumeric(command); isNum {
		m.Numeric = n
	} else {
		m.Command = command
	}
	m.Prefix = parsePrefixText(rawPrefix, m.Command)

	return m, true
}

func parseNumeric(s string) (int, bool) {
	if len(s) != 3 {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

func toValidUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "�")
}

// String serialises the message back into wire form, without the trailing
// CRLF (callers append that; see the generator functions in writer.go for
// full line generation). Used by tests to validate the parse(generate(m)) == m
// round-trip property in spec.md 8.
func (m *Message) String() string {
	var b strings.Builder
	if m.Prefix.Kind != PfxNone {
		b.WriteByte(':')
		b.WriteString(m.Prefix.Raw)
		b.WriteByte(' ')
	}
	b.WriteString(m.Verb())

	for i, p := range m.Params {
		b.WriteByte(' ')
		last := i == len(m.Params)-1
		if last && (p == "" || strings.ContainsRune(p, ' ') || strings.HasPrefix(p, ":")) {
			b.WriteByte(':')
		}
		b.WriteString(p)
	}
	return b.String()
}
