package irc

import (
	"bytes"
	"strings"
)

const (
	CTCPDelim     = '\x01'
	CTCPLowQuote  = '\x10'
	CTCPHighQuote = '\x5C'
	CTCPSep       = '\x20'
)

// CTCP tag names recognised by spec.md 4.1. Anything else still decodes
// (Tag holds the raw verb) but IsAction/IsKnown-style callers treat it as
// an opaque CTCP query.
const (
	CTCPAction  = "ACTION"
	CTCPVersion = "VERSION"
	CTCPTime    = "TIME"
	CTCPDCC     = "DCC"
)

func IsCTCP(msg []byte) bool {
	return len(msg) >= 2 && CTCPDelim == msg[0] && CTCPDelim == msg[len(msg)-1]
}

func IsCTCPString(msg string) bool {
	return len(msg) >= 2 && CTCPDelim == msg[0] && CTCPDelim == msg[len(msg)-1]
}

// PrivmsgBody is the decoded form of a PRIVMSG/NOTICE payload after CTCP
// special-casing has been applied (spec.md 4.1).
type PrivmsgBody struct {
	// Text is the message to display: for a plain message, the payload
	// verbatim; for CTCP ACTION, the action text with no leading/trailing
	// delimiters or tag.
	Text string
	// IsAction is true for "/me"-style CTCP ACTION messages.
	IsAction bool
	// IsCTCP is true for any CTCP-delimited payload, action or otherwise
	// (VERSION, TIME, DCC, or an unrecognised tag).
	IsCTCP bool
	// CTCPTag is the CTCP verb (ACTION, VERSION, TIME, DCC, ...) when
	// IsCTCP is true.
	CTCPTag string
	// CTCPData is the raw data following the CTCP tag, if any.
	CTCPData string
}

// DecodePrivmsgBody inspects a PRIVMSG/NOTICE payload for the 0x01-delimited
// CTCP wrapper spec.md 4.1 describes and unpacks it, or returns the payload
// unchanged for a plain message.
func DecodePrivmsgBody(payload string) PrivmsgBody {
	if !IsCTCPString(payload) {
		return PrivmsgBody{Text: payload}
	}

	tag, data := CTCPunpackString(payload)
	tag = strings.ToUpper(tag)
	body := PrivmsgBody{IsCTCP: true, CTCPTag: tag, CTCPData: data}
	if tag == CTCPAction {
		body.IsAction = true
		body.Text = data
	} else {
		body.Text = payload
	}
	return body
}

// CTCPunpack unpacks a CTCP message.
func CTCPunpack(msg []byte) (tag []byte, data []byte) {
	msg = msg[1 : len(msg)-1]

	msg = ctcpLowLevelUnescape(msg)
	tag, data = ctcpUnpack(msg)
	tag = ctcpHighLevelUnescape(tag)
	if data != nil {
		data = ctcpHighLevelUnescape(data)
	}
	return tag, data
}

// CTCPpack packs a message into CTCP format.
func CTCPpack(tag, data []byte) []byte {
	if data != nil {
		data = ctcpHighLevelEscape(data)
	}
	tag = ctcpHighLevelEscape(tag)

	ret := ctcpPack(tag, data)
	ret = ctcpLowLevelEscape(ret)

	retDelimited := make([]byte, len(ret)+2)
	retDelimited[0] = CTCPDelim
	retDelimited[len(retDelimited)-1] = CTCPDelim
	copy(retDelimited[1:], ret)
	return retDelimited
}

// CTCPunpackString unpacks a CTCP message to strings.
func CTCPunpackString(msg string) (tag, data string) {
	t, d := CTCPunpack([]byte(msg))
	return string(t), string(d)
}

// CTCPpackString packs a message into CTCP format from strings.
func CTCPpackString(tag, data string) string {
	ret := CTCPpack([]byte(tag), []byte(data))
	return string(ret)
}

// ctcpUnpack extracts tagging data from the message data.
// X-CHR  ::= '\000' | '\002' .. '\377'
// X-N-AS ::= '\000'  | '\002' .. '\037' | '\041' .. '\377'
// SPC    ::= '\040'
// X-MSG  ::= | X-N-AS+ | X-N-AS+ SPC X-CHR*
func ctcpUnpack(in []byte) ([]byte, []byte) {
	splits := bytes.SplitN(in, []byte{CTCPSep}, 2)

	if len(splits) == 2 {
		return splits[0], splits[1]
	}
	return splits[0], nil
}

// ctcpPack packs tagging data in with the message data.
func ctcpPack(tag []byte, data []byte) []byte {
	if len(data) == 0 {
		return tag
	}

	ret := make([]byte, len(tag)+len(data)+1)
	copy(ret, tag)
	ret[len(tag)] = CTCPSep
	copy(ret[len(tag)+1:], data)
	return ret
}

// ctcpHighLevelEscape escapes the highest level of CTCP message.
// X-DELIM ::= '\x01'
// X-QUOTE ::= '\134' (0x5C)
// X-DELIM --> X-QUOTE 'a' (0x61)
// X-QUOTE --> X-QUOTE X-QUOTE
func ctcpHighLevelEscape(in []byte) []byte {
	out := bytes.Replace(in, []byte{CTCPHighQuote},
		[]byte{CTCPHighQuote, CTCPHighQuote}, -1)
	out = bytes.Replace(out, []byte{0x01}, []byte{CTCPHighQuote, 0x61}, -1)
	return out
}

// ctcpHighLevelUnescape unescapes the ctcp message to get ready for the wire
func ctcpHighLevelUnescape(in []byte) []byte {
	out := bytes.Replace(in, []byte{CTCPHighQuote, 0x61}, []byte{0x01}, -1)
	out = bytes.Replace(out, []byte{CTCPHighQuote, CTCPHighQuote},
		[]byte{CTCPHighQuote}, -1)
	return out
}

// ctcpLowLevelEscape escapes the low level of CTCP message.
// M-QUOTE ::= '\x10'
// NUL     --> M-QUOTE NUL
// NL      --> M-QUOTE NL
// CR      --> M-QUOTE CR
// M-QUOTE --> M-QUOTE M-QUOTE
func ctcpLowLevelEscape(in []byte) []byte {
	out := bytes.Replace(in, []byte{CTCPLowQuote},
		[]byte{CTCPLowQuote, CTCPLowQuote}, -1)
	out = bytes.Replace(out, []byte{'\r'}, []byte{CTCPLowQuote, '\r'}, -1)
	out = bytes.Replace(out, []byte{'\n'}, []byte{CTCPLowQuote, '\n'}, -1)
	out = bytes.Replace(out, []byte{0x00}, []byte{CTCPLowQuote, 0x00}, -1)
	return out
}

// ctcpLowLevelUnescape unescapes the ctcp message to get ready for the wire
func ctcpLowLevelUnescape(in []byte) []byte {
	out := bytes.Replace(in, []byte{CTCPLowQuote, 0x00}, []byte{0x00}, -1)
	out = bytes.Replace(out, []byte{CTCPLowQuote, '\n'}, []byte{'\n'}, -1)
	out = bytes.Replace(out, []byte{CTCPLowQuote, '\r'}, []byte{'\r'}, -1)
	out = bytes.Replace(out, []byte{CTCPLowQuote, CTCPLowQuote},
		[]byte{CTCPLowQuote}, -1)
	return out
}
