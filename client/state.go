// Package client implements the per-connection IRC client: the protocol
// state machine driven by incoming messages (state.go) and the goroutine
// that owns the socket and runs the connect/reconnect loop (task.go).
//
// Grounded on the teacher's bot.Server/bot.Bot pairing (bot/server.go,
// bot/bot.go): Server there owned one connection's inet.IrcClient plus its
// dispatch.DispatchCore/data.State, and Bot.startServer ran the outer
// connect-dispatch-reconnect loop. This package collapses that split into a
// single Task per server, since there is exactly one IRC connection per
// user-facing tab group rather than many bot networks behind one process.
package client

import (
	"encoding/base64"
	"strings"
	"sync"

	"github.com/aarondl/wick/irc"
)

// Target is the tagged union of places an outgoing message or UI action can
// be addressed to, per spec.md's "message source / target" data model.
type Target struct {
	Kind TargetKind
	Serv string
	Chan string
	Nick string
}

// TargetKind discriminates Target's variants.
type TargetKind int

const (
	TargetServer TargetKind = iota
	TargetChan
	TargetUser
)

// ServerInfo is the static configuration for one connection: address,
// credentials, and the identity to introduce once connected. Grounded on
// the teacher's config.Server fields (bot/config.go) and restored fields
// original_source's ServerInfo carries that spec.md's distillation dropped
// (NickservIdent, SASL, AutoJoin).
type ServerInfo struct {
	Name string // local identifier, e.g. "libera"
	Host string
	Port int
	TLS  bool

	Pass     string
	Nicks    []string // tried in order; see CurrentNick
	Username string
	Realname string

	AutoJoin      []string
	NickservIdent string

	SASLUser string
	SASLPass string
}

// State is the mutable per-connection protocol state, updated exclusively
// by the owning Task as it processes inbound messages (client.Task is the
// single writer; other goroutines, e.g. the TUI, only read through the
// exported accessor methods, matching spec.md §5's "shared resource
// policy").
type State struct {
	mu sync.RWMutex

	info *ServerInfo
	net  *irc.NetworkInfo

	currentNickIdx int
	currentNick    string
	nickAccepted   bool

	chans      []string // insertion-ordered
	awayStatus string

	servername string
	usermask   string

	saslInProgress bool
}

// NewState seeds a State from static server configuration. NetworkInfo
// starts at RFC defaults and is refined by RPL_ISUPPORT as messages arrive.
func NewState(info *ServerInfo) *State {
	nick := ""
	if len(info.Nicks) > 0 {
		nick = info.Nicks[0]
	}
	return &State{
		info:        info,
		net:         irc.NewNetworkInfo(),
		currentNick: nick,
		chans:       append([]string(nil), info.AutoJoin...),
	}
}

// CurrentNick returns the effective nick: the configured nick at
// currentNickIdx, or - once that index runs past the configured list - the
// last configured nick with (idx - len + 1) trailing underscores appended,
// per spec.md §3.
func (s *State) CurrentNick() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentNick
}

func (s *State) computeNick() string {
	nicks := s.info.Nicks
	if len(nicks) == 0 {
		return ""
	}
	if s.currentNickIdx < len(nicks) {
		return nicks[s.currentNickIdx]
	}
	extra := s.currentNickIdx - len(nicks) + 1
	return nicks[len(nicks)-1] + strings.Repeat("_", extra)
}

// IsNickAccepted reports whether RPL_WELCOME (001) has been seen.
func (s *State) IsNickAccepted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nickAccepted
}

// Usermask returns the cached "nick!user@host" learned from a JOIN echo or
// numeric 396/302, or "" if not yet known.
func (s *State) Usermask() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usermask
}

// Servername returns the cached servername from RPL_YOURHOST (002), used as
// the PING target, or "" if not yet known.
func (s *State) Servername() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.servername
}

// Channels returns a snapshot of the insertion-ordered joined-channel set.
func (s *State) Channels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.chans))
	copy(out, s.chans)
	return out
}

// NetworkInfo returns the negotiated server capabilities (CHANTYPES,
// PREFIX, NICKLEN).
func (s *State) NetworkInfo() *irc.NetworkInfo { return s.net }

// AwayStatus returns the current away message, or "" if not away.
func (s *State) AwayStatus() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.awayStatus
}

// reset restores State to its pre-connection shape, called at the start of
// the outer reconnect loop before re-introducing self. Channels are kept so
// Task can rejoin them, but nick negotiation and usermask are cleared.
func (s *State) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentNickIdx = 0
	s.currentNick = s.computeNick()
	s.nickAccepted = false
	s.servername = ""
	s.usermask = ""
	s.saslInProgress = false
}

// addChan inserts ch into the joined set if not already present.
func (s *State) addChan(ch string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := irc.ChanName(ch)
	for _, c := range s.chans {
		if name.Equal(c) {
			return
		}
	}
	s.chans = append(s.chans, ch)
}

// removeChan deletes ch from the joined set, if present.
func (s *State) removeChan(ch string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := irc.ChanName(ch)
	for i, c := range s.chans {
		if name.Equal(c) {
			s.chans = append(s.chans[:i], s.chans[i+1:]...)
			return
		}
	}
}

// outgoing is produced by Update when processing an inbound message
// requires writing back to the wire (e.g. replying to PING, or advancing
// nick on collision).
type outgoing struct {
	line string
}

// Update advances State in response to one parsed inbound message and
// returns any wire lines that must be sent back, plus the list of
// semantic events produced (for the orchestration layer to act on UI
// changes). Mirrors the transition table in spec.md §4.4 exactly.
func (s *State) Update(m *irc.Message) ([]outgoing, []Event) {
	var out []outgoing
	var events []Event

	switch m.Verb() {
	case irc.CmdPing:
		out = append(out, outgoing{irc.Pong(m.Trailing())})

	case irc.RplWelcome:
		s.mu.Lock()
		s.nickAccepted = true
		nick := s.currentNick
		s.mu.Unlock()
		events = append(events, Event{Kind: EventConnected})
		events = append(events, Event{Kind: EventNickChange, Nick: nick})
		if s.info.NickservIdent != "" {
			out = append(out, outgoing{
				irc.Privmsg("NickServ", "identify "+s.info.NickservIdent),
			})
		}

	case irc.RplYourHost:
		s.mu.Lock()
		s.servername = extractYourHostServername(m.Trailing())
		s.mu.Unlock()

	case irc.RplEndOfMotd:
		chans := s.Channels()
		if len(chans) > 0 {
			out = append(out, outgoing{irc.Join(chans...)})
		}

	case irc.RplISupport:
		s.net.ApplyISupport(m.Params)

	case irc.RplTopic:
		if ch := m.Param(1); ch != "" {
			s.addChan(ch)
		}

	case irc.ErrNicknameInUse:
		s.mu.Lock()
		if !s.nickAccepted {
			s.currentNickIdx++
			s.currentNick = s.computeNick()
			nick := s.currentNick
			s.mu.Unlock()
			out = append(out, outgoing{irc.Nick(nick)})
		} else {
			s.mu.Unlock()
		}

	case irc.CmdNick:
		if isSelf(m, s) {
			newNick := m.Param(0)
			if newNick == "" {
				newNick = m.Trailing()
			}
			s.mu.Lock()
			s.currentNick = newNick
			s.mu.Unlock()
			addNickIfNew(s, newNick)
			events = append(events, Event{Kind: EventNickChange, Nick: newNick})
		}

	case irc.CmdJoin:
		if isSelf(m, s) {
			ch := m.Param(0)
			if ch == "" {
				ch = m.Trailing()
			}
			s.addChan(ch)
			s.mu.Lock()
			s.usermask = m.Prefix.Usermask()
			s.mu.Unlock()
		}

	case irc.CmdPart:
		if isSelf(m, s) {
			s.removeChan(m.Param(0))
		}

	case irc.RplUserhost:
		if mask := parseUsermaskFrom302(m); mask != "" {
			s.mu.Lock()
			s.usermask = mask
			s.mu.Unlock()
		}

	case "396": // RPL_HOSTHIDDEN, carries our cloaked usermask host
		if host := m.Param(1); host != "" {
			s.mu.Lock()
			nick := s.currentNick
			s.usermask = nick + "!" + usernamePart(s) + "@" + host
			s.mu.Unlock()
		}

	case irc.CmdCap:
		out = append(out, s.handleCap(m)...)

	case irc.CmdAuthenticate:
		if m.Param(0) == "+" {
			out = append(out, outgoing{authenticatePlain(s.info.SASLUser, s.info.SASLPass)})
		}

	case irc.RplSaslSuccess, irc.ErrSaslFail:
		s.mu.Lock()
		s.saslInProgress = false
		s.mu.Unlock()
		out = append(out, outgoing{irc.CapEnd()})
	}

	return out, events
}

func usernamePart(s *State) string {
	if s.info.Username != "" {
		return s.info.Username
	}
	return s.currentNick
}

// handleCap implements the CAP LS / CAP ACK transitions of spec.md §4.4.
func (s *State) handleCap(m *irc.Message) []outgoing {
	var out []outgoing
	sub := m.Param(1)
	switch strings.ToUpper(sub) {
	case "LS":
		if s.info.Pass != "" {
			out = append(out, outgoing{irc.Pass(s.info.Pass)})
		}
		out = append(out, outgoing{irc.Nick(s.CurrentNick())})
		out = append(out, outgoing{irc.User(usernamePart(s), s.info.Realname, 8)})
		if s.supportsSASL(m) {
			out = append(out, outgoing{irc.CapReq("sasl")})
		}
	case "ACK":
		if strings.Contains(m.Trailing(), "sasl") {
			s.mu.Lock()
			s.saslInProgress = true
			s.mu.Unlock()
			out = append(out, outgoing{irc.Authenticate("PLAIN")})
		}
	}
	return out
}

func (s *State) supportsSASL(m *irc.Message) bool {
	return s.info.SASLUser != "" && strings.Contains(m.Trailing(), "sasl")
}

func authenticatePlain(user, pass string) string {
	payload := user + "\x00" + user + "\x00" + pass
	encoded := base64.StdEncoding.EncodeToString([]byte(payload))
	return irc.Authenticate(encoded)
}

func isSelf(m *irc.Message, s *State) bool {
	return strings.EqualFold(m.Prefix.Sender(), s.CurrentNick())
}

func addNickIfNew(s *State, nick string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.info.Nicks {
		if strings.EqualFold(n, nick) {
			return
		}
	}
	s.info.Nicks = append(s.info.Nicks, nick)
	s.currentNickIdx = len(s.info.Nicks) - 1
}

// extractYourHostServername pulls the servername out of RPL_YOURHOST's
// conventional "Your host is <server>[, ...]" or "Your host is <server>[ ...]"
// text, per spec.md §4.4: up to the first '[' or ',' after the literal
// prefix "Your host is ".
func extractYourHostServername(trailing string) string {
	const prefix = "Your host is "
	idx := strings.Index(trailing, prefix)
	if idx < 0 {
		return ""
	}
	rest := trailing[idx+len(prefix):]
	end := len(rest)
	if i := strings.IndexAny(rest, "[,"); i >= 0 {
		end = i
	}
	return strings.TrimSpace(rest[:end])
}

// parseUsermaskFrom302 extracts "nick!user@host" out of RPL_USERHOST's
// "nick=[+-]user@host" trailing parameter.
func parseUsermaskFrom302(m *irc.Message) string {
	trailing := m.Trailing()
	eq := strings.IndexByte(trailing, '=')
	if eq < 0 {
		return ""
	}
	nick := trailing[:eq]
	rest := trailing[eq+1:]
	rest = strings.TrimPrefix(rest, "+")
	rest = strings.TrimPrefix(rest, "-")
	if rest == "" {
		return ""
	}
	return nick + "!" + rest
}
