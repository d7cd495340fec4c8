// Package notify implements the per-tab desktop notification policy: a
// three-level setting (off/mentions/messages) inherited from server and
// global defaults, and the platform notification call itself.
//
// Grounded on original_source's Notifier (crates/libtiny_tui/src/
// notifier.rs) for the Level enum and notify_privmsg decision table.
// No example repo or other_examples/ file wraps a desktop-notification
// library, so the platform call is built on os/exec invoking the
// system's native notifier (justified in DESIGN.md).
package notify

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/aarondl/wick/irc"
)

// Level is a per-tab/per-server/global notification setting.
type Level int

const (
	Off Level = iota
	Mentions
	Messages
)

// ParseLevel parses a case-insensitive level name.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(s) {
	case "off":
		return Off, true
	case "mentions":
		return Mentions, true
	case "messages":
		return Messages, true
	default:
		return Off, false
	}
}

func (l Level) String() string {
	switch l {
	case Off:
		return "off"
	case Mentions:
		return "mentions"
	case Messages:
		return "messages"
	default:
		return "off"
	}
}

// Send is the platform hook that actually displays a notification. It's a
// package variable so tests can stub it out without shelling out.
var Send = platformSend

func platformSend(summary, body string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("notify-send", summary, body)
	case "darwin":
		script := "display notification " + quoteApple(body) + " with title " + quoteApple(summary)
		cmd = exec.Command("osascript", "-e", script)
	default:
		return
	}
	_ = cmd.Run()
}

func quoteApple(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// NotifyPrivmsg decides whether to fire a desktop notification for an
// incoming PRIVMSG, per spec.md §4.11: strip formatting, skip messages
// from ourselves, and gate channel messages on mention while user
// messages always notify unless level is Off.
func NotifyPrivmsg(level Level, sender, body, target, ourNick string, isChannel, mention bool) {
	if strings.EqualFold(sender, ourNick) {
		return
	}
	clean := irc.StripFormatting(body)

	if isChannel {
		if level == Messages || (level == Mentions && mention) {
			Send(sender+" in "+target, clean)
		}
		return
	}

	if level != Off {
		Send(sender+" sent a private message", clean)
	}
}

// MentionsNick reports whether body mentions nick as a whole word,
// case-insensitively, bounded by non-nick-character boundaries.
func MentionsNick(body, nick string) bool {
	if nick == "" {
		return false
	}
	lowerBody := []rune(strings.ToLower(body))
	lowerNick := []rune(strings.ToLower(nick))
	for i := 0; i+len(lowerNick) <= len(lowerBody); i++ {
		if string(lowerBody[i:i+len(lowerNick)]) != string(lowerNick) {
			continue
		}
		before := i == 0 || !isNickChar(lowerBody[i-1])
		after := i+len(lowerNick) == len(lowerBody) || !isNickChar(lowerBody[i+len(lowerNick)])
		if before && after {
			return true
		}
	}
	return false
}

func isNickChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-' || r == '[' || r == ']' || r == '\\' || r == '^' || r == '{' || r == '}':
		return true
	default:
		return false
	}
}

// Settings resolves a tab's effective Level by falling back from the
// tab's own override to the server's default to the global default -
// the same three-tier fallback the teacher's NetCTX type uses for
// per-network/per-server/global config resolution (bot/config.go).
type Settings struct {
	Global Level
	Server map[string]Level
	Tab    map[string]Level // keyed "server\x00tabname"
}

// NewSettings returns Settings defaulting everything to global.
func NewSettings(global Level) *Settings {
	return &Settings{Global: global, Server: map[string]Level{}, Tab: map[string]Level{}}
}

func tabKey(server, tab string) string { return server + "\x00" + tab }

// Resolve returns the effective level for (server, tab).
func (s *Settings) Resolve(server, tab string) Level {
	if l, ok := s.Tab[tabKey(server, tab)]; ok {
		return l
	}
	if l, ok := s.Server[server]; ok {
		return l
	}
	return s.Global
}

// SetTab overrides the level for one tab.
func (s *Settings) SetTab(server, tab string, l Level) { s.Tab[tabKey(server, tab)] = l }

// SetServer overrides the level for one server's default.
func (s *Settings) SetServer(server string, l Level) { s.Server[server] = l }
