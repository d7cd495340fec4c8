package client

import "unicode/utf8"

// maxBound computes the per-message payload byte budget for an outgoing
// PRIVMSG/NOTICE, per spec.md §4.4: 512 (RFC 2812) minus 3 prefix markers,
// minus 13 (" PRIVMSG  :\r\n"), minus the nick length, minus the target
// length, minus extra (9 for a CTCP ACTION wrapper, 0 otherwise), minus the
// sender's usermask length if known, else an assumed 9 (username) + 64
// (host) worst case; the '!' and '@' separators are among the 3 prefix
// markers.
// Grounded on original_source's split_privmsg (libtiny/src/lib.rs), itself
// adapted from hexchat's outbound.c:split_up_text.
func maxBound(nick, target, usermask string, extra int) int {
	max := 512
	max -= 3
	max -= 13
	max -= len(nick)
	max -= len(target)
	max -= extra
	if usermask == "" {
		max -= 9
		max -= 64
	} else {
		max -= len(usermask)
	}
	return max
}

// SplitPrivmsg splits msg into chunks that each fit within the wire budget
// for a PRIVMSG to target from the current state (extra is 9 for a CTCP
// ACTION wrapper, 0 for a plain message). Preferentially splits at
// whitespace; falls back to splitting at any UTF-8 rune boundary up to 4
// bytes before the limit when no whitespace fits.
func (s *State) SplitPrivmsg(target string, extra int, msg string) []string {
	max := maxBound(s.CurrentNick(), target, s.Usermask(), extra)
	return splitBudget(msg, max)
}

// splitBudget is the rune-safe, whitespace-preferring splitter itself,
// grounded on original_source's split_iterator (libtiny/src/utils.rs)
// re-expressed as a plain function returning a slice rather than a
// streaming iterator, since nothing here needs the laziness Rust's
// Iterator gave it.
func splitBudget(s string, max int) []string {
	if max <= 0 {
		return nil
	}
	if s == "" {
		return []string{""}
	}

	var out []string
	for len(s) > max {
		split := 0

		// Search for the rightmost whitespace run at or before max.
		for i := max; i >= 0 && i <= len(s); i-- {
			if i > 0 && i <= len(s) && isWhitespaceByte(s, i-1) {
				if i <= max {
					split = i
					break
				}
			}
		}

		if split == 0 {
			for i := 0; i < 4; i++ {
				pos := max - i
				if pos > 0 && pos <= len(s) && utf8.RuneStart(s[pos]) {
					split = pos
					break
				}
			}
		}

		if split == 0 {
			split = max
		}

		out = append(out, s[:split])
		s = s[split:]
	}
	out = append(out, s)
	return out
}

func isWhitespaceByte(s string, i int) bool {
	switch s[i] {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}
