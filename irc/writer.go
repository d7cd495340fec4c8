package irc

import (
	"fmt"
	"strings"
)

// Outgoing generators produce verbatim lines including the trailing CRLF,
// per spec.md 4.1. These are pure string builders; nothing here touches a
// socket (see package stream for that).

// Pass builds a PASS command.
func Pass(password string) string { return line("PASS", password) }

// Nick builds a NICK command.
func Nick(nick string) string { return line("NICK", nick) }

// User builds a USER command. mode is the RFC 2812 numeric user-mode mask,
// conventionally 0 or 8 (invisible).
func User(username, realname string, mode int) string {
	return fmt.Sprintf("USER %s %d * :%s\r\n", username, mode, realname)
}

// Ping builds a PING command.
func Ping(arg string) string { return line("PING", arg) }

// Pong builds a PONG reply echoing arg.
func Pong(arg string) string { return line("PONG", arg) }

// Join builds a JOIN for one or more comma-joined channel names.
func Join(channels ...string) string {
	return line("JOIN", strings.Join(channels, ","))
}

// JoinKeyed builds a JOIN with per-channel keys; channels and keys must be
// the same length.
func JoinKeyed(channels, keys []string) string {
	return fmt.Sprintf("JOIN %s %s\r\n",
		strings.Join(channels, ","), strings.Join(keys, ","))
}

// Part builds a PART for one or more comma-joined channel names.
func Part(channels ...string) string {
	return line("PART", strings.Join(channels, ","))
}

// Quit builds a QUIT with an optional reason.
func Quit(reason string) string {
	if reason == "" {
		return "QUIT\r\n"
	}
	return trailing("QUIT", reason)
}

// Privmsg builds a single PRIVMSG line. Callers that need §4.4's
// length-bounded splitting should use client.SplitPrivmsg first and call
// this once per chunk.
func Privmsg(target, text string) string {
	return fmt.Sprintf("PRIVMSG %s :%s\r\n", target, text)
}

// Notice builds a single NOTICE line.
func Notice(target, text string) string {
	return fmt.Sprintf("NOTICE %s :%s\r\n", target, text)
}

// Away builds an AWAY command; an empty message clears away status.
func Away(message string) string {
	if message == "" {
		return "AWAY\r\n"
	}
	return trailing("AWAY", message)
}

// CapLS requests the server's capability list.
func CapLS() string { return "CAP LS\r\n" }

// CapReq requests a set of capabilities.
func CapReq(caps ...string) string {
	return trailing("CAP REQ", strings.Join(caps, " "))
}

// CapEnd ends capability negotiation.
func CapEnd() string { return "CAP END\r\n" }

// Authenticate builds an AUTHENTICATE command; payload is the already
// base64-encoded SASL blob, or "PLAIN" for the mechanism-selection step.
func Authenticate(payload string) string { return line("AUTHENTICATE", payload) }

func line(cmd, arg string) string {
	if arg == "" {
		return cmd + "\r\n"
	}
	return cmd + " " + arg + "\r\n"
}

func trailing(cmd, text string) string {
	return cmd + " :" + text + "\r\n"
}
