// Package irc implements the wire codec for the IRC protocol: parsing bytes
// into structured messages, serialising outgoing commands, CTCP packing and
// unpacking, and translation of the mIRC colour/format escape sequences.
//
// The package is UI-agnostic: it knows nothing about terminals, tabs, or
// rendering. Higher layers (package tui) consume irc.Message values and the
// escape-run iterator this package exposes.
package irc

import "time"

// Named commands recognised by the wire codec. Anything else that looks like
// a command name (rather than a three digit numeric) is carried as a generic
// Message with this field set verbatim.
const (
	CmdPing         = "PING"
	CmdPong         = "PONG"
	CmdPrivmsg      = "PRIVMSG"
	CmdNotice       = "NOTICE"
	CmdJoin         = "JOIN"
	CmdPart         = "PART"
	CmdQuit         = "QUIT"
	CmdNick         = "NICK"
	CmdMode         = "MODE"
	CmdTopic        = "TOPIC"
	CmdInvite       = "INVITE"
	CmdKick         = "KICK"
	CmdError        = "ERROR"
	CmdCap          = "CAP"
	CmdAuthenticate = "AUTHENTICATE"
	CmdPass         = "PASS"
	CmdUser         = "USER"
	CmdAway         = "AWAY"

	// Pseudo events: not on the wire, synthesized by the client task to
	// signal lifecycle transitions to the rest of the system.
	EvConnecting   = "CONNECTING"
	EvConnected    = "CONNECTED"
	EvDisconnected = "DISCONNECTED"
	EvIOErr        = "IOERR"
	EvTLSErr       = "TLSERR"
)

// Numeric replies consulted by client.State and the TUI. Only the subset
// spec.md's transition table and this repo's restored RPL_ISUPPORT handling
// actually reference are named; the rest of the RFC 2812 numeric space still
// round-trips correctly through Parse/Message.String since numerics are
// recognised generically by the "three ASCII digits" rule, not by a lookup
// table.
const (
	RplWelcome     = "001"
	RplYourHost    = "002"
	RplISupport    = "005"
	RplUserhost    = "302"
	RplAway        = "301"
	RplTopic       = "332"
	RplEndOfMotd   = "376"
	RplSaslSuccess = "903"
	RplLoggedIn    = "900"

	ErrNicknameInUse = "433"
	ErrNoMotd        = "422"
	ErrSaslFail      = "904"
)

// pingTimeout records the 60-second liveness window. It has the same value
// as pinger.DefaultTimeout, but nothing refers to it: package pinger
// defines its own constant.
const pingTimeout = 60 * time.Second
