package client

// EventKind enumerates the semantic, UI-facing events a Task emits, as
// distinct from raw irc.Message values. Grounded on spec.md §2's data flow
// ("emits semantic events on a channel consumed by the TUI task") and the
// teacher's irc.CONNECT/irc.DISCONNECT pseudo-events
// (irc/constants.go's Ev* constants carry the same intent forward).
type EventKind int

const (
	EventConnecting EventKind = iota
	EventConnected
	EventDisconnected
	EventIOErr
	EventTLSErr
	EventNickChange
	EventMsg
)

// Event is one semantic occurrence produced by a Task's inner loop, sent to
// whatever orchestration layer is routing it to the TUI (package
// orchestrator).
type Event struct {
	Kind EventKind
	Nick string // set for EventNickChange
	Err  error  // set for EventIOErr / EventTLSErr
	Msg  *Message
}

// Message pairs a parsed wire message with the server it arrived from, for
// the orchestration layer's routing table (spec.md §4.14: "Msg(m) is
// dispatched based on m.cmd").
type Message struct {
	Server string
	Verb   string
	Prefix string
	Params []string
}
