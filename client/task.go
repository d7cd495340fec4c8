package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/aarondl/wick/irc"
	"github.com/aarondl/wick/pinger"
	"github.com/aarondl/wick/stream"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
	"gopkg.in/inconshreveable/log15.v2"
)

// reconnectDelay is the outer loop's sleep between connection attempts,
// per spec.md §4.5.
const reconnectDelay = 30 * time.Second

// Command is a user-originated instruction to the Task's inner loop, sent
// on its command channel. Mirrors spec.md §4.5's "user command channel"
// input, generalized from the teacher's raw irc.Writer.Write bytes
// interface (bot/server.go's Server.Write) into a small typed union so
// Quit can be distinguished from an ordinary line without sniffing text.
type Command struct {
	// Line is a pre-formatted wire line (including CRLF) to send verbatim.
	// Ignored when IsQuit is set.
	Line string
	// IsQuit requests the task send a QUIT carrying QuitReason and
	// terminate; QuitReason may be empty, so IsQuit is what distinguishes
	// "no reason" from "not a quit command".
	IsQuit     bool
	QuitReason string
}

// Task owns one server connection end-to-end: the outer
// connect/introduce/reconnect loop and, while connected, the inner
// single-threaded select loop that reads off the wire, drives State, and
// forwards wire writes through a token-bucket rate limiter.
//
// Grounded on bot.Bot.startServer + bot.Bot.dispatch (bot/bot.go): the same
// two-loop shape (outer retry-with-backoff, inner socket/command select),
// collapsed from "one Server per bot-managed network, all owned by one
// Bot" to "one Task per user-facing connection, owned by the
// orchestrator", and with bot/bot.go's dispatcher/cmds fan-out replaced by
// a single Events channel the orchestration layer consumes.
type Task struct {
	info  *ServerInfo
	state *State
	log   log15.Logger

	cmds   chan Command
	events chan Event

	limiter *rate.Limiter
}

// NewTask constructs a Task for info. Call Run to start the connect loop;
// Run blocks until ctx is cancelled or a non-retryable condition is hit, so
// callers spawn it in its own goroutine.
func NewTask(info *ServerInfo, logger log15.Logger) *Task {
	if logger == nil {
		logger = log15.New()
	}
	return &Task{
		info:   info,
		state:  NewState(info),
		log:    logger.New("serv", info.Name),
		cmds:   make(chan Command, 16),
		events: make(chan Event, 64),
		// burst 4, ~1 message/2s: translated from the teacher's
		// inet.IrcClient basestep/lenPenaltyFactor defaults into
		// token-bucket terms, per SPEC_FULL.md §4.5.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 4),
	}
}

// State returns the connection's protocol state for read-only consultation
// by the TUI/orchestration layer (spec.md §5's shared-by-reference policy).
func (t *Task) State() *State { return t.state }

// Info returns the static server configuration this Task was constructed
// with, for consultation by the orchestration and command-dispatch layers
// (e.g. to find the Task matching a tab's server name).
func (t *Task) Info() *ServerInfo { return t.info }

// Events returns the channel of semantic events this Task produces.
func (t *Task) Events() <-chan Event { return t.events }

// Send enqueues a pre-built wire line for the inner loop to write, subject
// to the outgoing rate limiter.
func (t *Task) Send(line string) {
	select {
	case t.cmds <- Command{Line: line}:
	default:
		t.log.Warn("command queue full, dropping line")
	}
}

// Quit requests the task send QUIT with the given reason and terminate.
func (t *Task) Quit(reason string) {
	t.cmds <- Command{IsQuit: true, QuitReason: reason}
}

// Run is the outer connect/introduce/reconnect loop described in spec.md
// §4.5. It returns when ctx is cancelled.
func (t *Task) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		t.emit(Event{Kind: EventConnecting})
		addr := fmt.Sprintf("%s:%d", t.info.Host, t.info.Port)

		var tlsConfig *tls.Config
		if t.info.TLS {
			tlsConfig = &tls.Config{ServerName: t.info.Host}
		}

		st, err := stream.Dial(ctx, addr, t.info.TLS, tlsConfig, t.log)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			if isTLSError(err) {
				t.emit(Event{Kind: EventTLSErr, Err: err})
			} else {
				t.emit(Event{Kind: EventIOErr, Err: err})
			}
			t.emit(Event{Kind: EventDisconnected})
			if !sleepOrDone(ctx, reconnectDelay) {
				return
			}
			continue
		}

		t.state.reset()
		t.introduce(st)

		disconnected := t.innerLoop(ctx, st)
		st.Close()
		t.emit(Event{Kind: EventDisconnected})
		if !disconnected {
			return
		}
		if !sleepOrDone(ctx, reconnectDelay) {
			return
		}
	}
}

// introduce sends PASS (if set), NICK, USER - the standard introduction
// spec.md §4.5 and §4.4's "CAP LS" transition both describe. CAP LS is sent
// first so a server that supports capability negotiation can hold
// registration open for SASL; servers that don't recognise CAP simply
// ignore it.
func (t *Task) introduce(st *stream.Stream) {
	st.Write([]byte(irc.CapLS()))
	if t.info.Pass != "" {
		st.Write([]byte(irc.Pass(t.info.Pass)))
	}
	st.Write([]byte(irc.Nick(t.state.CurrentNick())))
	st.Write([]byte(irc.User(usernameFor(t.info), t.info.Realname, 8)))
}

func usernameFor(info *ServerInfo) string {
	if info.Username != "" {
		return info.Username
	}
	if len(info.Nicks) > 0 {
		return info.Nicks[0]
	}
	return "wick"
}

// innerLoop is the cooperative select over command/socket/pinger sources
// from spec.md §4.5. Returns true if the outer loop should reconnect,
// false if it should stop entirely (explicit Quit).
func (t *Task) innerLoop(ctx context.Context, st *stream.Stream) bool {
	t.emit(Event{Kind: EventConnected})

	png := pinger.New(pinger.DefaultTimeout)
	defer png.Stop()

	reads := st.ReadChannel()

	for {
		select {
		case <-ctx.Done():
			return false

		case cmd := <-t.cmds:
			if cmd.IsQuit {
				st.Write([]byte(irc.Quit(cmd.QuitReason)))
				return false
			}
			if err := t.limiter.Wait(ctx); err != nil {
				return false
			}
			st.Write([]byte(cmd.Line))

		case line, ok := <-reads:
			if !ok {
				return true
			}
			png.Reset()
			t.handleLine(st, line)

		case ev, ok := <-png.Events():
			if !ok {
				return true
			}
			switch ev {
			case pinger.EventSendPing:
				if servername := t.state.Servername(); servername != "" {
					st.Write([]byte(irc.Ping(servername)))
				}
			case pinger.EventDisconnect:
				return true
			}
		}
	}
}

func (t *Task) handleLine(st *stream.Stream, line []byte) {
	m, ok := irc.Parse(line)
	if !ok {
		return
	}

	out, events := t.state.Update(m)
	for _, o := range out {
		st.Write([]byte(o.line))
	}
	for _, ev := range events {
		t.emit(ev)
	}

	t.emit(Event{Kind: EventMsg, Msg: &Message{
		Server: t.info.Name,
		Verb:   m.Verb(),
		Prefix: m.Prefix.Sender(),
		Params: m.Params,
	}})
}

func (t *Task) emit(ev Event) {
	select {
	case t.events <- ev:
	default:
		t.log.Warn("event queue full, dropping event", "kind", ev.Kind)
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

// isTLSError distinguishes a TLS handshake failure from a plain dial/IO
// failure so Run can emit the EventTLSErr vs EventIOErr spec.md §4.5
// separates. stream.Dial wraps handshake failures with a distinct message
// ("stream: tls handshake"), so a substring check is sufficient without
// threading a richer error type through package stream.
func isTLSError(err error) bool {
	return strings.Contains(err.Error(), "tls handshake")
}
