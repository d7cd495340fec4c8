// Package orchestrator wires configured servers, their client tasks, and
// the terminal UI together: for each server it starts a client.Task,
// creates its server tab, and translates each side's events into the
// other's mutations.
//
// Grounded on the teacher's bot.Run/bot.Bot (bot/run.go, bot/bot.go)
// for the top-level construct-then-select shutdown shape, generalized
// from the teacher's single-process-wide signal handling into a
// component any cmd/ entry point can call.
package orchestrator

import (
	"context"
	"strings"
	"sync"

	"gopkg.in/inconshreveable/log15.v2"

	"github.com/aarondl/wick/client"
	"github.com/aarondl/wick/cmddispatch"
	"github.com/aarondl/wick/config"
	"github.com/aarondl/wick/irc"
	"github.com/aarondl/wick/notify"
	"github.com/aarondl/wick/tui"
	"github.com/aarondl/wick/tui/tabs"
)

// Orchestrator owns every configured server's client.Task and routes
// events between them and the UI.
type Orchestrator struct {
	ui       tui.Handle
	dispatch *cmddispatch.Dispatcher
	notifier *notify.Settings
	log      log15.Logger

	mu      sync.RWMutex
	clients []*client.Task
}

// New constructs an Orchestrator for cfg, spawning one client.Task per
// configured server (not yet started - call Run to start them).
func New(cfg *config.Config, ui tui.Handle, notifier *notify.Settings, logger log15.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = log15.New()
	}
	o := &Orchestrator{ui: ui, notifier: notifier, log: logger}

	o.dispatch = cmddispatch.New()
	if err := cmddispatch.Register(o.dispatch, notifier); err != nil {
		return nil, err
	}

	for _, s := range cfg.Servers {
		info := cfg.Defaults.Resolve(s)
		o.clients = append(o.clients, client.NewTask(info, logger))
		notifier.SetServer(info.Name, mustLevel(cfg.Defaults.NotifyLevel(s)))
	}

	return o, nil
}

func mustLevel(s string) notify.Level {
	l, _ := notify.ParseLevel(s)
	return l
}

// Clients returns every running client task, for the command dispatcher's
// use.
func (o *Orchestrator) Clients() []*client.Task {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]*client.Task(nil), o.clients...)
}

// Run starts every client task and its event pump, returning once ctx is
// cancelled and every task has unwound.
func (o *Orchestrator) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, c := range o.clients {
		o.ui.AddTab(c.Info().Name, c.Info().Name, tabs.KindServer)

		wg.Add(1)
		go func(c *client.Task) {
			defer wg.Done()
			c.Run(ctx)
		}(c)

		wg.Add(1)
		go func(c *client.Task) {
			defer wg.Done()
			o.pumpEvents(ctx, c)
		}(c)
	}
	wg.Wait()
}

// Dispatch runs a "/command" line typed by the user, resolving it
// against the currently active tab.
func (o *Orchestrator) Dispatch(line string) error {
	server, name, kind := o.ui.CurrentTarget()
	target := client.Target{Serv: server}
	switch kind {
	case tabs.KindChannel:
		target.Kind = client.TargetChan
		target.Chan = name
	case tabs.KindUser:
		target.Kind = client.TargetUser
		target.Nick = name
	default:
		target.Kind = client.TargetServer
	}

	if strings.HasPrefix(line, "/") {
		return o.dispatch.Dispatch(line, target, o.Clients(), o.ui)
	}

	// A plain (non-"/") line is a PRIVMSG to the current tab.
	return o.sendPlain(target, line)
}

func (o *Orchestrator) sendPlain(target client.Target, text string) error {
	task := o.findClient(target.Serv)
	if task == nil {
		return nil
	}
	dest := target.Chan
	if dest == "" {
		dest = target.Nick
	}
	if dest == "" {
		return nil
	}
	for _, chunk := range task.State().SplitPrivmsg(dest, 0, text) {
		task.Send(irc.Privmsg(dest, chunk))
	}
	o.ui.AddMessage(target.Serv, dest, task.State().CurrentNick(), text, false, true)
	return nil
}

func (o *Orchestrator) findClient(server string) *client.Task {
	for _, c := range o.Clients() {
		if c.Info().Name == server {
			return c
		}
	}
	return nil
}

// pumpEvents forwards c's client.Event stream into UI mutations, per
// spec.md §4.14's event-routing table.
func (o *Orchestrator) pumpEvents(ctx context.Context, c *client.Task) {
	server := c.Info().Name
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.Events():
			if !ok {
				return
			}
			o.routeEvent(server, c, ev)
		}
	}
}

func (o *Orchestrator) routeEvent(server string, c *client.Task, ev client.Event) {
	switch ev.Kind {
	case client.EventConnecting:
		o.ui.StatusLine(server, server, "connecting...")
	case client.EventConnected:
		o.ui.StatusLine(server, server, "connected")
	case client.EventDisconnected:
		o.ui.StatusLine(server, server, "disconnected, retrying in 30s")
	case client.EventIOErr:
		o.ui.StatusLine(server, server, "connection error: "+ev.Err.Error())
	case client.EventTLSErr:
		o.ui.StatusLine(server, server, "tls error: "+ev.Err.Error())
	case client.EventNickChange:
		o.ui.StatusLine(server, server, "now known as "+ev.Nick)
	case client.EventMsg:
		o.routeMsg(server, c, ev.Msg)
	}
}

func (o *Orchestrator) routeMsg(server string, c *client.Task, m *client.Message) {
	if m == nil {
		return
	}
	switch m.Verb {
	case irc.CmdJoin:
		if len(m.Params) > 0 {
			o.ui.AddTab(server, m.Params[0], tabs.KindChannel)
		}
	case irc.CmdPart:
		if len(m.Params) > 0 && strings.EqualFold(m.Prefix, c.State().CurrentNick()) {
			o.ui.RemoveTab(server, m.Params[0])
		}
	case irc.CmdTopic, irc.CmdKick, irc.CmdMode:
		if len(m.Params) > 0 {
			o.ui.StatusLine(server, m.Params[0], m.Verb+" "+strings.Join(m.Params[1:], " "))
		}
	case irc.CmdPrivmsg, irc.CmdNotice:
		o.routePrivmsg(server, c, m)
	}
}

func (o *Orchestrator) routePrivmsg(server string, c *client.Task, m *client.Message) {
	if len(m.Params) < 2 {
		return
	}
	target := m.Params[0]
	body := irc.DecodePrivmsgBody(m.Params[1])
	if !body.IsAction && body.IsCTCP {
		return
	}

	dest := target
	isChannel := c.State().NetworkInfo().IsChannel(target)
	if !isChannel {
		dest = m.Prefix
	}

	ourNick := strings.EqualFold(m.Prefix, c.State().CurrentNick())
	o.ui.AddMessage(server, dest, m.Prefix, body.Text, body.IsAction, ourNick)

	mention := notify.MentionsNick(body.Text, c.State().CurrentNick())
	level := o.notifier.Resolve(server, dest)
	notify.NotifyPrivmsg(level, m.Prefix, body.Text, dest, c.State().CurrentNick(), isChannel, mention)
}
