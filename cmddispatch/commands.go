package cmddispatch

import (
	"strings"

	"github.com/aarondl/wick/client"
	"github.com/aarondl/wick/irc"
	"github.com/aarondl/wick/notify"
	"github.com/aarondl/wick/tui"
	"github.com/aarondl/wick/tui/tabs"
)

// findTask returns the task whose ServerInfo.Name matches target.Serv,
// falling back to the first task if only one is configured.
func findTask(target client.Target, clients []*client.Task) *client.Task {
	for _, c := range clients {
		if c.Info().Name == target.Serv {
			return c
		}
	}
	if len(clients) == 1 {
		return clients[0]
	}
	return nil
}

// Register installs every built-in command into d, per spec.md §4.13's
// command list.
func Register(d *Dispatcher, notifySettings *notify.Settings) error {
	cmds := []*Command{
		{Name: "connect", Args: []string{"addr", "[port]"}, Handler: cmdConnect},
		{Name: "join", Args: []string{"chans"}, Handler: cmdJoin},
		{Name: "part", Args: []string{"[chans]"}, Handler: cmdPart},
		{Name: "msg", Args: []string{"nick", "message..."}, Handler: cmdMsg},
		{Name: "me", Args: []string{"text..."}, Handler: cmdMe},
		{Name: "nick", Args: []string{"nick"}, Handler: cmdNick},
		{Name: "names", Args: nil, Handler: cmdNames},
		{Name: "away", Args: []string{"reason..."}, Handler: cmdAway},
		{Name: "back", Args: nil, Handler: cmdBack},
		{Name: "quit", Args: []string{"reason..."}, Handler: cmdQuit},
		{Name: "close", Args: nil, Handler: cmdClose},
		{Name: "clear", Args: nil, Handler: cmdClear},
		{Name: "switch", Args: []string{"name"}, Handler: cmdSwitch},
		{Name: "ignore", Args: nil, Handler: cmdIgnore},
		{Name: "notify", Args: []string{"[level]"}, Handler: notifyHandler(notifySettings)},
		{Name: "reload", Args: nil, Handler: cmdReload},
	}
	for _, c := range cmds {
		if err := d.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func cmdConnect(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	ui.StatusLine(target.Serv, target.Serv, "connecting to "+ev.Args["addr"])
	return nil
}

func cmdJoin(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	task := findTask(target, clients)
	if task == nil {
		return nil
	}
	chans := strings.Split(ev.Args["chans"], ",")
	task.Send(irc.Join(chans...))
	return nil
}

func cmdPart(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	task := findTask(target, clients)
	if task == nil {
		return nil
	}
	chanArg := ev.Args["chans"]
	if chanArg == "" {
		chanArg = target.Chan
	}
	task.Send(irc.Part(strings.Split(chanArg, ",")...))
	return nil
}

func cmdMsg(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	task := findTask(target, clients)
	if task == nil {
		return nil
	}
	nick := ev.Args["nick"]
	for _, chunk := range task.State().SplitPrivmsg(nick, 0, ev.Args["message"]) {
		task.Send(irc.Privmsg(nick, chunk))
	}
	ui.AddTab(target.Serv, nick, tabs.KindUser)
	ui.AddMessage(target.Serv, nick, task.State().CurrentNick(), ev.Args["message"], false, true)
	return nil
}

func cmdMe(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	task := findTask(target, clients)
	if task == nil {
		return nil
	}
	dest := target.Chan
	if dest == "" {
		dest = target.Nick
	}
	for _, chunk := range task.State().SplitPrivmsg(dest, 9, ev.Args["text"]) {
		task.Send(irc.Privmsg(dest, irc.CTCPpackString(irc.CTCPAction, chunk)))
	}
	ui.AddMessage(target.Serv, dest, task.State().CurrentNick(), ev.Args["text"], true, true)
	return nil
}

func cmdNick(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	task := findTask(target, clients)
	if task == nil {
		return nil
	}
	task.Send(irc.Nick(ev.Args["nick"]))
	return nil
}

func cmdNames(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	task := findTask(target, clients)
	if task == nil {
		return nil
	}
	task.Send("NAMES " + target.Chan)
	return nil
}

func cmdAway(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	task := findTask(target, clients)
	if task == nil {
		return nil
	}
	task.Send(irc.Away(ev.Args["reason"]))
	return nil
}

func cmdBack(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	task := findTask(target, clients)
	if task == nil {
		return nil
	}
	task.Send(irc.Away(""))
	return nil
}

func cmdQuit(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	task := findTask(target, clients)
	if task == nil {
		return nil
	}
	task.Quit(ev.Args["reason"])
	return nil
}

func cmdClose(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	ui.RemoveTab(target.Serv, currentTabName(target))
	return nil
}

func cmdClear(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	ui.StatusLine(target.Serv, currentTabName(target), "")
	return nil
}

func cmdSwitch(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	ui.SwitchTo(target.Serv, ev.Args["name"])
	return nil
}

func cmdIgnore(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	ui.StatusLine(target.Serv, currentTabName(target), "ignore toggled")
	return nil
}

func notifyHandler(settings *notify.Settings) Handler {
	return func(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
		levelStr := ev.Args["level"]
		if levelStr == "" {
			level := settings.Resolve(target.Serv, currentTabName(target))
			ui.StatusLine(target.Serv, currentTabName(target), "notify: "+level.String())
			return nil
		}
		level, ok := notify.ParseLevel(levelStr)
		if !ok {
			ui.StatusLine(target.Serv, currentTabName(target), "unknown notify level: "+levelStr)
			return nil
		}
		settings.SetTab(target.Serv, currentTabName(target), level)
		return nil
	}
}

func cmdReload(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	ui.StatusLine(target.Serv, target.Serv, "reloading configuration")
	return nil
}

func currentTabName(target client.Target) string {
	switch target.Kind {
	case client.TargetChan:
		return target.Chan
	case client.TargetUser:
		return target.Nick
	default:
		return target.Serv
	}
}
