// Package cmddispatch parses and runs "/command" lines typed into the
// input area.
//
// Grounded on the teacher's dispatch/cmd package (command_args.go) for
// the argument-specification mini-language: each handler declares its
// arguments as strings of the form "name", "[optional]", "variadic...",
// or "#channel", parsed once at registration time and checked against
// the actual argument count on every invocation. The handler signature
// itself is generalized from the teacher's
// `(irc.Writer, *cmd.Event) error` to this domain's
// `(client.Target, []*client.Task, tui.Handle, *Event) error`, per
// SPEC_FULL.md §4.13 - there is no persistent nick/user/data-store
// lookup here, so the teacher's user/nick (`~`/`*`) argument flags and
// their data.State/data.Store dependencies are dropped; only the plain
// required/optional/variadic/channel forms survive.
package cmddispatch

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/aarondl/wick/client"
	"github.com/aarondl/wick/tui"
)

var rgxArg = regexp.MustCompile(`^(\[[a-zA-Z0-9]+\]|[a-zA-Z0-9]+(\.\.\.)?|#[a-zA-Z0-9]+)$`)

type argKind int

const (
	argRequired argKind = iota
	argOptional
	argVariadic
	argChannel
)

type argSpec struct {
	name string
	kind argKind
}

// Event is the parsed invocation of a command: its resolved argument map
// and the raw target the command was typed in.
type Event struct {
	Name   string
	Args   map[string]string
	Source client.Target
}

// Handler runs a command. target is where the command was typed,
// clients is every configured server's running task (for commands like
// /connect that must pick a different server than the current tab), and
// ui lets the handler mutate tabs/messages.
type Handler func(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error

// Command is one registered "/name" entry.
type Command struct {
	Name    string
	Args    []string // mini-language tokens, see package doc
	Handler Handler

	parsed []argSpec
	reqs   int
}

// parse validates and caches c.Args's parsed form. Called once at
// registration.
func (c *Command) parse() error {
	var seenOptional, seenVariadic, seenChannel bool
	for i, raw := range c.Args {
		if !rgxArg.MatchString(raw) {
			return errors.Errorf("cmddispatch: invalid argument spec %q in command %q", raw, c.Name)
		}
		var spec argSpec
		switch {
		case strings.HasPrefix(raw, "#"):
			if i != 0 {
				return errors.Errorf("cmddispatch: #channel argument must come first in %q", c.Name)
			}
			if seenChannel {
				return errors.Errorf("cmddispatch: only one #channel argument allowed in %q", c.Name)
			}
			spec = argSpec{name: raw[1:], kind: argChannel}
			seenChannel = true
		case strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]"):
			if seenVariadic {
				return errors.Errorf("cmddispatch: optional argument after variadic in %q", c.Name)
			}
			spec = argSpec{name: raw[1 : len(raw)-1], kind: argOptional}
			seenOptional = true
		case strings.HasSuffix(raw, "..."):
			if seenVariadic {
				return errors.Errorf("cmddispatch: only one variadic argument allowed in %q", c.Name)
			}
			spec = argSpec{name: strings.TrimSuffix(raw, "..."), kind: argVariadic}
			seenVariadic = true
		default:
			if seenOptional || seenVariadic {
				return errors.Errorf("cmddispatch: required argument after optional/variadic in %q", c.Name)
			}
			spec = argSpec{name: raw, kind: argRequired}
			c.reqs++
		}
		c.parsed = append(c.parsed, spec)
	}
	return nil
}

// Dispatcher holds the registered command table and routes parsed
// "/name rest" lines to their handlers.
type Dispatcher struct {
	cmds map[string]*Command
}

// New returns an empty Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{cmds: make(map[string]*Command)}
}

// Register adds cmd to the table. Returns an error if its argument spec
// is malformed or its name is already registered.
func (d *Dispatcher) Register(cmd *Command) error {
	if _, exists := d.cmds[cmd.Name]; exists {
		return errors.Errorf("cmddispatch: command %q already registered", cmd.Name)
	}
	if err := cmd.parse(); err != nil {
		return err
	}
	d.cmds[cmd.Name] = cmd
	return nil
}

// Dispatch parses line (expected to start with '/') and runs the
// matching command, or returns an error describing why it couldn't:
// unknown command, ambiguous prefix match, or a wrong argument count.
func (d *Dispatcher) Dispatch(line string, target client.Target, clients []*client.Task, ui tui.Handle) error {
	if !strings.HasPrefix(line, "/") {
		return errors.New("cmddispatch: not a command")
	}
	body := line[1:]
	name, rest, _ := strings.Cut(body, " ")
	if name == "" {
		return errors.New("cmddispatch: empty command")
	}

	cmd, ok := d.cmds[name]
	if !ok {
		cmd, ok = d.resolvePrefix(name)
		if !ok {
			matches := 0
			for registered := range d.cmds {
				if strings.HasPrefix(registered, name) {
					matches++
				}
			}
			if matches > 1 {
				return errors.Errorf("Ambiguous command: /%s matches %d commands", name, matches)
			}
			return errors.Errorf("Unknown command: /%s", name)
		}
	}

	args := splitArgs(rest)
	ev := &Event{Name: cmd.Name, Args: make(map[string]string), Source: target}
	if err := bindArgs(cmd, args, ev); err != nil {
		return err
	}

	return cmd.Handler(target, clients, ui, ev)
}

// resolvePrefix finds the unique registered command whose name has
// prefix as a prefix. If more than one matches, dispatch is ambiguous
// and fails - per spec.md §4.13.
func (d *Dispatcher) resolvePrefix(prefix string) (*Command, bool) {
	var match *Command
	for name, cmd := range d.cmds {
		if strings.HasPrefix(name, prefix) {
			if match != nil {
				return nil, false
			}
			match = cmd
		}
	}
	if match == nil {
		return nil, false
	}
	return match, true
}

func splitArgs(rest string) []string {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil
	}
	return strings.Fields(rest)
}

func bindArgs(cmd *Command, args []string, ev *Event) error {
	i, j := 0, 0
	for i = 0; i < len(cmd.parsed); i, j = i+1, j+1 {
		spec := cmd.parsed[i]
		switch spec.kind {
		case argChannel, argRequired:
			if j >= len(args) {
				return errors.Errorf("Error: /%s needs at least %d argument(s).", cmd.Name, cmd.reqs)
			}
			ev.Args[spec.name] = args[j]
		case argOptional:
			if j >= len(args) {
				return nil
			}
			ev.Args[spec.name] = args[j]
		case argVariadic:
			if j >= len(args) {
				return nil
			}
			ev.Args[spec.name] = strings.Join(args[j:], " ")
			j = len(args)
		}
	}
	if j < len(args) {
		return errors.Errorf("Error: /%s takes at most %d argument(s).", cmd.Name, len(cmd.parsed))
	}
	return nil
}

// Names returns every registered command name, for autocompletion seeding.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.cmds))
	for name := range d.cmds {
		names = append(names, name)
	}
	return names
}

// HelpText renders a one-line usage summary for cmd, e.g. "/msg nick
// message...".
func HelpText(cmd *Command) string {
	parts := make([]string, 0, len(cmd.Args)+1)
	parts = append(parts, "/"+cmd.Name)
	parts = append(parts, cmd.Args...)
	return strings.Join(parts, " ")
}
