package cmddispatch

import (
	"testing"

	"github.com/aarondl/wick/client"
	"github.com/aarondl/wick/tui"
	"github.com/aarondl/wick/tui/tabs"
)

// fakeHandle is a minimal tui.Handle recorder for tests that don't need a
// real terminal.
type fakeHandle struct {
	statusLines []string
	added       []string
	switched    []string
}

func (f *fakeHandle) StatusLine(server, tabName, text string) {
	f.statusLines = append(f.statusLines, server+"/"+tabName+": "+text)
}
func (f *fakeHandle) AddTab(server, name string, kind tabs.Kind) int {
	f.added = append(f.added, server+"/"+name)
	return 0
}
func (f *fakeHandle) RemoveTab(server, name string) {}
func (f *fakeHandle) AddMessage(server, tabName, nick, body string, isAction, ourNick bool) {}
func (f *fakeHandle) Notify(server, tabName string, style tabs.Style)                       {}
func (f *fakeHandle) SwitchTo(server, name string) {
	f.switched = append(f.switched, server+"/"+name)
}
func (f *fakeHandle) CurrentTarget() (server, name string, kind tabs.Kind) { return "", "", 0 }

var _ tui.Handle = (*fakeHandle)(nil)

func noopHandler(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
	return nil
}

func TestRegisterRejectsDuplicateNames(t *testing.T) {
	d := New()
	mk := func() *Command { return &Command{Name: "join", Args: []string{"chans"}, Handler: noopHandler} }
	if err := d.Register(mk()); err != nil {
		t.Fatalf("unexpected error on first registration: %v", err)
	}
	if err := d.Register(mk()); err == nil {
		t.Errorf("expected an error registering the same command name twice")
	}
}

func TestRegisterRejectsMalformedArgSpec(t *testing.T) {
	d := New()
	err := d.Register(&Command{Name: "bad", Args: []string{"$$$"}, Handler: noopHandler})
	if err == nil {
		t.Errorf("expected an error for a malformed argument spec")
	}
}

func TestRegisterRejectsRequiredAfterOptional(t *testing.T) {
	d := New()
	err := d.Register(&Command{Name: "bad", Args: []string{"[opt]", "req"}, Handler: noopHandler})
	if err == nil {
		t.Errorf("expected an error for a required argument following an optional one")
	}
}

func TestDispatchBindsRequiredAndVariadicArguments(t *testing.T) {
	d := New()
	var captured map[string]string
	d.Register(&Command{
		Name: "msg",
		Args: []string{"nick", "message..."},
		Handler: func(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
			captured = ev.Args
			return nil
		},
	})

	h := &fakeHandle{}
	if err := d.Dispatch("/msg bob hello there friend", client.Target{}, nil, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured["nick"] != "bob" || captured["message"] != "hello there friend" {
		t.Errorf("got %v", captured)
	}
}

func TestDispatchMissingRequiredArgumentFails(t *testing.T) {
	d := New()
	d.Register(&Command{Name: "join", Args: []string{"chans"}, Handler: noopHandler})
	if err := d.Dispatch("/join", client.Target{}, nil, &fakeHandle{}); err == nil {
		t.Errorf("expected an error for a missing required argument")
	}
}

func TestDispatchTooManyArgumentsFails(t *testing.T) {
	d := New()
	d.Register(&Command{Name: "nick", Args: []string{"nick"}, Handler: noopHandler})
	if err := d.Dispatch("/nick bob extra", client.Target{}, nil, &fakeHandle{}); err == nil {
		t.Errorf("expected an error for too many arguments")
	}
}

func TestDispatchUnknownCommandFails(t *testing.T) {
	d := New()
	if err := d.Dispatch("/nonexistent", client.Target{}, nil, &fakeHandle{}); err == nil {
		t.Errorf("expected an error for an unknown command")
	}
}

func TestDispatchAmbiguousPrefixFails(t *testing.T) {
	d := New()
	d.Register(&Command{Name: "nick", Handler: noopHandler})
	d.Register(&Command{Name: "names", Handler: noopHandler})
	if err := d.Dispatch("/n", client.Target{}, nil, &fakeHandle{}); err == nil {
		t.Errorf("expected an error when a prefix matches more than one command")
	}
}

func TestDispatchUniquePrefixResolves(t *testing.T) {
	d := New()
	var ran bool
	d.Register(&Command{Name: "quit", Args: []string{"reason..."}, Handler: func(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
		ran = true
		return nil
	}})
	if err := d.Dispatch("/qu bye", client.Target{}, nil, &fakeHandle{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Errorf("expected the unique-prefix match to run")
	}
}

func TestOptionalArgumentCanBeOmitted(t *testing.T) {
	d := New()
	var captured map[string]string
	d.Register(&Command{Name: "part", Args: []string{"[chans]"}, Handler: func(target client.Target, clients []*client.Task, ui tui.Handle, ev *Event) error {
		captured = ev.Args
		return nil
	}})
	if err := d.Dispatch("/part", client.Target{}, nil, &fakeHandle{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := captured["chans"]; ok {
		t.Errorf("expected no chans entry when the optional argument was omitted")
	}
}

func TestHelpText(t *testing.T) {
	cmd := &Command{Name: "msg", Args: []string{"nick", "message..."}}
	if got, want := HelpText(cmd), "/msg nick message..."; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}
