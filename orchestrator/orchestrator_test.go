package orchestrator

import (
	"testing"

	"github.com/aarondl/wick/client"
	"github.com/aarondl/wick/config"
	"github.com/aarondl/wick/notify"
	"github.com/aarondl/wick/tui/tabs"
)

type fakeHandle struct {
	statusLines []string
	server      string
	name        string
	kind        tabs.Kind
}

func (f *fakeHandle) StatusLine(server, tabName, text string) {
	f.statusLines = append(f.statusLines, server+"/"+tabName+": "+text)
}
func (f *fakeHandle) AddTab(server, name string, kind tabs.Kind) int { return 0 }
func (f *fakeHandle) RemoveTab(server, name string)                 {}
func (f *fakeHandle) AddMessage(server, tabName, nick, body string, isAction, ourNick bool) {
}
func (f *fakeHandle) Notify(server, tabName string, style tabs.Style) {}
func (f *fakeHandle) SwitchTo(server, name string)                   {}
func (f *fakeHandle) CurrentTarget() (server, name string, kind tabs.Kind) {
	return f.server, f.name, f.kind
}

func testConfig() *config.Config {
	return &config.Config{
		Defaults: config.Defaults{Nicks: []string{"bob"}, Username: "bob", Realname: "Bob"},
		Servers: []config.Server{
			{Name: "freenode", Host: "irc.freenode.net", Port: 6667},
		},
	}
}

func TestNewConstructsOneTaskPerServer(t *testing.T) {
	h := &fakeHandle{}
	o, err := New(testConfig(), h, notify.NewSettings(notify.Off), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(o.Clients()) != 1 {
		t.Fatalf("expected one client task, got %d", len(o.Clients()))
	}
	if o.Clients()[0].Info().Name != "freenode" {
		t.Errorf("got %q", o.Clients()[0].Info().Name)
	}
}

func TestDispatchUnknownCommandReturnsError(t *testing.T) {
	h := &fakeHandle{server: "freenode", name: "freenode", kind: tabs.KindServer}
	o, err := New(testConfig(), h, notify.NewSettings(notify.Off), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := o.Dispatch("/bogus"); err == nil {
		t.Errorf("expected an error for an unregistered command")
	}
}

func TestDispatchKnownCommandSucceeds(t *testing.T) {
	h := &fakeHandle{server: "freenode", name: "freenode", kind: tabs.KindServer}
	o, err := New(testConfig(), h, notify.NewSettings(notify.Off), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := o.Dispatch("/nick newname"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFindClientByServerName(t *testing.T) {
	h := &fakeHandle{}
	o, _ := New(testConfig(), h, notify.NewSettings(notify.Off), nil)
	if o.findClient("freenode") == nil {
		t.Errorf("expected to find the configured client")
	}
	if o.findClient("nonexistent") != nil {
		t.Errorf("expected no client for an unconfigured server")
	}
}

func TestSendPlainWithNoCurrentTabIsNoop(t *testing.T) {
	h := &fakeHandle{server: "freenode", name: "", kind: tabs.KindServer}
	o, _ := New(testConfig(), h, notify.NewSettings(notify.Off), nil)
	target := client.Target{Serv: "freenode", Kind: client.TargetServer}
	if err := o.sendPlain(target, "hello"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
