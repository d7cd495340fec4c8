package notify

import "testing"

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"off": Off, "Mentions": Mentions, "MESSAGES": Messages}
	for s, want := range cases {
		got, ok := ParseLevel(s)
		if !ok || got != want {
			t.Errorf("%q: got %v ok=%v want %v", s, got, ok, want)
		}
	}
	if _, ok := ParseLevel("bogus"); ok {
		t.Errorf("expected an unknown level name to fail")
	}
}

func TestMentionsWholeWordOnly(t *testing.T) {
	if !MentionsNick("hey Bob, you around?", "bob") {
		t.Errorf("expected a case-insensitive whole-word match")
	}
	if MentionsNick("bobby is around", "bob") {
		t.Errorf("expected no match for a longer word containing the nick")
	}
}

func TestNotifyPrivmsgSkipsOurOwnMessages(t *testing.T) {
	fired := false
	old := Send
	Send = func(summary, body string) { fired = true }
	defer func() { Send = old }()

	NotifyPrivmsg(Messages, "bob", "hello", "#chan", "bob", true, false)
	if fired {
		t.Errorf("expected no notification for our own message")
	}
}

func TestNotifyPrivmsgChannelRequiresMentionUnderMentionsLevel(t *testing.T) {
	var got []string
	old := Send
	Send = func(summary, body string) { got = append(got, summary) }
	defer func() { Send = old }()

	NotifyPrivmsg(Mentions, "alice", "just chatting", "#chan", "bob", true, false)
	if len(got) != 0 {
		t.Errorf("expected no notification without a mention, got %v", got)
	}

	NotifyPrivmsg(Mentions, "alice", "hey bob", "#chan", "bob", true, true)
	if len(got) != 1 {
		t.Fatalf("expected one notification for a mention, got %v", got)
	}
}

func TestNotifyPrivmsgUserMessageAlwaysFiresUnlessOff(t *testing.T) {
	var got []string
	old := Send
	Send = func(summary, body string) { got = append(got, summary) }
	defer func() { Send = old }()

	NotifyPrivmsg(Off, "alice", "hi", "bob", "bob", false, false)
	if len(got) != 0 {
		t.Errorf("expected Off to suppress all notifications, got %v", got)
	}

	NotifyPrivmsg(Mentions, "alice", "hi", "bob", "bob", false, false)
	if len(got) != 1 {
		t.Errorf("expected a direct message to notify even at Mentions level, got %v", got)
	}
}

func TestSettingsResolutionFallsBackThroughTiers(t *testing.T) {
	s := NewSettings(Off)
	if got := s.Resolve("freenode", "#go"); got != Off {
		t.Errorf("got %v", got)
	}

	s.SetServer("freenode", Messages)
	if got := s.Resolve("freenode", "#go"); got != Messages {
		t.Errorf("expected server override, got %v", got)
	}

	s.SetTab("freenode", "#go", Mentions)
	if got := s.Resolve("freenode", "#go"); got != Mentions {
		t.Errorf("expected tab override to win, got %v", got)
	}
	if got := s.Resolve("freenode", "#rust"); got != Messages {
		t.Errorf("expected other tabs on the same server to still see the server override, got %v", got)
	}
}
