package client

import (
	"strings"
	"testing"
)

func TestSplitBudgetShortMessageFitsInOneChunk(t *testing.T) {
	got := splitBudget("hello", 20)
	if len(got) != 1 || got[0] != "hello" {
		t.Errorf("got %v", got)
	}
}

func TestSplitBudgetSplitsAtWhitespace(t *testing.T) {
	got := splitBudget("yada yada yada", 5)
	want := []string{"yada ", "yada ", "yada"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestSplitBudgetFallsBackToByteBoundary(t *testing.T) {
	got := splitBudget("longwordislong", 3)
	for _, chunk := range got {
		if len(chunk) > 3 {
			t.Errorf("chunk %q exceeds the budget of 3", chunk)
		}
	}
	if strings.Join(got, "") != "longwordislong" {
		t.Errorf("chunks must reassemble to the original: got %v", got)
	}
}

func TestSplitBudgetEmptyString(t *testing.T) {
	got := splitBudget("", 3)
	if len(got) != 1 || got[0] != "" {
		t.Errorf("got %v", got)
	}
}

func TestSplitBudgetZeroMaxYieldsNothing(t *testing.T) {
	if got := splitBudget("", 0); got != nil {
		t.Errorf("got %v want nil", got)
	}
}

func TestSplitBudgetNeverExceedsMax(t *testing.T) {
	msg := strings.Repeat("the quick brown fox jumps over ", 5)
	for _, max := range []int{4, 5, 8, 20, 50} {
		total := 0
		for _, chunk := range splitBudget(msg, max) {
			if len(chunk) > max {
				t.Errorf("max=%d: chunk %q (%d bytes) exceeds budget", max, chunk, len(chunk))
			}
			total += len(chunk)
		}
		if total != len(msg) {
			t.Errorf("max=%d: reassembled length %d != original %d", max, total, len(msg))
		}
	}
}

func TestSplitPrivmsgBudgetAccountsForUsermask(t *testing.T) {
	s := newTestState()
	withoutMask := maxBound(s.CurrentNick(), "#chan", "", 0)

	s.mu.Lock()
	s.usermask = "bob!shortuser@h"
	s.mu.Unlock()
	withMask := maxBound(s.CurrentNick(), "#chan", s.Usermask(), 0)

	if withMask <= withoutMask {
		t.Errorf("a known, short usermask should raise the budget versus the worst-case assumption: with=%d without=%d", withMask, withoutMask)
	}
}

func TestMaxBoundActionExtraShrinksBudget(t *testing.T) {
	plain := maxBound("bob", "#chan", "bob!u@h", 0)
	action := maxBound("bob", "#chan", "bob!u@h", 9)
	if action != plain-9 {
		t.Errorf("expected the CTCP ACTION wrapper to cost exactly 9 bytes more, got plain=%d action=%d", plain, action)
	}
}

func TestMaxBoundSubtractsTargetLength(t *testing.T) {
	short := maxBound("bob", "#a", "bob!u@h", 0)
	long := maxBound("bob", "#a-much-longer-channel-name", "bob!u@h", 0)
	wantDiff := len("#a-much-longer-channel-name") - len("#a")
	if short-long != wantDiff {
		t.Errorf("budget must shrink by exactly the target length difference: got diff=%d want=%d", short-long, wantDiff)
	}
}

func TestSplitPrivmsgNeverExceeds512BytesOnWireForLongTarget(t *testing.T) {
	s := newTestState()
	s.mu.Lock()
	s.usermask = ""
	s.mu.Unlock()

	target := "#a-quite-long-channel-name-indeed"
	nick := s.CurrentNick()
	msg := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)

	for _, chunk := range s.SplitPrivmsg(target, 0, msg) {
		// ":nick!user@host PRIVMSG target :chunk\r\n" must fit in 512 bytes;
		// usermask is unknown here so the worst-case 9+64+1 bound applies.
		wire := 1 + len(nick) + 1 + 9 + 1 + 64 + len(" PRIVMSG ") + len(target) + len(" :") + len(chunk) + 2
		if wire > 512 {
			t.Errorf("chunk %q produces an oversized wire line of %d bytes", chunk, wire)
		}
	}
}
