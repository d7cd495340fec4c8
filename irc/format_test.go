package irc

import "testing"

func TestSplitFormattingPlain(t *testing.T) {
	runs := SplitFormatting("hello world")
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d: %+v", len(runs), runs)
	}
	if runs[0].Text != "hello world" {
		t.Errorf("Text: got %q", runs[0].Text)
	}
	if runs[0].Attr.Bold {
		t.Error("plain text must not be bold")
	}
}

func TestSplitFormattingBoldToggle(t *testing.T) {
	s := string(rune(FmtBold)) + "bold" + string(rune(FmtBold)) + "plain"
	runs := SplitFormatting(s)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d: %+v", len(runs), runs)
	}
	if !runs[0].Attr.Bold || runs[0].Text != "bold" {
		t.Errorf("run 0: got %+v", runs[0])
	}
	if runs[1].Attr.Bold || runs[1].Text != "plain" {
		t.Errorf("run 1: got %+v", runs[1])
	}
}

func TestSplitFormattingColor(t *testing.T) {
	s := string(rune(FmtColor)) + "4red" + string(rune(FmtColor)) + "plain"
	runs := SplitFormatting(s)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d: %+v", len(runs), runs)
	}
	if runs[0].Attr.FG != 4 || runs[0].Text != "red" {
		t.Errorf("run 0: got %+v", runs[0])
	}
	if runs[1].Attr.FG != -1 || runs[1].Text != "plain" {
		t.Errorf("run 1: expected colour reset to default, got %+v", runs[1])
	}
}

func TestSplitFormattingColorWithBackground(t *testing.T) {
	s := string(rune(FmtColor)) + "4,8text"
	runs := SplitFormatting(s)
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d: %+v", len(runs), runs)
	}
	if runs[0].Attr.FG != 4 || runs[0].Attr.BG != 8 {
		t.Errorf("expected fg=4 bg=8, got fg=%d bg=%d", runs[0].Attr.FG, runs[0].Attr.BG)
	}
	if runs[0].Text != "text" {
		t.Errorf("Text: got %q", runs[0].Text)
	}
}

func TestSplitFormattingColorOutOfRangeResets(t *testing.T) {
	s := string(rune(FmtColor)) + "99text"
	runs := SplitFormatting(s)
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d: %+v", len(runs), runs)
	}
	if runs[0].Attr.FG != -1 {
		t.Errorf("expected an out-of-range colour index to reset to default, got %d", runs[0].Attr.FG)
	}
}

func TestSplitFormattingReset(t *testing.T) {
	s := string(rune(FmtBold)) + string(rune(FmtColor)) + "4bold-red" + string(rune(FmtReset)) + "plain"
	runs := SplitFormatting(s)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d: %+v", len(runs), runs)
	}
	if !runs[0].Attr.Bold || runs[0].Attr.FG != 4 {
		t.Errorf("run 0: got %+v", runs[0])
	}
	if runs[1].Attr.Bold || runs[1].Attr.FG != -1 {
		t.Errorf("run 1: expected full reset, got %+v", runs[1])
	}
}

func TestStripFormatting(t *testing.T) {
	s := string(rune(FmtBold)) + "bold" + string(rune(FmtBold)) + " " +
		string(rune(FmtColor)) + "4red" + string(rune(FmtReset))
	if got, want := StripFormatting(s), "bold red"; got != want {
		t.Errorf("StripFormatting: got %q want %q", got, want)
	}
}

func TestPalette16Size(t *testing.T) {
	if len(Palette16) != 16 {
		t.Fatalf("expected 16 palette entries, got %d", len(Palette16))
	}
}
