package layout

import "testing"

func TestWrapFitsOneRow(t *testing.T) {
	lay := Wrap([]rune("hello"), 20, 20)
	if lay.Rows != 1 || len(lay.Splits) != 0 {
		t.Errorf("got %+v", lay)
	}
}

func TestWrapSplitsAtWhitespace(t *testing.T) {
	lay := Wrap([]rune("the quick brown fox"), 10, 10)
	if lay.Rows < 2 {
		t.Fatalf("expected wrapping, got %+v", lay)
	}
}

func TestWrapUncleanSplitOnLongWord(t *testing.T) {
	lay := Wrap([]rune("supercalifragilisticexpialidocious"), 10, 10)
	if lay.Rows < 3 {
		t.Errorf("expected multiple forced splits, got %+v", lay)
	}
}

func TestDisplayWidthWideCharacter(t *testing.T) {
	if got := DisplayWidth('日'); got != 2 {
		t.Errorf("expected a wide CJK character to report width 2, got %d", got)
	}
	if got := DisplayWidth('a'); got != 1 {
		t.Errorf("expected an ASCII character to report width 1, got %d", got)
	}
}

func TestStringWidth(t *testing.T) {
	if got, want := StringWidth("ab"), 2; got != want {
		t.Errorf("got %d want %d", got, want)
	}
	if got, want := StringWidth("日本"), 4; got != want {
		t.Errorf("got %d want %d", got, want)
	}
}
