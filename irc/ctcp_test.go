package irc

import (
	"bytes"
	"testing"
)

func TestIsCTCP(t *testing.T) {
	yes, no := []byte("\x01yes\x01"), []byte("no")
	if !IsCTCP(yes) {
		t.Errorf("Expected (% X) to be a CTCP.", yes)
	}
	if IsCTCP(no) {
		t.Errorf("Expected (% X) to NOT be a CTCP.", no)
	}
	if IsCTCP([]byte("\x01")) {
		t.Error("A single delimiter byte cannot be a complete CTCP message.")
	}
	if IsCTCP(nil) {
		t.Error("An empty message cannot be a CTCP message.")
	}
}

func TestIsCTCPString(t *testing.T) {
	yes, no := "\x01yes\x01", "no"
	if !IsCTCPString(yes) {
		t.Errorf("Expected (%s) to be a CTCP.", yes)
	}
	if IsCTCPString(no) {
		t.Errorf("Expected (%s) to NOT be a CTCP.", no)
	}
	if IsCTCPString("\x01") {
		t.Error("A single delimiter byte cannot be a complete CTCP message.")
	}
}

func TestCTCPUnpack(t *testing.T) {
	in := []byte("\x01\x10\r\x10\n\x10\x10 \x5Ca\x5C\x5C\x01")
	expect1 := []byte("\r\n\x10")
	expect2 := []byte("\x01\x5C")

	out1, out2 := CTCPunpack(in)
	if !bytes.Equal(out1, expect1) {
		t.Errorf("1: Expected: [% X] Got: [% X]", expect1, out1)
	}
	if !bytes.Equal(out2, expect2) {
		t.Errorf("2: Expected: [% X] Got: [% X]", expect2, out2)
	}
}

func TestCTCPPack(t *testing.T) {
	in1 := []byte("\r\n\x10")
	in2 := []byte("\x01\x5C")
	expect := []byte("\x01\x10\r\x10\n\x10\x10 \x5Ca\x5C\x5C\x01")

	out := CTCPpack(in1, in2)
	if !bytes.Equal(out, expect) {
		t.Errorf("Expected: [% X] Got: [% X]", expect, out)
	}
}

func TestCTCPPackUnpackStringRoundTrip(t *testing.T) {
	tag, data := "ACTION", "waves hello"
	packed := CTCPpackString(tag, data)
	gotTag, gotData := CTCPunpackString(packed)
	if gotTag != tag {
		t.Errorf("tag: expected %q got %q", tag, gotTag)
	}
	if gotData != data {
		t.Errorf("data: expected %q got %q", data, gotData)
	}
}

func TestDecodePrivmsgBodyPlain(t *testing.T) {
	body := DecodePrivmsgBody("hello there")
	if body.IsCTCP || body.IsAction {
		t.Error("a plain message must not be flagged as CTCP or action")
	}
	if body.Text != "hello there" {
		t.Errorf("Text: expected %q got %q", "hello there", body.Text)
	}
}

func TestDecodePrivmsgBodyAction(t *testing.T) {
	wire := CTCPpackString(CTCPAction, "waves")
	body := DecodePrivmsgBody(wire)
	if !body.IsCTCP || !body.IsAction {
		t.Fatal("expected an action CTCP to set both IsCTCP and IsAction")
	}
	if body.Text != "waves" {
		t.Errorf("Text: expected %q got %q", "waves", body.Text)
	}
	if body.CTCPTag != CTCPAction {
		t.Errorf("CTCPTag: expected %q got %q", CTCPAction, body.CTCPTag)
	}
}

func TestDecodePrivmsgBodyVersion(t *testing.T) {
	wire := CTCPpackString(CTCPVersion, "")
	body := DecodePrivmsgBody(wire)
	if !body.IsCTCP || body.IsAction {
		t.Fatal("expected a VERSION CTCP to be IsCTCP but not IsAction")
	}
	if body.CTCPTag != CTCPVersion {
		t.Errorf("CTCPTag: expected %q got %q", CTCPVersion, body.CTCPTag)
	}
	if body.Text != wire {
		t.Error("non-action CTCP messages should keep the raw wire text for display fallback")
	}
}

func TestCTCPHighLevelEscape(t *testing.T) {
	in := []byte("\x01\x5C")
	expect := []byte("\x5Ca\x5C\x5C")

	if out := ctcpHighLevelEscape(in); !bytes.Equal(out, expect) {
		t.Errorf("Expected: [% X] Got: [% X]", expect, out)
	}
}

func TestCTCPLowLevelEscapeUnescapeRoundTrip(t *testing.T) {
	in := []byte("\n\r\x00\x10")
	escaped := ctcpLowLevelEscape(in)
	out := ctcpLowLevelUnescape(escaped)
	if !bytes.Equal(out, in) {
		t.Errorf("Expected: [% X] Got: [% X]", in, out)
	}
}
