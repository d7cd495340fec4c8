package stream

import (
	"net"
	"testing"
	"time"
)

func TestWriteAndRead(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	s := New(client, nil)
	defer s.Close()

	go func() {
		buf := make([]byte, 4096)
		n, err := server.Read(buf)
		if err != nil {
			return
		}
		server.Write(buf[:n])
	}()

	if err := s.Write([]byte("PING :hello\r\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	select {
	case line := <-s.ReadChannel():
		if got, want := string(line), "PING :hello"; got != want {
			t.Errorf("got %q want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for echoed line")
	}
}

func TestCloseStopsReadChannel(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	s := New(client, nil)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case _, ok := <-s.ReadChannel():
		if ok {
			t.Error("expected ReadChannel to be closed after Close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for ReadChannel to close")
	}
}

func TestWriteAfterCloseFails(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	s := New(client, nil)
	s.Close()

	if err := s.Write([]byte("NICK bob\r\n")); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestScanCRLFSplitsMultipleLines(t *testing.T) {
	data := []byte("PING :a\r\nPING :b\r\n")

	adv, tok, err := scanCRLF(data, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(tok) != "PING :a" {
		t.Errorf("first token: got %q", tok)
	}

	adv2, tok2, err := scanCRLF(data[adv:], false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(tok2) != "PING :b" {
		t.Errorf("second token: got %q", tok2)
	}
	_ = adv2
}

func TestScanCRLFTreatsBareLFAsTerminator(t *testing.T) {
	data := []byte("PING :a\n")
	_, tok, err := scanCRLF(data, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(tok) != "PING :a" {
		t.Errorf("got %q", tok)
	}
}

func TestScanCRLFNeedsMoreData(t *testing.T) {
	data := []byte("PING :a")
	adv, tok, err := scanCRLF(data, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv != 0 || tok != nil {
		t.Errorf("expected to request more data, got adv=%d tok=%q", adv, tok)
	}
}
