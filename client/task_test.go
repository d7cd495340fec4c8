package client

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"
)

// fakeServer accepts exactly one connection and lets the test script reads
// and writes against it.
func fakeServer(t *testing.T) (addr string, conns <-chan net.Conn, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	out := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		out <- c
	}()
	return ln.Addr().String(), out, func() { ln.Close() }
}

func TestTaskIntroducesSelfOnConnect(t *testing.T) {
	addr, conns, stop := fakeServer(t)
	defer stop()

	host, port := splitHostPort(t, addr)
	task := NewTask(&ServerInfo{
		Name:     "test",
		Host:     host,
		Port:     port,
		Nicks:    []string{"bob"},
		Username: "bob",
		Realname: "Bob Bobson",
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go task.Run(ctx)

	var conn net.Conn
	select {
	case conn = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted a connection")
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	var lines []string
	for i := 0; i < 3; i++ {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("reading introduction line %d: %v", i, err)
		}
		lines = append(lines, strings.TrimRight(line, "\r\n"))
	}

	if lines[0] != "CAP LS" {
		t.Errorf("line 0: got %q want %q", lines[0], "CAP LS")
	}
	if lines[1] != "NICK bob" {
		t.Errorf("line 1: got %q want %q", lines[1], "NICK bob")
	}
	if lines[2] != "USER bob 8 * :Bob Bobson" {
		t.Errorf("line 2: got %q", lines[2])
	}
}

func TestTaskRespondsToPing(t *testing.T) {
	addr, conns, stop := fakeServer(t)
	defer stop()

	host, port := splitHostPort(t, addr)
	task := NewTask(&ServerInfo{Name: "test", Host: host, Port: port, Nicks: []string{"bob"}}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go task.Run(ctx)

	conn := <-conns
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for i := 0; i < 3; i++ {
		if _, err := reader.ReadString('\n'); err != nil {
			t.Fatalf("draining introduction: %v", err)
		}
	}

	conn.Write([]byte("PING :hello\r\n"))

	reply, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("reading PONG: %v", err)
	}
	if got, want := strings.TrimRight(reply, "\r\n"), "PONG hello"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func splitHostPort(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	port := 0
	for _, r := range portStr {
		port = port*10 + int(r-'0')
	}
	return host, port
}
