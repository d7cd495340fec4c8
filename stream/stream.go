// Package stream provides a uniform line-oriented read/write interface over
// a TCP or TLS connection to an IRC server.
//
// Grounded on the teacher's inet.IrcClient (inet/client.go): the same
// goroutine-pair shape (a siphon goroutine that reads and splits on CRLF, a
// pump goroutine that drains an outgoing channel and writes), trimmed down
// to exactly the "uniform read/write" capability — flood-control pacing
// moves to package client, which owns the rate limiter that gates writes
// before they ever reach this package.
package stream

import (
	"bufio"
	"context"
	"crypto/tls"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/inconshreveable/log15.v2"
)

// bufferSize is the read buffer inet/client.go used; kept as the same
// constant since nothing about this package's framing changed.
const bufferSize = 16348

// ErrClosed is returned by Write once the stream has been closed; reading
// reports closure by closing the ReadChannel instead.
var ErrClosed = errors.New("stream: closed")

// Stream is a single connection to an IRC server: dial once, then read
// complete lines (CRLF stripped) off ReadChannel and write complete lines
// (CRLF appended by the caller, e.g. via the line generator functions in
// the irc package's writer.go) through Write.
type Stream struct {
	mu     sync.RWMutex
	closed bool

	conn   net.Conn
	log    log15.Logger
	lines  chan []byte
	writes chan []byte
	done   chan struct{}
}

// Dial opens a TCP connection to addr (host:port), honoring ctx for
// cancellation/timeout of the dial itself. If useTLS is true, the connection
// is upgraded with crypto/tls using tlsConfig (nil is accepted and uses sane
// defaults via tls.Config{}).
func Dial(ctx context.Context, addr string, useTLS bool, tlsConfig *tls.Config, logger log15.Logger) (*Stream, error) {
	dialer := &net.Dialer{Timeout: 30 * time.Second}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "stream: dial")
	}
	if useTLS {
		tlsConn := tls.Client(conn, tlsConfig)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "stream: tls handshake")
		}
		conn = tlsConn
	}

	return New(conn, logger), nil
}

// New wraps an already-established net.Conn (TCP or TLS) as a Stream and
// starts its pump/siphon goroutines.
func New(conn net.Conn, logger log15.Logger) *Stream {
	if logger == nil {
		logger = log15.New()
	}
	s := &Stream{
		conn:   conn,
		log:    logger,
		lines:  make(chan []byte),
		writes: make(chan []byte, 64),
		done:   make(chan struct{}),
	}
	go s.siphon()
	go s.pump()
	return s
}

// ReadChannel returns the channel of complete, CRLF-stripped lines read from
// the connection. The channel is closed when the connection is closed or
// encounters a read error.
func (s *Stream) ReadChannel() <-chan []byte { return s.lines }

// Write enqueues a single already-terminated line (as produced by the irc
// package's line generator functions, CRLF included) for the pump goroutine
// to send.
// Returns ErrClosed if the stream has already been closed.
func (s *Stream) Write(line []byte) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	s.mu.RUnlock()

	select {
	case s.writes <- line:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Close shuts down the connection and both goroutines. Safe to call more
// than once.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	return s.conn.Close()
}

// pump drains the outgoing queue and writes each line to the connection in
// order, matching the teacher's pump goroutine's role (inet/client.go's
// writeMessage loop) without its flood-delay math, which now lives above
// this package in client.Task.
func (s *Stream) pump() {
	for {
		select {
		case line := <-s.writes:
			if _, err := s.conn.Write(line); err != nil {
				s.log.Debug("stream write error", "err", err)
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// siphon reads off the connection and splits on CRLF, mirroring
// inet/client.go's extractMessages but using bufio.Scanner's split-function
// hook rather than hand-rolled buffer bookkeeping, since this package no
// longer needs the manual byte-copy dance the teacher used to keep the
// siphon lock-free under concurrent pump writes (writes and reads are
// already on separate goroutines and never touch the same buffer here).
func (s *Stream) siphon() {
	defer close(s.lines)

	scanner := bufio.NewScanner(s.conn)
	scanner.Buffer(make([]byte, 0, bufferSize), bufferSize*4)
	scanner.Split(scanCRLF)

	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		select {
		case s.lines <- line:
		case <-s.done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		s.log.Debug("stream read error", "err", err)
	}
}

// scanCRLF is a bufio.SplitFunc that splits on "\r\n", discarding the
// terminator, and tolerates a bare "\n" the way spec.md 4.1 requires IRC
// codecs to (some bouncers/servers omit the \r).
func scanCRLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' {
			end := i
			if end > 0 && data[end-1] == '\r' {
				end--
			}
			return i + 1, data[:end], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
