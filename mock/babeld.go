package mock

import (
	"bufio"
	"net"
	"strings"
	"sync"
)

// BabelServer is an in-process stand-in for the routing daemon's control
// socket. Every accepted connection receives Greeting (if set), waits for a
// command line when ExpectCommand is set, then receives Batch.
type BabelServer struct {
	Greeting      []string
	ExpectCommand bool
	Batch         []string
	// HoldOpen keeps the connection open after the batch instead of closing it.
	HoldOpen bool

	ln       net.Listener
	wg       sync.WaitGroup
	mu       sync.Mutex
	commands []string
	conns    int
	held     []net.Conn
}

// Start listens on a loopback port and serves until Close.
func (b *BabelServer) Start() error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	b.ln = ln
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			b.mu.Lock()
			b.conns++
			b.mu.Unlock()
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.serve(conn)
			}()
		}
	}()
	return nil
}

func (b *BabelServer) serve(conn net.Conn) {
	rw := bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn))
	for _, l := range b.Greeting {
		_, _ = rw.WriteString(l + "\n")
	}
	_ = rw.Flush()
	if b.ExpectCommand {
		cmd, err := rw.ReadString('\n')
		if err != nil {
			_ = conn.Close()
			return
		}
		b.mu.Lock()
		b.commands = append(b.commands, strings.TrimSpace(cmd))
		b.mu.Unlock()
	}
	for _, l := range b.Batch {
		_, _ = rw.WriteString(l + "\n")
	}
	_ = rw.Flush()
	if b.HoldOpen {
		b.mu.Lock()
		b.held = append(b.held, conn)
		b.mu.Unlock()
		return
	}
	_ = conn.Close()
}

func (b *BabelServer) Addr() string {
	return b.ln.Addr().String()
}

// Commands returns the command lines received so far.
func (b *BabelServer) Commands() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.commands...)
}

// Connections returns the number of accepted connections.
func (b *BabelServer) Connections() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conns
}

func (b *BabelServer) Close() {
	_ = b.ln.Close()
	b.mu.Lock()
	for _, c := range b.held {
		_ = c.Close()
	}
	b.held = nil
	b.mu.Unlock()
	b.wg.Wait()
}
