package babel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/encodeous/meshstat/state"
)

// Reader yields the lines of a single batch from the daemon's control socket.
// It owns the connection: the connection is closed once the batch has been
// consumed, when the consumer stops early, or on Close.
type Reader struct {
	conn    net.Conn
	rw      *bufio.ReadWriter
	timeout time.Duration
	stop    func() bool

	// Version is the daemon version announced in the greeting, if one was read.
	Version string

	err      error
	complete bool
	once     sync.Once
}

// Dial connects to the control socket described by cfg. With cfg.Greeting set,
// the greeting is consumed and cfg.Command, if any, is sent before returning.
// Cancelling ctx closes the connection.
func Dial(ctx context.Context, cfg state.BabelCfg) (*Reader, error) {
	d := net.Dialer{Timeout: cfg.ReadTimeout}
	conn, err := d.DialContext(ctx, "tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to babeld at %s: %w", cfg.Addr, err)
	}
	r := NewReader(conn, cfg.ReadTimeout)
	r.stop = context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	if cfg.Greeting {
		err = r.handshake(cfg.Command)
		if err != nil {
			r.Close()
			return nil, err
		}
	}
	return r, nil
}

// NewReader wraps an established connection. A zero timeout disables read deadlines.
func NewReader(conn net.Conn, timeout time.Duration) *Reader {
	return &Reader{
		conn:    conn,
		rw:      bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn)),
		timeout: timeout,
	}
}

func (r *Reader) handshake(cmd string) error {
	for {
		line, err := r.readLine()
		if err != nil {
			return fmt.Errorf("failed to read babeld greeting: %w", err)
		}
		if line == Sentinel {
			break
		}
		if v, ok := strings.CutPrefix(line, "version "); ok {
			r.Version = v
		}
	}
	if cmd == "" {
		return nil
	}
	if r.timeout > 0 {
		_ = r.conn.SetWriteDeadline(time.Now().Add(r.timeout))
	}
	_, err := r.rw.WriteString(cmd + "\n")
	if err != nil {
		return err
	}
	return r.rw.Flush()
}

func (r *Reader) readLine() (string, error) {
	if r.timeout > 0 {
		_ = r.conn.SetReadDeadline(time.Now().Add(r.timeout))
	}
	line, err := r.rw.ReadString('\n')
	if err != nil {
		// the stream may end without a trailing newline
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Lines returns the batch as a sequence of trimmed lines, excluding the
// sentinel. The sequence ends early on read errors, timeouts and end of
// stream; Err reports why. It can be ranged over once.
func (r *Reader) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		defer r.Close()
		for {
			line, err := r.readLine()
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = io.ErrUnexpectedEOF
				}
				r.err = err
				return
			}
			if line == Sentinel {
				r.complete = true
				return
			}
			if !yield(line) {
				return
			}
		}
	}
}

// Complete reports whether the batch ended with the sentinel.
func (r *Reader) Complete() bool {
	return r.complete
}

// Err returns the error that cut the batch short, or nil.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the connection. It is safe to call more than once.
func (r *Reader) Close() {
	r.once.Do(func() {
		if r.stop != nil {
			r.stop()
		}
		_ = r.conn.Close()
	})
}
