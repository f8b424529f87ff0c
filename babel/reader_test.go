package babel

import (
	"context"
	"io"
	"net"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/encodeous/meshstat/mock"
	"github.com/encodeous/meshstat/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// pipeReader returns a reader over one end of a pipe and writes each chunk to
// the other end. The first failed write is reported on the channel.
func pipeReader(closeAfter bool, timeout time.Duration, chunks ...string) (*Reader, <-chan error) {
	client, server := net.Pipe()
	done := make(chan error, 1)
	go func() {
		var err error
		for _, c := range chunks {
			if _, err = server.Write([]byte(c)); err != nil {
				break
			}
		}
		if closeAfter {
			server.Close()
		} else {
			// keep the pipe open until the reader side goes away
			_, _ = io.Copy(io.Discard, server)
			server.Close()
		}
		done <- err
	}()
	return NewReader(client, timeout), done
}

func TestReader_StopsAtSentinel(t *testing.T) {
	defer goleak.VerifyNone(t)
	r, done := pipeReader(false, time.Second, "add neighbour address fe80::1 ifname wlan0\n  add route prefix ::/0 from ::/0  \nok\n")
	lines := slices.Collect(r.Lines())
	assert.Equal(t, []string{
		"add neighbour address fe80::1 ifname wlan0",
		"add route prefix ::/0 from ::/0",
	}, lines)
	assert.True(t, r.Complete())
	assert.NoError(t, r.Err())
	<-done
}

func TestReader_DoesNotReadPastSentinel(t *testing.T) {
	defer goleak.VerifyNone(t)
	r, done := pipeReader(true, time.Second, "ok\n", "add neighbour address fe80::1 ifname wlan0\n")
	lines := slices.Collect(r.Lines())
	assert.Empty(t, lines)
	assert.True(t, r.Complete())
	// the reader closed its end, so the rest of the write fails
	assert.Error(t, <-done)
}

func TestReader_ShortBatch(t *testing.T) {
	defer goleak.VerifyNone(t)
	r, done := pipeReader(true, time.Second, "add neighbour address fe80::1 ifname wlan0\n", "add neighbour address fe80::2 ifname wlan0")
	lines := slices.Collect(r.Lines())
	assert.Equal(t, []string{
		"add neighbour address fe80::1 ifname wlan0",
		"add neighbour address fe80::2 ifname wlan0",
	}, lines)
	assert.False(t, r.Complete())
	assert.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
	assert.NoError(t, <-done)
}

func TestReader_Timeout(t *testing.T) {
	defer goleak.VerifyNone(t)
	r, done := pipeReader(false, time.Millisecond*50, "add neighbour address fe80::1 ifname wlan0\n")
	start := time.Now()
	lines := slices.Collect(r.Lines())
	assert.Len(t, lines, 1)
	assert.ErrorIs(t, r.Err(), os.ErrDeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	<-done
}

func TestReader_EarlyBreakClosesConnection(t *testing.T) {
	defer goleak.VerifyNone(t)
	r, done := pipeReader(true, time.Second, "a\n", "b\n", "c\n", "ok\n")
	for line := range r.Lines() {
		assert.Equal(t, "a", line)
		break
	}
	assert.Error(t, <-done)
	assert.NoError(t, r.Err())
	r.Close() // idempotent
}

func TestDial_MonitorMode(t *testing.T) {
	srv := &mock.BabelServer{Batch: []string{
		"add neighbour address fe80::1 ifname wlan0 cost 20",
		"ok",
	}}
	require.NoError(t, srv.Start())
	defer srv.Close()

	r, err := Dial(context.Background(), state.BabelCfg{Addr: srv.Addr(), ReadTimeout: time.Second})
	require.NoError(t, err)
	lines := slices.Collect(r.Lines())
	assert.Equal(t, []string{"add neighbour address fe80::1 ifname wlan0 cost 20"}, lines)
	assert.Empty(t, srv.Commands())
}

func TestDial_Greeting(t *testing.T) {
	srv := &mock.BabelServer{
		Greeting:      []string{"BABEL 1.0", "version babeld-1.13.1", "host node1", "my-id 02:ca:ff:fe:00:00:00:01", "ok"},
		ExpectCommand: true,
		Batch:         []string{"add route prefix ::/0 from ::/0 via fe80::1 if eth0", "ok"},
	}
	require.NoError(t, srv.Start())
	defer srv.Close()

	r, err := Dial(context.Background(), state.BabelCfg{Addr: srv.Addr(), ReadTimeout: time.Second, Greeting: true, Command: "dump"})
	require.NoError(t, err)
	assert.Equal(t, "babeld-1.13.1", r.Version)
	lines := slices.Collect(r.Lines())
	assert.Equal(t, []string{"add route prefix ::/0 from ::/0 via fe80::1 if eth0"}, lines)
	assert.Equal(t, []string{"dump"}, srv.Commands())
}

func TestDial_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = Dial(context.Background(), state.BabelCfg{Addr: addr, ReadTimeout: time.Second})
	assert.Error(t, err)
}

func TestDial_ContextCancelEndsBatch(t *testing.T) {
	srv := &mock.BabelServer{Batch: []string{"add neighbour address fe80::1 ifname wlan0"}, HoldOpen: true}
	require.NoError(t, srv.Start())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r, err := Dial(ctx, state.BabelCfg{Addr: srv.Addr(), ReadTimeout: time.Minute})
	require.NoError(t, err)
	n := 0
	for range r.Lines() {
		n++
		cancel()
	}
	assert.Equal(t, 1, n)
	assert.Error(t, r.Err())
	assert.False(t, r.Complete())
}
