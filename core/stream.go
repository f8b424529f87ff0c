package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Stream reads the babel neighbours every cfg.StreamInterval and hands each
// encoded snapshot to send. Cycles never overlap. It returns nil once ctx is
// cancelled, or the first error from send.
func Stream(ctx context.Context, env *Env, send func(data []byte) error) error {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
		groups := BabelNeighbours(ctx, env)
		if ctx.Err() != nil {
			return nil
		}
		data, err := json.Marshal(groups)
		if err != nil {
			return err
		}
		err = send(data)
		if err != nil {
			return err
		}
		timer.Reset(env.Cfg.StreamInterval)
	}
}

type flusher interface {
	Flush() error
}

// StreamCGI writes a CGI event-stream response to w: the content type header
// followed by one "data:" event per cycle.
func StreamCGI(ctx context.Context, env *Env, w io.Writer) error {
	_, err := io.WriteString(w, "Content-type: text/event-stream\n\n")
	if err != nil {
		return err
	}
	return Stream(ctx, env, func(data []byte) error {
		_, err := fmt.Fprintf(w, "data: %s\n\n", data)
		if err != nil {
			return err
		}
		if f, ok := w.(flusher); ok {
			return f.Flush()
		}
		return nil
	})
}
