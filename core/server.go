package core

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/encodeous/meshstat/perf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHandler exposes the report sections, the neighbour stream and metrics over HTTP.
func NewHandler(env *Env) http.Handler {
	mux := http.NewServeMux()

	for name, provider := range Providers {
		mux.HandleFunc("GET /"+name, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, provider(r.Context(), env))
		})
	}
	mux.HandleFunc("GET /neighbours/stream", func(w http.ResponseWriter, r *http.Request) {
		streamHandler(env, w, r)
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(newCollector(env))
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("GET /debug/metrics", perf.Handler())
	mux.Handle("GET /debug/vars", expvar.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// setSSEHeaders configures the response for Server-Sent Events streaming.
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// writeSSEEvent writes a single SSE event to the response.
func writeSSEEvent(w http.ResponseWriter, data []byte) error {
	_, err := fmt.Fprintf(w, "data: %s\n\n", data)
	if err != nil {
		return err
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

func streamHandler(env *Env, w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	err := Stream(r.Context(), env, func(data []byte) error {
		return writeSSEEvent(w, data)
	})
	if err != nil {
		env.Log.Debug("neighbour stream ended", "error", err)
	}
}

// Serve runs the HTTP server on env.Cfg.Listen until ctx is cancelled.
func Serve(ctx context.Context, env *Env) error {
	srv := &http.Server{
		Addr:              env.Cfg.Listen,
		Handler:           NewHandler(env),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() {
		env.Log.Info("serving", "addr", env.Cfg.Listen)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
