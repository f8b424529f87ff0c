package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/encodeous/meshstat/state"
	"github.com/encodeous/meshstat/sys"
)

// Bootstrap loads and validates the config at configPath and builds the
// environment backed by the live system.
func Bootstrap(configPath string, verbose bool) (*Env, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	cfg, err := state.ReadCfg(configPath)
	if err != nil {
		return nil, err
	}
	err = state.CfgValidator(&cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	host, err := os.Hostname()
	if err != nil {
		host = "meshstat"
	}
	logger, err := NewLogger(cfg.LogPath, level, host)
	if err != nil {
		return nil, err
	}
	return NewEnv(cfg, logger, &sys.Host{Cfg: cfg, Log: logger}), nil
}

// SignalContext returns a context that is cancelled on SIGINT or SIGTERM.
func SignalContext(log *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-c:
			log.Info("received shutdown signal")
			cancel(errors.New("received shutdown signal"))
		case <-ctx.Done():
		}
		signal.Stop(c)
	}()
	return ctx, func() { cancel(context.Canceled) }
}
