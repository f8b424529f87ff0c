package sys

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// Exec runs a command and returns its combined output.
func Exec(ctx context.Context, logger *slog.Logger, name string, arg ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, arg...).CombinedOutput()
	logger.Debug("exec command", "cmd", name, "arg", arg, "out", string(out))
	if err != nil {
		return nil, fmt.Errorf("error executing command: %s %s. %w. Output: %s", name, arg, err, out)
	}
	return out, nil
}

// ExecStdout runs a command and returns only its standard output.
func ExecStdout(ctx context.Context, logger *slog.Logger, name string, arg ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, arg...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	logger.Debug("exec command", "cmd", name, "arg", arg, "len", len(out))
	if err != nil {
		return nil, fmt.Errorf("error executing command: %s %s. %w. Output: %s", name, arg, err, stderr.String())
	}
	return out, nil
}
