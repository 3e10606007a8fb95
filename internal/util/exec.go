package util

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	cverrors "github.com/goldsheep3/clockvid/internal/errors"
)

// CommandRunner runs an external program to completion and returns its
// captured output streams.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args. A non-zero exit is returned as a command
// error carrying the trimmed stderr; cancellation wins over the exit status.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return stdout.Bytes(), stderr.Bytes(), cverrors.NewCancelledError(ctx.Err())
		}
		return stdout.Bytes(), stderr.Bytes(),
			cverrors.WrapExecError(CommandLine(name, args...), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

// CommandLine joins a program and its arguments for logs and error messages.
func CommandLine(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
