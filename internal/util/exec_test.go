package util

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	cverrors "github.com/goldsheep3/clockvid/internal/errors"
)

func TestExecRunnerCapturesOutput(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	stdout, stderr, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "printf out; printf err >&2")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if string(stdout) != "out" || string(stderr) != "err" {
		t.Errorf("stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	_, _, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	cmdErr, ok := cverrors.CommandOf(err)
	if !ok {
		t.Fatalf("Expected a command error, got %v", err)
	}
	if cmdErr.Kind != cverrors.CommandFailed || cmdErr.ExitCode != 3 {
		t.Errorf("Kind=%v ExitCode=%d", cmdErr.Kind, cmdErr.ExitCode)
	}
	if cmdErr.Stderr != "boom" {
		t.Errorf("Stderr = %q, want trimmed \"boom\"", cmdErr.Stderr)
	}
	if !strings.HasPrefix(cmdErr.Command, "sh -c") {
		t.Errorf("Command = %q", cmdErr.Command)
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, _, err := ExecRunner{}.Run(context.Background(), "clockvid-no-such-binary")
	cmdErr, ok := cverrors.CommandOf(err)
	if !ok || cmdErr.Kind != cverrors.CommandStart {
		t.Fatalf("Expected a start error, got %v", err)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Error("errors.Is should find exec.ErrNotFound")
	}
}

func TestExecRunnerCancelled(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := ExecRunner{}.Run(ctx, "sh", "-c", "sleep 5")
	if !cverrors.IsCancelled(err) {
		t.Errorf("Expected cancellation error, got %v", err)
	}
}

func TestCommandLine(t *testing.T) {
	if got := CommandLine("ffprobe"); got != "ffprobe" {
		t.Errorf("CommandLine = %q", got)
	}
	if got := CommandLine("ffmpeg", "-y", "-i", "a.mp4"); got != "ffmpeg -y -i a.mp4" {
		t.Errorf("CommandLine = %q", got)
	}
}
