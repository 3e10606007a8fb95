package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	cverrors "github.com/goldsheep3/clockvid/internal/errors"
	"github.com/goldsheep3/clockvid/internal/util"
)

// waitDelay bounds how long Wait keeps draining stderr after the encoder
// has exited or been killed.
const waitDelay = 5 * time.Second

// SinkParams configures an encoder subprocess fed through stdin.
type SinkParams struct {
	Binary string
	RawVideoParams
}

// FrameSink streams rgb24 frames into an ffmpeg encoder process.
type FrameSink struct {
	ctx       context.Context
	cmd       *exec.Cmd
	cmdline   string
	stdin     io.WriteCloser
	stderr    bytes.Buffer
	frameSize int
	frames    int
	done      bool
}

// OpenFrameSink starts the encoder. The output file is created by ffmpeg;
// nothing is written until frames arrive.
func OpenFrameSink(ctx context.Context, p SinkParams) (*FrameSink, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, cverrors.NewEncoderError(fmt.Sprintf("invalid frame size %dx%d", p.Width, p.Height), nil)
	}
	if !p.Rate.Valid() {
		return nil, cverrors.NewEncoderError(fmt.Sprintf("invalid frame rate %s", p.Rate), nil)
	}

	binary := p.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	args := BuildRawVideoArgs(p.RawVideoParams)

	s := &FrameSink{
		ctx:       ctx,
		cmdline:   util.CommandLine(binary, args...),
		frameSize: p.Width * p.Height * 3,
	}
	s.cmd = exec.CommandContext(ctx, binary, args...)
	s.cmd.Stderr = &s.stderr
	s.cmd.WaitDelay = waitDelay

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return nil, cverrors.NewEncoderError("failed to create stdin pipe", err)
	}
	s.stdin = stdin

	if err := s.cmd.Start(); err != nil {
		return nil, cverrors.NewEncoderError("failed to start encoder", cverrors.WrapExecError(s.cmdline, err, ""))
	}
	return s, nil
}

// WriteFrame sends one frame. The slice must hold exactly width*height*3 bytes.
func (s *FrameSink) WriteFrame(frame []byte) error {
	if s.done {
		return cverrors.NewEncoderError("write to closed encoder", nil)
	}
	if len(frame) != s.frameSize {
		return cverrors.NewEncoderError(fmt.Sprintf("frame is %d bytes, want %d", len(frame), s.frameSize), nil)
	}
	if _, err := s.stdin.Write(frame); err != nil {
		// The encoder went away; collect its exit status and stderr.
		s.done = true
		_ = s.stdin.Close()
		waitErr := s.cmd.Wait()
		if s.ctx.Err() != nil {
			return cverrors.NewCancelledError(s.ctx.Err())
		}
		if waitErr == nil {
			waitErr = err
		}
		return cverrors.NewEncoderError(
			fmt.Sprintf("encoder stopped accepting frames after %d", s.frames),
			cverrors.WrapExecError(s.cmdline, waitErr, s.stderrText()),
		)
	}
	s.frames++
	return nil
}

// Frames returns how many frames were accepted.
func (s *FrameSink) Frames() int {
	return s.frames
}

// Close ends the stream and waits for the encoder to finalise the file.
func (s *FrameSink) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	_ = s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		if s.ctx.Err() != nil {
			return cverrors.NewCancelledError(s.ctx.Err())
		}
		return cverrors.NewEncoderError("encoder failed", cverrors.WrapExecError(s.cmdline, err, s.stderrText()))
	}
	return nil
}

// Abort kills the encoder and reaps it. It is safe after Close.
func (s *FrameSink) Abort() {
	if s.done {
		return
	}
	s.done = true
	_ = s.stdin.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
}

func (s *FrameSink) stderrText() string {
	return strings.TrimSpace(s.stderr.String())
}
