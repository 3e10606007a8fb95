package ffmpeg

import (
	"context"
	"fmt"

	cverrors "github.com/goldsheep3/clockvid/internal/errors"
	"github.com/goldsheep3/clockvid/internal/logging"
	"github.com/goldsheep3/clockvid/internal/util"
)

// Muxer runs the stream-copy steps of the overlay pipeline.
type Muxer struct {
	binary string
	runner util.CommandRunner
	logger *logging.Logger
}

// NewMuxer returns a Muxer for binary (ffmpeg on PATH when empty). A nil
// runner uses os/exec.
func NewMuxer(binary string, runner util.CommandRunner, logger *logging.Logger) *Muxer {
	if binary == "" {
		binary = DefaultBinary
	}
	if runner == nil {
		runner = util.ExecRunner{}
	}
	return &Muxer{
		binary: binary,
		runner: runner,
		logger: logging.OrGlobal(logger).WithComponent("ffmpeg"),
	}
}

// ExtractAudio copies all audio streams of input into the audio-only
// container at output.
func (m *Muxer) ExtractAudio(ctx context.Context, input, output string) error {
	return m.run(ctx, fmt.Sprintf("extract audio from %s", input), BuildExtractAudioArgs(input, output))
}

// MuxWithAudio writes output from the video stream of video and the audio
// streams of audio.
func (m *Muxer) MuxWithAudio(ctx context.Context, video, audio, output string) error {
	return m.run(ctx, fmt.Sprintf("mux %s with %s", video, audio), BuildMuxArgs(video, audio, output))
}

// CopyVideo remuxes video into output unchanged.
func (m *Muxer) CopyVideo(ctx context.Context, video, output string) error {
	return m.run(ctx, fmt.Sprintf("copy %s", video), BuildCopyArgs(video, output))
}

func (m *Muxer) run(ctx context.Context, what string, args []string) error {
	m.logger.Debug("running ffmpeg", "cmd", util.CommandLine(m.binary, args...))
	if _, _, err := m.runner.Run(ctx, m.binary, args...); err != nil {
		if cverrors.IsCancelled(err) {
			return err
		}
		return cverrors.NewMuxError(what, err)
	}
	return nil
}
