// Package ffmpeg builds ffmpeg command lines and runs them: the raw-frame
// encoder the timer is streamed into, and the stream-copy steps that
// combine the timer with the source audio.
package ffmpeg

import (
	"fmt"

	"github.com/goldsheep3/clockvid/internal/timecode"
)

// DefaultBinary is the ffmpeg executable looked up on PATH.
const DefaultBinary = "ffmpeg"

// DefaultCodec is the video encoder used for the timer video.
const DefaultCodec = "mpeg4"

// ArgsBuilder accumulates ffmpeg arguments with method chaining.
type ArgsBuilder struct {
	args []string
}

// NewArgsBuilder starts an argument list with -hide_banner.
func NewArgsBuilder() *ArgsBuilder {
	return &ArgsBuilder{args: []string{"-hide_banner"}}
}

// NewPlainArgsBuilder starts an empty argument list.
func NewPlainArgsBuilder() *ArgsBuilder {
	return &ArgsBuilder{}
}

// LogLevel sets -loglevel.
func (b *ArgsBuilder) LogLevel(level string) *ArgsBuilder {
	return b.Add("-loglevel", level)
}

// Overwrite adds -y so existing outputs are replaced.
func (b *ArgsBuilder) Overwrite() *ArgsBuilder {
	return b.Add("-y")
}

// Input adds -i path.
func (b *ArgsBuilder) Input(path string) *ArgsBuilder {
	return b.Add("-i", path)
}

// Map adds -map spec.
func (b *ArgsBuilder) Map(spec string) *ArgsBuilder {
	return b.Add("-map", spec)
}

// CopyCodecs adds -c copy.
func (b *ArgsBuilder) CopyCodecs() *ArgsBuilder {
	return b.Add("-c", "copy")
}

// Add appends raw arguments.
func (b *ArgsBuilder) Add(args ...string) *ArgsBuilder {
	b.args = append(b.args, args...)
	return b
}

// Output appends the output path and returns the finished argument list.
func (b *ArgsBuilder) Output(path string) []string {
	return append(b.args, path)
}

// RawVideoParams describes the rgb24 stream written to an encoder's stdin.
type RawVideoParams struct {
	Width  int
	Height int
	Rate   timecode.Rate
	Codec  string
	Output string
}

// BuildRawVideoArgs returns the argv for an encoder reading rgb24 frames
// from stdin and writing a silent yuv420p video.
func BuildRawVideoArgs(p RawVideoParams) []string {
	codec := p.Codec
	if codec == "" {
		codec = DefaultCodec
	}
	return NewArgsBuilder().
		LogLevel("error").
		Overwrite().
		Add("-f", "rawvideo",
			"-pix_fmt", "rgb24",
			"-s", fmt.Sprintf("%dx%d", p.Width, p.Height),
			"-framerate", p.Rate.String()).
		Input("pipe:0").
		Add("-an",
			"-c:v", codec,
			"-pix_fmt", "yuv420p").
		Output(p.Output)
}

// BuildExtractAudioArgs copies every audio stream of input into output.
func BuildExtractAudioArgs(input, output string) []string {
	return NewPlainArgsBuilder().Overwrite().Input(input).Map("0:a").CopyCodecs().Output(output)
}

// BuildMuxArgs combines the video of video with every audio stream of audio
// without re-encoding.
func BuildMuxArgs(video, audio, output string) []string {
	return NewPlainArgsBuilder().
		Overwrite().
		Input(video).
		Input(audio).
		Map("0:v").
		Map("1:a").
		CopyCodecs().
		Output(output)
}

// BuildCopyArgs remuxes input into output without re-encoding.
func BuildCopyArgs(input, output string) []string {
	return NewPlainArgsBuilder().Overwrite().Input(input).CopyCodecs().Output(output)
}
