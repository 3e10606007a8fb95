package ffmpeg

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cverrors "github.com/goldsheep3/clockvid/internal/errors"
	"github.com/goldsheep3/clockvid/internal/timecode"
)

// fakeEncoder writes a shell script that stands in for ffmpeg. The script
// ignores its arguments; body decides what it does with stdin.
func fakeEncoder(t *testing.T, body string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "fake-ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func sinkParams(binary string, out string) SinkParams {
	return SinkParams{
		Binary: binary,
		RawVideoParams: RawVideoParams{
			Width:  320,
			Height: 240,
			Rate:   timecode.Rate{Num: 25, Den: 1},
			Output: out,
		},
	}
}

func TestFrameSinkStreamsFrames(t *testing.T) {
	out := filepath.Join(t.TempDir(), "timer.raw")
	bin := fakeEncoder(t, `for last; do :; done; cat > "$last"`)

	s, err := OpenFrameSink(context.Background(), sinkParams(bin, out))
	require.NoError(t, err)

	frame := make([]byte, 320*240*3)
	for i := 0; i < 3; i++ {
		frame[0] = byte(i)
		require.NoError(t, s.WriteFrame(frame))
	}
	require.NoError(t, s.Close())
	assert.Equal(t, 3, s.Frames())

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, int64(3*320*240*3), info.Size())

	// Close and Abort after Close are no-ops.
	assert.NoError(t, s.Close())
	s.Abort()
}

func TestFrameSinkRejectsWrongFrameSize(t *testing.T) {
	bin := fakeEncoder(t, "cat > /dev/null")
	s, err := OpenFrameSink(context.Background(), sinkParams(bin, "unused"))
	require.NoError(t, err)
	defer s.Abort()

	err = s.WriteFrame(make([]byte, 10))
	assert.True(t, cverrors.IsEncoder(err))
}

func TestFrameSinkEncoderFailureOnClose(t *testing.T) {
	bin := fakeEncoder(t, "cat > /dev/null; echo 'Unknown encoder' >&2; exit 1")
	s, err := OpenFrameSink(context.Background(), sinkParams(bin, "unused"))
	require.NoError(t, err)

	require.NoError(t, s.WriteFrame(make([]byte, 320*240*3)))
	err = s.Close()
	require.Error(t, err)
	assert.True(t, cverrors.IsEncoder(err))
	assert.Contains(t, err.Error(), "Unknown encoder")
}

func TestFrameSinkEncoderExitsEarly(t *testing.T) {
	bin := fakeEncoder(t, "echo 'cannot open output' >&2; exit 1")
	s, err := OpenFrameSink(context.Background(), sinkParams(bin, "unused"))
	require.NoError(t, err)

	// A frame is larger than a pipe buffer, so the write fails once the
	// encoder is gone.
	frame := make([]byte, 320*240*3)
	for i := 0; i < 4 && err == nil; i++ {
		err = s.WriteFrame(frame)
	}
	require.Error(t, err)
	assert.True(t, cverrors.IsEncoder(err))
	assert.Contains(t, err.Error(), "cannot open output")
	assert.NoError(t, s.Close(), "Close after a failed write is a no-op")
}

func TestOpenFrameSinkErrors(t *testing.T) {
	_, err := OpenFrameSink(context.Background(), sinkParams("clockvid-no-such-ffmpeg", "o.mp4"))
	assert.True(t, cverrors.IsEncoder(err))

	p := sinkParams("ffmpeg", "o.mp4")
	p.Rate = timecode.Rate{}
	_, err = OpenFrameSink(context.Background(), p)
	assert.True(t, cverrors.IsEncoder(err))

	p = sinkParams("ffmpeg", "o.mp4")
	p.Width = 0
	_, err = OpenFrameSink(context.Background(), p)
	assert.True(t, cverrors.IsEncoder(err))
}

func TestFrameSinkAbort(t *testing.T) {
	bin := fakeEncoder(t, "exec sleep 30")
	s, err := OpenFrameSink(context.Background(), sinkParams(bin, "unused"))
	require.NoError(t, err)
	s.Abort()
	assert.True(t, s.cmd.ProcessState != nil, "Abort must reap the process")
}
