package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPainter(t *testing.T) *Painter {
	t.Helper()
	p, err := NewPainter()
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func pixel(frame []byte, x, y int) (r, g, b byte) {
	i := (y*FrameWidth + x) * 3
	return frame[i], frame[i+1], frame[i+2]
}

func TestPaintFrameSize(t *testing.T) {
	p := newTestPainter(t)

	frame := p.Paint("0:00:00.0")
	assert.Len(t, frame, FrameWidth*FrameHeight*3)
	assert.Equal(t, len(frame), p.FrameBytes())
}

func TestPaintBlackBackgroundWhiteText(t *testing.T) {
	p := newTestPainter(t)
	frame := p.Paint("1:23:45.6")

	// Corners stay black.
	for _, pt := range [][2]int{{0, 0}, {FrameWidth - 1, 0}, {0, FrameHeight - 1}, {FrameWidth - 1, FrameHeight - 1}} {
		r, g, b := pixel(frame, pt[0], pt[1])
		assert.Equal(t, [3]byte{0, 0, 0}, [3]byte{r, g, b}, "corner %v", pt)
	}

	// Text pixels are grey levels of white: r == g == b, and some are fully white.
	white := 0
	for i := 0; i < len(frame); i += 3 {
		require.Equal(t, frame[i], frame[i+1])
		require.Equal(t, frame[i], frame[i+2])
		if frame[i] == 0xff {
			white++
		}
	}
	assert.Greater(t, white, 50)
}

func TestPaintIsCentred(t *testing.T) {
	p := newTestPainter(t)
	label := "0:00:10.0"

	w, h := p.Measure(label)
	require.Positive(t, w)
	require.Positive(t, h)
	require.Less(t, w, FrameWidth)

	origin := p.Origin(label)
	assert.Equal(t, (FrameWidth-w)/2, origin.X)
	assert.Equal(t, (FrameHeight+h)/2, origin.Y)

	// Ink stays inside a band around the centre line.
	frame := p.Paint(label)
	minX, maxX, minY, maxY := FrameWidth, -1, FrameHeight, -1
	for y := 0; y < FrameHeight; y++ {
		for x := 0; x < FrameWidth; x++ {
			if r, _, _ := pixel(frame, x, y); r > 0 {
				minX, maxX = min(minX, x), max(maxX, x)
				minY, maxY = min(minY, y), max(maxY, y)
			}
		}
	}
	require.GreaterOrEqual(t, maxX, 0, "no ink painted")
	assert.InDelta(t, FrameWidth/2, (minX+maxX)/2, 12)
	assert.InDelta(t, FrameHeight/2, (minY+maxY)/2, 12)
}

func TestPaintDeterministic(t *testing.T) {
	p := newTestPainter(t)

	a := p.Paint("0:00:01.5")
	b := p.Paint("0:00:01.6")
	c := p.Paint("0:00:01.5")

	assert.True(t, bytes.Equal(a, c), "same label should paint identical bytes")
	assert.False(t, bytes.Equal(a, b), "different labels should differ")
}

func TestLongerLabelsMeasureWider(t *testing.T) {
	p := newTestPainter(t)

	short, _ := p.Measure("0:00:00.0")
	long, _ := p.Measure("100:00:00.0")
	assert.Greater(t, long, short)
}
