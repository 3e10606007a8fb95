// Package render draws timer frames and streams them into an encoder.
package render

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Frame geometry and text style.
const (
	FrameWidth  = 320
	FrameHeight = 240
	FontSize    = 32
	fontDPI     = 72
)

var (
	fontOnce   sync.Once
	parsedFont *opentype.Font
	fontErr    error
)

func loadFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		parsedFont, fontErr = opentype.Parse(gomonobold.TTF)
	})
	return parsedFont, fontErr
}

// Painter draws a white label centred on a black frame and returns it as
// packed rgb24. A Painter is not safe for concurrent use.
type Painter struct {
	face   font.Face
	width  int
	height int
	canvas *image.RGBA
}

// NewPainter returns a painter for FrameWidth x FrameHeight frames.
func NewPainter() (*Painter, error) {
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("parse timer font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    FontSize,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create timer font face: %w", err)
	}
	return &Painter{
		face:   face,
		width:  FrameWidth,
		height: FrameHeight,
		canvas: image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight)),
	}, nil
}

// Size returns the frame dimensions.
func (p *Painter) Size() (width, height int) {
	return p.width, p.height
}

// FrameBytes is the length of one painted frame.
func (p *Painter) FrameBytes() int {
	return p.width * p.height * 3
}

// Measure returns the pixel width and height of the label's ink box.
func (p *Painter) Measure(label string) (width, height int) {
	bounds, _ := font.BoundString(p.face, label)
	return (bounds.Max.X - bounds.Min.X).Ceil(), (bounds.Max.Y - bounds.Min.Y).Ceil()
}

// Origin returns the baseline start point for label.
func (p *Painter) Origin(label string) image.Point {
	w, h := p.Measure(label)
	return image.Pt((p.width-w)/2, (p.height+h)/2)
}

// Paint renders label and returns a new rgb24 buffer.
func (p *Painter) Paint(label string) []byte {
	draw.Draw(p.canvas, p.canvas.Bounds(), image.Black, image.Point{}, draw.Src)

	origin := p.Origin(label)
	d := &font.Drawer{
		Dst:  p.canvas,
		Src:  image.White,
		Face: p.face,
		Dot:  fixed.P(origin.X, origin.Y),
	}
	d.DrawString(label)

	out := make([]byte, p.FrameBytes())
	pix := p.canvas.Pix
	for src, dst := 0, 0; dst < len(out); src, dst = src+4, dst+3 {
		out[dst] = pix[src]
		out[dst+1] = pix[src+1]
		out[dst+2] = pix[src+2]
	}
	return out
}

// Close releases the font face.
func (p *Painter) Close() error {
	return p.face.Close()
}
