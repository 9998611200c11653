package device

import (
	"image"
	"image/draw"
	"time"
)

// Frame is a decoded image and the time it was read. A Frame must not be
// modified once published; it may be shared between goroutines freely.
type Frame struct {
	Image *image.RGBA
	Time  time.Time
}

// NewFrame returns a Frame holding img converted to RGBA. If img is already
// an *image.RGBA with a zero origin it is used without copying.
func NewFrame(img image.Image, t time.Time) *Frame {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return &Frame{Image: rgba, Time: t}
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return &Frame{Image: rgba, Time: t}
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.Image.Rect.Dx() }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.Image.Rect.Dy() }

// Resolution returns the frame size.
func (f *Frame) Resolution() Resolution {
	return Resolution{Width: f.Width(), Height: f.Height()}
}
