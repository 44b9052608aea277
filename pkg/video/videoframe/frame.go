package videoframe

import (
	"image"
	"time"
)

type Dimensions struct {
	W, H int
}

// Frame is a single decoded sample handed out by a source. It is owned
// by whoever took it and must be closed once consumed.
type Frame interface {
	Image() image.Image
	Dimensions() Dimensions
	Timestamp() time.Duration
	Close()
}

func New(img image.Image, ts time.Duration) Frame {
	return &imageFrame{img: img, timestamp: ts}
}

type imageFrame struct {
	img       image.Image
	timestamp time.Duration
	isClosed  bool
}

func (f *imageFrame) Image() image.Image { return f.img }

func (f *imageFrame) Dimensions() Dimensions {
	if f.img == nil {
		return Dimensions{}
	}
	b := f.img.Bounds()
	return Dimensions{W: b.Dx(), H: b.Dy()}
}

func (f *imageFrame) Timestamp() time.Duration { return f.timestamp }

func (f *imageFrame) Close() {
	if !f.isClosed {
		f.img = nil
		f.isClosed = true
	}
}
