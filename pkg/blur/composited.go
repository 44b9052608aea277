package blur

import (
	"image"

	"github.com/tauraamui/blurplayer/internal/kernel"
)

// NewComposited is the software filter: clamp to extent, Gaussian with
// sigma equal to the radius, crop back.
func NewComposited() Backend {
	return &composited{}
}

type composited struct {
	filter filterCache
}

func (c *composited) Kind() Kind { return Composited }

func (c *composited) Apply(img image.Image, radius float64) Result {
	return Result{Image: c.filter.apply(img, radius)}
}

func (c *composited) Close() error { return nil }

// filterCache keeps the kernel for the last radius seen so it is only
// rebuilt when the radius moves.
type filterCache struct {
	kernel *kernel.Gaussian
}

func (f *filterCache) apply(img image.Image, radius float64) image.Image {
	if radius < 0 {
		radius = 0
	}
	if f.kernel == nil || f.kernel.Sigma() != radius {
		f.kernel = kernel.NewGaussian(radius)
	}
	return f.kernel.Apply(img)
}
