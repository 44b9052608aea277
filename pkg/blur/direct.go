package blur

import "image"

// NewDirectDraw shares the composited filter math; the difference is on
// the presenting side, its output is rasterized straight into a layer.
func NewDirectDraw() Backend {
	return &directDraw{}
}

type directDraw struct {
	filter filterCache
}

func (d *directDraw) Kind() Kind { return DirectDraw }

func (d *directDraw) Apply(img image.Image, radius float64) Result {
	return Result{Image: d.filter.apply(img, radius)}
}

func (d *directDraw) Close() error { return nil }
