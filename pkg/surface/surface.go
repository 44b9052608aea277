// Package surface owns the presentation side of the pipeline: screens
// that hand out drawables or accept a layer image, and the presenters
// that put a (possibly still to be blurred) image onto them.
package surface

import (
	"errors"
	"image"

	"github.com/tauraamui/blurplayer/pkg/gpu"
)

// ErrSurfaceUnavailable means nothing can be drawn this tick, the
// caller should skip and try again on the next one.
var ErrSurfaceUnavailable = errors.New("surface unavailable")

type Screen interface {
	// Size is the drawable size in pixels.
	Size() (int, int)
	NextDrawable() (gpu.Drawable, error)
	SetLayerContents(img image.Image)
}

type Presenter interface {
	// Present shows img scaled to fill the screen. When inPlace is set it
	// runs over the destination texture in the same submission.
	Present(img image.Image, inPlace gpu.InPlaceFilter) error
	Submissions() uint64
}
