package surface

import (
	"errors"
	"image"

	"github.com/tauraamui/blurplayer/pkg/gpu"
	"github.com/tauraamui/xerror"
	"go.uber.org/atomic"
)

// NewGPUPresenter renders through queue onto drawables taken from screen.
func NewGPUPresenter(screen Screen, queue gpu.CommandQueue) Presenter {
	return &gpuPresenter{screen: screen, queue: queue}
}

type gpuPresenter struct {
	screen      Screen
	queue       gpu.CommandQueue
	submissions atomic.Uint64
}

func (p *gpuPresenter) Present(img image.Image, inPlace gpu.InPlaceFilter) error {
	if img == nil {
		return xerror.New("no image to present")
	}
	extent := img.Bounds()
	if extent.Empty() {
		return xerror.New("unable to present empty image")
	}

	drawable, err := p.screen.NextDrawable()
	if err != nil {
		return unavailable("drawable", err)
	}
	cb, err := p.queue.CommandBuffer()
	if err != nil {
		return unavailable("command buffer", err)
	}

	tex := drawable.Texture()
	scaleX := float64(tex.Width()) / float64(extent.Dx())
	scaleY := float64(tex.Height()) / float64(extent.Dy())

	cb.Render(img, tex, scaleX, scaleY)
	cb.Present(drawable)
	if inPlace != nil {
		inPlace.EncodeInPlace(cb, tex)
	}
	cb.Commit()
	p.submissions.Inc()
	return nil
}

func (p *gpuPresenter) Submissions() uint64 { return p.submissions.Load() }

func unavailable(what string, err error) error {
	if errors.Is(err, ErrSurfaceUnavailable) {
		return err
	}
	return xerror.Errorf("%w: no %s: %s", ErrSurfaceUnavailable, what, err.Error())
}
