package surface

import (
	"image"

	"github.com/gogpu/gg"
	"github.com/tauraamui/blurplayer/pkg/gpu"
	"github.com/tauraamui/blurplayer/pkg/log"
	"go.uber.org/atomic"
)

// NewLayerPresenter rasterizes straight into a 2D backing store sized to
// the screen and hands that over as the screen's layer contents. There
// is no command buffer on this path, so in place filters are not run.
func NewLayerPresenter(screen Screen) Presenter {
	return &layerPresenter{screen: screen}
}

type layerPresenter struct {
	screen      Screen
	submissions atomic.Uint64
	warned      atomic.Bool
}

func (p *layerPresenter) Present(img image.Image, inPlace gpu.InPlaceFilter) error {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	if inPlace != nil && p.warned.CAS(false, true) {
		log.Warn("layer presenter cannot run in place filters, frames are shown unfiltered")
	}

	w, h := p.screen.Size()
	if w <= 0 || h <= 0 {
		return ErrSurfaceUnavailable
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		DstWidth:      float64(w),
		DstHeight:     float64(h),
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
	p.screen.SetLayerContents(dc.Image())
	p.submissions.Inc()
	return nil
}

func (p *layerPresenter) Submissions() uint64 { return p.submissions.Load() }
