//go:build cuda
// +build cuda

package gpu

import (
	"image"
	"math"

	"github.com/tauraamui/blurplayer/internal/kernel"
	"github.com/tauraamui/blurplayer/pkg/log"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
	"gocv.io/x/gocv/cuda"
)

// OpenCV's CUDA linear filters reject kernels wider than 32 taps, so wide
// blurs are built from repeated narrower passes: n passes of sigma/sqrt(n)
// compose to one pass of sigma.
const maxCUDAPassSigma = 5.0

var cudaDeviceCount = func() int {
	return cuda.GetCudaEnabledDeviceCount()
}

func NewCUDADevice(opts ...SoftwareOption) (Device, error) {
	if cudaDeviceCount() == 0 {
		return nil, xerror.Errorf("cuda: %w", ErrNoDevice)
	}
	d := &cudaDevice{softwareDevice: softwareDevice{maxInFlight: defaultMaxInFlight}}
	for _, opt := range opts {
		opt(&d.softwareDevice)
	}
	return d, nil
}

// cudaDevice shares the CPU command queue and only moves the blur onto
// the card.
type cudaDevice struct {
	softwareDevice
}

func (d *cudaDevice) Name() string { return "cuda" }

func (d *cudaDevice) SupportsSeparableBlur() bool { return cudaDeviceCount() > 0 }

func (d *cudaDevice) NewCommandQueue() (CommandQueue, error) {
	return newQueue(d.Name(), d.maxInFlight), nil
}

func (d *cudaDevice) NewSeparableBlur(sigma float64) (SeparableBlur, error) {
	if !d.SupportsSeparableBlur() {
		return nil, ErrSeparableBlurUnsupported
	}
	if sigma < 0 {
		return nil, xerror.Errorf("separable blur sigma must not be negative: %f", sigma)
	}
	b := &cudaSeparableBlur{sigma: sigma}
	if sigma == 0 {
		return b, nil
	}
	passes := passesFor(sigma)
	passSigma := sigma / math.Sqrt(float64(passes))
	ksize := 2*kernel.HalfWidth(passSigma) + 1
	for i := 0; i < passes; i++ {
		b.filters = append(b.filters, cuda.NewGaussianFilter(
			gocv.MatTypeCV8UC4, gocv.MatTypeCV8UC4, image.Pt(ksize, ksize), passSigma,
		))
	}
	log.Debug("built cuda gaussian: sigma %.2f as %d passes of %.2f (%d taps)", sigma, passes, passSigma, ksize)
	return b, nil
}

func passesFor(sigma float64) int {
	return int(math.Ceil((sigma / maxCUDAPassSigma) * (sigma / maxCUDAPassSigma)))
}

type cudaSeparableBlur struct {
	sigma   float64
	filters []cuda.GaussianFilter
}

func (b *cudaSeparableBlur) Sigma() float64 { return b.sigma }

func (b *cudaSeparableBlur) EncodeInPlace(cb CommandBuffer, tex *Texture) {
	if len(b.filters) == 0 {
		return
	}
	cb.Encode(func() {
		tex.Mutate(func(img *image.RGBA) {
			if err := b.run(img); err != nil {
				log.Error("cuda gaussian pass failed: %v", err)
			}
		})
	})
}

func (b *cudaSeparableBlur) run(img *image.RGBA) error {
	mat, err := gocv.NewMatFromBytes(img.Rect.Dy(), img.Rect.Dx(), gocv.MatTypeCV8UC4, img.Pix)
	if err != nil {
		return err
	}
	defer mat.Close()

	src, dst := cuda.NewGpuMat(), cuda.NewGpuMat()
	defer src.Close()
	defer dst.Close()

	src.Upload(mat)
	for i := range b.filters {
		b.filters[i].Apply(src, &dst)
		src, dst = dst, src
	}

	out := gocv.NewMat()
	defer out.Close()
	src.Download(&out)
	copy(img.Pix, out.ToBytes())
	return nil
}

func (b *cudaSeparableBlur) Close() error {
	for i := range b.filters {
		b.filters[i].Close()
	}
	b.filters = nil
	return nil
}
