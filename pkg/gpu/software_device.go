package gpu

import (
	"image"

	"github.com/tauraamui/blurplayer/internal/kernel"
	"github.com/tauraamui/xerror"
)

type SoftwareOption func(*softwareDevice)

// WithSeparableBlur toggles whether the device advertises the separable
// blur primitive.
func WithSeparableBlur(supported bool) SoftwareOption {
	return func(d *softwareDevice) { d.separableBlur = supported }
}

// WithMaxInFlight bounds the command buffers a queue hands out at once.
func WithMaxInFlight(n int) SoftwareOption {
	return func(d *softwareDevice) { d.maxInFlight = n }
}

// NewSoftwareDevice emulates a GPU on the CPU: command buffers run on a
// queue goroutine and the separable blur runs the shared Gaussian kernel.
func NewSoftwareDevice(opts ...SoftwareOption) Device {
	d := &softwareDevice{separableBlur: true, maxInFlight: defaultMaxInFlight}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type softwareDevice struct {
	separableBlur bool
	maxInFlight   int
}

func (d *softwareDevice) Name() string { return "software" }

func (d *softwareDevice) SupportsSeparableBlur() bool { return d.separableBlur }

func (d *softwareDevice) NewCommandQueue() (CommandQueue, error) {
	return newQueue(d.Name(), d.maxInFlight), nil
}

func (d *softwareDevice) NewSeparableBlur(sigma float64) (SeparableBlur, error) {
	if !d.separableBlur {
		return nil, ErrSeparableBlurUnsupported
	}
	if sigma < 0 {
		return nil, xerror.Errorf("separable blur sigma must not be negative: %f", sigma)
	}
	return &softwareSeparableBlur{kernel: kernel.NewGaussian(sigma)}, nil
}

func (d *softwareDevice) Close() error { return nil }

type softwareSeparableBlur struct {
	kernel *kernel.Gaussian
}

func (b *softwareSeparableBlur) Sigma() float64 { return b.kernel.Sigma() }

func (b *softwareSeparableBlur) EncodeInPlace(cb CommandBuffer, tex *Texture) {
	cb.Encode(func() {
		tex.Mutate(func(img *image.RGBA) {
			blurred := b.kernel.Apply(img)
			copy(img.Pix, blurred.Pix)
		})
	})
}

func (b *softwareSeparableBlur) Close() error { return nil }
