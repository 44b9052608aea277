package blur

import (
	"image"

	"github.com/tauraamui/blurplayer/pkg/gpu"
	"github.com/tauraamui/blurplayer/pkg/log"
)

// NewGPUSeparable defers the blur to an in-place pass over the render
// target. The device capability is checked when the operator is built,
// which happens on the first frame and on every radius change after.
func NewGPUSeparable(device gpu.Device) Backend {
	g := &gpuSeparable{device: device, fallback: NewComposited(), radius: -1}
	if !g.supported() {
		g.degrade("device lacks separable blur")
	}
	return g
}

type gpuSeparable struct {
	device   gpu.Device
	fallback Backend
	radius   float64
	op       gpu.SeparableBlur
	degraded bool
}

func (g *gpuSeparable) Kind() Kind {
	if g.degraded {
		return Composited
	}
	return GPUSeparable
}

func (g *gpuSeparable) Apply(img image.Image, radius float64) Result {
	if radius < 0 {
		radius = 0
	}
	if radius != g.radius {
		g.rebuild(radius)
	}
	if g.degraded {
		return g.fallback.Apply(img, radius)
	}
	if radius == 0 {
		return Result{Image: img}
	}
	return Result{Image: img, InPlace: g.op}
}

func (g *gpuSeparable) rebuild(radius float64) {
	g.release()
	g.radius = radius
	g.degraded = false

	if !g.supported() {
		g.degrade("device lacks separable blur")
		return
	}
	if radius == 0 {
		return
	}
	op, err := g.device.NewSeparableBlur(radius)
	if err != nil {
		g.degrade(err.Error())
		return
	}
	g.op = op
	log.Debug("built separable blur operator for sigma %.2f on %s", radius, g.device.Name())
}

func (g *gpuSeparable) supported() bool {
	return g.device != nil && g.device.SupportsSeparableBlur()
}

func (g *gpuSeparable) degrade(reason string) {
	g.degraded = true
	log.Info("accelerated blur unavailable (%s), using %s filter", reason, Composited)
}

func (g *gpuSeparable) release() {
	if g.op == nil {
		return
	}
	if err := g.op.Close(); err != nil {
		log.Warn("unable to release separable blur operator: %v", err)
	}
	g.op = nil
}

func (g *gpuSeparable) Close() error {
	g.release()
	return g.fallback.Close()
}
