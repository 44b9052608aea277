package gpu_test

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/blurplayer/internal/kernel"
	"github.com/tauraamui/blurplayer/pkg/gpu"
)

type testDrawable struct {
	tex       *gpu.Texture
	mu        sync.Mutex
	presented []*image.RGBA
}

func (d *testDrawable) Texture() *gpu.Texture { return d.tex }

func (d *testDrawable) Present() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.presented = append(d.presented, d.tex.Image())
}

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 255 / w), uint8(y * 255 / h), uint8((x * y) % 255), 255})
		}
	}
	return img
}

func TestSoftwareDeviceRendersAtUnitScale(t *testing.T) {
	is := is.New(t)
	dev := gpu.NewSoftwareDevice()
	q, err := dev.NewCommandQueue()
	is.NoErr(err)
	defer q.Close()

	src := gradient(8, 6)
	d := &testDrawable{tex: gpu.NewTexture(8, 6)}
	cb, err := q.CommandBuffer()
	is.NoErr(err)
	cb.Render(src, d.tex, 1, 1)
	cb.Present(d)
	cb.Commit()
	cb.WaitUntilCompleted()

	is.Equal(len(d.presented), 1)
	is.Equal(d.presented[0].Pix, src.Pix)
}

func TestSoftwareDeviceRenderFillsScaledDrawable(t *testing.T) {
	is := is.New(t)
	dev := gpu.NewSoftwareDevice()
	q, err := dev.NewCommandQueue()
	is.NoErr(err)
	defer q.Close()

	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	tex := gpu.NewTexture(16, 16)
	cb, err := q.CommandBuffer()
	is.NoErr(err)
	cb.Render(src, tex, 4, 8)
	cb.Commit()
	cb.WaitUntilCompleted()

	out := tex.Image()
	// independent x/y scale means every corner is covered
	is.Equal(out.RGBAAt(0, 0).A, uint8(200))
	is.Equal(out.RGBAAt(15, 15).A, uint8(200))
	is.Equal(out.RGBAAt(15, 0).A, uint8(200))
}

func TestSoftwareDeviceRunsInPlaceBlurBeforePresent(t *testing.T) {
	is := is.New(t)
	dev := gpu.NewSoftwareDevice()
	q, err := dev.NewCommandQueue()
	is.NoErr(err)
	defer q.Close()

	src := gradient(24, 24)
	blur, err := dev.NewSeparableBlur(2)
	is.NoErr(err)
	is.Equal(blur.Sigma(), 2.0)

	d := &testDrawable{tex: gpu.NewTexture(24, 24)}
	cb, err := q.CommandBuffer()
	is.NoErr(err)
	cb.Render(src, d.tex, 1, 1)
	cb.Present(d)
	blur.EncodeInPlace(cb, d.tex)
	cb.Commit()
	cb.WaitUntilCompleted()

	is.Equal(len(d.presented), 1)
	is.Equal(d.presented[0].Pix, kernel.Blur(src, 2).Pix)
}

func TestSoftwareDeviceWithoutSeparableBlur(t *testing.T) {
	is := is.New(t)
	dev := gpu.NewSoftwareDevice(gpu.WithSeparableBlur(false))
	is.True(!dev.SupportsSeparableBlur())

	blur, err := dev.NewSeparableBlur(3)
	is.True(blur == nil)
	is.True(errors.Is(err, gpu.ErrSeparableBlurUnsupported))
}

func TestCommandQueueBoundsInFlightBuffers(t *testing.T) {
	is := is.New(t)
	dev := gpu.NewSoftwareDevice(gpu.WithMaxInFlight(1))
	q, err := dev.NewCommandQueue()
	is.NoErr(err)
	defer q.Close()

	release := make(chan struct{})
	cb, err := q.CommandBuffer()
	is.NoErr(err)
	cb.Encode(func() { <-release })
	cb.Commit()

	_, err = q.CommandBuffer()
	is.True(errors.Is(err, gpu.ErrCommandBufferUnavailable))

	close(release)
	cb.WaitUntilCompleted()
}

func TestCommandQueueRunsBuffersInCommitOrder(t *testing.T) {
	is := is.New(t)
	q, err := gpu.NewSoftwareDevice().NewCommandQueue()
	is.NoErr(err)

	var mu sync.Mutex
	order := []int{}
	for i := 0; i < 3; i++ {
		i := i
		cb, err := q.CommandBuffer()
		is.NoErr(err)
		cb.Encode(func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, i)
		})
		cb.Commit()
	}
	is.NoErr(q.Close())
	is.Equal(order, []int{0, 1, 2})
}

func TestClosedCommandQueueRejectsBuffers(t *testing.T) {
	is := is.New(t)
	q, err := gpu.NewSoftwareDevice().NewCommandQueue()
	is.NoErr(err)
	is.NoErr(q.Close())

	_, err = q.CommandBuffer()
	is.True(errors.Is(err, gpu.ErrCommandQueueClosed))
}

func TestCUDADeviceUnavailableWithoutTag(t *testing.T) {
	is := is.New(t)
	dev, err := gpu.NewCUDADevice()
	if err == nil {
		defer dev.Close()
		t.Skip("cuda device present")
	}
	is.True(errors.Is(err, gpu.ErrNoDevice))
}
