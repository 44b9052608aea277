package kernel_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/blurplayer/internal/kernel"
)

func checkerboard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{20, 40, 60, 255}
			if (x/4+y/4)%2 == 0 {
				c = color.RGBA{230, 210, 190, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestHalfWidthCoversThreeSigma(t *testing.T) {
	is := is.New(t)
	is.Equal(kernel.HalfWidth(0), 0)
	is.Equal(kernel.HalfWidth(1), 3)
	is.Equal(kernel.HalfWidth(6), 18)
	is.Equal(kernel.HalfWidth(0.2), 1)
}

func TestBlurKeepsExtent(t *testing.T) {
	is := is.New(t)
	for _, sigma := range []float64{0, 0.5, 1, 3.3, 6, 12} {
		out := kernel.Blur(checkerboard(37, 21), sigma)
		is.Equal(out.Bounds(), image.Rect(0, 0, 37, 21))
	}
}

func TestBlurZeroSigmaIsIdentity(t *testing.T) {
	is := is.New(t)
	src := checkerboard(16, 16)
	out := kernel.Blur(src, 0)
	is.Equal(out.Pix, src.Pix)
}

func TestBlurFlatImageStaysFlat(t *testing.T) {
	is := is.New(t)
	src := image.NewRGBA(image.Rect(0, 0, 12, 9))
	for i := range src.Pix {
		src.Pix[i] = 128
	}
	out := kernel.Blur(src, 2)
	for _, p := range out.Pix {
		is.True(p >= 127 && p <= 128)
	}
}

func TestBlurSmoothsEdges(t *testing.T) {
	is := is.New(t)
	src := checkerboard(32, 32)
	out := kernel.Blur(src, 3)
	// a blurred checkerboard cell edge must land between the two tones
	r := out.RGBAAt(4, 4).R
	is.True(r > 20 && r < 230)
}

func TestBlurResultIsAnchoredAtOrigin(t *testing.T) {
	is := is.New(t)
	impulse := image.NewRGBA(image.Rect(0, 0, 21, 21))
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			impulse.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	impulse.SetRGBA(10, 10, color.RGBA{255, 255, 255, 255})

	out := kernel.Blur(impulse, 1.5)
	is.Equal(out.Bounds(), impulse.Bounds())

	peak, at := uint8(0), image.Point{}
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			if r := out.RGBAAt(x, y).R; r > peak {
				peak, at = r, image.Pt(x, y)
			}
		}
	}
	is.Equal(at, image.Pt(10, 10))

	grey := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			grey.SetRGBA(x, y, color.RGBA{128, 128, 128, 255})
		}
	}
	corner := kernel.Blur(grey, 3).RGBAAt(0, 0)
	is.Equal(corner.A, uint8(255))
	is.True(corner.R >= 127 && corner.R <= 129)
}
