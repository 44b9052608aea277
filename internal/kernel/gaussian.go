// Package kernel holds the Gaussian convolution shared by every software
// blur path, so the composited filter and the emulated GPU operator agree
// pixel for pixel.
package kernel

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/transform"
)

// HalfWidth is the number of taps either side of the centre for sigma.
func HalfWidth(sigma float64) int {
	if sigma <= 0 {
		return 0
	}
	return int(math.Ceil(3 * sigma))
}

// Gaussian is a normalised 1-D horizontal kernel sized to sigma.
type Gaussian struct {
	sigma float64
	half  int
	row   convolution.Matrix
	col   convolution.Matrix
}

func NewGaussian(sigma float64) *Gaussian {
	if sigma <= 0 {
		return &Gaussian{}
	}
	half := HalfWidth(sigma)
	k := convolution.NewKernel(2*half+1, 1)
	for i := 0; i < 2*half+1; i++ {
		x := float64(i - half)
		k.Matrix[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
	}
	row := k.Normalized()
	return &Gaussian{sigma: sigma, half: half, row: row, col: row.Transposed()}
}

func (g *Gaussian) Sigma() float64 { return g.sigma }

// Apply clamps src to its extent, convolves both axes and crops the
// result back to the original size. The result always starts at 0,0.
func (g *Gaussian) Apply(src image.Image) *image.RGBA {
	if g.half == 0 {
		return rebase(clone.AsRGBA(src))
	}
	b := src.Bounds()
	padded := clone.Pad(src, g.half, g.half, clone.EdgeExtend)
	opts := convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true}
	blurred := convolution.Convolve(padded, g.row, &opts)
	blurred = convolution.Convolve(blurred, g.col, &opts)
	return rebase(transform.Crop(blurred, image.Rect(g.half, g.half, g.half+b.Dx(), g.half+b.Dy())))
}

// rebase moves img to the origin without touching its pixels.
func rebase(img *image.RGBA) *image.RGBA {
	img.Rect = img.Rect.Sub(img.Rect.Min)
	return img
}

// Blur is a one-off NewGaussian(sigma).Apply(src).
func Blur(src image.Image, sigma float64) *image.RGBA {
	return NewGaussian(sigma).Apply(src)
}
