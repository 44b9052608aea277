// Package gpu is the graphics collaborator the presenter and the blur
// backends talk to. A Device hands out command queues and, when it can,
// a separable Gaussian operator that runs in place over a texture.
//
// Command buffers record work and are committed without waiting for
// completion; queued drawables are presented once the buffer's work has
// run, in submission order.
package gpu

import (
	"errors"
	"image"
	"sync"
)

var (
	ErrNoDevice                 = errors.New("no usable graphics device")
	ErrSeparableBlurUnsupported = errors.New("device does not support separable blur")
	ErrCommandBufferUnavailable = errors.New("no command buffer available")
	ErrCommandQueueClosed       = errors.New("command queue closed")
)

type Device interface {
	Name() string
	SupportsSeparableBlur() bool
	NewCommandQueue() (CommandQueue, error)
	NewSeparableBlur(sigma float64) (SeparableBlur, error)
	Close() error
}

type CommandQueue interface {
	CommandBuffer() (CommandBuffer, error)
	// Close waits for committed work to finish and rejects new buffers.
	Close() error
}

type CommandBuffer interface {
	// Render scales img by scaleX/scaleY and writes it into tex. Pixels
	// are copied in the device RGB working space, no colour matching is
	// applied.
	Render(img image.Image, tex *Texture, scaleX, scaleY float64)
	// Encode records an arbitrary pass, run in order with the others.
	Encode(pass func())
	// Present schedules d to be shown once the buffer's work completes.
	Present(d Drawable)
	Commit()
	WaitUntilCompleted()
}

type Drawable interface {
	Texture() *Texture
	Present()
}

// InPlaceFilter mutates a texture as part of a command buffer.
type InPlaceFilter interface {
	EncodeInPlace(cb CommandBuffer, tex *Texture)
}

// SeparableBlur is a Gaussian operator whose kernel is fixed at
// construction; a new sigma needs a new operator.
type SeparableBlur interface {
	InPlaceFilter
	Sigma() float64
	Close() error
}

// Texture is a device owned RGBA surface.
type Texture struct {
	mu  sync.Mutex
	img *image.RGBA
}

func NewTexture(w, h int) *Texture {
	return &Texture{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (t *Texture) Width() int  { return t.img.Rect.Dx() }
func (t *Texture) Height() int { return t.img.Rect.Dy() }

// Image returns a copy of the texture contents.
func (t *Texture) Image() *image.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := image.NewRGBA(t.img.Rect)
	copy(out.Pix, t.img.Pix)
	return out
}

// Mutate runs fn with exclusive access to the backing image.
func (t *Texture) Mutate(fn func(img *image.RGBA)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.img)
}
