package surface

import (
	"image"
	"image/draw"
	"sync"

	"github.com/tauraamui/blurplayer/pkg/gpu"
)

// Memory is a headless screen. Everything shown on it is kept, in order,
// so it can stand in for a window when there is no display.
type Memory struct {
	mu          sync.Mutex
	w, h        int
	unavailable bool
	acquired    int
	retain      int
	shown       []*image.RGBA
}

func NewMemory(w, h int) *Memory {
	return &Memory{w: w, h: h}
}

// Retain bounds how many shown frames are kept, oldest dropped first.
// Zero keeps everything.
func (m *Memory) Retain(n int) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retain = n
	m.trim()
	return m
}

func (m *Memory) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.w, m.h
}

func (m *Memory) Resize(w, h int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.w, m.h = w, h
}

// SetUnavailable makes drawable acquisition fail until it is reset,
// like a view that has been backgrounded.
func (m *Memory) SetUnavailable(unavailable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = unavailable
}

func (m *Memory) NextDrawable() (gpu.Drawable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable || m.w <= 0 || m.h <= 0 {
		return nil, ErrSurfaceUnavailable
	}
	m.acquired++
	return &memoryDrawable{screen: m, tex: gpu.NewTexture(m.w, m.h)}, nil
}

func (m *Memory) SetLayerContents(img image.Image) {
	m.record(copyRGBA(img))
}

// Acquired is how many drawables were handed out.
func (m *Memory) Acquired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquired
}

func (m *Memory) Shown() []*image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*image.RGBA(nil), m.shown...)
}

func (m *Memory) Last() *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.shown) == 0 {
		return nil
	}
	return m.shown[len(m.shown)-1]
}

func (m *Memory) record(img *image.RGBA) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown = append(m.shown, img)
	m.trim()
}

func (m *Memory) trim() {
	if m.retain <= 0 || len(m.shown) <= m.retain {
		return
	}
	m.shown = append([]*image.RGBA(nil), m.shown[len(m.shown)-m.retain:]...)
}

type memoryDrawable struct {
	screen *Memory
	tex    *gpu.Texture
}

func (d *memoryDrawable) Texture() *gpu.Texture { return d.tex }

func (d *memoryDrawable) Present() { d.screen.record(d.tex.Image()) }

func copyRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
