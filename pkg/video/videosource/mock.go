package videosource

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"time"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"github.com/tauraamui/blurplayer/pkg/log"
	"github.com/tauraamui/blurplayer/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

type MockOption func(*mockSettings)

type mockSettings struct {
	fps        float64
	delay      time.Duration
	neverReady bool
	w, h       int
	text       bool
}

func WithFPS(fps float64) MockOption {
	return func(s *mockSettings) { s.fps = fps }
}

// WithBufferingDelay holds the first frame back, like a stream that
// takes a while to buffer.
func WithBufferingDelay(d time.Duration) MockOption {
	return func(s *mockSettings) { s.delay = d }
}

// NeverReady opens a source that never produces a frame.
func NeverReady() MockOption {
	return func(s *mockSettings) { s.neverReady = true }
}

func WithSize(w, h int) MockOption {
	return func(s *mockSettings) { s.w, s.h = w, h }
}

// WithoutText skips the title and time overlay.
func WithoutText() MockOption {
	return func(s *mockSettings) { s.text = false }
}

// Mock returns a backend whose sources render a synthetic canvas with
// the stream address and the wall clock time written over it.
func Mock(opts ...MockOption) Backend {
	settings := mockSettings{fps: 30, w: 600, h: 400, text: true}
	for _, opt := range opts {
		opt(&settings)
	}
	return &mockBackend{settings: settings}
}

type mockBackend struct {
	settings mockSettings
}

func (b *mockBackend) Open(ctx context.Context, addr string) (Source, error) {
	if err := validateURL(addr); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &mockSource{
		uuid:     uuid.NewString(),
		title:    addr,
		settings: b.settings,
		frames:   newNewest(),
		cancel:   cancel,
		done:     make(chan interface{}),
	}
	go s.run(ctx)
	return s, nil
}

type mockSource struct {
	uuid      string
	title     string
	settings  mockSettings
	frames    *newest
	cancel    context.CancelFunc
	done      chan interface{}
	closeOnce sync.Once
}

func (s *mockSource) UUID() string { return s.uuid }

func (s *mockSource) Ready() <-chan struct{} { return s.frames.ready }

func (s *mockSource) HasNewFrame(hostTime time.Time) bool {
	return s.frames.hasNew(hostTime)
}

func (s *mockSource) TakeFrame(hostTime time.Time) (videoframe.Frame, bool) {
	img, pts, ok := s.frames.take(hostTime)
	if !ok {
		return nil, false
	}
	return videoframe.New(img, pts), true
}

func (s *mockSource) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
		s.frames.reset()
	})
	return nil
}

func (s *mockSource) run(ctx context.Context) {
	defer close(s.done)
	if s.settings.neverReady {
		<-ctx.Done()
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(s.settings.delay):
	}

	fps := s.settings.fps
	if fps <= 0 {
		fps = fallbackFPS
	}
	interval := time.Duration(float64(time.Second) / fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	base := renderBaseFrameCanvas(s.settings.w, s.settings.h)
	var pts time.Duration
	for {
		img, err := s.render(base)
		if err != nil {
			log.Error("unable to render mock frame: %v", err)
			return
		}
		s.frames.publish(img, pts, time.Now())
		pts += interval

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *mockSource) render(base *image.RGBA) (*image.RGBA, error) {
	frame := cloneImage(base)
	if !s.settings.text {
		return frame, nil
	}
	if err := drawText(frame, 5, 50, "BLURPLAYER_MOCK_STREAM"); err != nil {
		return nil, xerror.Errorf("unable to draw text onto mock frame: %w", err)
	}
	if err := drawText(frame, 5, 180, s.title); err != nil {
		return nil, xerror.Errorf("unable to draw text onto mock frame: %w", err)
	}
	if err := drawText(frame, 5, 310, time.Now().Format("2006-01-02 15:04:05.999")); err != nil {
		return nil, xerror.Errorf("unable to draw text onto mock frame: %w", err)
	}
	return frame, nil
}

func renderBaseFrameCanvas(w, h int) *image.RGBA {
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := float64(h) / 2
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), r * 1.5}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), r * 1.5}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), r * 1.5}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			})
		}
	}
	return img
}

func cloneImage(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

var (
	fontOnce sync.Once
	goFont   *truetype.Font
	fontErr  error
)

func drawText(canvas *image.RGBA, x, y int, text string) error {
	fontOnce.Do(func() {
		goFont, fontErr = freetype.ParseFont(goregular.TTF)
	})
	if fontErr != nil {
		return fontErr
	}

	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(goFont, &truetype.Options{
			Size:    64,
			Hinting: font.HintingFull,
		}),
	}
	textBounds, _ := fontDrawer.BoundString(text)
	textHeight := textBounds.Max.Y - textBounds.Min.Y
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y-textHeight.Ceil())/2 + fixed.I(textHeight.Ceil()),
	}
	fontDrawer.DrawString(text)
	return nil
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	if math.Sqrt(dx*dx+dy*dy)/c.R > 1 {
		return 0
	}
	return 255
}
