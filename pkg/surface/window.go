package surface

import (
	"context"
	"image"
	"sync"

	"github.com/tauraamui/blurplayer/pkg/gpu"
	"github.com/tauraamui/blurplayer/pkg/log"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

// Window shows presented frames in a highgui window. Presenting only
// hands the newest image over, Run does the drawing and must be called
// from the main goroutine.
type Window struct {
	title  string
	mu     sync.Mutex
	w, h   int
	closed bool
	frames chan image.Image
}

func NewWindow(title string, w, h int) *Window {
	return &Window{title: title, w: w, h: h, frames: make(chan image.Image, 1)}
}

func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w, w.h
}

func (w *Window) NextDrawable() (gpu.Drawable, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrSurfaceUnavailable
	}
	return &windowDrawable{window: w, tex: gpu.NewTexture(w.w, w.h)}, nil
}

func (w *Window) SetLayerContents(img image.Image) { w.show(img) }

// show replaces whatever frame is still waiting to be drawn.
func (w *Window) show(img image.Image) {
	for {
		select {
		case w.frames <- img:
			return
		default:
		}
		select {
		case <-w.frames:
		default:
		}
	}
}

var newWindow = func(title string) windowHandle {
	return gocv.NewWindow(title)
}

type windowHandle interface {
	ResizeWindow(width, height int)
	IMShow(img gocv.Mat)
	WaitKey(delay int) int
	IsOpen() bool
	Close() error
}

const escKey = 27

// Run owns the window until ctx is done, the window is closed by the
// user or escape is pressed.
func (w *Window) Run(ctx context.Context) error {
	window := newWindow(w.title)
	defer func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		if err := window.Close(); err != nil {
			log.Error("unable to close window: %v", err)
		}
	}()
	window.ResizeWindow(w.Size())

	for {
		select {
		case <-ctx.Done():
			return nil
		case img := <-w.frames:
			if err := showImage(window, img); err != nil {
				return err
			}
		default:
		}
		if key := window.WaitKey(1); key == escKey || key == int('q') {
			return nil
		}
		if !window.IsOpen() {
			return nil
		}
	}
}

func showImage(window windowHandle, img image.Image) error {
	mat, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return xerror.Errorf("unable to convert frame for display: %w", err)
	}
	defer mat.Close()

	// highgui expects BGR
	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)
	window.IMShow(bgr)
	return nil
}

type windowDrawable struct {
	window *Window
	tex    *gpu.Texture
}

func (d *windowDrawable) Texture() *gpu.Texture { return d.tex }

func (d *windowDrawable) Present() { d.window.show(d.tex.Image()) }
