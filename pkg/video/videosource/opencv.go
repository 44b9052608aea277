package videosource

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/blurplayer/pkg/log"
	"github.com/tauraamui/blurplayer/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

const fallbackFPS = 25.0

func OpenCV() Backend {
	return &openCVBackend{}
}

type openCVBackend struct{}

// Open returns straight away, the capture is opened and decoded in the
// background and the source reports ready after its first frame.
func (b *openCVBackend) Open(ctx context.Context, addr string) (Source, error) {
	if err := validateURL(addr); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &openCVSource{
		uuid:   uuid.NewString(),
		addr:   addr,
		frames: newNewest(),
		cancel: cancel,
		done:   make(chan interface{}),
	}
	go s.run(ctx)
	return s, nil
}

type capture interface {
	Read(m *gocv.Mat) bool
	Get(prop gocv.VideoCaptureProperties) float64
	Close() error
}

var openCapture = func(addr string) (capture, error) {
	vc, err := gocv.OpenVideoCapture(addr)
	if err != nil {
		return nil, err
	}
	return vc, nil
}

type openCVSource struct {
	uuid      string
	addr      string
	frames    *newest
	cancel    context.CancelFunc
	done      chan interface{}
	closeOnce sync.Once
}

func (s *openCVSource) UUID() string { return s.uuid }

func (s *openCVSource) Ready() <-chan struct{} { return s.frames.ready }

func (s *openCVSource) HasNewFrame(hostTime time.Time) bool {
	return s.frames.hasNew(hostTime)
}

func (s *openCVSource) TakeFrame(hostTime time.Time) (videoframe.Frame, bool) {
	img, pts, ok := s.frames.take(hostTime)
	if !ok {
		return nil, false
	}
	return videoframe.New(img, pts), true
}

func (s *openCVSource) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
		s.frames.reset()
	})
	return nil
}

func (s *openCVSource) run(ctx context.Context) {
	defer close(s.done)

	vc, err := openWithCancel(ctx, s.addr)
	if err != nil {
		log.Error("unable to open stream [%s]: %v", s.addr, err)
		return
	}
	defer func() {
		if err := vc.Close(); err != nil {
			log.Error("unable to close stream [%s]: %v", s.addr, err)
		}
	}()

	fps := vc.Get(gocv.VideoCaptureFPS)
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		fps = fallbackFPS
	}
	interval := time.Duration(float64(time.Second) / fps)
	log.Debug("decoding [%s] at %.2f fps", s.addr, fps)

	mat := gocv.NewMat()
	defer mat.Close()

	var frameCount int64
	next := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if ok := vc.Read(&mat); !ok || mat.Empty() {
			log.Info("stream [%s] ended", s.addr)
			return
		}
		img, err := mat.ToImage()
		if err != nil {
			log.Error("unable to convert decoded frame: %v", err)
			continue
		}

		pts := time.Duration(vc.Get(gocv.VideoCapturePosMsec) * float64(time.Millisecond))
		if pts <= 0 {
			pts = time.Duration(frameCount) * interval
		}
		frameCount++
		s.frames.publish(img, pts, time.Now())

		next = next.Add(interval)
		if wait := time.Until(next); wait > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		} else {
			next = time.Now()
		}
	}
}

type openCaptureResult struct {
	vc  capture
	err error
}

// openWithCancel stops waiting on a slow open when ctx is done, closing
// the capture once the open eventually returns.
func openWithCancel(ctx context.Context, addr string) (capture, error) {
	result := make(chan openCaptureResult, 1)
	go func() {
		vc, err := openCapture(addr)
		result <- openCaptureResult{vc: vc, err: err}
	}()
	select {
	case r := <-result:
		return r.vc, r.err
	case <-ctx.Done():
		go func() {
			if r := <-result; r.err == nil {
				r.vc.Close()
			}
		}()
		return nil, xerror.New("stream open cancelled")
	}
}
