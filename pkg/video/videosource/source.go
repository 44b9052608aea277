// Package videosource wraps a decoder as a polled frame source. Decoding
// happens on the source's own goroutine; callers only ever ask whether a
// newer frame is ready and take it, neither call blocks on I/O.
package videosource

import (
	"context"
	"errors"
	"image"
	"net/url"
	"sync"
	"time"

	"github.com/tauraamui/blurplayer/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

type Source interface {
	UUID() string
	// Ready is closed once the source has buffered enough to play.
	Ready() <-chan struct{}
	HasNewFrame(hostTime time.Time) bool
	// TakeFrame hands over the newest frame due at hostTime, the bool is
	// false when there is nothing new since the last take.
	TakeFrame(hostTime time.Time) (videoframe.Frame, bool)
	Close() error
}

type Backend interface {
	Open(ctx context.Context, addr string) (Source, error)
}

func Default() Backend {
	return OpenCV()
}

func Resolve(t string) Backend {
	switch t {
	case "mock":
		return Mock()
	default:
		return Default()
	}
}

var supportedSchemes = []string{"file", "http", "https", "rtsp", "rtmp"}

func validateURL(addr string) error {
	if len(addr) == 0 {
		return errors.New("stream address is undefined")
	}

	u, err := url.Parse(addr)
	if err != nil {
		return xerror.Errorf("unable to parse stream address: %w", err)
	}

	if len(u.Scheme) == 0 {
		return nil
	}
	if ok := containsString(u.Scheme, supportedSchemes); !ok {
		return xerror.Errorf("scheme: %s is unsupported", u.Scheme)
	}
	return nil
}

func containsString(str string, strs []string) bool {
	for _, s := range strs {
		if str == s {
			return true
		}
	}
	return false
}

// newest holds only the most recently decoded frame. Anything the
// consumer did not take before the next decode is dropped.
type newest struct {
	mu        sync.Mutex
	ready     chan struct{}
	readyOnce sync.Once
	started   time.Time
	firstPTS  time.Duration
	seq       uint64
	taken     uint64
	img       image.Image
	pts       time.Duration
}

func newNewest() *newest {
	return &newest{ready: make(chan struct{})}
}

// publish stores a decoded frame, the first one marks the source ready
// and anchors item time to the host clock.
func (n *newest) publish(img image.Image, pts time.Duration, now time.Time) {
	n.mu.Lock()
	if n.seq == 0 {
		n.started = now
		n.firstPTS = pts
	}
	n.seq++
	n.img = img
	n.pts = pts
	n.mu.Unlock()
	n.readyOnce.Do(func() { close(n.ready) })
}

func (n *newest) due(hostTime time.Time) bool {
	if n.seq == 0 || n.seq == n.taken {
		return false
	}
	return n.pts-n.firstPTS <= hostTime.Sub(n.started)
}

func (n *newest) hasNew(hostTime time.Time) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.due(hostTime)
}

func (n *newest) take(hostTime time.Time) (image.Image, time.Duration, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.due(hostTime) {
		return nil, 0, false
	}
	n.taken = n.seq
	return n.img, n.pts - n.firstPTS, true
}

func (n *newest) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.img = nil
}
