package gpu

import (
	"image"
	"sync"

	"github.com/tauraamui/blurplayer/pkg/log"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

const defaultMaxInFlight = 3

// queue executes committed command buffers on a single worker goroutine,
// in commit order. At most maxInFlight buffers exist at once.
type queue struct {
	label  string
	slots  chan struct{}
	work   chan *commandBuffer
	mu     sync.Mutex
	closed bool
	done   chan interface{}
}

func newQueue(label string, maxInFlight int) *queue {
	if maxInFlight < 1 {
		maxInFlight = defaultMaxInFlight
	}
	q := &queue{
		label: label,
		slots: make(chan struct{}, maxInFlight),
		work:  make(chan *commandBuffer, maxInFlight),
		done:  make(chan interface{}),
	}
	go q.run()
	return q
}

func (q *queue) run() {
	defer close(q.done)
	for cb := range q.work {
		cb.execute()
		<-q.slots
	}
}

func (q *queue) CommandBuffer() (CommandBuffer, error) {
	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()
	if closed {
		return nil, ErrCommandQueueClosed
	}
	select {
	case q.slots <- struct{}{}:
		return &commandBuffer{q: q, completed: make(chan interface{})}, nil
	default:
		return nil, ErrCommandBufferUnavailable
	}
}

// submit never blocks, the buffer already holds one of the slots the
// work channel is sized to.
func (q *queue) submit(cb *commandBuffer) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		<-q.slots
		close(cb.completed)
		return
	}
	q.work <- cb
}

func (q *queue) Close() error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.work)
	}
	q.mu.Unlock()
	<-q.done
	return nil
}

type commandBuffer struct {
	q         *queue
	mu        sync.Mutex
	passes    []func()
	presents  []Drawable
	committed bool
	completed chan interface{}
}

func (cb *commandBuffer) Render(img image.Image, tex *Texture, scaleX, scaleY float64) {
	cb.Encode(func() {
		tex.Mutate(func(dst *image.RGBA) {
			render(dst, img, scaleX, scaleY)
		})
	})
}

func render(dst *image.RGBA, src image.Image, scaleX, scaleY float64) {
	sb := src.Bounds()
	if scaleX == 1 && scaleY == 1 {
		draw.Draw(dst, dst.Rect, src, sb.Min, draw.Src)
		return
	}
	s2d := f64.Aff3{
		scaleX, 0, -float64(sb.Min.X) * scaleX,
		0, scaleY, -float64(sb.Min.Y) * scaleY,
	}
	draw.BiLinear.Transform(dst, s2d, src, sb, draw.Src, nil)
}

func (cb *commandBuffer) Encode(pass func()) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.committed {
		log.Warn("encoding onto committed %s command buffer ignored", cb.q.label)
		return
	}
	cb.passes = append(cb.passes, pass)
}

func (cb *commandBuffer) Present(d Drawable) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.committed {
		return
	}
	cb.presents = append(cb.presents, d)
}

func (cb *commandBuffer) Commit() {
	cb.mu.Lock()
	if cb.committed {
		cb.mu.Unlock()
		return
	}
	cb.committed = true
	cb.mu.Unlock()
	cb.q.submit(cb)
}

func (cb *commandBuffer) execute() {
	for _, pass := range cb.passes {
		pass()
	}
	for _, d := range cb.presents {
		d.Present()
	}
	close(cb.completed)
}

func (cb *commandBuffer) WaitUntilCompleted() {
	cb.mu.Lock()
	committed := cb.committed
	cb.mu.Unlock()
	if !committed {
		return
	}
	<-cb.completed
}
