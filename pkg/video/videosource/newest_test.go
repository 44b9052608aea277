package videosource

import (
	"image"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestNewestOnlyHandsOutFramesOnce(t *testing.T) {
	is := is.New(t)
	n := newNewest()
	start := time.Now()
	is.True(!n.hasNew(start))

	first := image.NewRGBA(image.Rect(0, 0, 1, 1))
	n.publish(first, 40*time.Millisecond, start)
	is.True(n.hasNew(start))

	img, pts, ok := n.take(start)
	is.True(ok)
	is.Equal(img, image.Image(first))
	is.Equal(pts, time.Duration(0))
	is.True(!n.hasNew(start.Add(time.Second)))
}

func TestNewestWaitsForPresentationTime(t *testing.T) {
	is := is.New(t)
	n := newNewest()
	start := time.Now()
	n.publish(image.NewRGBA(image.Rect(0, 0, 1, 1)), 0, start)
	_, _, ok := n.take(start)
	is.True(ok)

	n.publish(image.NewRGBA(image.Rect(0, 0, 1, 1)), 100*time.Millisecond, start)
	is.True(!n.hasNew(start.Add(50 * time.Millisecond)))
	is.True(n.hasNew(start.Add(100 * time.Millisecond)))
}

func TestNewestDropsUntakenFrames(t *testing.T) {
	is := is.New(t)
	n := newNewest()
	start := time.Now()
	a := image.NewRGBA(image.Rect(0, 0, 1, 1))
	b := image.NewRGBA(image.Rect(0, 0, 2, 2))
	n.publish(a, 0, start)
	n.publish(b, 0, start)

	img, _, ok := n.take(start)
	is.True(ok)
	is.Equal(img, image.Image(b))
	_, _, ok = n.take(start)
	is.True(!ok)
}

func TestNewestReadyClosesOnce(t *testing.T) {
	is := is.New(t)
	n := newNewest()
	n.publish(image.NewRGBA(image.Rect(0, 0, 1, 1)), 0, time.Now())
	n.publish(image.NewRGBA(image.Rect(0, 0, 1, 1)), 0, time.Now())
	select {
	case <-n.ready:
	default:
		is.Fail()
	}
}
