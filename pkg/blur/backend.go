package blur

import (
	"fmt"
	"image"
	"strings"

	"github.com/tauraamui/blurplayer/pkg/gpu"
	"github.com/tauraamui/blurplayer/pkg/log"
	"github.com/tauraamui/xerror"
)

type Kind int

const (
	Composited Kind = iota
	GPUSeparable
	DirectDraw
)

var kindNames = map[Kind]string{
	Composited:   "composited",
	GPUSeparable: "gpu_separable",
	DirectDraw:   "direct_draw",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func Kinds() []Kind { return []Kind{Composited, GPUSeparable, DirectDraw} }

func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return k, nil
		}
	}
	return Composited, xerror.Errorf("unknown blur backend: %s", s)
}

// Result is what a backend hands to the presenter. InPlace is set when
// the blur still has to run over the render target during presentation.
type Result struct {
	Image   image.Image
	InPlace gpu.InPlaceFilter
}

type Backend interface {
	// Kind reports the path actually in use, after any fallback.
	Kind() Kind
	Apply(img image.Image, radius float64) Result
	Close() error
}

// Select builds the backend for kind. Without a device only the direct
// draw path can present, so every kind resolves to it.
func Select(kind Kind, device gpu.Device) Backend {
	if device == nil && kind != DirectDraw {
		log.Info("no graphics device, using %s instead of %s", DirectDraw, kind)
		kind = DirectDraw
	}
	switch kind {
	case GPUSeparable:
		return NewGPUSeparable(device)
	case DirectDraw:
		return NewDirectDraw()
	default:
		return NewComposited()
	}
}
