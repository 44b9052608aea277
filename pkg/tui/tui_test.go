package tui_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matryer/is"
	"github.com/tauraamui/blurplayer/pkg/blur"
	"github.com/tauraamui/blurplayer/pkg/tui"
)

// fakeController downgrades gpu_separable to composited when the
// device lacks the separable primitive, like the pipeline does.
type fakeController struct {
	radius      float64
	kind        blur.Kind
	noSeparable bool
}

func (f *fakeController) SetBlurRadius(r float64)     { f.radius = r }
func (f *fakeController) BlurRadius() float64         { return f.radius }
func (f *fakeController) SetBackend(k blur.Kind)      { f.kind = k }
func (f *fakeController) RequestedBackend() blur.Kind { return f.kind }

func (f *fakeController) Backend() blur.Kind {
	if f.noSeparable && f.kind == blur.GPUSeparable {
		return blur.Composited
	}
	return f.kind
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m tea.Model, keys ...string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(key(k))
	}
	return m, cmd
}

func TestSliderAdjustsRadius(t *testing.T) {
	is := is.New(t)
	target := &fakeController{radius: 6}
	m := tui.New("blurplayer", target)

	send(m, "up", "up", "+")
	is.Equal(target.radius, 7.5)
	send(m, "down", "-")
	is.Equal(target.radius, 6.5)
	send(m, "0")
	is.Equal(target.radius, 0.0)
}

func TestSliderClampsToRange(t *testing.T) {
	is := is.New(t)
	target := &fakeController{radius: 0.2}
	m := tui.New("blurplayer", target)

	send(m, "down")
	is.Equal(target.radius, 0.0)

	target.radius = tui.MaxRadius
	send(m, "up")
	is.Equal(target.radius, tui.MaxRadius)
}

func TestBackendCycles(t *testing.T) {
	is := is.New(t)
	target := &fakeController{kind: blur.Composited}
	m := tui.New("blurplayer", target)

	send(m, "b")
	is.Equal(target.kind, blur.GPUSeparable)
	send(m, "b")
	is.Equal(target.kind, blur.DirectDraw)
	send(m, "b")
	is.Equal(target.kind, blur.Composited)
}

func TestBackendCyclesPastFallback(t *testing.T) {
	is := is.New(t)
	target := &fakeController{kind: blur.GPUSeparable, noSeparable: true}
	m := tui.New("blurplayer", target)
	is.Equal(target.Backend(), blur.Composited)

	send(m, "b")
	is.Equal(target.kind, blur.DirectDraw)
	send(m, "b")
	is.Equal(target.kind, blur.Composited)
	send(m, "b")
	is.Equal(target.kind, blur.GPUSeparable)
}

func TestQuit(t *testing.T) {
	is := is.New(t)
	for _, k := range []string{"q", "ctrl+c"} {
		m, cmd := send(tui.New("blurplayer", &fakeController{}), k)
		is.True(cmd != nil)
		_, ok := cmd().(tea.QuitMsg)
		is.True(ok)
		is.Equal(m.View(), "")
	}
}

func TestViewShowsRadiusAndBackend(t *testing.T) {
	is := is.New(t)
	view := tui.New("lobby", &fakeController{radius: 12.5, kind: blur.GPUSeparable}).View()
	is.True(strings.Contains(view, "lobby"))
	is.True(strings.Contains(view, "12.5"))
	is.True(strings.Contains(view, "gpu_separable"))
}
