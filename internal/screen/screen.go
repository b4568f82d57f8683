// Package screen hosts the engine in an ebiten window.
package screen

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/cbegin/visynth-go/internal/frameloop"
	"github.com/cbegin/visynth-go/internal/render"
)

// Surface is the window-sized drawing area. GPU renderers draw straight into
// Target; CPU frames arrive through Present.
type Surface struct {
	target    *ebiten.Image
	staging   *ebiten.Image
	listeners listeners
}

var _ render.PixelSurface = (*Surface)(nil)

func NewSurface(w, h int) *Surface {
	s := &Surface{}
	s.alloc(w, h)
	return s
}

func (s *Surface) Target() *ebiten.Image { return s.target }

func (s *Surface) Size() (int, int) {
	b := s.target.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the target and notifies resize listeners.
func (s *Surface) Resize(w, h int) {
	s.alloc(w, h)
	s.listeners.notify(max(w, 1), max(h, 1))
}

func (s *Surface) alloc(w, h int) {
	if s.target != nil {
		s.target.Deallocate()
	}
	s.target = ebiten.NewImage(max(w, 1), max(h, 1))
}

// OnResize registers fn and returns a func that detaches it.
func (s *Surface) OnResize(fn func(w, h int)) (detach func()) {
	return s.listeners.add(fn)
}

// Present uploads a CPU frame, scaling it to the target when the render
// size is smaller than the window.
func (s *Surface) Present(img *image.RGBA) {
	b := img.Bounds()
	if b.Size() == s.target.Bounds().Size() {
		s.target.WritePixels(img.Pix)
		return
	}
	if s.staging == nil || s.staging.Bounds().Size() != b.Size() {
		if s.staging != nil {
			s.staging.Deallocate()
		}
		s.staging = ebiten.NewImage(b.Dx(), b.Dy())
	}
	s.staging.WritePixels(img.Pix)
	tw, th := s.Size()
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear, Blend: ebiten.BlendCopy}
	op.GeoM.Scale(float64(tw)/float64(b.Dx()), float64(th)/float64(b.Dy()))
	s.target.DrawImage(s.staging, op)
}

type listeners struct {
	next int
	fns  map[int]func(w, h int)
}

func (l *listeners) add(fn func(w, h int)) func() {
	if l.fns == nil {
		l.fns = make(map[int]func(w, h int))
	}
	l.next++
	id := l.next
	l.fns[id] = fn
	return func() { delete(l.fns, id) }
}

func (l *listeners) notify(w, h int) {
	for _, fn := range l.fns {
		fn(w, h)
	}
}

func (l *listeners) len() int { return len(l.fns) }

// Host is an ebiten.Game whose Draw drives a frame loop. Each Draw ticks
// the loop once with the seconds elapsed since the host was created.
type Host struct {
	Loop    *frameloop.Loop
	Surface *Surface

	// OnUpdate runs once per ebiten update for input handling.
	OnUpdate func() error
	// Overlay draws on top of the rendered frame.
	Overlay func(screen *ebiten.Image)

	start time.Time
}

var _ ebiten.Game = (*Host)(nil)

func NewHost(w, h int) *Host {
	return &Host{
		Loop:    frameloop.New(),
		Surface: NewSurface(w, h),
		start:   time.Now(),
	}
}

func (h *Host) Update() error {
	if h.OnUpdate != nil {
		return h.OnUpdate()
	}
	return nil
}

func (h *Host) Draw(screen *ebiten.Image) {
	h.Loop.Tick(time.Since(h.start).Seconds())
	screen.DrawImage(h.Surface.Target(), nil)
	if h.Overlay != nil {
		h.Overlay(screen)
	}
}

func (h *Host) Layout(outsideW, outsideH int) (int, int) {
	w, hh := max(outsideW, 1), max(outsideH, 1)
	if cw, ch := h.Surface.Size(); cw != w || ch != hh {
		h.Surface.Resize(w, hh)
	}
	return w, hh
}
