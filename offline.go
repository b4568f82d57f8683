package visynth

import (
	"errors"
	"image"
	"image/draw"

	"github.com/cbegin/visynth-go/internal/frameloop"
	"github.com/cbegin/visynth-go/internal/modmatrix"
	"github.com/cbegin/visynth-go/internal/quality"
	"github.com/cbegin/visynth-go/internal/registry"
	"github.com/cbegin/visynth-go/internal/render"
	"github.com/cbegin/visynth-go/internal/rng"
	"github.com/cbegin/visynth-go/internal/sequencer"
)

// StillOptions configures an offline render.
type StillOptions struct {
	Width, Height int
	// Frames is the number of simulated frames; the last one is returned.
	Frames  int
	FPS     float64
	Quality quality.Tier
	State   *State
	// Seed drives the random oscillator shape.
	Seed uint32
}

func DefaultStillOptions() StillOptions {
	return StillOptions{Width: 640, Height: 360, Frames: 120, FPS: 60, Quality: quality.High}
}

// RenderStill runs the CPU renderer for opts.Frames frames at a fixed step
// and returns the final image. Automatic quality is always off.
func RenderStill(reg *registry.Registry, mat *modmatrix.Matrix, seq *sequencer.Sequencer, opts StillOptions) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New("visynth: still size must be positive")
	}
	if opts.Frames <= 0 {
		opts.Frames = 1
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	state := DefaultState()
	if opts.State != nil {
		state = opts.State.clone()
	}
	state.AutoQuality = false
	state.Quality = opts.Quality

	surface := render.NewImageSurface(opts.Width, opts.Height)
	loop := frameloop.New()
	e, err := New(surface, reg, mat, seq,
		WithBackends(CPUBackend),
		WithScheduler(loop),
		WithState(state),
		WithRand(rng.New(opts.Seed).Float64),
	)
	if err != nil {
		return nil, err
	}
	defer e.Destroy()
	if err := e.Start(); err != nil {
		return nil, err
	}
	for i := 0; i < opts.Frames; i++ {
		loop.Tick(float64(i) / opts.FPS)
	}
	if e.lastErr != nil {
		return nil, e.lastErr
	}

	src := surface.Image()
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out, nil
}
