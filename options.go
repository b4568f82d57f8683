package visynth

import (
	"log/slog"

	"github.com/cbegin/visynth-go/internal/frameloop"
	"github.com/cbegin/visynth-go/internal/render"
	"github.com/cbegin/visynth-go/internal/render/canvas"
	"github.com/cbegin/visynth-go/internal/render/shader"
	"github.com/cbegin/visynth-go/internal/rng"
)

type Option func(*config)

type config struct {
	stats     func(Stats)
	state     State
	scheduler frameloop.Scheduler
	logger    *slog.Logger
	backends  []Backend
	rand      func() float64
}

func defaultConfig() config {
	return config{
		state:    DefaultState(),
		logger:   slog.New(slog.DiscardHandler),
		backends: DefaultBackends(),
	}
}

// Backend creates a renderer for a surface. Backends are tried in order at
// construction; the first that initializes wins.
type Backend struct {
	Name string
	New  func(render.Surface) (render.Renderer, error)
}

// GPUBackend is the Kage shader renderer.
var GPUBackend = Backend{Name: "gpu", New: func(s render.Surface) (render.Renderer, error) {
	r, err := shader.New(s)
	if err != nil {
		return nil, err
	}
	return r, nil
}}

// CPUBackend is the gg canvas renderer.
var CPUBackend = Backend{Name: "cpu", New: func(s render.Surface) (render.Renderer, error) {
	r, err := canvas.New(s)
	if err != nil {
		return nil, err
	}
	return r, nil
}}

func DefaultBackends() []Backend {
	return []Backend{GPUBackend, CPUBackend}
}

// WithStats installs a callback receiving Stats at most every StatsInterval.
func WithStats(fn func(Stats)) Option {
	return func(cfg *config) {
		cfg.stats = fn
	}
}

func WithState(s State) Option {
	return func(cfg *config) {
		cfg.state = s.clone()
	}
}

// WithScheduler sets the frame slot provider. Without one the engine owns a
// frameloop.Loop reachable through Engine.Scheduler.
func WithScheduler(s frameloop.Scheduler) Option {
	return func(cfg *config) {
		cfg.scheduler = s
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithBackends replaces the renderer fallback order.
func WithBackends(b ...Backend) Option {
	return func(cfg *config) {
		cfg.backends = b
	}
}

// WithRand sets the generator behind the random oscillator shape.
func WithRand(fn func() float64) Option {
	return func(cfg *config) {
		cfg.rand = fn
	}
}

func defaultRand() func() float64 {
	return rng.NewTimeSeeded().Float64
}
