// Package visynth is a real-time generative visual synthesizer. An Engine
// resolves modulation from an oscillator and a step sequencer onto a
// registry of visual parameters and renders one frame per scheduler slot.
package visynth

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/cbegin/visynth-go/internal/frameloop"
	"github.com/cbegin/visynth-go/internal/lfo"
	"github.com/cbegin/visynth-go/internal/modmatrix"
	"github.com/cbegin/visynth-go/internal/quality"
	"github.com/cbegin/visynth-go/internal/registry"
	"github.com/cbegin/visynth-go/internal/render"
	"github.com/cbegin/visynth-go/internal/sequencer"
)

// MaxFrameDelta caps the time a single frame may advance.
const MaxFrameDelta = 0.25

// LaneRoutePrefix marks routes the engine mirrors from sequencer lanes.
const LaneRoutePrefix = "lane:"

type resizeNotifier interface {
	OnResize(fn func(w, h int)) (detach func())
}

// Engine owns one render loop. All methods must be called from the goroutine
// that ticks the scheduler.
type Engine struct {
	surface  render.Surface
	renderer render.Renderer
	reg      *registry.Registry
	mat      *modmatrix.Matrix
	seq      *sequencer.Sequencer
	osc      *lfo.LFO
	sched    frameloop.Scheduler
	logger   *slog.Logger
	onStats  func(Stats)

	state   State
	meter   quality.Meter
	quality *quality.Controller

	running   bool
	destroyed bool
	pending   frameloop.ID
	hasLast   bool
	last      float64
	elapsed   float64
	motion    float64
	clocks    [moduleCount]moduleClock
	resolved  map[registry.TargetID]float64
	revision  uint64
	synced    bool
	detach    func()

	sinceStats float64
	renderErrs int
	lastErr    error
	frames     uint64
}

// New builds an engine drawing to surface. Nil collaborators are replaced by
// defaults. Renderer backends are tried in order; if none initializes New
// returns an error wrapping ErrNoRenderer.
func New(surface render.Surface, reg *registry.Registry, mat *modmatrix.Matrix, seq *sequencer.Sequencer, opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if reg == nil {
		reg = registry.NewDefault()
	}
	if mat == nil {
		mat = modmatrix.New()
	}
	if seq == nil {
		seq = sequencer.New()
	}
	if cfg.scheduler == nil {
		cfg.scheduler = frameloop.New()
	}
	if cfg.rand == nil {
		cfg.rand = defaultRand()
	}

	var (
		r    render.Renderer
		errs []error
	)
	for _, b := range cfg.backends {
		if surface == nil {
			break
		}
		rr, err := b.New(surface)
		if err == nil {
			r = rr
			cfg.logger.Info("visynth: renderer selected", "backend", b.Name)
			break
		}
		errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
		cfg.logger.Warn("visynth: renderer unavailable", "backend", b.Name, "err", err)
	}
	if r == nil {
		if len(errs) == 0 {
			return nil, ErrNoRenderer
		}
		return nil, fmt.Errorf("%w: %w", ErrNoRenderer, errors.Join(errs...))
	}

	e := &Engine{
		surface:    surface,
		renderer:   r,
		reg:        reg,
		mat:        mat,
		seq:        seq,
		osc:        lfo.New(cfg.rand),
		sched:      cfg.scheduler,
		logger:     cfg.logger,
		onStats:    cfg.stats,
		quality:    quality.NewController(quality.High, true),
		sinceStats: StatsInterval,
	}
	e.SetState(cfg.state)
	if n, ok := surface.(resizeNotifier); ok {
		e.detach = n.OnResize(func(w, h int) { e.renderer.Resize(w, h) })
	}
	e.syncLaneRoutes()
	return e, nil
}

// Start schedules the first frame. Starting a running engine is a no-op.
func (e *Engine) Start() error {
	if e.destroyed {
		return ErrDestroyed
	}
	if e.running {
		return nil
	}
	e.running = true
	e.hasLast = false
	e.meter.Reset()
	e.pending = e.sched.Request(e.frame)
	return nil
}

// Stop cancels the pending frame. The engine can be started again.
func (e *Engine) Stop() {
	e.running = false
	if e.pending != 0 {
		e.sched.Cancel(e.pending)
		e.pending = 0
	}
}

// Destroy stops the engine, detaches it from the surface and releases the
// renderer. Further calls are no-ops.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.Stop()
	if e.detach != nil {
		e.detach()
		e.detach = nil
	}
	e.renderer.Close()
	e.destroyed = true
}

func (e *Engine) Running() bool { return e.running }

// Resize changes the surface size and the renderer's offscreen buffers
// before returning.
func (e *Engine) Resize(w, h int) {
	if e.destroyed {
		return
	}
	e.surface.Resize(w, h)
	if _, ok := e.surface.(resizeNotifier); !ok {
		e.renderer.Resize(w, h)
	}
}

// SetQuality picks a tier manually. Automatic degradation may still lower
// it later if enabled.
func (e *Engine) SetQuality(t quality.Tier) {
	e.quality.Set(t)
	e.state.Quality = e.quality.Tier()
}

func (e *Engine) Quality() quality.Tier { return e.quality.Tier() }

// SetState replaces the module flags and writes any Params into the
// registry.
func (e *Engine) SetState(s State) {
	s = s.clone()
	for id, v := range s.Params {
		if got, ok := e.reg.SetBaseValue(id, v); ok {
			s.Params[id] = got
		} else {
			delete(s.Params, id)
		}
	}
	if s.Quality != e.state.Quality || e.frames == 0 {
		e.quality.Set(s.Quality)
	}
	s.Quality = e.quality.Tier()
	e.quality.Enabled = s.AutoQuality
	if s.LFO.Enabled && !e.state.LFO.Enabled {
		e.osc.Reset()
	}
	e.state = s
}

func (e *Engine) State() State {
	s := e.state.clone()
	s.Quality = e.quality.Tier()
	return s
}

func (e *Engine) RendererKind() render.Kind { return e.renderer.Kind() }

func (e *Engine) Registry() *registry.Registry { return e.reg }

func (e *Engine) Matrix() *modmatrix.Matrix { return e.mat }

func (e *Engine) Sequencer() *sequencer.Sequencer { return e.seq }

func (e *Engine) Scheduler() frameloop.Scheduler { return e.sched }

// Resolved returns the parameter values of the last rendered frame.
func (e *Engine) Resolved() map[registry.TargetID]float64 {
	out := make(map[registry.TargetID]float64, len(e.resolved))
	for k, v := range e.resolved {
		out[k] = v
	}
	return out
}

func (e *Engine) frame(now float64) {
	e.pending = 0
	if !e.running {
		return
	}
	dt := 0.0
	if e.hasLast {
		dt = now - e.last
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	dt = math.Min(dt, MaxFrameDelta)
	e.last, e.hasLast = now, true
	e.elapsed += dt
	e.frames++

	fps := e.meter.Add(dt)
	if tier, changed := e.quality.Observe(dt, fps); changed {
		e.state.Quality = tier
		e.logger.Info("visynth: quality degraded", "tier", tier, "fps", fps)
	}

	if e.seq.Revision() != e.revision || !e.synced {
		e.syncLaneRoutes()
	}
	sources := e.sources(now, dt)
	e.resolved = e.mat.Resolve(e.reg, sources, dt)

	p := params{resolved: e.resolved, reg: e.reg}
	mods := p.modules(e.state)
	e.motion += dt * math.Max(0, mods.Motion.Speed)
	global := e.motion + mods.Motion.TimeWarp
	flags := e.state.modules()
	var times [moduleCount]float64
	for i := range e.clocks {
		times[i] = e.clocks[i].at(global, flags[i].Frozen)
	}

	w, h := e.surface.Size()
	f := &render.Frame{
		Width:   w,
		Height:  h,
		Time:    e.elapsed,
		Quality: e.quality.Tier(),
		Modules: mods,
		Times: render.ModuleTimes{
			Gradient: times[modGradient],
			Ribbon:   times[modRibbon],
			Bloom:    times[modBloom],
			Blend:    times[modBlend],
		},
		Resolved: e.resolved,
	}
	if err := e.renderer.Render(f); err != nil {
		e.renderErrs++
		e.lastErr = err
	}

	e.pending = e.sched.Request(e.frame)

	e.sinceStats += dt
	if e.sinceStats >= StatsInterval {
		e.sinceStats = 0
		e.emitStats(fps, sources)
	}
}

func (e *Engine) sources(now, dt float64) map[modmatrix.SourceID]float64 {
	lanes := e.seq.Update(now)
	out := make(map[modmatrix.SourceID]float64, len(lanes)+1)
	for id, v := range lanes {
		out[modmatrix.SourceID(id)] = v
	}
	if e.state.LFO.Enabled {
		p := params{resolved: e.resolved, reg: e.reg}
		e.osc.Set(p.get(registry.LFORate), p.get(registry.LFODepth), p.get(registry.LFOOffset), e.state.LFO.Shape)
		out[modmatrix.SourceLFO1] = e.osc.Advance(dt)
	}
	return out
}

// syncLaneRoutes mirrors each sequencer lane into a matrix route keyed
// LaneRoutePrefix+laneID. Lane smoothing happens in the sequencer so the
// routes themselves are unsmoothed.
func (e *Engine) syncLaneRoutes() {
	e.revision = e.seq.Revision()
	e.synced = true
	live := make(map[string]bool)
	for _, l := range e.seq.Lanes() {
		id := LaneRoutePrefix + l.ID
		live[id] = true
		e.mat.Upsert(modmatrix.Route{
			ID:      id,
			Source:  modmatrix.SourceID(l.ID),
			Target:  l.Target,
			Amount:  l.Amount,
			Enabled: l.Target != "",
		})
	}
	for _, r := range e.mat.List() {
		if strings.HasPrefix(r.ID, LaneRoutePrefix) && !live[r.ID] {
			e.mat.Remove(r.ID)
		}
	}
}

// activeNodes counts drawing modules, the oscillator when it can move a
// route, and routes that resolve this frame.
func (e *Engine) activeNodes(sources map[modmatrix.SourceID]float64) int {
	n := e.state.enabledCount() + e.mat.Active(e.reg, sources)
	if e.state.LFO.Enabled && e.osc.Active() {
		n++
	}
	return n
}

func (e *Engine) emitStats(fps float64, sources map[modmatrix.SourceID]float64) {
	if e.renderErrs > 0 {
		e.logger.Warn("visynth: render failed", "count", e.renderErrs, "err", e.lastErr)
		e.renderErrs = 0
	}
	if e.onStats == nil {
		return
	}
	e.onStats(Stats{
		FPS:         fps,
		ActiveNodes: e.activeNodes(sources),
		Renderer:    e.renderer.Kind(),
		Quality:     e.quality.Tier(),
		Step:        e.seq.CurrentStep(),
	})
}
