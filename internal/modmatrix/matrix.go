// Package modmatrix routes named signal sources onto registry targets.
package modmatrix

import (
	"math"

	"github.com/cbegin/visynth-go/internal/registry"
)

// SourceID names a signal source: the oscillator or a sequencer lane id.
type SourceID string

const SourceLFO1 SourceID = "lfo1"

type Polarity int

const (
	Bipolar Polarity = iota
	Unipolar
)

func (p Polarity) String() string {
	if p == Unipolar {
		return "unipolar"
	}
	return "bipolar"
}

func (p Polarity) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Polarity) UnmarshalText(b []byte) error {
	if string(b) == "unipolar" {
		*p = Unipolar
	} else {
		*p = Bipolar
	}
	return nil
}

// Route links one source to one target.
type Route struct {
	ID            string            `json:"id"`
	Source        SourceID          `json:"sourceId"`
	Target        registry.TargetID `json:"targetId"`
	Amount        float64           `json:"amount"`
	Polarity      Polarity          `json:"polarity"`
	Smoothing     float64           `json:"smoothing"`
	QuantizeSteps int               `json:"quantizeSteps"`
	Enabled       bool              `json:"enabled"`
}

// RoutePatch carries a partial route update; nil fields are left alone.
type RoutePatch struct {
	Source        *SourceID
	Target        *registry.TargetID
	Amount        *float64
	Polarity      *Polarity
	Smoothing     *float64
	QuantizeSteps *int
	Enabled       *bool
}

const (
	// smoothing 1.0 settles in roughly this many seconds per time constant.
	maxSmoothingTau = 0.6
	// below this the route tracks its raw contribution instantly.
	instantSmoothing = 0.001
	// smoothed state under this magnitude is considered fully decayed.
	settledEpsilon = 1e-6
)

// Matrix owns the routes and their per-route smoothing state. It is not safe
// for concurrent use.
type Matrix struct {
	routes   []Route
	smoothed map[string]float64
}

func New() *Matrix {
	return &Matrix{smoothed: make(map[string]float64)}
}

// Add appends a route. Empty or duplicate ids are rejected.
func (m *Matrix) Add(r Route) bool {
	if r.ID == "" || m.indexOf(r.ID) >= 0 {
		return false
	}
	m.routes = append(m.routes, normalize(r))
	return true
}

// Upsert replaces the route with the same id or appends it.
func (m *Matrix) Upsert(r Route) bool {
	if r.ID == "" {
		return false
	}
	if i := m.indexOf(r.ID); i >= 0 {
		m.routes[i] = normalize(r)
		return true
	}
	m.routes = append(m.routes, normalize(r))
	return true
}

// Remove deletes a route and forgets its smoothing state.
func (m *Matrix) Remove(id string) bool {
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	m.routes = append(m.routes[:i], m.routes[i+1:]...)
	delete(m.smoothed, id)
	return true
}

func (m *Matrix) Update(id string, p RoutePatch) bool {
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	r := m.routes[i]
	if p.Source != nil {
		r.Source = *p.Source
	}
	if p.Target != nil {
		r.Target = *p.Target
	}
	if p.Amount != nil {
		r.Amount = *p.Amount
	}
	if p.Polarity != nil {
		r.Polarity = *p.Polarity
	}
	if p.Smoothing != nil {
		r.Smoothing = *p.Smoothing
	}
	if p.QuantizeSteps != nil {
		r.QuantizeSteps = *p.QuantizeSteps
	}
	if p.Enabled != nil {
		r.Enabled = *p.Enabled
	}
	m.routes[i] = normalize(r)
	return true
}

// Get returns a copy of the route with the given id.
func (m *Matrix) Get(id string) (Route, bool) {
	i := m.indexOf(id)
	if i < 0 {
		return Route{}, false
	}
	return m.routes[i], true
}

// List returns a copy of all routes in insertion order.
func (m *Matrix) List() []Route {
	out := make([]Route, len(m.routes))
	copy(out, m.routes)
	return out
}

// Set replaces every route. Smoothing state survives for ids that are still
// present so a bulk edit does not pop.
func (m *Matrix) Set(routes []Route) {
	next := make([]Route, 0, len(routes))
	keep := make(map[string]bool, len(routes))
	for _, r := range routes {
		if r.ID == "" || keep[r.ID] {
			continue
		}
		keep[r.ID] = true
		next = append(next, normalize(r))
	}
	for id := range m.smoothed {
		if !keep[id] {
			delete(m.smoothed, id)
		}
	}
	m.routes = next
}

// Contribution reports the current smoothed contribution of a route.
func (m *Matrix) Contribution(id string) float64 {
	return m.smoothed[id]
}

// Active counts enabled routes whose target and source both resolve.
func (m *Matrix) Active(reg *registry.Registry, sources map[SourceID]float64) int {
	n := 0
	for _, r := range m.routes {
		if !r.Enabled || !reg.Has(r.Target) {
			continue
		}
		if _, ok := sources[r.Source]; ok {
			n++
		}
	}
	return n
}

// Resolve folds every route's smoothed contribution onto the registry base
// values and returns the clamped result for every registered target.
func (m *Matrix) Resolve(reg *registry.Registry, sources map[SourceID]float64, dt float64) map[registry.TargetID]float64 {
	out := reg.BaseValues()
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	offsets := make(map[registry.TargetID]float64)
	for _, r := range m.routes {
		target, ok := reg.Lookup(r.Target)
		if !ok {
			delete(m.smoothed, r.ID)
			continue
		}
		raw := 0.0
		signal, hasSource := sources[r.Source]
		live := r.Enabled && hasSource && !math.IsNaN(signal)
		if live {
			raw = shape(signal, r.Polarity) * r.Amount
		} else if _, tracked := m.smoothed[r.ID]; !tracked {
			continue
		}

		prev, tracked := m.smoothed[r.ID]
		if !tracked {
			prev = 0
		}
		s := prev + (raw-prev)*alpha(r.Smoothing, dt)
		if !live && math.Abs(s) < settledEpsilon {
			delete(m.smoothed, r.ID)
			continue
		}
		m.smoothed[r.ID] = s

		offsets[r.Target] += quantize(s, r.QuantizeSteps, target.Max-target.Min)
	}
	for id, off := range offsets {
		out[id] = reg.Clamp(id, out[id]+off)
	}
	return out
}

func (m *Matrix) indexOf(id string) int {
	for i := range m.routes {
		if m.routes[i].ID == id {
			return i
		}
	}
	return -1
}

func normalize(r Route) Route {
	if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		r.Amount = 0
	}
	if math.IsNaN(r.Smoothing) {
		r.Smoothing = 0
	}
	r.Smoothing = math.Max(0, math.Min(1, r.Smoothing))
	if r.QuantizeSteps < 0 {
		r.QuantizeSteps = 0
	}
	return r
}

func shape(v float64, p Polarity) float64 {
	if p == Unipolar {
		return math.Max(0, math.Min(1, v))
	}
	return v
}

// alpha converts a 0..1 smoothing amount into a one-pole coefficient for a
// step of dt seconds.
func alpha(smoothing, dt float64) float64 {
	if smoothing <= instantSmoothing {
		return 1
	}
	tau := smoothing * maxSmoothingTau
	return 1 - math.Exp(-dt/tau)
}

// quantize snaps c to multiples of span/steps, clamped to ±span. The grid
// is laid over the signed offset rather than the target range, so zero is
// always a level and a route of N steps has up to 2N+1 levels, not N.
func quantize(c float64, steps int, span float64) float64 {
	if steps <= 0 || span <= 0 {
		return c
	}
	q := span / float64(steps)
	c = math.Round(c/q) * q
	return math.Max(-span, math.Min(span, c))
}
