// Package registry holds the catalogue of modulatable visual parameters and
// the current base value of each one.
package registry

import (
	"math"
	"sort"
)

// TargetID identifies a parameter as "<module>.<param>".
type TargetID string

// Module returns the module prefix of the id.
func (id TargetID) Module() string {
	s := string(id)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s[:i]
		}
	}
	return s
}

type Curve int

const (
	Linear Curve = iota
	Exponential
)

func (c Curve) String() string {
	if c == Exponential {
		return "exponential"
	}
	return "linear"
}

// ParseCurve accepts "linear" and "exponential"; anything else is linear.
func ParseCurve(s string) Curve {
	if s == "exponential" || s == "exp" {
		return Exponential
	}
	return Linear
}

func (c Curve) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Curve) UnmarshalText(b []byte) error {
	*c = ParseCurve(string(b))
	return nil
}

// Target describes one modulatable parameter.
type Target struct {
	ID      TargetID `json:"id"`
	Label   string   `json:"label"`
	Module  string   `json:"moduleId"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Default float64  `json:"defaultValue"`
	Curve   Curve    `json:"curve"`
}

type entry struct {
	Target
	base float64
}

// Registry stores targets in registration order with an index for O(1)
// lookups. It is not safe for concurrent use; the engine touches it from a
// single goroutine.
type Registry struct {
	entries []entry
	index   map[TargetID]int
}

func New() *Registry {
	return &Registry{index: make(map[TargetID]int)}
}

// NewDefault returns a registry populated with DefaultTargets.
func NewDefault() *Registry {
	r := New()
	r.RegisterMany(DefaultTargets()...)
	return r
}

// RegisterMany installs definitions. Re-registering an id overwrites it in
// place and resets its base value to the new default.
func (r *Registry) RegisterMany(defs ...Target) {
	for _, def := range defs {
		if def.ID == "" {
			continue
		}
		if def.Min > def.Max {
			def.Min, def.Max = def.Max, def.Min
		}
		if def.Module == "" {
			def.Module = def.ID.Module()
		}
		def.Default = clamp(def.Default, def.Min, def.Max)
		if math.IsNaN(def.Default) {
			def.Default = def.Min
		}
		e := entry{Target: def, base: def.Default}
		if i, ok := r.index[def.ID]; ok {
			r.entries[i] = e
			continue
		}
		r.index[def.ID] = len(r.entries)
		r.entries = append(r.entries, e)
	}
}

// Parse validates a user-authored id against the registered targets.
func (r *Registry) Parse(s string) (TargetID, bool) {
	id := TargetID(s)
	_, ok := r.index[id]
	return id, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id TargetID) bool {
	_, ok := r.index[id]
	return ok
}

func (r *Registry) Lookup(id TargetID) (Target, bool) {
	i, ok := r.index[id]
	if !ok {
		return Target{}, false
	}
	return r.entries[i].Target, true
}

// SetBaseValue clamps v into the target range, stores it and returns the
// stored value. NaN leaves the current value untouched.
func (r *Registry) SetBaseValue(id TargetID, v float64) (float64, bool) {
	i, ok := r.index[id]
	if !ok {
		return 0, false
	}
	e := &r.entries[i]
	if math.IsNaN(v) {
		return e.base, true
	}
	e.base = clamp(v, e.Min, e.Max)
	return e.base, true
}

func (r *Registry) BaseValue(id TargetID) (float64, bool) {
	i, ok := r.index[id]
	if !ok {
		return 0, false
	}
	return r.entries[i].base, true
}

// Clamp limits v to the range of id. Unknown ids pass v through.
func (r *Registry) Clamp(id TargetID, v float64) float64 {
	i, ok := r.index[id]
	if !ok {
		return v
	}
	return clamp(v, r.entries[i].Min, r.entries[i].Max)
}

// FromNormalized maps t in [0,1] onto the target range through its curve.
func (r *Registry) FromNormalized(id TargetID, t float64) (float64, bool) {
	i, ok := r.index[id]
	if !ok {
		return 0, false
	}
	return r.entries[i].Target.FromNormalized(t), true
}

// ToNormalized is the inverse of FromNormalized.
func (r *Registry) ToNormalized(id TargetID, v float64) (float64, bool) {
	i, ok := r.index[id]
	if !ok {
		return 0, false
	}
	return r.entries[i].Target.ToNormalized(v), true
}

// All returns a copy of every target in registration order.
func (r *Registry) All() []Target {
	out := make([]Target, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Target
	}
	return out
}

func (r *Registry) ByModule(module string) []Target {
	var out []Target
	for _, e := range r.entries {
		if e.Module == module {
			out = append(out, e.Target)
		}
	}
	return out
}

// Modules lists the distinct module ids, sorted.
func (r *Registry) Modules() []string {
	seen := make(map[string]struct{})
	for _, e := range r.entries {
		seen[e.Module] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// BaseValues returns a snapshot of every base value.
func (r *Registry) BaseValues() map[TargetID]float64 {
	out := make(map[TargetID]float64, len(r.entries))
	for _, e := range r.entries {
		out[e.ID] = e.base
	}
	return out
}

func (r *Registry) ResetBaseValues() {
	for i := range r.entries {
		r.entries[i].base = r.entries[i].Default
	}
}

func (r *Registry) Len() int { return len(r.entries) }

// FromNormalized maps t onto [Min, Max]. Exponential curves interpolate in
// log space; ranges touching zero are shifted so the log stays defined.
func (t Target) FromNormalized(x float64) float64 {
	if math.IsNaN(x) || x <= 0 {
		return t.Min
	}
	if x >= 1 {
		return t.Max
	}
	if t.Curve != Exponential || t.Max == t.Min {
		return t.Min + x*(t.Max-t.Min)
	}
	shift := logShift(t.Min)
	lo := math.Log(t.Min + shift)
	hi := math.Log(t.Max + shift)
	return clamp(math.Exp(lo+x*(hi-lo))-shift, t.Min, t.Max)
}

func (t Target) ToNormalized(v float64) float64 {
	if t.Max == t.Min || math.IsNaN(v) {
		return 0
	}
	v = clamp(v, t.Min, t.Max)
	if t.Curve != Exponential {
		return (v - t.Min) / (t.Max - t.Min)
	}
	shift := logShift(t.Min)
	lo := math.Log(t.Min + shift)
	hi := math.Log(t.Max + shift)
	return clamp((math.Log(v+shift)-lo)/(hi-lo), 0, 1)
}

func logShift(min float64) float64 {
	if min > 0 {
		return 0
	}
	return 1 - min
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
