// Package lfo implements the "lfo1" modulation source.
package lfo

import "math"

type Shape int

const (
	Sine Shape = iota
	Triangle
	Square
	Random
)

var shapeNames = [...]string{"sine", "triangle", "square", "random"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return shapeNames[Sine]
	}
	return shapeNames[s]
}

// ParseShape maps a name to a shape; unknown names fall back to Sine.
func ParseShape(name string) Shape {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i)
		}
	}
	return Sine
}

func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Shape) UnmarshalText(b []byte) error {
	*s = ParseShape(string(b))
	return nil
}

// LFO is a frame-driven low-frequency oscillator. Phase accumulates
// dt·rate on every Advance, so a rate change bends the waveform instead of
// jumping it.
type LFO struct {
	shape  Shape
	rateHz float64
	depth  float64
	offset float64

	phase float64 // [0,1)
	cycle int64   // completed cycles

	rand    func() float64
	held    float64
	heldFor int64 // cycle index the held value belongs to
	hasHeld bool
}

// New returns a sine LFO at 1 Hz, full depth. rand supplies values in
// [0,1) for the random shape; nil yields a fixed sequence.
func New(rand func() float64) *LFO {
	if rand == nil {
		rand = hashRand()
	}
	return &LFO{shape: Sine, rateHz: 1, depth: 1, rand: rand}
}

// Set configures the oscillator. Negative rates are treated as zero.
func (l *LFO) Set(rateHz, depth, offset float64, shape Shape) {
	if rateHz < 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
		rateHz = 0
	}
	if shape < Sine || shape > Random {
		shape = Sine
	}
	if shape != l.shape {
		l.hasHeld = false
	}
	l.rateHz = rateHz
	l.depth = depth
	l.offset = offset
	l.shape = shape
}

func (l *LFO) Shape() Shape { return l.shape }

// Phase returns the position within the current cycle, in [0,1).
func (l *LFO) Phase() float64 { return l.phase }

// Advance moves the oscillator forward by dt seconds at the current rate
// and returns the new output.
func (l *LFO) Advance(dt float64) float64 {
	if dt > 0 && !math.IsInf(dt, 0) {
		l.phase += dt * l.rateHz
		if l.phase >= 1 {
			whole := math.Floor(l.phase)
			l.cycle += int64(whole)
			l.phase -= whole
		}
	}
	return l.Value()
}

// Value returns the output at the current phase, in [-1, 1].
func (l *LFO) Value() float64 {
	if !l.Active() {
		return 0
	}
	frac := l.phase

	var w float64
	switch l.shape {
	case Triangle:
		if frac < 0.5 {
			w = 4*frac - 1
		} else {
			w = 3 - 4*frac
		}
	case Square:
		if frac < 0.5 {
			w = 1
		} else {
			w = -1
		}
	case Random:
		if !l.hasHeld || l.cycle != l.heldFor {
			l.heldFor = l.cycle
			l.held = l.rand()*2 - 1
			l.hasHeld = true
		}
		w = l.held
	default:
		w = math.Sin(2 * math.Pi * frac)
	}

	v := w*l.depth + l.offset
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

// Active reports whether the output can be non-zero.
func (l *LFO) Active() bool {
	return l.depth != 0 || l.offset != 0
}

// Reset rewinds to phase 0 and forgets the held random value.
func (l *LFO) Reset() {
	l.phase, l.cycle = 0, 0
	l.hasHeld = false
	l.held = 0
}

// hashRand is a tiny sine-hash sequence used when no generator is supplied.
func hashRand() func() float64 {
	var n float64
	return func() float64 {
		n++
		v := math.Sin(n*12.9898) * 43758.5453
		return v - math.Floor(v)
	}
}
