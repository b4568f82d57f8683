// Package rng provides a small seeded generator for gate draws and lane
// randomization.
package rng

import "time"

// Mulberry32 is a 32-bit seeded generator. The zero value is usable and
// starts from seed 0.
type Mulberry32 struct {
	state uint32
}

func New(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// NewTimeSeeded seeds from the wall clock.
func NewTimeSeeded() *Mulberry32 {
	n := uint64(time.Now().UnixNano())
	return New(uint32(n) ^ uint32(n>>32))
}

// Float64 returns a value in [0,1).
func (r *Mulberry32) Float64() float64 {
	r.state += 0x6D2B79F5
	z := r.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	return float64(z^(z>>14)) / (1 << 32)
}
