// Package legacy maps the old single-color mood descriptor onto the initial
// synth parameters. It runs once, on a first start with no saved session.
package legacy

import (
	"math"

	"github.com/cbegin/visynth-go/internal/registry"
)

// Seed is the legacy color/mood descriptor.
type Seed struct {
	Hue         float64 `json:"hue"`         // degrees, 0..360
	Brightness  float64 `json:"brightness"`  // 0..1
	Saturation  float64 `json:"saturation"`  // 0..1
	Speed       float64 `json:"speed"`       // 0..2, 1 is normal
	Temperature float64 `json:"temperature"` // -1 cool .. 1 warm
	Contrast    float64 `json:"contrast"`    // 0.5..2
	Calmness    float64 `json:"calmness"`    // 0..1
}

func DefaultSeed() Seed {
	return Seed{Hue: 220, Brightness: 0.5, Saturation: 0.6, Speed: 1, Contrast: 1, Calmness: 0.5}
}

// Normalize clamps every field to its bound. NaN falls back to the default.
func (s Seed) Normalize() Seed {
	d := DefaultSeed()
	s.Hue = math.Mod(orDefault(s.Hue, d.Hue), 360)
	if s.Hue < 0 {
		s.Hue += 360
	}
	s.Brightness = bound(s.Brightness, d.Brightness, 0, 1)
	s.Saturation = bound(s.Saturation, d.Saturation, 0, 1)
	s.Speed = bound(s.Speed, d.Speed, 0, 2)
	s.Temperature = bound(s.Temperature, d.Temperature, -1, 1)
	s.Contrast = bound(s.Contrast, d.Contrast, 0.5, 2)
	s.Calmness = bound(s.Calmness, d.Calmness, 0, 1)
	return s
}

// Apply writes heuristic base values derived from the seed into reg.
func (s Seed) Apply(reg *registry.Registry) {
	s = s.Normalize()
	energy := 1 - s.Calmness

	// warm seeds pull the lower hue toward orange, cool ones toward blue
	reg.SetBaseValue(registry.GradientHueTop, s.Hue)
	reg.SetBaseValue(registry.GradientHueBottom, wrapHue(s.Hue+40+30*s.Temperature))
	reg.SetBaseValue(registry.RibbonHue, wrapHue(s.Hue+140))
	reg.SetBaseValue(registry.GradientSaturation, 0.9*s.Saturation)
	reg.SetBaseValue(registry.GradientLightness, 0.12+0.36*s.Brightness)

	reg.SetBaseValue(registry.BlendBrightness, 0.6+0.8*s.Brightness)
	reg.SetBaseValue(registry.BlendContrast, s.Contrast)
	reg.SetBaseValue(registry.BlendSaturation, 0.5+s.Saturation)

	reg.SetBaseValue(registry.MotionSpeed, math.Max(0.05, s.Speed*(1-0.6*s.Calmness)))
	reg.SetBaseValue(registry.RibbonDriftSpeed, 0.1+0.4*s.Speed*energy)
	reg.SetBaseValue(registry.RibbonWarp, 0.6*energy)
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func orDefault(v, d float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return d
	}
	return v
}

func bound(v, d, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, orDefault(v, d)))
}
