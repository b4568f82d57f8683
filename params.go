package visynth

import (
	"math"

	"github.com/cbegin/visynth-go/internal/registry"
	"github.com/cbegin/visynth-go/internal/render"
)

// fallback holds the compiled-in defaults used when neither the resolved map
// nor the registry knows a parameter.
var fallback = func() map[registry.TargetID]float64 {
	m := make(map[registry.TargetID]float64)
	for _, t := range registry.DefaultTargets() {
		m[t.ID] = t.Default
	}
	return m
}()

// params reads parameters with a three-tier fallback: resolved value, then
// registry base value, then the compiled-in default.
type params struct {
	resolved map[registry.TargetID]float64
	reg      *registry.Registry
}

func (p params) get(id registry.TargetID) float64 {
	if v, ok := p.resolved[id]; ok && !math.IsNaN(v) {
		return v
	}
	if p.reg != nil {
		if v, ok := p.reg.BaseValue(id); ok {
			return v
		}
	}
	return fallback[id]
}

func (p params) modules(s State) render.Modules {
	return render.Modules{
		Gradient: render.Gradient{
			Enabled:    s.Gradient.Enabled,
			HueTop:     p.get(registry.GradientHueTop),
			HueBottom:  p.get(registry.GradientHueBottom),
			Saturation: p.get(registry.GradientSaturation),
			Lightness:  p.get(registry.GradientLightness),
			Highlight:  p.get(registry.GradientHighlight),
			HighlightX: p.get(registry.GradientHighlightX),
			HighlightY: p.get(registry.GradientHighlightY),
		},
		Ribbon: render.Ribbon{
			Enabled:    s.Ribbon.Enabled,
			Intensity:  p.get(registry.RibbonIntensity),
			DriftSpeed: p.get(registry.RibbonDriftSpeed),
			Count:      p.get(registry.RibbonCount),
			Width:      p.get(registry.RibbonWidth),
			NoiseScale: p.get(registry.RibbonNoiseScale),
			Hue:        p.get(registry.RibbonHue),
			Warp:       p.get(registry.RibbonWarp),
		},
		Bloom: render.Bloom{
			Enabled:   s.Bloom.Enabled,
			Threshold: p.get(registry.BloomThreshold),
			Intensity: p.get(registry.BloomIntensity),
			Radius:    p.get(registry.BloomRadius),
		},
		Blend: render.Blend{
			Enabled:    s.Blend.Enabled,
			Brightness: p.get(registry.BlendBrightness),
			Contrast:   p.get(registry.BlendContrast),
			Saturation: p.get(registry.BlendSaturation),
			Trail:      p.get(registry.BlendTrail),
		},
		Motion: render.Motion{
			Speed:    p.get(registry.MotionSpeed),
			TimeWarp: p.get(registry.MotionTimeWarp),
		},
	}
}
