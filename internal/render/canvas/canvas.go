// Package canvas is the CPU renderer: gg vector drawing for the gradient and
// ribbons, then a pixel post chain for trail, bloom and grade.
package canvas

import (
	"errors"
	"math"

	"github.com/gogpu/gg"

	"github.com/cbegin/visynth-go/internal/effects"
	"github.com/cbegin/visynth-go/internal/render"
)

var ErrUnsupportedSurface = errors.New("canvas: surface does not accept pixel frames")

type Renderer struct {
	surface render.PixelSurface
	dc      *gg.Context

	trail *effects.Trail
	bloom *effects.Bloom
	grade *effects.Grade
	chain *effects.Chain
}

var _ render.Renderer = (*Renderer)(nil)

// New creates a CPU renderer presenting to s.
func New(s render.Surface) (*Renderer, error) {
	ps, ok := s.(render.PixelSurface)
	if !ok {
		return nil, ErrUnsupportedSurface
	}
	r := &Renderer{
		surface: ps,
		trail:   effects.NewTrail(0),
		bloom:   effects.NewBloom(1, 0, 1),
		grade:   effects.NewGrade(1, 1, 1),
	}
	r.chain = effects.NewChain(r.trail, r.bloom, r.grade)
	return r, nil
}

func (r *Renderer) Kind() render.Kind { return render.KindCPU }

func (r *Renderer) Render(f *render.Frame) error {
	w, h := f.RenderSize()
	if err := r.ensure(w, h); err != nil {
		return err
	}
	m := f.Modules

	drawGradient(r.dc, m.Gradient, f.Times.Gradient, w, h)
	if m.Ribbon.Enabled && m.Ribbon.Intensity > 0 {
		if err := drawRibbons(r.dc, m.Ribbon, f.Times.Ribbon, f.Quality.Octaves(), w, h); err != nil {
			return err
		}
	}

	img := r.dc.ResizeTarget().ToImage()
	r.configure(m, float64(w)/float64(max(f.Width, 1)))
	r.chain.Process(img)
	r.surface.Present(img)
	return nil
}

func (r *Renderer) configure(m render.Modules, scale float64) {
	if m.Blend.Enabled {
		r.trail.SetAmount(m.Blend.Trail)
		r.grade.Set(m.Blend.Brightness, m.Blend.Contrast, m.Blend.Saturation)
	} else {
		r.trail.SetAmount(0)
		r.grade.Set(1, 1, 1)
	}
	if m.Bloom.Enabled {
		r.bloom.Set(m.Bloom.Threshold, m.Bloom.Intensity, m.Bloom.Radius*scale)
	} else {
		r.bloom.Set(1, 0, 1)
	}
}

func (r *Renderer) ensure(w, h int) error {
	if r.dc == nil {
		r.dc = gg.NewContext(w, h)
		r.chain.Reset()
		return nil
	}
	if r.dc.Width() == w && r.dc.Height() == h {
		return nil
	}
	r.chain.Reset()
	return r.dc.Resize(w, h)
}

// Resize drops buffers sized for the old surface; they are rebuilt on the
// next frame at the new render size.
func (r *Renderer) Resize(w, h int) {
	r.chain.Reset()
}

func (r *Renderer) Close() {
	if r.dc != nil {
		r.dc.Close()
		r.dc = nil
	}
	r.chain.Reset()
}

func hsl(h, s, l, a float64) gg.RGBA {
	c := gg.HSL(h, clamp01(s), clamp01(l))
	c.A = a
	return c
}

func drawGradient(dc *gg.Context, g render.Gradient, t float64, w, h int) {
	if !g.Enabled {
		dc.ClearWithColor(gg.RGB(0, 0, 0))
		return
	}
	fw, fh := float64(w), float64(h)
	drift := 6 * math.Sin(t*0.07)

	bg := gg.NewLinearGradientBrush(0, 0, 0, fh).
		AddColorStop(0, hsl(g.HueTop+drift, g.Saturation, g.Lightness, 1)).
		AddColorStop(1, hsl(g.HueBottom-drift, g.Saturation, g.Lightness*0.55, 1))
	dc.SetFillBrush(bg)
	dc.DrawRectangle(0, 0, fw, fh)
	dc.Fill()

	if g.Highlight <= 0 {
		return
	}
	cx, cy := g.HighlightX*fw, g.HighlightY*fh
	hl := gg.NewRadialGradientBrush(cx, cy, 0, 0.65*math.Max(fw, fh)).
		AddColorStop(0, hsl(g.HueTop, g.Saturation*0.8, math.Min(0.95, g.Lightness+0.45), g.Highlight)).
		AddColorStop(1, hsl(g.HueTop, g.Saturation, g.Lightness, 0))
	dc.SetFillBrush(hl)
	dc.DrawRectangle(0, 0, fw, fh)
	dc.Fill()
}

// drawRibbons fills each aurora band as a closed path whose edges follow
// layered noise, composited in a screen layer.
func drawRibbons(dc *gg.Context, rb render.Ribbon, t float64, octaves, w, h int) error {
	fw, fh := float64(w), float64(h)
	n := int(math.Round(rb.Count))
	if n < 1 {
		n = 1
	}
	segs := 12 + 6*octaves
	phase := t * rb.DriftSpeed
	amp := (0.08 + 0.22*rb.Warp) * fh
	thick := rb.Width * fh

	dc.PushLayer(gg.BlendScreen, clamp01(rb.Intensity))
	defer dc.PopLayer()

	for i := 0; i < n; i++ {
		seed := float64(i) * 7.31
		base := fh * (0.25 + 0.5*(float64(i)+0.5)/float64(n))
		top := make([]float64, segs+1)
		bottom := make([]float64, segs+1)
		for s := 0; s <= segs; s++ {
			u := float64(s) / float64(segs)
			y := base + amp*fbm(u*rb.NoiseScale+seed, phase+seed, octaves)
			spread := thick * (0.55 + 0.45*fbm(u*rb.NoiseScale*1.7+seed, phase*1.3, octaves))
			top[s] = y - spread/2
			bottom[s] = y + spread/2
		}

		dc.MoveTo(0, top[0])
		for s := 1; s <= segs; s++ {
			dc.LineTo(fw*float64(s)/float64(segs), top[s])
		}
		for s := segs; s >= 0; s-- {
			dc.LineTo(fw*float64(s)/float64(segs), bottom[s])
		}
		dc.ClosePath()

		hue := rb.Hue + float64(i)*18
		span := amp + thick
		brush := gg.NewLinearGradientBrush(0, base-span, 0, base+span).
			AddColorStop(0, hsl(hue, 0.9, 0.55, 0)).
			AddColorStop(0.5, hsl(hue, 0.85, 0.6, 0.9)).
			AddColorStop(1, hsl(hue+30, 0.9, 0.5, 0))
		dc.SetFillBrush(brush)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
