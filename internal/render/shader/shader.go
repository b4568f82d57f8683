// Package shader is the GPU renderer: the whole visual is a Kage fragment
// shader drawn over a single triangle covering the viewport.
package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/cbegin/visynth-go/internal/render"
)

//go:embed aurora.kage
var source []byte

var ErrUnsupportedSurface = errors.New("shader: surface has no GPU target")

// Target is a surface backed by an ebiten image.
type Target interface {
	render.Surface
	Target() *ebiten.Image
}

type Renderer struct {
	target    Target
	shader    *ebiten.Shader
	offscreen *ebiten.Image
	history   *ebiten.Image
	fresh     bool

	vertices []ebiten.Vertex
	indices  []uint16
}

var _ render.Renderer = (*Renderer)(nil)

// New compiles the shader for surface s. Any failure means the GPU path is
// unavailable.
func New(s render.Surface) (*Renderer, error) {
	t, ok := s.(Target)
	if !ok {
		return nil, ErrUnsupportedSurface
	}
	sh, err := Compile()
	if err != nil {
		return nil, err
	}
	return &Renderer{
		target:   t,
		shader:   sh,
		vertices: make([]ebiten.Vertex, 3),
		indices:  []uint16{0, 1, 2},
	}, nil
}

// Compile builds the fragment shader.
func Compile() (*ebiten.Shader, error) {
	sh, err := ebiten.NewShader(source)
	if err != nil {
		return nil, fmt.Errorf("shader: compile: %w", err)
	}
	return sh, nil
}

func (r *Renderer) Kind() render.Kind { return render.KindGPU }

func (r *Renderer) Render(f *render.Frame) error {
	w, h := f.RenderSize()
	r.ensure(w, h)

	// one triangle twice the viewport size covers it entirely
	fw, fh := float32(w), float32(h)
	r.vertices[0] = vertex(0, 0)
	r.vertices[1] = vertex(2*fw, 0)
	r.vertices[2] = vertex(0, 2*fh)
	r.offscreen.DrawTrianglesShader(r.vertices, r.indices, r.shader, &ebiten.DrawTrianglesShaderOptions{
		Uniforms: Uniforms(f, w, h),
	})

	// trail: fade the new frame over the previous one
	op := &ebiten.DrawImageOptions{}
	if trail := trailAmount(f.Modules.Blend); trail > 0 && !r.fresh {
		op.ColorScale.ScaleAlpha(float32(1 - trail))
	} else {
		op.Blend = ebiten.BlendCopy
	}
	r.history.DrawImage(r.offscreen, op)
	r.fresh = false

	dst := r.target.Target()
	dw, dh := dst.Bounds().Dx(), dst.Bounds().Dy()
	blit := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear, Blend: ebiten.BlendCopy}
	blit.GeoM.Scale(float64(dw)/float64(w), float64(dh)/float64(h))
	dst.DrawImage(r.history, blit)
	return nil
}

func (r *Renderer) ensure(w, h int) {
	if r.offscreen != nil {
		b := r.offscreen.Bounds()
		if b.Dx() == w && b.Dy() == h {
			return
		}
		r.offscreen.Deallocate()
		r.history.Deallocate()
	}
	r.offscreen = ebiten.NewImage(w, h)
	r.history = ebiten.NewImage(w, h)
	r.fresh = true
}

// Resize drops the offscreen buffers; they are rebuilt at the next frame's
// render size.
func (r *Renderer) Resize(w, h int) {
	if r.offscreen != nil {
		r.offscreen.Deallocate()
		r.history.Deallocate()
		r.offscreen, r.history = nil, nil
	}
}

func (r *Renderer) Close() {
	r.Resize(0, 0)
	if r.shader != nil {
		r.shader.Deallocate()
		r.shader = nil
	}
}

func vertex(x, y float32) ebiten.Vertex {
	return ebiten.Vertex{DstX: x, DstY: y, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}
}

func trailAmount(b render.Blend) float64 {
	if !b.Enabled {
		return 0
	}
	return math.Max(0, math.Min(0.95, b.Trail))
}

// Uniforms maps a frame onto the shader's uniform variables for a render
// target of w by h pixels.
func Uniforms(f *render.Frame, w, h int) map[string]any {
	m := f.Modules
	g := m.Gradient
	drift := 6 * math.Sin(f.Times.Gradient*0.07)
	scale := float64(w) / float64(max(f.Width, 1))

	ribbonCount := math.Max(1, math.Min(6, math.Round(m.Ribbon.Count)))
	ribbon := gg.HSL(m.Ribbon.Hue, 0.85, 0.6)

	return map[string]any{
		"Resolution":     []float32{float32(w), float32(h)},
		"GradientTop":    rgb(gg.HSL(g.HueTop+drift, g.Saturation, g.Lightness)),
		"GradientBottom": rgb(gg.HSL(g.HueBottom-drift, g.Saturation, g.Lightness*0.55)),
		"HighlightPos":   []float32{float32(g.HighlightX), float32(g.HighlightY)},
		"HighlightColor": append(rgb(gg.HSL(g.HueTop, g.Saturation*0.8, math.Min(0.95, g.Lightness+0.45))), float32(g.Highlight)),
		"RibbonParams": []float32{
			float32(m.Ribbon.Intensity),
			float32(ribbonCount),
			float32(m.Ribbon.Width),
			float32(m.Ribbon.NoiseScale),
		},
		"RibbonMotion": []float32{float32(f.Times.Ribbon * m.Ribbon.DriftSpeed), float32(m.Ribbon.Warp)},
		"RibbonColor":  rgb(ribbon),
		"BloomParams":  []float32{float32(m.Bloom.Threshold), float32(m.Bloom.Intensity), float32(m.Bloom.Radius * scale)},
		"GradeParams":  []float32{float32(m.Blend.Brightness), float32(m.Blend.Contrast), float32(m.Blend.Saturation)},
		"Octaves":      float32(f.Quality.Octaves()),
		"Enabled":      []float32{flag(g.Enabled), flag(m.Ribbon.Enabled), flag(m.Bloom.Enabled), flag(m.Blend.Enabled)},
	}
}

func rgb(c gg.RGBA) []float32 {
	return []float32{float32(c.R), float32(c.G), float32(c.B)}
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
