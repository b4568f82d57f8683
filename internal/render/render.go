// Package render defines the frame description shared by the renderer
// backends and the surfaces they draw to.
package render

import (
	"image"

	"github.com/cbegin/visynth-go/internal/quality"
	"github.com/cbegin/visynth-go/internal/registry"
)

type Kind int

const (
	KindGPU Kind = iota
	KindCPU
)

func (k Kind) String() string {
	if k == KindCPU {
		return "cpu"
	}
	return "gpu"
}

type Gradient struct {
	Enabled    bool
	HueTop     float64
	HueBottom  float64
	Saturation float64
	Lightness  float64
	Highlight  float64
	HighlightX float64
	HighlightY float64
}

type Ribbon struct {
	Enabled    bool
	Intensity  float64
	DriftSpeed float64
	Count      float64
	Width      float64
	NoiseScale float64
	Hue        float64
	Warp       float64
}

type Bloom struct {
	Enabled   bool
	Threshold float64
	Intensity float64
	Radius    float64
}

type Blend struct {
	Enabled    bool
	Brightness float64
	Contrast   float64
	Saturation float64
	Trail      float64
}

type Motion struct {
	Speed    float64
	TimeWarp float64
}

type Modules struct {
	Gradient Gradient
	Ribbon   Ribbon
	Bloom    Bloom
	Blend    Blend
	Motion   Motion
}

// ModuleTimes holds each animated module's elapsed time in seconds.
type ModuleTimes struct {
	Gradient float64
	Ribbon   float64
	Bloom    float64
	Blend    float64
}

// Frame is everything a backend needs to draw one frame. It is rebuilt
// every tick and must not be retained by a renderer.
type Frame struct {
	Width    int
	Height   int
	Time     float64
	Quality  quality.Tier
	Modules  Modules
	Times    ModuleTimes
	Resolved map[registry.TargetID]float64
}

// RenderSize is the backing resolution for the frame's quality tier.
func (f *Frame) RenderSize() (int, int) {
	return ScaledSize(f.Width, f.Height, f.Quality.Scale())
}

// ScaledSize scales w,h keeping at least one pixel per side.
func ScaledSize(w, h int, scale float64) (int, int) {
	sw := int(float64(w)*scale + 0.5)
	sh := int(float64(h)*scale + 0.5)
	return max(sw, 1), max(sh, 1)
}

// Renderer draws frames onto the surface it was created with.
type Renderer interface {
	Kind() Kind
	Render(f *Frame) error
	// Resize reconfigures any offscreen buffers for a new surface size.
	Resize(w, h int)
	Close()
}

// Surface is the visible drawing area.
type Surface interface {
	Size() (w, h int)
	Resize(w, h int)
}

// PixelSurface accepts finished CPU frames.
type PixelSurface interface {
	Surface
	Present(img *image.RGBA)
}
