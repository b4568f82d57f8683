package canvas

import (
	"errors"
	"math"
	"testing"

	"github.com/cbegin/visynth-go/internal/quality"
	"github.com/cbegin/visynth-go/internal/render"
)

type bareSurface struct{}

func (bareSurface) Size() (int, int) { return 10, 10 }
func (bareSurface) Resize(int, int)  {}

func frame(w, h int) *render.Frame {
	return &render.Frame{
		Width:   w,
		Height:  h,
		Quality: quality.High,
		Modules: render.Modules{
			Gradient: render.Gradient{Enabled: true, HueTop: 220, HueBottom: 280, Saturation: 0.6, Lightness: 0.3, Highlight: 0.5, HighlightX: 0.5, HighlightY: 0.3},
			Ribbon:   render.Ribbon{Enabled: true, Intensity: 0.8, DriftSpeed: 0.3, Count: 3, Width: 0.15, NoiseScale: 1.8, Hue: 150, Warp: 0.4},
			Bloom:    render.Bloom{Enabled: true, Threshold: 0.5, Intensity: 0.6, Radius: 6},
			Blend:    render.Blend{Enabled: true, Brightness: 1, Contrast: 1, Saturation: 1, Trail: 0.2},
			Motion:   render.Motion{Speed: 1},
		},
	}
}

func TestNewRequiresPixelSurface(t *testing.T) {
	if _, err := New(bareSurface{}); !errors.Is(err, ErrUnsupportedSurface) {
		t.Fatalf("err = %v, want ErrUnsupportedSurface", err)
	}
}

func TestRenderPresentsFrame(t *testing.T) {
	s := render.NewImageSurface(64, 48)
	r, err := New(s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()
	if r.Kind() != render.KindCPU {
		t.Fatalf("Kind = %v", r.Kind())
	}
	if err := r.Render(frame(64, 48)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if s.Presents != 1 {
		t.Fatalf("Presents = %d", s.Presents)
	}
	img := s.Image()
	top, bottom := img.RGBAAt(2, 1), img.RGBAAt(2, 46)
	if top == bottom {
		t.Fatalf("gradient is flat: %v", top)
	}
	if top.A != 255 {
		t.Fatalf("frame is not opaque: %v", top)
	}
}

func TestDisabledGradientClearsToBlack(t *testing.T) {
	s := render.NewImageSurface(16, 16)
	r, _ := New(s)
	f := frame(16, 16)
	f.Modules.Gradient.Enabled = false
	f.Modules.Ribbon.Enabled = false
	f.Modules.Bloom.Enabled = false
	f.Modules.Blend.Enabled = false
	if err := r.Render(f); err != nil {
		t.Fatal(err)
	}
	if c := s.Image().RGBAAt(8, 8); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Fatalf("pixel = %v, want black", c)
	}
}

func TestLowQualityRendersSmallerAndStretches(t *testing.T) {
	s := render.NewImageSurface(80, 60)
	r, _ := New(s)
	f := frame(80, 60)
	f.Quality = quality.Low
	if err := r.Render(f); err != nil {
		t.Fatal(err)
	}
	if w, h := r.dc.Width(), r.dc.Height(); w != 40 || h != 30 {
		t.Fatalf("render size = %dx%d, want 40x30", w, h)
	}
	if b := s.Image().Bounds(); b.Dx() != 80 {
		t.Fatalf("surface size changed to %v", b)
	}
}

func TestFBMBounded(t *testing.T) {
	for i := 0; i < 500; i++ {
		v := fbm(float64(i)*0.37, float64(i)*0.11, 5)
		if math.IsNaN(v) || v < -1 || v > 1 {
			t.Fatalf("fbm = %v", v)
		}
	}
}
