package shader

import (
	"errors"
	"math"
	"testing"

	"github.com/cbegin/visynth-go/internal/quality"
	"github.com/cbegin/visynth-go/internal/render"
)

func TestNewRejectsPixelOnlySurface(t *testing.T) {
	_, err := New(render.NewImageSurface(8, 8))
	if !errors.Is(err, ErrUnsupportedSurface) {
		t.Fatalf("err = %v, want ErrUnsupportedSurface", err)
	}
}

func testFrame() *render.Frame {
	return &render.Frame{
		Width:   200,
		Height:  100,
		Quality: quality.Low,
		Modules: render.Modules{
			Gradient: render.Gradient{Enabled: true, HueTop: 222, HueBottom: 284, Saturation: 0.6, Lightness: 0.3, Highlight: 0.4, HighlightX: 0.5, HighlightY: 0.3},
			Ribbon:   render.Ribbon{Enabled: false, Intensity: 0.7, DriftSpeed: 0.5, Count: 9, Width: 0.1, NoiseScale: 2, Hue: 150, Warp: 0.3},
			Bloom:    render.Bloom{Enabled: true, Threshold: 0.6, Intensity: 0.5, Radius: 8},
			Blend:    render.Blend{Enabled: true, Brightness: 1.2, Contrast: 1, Saturation: 1},
		},
		Times: render.ModuleTimes{Ribbon: 4},
	}
}

func TestUniformsPackFrame(t *testing.T) {
	f := testFrame()
	w, h := f.RenderSize()
	u := Uniforms(f, w, h)

	res := u["Resolution"].([]float32)
	if res[0] != 100 || res[1] != 50 {
		t.Fatalf("resolution = %v, want [100 50]", res)
	}
	en := u["Enabled"].([]float32)
	if en[0] != 1 || en[1] != 0 || en[2] != 1 || en[3] != 1 {
		t.Fatalf("enabled flags = %v", en)
	}
	rib := u["RibbonParams"].([]float32)
	if rib[1] != 6 {
		t.Fatalf("ribbon count = %v, want clamp to 6", rib[1])
	}
	motion := u["RibbonMotion"].([]float32)
	if math.Abs(float64(motion[0])-2) > 1e-6 {
		t.Fatalf("ribbon phase = %v, want time*drift = 2", motion[0])
	}
	bloom := u["BloomParams"].([]float32)
	if math.Abs(float64(bloom[2])-4) > 1e-6 {
		t.Fatalf("bloom radius = %v, want scaled to 4", bloom[2])
	}
	if oct := u["Octaves"].(float32); oct != float32(quality.Low.Octaves()) {
		t.Fatalf("octaves = %v", oct)
	}
	if hc := u["HighlightColor"].([]float32); len(hc) != 4 || math.Abs(float64(hc[3])-0.4) > 1e-6 {
		t.Fatalf("highlight color = %v", hc)
	}
}

func TestUniformsStayInColorRange(t *testing.T) {
	f := testFrame()
	f.Modules.Gradient.Lightness = 0.9
	u := Uniforms(f, 10, 10)
	for _, name := range []string{"GradientTop", "GradientBottom", "RibbonColor"} {
		for _, c := range u[name].([]float32) {
			if c < 0 || c > 1 {
				t.Fatalf("%s component %v out of range", name, c)
			}
		}
	}
}

func TestRibbonColorFromHue(t *testing.T) {
	u := Uniforms(testFrame(), 10, 10)
	want := []float64{0.26, 0.94, 0.60}
	got := u["RibbonColor"].([]float32)
	for i := range want {
		if math.Abs(float64(got[i])-want[i]) > 1e-5 {
			t.Fatalf("ribbon color = %v, want %v", got, want)
		}
	}
}
