package effects

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestTrailBlendsPreviousFrame(t *testing.T) {
	tr := NewTrail(0.5)
	tr.Process(solid(4, 4, color.RGBA{200, 200, 200, 255}))
	next := solid(4, 4, color.RGBA{0, 0, 0, 255})
	tr.Process(next)
	if got := next.RGBAAt(1, 1).R; got != 100 {
		t.Fatalf("trail R = %d, want 100", got)
	}
	tr.Reset()
	fresh := solid(4, 4, color.RGBA{0, 0, 0, 255})
	tr.Process(fresh)
	if got := fresh.RGBAAt(1, 1).R; got != 0 {
		t.Fatalf("after reset R = %d, want 0", got)
	}
}

func TestTrailClampsAmount(t *testing.T) {
	if a := NewTrail(3).Amount(); a != 0.95 {
		t.Fatalf("amount = %v, want 0.95", a)
	}
}

func TestBloomBrightensAroundHighlights(t *testing.T) {
	img := solid(64, 64, color.RGBA{10, 10, 10, 255})
	for y := 28; y < 36; y++ {
		for x := 28; x < 36; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	before := img.RGBAAt(38, 32).R
	NewBloom(0.5, 1.5, 8).Process(img)
	if after := img.RGBAAt(38, 32).R; after <= before {
		t.Fatalf("pixel next to highlight did not glow: %d -> %d", before, after)
	}
	if c := img.RGBAAt(0, 0).R; c < 10 {
		t.Fatalf("screen blend darkened the frame: %d", c)
	}
}

func TestBloomLeavesDarkFrameAlone(t *testing.T) {
	img := solid(32, 32, color.RGBA{40, 40, 40, 255})
	NewBloom(0.8, 2, 4).Process(img)
	if c := img.RGBAAt(16, 16).R; c != 40 {
		t.Fatalf("dark frame changed to %d", c)
	}
}

func TestGrade(t *testing.T) {
	img := solid(2, 2, color.RGBA{100, 100, 100, 255})
	NewGrade(2, 1, 1).Process(img)
	if r := img.RGBAAt(0, 0).R; r != 200 {
		t.Fatalf("brightness 2: R = %d, want 200", r)
	}

	img = solid(2, 2, color.RGBA{200, 50, 50, 255})
	NewGrade(1, 1, 0).Process(img)
	c := img.RGBAAt(0, 0)
	if c.R != c.G || c.G != c.B {
		t.Fatalf("saturation 0 left color %v", c)
	}

	img = solid(2, 2, color.RGBA{77, 140, 201, 255})
	NewGrade(1, 1, 1).Process(img)
	if c := img.RGBAAt(1, 1); c != (color.RGBA{77, 140, 201, 255}) {
		t.Fatalf("identity grade changed pixel to %v", c)
	}
}

func TestChainAppliesEffectsInOrder(t *testing.T) {
	c := NewChain(NewGrade(2, 1, 1), NewGrade(0.5, 1, 1))
	img := solid(2, 2, color.RGBA{60, 60, 60, 255})
	c.Process(img)
	if r := img.RGBAAt(0, 0).R; r != 60 {
		t.Fatalf("R = %d, want 60", r)
	}
	c.Reset()
}
