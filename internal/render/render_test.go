package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/cbegin/visynth-go/internal/quality"
)

func TestRenderSizeFollowsQuality(t *testing.T) {
	f := &Frame{Width: 800, Height: 600, Quality: quality.Low}
	if w, h := f.RenderSize(); w != 400 || h != 300 {
		t.Fatalf("low render size = %dx%d", w, h)
	}
	f.Quality = quality.Medium
	if w, h := f.RenderSize(); w != 600 || h != 450 {
		t.Fatalf("medium render size = %dx%d", w, h)
	}
	if w, h := ScaledSize(1, 1, 0.5); w != 1 || h != 1 {
		t.Fatalf("tiny surface scaled to %dx%d", w, h)
	}
}

func TestImageSurfacePresentStretches(t *testing.T) {
	s := NewImageSurface(8, 8)
	small := image.NewRGBA(image.Rect(0, 0, 4, 4))
	red := color.RGBA{255, 0, 0, 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			small.SetRGBA(x, y, red)
		}
	}
	s.Present(small)
	if got := s.Image().RGBAAt(7, 7); got != red {
		t.Fatalf("corner = %v, want red", got)
	}
	if s.Presents != 1 {
		t.Fatalf("Presents = %d", s.Presents)
	}
	s.Resize(3, 2)
	if w, h := s.Size(); w != 3 || h != 2 || s.Image().Bounds().Dx() != 3 {
		t.Fatalf("resize gave %dx%d", w, h)
	}
}
