package render

import (
	"image"
	"image/draw"
)

// ImageSurface is an in-memory PixelSurface used for offline rendering and
// tests.
type ImageSurface struct {
	w, h     int
	img      *image.RGBA
	Presents int
}

var _ PixelSurface = (*ImageSurface)(nil)

func NewImageSurface(w, h int) *ImageSurface {
	s := &ImageSurface{}
	s.Resize(w, h)
	return s
}

func (s *ImageSurface) Size() (int, int) { return s.w, s.h }

func (s *ImageSurface) Resize(w, h int) {
	s.w, s.h = max(w, 1), max(h, 1)
	s.img = image.NewRGBA(image.Rect(0, 0, s.w, s.h))
}

// Present copies img onto the surface, stretching it when the sizes differ.
func (s *ImageSurface) Present(img *image.RGBA) {
	s.Presents++
	if img.Bounds().Size() == s.img.Bounds().Size() {
		draw.Draw(s.img, s.img.Bounds(), img, img.Bounds().Min, draw.Src)
		return
	}
	Stretch(s.img, img)
}

// Image returns the last presented frame. The caller must not keep it across
// Present calls.
func (s *ImageSurface) Image() *image.RGBA { return s.img }
