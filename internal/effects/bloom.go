package effects

import (
	"image"

	"golang.org/x/image/draw"
)

// Bloom extracts bright areas, blurs them by downscaling and upscaling, and
// screen-composites the glow back over the frame.
type Bloom struct {
	threshold float64
	intensity float64
	radius    float64

	small *image.RGBA
	tiny  *image.RGBA
	glow  *image.RGBA
}

func NewBloom(threshold, intensity, radius float64) *Bloom {
	b := &Bloom{}
	b.Set(threshold, intensity, radius)
	return b
}

// Set updates the bloom parameters: threshold 0..1, intensity 0..2, radius
// in pixels 1..32.
func (b *Bloom) Set(threshold, intensity, radius float64) {
	b.threshold = clamp(threshold, 0, 1)
	b.intensity = clamp(intensity, 0, 2)
	b.radius = clamp(radius, 1, 32)
}

func (b *Bloom) Process(img *image.RGBA) {
	if b.intensity <= 0 {
		return
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return
	}
	// downscale factor grows with radius; two passes give a soft kernel
	d := int(clamp(b.radius/2, 2, 16))
	b.small = ensure(b.small, max(w/d, 1), max(h/d, 1))
	b.tiny = ensure(b.tiny, max(w/(d*2), 1), max(h/(d*2), 1))
	b.glow = ensure(b.glow, w, h)

	draw.ApproxBiLinear.Scale(b.small, b.small.Bounds(), img, bounds, draw.Src, nil)
	b.brightPass(b.small)
	draw.ApproxBiLinear.Scale(b.tiny, b.tiny.Bounds(), b.small, b.small.Bounds(), draw.Src, nil)
	draw.BiLinear.Scale(b.glow, b.glow.Bounds(), b.tiny, b.tiny.Bounds(), draw.Src, nil)

	k := b.intensity
	glow := b.glow.Pix
	gi := 0
	eachPixel(img, func(i int) {
		for c := 0; c < 3; c++ {
			base := float64(img.Pix[i+c]) / 255
			g := clamp(float64(glow[gi+c])/255*k, 0, 1)
			img.Pix[i+c] = toByte(1 - (1-base)*(1-g))
		}
		gi += 4
	})
}

// brightPass keeps the part of each pixel above the luminance threshold.
func (b *Bloom) brightPass(img *image.RGBA) {
	knee := 1 - b.threshold
	if knee < 1e-3 {
		knee = 1e-3
	}
	eachPixel(img, func(i int) {
		r := float64(img.Pix[i]) / 255
		g := float64(img.Pix[i+1]) / 255
		bl := float64(img.Pix[i+2]) / 255
		lum := 0.2126*r + 0.7152*g + 0.0722*bl
		f := clamp((lum-b.threshold)/knee, 0, 1)
		img.Pix[i] = toByte(r * f)
		img.Pix[i+1] = toByte(g * f)
		img.Pix[i+2] = toByte(bl * f)
		img.Pix[i+3] = 255
	})
}

func (b *Bloom) Reset() {
	b.small, b.tiny, b.glow = nil, nil, nil
}

func ensure(img *image.RGBA, w, h int) *image.RGBA {
	if img != nil && img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		return img
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}
