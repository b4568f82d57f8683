// Package effects is the pixel post-processing chain of the CPU renderer.
package effects

import "image"

// Effector processes a frame in place.
type Effector interface {
	Process(img *image.RGBA)
	Reset()
}

// Chain applies a sequence of effects in order.
type Chain struct {
	effects []Effector
}

func NewChain(effects ...Effector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(img *image.RGBA) {
	for _, e := range c.effects {
		e.Process(img)
	}
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// eachPixel calls fn with the Pix offset of every pixel in img.
func eachPixel(img *image.RGBA, fn func(i int)) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			fn(i)
			i += 4
		}
	}
}
