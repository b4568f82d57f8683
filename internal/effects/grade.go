package effects

import "image"

// Grade applies brightness, contrast and saturation.
type Grade struct {
	brightness float64
	contrast   float64
	saturation float64

	lut      [256]uint8
	lutDirty bool
}

func NewGrade(brightness, contrast, saturation float64) *Grade {
	g := &Grade{}
	g.Set(brightness, contrast, saturation)
	return g
}

func (g *Grade) Set(brightness, contrast, saturation float64) {
	brightness = clamp(brightness, 0, 4)
	contrast = clamp(contrast, 0, 4)
	saturation = clamp(saturation, 0, 4)
	if brightness != g.brightness || contrast != g.contrast {
		g.lutDirty = true
	}
	g.brightness, g.contrast, g.saturation = brightness, contrast, saturation
}

// Identity reports whether Process would leave the frame unchanged.
func (g *Grade) Identity() bool {
	return g.brightness == 1 && g.contrast == 1 && g.saturation == 1
}

func (g *Grade) Process(img *image.RGBA) {
	if g.Identity() {
		return
	}
	if g.lutDirty {
		for i := range g.lut {
			v := float64(i) / 255 * g.brightness
			g.lut[i] = toByte((v-0.5)*g.contrast + 0.5)
		}
		g.lutDirty = false
	}
	s := g.saturation
	eachPixel(img, func(i int) {
		r := float64(g.lut[img.Pix[i]])
		gr := float64(g.lut[img.Pix[i+1]])
		b := float64(g.lut[img.Pix[i+2]])
		if s != 1 {
			lum := 0.2126*r + 0.7152*gr + 0.0722*b
			r = lum + (r-lum)*s
			gr = lum + (gr-lum)*s
			b = lum + (b-lum)*s
		}
		img.Pix[i] = toByte(r / 255)
		img.Pix[i+1] = toByte(gr / 255)
		img.Pix[i+2] = toByte(b / 255)
	})
}

func (g *Grade) Reset() {}
