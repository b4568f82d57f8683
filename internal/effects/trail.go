package effects

import "image"

// Trail blends each frame with the previous output, leaving a fading motion
// trail. It is the image counterpart of a feedback delay line.
type Trail struct {
	prev   *image.RGBA
	amount float64
}

// NewTrail creates a trail effect. amount is the weight of the previous
// frame, 0..0.95.
func NewTrail(amount float64) *Trail {
	t := &Trail{}
	t.SetAmount(amount)
	return t
}

func (t *Trail) SetAmount(amount float64) { t.amount = clamp(amount, 0, 0.95) }

func (t *Trail) Amount() float64 { return t.amount }

func (t *Trail) Process(img *image.RGBA) {
	b := img.Bounds()
	if t.prev == nil || t.prev.Bounds() != b {
		t.prev = image.NewRGBA(b)
		copy(t.prev.Pix, img.Pix)
		return
	}
	if t.amount > 0 {
		a := t.amount
		prev := t.prev.Pix
		eachPixel(img, func(i int) {
			for c := 0; c < 3; c++ {
				img.Pix[i+c] = uint8(float64(img.Pix[i+c])*(1-a) + float64(prev[i+c])*a + 0.5)
			}
		})
	}
	copy(t.prev.Pix, img.Pix)
}

// Reset forgets the previous frame.
func (t *Trail) Reset() { t.prev = nil }
