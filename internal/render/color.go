package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Stretch scales src over all of dst with bilinear filtering.
func Stretch(dst, src *image.RGBA) {
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
}
