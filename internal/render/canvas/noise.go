package canvas

import "math"

// fbm sums octaves of 2D value noise and returns a value in roughly [-1,1].
func fbm(x, y float64, octaves int) float64 {
	sum, amp, norm := 0.0, 1.0, 0.0
	for o := 0; o < octaves; o++ {
		sum += amp * valueNoise(x, y)
		norm += amp
		x *= 2
		y *= 2
		amp *= 0.5
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

func valueNoise(x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	sx, sy := fx*fx*(3-2*fx), fy*fy*(3-2*fy)
	a := lattice(x0, y0)
	b := lattice(x0+1, y0)
	c := lattice(x0, y0+1)
	d := lattice(x0+1, y0+1)
	top := a + (b-a)*sx
	bot := c + (d-c)*sx
	return top + (bot-top)*sy
}

// lattice hashes a grid point to [-1,1].
func lattice(x, y float64) float64 {
	v := math.Sin(x*127.1+y*311.7) * 43758.5453
	return 2*(v-math.Floor(v)) - 1
}
