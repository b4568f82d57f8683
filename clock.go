package visynth

const (
	modGradient = iota
	modRibbon
	modBloom
	modBlend
	moduleCount
)

// moduleClock derives one module's animation time from the global clock.
// Freezing pins the time; unfreezing continues from the pinned value.
type moduleClock struct {
	frozen bool
	pinned float64
	offset float64
}

func (c *moduleClock) at(global float64, frozen bool) float64 {
	switch {
	case frozen && !c.frozen:
		c.pinned = global + c.offset
		c.frozen = true
	case !frozen && c.frozen:
		c.offset = c.pinned - global
		c.frozen = false
	}
	if c.frozen {
		return c.pinned
	}
	return global + c.offset
}
