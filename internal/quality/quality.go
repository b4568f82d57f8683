// Package quality measures frame rate and steps render quality down when the
// engine cannot keep up.
package quality

type Tier int

const (
	High Tier = iota
	Medium
	Low
)

var tierNames = [...]string{"high", "medium", "low"}

func (t Tier) String() string {
	if t < High || t > Low {
		return tierNames[High]
	}
	return tierNames[t]
}

// ParseTier maps a name to a tier.
func ParseTier(s string) (Tier, bool) {
	for i, n := range tierNames {
		if n == s {
			return Tier(i), true
		}
	}
	return High, false
}

func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tier) UnmarshalText(b []byte) error {
	v, _ := ParseTier(string(b))
	*t = v
	return nil
}

// Scale is the fraction of the surface resolution rendered at this tier.
func (t Tier) Scale() float64 {
	switch t {
	case Medium:
		return 0.75
	case Low:
		return 0.5
	default:
		return 1
	}
}

// Octaves is the number of noise layers used for ribbons at this tier.
func (t Tier) Octaves() int {
	switch t {
	case Medium:
		return 4
	case Low:
		return 3
	default:
		return 5
	}
}

// Next returns the tier below t, or t if it is already the lowest.
func (t Tier) Next() Tier {
	if t >= Low {
		return Low
	}
	return t + 1
}

const (
	// MeterWindow is how many seconds of frames each FPS sample covers.
	MeterWindow = 0.5
	// TargetFPS is the rate below which time counts against the tier.
	TargetFPS = 50
	// DegradeAfter is how long, cumulatively, FPS must stay low before the
	// tier drops one step.
	DegradeAfter = 3.0
)

// Meter computes frames per second over a rolling window.
type Meter struct {
	frames  int
	elapsed float64
	fps     float64
}

// Add records one frame of dt seconds and returns the latest measurement,
// which is 0 until the first window completes.
func (m *Meter) Add(dt float64) float64 {
	if dt < 0 {
		dt = 0
	}
	m.frames++
	m.elapsed += dt
	if m.elapsed >= MeterWindow {
		m.fps = float64(m.frames) / m.elapsed
		m.frames = 0
		m.elapsed = 0
	}
	return m.fps
}

func (m *Meter) FPS() float64 { return m.fps }

func (m *Meter) Reset() { *m = Meter{} }

// Controller degrades the tier one step for every DegradeAfter seconds spent
// below TargetFPS. It never raises the tier on its own.
type Controller struct {
	Enabled bool

	tier  Tier
	below float64
}

func NewController(start Tier, enabled bool) *Controller {
	return &Controller{Enabled: enabled, tier: start}
}

func (c *Controller) Tier() Tier { return c.tier }

// Set picks a tier manually and clears the low-FPS accumulator.
func (c *Controller) Set(t Tier) {
	if t < High || t > Low {
		t = High
	}
	c.tier = t
	c.below = 0
}

// Observe feeds one frame. fps <= 0 means no measurement yet. It reports
// the current tier and whether it just changed.
func (c *Controller) Observe(dt, fps float64) (Tier, bool) {
	if !c.Enabled || fps <= 0 || fps >= TargetFPS || c.tier == Low {
		return c.tier, false
	}
	c.below += dt
	if c.below < DegradeAfter {
		return c.tier, false
	}
	c.below = 0
	c.tier = c.tier.Next()
	return c.tier, true
}
