package visynth

import (
	"github.com/cbegin/visynth-go/internal/quality"
	"github.com/cbegin/visynth-go/internal/render"
)

// StatsInterval is the minimum time between stats callbacks.
const StatsInterval = 0.2

type Stats struct {
	FPS         float64
	ActiveNodes int
	Renderer    render.Kind
	Quality     quality.Tier
	Step        int
}
