package visynth

import (
	"maps"

	"github.com/cbegin/visynth-go/internal/lfo"
	"github.com/cbegin/visynth-go/internal/quality"
	"github.com/cbegin/visynth-go/internal/registry"
)

// ModuleState is the user-facing switchboard of one visual module. A frozen
// module keeps drawing but its animation time stands still.
type ModuleState struct {
	Enabled bool `json:"enabled"`
	Frozen  bool `json:"frozen"`
}

type OscillatorState struct {
	Enabled bool      `json:"enabled"`
	Shape   lfo.Shape `json:"shape"`
}

// State is the mutable engine configuration. Params are written into the
// registry as base values when the state is applied.
type State struct {
	Gradient    ModuleState                   `json:"gradient"`
	Ribbon      ModuleState                   `json:"auroraRibbon"`
	Bloom       ModuleState                   `json:"bloom"`
	Blend       ModuleState                   `json:"blend"`
	LFO         OscillatorState               `json:"lfo1"`
	AutoQuality bool                          `json:"autoQuality"`
	Quality     quality.Tier                  `json:"quality"`
	Params      map[registry.TargetID]float64 `json:"params,omitempty"`
}

func DefaultState() State {
	on := ModuleState{Enabled: true}
	return State{
		Gradient:    on,
		Ribbon:      on,
		Bloom:       on,
		Blend:       on,
		LFO:         OscillatorState{Enabled: true, Shape: lfo.Sine},
		AutoQuality: true,
		Quality:     quality.High,
	}
}

func (s State) clone() State {
	s.Params = maps.Clone(s.Params)
	return s
}

func (s State) modules() [moduleCount]ModuleState {
	return [moduleCount]ModuleState{s.Gradient, s.Ribbon, s.Bloom, s.Blend}
}

// enabledCount is the number of visual modules currently drawing.
func (s State) enabledCount() int {
	n := 0
	for _, m := range s.modules() {
		if m.Enabled {
			n++
		}
	}
	return n
}
