package sequencer

import "math"

const PatternVersion = 1

// Pattern is the persisted form of the full sequencer state.
type Pattern struct {
	Version     int     `json:"version"`
	BPM         float64 `json:"bpm"`
	Swing       float64 `json:"swing"`
	StepLength  int     `json:"stepLength"`
	CurrentStep int     `json:"currentStep"`
	Playing     bool    `json:"playing"`
	Lanes       []Lane  `json:"lanes"`
}

// Snapshot captures the transport and lanes without runtime lane values.
func (s *Sequencer) Snapshot() Pattern {
	lanes := s.Lanes()
	for i := range lanes {
		lanes[i].currentTarget = 0
		lanes[i].currentValue = 0
	}
	return Pattern{
		Version:     PatternVersion,
		BPM:         s.bpm,
		Swing:       s.swing,
		StepLength:  s.stepLength,
		CurrentStep: s.currentStep,
		Playing:     s.playing,
		Lanes:       lanes,
	}
}

// Apply replaces the sequencer state with p. Patterns from a newer version,
// with an invalid step length, or with missing/duplicate lane ids are
// rejected without touching the sequencer. Lanes whose step count differs
// from the step length are remapped.
func (s *Sequencer) Apply(p Pattern) bool {
	if p.Version > PatternVersion || !validStepLength(p.StepLength) || len(p.Lanes) > MaxLanes {
		return false
	}
	seen := make(map[string]bool, len(p.Lanes))
	lanes := make([]Lane, len(p.Lanes))
	for i, l := range p.Lanes {
		if l.ID == "" || seen[l.ID] {
			return false
		}
		seen[l.ID] = true
		steps := make([]Step, len(l.Steps))
		for j, st := range l.Steps {
			steps[j] = Step{
				Value:       clampFinite(st.Value, 0, 1),
				Probability: clampFinite(st.Probability, 0, 1),
				Enabled:     st.Enabled,
			}
		}
		if len(steps) != p.StepLength {
			steps = remap(steps, p.StepLength)
		}
		lanes[i] = Lane{
			ID:        l.ID,
			Label:     l.Label,
			Target:    l.Target,
			Amount:    finite(l.Amount),
			Smoothing: clampFinite(l.Smoothing, 0, 1),
			Mute:      l.Mute,
			Solo:      l.Solo,
			Steps:     steps,
		}
	}

	s.bpm = clampFinite(p.BPM, MinBPM, MaxBPM)
	if p.BPM == 0 || math.IsNaN(p.BPM) {
		s.bpm = 120
	}
	s.swing = clampFinite(p.Swing, 0, MaxSwing)
	s.stepLength = p.StepLength
	s.currentStep = p.CurrentStep % p.StepLength
	if s.currentStep < 0 {
		s.currentStep = 0
	}
	s.playing = p.Playing
	s.acc = 0
	s.lanes = lanes
	s.revision++
	return true
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// clampFinite clamps v, mapping NaN to lo.
func clampFinite(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return clamp(v, lo, hi)
}
