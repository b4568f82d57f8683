// Package sequencer implements the multi-lane step sequencer that feeds
// gated, smoothed lane signals into the modulation matrix.
package sequencer

import (
	"math"
	"strconv"

	"github.com/cbegin/visynth-go/internal/registry"
	"github.com/cbegin/visynth-go/internal/rng"
)

const (
	MinBPM   = 20
	MaxBPM   = 240
	MaxSwing = 60
	MaxLanes = 8

	// maxAdvances bounds catch-up work in a single Update.
	maxAdvances = 256
	// maxDelta caps the time a single Update may consume.
	maxDelta = 1.0
	// laneTau is the smoothing time constant of a lane at smoothing 1.0.
	laneTau = 0.5
)

// EventKind identifies sequencer transport events.
type EventKind int

const (
	EventStep EventKind = iota
	EventLoopCompleted
)

type Options struct {
	// Rand returns uniform values in [0,1). Defaults to a time-seeded
	// generator.
	Rand    func() float64
	OnEvent func(kind EventKind, step int)
}

type Step struct {
	Value       float64 `json:"value"`
	Probability float64 `json:"probability"`
	Enabled     bool    `json:"enabled"`
}

// Lane is one track of steps. currentTarget and currentValue are runtime
// state and never serialized.
type Lane struct {
	ID        string            `json:"id"`
	Label     string            `json:"label"`
	Target    registry.TargetID `json:"targetId"`
	Amount    float64           `json:"amount"`
	Smoothing float64           `json:"smoothing"`
	Mute      bool              `json:"mute"`
	Solo      bool              `json:"solo"`
	Steps     []Step            `json:"steps"`

	currentTarget float64
	currentValue  float64
}

// Value returns the lane's smoothed output.
func (l Lane) Value() float64 { return l.currentValue }

// LanePatch is a partial lane edit; nil fields are left alone.
type LanePatch struct {
	Label     *string
	Target    *registry.TargetID
	Amount    *float64
	Smoothing *float64
	Mute      *bool
	Solo      *bool
}

type StepPatch struct {
	Value       *float64
	Probability *float64
	Enabled     *bool
}

type Sequencer struct {
	bpm         float64
	swing       float64
	stepLength  int
	playing     bool
	currentStep int
	acc         float64
	lastNow     float64
	hasLast     bool
	ticks       uint64
	revision    uint64
	nextLane    int

	lanes     []Lane
	clipboard []Step
	rand      func() float64
	onEvent   func(EventKind, int)
}

func New() *Sequencer {
	return NewWithOptions(Options{})
}

// NewWithOptions returns a paused sequencer at 120 bpm with the default
// three-lane, sixteen-step pattern.
func NewWithOptions(opts Options) *Sequencer {
	s := &Sequencer{
		bpm:        120,
		stepLength: 16,
		rand:       opts.Rand,
		onEvent:    opts.OnEvent,
	}
	if s.rand == nil {
		s.rand = rng.NewTimeSeeded().Float64
	}
	s.lanes = defaultLanes(s.stepLength)
	s.nextLane = len(s.lanes) + 1
	return s
}

func defaultLanes(n int) []Lane {
	pulse := func(every int, value, prob float64) []Step {
		steps := make([]Step, n)
		for i := range steps {
			steps[i] = Step{Value: value, Probability: prob, Enabled: i%every == 0}
		}
		return steps
	}
	return []Lane{
		{ID: "lane-1", Label: "Pulse", Target: registry.RibbonIntensity, Amount: 0.3, Smoothing: 0.2, Steps: pulse(4, 1, 1)},
		{ID: "lane-2", Label: "Glow", Target: registry.BloomIntensity, Amount: 0.5, Smoothing: 0.35, Steps: pulse(2, 0.8, 0.75)},
		{ID: "lane-3", Label: "Shimmer", Target: registry.GradientHighlight, Amount: 0.25, Smoothing: 0.5, Steps: pulse(3, 0.6, 0.5)},
	}
}

func (s *Sequencer) Play() {
	if s.playing {
		return
	}
	s.playing = true
	s.gate()
}

func (s *Sequencer) Pause() { s.playing = false }

func (s *Sequencer) Toggle() {
	if s.playing {
		s.Pause()
	} else {
		s.Play()
	}
}

func (s *Sequencer) Playing() bool    { return s.playing }
func (s *Sequencer) BPM() float64     { return s.bpm }
func (s *Sequencer) Swing() float64   { return s.swing }
func (s *Sequencer) StepLength() int  { return s.stepLength }
func (s *Sequencer) CurrentStep() int { return s.currentStep }

// Ticks counts step advances since construction.
func (s *Sequencer) Ticks() uint64 { return s.ticks }

// Revision changes whenever lanes are edited.
func (s *Sequencer) Revision() uint64 { return s.revision }

func (s *Sequencer) SetBPM(bpm float64) float64 {
	if !math.IsNaN(bpm) {
		s.bpm = clamp(bpm, MinBPM, MaxBPM)
	}
	return s.bpm
}

func (s *Sequencer) SetSwing(swing float64) float64 {
	if !math.IsNaN(swing) {
		s.swing = clamp(swing, 0, MaxSwing)
	}
	return s.swing
}

// Reset rewinds the transport to step 0 without touching lanes.
func (s *Sequencer) Reset() {
	s.currentStep = 0
	s.acc = 0
	s.hasLast = false
}

// StepDuration returns the swing-adjusted length of step i in seconds.
// Even steps are shortened and odd steps lengthened by the same amount.
func (s *Sequencer) StepDuration(i int) float64 {
	base := 60 / s.bpm / 4
	k := s.swing / 200
	if i%2 == 0 {
		return base * (1 - k)
	}
	return base * (1 + k)
}

// Update advances the transport to now (seconds) and returns each lane's
// smoothed value keyed by lane id. The first call only establishes the time
// base.
func (s *Sequencer) Update(now float64) map[string]float64 {
	dt := 0.0
	if s.hasLast {
		dt = now - s.lastNow
	}
	s.lastNow = now
	s.hasLast = true
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	if dt > maxDelta {
		dt = maxDelta
	}

	if s.playing {
		s.acc += dt
		for n := 0; s.acc >= s.StepDuration(s.currentStep); n++ {
			if n == maxAdvances {
				s.acc = 0
				break
			}
			s.acc -= s.StepDuration(s.currentStep)
			s.advance()
		}
	}

	out := make(map[string]float64, len(s.lanes))
	for i := range s.lanes {
		l := &s.lanes[i]
		l.currentValue = smooth(l.currentValue, l.currentTarget, l.Smoothing, dt)
		out[l.ID] = l.currentValue
	}
	return out
}

func (s *Sequencer) advance() {
	s.currentStep = (s.currentStep + 1) % s.stepLength
	s.ticks++
	s.gate()
	if s.onEvent != nil {
		s.onEvent(EventStep, s.currentStep)
		if s.currentStep == 0 {
			s.onEvent(EventLoopCompleted, 0)
		}
	}
}

// gate sets every lane's target from the current step.
func (s *Sequencer) gate() {
	solo := false
	for i := range s.lanes {
		if s.lanes[i].Solo {
			solo = true
			break
		}
	}
	for i := range s.lanes {
		l := &s.lanes[i]
		st := l.Steps[s.currentStep]
		switch {
		case l.Mute, solo && !l.Solo, !st.Enabled:
			l.currentTarget = 0
		case s.rand() < st.Probability:
			l.currentTarget = st.Value
		default:
			l.currentTarget = 0
		}
	}
}

func smooth(cur, target, smoothing, dt float64) float64 {
	tau := smoothing * laneTau
	if tau <= 1e-3 {
		return target
	}
	return cur + (target-cur)*(1-math.Exp(-dt/tau))
}

// Values returns the current smoothed output of every lane.
func (s *Sequencer) Values() map[string]float64 {
	out := make(map[string]float64, len(s.lanes))
	for _, l := range s.lanes {
		out[l.ID] = l.currentValue
	}
	return out
}

// Lanes returns a deep copy of all lanes.
func (s *Sequencer) Lanes() []Lane {
	out := make([]Lane, len(s.lanes))
	for i, l := range s.lanes {
		out[i] = l
		out[i].Steps = append([]Step(nil), l.Steps...)
	}
	return out
}

func (s *Sequencer) Lane(id string) (Lane, bool) {
	l := s.lane(id)
	if l == nil {
		return Lane{}, false
	}
	c := *l
	c.Steps = append([]Step(nil), l.Steps...)
	return c, true
}

func (s *Sequencer) SetLanePatch(id string, p LanePatch) bool {
	l := s.lane(id)
	if l == nil {
		return false
	}
	if p.Label != nil {
		l.Label = *p.Label
	}
	if p.Target != nil {
		l.Target = *p.Target
	}
	if p.Amount != nil && !math.IsNaN(*p.Amount) && !math.IsInf(*p.Amount, 0) {
		l.Amount = *p.Amount
	}
	if p.Smoothing != nil && !math.IsNaN(*p.Smoothing) {
		l.Smoothing = clamp(*p.Smoothing, 0, 1)
	}
	if p.Mute != nil {
		l.Mute = *p.Mute
	}
	if p.Solo != nil {
		l.Solo = *p.Solo
	}
	s.revision++
	return true
}

// SetStep edits one step. Out of range indices and unknown lanes are ignored.
func (s *Sequencer) SetStep(id string, index int, p StepPatch) bool {
	l := s.lane(id)
	if l == nil || index < 0 || index >= len(l.Steps) {
		return false
	}
	st := &l.Steps[index]
	if p.Value != nil && !math.IsNaN(*p.Value) {
		st.Value = clamp(*p.Value, 0, 1)
	}
	if p.Probability != nil && !math.IsNaN(*p.Probability) {
		st.Probability = clamp(*p.Probability, 0, 1)
	}
	if p.Enabled != nil {
		st.Enabled = *p.Enabled
	}
	s.revision++
	return true
}

// RandomizeLane rolls new step values: about 60% of steps enabled, values
// uniform, probabilities in [0.5,1].
func (s *Sequencer) RandomizeLane(id string) bool {
	l := s.lane(id)
	if l == nil {
		return false
	}
	for i := range l.Steps {
		l.Steps[i] = Step{
			Enabled:     s.rand() < 0.6,
			Value:       s.rand(),
			Probability: 0.5 + 0.5*s.rand(),
		}
	}
	s.revision++
	return true
}

// CopyLane puts a copy of the lane's steps on the clipboard.
func (s *Sequencer) CopyLane(id string) bool {
	l := s.lane(id)
	if l == nil {
		return false
	}
	s.clipboard = append([]Step(nil), l.Steps...)
	return true
}

// PasteLane overwrites the lane's steps with the clipboard, remapped to the
// current step length.
func (s *Sequencer) PasteLane(id string) bool {
	l := s.lane(id)
	if l == nil || len(s.clipboard) == 0 {
		return false
	}
	l.Steps = remap(s.clipboard, s.stepLength)
	s.revision++
	return true
}

// AddLane appends an unrouted lane and returns its id, or "" when the lane
// limit is reached.
func (s *Sequencer) AddLane(label string) string {
	if len(s.lanes) >= MaxLanes {
		return ""
	}
	id := ""
	for id == "" || s.lane(id) != nil {
		id = "lane-" + strconv.Itoa(s.nextLane)
		s.nextLane++
	}
	if label == "" {
		label = "Lane " + strconv.Itoa(len(s.lanes)+1)
	}
	s.lanes = append(s.lanes, Lane{
		ID:        id,
		Label:     label,
		Smoothing: 0.2,
		Steps:     make([]Step, s.stepLength),
	})
	s.revision++
	return id
}

func (s *Sequencer) RemoveLane(id string) bool {
	for i := range s.lanes {
		if s.lanes[i].ID == id {
			s.lanes = append(s.lanes[:i], s.lanes[i+1:]...)
			s.revision++
			return true
		}
	}
	return false
}

// SetStepLength resizes every lane to n steps (8, 16 or 32) by proportional
// index scaling.
func (s *Sequencer) SetStepLength(n int) bool {
	if !validStepLength(n) {
		return false
	}
	if n == s.stepLength {
		return true
	}
	for i := range s.lanes {
		s.lanes[i].Steps = remap(s.lanes[i].Steps, n)
	}
	s.stepLength = n
	s.currentStep %= n
	s.revision++
	return true
}

func validStepLength(n int) bool {
	return n == 8 || n == 16 || n == 32
}

// remap resizes steps to n entries, sampling old[i*len(old)/n].
func remap(old []Step, n int) []Step {
	out := make([]Step, n)
	if len(old) == 0 {
		return out
	}
	for i := range out {
		out[i] = old[i*len(old)/n]
	}
	return out
}

func (s *Sequencer) lane(id string) *Lane {
	for i := range s.lanes {
		if s.lanes[i].ID == id {
			return &s.lanes[i]
		}
	}
	return nil
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
