package sequencer

import (
	"math"
	"testing"
)

func TestParseSteps(t *testing.T) {
	steps, err := ParseSteps("x.5? | -0?80")
	if err != nil {
		t.Fatalf("ParseSteps: %v", err)
	}
	want := []Step{
		{Value: 1, Probability: 1, Enabled: true},
		{Value: 1, Probability: 1},
		{Value: 5.0 / 9, Probability: 0.5, Enabled: true},
		{Value: 1, Probability: 1},
		{Value: 0, Probability: 0.8, Enabled: true},
	}
	if len(steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(steps), len(want))
	}
	for i := range want {
		g, w := steps[i], want[i]
		if g.Enabled != w.Enabled || math.Abs(g.Value-w.Value) > 1e-9 || math.Abs(g.Probability-w.Probability) > 1e-9 {
			t.Fatalf("step %d = %+v, want %+v", i, g, w)
		}
	}
}

func TestParseStepsRepeats(t *testing.T) {
	steps, err := ParseSteps("[x...]4")
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 16 {
		t.Fatalf("got %d steps, want 16", len(steps))
	}
	for i, st := range steps {
		if st.Enabled != (i%4 == 0) {
			t.Fatalf("step %d enabled = %v", i, st.Enabled)
		}
	}
	nested, err := ParseSteps("[[x.]2..]")
	if err != nil {
		t.Fatal(err)
	}
	if len(nested) != 12 {
		t.Fatalf("nested repeat gave %d steps, want 12", len(nested))
	}
}

func TestParseStepsErrors(t *testing.T) {
	for _, src := range []string{"", "x y", "[x.", "x.]", "x?150", "| |"} {
		if _, err := ParseSteps(src); err == nil {
			t.Errorf("ParseSteps(%q) succeeded", src)
		}
	}
}

func TestFormatStepsReadsBack(t *testing.T) {
	src := "x.5?25 ..x."
	steps, err := ParseSteps(src)
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatSteps(steps); got != "x.5?25. .x." {
		t.Fatalf("FormatSteps = %q", got)
	}
}

func TestSetLaneStepsRemaps(t *testing.T) {
	s := New()
	rev := s.Revision()
	steps, _ := ParseSteps("x...x...")
	if !s.SetLaneSteps("lane-1", steps) {
		t.Fatal("SetLaneSteps rejected a known lane")
	}
	l, _ := s.Lane("lane-1")
	if len(l.Steps) != s.StepLength() {
		t.Fatalf("lane has %d steps, want %d", len(l.Steps), s.StepLength())
	}
	if !l.Steps[0].Enabled || !l.Steps[1].Enabled || l.Steps[2].Enabled || !l.Steps[8].Enabled {
		t.Fatalf("remapped steps wrong: %+v", l.Steps[:10])
	}
	if s.Revision() == rev {
		t.Fatal("revision not bumped")
	}
	if s.SetLaneSteps("nope", steps) || s.SetLaneSteps("lane-1", nil) {
		t.Fatal("SetLaneSteps accepted bad input")
	}
}
