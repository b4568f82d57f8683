package modmatrix

import (
	"math"
	"testing"

	"github.com/cbegin/visynth-go/internal/registry"
)

const frame = 1.0 / 60

func TestZeroAmountOrDisabledResolvesToBase(t *testing.T) {
	reg := registry.NewDefault()
	base, _ := reg.BaseValue(registry.BloomIntensity)
	cases := []Route{
		{ID: "zero", Source: SourceLFO1, Target: registry.BloomIntensity, Amount: 0, Enabled: true},
		{ID: "off", Source: SourceLFO1, Target: registry.BloomIntensity, Amount: 1, Enabled: false},
	}
	for _, r := range cases {
		t.Run(r.ID, func(t *testing.T) {
			m := New()
			m.Add(r)
			for _, sig := range []float64{-1, -0.3, 0, 0.5, 1} {
				got := m.Resolve(reg, map[SourceID]float64{SourceLFO1: sig}, frame)
				if got[registry.BloomIntensity] != base {
					t.Fatalf("signal %v resolved to %v, want base %v", sig, got[registry.BloomIntensity], base)
				}
				if c := m.Contribution(r.ID); c != 0 {
					t.Fatalf("contribution = %v, want 0", c)
				}
			}
		})
	}
}

func TestDisablingDecaysInsteadOfJumping(t *testing.T) {
	reg := registry.NewDefault()
	m := New()
	m.Add(Route{ID: "r", Source: SourceLFO1, Target: registry.BloomIntensity, Amount: 0.5, Smoothing: 0.5, Enabled: true})
	src := map[SourceID]float64{SourceLFO1: 1}
	for i := 0; i < 600; i++ {
		m.Resolve(reg, src, frame)
	}
	settled := m.Contribution("r")
	if math.Abs(settled-0.5) > 1e-3 {
		t.Fatalf("settled contribution = %v, want ~0.5", settled)
	}

	off := false
	m.Update("r", RoutePatch{Enabled: &off})
	prev := settled
	for i := 0; i < 5; i++ {
		m.Resolve(reg, src, frame)
		c := m.Contribution("r")
		if c <= 0 || c >= prev {
			t.Fatalf("frame %d: contribution %v did not decay smoothly from %v", i, c, prev)
		}
		prev = c
	}
	for i := 0; i < 2000; i++ {
		m.Resolve(reg, src, frame)
	}
	if c := m.Contribution("r"); c != 0 {
		t.Fatalf("contribution after long decay = %v, want 0", c)
	}
}

func TestZeroSmoothingTracksInstantly(t *testing.T) {
	reg := registry.NewDefault()
	m := New()
	m.Add(Route{ID: "r", Source: "lane-1", Target: registry.RibbonDriftSpeed, Amount: 0.5, Enabled: true})
	got := m.Resolve(reg, map[SourceID]float64{"lane-1": 1}, frame)
	if math.Abs(got[registry.RibbonDriftSpeed]-0.76) > 1e-9 {
		t.Fatalf("drift speed = %v, want 0.76", got[registry.RibbonDriftSpeed])
	}
}

func TestSmoothedRouteRampsTowardTarget(t *testing.T) {
	reg := registry.NewDefault()
	m := New()
	m.Add(Route{ID: "r", Source: "lane-1", Target: registry.RibbonDriftSpeed, Amount: 0.5, Smoothing: 0.3, Enabled: true})
	src := map[SourceID]float64{"lane-1": 1}
	first := m.Resolve(reg, src, frame)[registry.RibbonDriftSpeed]
	if first <= 0.26 || first >= 0.76 {
		t.Fatalf("first frame = %v, want strictly between base and target", first)
	}
	var last float64
	for i := 0; i < 300; i++ {
		last = m.Resolve(reg, src, frame)[registry.RibbonDriftSpeed]
	}
	if math.Abs(last-0.76) > 1e-3 {
		t.Fatalf("settled = %v, want ~0.76", last)
	}
}

func TestResolveClampsSum(t *testing.T) {
	reg := registry.NewDefault()
	m := New()
	m.Add(Route{ID: "a", Source: SourceLFO1, Target: registry.RibbonDriftSpeed, Amount: 1, Enabled: true})
	m.Add(Route{ID: "b", Source: SourceLFO1, Target: registry.RibbonDriftSpeed, Amount: 1, Enabled: true})
	got := m.Resolve(reg, map[SourceID]float64{SourceLFO1: 1}, frame)
	if got[registry.RibbonDriftSpeed] != 1.5 {
		t.Fatalf("drift speed = %v, want clamp to 1.5", got[registry.RibbonDriftSpeed])
	}
	got = m.Resolve(reg, map[SourceID]float64{SourceLFO1: -1}, frame)
	if got[registry.RibbonDriftSpeed] != 0.05 {
		t.Fatalf("drift speed = %v, want clamp to 0.05", got[registry.RibbonDriftSpeed])
	}
}

func TestUnipolarIgnoresNegativeSignal(t *testing.T) {
	reg := registry.NewDefault()
	m := New()
	m.Add(Route{ID: "u", Source: SourceLFO1, Target: registry.BloomIntensity, Amount: 1, Polarity: Unipolar, Enabled: true})
	base, _ := reg.BaseValue(registry.BloomIntensity)
	got := m.Resolve(reg, map[SourceID]float64{SourceLFO1: -0.8}, frame)
	if got[registry.BloomIntensity] != base {
		t.Fatalf("negative unipolar signal moved value to %v", got[registry.BloomIntensity])
	}
	got = m.Resolve(reg, map[SourceID]float64{SourceLFO1: 0.25}, frame)
	if math.Abs(got[registry.BloomIntensity]-(base+0.25)) > 1e-9 {
		t.Fatalf("positive unipolar signal = %v, want %v", got[registry.BloomIntensity], base+0.25)
	}
}

func TestQuantizeSnapsToLevels(t *testing.T) {
	reg := registry.NewDefault()
	m := New()
	// gradient.hueTop spans 360, four steps of 90 degrees.
	m.Add(Route{ID: "q", Source: SourceLFO1, Target: registry.GradientHueTop, Amount: 100, QuantizeSteps: 4, Enabled: true})
	base, _ := reg.BaseValue(registry.GradientHueTop)
	got := m.Resolve(reg, map[SourceID]float64{SourceLFO1: 0.5}, frame)
	if math.Abs(got[registry.GradientHueTop]-(base+90)) > 1e-9 {
		t.Fatalf("hue = %v, want %v", got[registry.GradientHueTop], base+90)
	}
	got = m.Resolve(reg, map[SourceID]float64{SourceLFO1: 0.4}, frame)
	if math.Abs(got[registry.GradientHueTop]-base) > 1e-9 {
		t.Fatalf("hue = %v, want unchanged %v", got[registry.GradientHueTop], base)
	}
}

func TestQuantizeGridKeepsZeroAndClampsToSpan(t *testing.T) {
	cases := []struct{ c, want float64 }{
		{0, 0}, {10, 0}, {-50, -90}, {170, 180}, {900, 360}, {-900, -360},
	}
	for _, c := range cases {
		if got := quantize(c.c, 4, 360); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("quantize(%v) = %v, want %v", c.c, got, c.want)
		}
	}
	if got := quantize(33, 0, 360); got != 33 {
		t.Errorf("continuous route snapped to %v", got)
	}
}

func TestMissingSourceOrTargetContributesNothing(t *testing.T) {
	reg := registry.NewDefault()
	m := New()
	m.Add(Route{ID: "nosrc", Source: "ghost", Target: registry.BloomIntensity, Amount: 1, Enabled: true})
	m.Add(Route{ID: "notgt", Source: SourceLFO1, Target: "nope.none", Amount: 1, Enabled: true})
	got := m.Resolve(reg, map[SourceID]float64{SourceLFO1: 1}, frame)
	want := reg.BaseValues()
	if len(got) != len(want) {
		t.Fatalf("resolved %d targets, want %d", len(got), len(want))
	}
	for id, v := range want {
		if got[id] != v {
			t.Fatalf("%s = %v, want base %v", id, got[id], v)
		}
	}
	if _, ok := got["nope.none"]; ok {
		t.Fatal("unknown target leaked into resolved map")
	}
}

func TestRouteManagement(t *testing.T) {
	m := New()
	if !m.Add(Route{ID: "a", Enabled: true}) {
		t.Fatal("Add rejected a new route")
	}
	if m.Add(Route{ID: "a"}) {
		t.Fatal("Add accepted a duplicate id")
	}
	if m.Add(Route{}) {
		t.Fatal("Add accepted an empty id")
	}
	amt := 0.7
	if !m.Update("a", RoutePatch{Amount: &amt}) {
		t.Fatal("Update rejected a known id")
	}
	if m.Update("zzz", RoutePatch{Amount: &amt}) {
		t.Fatal("Update accepted an unknown id")
	}
	r, _ := m.Get("a")
	if r.Amount != 0.7 || !r.Enabled {
		t.Fatalf("patched route = %+v", r)
	}
	list := m.List()
	list[0].Amount = 99
	if r, _ := m.Get("a"); r.Amount != 0.7 {
		t.Fatal("List returned shared storage")
	}
	m.Set([]Route{{ID: "b"}, {ID: "c"}, {ID: "b"}})
	if len(m.List()) != 2 {
		t.Fatalf("Set kept %d routes, want 2", len(m.List()))
	}
	if m.Remove("a") {
		t.Fatal("Remove found a route replaced by Set")
	}
	if !m.Remove("b") || len(m.List()) != 1 {
		t.Fatal("Remove failed")
	}
}

func TestActiveCountsResolvableRoutes(t *testing.T) {
	reg := registry.NewDefault()
	m := New()
	m.Add(Route{ID: "ok", Source: SourceLFO1, Target: registry.BloomIntensity, Enabled: true})
	m.Add(Route{ID: "off", Source: SourceLFO1, Target: registry.BloomIntensity})
	m.Add(Route{ID: "ghost", Source: "x", Target: registry.BloomIntensity, Enabled: true})
	if n := m.Active(reg, map[SourceID]float64{SourceLFO1: 0}); n != 1 {
		t.Fatalf("Active = %d, want 1", n)
	}
}
