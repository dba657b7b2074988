package chart

import "testing"

func singleBPMChart(bpm float64) *Chart {
	return &Chart{
		BPM:     []BPMPoint{{Pulse: 0, BPM: bpm}},
		TimeSig: []TimeSig{{Measure: 0, Num: 4, Denom: 4}},
	}
}

func TestPulseMsRoundTrip(t *testing.T) {
	c := singleBPMChart(120)
	for p := Pulse(0); p <= Pulse(PPQN*64); p += 7 {
		ms := c.PulseToMs(p)
		got := c.MsToPulse(ms)
		if d := got - p; d < -1 || d > 1 {
			t.Fatalf("round trip for pulse %d: got %d (ms=%v)", p, got, ms)
		}
	}
}

func TestPulseMsMonotone(t *testing.T) {
	c := &Chart{BPM: []BPMPoint{
		{Pulse: 0, BPM: 120},
		{Pulse: PPQN * 4, BPM: 180},
		{Pulse: PPQN * 8, BPM: 90},
	}}
	prev := -1.0
	for p := Pulse(0); p <= Pulse(PPQN*16); p++ {
		ms := c.PulseToMs(p)
		if ms < prev {
			t.Fatalf("pulse_to_ms not monotone at pulse %d: %v < %v", p, ms, prev)
		}
		prev = ms
	}
}

func TestMeasurePulseRoundTrip(t *testing.T) {
	c := singleBPMChart(120)
	for m := 0; m < 200; m++ {
		p := c.MeasureToPulse(m)
		got := c.PulseToMeasure(p)
		if got != m {
			t.Fatalf("measure round trip: measure %d -> pulse %d -> measure %d", m, p, got)
		}
	}
}

func TestMeasurePulseRoundTripChangingTimeSig(t *testing.T) {
	c := singleBPMChart(120)
	c.TimeSig = []TimeSig{
		{Measure: 0, Num: 4, Denom: 4},
		{Measure: 8, Num: 3, Denom: 4},
		{Measure: 16, Num: 7, Denom: 8},
	}
	for m := 0; m < 40; m++ {
		p := c.MeasureToPulse(m)
		if got := c.PulseToMeasure(p); got != m {
			t.Fatalf("measure round trip: measure %d -> pulse %d -> measure %d", m, p, got)
		}
	}
}

func TestBPMAt(t *testing.T) {
	c := &Chart{BPM: []BPMPoint{
		{Pulse: 0, BPM: 120},
		{Pulse: 480, BPM: 200},
	}}
	cases := []struct {
		p    Pulse
		want float64
	}{
		{0, 120}, {479, 120}, {480, 200}, {10000, 200},
	}
	for _, tc := range cases {
		if got := c.BPMAt(tc.p); got != tc.want {
			t.Errorf("BPMAt(%d) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestGraphLinearMonotone(t *testing.T) {
	g := &Graph{Points: []GraphPoint{
		{RelPulse: 0, Value: 0, CurveA: 0.5, CurveB: 0.5},
		{RelPulse: PPQN, Value: 1, CurveA: 0.5, CurveB: 0.5},
	}}
	prev := -1.0
	for p := Pulse(0); p <= PPQN; p += 4 {
		v := g.ValueAt(p)
		if v < prev {
			t.Fatalf("graph not monotone at pulse %d: %v < %v", p, v, prev)
		}
		prev = v
	}
	if v := g.ValueAt(PPQN / 2); v < 0.49 || v > 0.51 {
		t.Fatalf("expected ~0.5 at halfway, got %v", v)
	}
}

func TestLaserSectionSlamTrailingValue(t *testing.T) {
	vf := 1.0
	sec := &LaserSection{
		Pulse: 100,
		Points: []GraphPoint{
			{RelPulse: 0, Value: 0, VF: &vf},
		},
	}
	if got := sec.ValueAt(500); got != 1.0 {
		t.Fatalf("expected trailing slam value 1.0, got %v", got)
	}
}

func TestLaserSectionThreshold(t *testing.T) {
	vf1 := 1.0
	sec := &LaserSection{
		Pulse: 0,
		Points: []GraphPoint{
			{RelPulse: 0, Value: 0},
			{RelPulse: PPQN, Value: 1, VF: &vf1},
		},
	}
	pos := sec.ValueAt(PPQN / 2)
	if pos < 0.49 || pos > 0.51 {
		t.Fatalf("expected ~0.5 at half beat, got %v", pos)
	}
}

func TestValidateRejectsNonMonotonicIntervals(t *testing.T) {
	c := singleBPMChart(120)
	c.Notes.BT[0] = []Interval{{Pulse: 100}, {Pulse: 50}}
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for non-monotonic BT lane")
	}
}

func TestValidateRejectsEmptyLaserSection(t *testing.T) {
	c := singleBPMChart(120)
	c.Notes.Laser[0] = []LaserSection{{Pulse: 0, Points: nil}}
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for empty laser section")
	}
}

func TestHashStable(t *testing.T) {
	c := singleBPMChart(120)
	c.Notes.BT[0] = []Interval{{Pulse: 240}}
	h1 := c.Hash()
	h2 := c.Hash()
	if h1 != h2 {
		t.Fatalf("hash not stable: %s vs %s", h1, h2)
	}
	c.Notes.BT[0] = append(c.Notes.BT[0], Interval{Pulse: 480})
	if h3 := c.Hash(); h3 == h1 {
		t.Fatal("hash did not change after chart mutation")
	}
}
