package effects

import (
	"testing"

	"github.com/Drewol/kson-rs-sub000/internal/chart"
)

func testChart() *chart.Chart {
	return &chart.Chart{
		BPM:           []chart.BPMPoint{{Pulse: 0, BPM: 120}},
		TimeSig:       []chart.TimeSig{{Measure: 0, Num: 4, Denom: 4}},
		DurationPulse: chart.PPQN * 32,
	}
}

func TestGraphResolvesActiveNodeWithinInterval(t *testing.T) {
	c := testChart()
	table := chart.EffectTable{
		FXDefs: [2][]chart.EffectDef{
			{{Kind: chart.EffectGate, Params: map[string]chart.ParamCurve{
				"wave_length": {Off: 0.25, On: 0.25},
				"rate":        {Off: 0.5, On: 0.5},
				"mix":         {Off: 1, On: 1},
			}}},
			{},
		},
		LongEvents: [2][]chart.LongEvent{
			{{Lane: 0, Pulse: 0, Length: chart.PPQN * 4, EffectIndex: 0, Intensity: 1}},
			{},
		},
	}
	g := NewGraph(44100, c, table)

	if _, ok := g.ActiveNode(0, 10).(*Gate); !ok {
		t.Errorf("expected Gate active within the long event's interval, got %T", g.ActiveNode(0, 10))
	}
	if _, ok := g.ActiveNode(0, chart.PPQN*10).(NoOp); !ok {
		t.Errorf("expected NoOp bypass past the long event's end, got %T", g.ActiveNode(0, chart.PPQN*10))
	}
	if _, ok := g.ActiveNode(1, 10).(NoOp); !ok {
		t.Error("expected lane 1 to stay bypassed when it has no long events")
	}
}

func TestGraphBuildFallsBackToNoOpOnUnknownKind(t *testing.T) {
	def := chart.EffectDef{Kind: chart.EffectKind(999)}
	node := build(44100, 120, def, 1)
	if _, ok := node.(NoOp); !ok {
		t.Errorf("expected unknown effect kind to degrade to NoOp, got %T", node)
	}
}

func TestGraphProcessRoutesThroughActiveNode(t *testing.T) {
	c := testChart()
	table := chart.EffectTable{
		FXDefs: [2][]chart.EffectDef{
			{{Kind: chart.EffectLowPassFilter, Params: map[string]chart.ParamCurve{
				"freq": {Off: 200, On: 200},
				"q":    {Off: 0.707, On: 0.707},
				"mix":  {Off: 1, On: 1},
			}}},
			{},
		},
		LongEvents: [2][]chart.LongEvent{
			{{Lane: 0, Pulse: 0, Length: chart.PPQN * 4, EffectIndex: 0, Intensity: 1}},
			{},
		},
	}
	g := NewGraph(44100, c, table)
	l, r := g.Process(0, 10, 1, 1)
	if l == 1 || r == 1 {
		t.Error("expected lowpass filter to alter an impulse sample")
	}
}

func TestParamCurveFallsBackWhenParamMissing(t *testing.T) {
	def := chart.EffectDef{Kind: chart.EffectGate}
	if v := param(def, "rate", 1, 0.5); v != 0.5 {
		t.Errorf("expected fallback value when parameter absent, got %f", v)
	}
}
