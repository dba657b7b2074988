package main

import "github.com/Drewol/kson-rs-sub000/internal/chart"

// buildDemoChart returns a short, hand-authored chart covering every
// note kind the gameplay core judges: BT chips and holds, FX chips, a
// one-handed laser sweep, and a slam. 120 BPM, 4/4, eight measures.
func buildDemoChart() *chart.Chart {
	const measure = 16 * chart.PPQN / 4 // 4/4 at PPQN=240 -> 960 pulses/measure

	c := &chart.Chart{
		BPM:     []chart.BPMPoint{{Pulse: 0, BPM: 120}},
		TimeSig: []chart.TimeSig{{Measure: 0, Num: 4, Denom: 4}},
	}

	beat := chart.Pulse(chart.PPQN)
	for m := chart.Pulse(0); m < 8; m++ {
		base := m * measure
		c.Notes.BT[0] = append(c.Notes.BT[0], chart.Interval{Pulse: base})
		c.Notes.BT[2] = append(c.Notes.BT[2], chart.Interval{Pulse: base + 2*beat})
	}
	// A two-beat hold on BT_B starting at measure 2.
	c.Notes.BT[1] = append(c.Notes.BT[1], chart.Interval{Pulse: 2 * measure, Length: 2 * beat})
	// FX_L chip on every other measure.
	for m := chart.Pulse(1); m < 8; m += 2 {
		c.Notes.FX[0] = append(c.Notes.FX[0], chart.Interval{Pulse: m * measure})
	}

	// A left-laser sweep from 0 to 1 across measure 4, then a slam back
	// down to 0.5 at the top of measure 5.
	sweepStart := 4 * measure
	half := 0.5
	c.Notes.Laser[0] = append(c.Notes.Laser[0], chart.LaserSection{
		Pulse: sweepStart,
		Wide:  1,
		Points: []chart.GraphPoint{
			{RelPulse: 0, Value: 0},
			{RelPulse: measure, Value: 1, VF: &half}, // sweeps to 1, then slams down to 0.5
		},
	})

	c.Audio = chart.AudioConfig{
		BGMOffsetMs: 0,
		Effects: chart.EffectTable{
			FXDefs: [2][]chart.EffectDef{
				{{Kind: chart.EffectGate, Params: map[string]chart.ParamCurve{
					"wave_length": {Off: 4, On: 4},
					"rate":        {Off: 0, On: 0.7},
					"mix":         {Off: 0, On: 0.8},
				}}},
				{},
			},
			LongEvents: [2][]chart.LongEvent{
				{{Lane: 0, Pulse: 6 * measure, Length: 2 * measure, EffectIndex: 0, Intensity: 1}},
				{},
			},
		},
	}

	c.DurationPulse = 8 * measure
	return c
}
