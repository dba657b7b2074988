package effects

import "github.com/Drewol/kson-rs-sub000/internal/chart"

// bitCrusherFixedDepth is the bit depth BitCrusher quantizes to. The
// chart only authors "reduction" (the sample-and-hold factor) for this
// effect; depth is a fixed characteristic of the effect itself rather
// than a per-chart parameter.
const bitCrusherFixedDepth = 6

// beatMs converts a wave_length-style parameter, authored in units of
// whole beats, to milliseconds at the given BPM. Charts express effect
// timing as beat fractions so the effect stays tempo-synced regardless
// of BPM changes; the graph resolves this to concrete ms once at
// construction time since BPM is fixed for the life of one activation.
func beatMs(beats, bpm float64) float64 {
	if bpm <= 0 {
		bpm = 120
	}
	return beats * 60000.0 / bpm
}

// param reads a named curve-interpolable parameter at intensity x, or
// returns fallback if the effect definition doesn't declare it. Graph
// resolves nodes once at construction using each LongEvent's authored
// Intensity rather than re-evaluating every sample; param_change
// overrides are not applied to the built nodes.
func param(def chart.EffectDef, name string, x, fallback float64) float64 {
	c, ok := def.Params[name]
	if !ok {
		return fallback
	}
	return c.ValueAt(x)
}

// build constructs the concrete DSP node for one EffectDef at the given
// sample rate, BPM, and activation intensity. Unknown kinds degrade to
// NoOp rather than panicking, so a malformed chart never takes down the
// audio thread.
func build(sampleRate int, bpm float64, def chart.EffectDef, intensity float64) Effector {
	x := intensity
	switch def.Kind {
	case chart.EffectRetrigger:
		wl := beatMs(param(def, "wave_length", x, 0.25), bpm)
		rate := float32(param(def, "rate", x, 0.7))
		mix := float32(param(def, "mix", x, 1))
		return NewRetrigger(sampleRate, wl, rate, mix)

	case chart.EffectGate:
		wl := beatMs(param(def, "wave_length", x, 0.25), bpm)
		rate := float32(param(def, "rate", x, 0.5))
		mix := float32(param(def, "mix", x, 1))
		return NewGate(sampleRate, wl, rate, mix)

	case chart.EffectEcho:
		wl := beatMs(param(def, "wave_length", x, 0.5), bpm)
		fb := float32(param(def, "feedback_level", x, 0.35))
		mix := float32(param(def, "mix", x, 0.4))
		return NewEcho(sampleRate, wl, fb, mix)

	case chart.EffectWobble:
		wl := beatMs(param(def, "wave_length", x, 1), bpm)
		lo := param(def, "lo_freq", x, 300)
		hi := param(def, "hi_freq", x, 4000)
		q := param(def, "q", x, 1.4)
		mix := float32(param(def, "mix", x, 1))
		return NewWobble(sampleRate, wl, lo, hi, q, mix)

	case chart.EffectFlanger:
		delay := float32(param(def, "delay", x, 4))
		depth := float32(param(def, "depth", x, 2))
		fb := float32(param(def, "feedback", x, 0.4))
		mix := float32(param(def, "mix", x, 0.5))
		return NewFlanger(sampleRate, delay, depth, fb, mix)

	case chart.EffectPhaser:
		period := beatMs(param(def, "period", x, 2), bpm)
		stages := int(param(def, "stage", x, 6))
		lo := param(def, "lo_freq", x, 200)
		hi := param(def, "hi_freq", x, 2000)
		fb := param(def, "feedback", x, 0.3)
		mix := float32(param(def, "mix", x, 0.5))
		return NewPhaser(sampleRate, period, stages, lo, hi, fb, mix)

	case chart.EffectPitchShift:
		// pitch is in semitones; chunk_size/overlap together size the
		// grain window PitchShift crossfades across.
		semitones := param(def, "pitch", x, -12)
		chunk := param(def, "chunk_size", x, 30)
		overlap := param(def, "overlap", x, 0.5)
		grain := chunk * (1 + overlap)
		mix := float32(param(def, "mix", x, 1))
		return NewPitchShift(sampleRate, semitones, grain, mix)

	case chart.EffectBitCrusher:
		reduction := int(param(def, "reduction", x, 8))
		mix := float32(param(def, "mix", x, 1))
		return NewBitCrusher(sampleRate, reduction, bitCrusherFixedDepth, mix)

	case chart.EffectTapeStop:
		speed := beatMs(param(def, "speed", x, 4), bpm)
		mix := float32(param(def, "mix", x, 1))
		return NewTapeStop(sampleRate, speed, mix)

	case chart.EffectSideChain:
		period := beatMs(param(def, "period", x, 1), bpm)
		ratio := float32(param(def, "ratio", x, 0.6))
		return NewSideChain(sampleRate, period, ratio, 1)

	case chart.EffectHighPassFilter:
		freq := param(def, "freq", x, 800)
		q := param(def, "q", x, 0.7)
		mix := float32(param(def, "mix", x, 1))
		b := NewBiquad(sampleRate, BiquadHighpass, freq, q, 0)
		b.SetMix(mix)
		return b

	case chart.EffectLowPassFilter:
		freq := param(def, "freq", x, 2000)
		q := param(def, "q", x, 0.7)
		mix := float32(param(def, "mix", x, 1))
		b := NewBiquad(sampleRate, BiquadLowpass, freq, q, 0)
		b.SetMix(mix)
		return b

	case chart.EffectPeakingFilter:
		freq := param(def, "freq", x, 1000)
		q := param(def, "q", x, 1.4)
		gain := param(def, "gain", x, 12)
		mix := float32(param(def, "mix", x, 1))
		b := NewBiquad(sampleRate, BiquadPeaking, freq, q, gain)
		b.SetMix(mix)
		return b

	default:
		return NoOp{}
	}
}

// activeNode is one resolved node for a single LongEvent activation,
// with the pulse interval it applies to.
type activeNode struct {
	startPulse chart.Pulse
	endPulse   chart.Pulse
	node       Effector
	laneEvent  chart.LongEvent
}

// Graph assembles per-FX-lane effect chains from a chart's EffectTable,
// built once at chart-load time so the audio thread never constructs a
// node mid-playback. At each tick the gameplay loop tells Graph which
// pulse is current; Graph looks up which node (if any) is active on
// each lane and routes that lane's audio through it.
type Graph struct {
	sampleRate int
	lanes      [2][]activeNode
	bypass     [2]Effector
}

// NewGraph resolves every LongEvent in table into a concrete DSP node,
// using the chart's BPM at each event's start pulse.
func NewGraph(sampleRate int, c *chart.Chart, table chart.EffectTable) *Graph {
	g := &Graph{sampleRate: sampleRate}
	for lane := 0; lane < 2; lane++ {
		g.bypass[lane] = NoOp{}
		for _, ev := range table.LongEvents[lane] {
			defs := table.FXDefs[lane]
			if ev.EffectIndex < 0 || ev.EffectIndex >= len(defs) {
				continue
			}
			bpm := c.BPMAt(ev.Pulse)
			node := build(sampleRate, bpm, defs[ev.EffectIndex], ev.Intensity)
			g.lanes[lane] = append(g.lanes[lane], activeNode{
				startPulse: ev.Pulse,
				endPulse:   ev.Pulse + ev.Length,
				node:       node,
				laneEvent:  ev,
			})
		}
	}
	return g
}

// ActiveNode returns the Effector active on lane at pulse p, or the
// lane's shared bypass NoOp if nothing is active. Intervals within one
// lane never overlap in a well-formed chart, so the first match wins.
func (g *Graph) ActiveNode(lane int, p chart.Pulse) Effector {
	if lane < 0 || lane > 1 {
		return NoOp{}
	}
	for _, n := range g.lanes[lane] {
		if p >= n.startPulse && p < n.endPulse {
			return n.node
		}
	}
	return g.bypass[lane]
}

// Process routes one FX lane's sample pair through whichever node is
// active at pulse p.
func (g *Graph) Process(lane int, p chart.Pulse, l, r float32) (float32, float32) {
	return g.ActiveNode(lane, p).Process(l, r)
}

// Reset clears all resolved nodes' internal state, used when seeking
// or restarting playback so stale delay/filter history doesn't bleed
// into the next pass over the chart.
func (g *Graph) Reset() {
	for lane := range g.lanes {
		for _, n := range g.lanes[lane] {
			n.node.Reset()
		}
	}
}
