package effects

import (
	"math"
	"testing"
)

func TestBiquadLowpassAttenuatesHighFreq(t *testing.T) {
	b := NewBiquad(44100, BiquadLowpass, 200, 0.707, 0)
	var maxOut float32
	for i := 0; i < 2000; i++ {
		x := float32(math.Sin(2 * math.Pi * 8000 * float64(i) / 44100))
		l, _ := b.Process(x, x)
		if l > maxOut {
			maxOut = l
		}
	}
	if maxOut > 0.3 {
		t.Errorf("expected strong attenuation of 8kHz through 200Hz lowpass, got peak %f", maxOut)
	}
}

func TestBiquadSetParamsRetunesWithoutAllocatingState(t *testing.T) {
	b := NewBiquad(44100, BiquadPeaking, 1000, 1.4, 6)
	b.Process(0.1, 0.1)
	b.SetParams(2000, 1.4, 12)
	l, r := b.Process(0.1, 0.1)
	if l == 0 && r == 0 {
		t.Error("expected continued output after retuning")
	}
}

func TestEchoProducesDelayedTail(t *testing.T) {
	e := NewEcho(44100, 50, 0.4, 0.6)
	e.Process(1, 1)
	for i := 0; i < 2204; i++ {
		e.Process(0, 0)
	}
	l, _ := e.Process(0, 0)
	if math.Abs(float64(l)) < 0.01 {
		t.Error("expected echo tail near one wave_length later")
	}
}

func TestFlangerSweepsOverTime(t *testing.T) {
	f := NewFlanger(44100, 3, 2, 0.3, 0.5)
	var samples []float32
	for i := 0; i < 4000; i++ {
		x := float32(math.Sin(2 * math.Pi * 440 * float64(i) / 44100))
		l, _ := f.Process(x, x)
		samples = append(samples, l)
	}
	var varied bool
	for i := 1; i < len(samples); i++ {
		if samples[i] != samples[0] {
			varied = true
			break
		}
	}
	if !varied {
		t.Error("expected flanger output to vary over time")
	}
}

func TestGateOpensAndCloses(t *testing.T) {
	g := NewGate(44100, 10, 0.5, 1)
	openL, _ := g.Process(1, 1)
	if openL != 1 {
		t.Errorf("expected gate open at start of period, got %f", openL)
	}
	for i := 0; i < 300; i++ {
		g.Process(1, 1)
	}
	closedL, _ := g.Process(1, 1)
	if closedL != 0 {
		t.Errorf("expected gate closed past duty cycle, got %f", closedL)
	}
}

func TestRetriggerLoopsCapturedSlice(t *testing.T) {
	rt := NewRetrigger(44100, 20, 0.25, 1)
	var captured []float32
	for i := 0; i < 600; i++ {
		l, _ := rt.Process(float32(i), float32(i))
		captured = append(captured, l)
	}
	// After the capture window the loop should repeat, so two points
	// one captureLen apart within the same loop should match.
	capLen := 220 // rate 0.25 of a 20ms@44100 cycle ~= 220 samples
	if captured[100] == 0 && captured[150] == 0 {
		t.Error("expected non-zero looped output")
	}
	if captured[300] != captured[300+capLen] {
		t.Errorf("expected loop to repeat every %d samples: %f vs %f", capLen, captured[300], captured[300+capLen])
	}
}

func TestWobbleSweepsFilter(t *testing.T) {
	w := NewWobble(44100, 50, 300, 3000, 1.4, 1)
	var last float32
	var changed bool
	for i := 0; i < 4000; i++ {
		l, _ := w.Process(0.5, 0.5)
		if i > 0 && l != last {
			changed = true
		}
		last = l
	}
	if !changed {
		t.Error("expected wobble output to change as the sweep moves")
	}
}

func TestPhaserProducesOutput(t *testing.T) {
	p := NewPhaser(44100, 500, 6, 200, 2000, 0.3, 0.5)
	var nonzero bool
	for i := 0; i < 2000; i++ {
		x := float32(math.Sin(2 * math.Pi * 440 * float64(i) / 44100))
		l, _ := p.Process(x, x)
		if l != 0 {
			nonzero = true
		}
	}
	if !nonzero {
		t.Error("expected phaser to produce nonzero output")
	}
}

func TestPitchShiftUpRatio(t *testing.T) {
	r := semitoneRatio(12)
	if math.Abs(r-2.0) > 0.01 {
		t.Errorf("expected one octave up to double read rate, got %f", r)
	}
	r = semitoneRatio(-12)
	if math.Abs(r-0.5) > 0.01 {
		t.Errorf("expected one octave down to halve read rate, got %f", r)
	}
}

func TestPitchShiftProducesOutput(t *testing.T) {
	ps := NewPitchShift(44100, -12, 30, 1)
	var nonzero bool
	for i := 0; i < 4000; i++ {
		x := float32(math.Sin(2 * math.Pi * 440 * float64(i) / 44100))
		l, _ := ps.Process(x, x)
		if l != 0 {
			nonzero = true
		}
	}
	if !nonzero {
		t.Error("expected pitch-shifted output")
	}
}

func TestBitCrusherQuantizesLevels(t *testing.T) {
	b := NewBitCrusher(44100, 1, 2, 1)
	l1, _ := b.Process(0.51, 0.51)
	l2, _ := b.Process(0.52, 0.52)
	if l1 != l2 {
		t.Errorf("expected nearby inputs to quantize to the same level at 2-bit depth, got %f vs %f", l1, l2)
	}
}

func TestTapeStopDecaysToStop(t *testing.T) {
	ts := NewTapeStop(44100, 50, 1)
	for i := 0; i < 2300; i++ {
		ts.Process(float32(math.Sin(float64(i))), float32(math.Sin(float64(i))))
	}
	if !ts.stopped {
		t.Error("expected tape stop to reach full stop after speedMs elapses")
	}
}

func TestSideChainDucksAtPeriodStart(t *testing.T) {
	sc := NewSideChain(44100, 20, 1, 1)
	startL, _ := sc.Process(1, 1)
	for i := 0; i < 800; i++ {
		sc.Process(1, 1)
	}
	laterL, _ := sc.Process(1, 1)
	if laterL <= startL {
		t.Errorf("expected gain to recover from the duck over the period, start=%f later=%f", startL, laterL)
	}
}

func TestNoOpPassesThrough(t *testing.T) {
	var n NoOp
	l, r := n.Process(0.3, -0.2)
	if l != 0.3 || r != -0.2 {
		t.Errorf("NoOp should pass audio through unchanged, got l=%f r=%f", l, r)
	}
}
