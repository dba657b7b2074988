package effects

import "math"

// Wobble implements the "Wobble" effect: a resonant bandpass
// whose cutoff sweeps between lo_freq and hi_freq once per
// wave_length, the classic dubstep-style filter wobble. The bandpass
// is built from two cascaded one-pole lowpass stages (matching the
// same RC-filter technique internal/fm/engine.go uses for its own
// filterBP mode), rather than a full biquad, since q here only shapes
// the steepness of that cascade, not a precise resonance peak.
type Wobble struct {
	sampleRate   float64
	lo, hi       float64
	q            float64
	cycleSamples int
	pos          int
	mix          float32

	lpL, bpL float64
	lpR, bpR float64
}

// NewWobble creates a Wobble effect. waveLengthMs is the resolved
// sweep period; loFreq/hiFreq bound the sweep in Hz.
func NewWobble(sampleRate int, waveLengthMs, loFreq, hiFreq, q float64, mix float32) *Wobble {
	cycle := int(waveLengthMs * float64(sampleRate) / 1000.0)
	if cycle < 1 {
		cycle = 1
	}
	if q <= 0 {
		q = 1
	}
	return &Wobble{
		sampleRate:   float64(sampleRate),
		lo:           loFreq,
		hi:           hiFreq,
		q:            q,
		cycleSamples: cycle,
		mix:          clamp(mix, 0, 1),
	}
}

func (w *Wobble) Process(l, r float32) (float32, float32) {
	phase := float64(w.pos) / float64(w.cycleSamples)
	w.pos++
	if w.pos >= w.cycleSamples {
		w.pos = 0
	}
	// Triangle sweep: 0 -> 1 -> 0 across the cycle.
	tri := phase * 2
	if tri > 1 {
		tri = 2 - tri
	}
	freq := w.lo + (w.hi-w.lo)*tri
	rc := 1.0 / (2.0 * math.Pi * freq)
	dt := 1.0 / w.sampleRate
	alpha := dt / (rc + dt*w.q)

	w.lpL += alpha * (float64(l) - w.lpL)
	w.bpL += alpha * (w.lpL - w.bpL)
	wetL := w.lpL - w.bpL

	w.lpR += alpha * (float64(r) - w.lpR)
	w.bpR += alpha * (w.lpR - w.bpR)
	wetR := w.lpR - w.bpR

	return l*(1-w.mix) + float32(wetL)*w.mix, r*(1-w.mix) + float32(wetR)*w.mix
}

func (w *Wobble) Reset() {
	w.lpL, w.bpL, w.lpR, w.bpR = 0, 0, 0, 0
	w.pos = 0
}
