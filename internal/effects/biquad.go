package effects

import "math"

// BiquadKind selects the RBJ cookbook formula a Biquad uses.
type BiquadKind int

const (
	BiquadLowpass BiquadKind = iota
	BiquadHighpass
	BiquadPeaking
)

// Biquad is a single second-order IIR filter (Robert Bristow-Johnson's
// "Audio EQ Cookbook" coefficients), used both as a per-interval
// High/Low/Peaking-filter effect node and as the laser-driven peaking
// filter in package filter.
type Biquad struct {
	kind BiquadKind

	b0, b1, b2 float64
	a1, a2     float64

	x1L, x2L, y1L, y2L float64
	x1R, x2R, y1R, y2R float64

	sampleRate float64
	mix        float32
}

// NewBiquad creates a biquad with the given kind and initial tuning.
// gainDB only matters for BiquadPeaking.
func NewBiquad(sampleRate int, kind BiquadKind, freq, q, gainDB float64) *Biquad {
	b := &Biquad{kind: kind, sampleRate: float64(sampleRate), mix: 1}
	b.SetParams(freq, q, gainDB)
	return b
}

// SetParams retunes the filter's coefficients in place — no allocation,
// safe to call from the audio thread once per buffer.
func (b *Biquad) SetParams(freq, q, gainDB float64) {
	if freq <= 0 {
		freq = 20
	}
	if freq > b.sampleRate/2-1 {
		freq = b.sampleRate/2 - 1
	}
	if q <= 0 {
		q = 0.707
	}
	w0 := 2 * math.Pi * freq / b.sampleRate
	cosw0 := math.Cos(w0)
	sinw0 := math.Sin(w0)
	alpha := sinw0 / (2 * q)

	var b0, b1, b2, a0, a1, a2 float64
	switch b.kind {
	case BiquadHighpass:
		b0 = (1 + cosw0) / 2
		b1 = -(1 + cosw0)
		b2 = (1 + cosw0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosw0
		a2 = 1 - alpha
	case BiquadPeaking:
		A := math.Pow(10, gainDB/40)
		b0 = 1 + alpha*A
		b1 = -2 * cosw0
		b2 = 1 - alpha*A
		a0 = 1 + alpha/A
		a1 = -2 * cosw0
		a2 = 1 - alpha/A
	default: // BiquadLowpass
		b0 = (1 - cosw0) / 2
		b1 = 1 - cosw0
		b2 = (1 - cosw0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosw0
		a2 = 1 - alpha
	}
	b.b0, b.b1, b.b2 = b0/a0, b1/a0, b2/a0
	b.a1, b.a2 = a1/a0, a2/a0
}

// SetMix sets the wet/dry balance (0 = bypass, 1 = fully wet).
func (b *Biquad) SetMix(mix float32) {
	b.mix = clamp(mix, 0, 1)
}

func (b *Biquad) Process(l, r float32) (float32, float32) {
	if b.mix <= 0 {
		return l, r
	}
	xl, xr := float64(l), float64(r)
	yl := b.b0*xl + b.b1*b.x1L + b.b2*b.x2L - b.a1*b.y1L - b.a2*b.y2L
	yr := b.b0*xr + b.b1*b.x1R + b.b2*b.x2R - b.a1*b.y1R - b.a2*b.y2R
	b.x2L, b.x1L = b.x1L, xl
	b.y2L, b.y1L = b.y1L, yl
	b.x2R, b.x1R = b.x1R, xr
	b.y2R, b.y1R = b.y1R, yr

	outL := float32(yl)
	outR := float32(yr)
	return l + (outL-l)*b.mix, r + (outR-r)*b.mix
}

func (b *Biquad) Reset() {
	b.x1L, b.x2L, b.y1L, b.y2L = 0, 0, 0, 0
	b.x1R, b.x2R, b.y1R, b.y2R = 0, 0, 0, 0
}
