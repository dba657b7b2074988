// Package filter implements the laser-controlled master filter: a
// single peaking biquad whose frequency and mix continuously track the
// current laser cursor positions, using the same tick-driven
// coefficient retuning style as the effects package's biquad (see
// SetParams in internal/effects/biquad.go) but with the chart's laser tracker as
// the control source instead of a static config value.
package filter

import "math"

// Q is the fixed resonance the laser filter always runs at.
const Q = math.Sqrt2

// GainDB is the fixed peaking boost/cut applied while the filter is
// active.
const GainDB = 10

const (
	freqLo = 80.0
	freqHi = 8000.0
)

// Biquad is the minimal surface FilterController needs from
// effects.Biquad; satisfied by *effects.Biquad without this package
// importing effects, keeping the laser-tracking control loop
// independent of the concrete DSP node it drives.
type Biquad interface {
	SetParams(freq, q, gainDB float64)
	SetMix(mix float32)
}

// Controller re-tunes a single biquad each tick from the two laser
// cursor targets, using a fixed formula:
//
//	f = max(L, 1-R)          (0 if both lasers are inactive)
//	frequency = 80 * (8000/80)^f
//	Q = sqrt(2), gain = 10dB
//	mix = (1 - |f-0.5| * 1.99)^0.1, or 0 if both lasers inactive
type Controller struct {
	target Biquad
}

// NewController binds a Controller to the biquad it will drive. The
// biquad is constructed once at chart-load time (by the audio backend)
// and handed in here; Controller never allocates.
func NewController(target Biquad) *Controller {
	return &Controller{target: target}
}

// Update computes f from the laser cursor targets and retunes the
// bound biquad. left/right are laser cursor values in [0,1]; activeL/
// activeR report whether each laser currently has a target. A laser
// with no active section contributes 0 to its term of f; if both are
// inactive the filter is fully bypassed regardless of f.
func (c *Controller) Update(left, right float64, activeL, activeR bool) {
	lTerm := 0.0
	if activeL {
		lTerm = left
	}
	rTerm := 0.0
	if activeR {
		rTerm = 1 - right
	}
	f := lTerm
	if rTerm > f {
		f = rTerm
	}

	freq := freqLo * math.Pow(freqHi/freqLo, f)
	c.target.SetParams(freq, Q, GainDB)

	if !activeL && !activeR {
		c.target.SetMix(0)
		return
	}
	mix := math.Pow(1-math.Abs(f-0.5)*1.99, 0.1)
	c.target.SetMix(float32(mix))
}
