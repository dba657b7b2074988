package effects

// flangerLFOHz is the fixed sweep rate for the Flanger effect. Its
// chart-authored parameters (delay, depth, feedback, mix) don't name a
// rate; a flanger sweeps slowly and continuously rather than
// tempo-synced, so one fixed rate is used rather than inventing a
// wave_length parameter the chart data doesn't carry for this effect.
const flangerLFOHz = 0.2

// Flanger is a short modulated delay with feedback, built on the same
// fractional-delay line as Chorus.
type Flanger struct {
	*Chorus
}

// NewFlanger creates a Flanger. delayMs and depthMs are both typically
// under ~10ms (short delay is what makes it a flanger rather than a
// chorus).
func NewFlanger(sampleRate int, delayMs, depthMs, feedback, mix float32) *Flanger {
	return &Flanger{Chorus: NewChorus(sampleRate, delayMs, feedback, depthMs, flangerLFOHz, mix)}
}
