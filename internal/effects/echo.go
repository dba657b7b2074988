package effects

// Echo is the "Echo" effect: a tempo-synced delay line whose
// time is derived from a beat-fraction wave_length rather than a fixed
// millisecond value. Built on the same delay line as Delay.
type Echo struct {
	*Delay
}

// NewEcho creates an Echo effect. delayMs is the resolved wave_length
// (beat fraction converted to ms by the caller using the chart's BPM
// at the interval's start — see beatMs).
func NewEcho(sampleRate int, delayMs float64, feedbackLevel, mix float32) *Echo {
	return &Echo{Delay: NewDelay(sampleRate, delayMs, feedbackLevel, 0, mix)}
}
