package effects

// Gate implements the "Gate" effect: a rhythmic on/off amplitude
// gate synced to wave_length, with a duty cycle set by rate.
type Gate struct {
	periodSamples int
	onSamples     int
	pos           int
	mix           float32
}

// NewGate creates a Gate effect. periodMs is the resolved wave_length;
// rate in [0,1] is the fraction of the period the gate stays open.
func NewGate(sampleRate int, periodMs float64, rate float32, mix float32) *Gate {
	period := int(periodMs * float64(sampleRate) / 1000.0)
	if period < 1 {
		period = 1
	}
	rate = clamp(rate, 0.01, 1)
	return &Gate{
		periodSamples: period,
		onSamples:     int(float32(period) * rate),
		mix:           clamp(mix, 0, 1),
	}
}

func (g *Gate) Process(l, r float32) (float32, float32) {
	open := g.pos < g.onSamples
	g.pos++
	if g.pos >= g.periodSamples {
		g.pos = 0
	}
	if open {
		return l, r
	}
	return l * (1 - g.mix), r * (1 - g.mix)
}

func (g *Gate) Reset() { g.pos = 0 }
