package effects

// Retrigger implements the "Retrigger" effect: captures a short
// slice of the input once, then loops that slice repeatedly for as
// long as the effect stays active, the classic "stutter" gate effect.
// rate controls how much of each wave_length-sized cycle is spent
// capturing fresh audio versus replaying the captured slice.
type Retrigger struct {
	bufL, bufR   []float32
	captureLen   int
	writePos     int
	readPos      int
	capturing    bool
	cycleSamples int
	cyclePos     int
	mix          float32
}

// NewRetrigger creates a Retrigger effect. waveLengthMs is the
// resolved beat-fraction slice length; rate in (0,1] sets what fraction
// of each wave_length is (re)captured before looping the rest.
func NewRetrigger(sampleRate int, waveLengthMs float64, rate float32, mix float32) *Retrigger {
	cycle := int(waveLengthMs * float64(sampleRate) / 1000.0)
	if cycle < 1 {
		cycle = 1
	}
	rate = clamp(rate, 0.05, 1)
	capture := int(float32(cycle) * rate)
	if capture < 1 {
		capture = 1
	}
	return &Retrigger{
		bufL:         make([]float32, capture),
		bufR:         make([]float32, capture),
		captureLen:   capture,
		cycleSamples: cycle,
		capturing:    true,
		mix:          clamp(mix, 0, 1),
	}
}

func (rt *Retrigger) Process(l, r float32) (float32, float32) {
	if rt.capturing {
		rt.bufL[rt.writePos] = l
		rt.bufR[rt.writePos] = r
		rt.writePos++
		if rt.writePos >= rt.captureLen {
			rt.capturing = false
			rt.writePos = 0
			rt.readPos = 0
		}
	}

	wetL, wetR := rt.bufL[rt.readPos], rt.bufR[rt.readPos]
	rt.readPos++
	if rt.readPos >= rt.captureLen {
		rt.readPos = 0
	}

	rt.cyclePos++
	if rt.cyclePos >= rt.cycleSamples {
		rt.cyclePos = 0
		rt.capturing = true
		rt.writePos = 0
	}

	return l*(1-rt.mix) + wetL*rt.mix, r*(1-rt.mix) + wetR*rt.mix
}

func (rt *Retrigger) Reset() {
	for i := range rt.bufL {
		rt.bufL[i], rt.bufR[i] = 0, 0
	}
	rt.writePos, rt.readPos, rt.cyclePos = 0, 0, 0
	rt.capturing = true
}
