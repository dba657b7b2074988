package effects

// TapeStop implements the "TapeStop" effect: playback speed
// ramps from normal down to a stop across the interval's duration, like
// a turntable losing power. Implemented as a variable-rate read head
// over a short rolling capture buffer, mirroring the fractional-delay
// read technique Chorus uses, but with a decaying rate instead of an
// oscillating one.
type TapeStop struct {
	buf        []float32
	bufR       []float32
	writePos   int
	readPos    float64
	speed      float64
	decayTotal int
	elapsed    int
	mix        float32
	stopped    bool
}

// NewTapeStop creates a TapeStop effect. speedMs is the resolved
// duration over which playback speed decays from 1.0 to 0.
func NewTapeStop(sampleRate int, speedMs float64, mix float32) *TapeStop {
	decay := int(speedMs * float64(sampleRate) / 1000.0)
	if decay < 1 {
		decay = 1
	}
	bufLen := sampleRate / 4
	if bufLen < 256 {
		bufLen = 256
	}
	return &TapeStop{
		buf:        make([]float32, bufLen),
		bufR:       make([]float32, bufLen),
		speed:      1,
		decayTotal: decay,
		mix:        clamp(mix, 0, 1),
	}
}

func (t *TapeStop) Process(l, r float32) (float32, float32) {
	n := len(t.buf)
	t.buf[t.writePos] = l
	t.bufR[t.writePos] = r
	t.writePos++
	if t.writePos >= n {
		t.writePos = 0
	}

	if !t.stopped {
		t.elapsed++
		progress := float64(t.elapsed) / float64(t.decayTotal)
		if progress >= 1 {
			t.speed = 0
			t.stopped = true
		} else {
			t.speed = 1 - progress
		}
	}

	idx := int(t.readPos)
	frac := t.readPos - float64(idx)
	idx2 := idx + 1
	if idx2 >= n {
		idx2 = 0
	}
	wetL := t.buf[idx]*(1-float32(frac)) + t.buf[idx2]*float32(frac)
	wetR := t.bufR[idx]*(1-float32(frac)) + t.bufR[idx2]*float32(frac)

	t.readPos += t.speed
	for t.readPos >= float64(n) {
		t.readPos -= float64(n)
	}
	// Keep the read head trailing the write head rather than racing
	// past it once speed drops near zero.
	gap := float64(t.writePos) - t.readPos
	if gap < 0 {
		gap += float64(n)
	}
	if gap > float64(n)/2 {
		t.readPos = float64(t.writePos) - float64(n)/2
		if t.readPos < 0 {
			t.readPos += float64(n)
		}
	}

	return l*(1-t.mix) + wetL*t.mix, r*(1-t.mix) + wetR*t.mix
}

func (t *TapeStop) Reset() {
	for i := range t.buf {
		t.buf[i], t.bufR[i] = 0, 0
	}
	t.writePos = 0
	t.readPos = 0
	t.speed = 1
	t.elapsed = 0
	t.stopped = false
}
