package effects

import "math"

// PitchShift implements the "PitchShift" effect: a simple
// granular re-pitcher. Two overlapping read heads scan a capture
// buffer at a rate derived from the semitone shift, crossfading
// between them to hide the seams left when a head wraps.
type PitchShift struct {
	buf        []float32
	bufR       []float32
	writePos   int
	readPosA   float64
	readPosB   float64
	ratio      float64
	grainLen   float64
	mix        float32
}

// NewPitchShift creates a PitchShift effect. semitones may be positive
// (shift up) or negative (shift down); grainMs sizes the overlap
// window used to mask the read-head wraparound.
func NewPitchShift(sampleRate int, semitones float64, grainMs float64, mix float32) *PitchShift {
	ratio := semitoneRatio(semitones)
	grain := grainMs * float64(sampleRate) / 1000.0
	if grain < 64 {
		grain = 64
	}
	bufLen := int(grain) * 3
	return &PitchShift{
		buf:      make([]float32, bufLen),
		bufR:     make([]float32, bufLen),
		ratio:    ratio,
		grainLen: grain,
		readPosB: grain / 2,
		mix:      clamp(mix, 0, 1),
	}
}

func semitoneRatio(semitones float64) float64 {
	return math.Exp2(semitones / 12.0)
}

func (p *PitchShift) Process(l, r float32) (float32, float32) {
	n := len(p.buf)
	p.buf[p.writePos] = l
	p.bufR[p.writePos] = r
	p.writePos++
	if p.writePos >= n {
		p.writePos = 0
	}

	aL, aR := p.readInterp(p.readPosA)
	bL, bR := p.readInterp(p.readPosB)

	fadeA := triangleWindow(p.readPosA, p.grainLen, float64(p.writePos), float64(n))
	fadeB := triangleWindow(p.readPosB, p.grainLen, float64(p.writePos), float64(n))
	sum := fadeA + fadeB
	if sum < 1e-6 {
		sum = 1
	}

	wetL := float32((aL*fadeA + bL*fadeB) / sum)
	wetR := float32((aR*fadeA + bR*fadeB) / sum)

	p.readPosA += p.ratio
	p.readPosB += p.ratio
	if p.readPosA >= float64(n) {
		p.readPosA -= float64(n)
	}
	if p.readPosB >= float64(n) {
		p.readPosB -= float64(n)
	}

	return l*(1-p.mix) + wetL*p.mix, r*(1-p.mix) + wetR*p.mix
}

func (p *PitchShift) readInterp(pos float64) (float64, float64) {
	n := len(p.buf)
	idx := int(pos)
	frac := pos - float64(idx)
	idx2 := idx + 1
	if idx2 >= n {
		idx2 = 0
	}
	l := float64(p.buf[idx])*(1-frac) + float64(p.buf[idx2])*frac
	r := float64(p.bufR[idx])*(1-frac) + float64(p.bufR[idx2])*frac
	return l, r
}

// triangleWindow returns a 0..1 envelope for a read head based on its
// distance from the write head, modulo the buffer length, peaking at
// grainLen/2 away and fading to 0 at the write head itself.
func triangleWindow(readPos, grainLen, writePos, bufLen float64) float64 {
	d := writePos - readPos
	if d < 0 {
		d += bufLen
	}
	half := grainLen / 2
	if half <= 0 {
		return 1
	}
	w := d / half
	if w > 2 {
		w = 2
	}
	if w <= 1 {
		return w
	}
	return 2 - w
}

func (p *PitchShift) Reset() {
	for i := range p.buf {
		p.buf[i], p.bufR[i] = 0, 0
	}
	p.writePos = 0
	p.readPosA = 0
	p.readPosB = p.grainLen / 2
}
