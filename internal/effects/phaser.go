package effects

import "math"

// phaserStage is one first-order allpass stage.
type phaserStage struct {
	a        float64
	x1L, y1L float64
	x1R, y1R float64
}

func (s *phaserStage) process(xl, xr float64) (float64, float64) {
	yl := -s.a*xl + s.x1L + s.a*s.y1L
	yr := -s.a*xr + s.x1R + s.a*s.y1R
	s.x1L, s.y1L = xl, yl
	s.x1R, s.y1R = xr, yr
	return yl, yr
}

// Phaser implements the "Phaser" effect: a cascade of
// first-order allpass stages whose breakpoint frequency sweeps between
// lo_freq and hi_freq once per period, with feedback around the whole
// cascade.
type Phaser struct {
	sampleRate   float64
	lo, hi       float64
	stages       []phaserStage
	cycleSamples int
	pos          int
	feedback     float64
	fbL, fbR     float64
	mix          float32
}

// NewPhaser creates a Phaser. periodMs is the resolved LFO period;
// stageCount is the number of allpass stages (commonly 4-12).
func NewPhaser(sampleRate int, periodMs float64, stageCount int, loFreq, hiFreq, feedback float64, mix float32) *Phaser {
	if stageCount < 1 {
		stageCount = 4
	}
	cycle := int(periodMs * float64(sampleRate) / 1000.0)
	if cycle < 1 {
		cycle = 1
	}
	return &Phaser{
		sampleRate:   float64(sampleRate),
		lo:           loFreq,
		hi:           hiFreq,
		stages:       make([]phaserStage, stageCount),
		cycleSamples: cycle,
		feedback:     float64(clamp(float32(feedback), 0, 0.95)),
		mix:          clamp(mix, 0, 1),
	}
}

func (p *Phaser) Process(l, r float32) (float32, float32) {
	phase := float64(p.pos) / float64(p.cycleSamples)
	p.pos++
	if p.pos >= p.cycleSamples {
		p.pos = 0
	}
	sweep := (math.Sin(2*math.Pi*phase) + 1) / 2
	freq := p.lo + (p.hi-p.lo)*sweep
	tan := math.Tan(math.Pi * freq / p.sampleRate)
	a := (tan - 1) / (tan + 1)
	for i := range p.stages {
		p.stages[i].a = a
	}

	xl := float64(l) + p.fbL*p.feedback
	xr := float64(r) + p.fbR*p.feedback
	for i := range p.stages {
		xl, xr = p.stages[i].process(xl, xr)
	}
	p.fbL, p.fbR = xl, xr

	return l*(1-p.mix) + float32(xl)*p.mix, r*(1-p.mix) + float32(xr)*p.mix
}

func (p *Phaser) Reset() {
	for i := range p.stages {
		p.stages[i] = phaserStage{}
	}
	p.fbL, p.fbR, p.pos = 0, 0, 0
}
