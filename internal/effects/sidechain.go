package effects

// SideChain implements the "SideChain" effect: a rhythmic
// ducking envelope, as if the master bus were being pumped by a kick
// drum once per period. Unlike Compressor, the trigger here is the
// chart's own beat-fraction period, not signal level.
type SideChain struct {
	periodSamples  int
	attackSamples  int
	releaseSamples int
	pos            int
	ratio          float32
	mix            float32
}

// NewSideChain creates a SideChain effect. periodMs is the resolved
// beat-fraction period between ducks; ratio in [0,1] sets how deep the
// duck goes (0 = no duck, 1 = full silence at the duck's bottom).
func NewSideChain(sampleRate int, periodMs float64, ratio float32, mix float32) *SideChain {
	period := int(periodMs * float64(sampleRate) / 1000.0)
	if period < 1 {
		period = 1
	}
	attack := period / 20
	if attack < 1 {
		attack = 1
	}
	release := period - attack
	if release < 1 {
		release = 1
	}
	return &SideChain{
		periodSamples:  period,
		attackSamples:  attack,
		releaseSamples: release,
		ratio:          clamp(ratio, 0, 1),
		mix:            clamp(mix, 0, 1),
	}
}

func (s *SideChain) Process(l, r float32) (float32, float32) {
	var env float32
	if s.pos < s.attackSamples {
		// Sharp dip at the start of every period.
		env = 1 - s.ratio*(1-float32(s.pos)/float32(s.attackSamples))
	} else {
		rel := s.pos - s.attackSamples
		env = (1 - s.ratio) + s.ratio*float32(rel)/float32(s.releaseSamples)
	}
	s.pos++
	if s.pos >= s.periodSamples {
		s.pos = 0
	}
	gain := 1 - s.mix*(1-env)
	return l * gain, r * gain
}

func (s *SideChain) Reset() { s.pos = 0 }
