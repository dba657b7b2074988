package effects

import "math"

// BitCrusher implements the "BitCrusher" effect: sample-and-hold
// downsampling plus bit-depth reduction, with Distortion's tanh
// waveshaper run afterward at unity gain to round off the harsh edges
// a bare quantizer leaves, the same "warmth" role Distortion's
// post-filter plays in its own chain.
type BitCrusher struct {
	reduction    int
	holdL, holdR float32
	pos          int
	levels       float32
	mix          float32
	warmth       *Distortion
}

// NewBitCrusher creates a BitCrusher effect. reduction is the
// sample-and-hold factor (1 = no reduction, higher = lower effective
// sample rate); bitDepth quantizes amplitude to 2^bitDepth levels.
func NewBitCrusher(sampleRate, reduction, bitDepth int, mix float32) *BitCrusher {
	if reduction < 1 {
		reduction = 1
	}
	if bitDepth < 1 {
		bitDepth = 1
	}
	if bitDepth > 16 {
		bitDepth = 16
	}
	return &BitCrusher{
		reduction: reduction,
		levels:    float32(math.Pow(2, float64(bitDepth))),
		mix:       clamp(mix, 0, 1),
		warmth:    NewDistortion(sampleRate, 1, 1, 0),
	}
}

func (b *BitCrusher) Process(l, r float32) (float32, float32) {
	if b.pos == 0 {
		b.holdL = quantize(l, b.levels)
		b.holdR = quantize(r, b.levels)
	}
	b.pos++
	if b.pos >= b.reduction {
		b.pos = 0
	}
	wetL, wetR := b.warmth.Process(b.holdL, b.holdR)
	return l*(1-b.mix) + wetL*b.mix, r*(1-b.mix) + wetR*b.mix
}

func quantize(v float32, levels float32) float32 {
	step := 2.0 / levels
	return float32(math.Round(float64(v/step))) * step
}

func (b *BitCrusher) Reset() {
	b.holdL, b.holdR = 0, 0
	b.pos = 0
	b.warmth.Reset()
}
