package effects

// NoOp passes audio through unchanged. Used by Graph when an
// EffectDef's kind is unrecognized and for a lane with no active
// effect, so a bad chart degrades to silence-free playback instead of
// a nil Effector.
type NoOp struct{}

func (NoOp) Process(l, r float32) (float32, float32) { return l, r }
func (NoOp) Reset()                                   {}
