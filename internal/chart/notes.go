package chart

// Interval is a chip or hold note. A zero Length is a chip; a positive
// Length is a hold spanning [Pulse, Pulse+Length).
type Interval struct {
	Pulse  Pulse
	Length Pulse
}

// IsChip reports whether the interval is a zero-length chip note.
func (iv Interval) IsChip() bool { return iv.Length == 0 }

// End returns the interval's exclusive end pulse.
func (iv Interval) End() Pulse { return iv.Pulse + iv.Length }
