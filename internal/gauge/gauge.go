// Package gauge implements the [0,1] clear bar the player's gauge
// value tracks through a song: a Normal curve and a stricter Hard
// curve.
package gauge

import "github.com/Drewol/kson-rs-sub000/internal/hitrating"

// ClearThreshold is the Normal-gauge value at or above which a song is
// clearable.
const ClearThreshold = 0.70

// missPenalty is the flat gauge deduction for a Miss, independent of
// chip/tick gain.
const missPenalty = 0.02

// Category distinguishes chip ticks (their own gain) from every other
// judged tick (hold/laser/slam), which share "tick_gain".
type Category int

const (
	CategoryChip Category = iota
	CategoryTick
)

// Gauge accumulates gain/penalty per judged tick and reports whether
// the song is clearable.
type Gauge interface {
	Apply(cat Category, rating hitrating.Rating)
	Value() float64
	Cleared() bool
}

// Kind selects which gauge curve a song is played with.
type Kind int

const (
	KindNormal Kind = iota
	KindHard
)

// New builds a Gauge of the given kind, deriving its gains from the
// chart's chip/long tick counts.
func New(kind Kind, chipCount, longCount int) Gauge {
	chipGain, tickGain := deriveGains(chipCount, longCount)
	switch kind {
	case KindHard:
		return &Hard{chipGain: chipGain, tickGain: tickGain, value: 1}
	default:
		return &Normal{chipGain: chipGain, tickGain: tickGain}
	}
}

// deriveGains computes the per-chip and per-tick gauge gain from the
// chart's note counts.
func deriveGains(chipCount, longCount int) (chipGain, tickGain float64) {
	switch {
	case longCount == 0 && chipCount > 0:
		return 2.10 / float64(chipCount), 0
	case chipCount == 0 && longCount > 0:
		return 0, 2.10 / float64(longCount)
	case chipCount == 0 && longCount == 0:
		return 0, 0
	default:
		g := (2.10 * 20) / (5 * (float64(longCount) + 4*float64(chipCount)))
		return g, g / 4
	}
}

// Normal is the standard clear gauge: gains on Crit, half gain on
// Good, a flat penalty on Miss, clamped to [0,1].
type Normal struct {
	chipGain, tickGain float64
	value              float64
}

func (n *Normal) gainFor(cat Category) float64 {
	if cat == CategoryChip {
		return n.chipGain
	}
	return n.tickGain
}

func (n *Normal) Apply(cat Category, rating hitrating.Rating) {
	switch rating {
	case hitrating.Crit:
		n.value += n.gainFor(cat)
	case hitrating.Good:
		n.value += n.gainFor(cat) * 0.5
	case hitrating.Miss:
		n.value -= missPenalty
	}
	n.value = clamp01(n.value)
}

func (n *Normal) Value() float64 { return n.value }
func (n *Normal) Cleared() bool  { return n.value >= ClearThreshold }

// Hard starts full (1.0): every Miss costs several times the normal
// penalty, Good holds steady, Crit adds the normal gain up to 1.0, and
// once the gauge hits zero it is permanently failed regardless of
// later Crits.
type Hard struct {
	chipGain, tickGain float64
	value              float64
	failed             bool
}

const hardMissMultiplier = 4.0

func (h *Hard) gainFor(cat Category) float64 {
	if cat == CategoryChip {
		return h.chipGain
	}
	return h.tickGain
}

func (h *Hard) Apply(cat Category, rating hitrating.Rating) {
	if h.failed {
		return
	}
	switch rating {
	case hitrating.Crit:
		h.value += h.gainFor(cat)
	case hitrating.Good:
		// Good neither advances nor drains a hard gauge: it is
		// treated as a hold, not a gain.
	case hitrating.Miss:
		h.value -= missPenalty * hardMissMultiplier
	}
	if h.value <= 0 {
		h.value = 0
		h.failed = true
	}
	if h.value > 1 {
		h.value = 1
	}
}

func (h *Hard) Value() float64 { return h.value }
func (h *Hard) Cleared() bool  { return !h.failed && h.value > 0 }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
