// Package hitrating defines the judgement outcomes the scoring engine
// and gauge share: Crit, Good, Miss, or no verdict yet.
package hitrating

// Rating is the outcome of judging one PlacedScoreTick.
type Rating int

const (
	// None means no verdict yet: the tick is deferred (e.g. a slam
	// still waiting on a matching directional input) and must not be
	// removed from the score-tick queue.
	None Rating = iota
	Crit
	Good
	Miss
)

func (r Rating) String() string {
	switch r {
	case Crit:
		return "Crit"
	case Good:
		return "Good"
	case Miss:
		return "Miss"
	default:
		return "None"
	}
}

// Score returns the tick-credit value: 2 for a Crit, 1 for a Good, 0
// otherwise.
func (r Rating) Score() int {
	switch r {
	case Crit:
		return 2
	case Good:
		return 1
	default:
		return 0
	}
}

// Settled reports whether this rating removes its tick from the queue
// (anything but None).
func (r Rating) Settled() bool {
	return r != None
}
