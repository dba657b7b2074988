// Package scoring implements the hit-rating state machine: the pure
// judging rules that turn one PlacedScoreTick plus the current
// input/laser/time state into a hitrating.Rating.
package scoring

import (
	"github.com/Drewol/kson-rs-sub000/internal/audiosync"
	"github.com/Drewol/kson-rs-sub000/internal/chart"
	"github.com/Drewol/kson-rs-sub000/internal/hitrating"
	"github.com/Drewol/kson-rs-sub000/internal/laser"
	"github.com/Drewol/kson-rs-sub000/internal/scoreticker"
)

// Timing windows, in milliseconds. Fixed constants of the core; a
// differently-configured core replaces all three together, never
// individually.
const (
	PerfectMs = 2500.0 / 60.0
	GoodMs    = 100.0
	MissMs    = 10000.0 / 60.0
)

// JudgeChipPress judges a Chip tick against a button-press event.
// pressMs is the press timestamp already converted to play-ms via the
// audio-sync controller (controller.MsAt(pressTime)) — scoring never
// touches wall-clock time directly, only the chart-time domain.
func JudgeChipPress(c *chart.Chart, tick scoreticker.PlacedScoreTick, pressMs float64) hitrating.Rating {
	delta := c.PulseToMs(tick.Pulse) - pressMs
	abs := delta
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs <= PerfectMs:
		return hitrating.Crit
	case abs <= GoodMs:
		return hitrating.Good
	case abs <= MissMs:
		return hitrating.Miss
	default:
		return hitrating.None
	}
}

// JudgeChipIdle is the per-frame idle evaluation for a Chip tick that
// has not yet been struck: once the tick falls behind the miss
// deadline it is a Miss, otherwise it's left pending.
func JudgeChipIdle(tick scoreticker.PlacedScoreTick, missDeadlinePulse chart.Pulse) hitrating.Rating {
	if tick.Pulse < missDeadlinePulse {
		return hitrating.Miss
	}
	return hitrating.None
}

// JudgeHold judges a Hold tick: credited (Crit) if the lane's hold
// button is currently depressed, Miss otherwise. Always settles.
func JudgeHold(depressed bool) hitrating.Rating {
	if depressed {
		return hitrating.Crit
	}
	return hitrating.Miss
}

// JudgeLaser judges a Laser tick against the tracker's current cursor.
// Always settles.
func JudgeLaser(tick scoreticker.PlacedScoreTick, cursor float64) hitrating.Rating {
	d := cursor - tick.Pos
	if d < 0 {
		d = -d
	}
	if d < chart.LaserThreshold {
		return hitrating.Crit
	}
	return hitrating.Miss
}

// JudgeSlam judges a Slam tick. dir picks which of the tracker's two
// directional last-turn timestamps the slam is judged against: the
// negative-delta slot if the slam moves the cursor downward
// (end < start), the positive-delta slot otherwise.
//
// On a Crit, the tracker's cursor snaps to the slam's end value and
// 24 assist ticks are armed. On a deadline Miss the tracker's assist
// ticks are cleared. A tick that is neither yet
// missed nor yet matched returns None and must stay in the queue —
// slams defer judgement until a matching directional input arrives or
// the deadline passes.
func JudgeSlam(c *chart.Chart, tick scoreticker.PlacedScoreTick, t *laser.Tracker, missDeadlinePulse chart.Pulse, sync *audiosync.Controller) hitrating.Rating {
	dir := laser.DirPos
	if tick.SlamEnd < tick.SlamStart {
		dir = laser.DirNeg
	}

	if tick.Pulse < missDeadlinePulse {
		t.AssistTicks = 0
		return hitrating.Miss
	}

	lastTurn := t.LastTurn[dir]
	if lastTurn.IsZero() {
		return hitrating.None
	}
	delta := c.PulseToMs(tick.Pulse) - sync.MsAt(lastTurn)
	abs := delta
	if abs < 0 {
		abs = -abs
	}
	if abs <= GoodMs {
		t.Cursor = tick.SlamEnd
		t.ArmAssist(24)
		return hitrating.Crit
	}
	return hitrating.None
}
