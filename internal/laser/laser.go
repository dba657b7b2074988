// Package laser implements the per-side analog cursor: input
// integration, the target overshoot-clamp table, and assist-tick
// snapping.
package laser

import (
	"time"

	"github.com/Drewol/kson-rs-sub000/internal/chart"
)

// Direction indexes LastTurn: 0 is the negative-delta direction, 1 is
// the positive-delta direction.
const (
	DirNeg = 0
	DirPos = 1
)

// Tracker is one side's (left or right) laser cursor state.
type Tracker struct {
	Cursor      float64
	Target      *float64
	Active      bool
	AssistTicks uint8
	LastTurn    [2]time.Time
	Wide        int
}

// New returns a Tracker with default (hidden) state.
func New() *Tracker {
	return &Tracker{Wide: 1}
}

// SetChartState updates the tracker's view of the chart's laser state
// for the current frame. It returns true the frame the target
// transitions from absent to present (a rising edge), at which point
// the gameplay loop should arm assist ticks.
func (t *Tracker) SetChartState(target *float64, wide int) (risingEdge bool) {
	wasActive := t.Target != nil
	t.Target = target
	t.Active = target != nil
	t.Wide = wide
	if !wasActive && t.Active {
		return true
	}
	if !t.Active {
		t.Cursor = 0
	}
	return false
}

// ArmAssist sets the assist-tick countdown (a rising edge uses 10; a
// post-turn snap uses 20; a credited slam uses 24 — see package
// scoring).
func (t *Tracker) ArmAssist(ticks uint8) {
	t.AssistTicks = ticks
}

// TickAssist is called once per gameplay frame. While assist ticks
// remain and the upcoming laser tick on this side is not a slam, the
// cursor is snapped to the chart's target value to forgive minor input
// jitter. nextIsSlam should reflect whether the next unconsumed tick on
// this side is a Slam.
func (t *Tracker) TickAssist(nextIsSlam bool) {
	if t.AssistTicks == 0 || t.Target == nil || nextIsSlam {
		return
	}
	t.Cursor = *t.Target
	t.AssistTicks--
}

func signOf(v float64) int {
	switch {
	case v > 1e-9:
		return 1
	case v < -1e-9:
		return -1
	default:
		return 0
	}
}

// ApplyDelta integrates a raw input delta into the cursor, applying
// the overshoot-clamp rule against the current target (if any) and
// chart direction dir (-1, 0, or +1: the sign the chart's own laser
// graph is moving at the current pulse).
//
// The clamp table has two overlapping cases: "cursor already sits on
// target" vs "new position overshoots target". This implementation
// gives "already on target" priority — once the cursor coincides with
// the target, it stays there unless the raw delta would move it away
// in the same direction the chart itself is moving (dir), in which
// case it is allowed to lead the chart rather than lag it. See
// DESIGN.md.
func (t *Tracker) ApplyDelta(delta float64, now time.Time, dir int) {
	if delta != 0 {
		if delta > 0 {
			t.LastTurn[DirPos] = now
		} else {
			t.LastTurn[DirNeg] = now
		}
	}
	newPos := clamp01(t.Cursor + delta)

	if t.Target != nil {
		tv := *t.Target
		sc := signOf(t.Cursor - tv)
		sn := signOf(newPos - tv)
		moveDir := signOf(newPos - t.Cursor)

		switch {
		case sc == 0:
			// Cursor already sits on the target: only let the raw
			// delta move it away when that matches the chart's own
			// direction of travel; otherwise hold at tv.
			if dir == 0 || moveDir != dir {
				newPos = tv
			}
		case sc != sn:
			// The delta crosses the target. Snap to it unless this
			// crossing is the chart's own direction of travel (dir),
			// which represents legitimately catching up to a moving
			// target rather than overshooting a held one.
			if dir == 0 || moveDir != dir {
				newPos = tv
			}
		}

		if newPos == tv && moveDir == dir && dir != 0 {
			t.ArmAssist(20)
		}
	}

	t.Cursor = newPos
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ChartDirection returns the sign of a laser section's motion around
// pulse p: compares the value a short distance before and after p.
func ChartDirection(sec *chart.LaserSection, p chart.Pulse) int {
	const probe = chart.Pulse(8)
	before := sec.ValueAt(p - probe)
	after := sec.ValueAt(p + probe)
	return signOf(after - before)
}
