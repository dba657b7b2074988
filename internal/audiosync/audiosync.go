// Package audiosync reconciles the wall clock against the audio
// decoder's reported playback position: lead-in, drift correction, and
// pause/resume.
package audiosync

import "time"

// LeadIn is the silence period before the decoder begins playing.
const LeadIn = 3 * time.Second

const (
	ringLen           = 32
	hardResetMs       = 250.0
	driftToleranceMs  = 1.0
	driftCorrection   = 50 * time.Microsecond
)

// Controller tracks zero_time — the wall-clock instant at which
// play_ms is 0 — and nudges it each reconciliation to keep pace with
// the audio decoder's own clock.
type Controller struct {
	zeroTime time.Time
	started  bool

	ring      [ringLen]float64
	ringPos   int
	ringCount int

	paused    bool
	pausedAt  time.Time
}

// NewController returns an unstarted controller. Call Start to arm the
// lead-in.
func NewController() *Controller {
	return &Controller{}
}

// Start arms the lead-in: zero_time is set LeadIn in the future of now.
func (c *Controller) Start(now time.Time) {
	c.zeroTime = now.Add(LeadIn)
	c.started = true
	c.ringPos, c.ringCount = 0, 0
}

// CurrentMs returns the current play position in milliseconds. During
// lead-in (now before zero_time) it is pinned to 0.
func (c *Controller) CurrentMs(now time.Time) float64 {
	if !c.started {
		return 0
	}
	if c.paused {
		now = c.pausedAt
	}
	if now.Before(c.zeroTime) {
		return 0
	}
	return float64(now.Sub(c.zeroTime)) / float64(time.Millisecond)
}

// Reconcile folds one decoder sample (playbackMs, the decoder's own
// reported position) into the drift ring buffer and adjusts zero_time:
// a hard reset if the 32-sample average drift exceeds 250ms, otherwise
// a small nudge toward or away from now.
func (c *Controller) Reconcile(now time.Time, playbackMs float64) {
	if !c.started || c.paused {
		return
	}
	delta := playbackMs - c.CurrentMs(now)
	c.ring[c.ringPos] = delta
	c.ringPos = (c.ringPos + 1) % ringLen
	if c.ringCount < ringLen {
		c.ringCount++
	}

	avg := c.averageDrift()
	switch {
	case avg > hardResetMs || avg < -hardResetMs:
		c.zeroTime = now.Add(-time.Duration(playbackMs * float64(time.Millisecond)))
		c.ringPos, c.ringCount = 0, 0
	case avg > driftToleranceMs:
		c.zeroTime = c.zeroTime.Add(-driftCorrection)
	case avg < -driftToleranceMs:
		c.zeroTime = c.zeroTime.Add(driftCorrection)
	}
}

func (c *Controller) averageDrift() float64 {
	if c.ringCount == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < c.ringCount; i++ {
		sum += c.ring[i]
	}
	return sum / float64(c.ringCount)
}

// Pause freezes zero_time relative to now.
func (c *Controller) Pause(now time.Time) {
	if c.paused {
		return
	}
	c.paused = true
	c.pausedAt = now
}

// Resume shifts zero_time forward by the paused duration.
func (c *Controller) Resume(now time.Time) {
	if !c.paused {
		return
	}
	paused := now.Sub(c.pausedAt)
	c.zeroTime = c.zeroTime.Add(paused)
	c.paused = false
}

// MsAt converts an arbitrary wall-clock instant to play-ms, without
// mutating controller state. Used by the scoring engine to convert a
// button-press or laser-turn timestamp into chart time.
func (c *Controller) MsAt(t time.Time) float64 {
	if !c.started || t.Before(c.zeroTime) {
		return 0
	}
	return float64(t.Sub(c.zeroTime)) / float64(time.Millisecond)
}
