// Package result defines the payload the gameplay core emits once, on
// song end or manual exit, plus the control-message envelope it
// travels in alongside CloseRequested.
package result

import "github.com/Drewol/kson-rs-sub000/internal/hitrating"

// HitEvent is one settled judging outcome carried in a Result's
// hit_ratings feed.
type HitEvent struct {
	Pulse   int64
	Rating  hitrating.Rating
	DeltaMs float64
}

// Result is the final payload: `{ song_id, diff_id, score, gauge_value,
// hit_ratings[], max_combo, duration_ms, manual_exit, chart_hash }`.
type Result struct {
	SongID     string
	DiffID     string
	Score      int
	GaugeValue float64
	HitRatings []HitEvent
	MaxCombo   int
	DurationMs float64
	ManualExit bool
	ChartHash  string
}

// ControlMessage is the type of an out-of-band signal carried
// alongside the per-frame render snapshot. Result and CloseRequested
// implement it; the gameplay loop does not emit ControlMessages.
type ControlMessage interface{ isControlMessage() }

func (Result) isControlMessage() {}

// CloseRequested signals that the Back button was pressed mid-song. A
// manual exit is recorded through gameplay's Loop.RequestClose, which
// makes the Result returned by Finish carry ManualExit=true.
type CloseRequested struct{}

func (CloseRequested) isControlMessage() {}
