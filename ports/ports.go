// Package ports defines the external contracts the gameplay core is
// built against: the decoded audio stream, the input device, the
// mixer, and the render-state snapshot the core produces each frame.
// Concrete adapters live outside this package (internal/audiobackend
// is the ebiten-backed Mixer); the core only ever depends on the
// interfaces.
package ports

import (
	"time"

	"github.com/Drewol/kson-rs-sub000/internal/chart"
	"github.com/Drewol/kson-rs-sub000/internal/hitrating"
)

// Button enumerates the physical inputs the gameplay core reads.
type Button int

const (
	ButtonBTA Button = iota
	ButtonBTB
	ButtonBTC
	ButtonBTD
	ButtonFXL
	ButtonFXR
	ButtonStart
	ButtonBack
)

func (b Button) String() string {
	switch b {
	case ButtonBTA:
		return "BT_A"
	case ButtonBTB:
		return "BT_B"
	case ButtonBTC:
		return "BT_C"
	case ButtonBTD:
		return "BT_D"
	case ButtonFXL:
		return "FX_L"
	case ButtonFXR:
		return "FX_R"
	case ButtonStart:
		return "Start"
	case ButtonBack:
		return "Back"
	default:
		return "Button(?)"
	}
}

// IsFX reports whether b is one of the two FX buttons (BT buttons map
// to the four chip/hold BT lanes; FX buttons map to the two FX lanes).
func (b Button) IsFX() bool { return b == ButtonFXL || b == ButtonFXR }

// BTLane returns the BT lane index (0-3) for a BT button, or -1 if b is
// not a BT button.
func (b Button) BTLane() int {
	if b >= ButtonBTA && b <= ButtonBTD {
		return int(b - ButtonBTA)
	}
	return -1
}

// FXLane returns the FX lane index (0-1) for an FX button, or -1 if b
// is not an FX button.
func (b Button) FXLane() int {
	switch b {
	case ButtonFXL:
		return 0
	case ButtonFXR:
		return 1
	default:
		return -1
	}
}

// ButtonEvent is a single press or release, timestamped by the input
// source's own clock.
type ButtonEvent struct {
	Button    Button
	Pressed   bool // true = pressed, false = released
	Timestamp time.Time
}

// LaserEvent is one analog knob delta on a laser side (0=left,
// 1=right).
type LaserEvent struct {
	Side      int
	Delta     float64
	Timestamp time.Time
}

// InputSource is polled once per game-thread frame for every event
// that occurred since the previous poll.
type InputSource interface {
	PollButtons() []ButtonEvent
	PollLasers() []LaserEvent
	// Held reports whether a button is currently depressed, used for
	// Hold-tick judging independent of the edge-triggered event feed.
	Held(b Button) bool
}

// AudioSource is a decoded f32 PCM stream with known duration, pulled
// by the audio backend.
type AudioSource interface {
	SampleRate() int
	TotalDuration() time.Duration
	SkipDuration(d time.Duration) error
	// Read fills dst with interleaved stereo f32 samples, returning the
	// number of frames read. Called from the audio thread; must not
	// block on anything but the underlying decode.
	Read(dst [][2]float32) (n int, err error)
}

// Mixer adds and removes playing source handles.
type Mixer interface {
	Add(src AudioSource) (handle int, err error)
	Remove(handle int) error
}

// HitEvent is one settled judging outcome, part of the per-frame
// render snapshot's hit-rating feed.
type HitEvent struct {
	Pulse  chart.Pulse
	Rating hitrating.Rating
	DeltaMs float64
}

// RenderState is the per-frame snapshot the core produces for the
// renderer: current timing, laser cursors, score state, and evaluated
// camera-graph values.
type RenderState struct {
	CurrentPulse chart.Pulse
	CurrentMs    float64

	LaserCursor [2]float64
	LaserWide   [2]int

	Combo      int
	MaxCombo   int
	Score      int
	DisplayScore int
	GaugeValue float64
	Cleared    bool

	HitFeed []HitEvent

	CameraZoom     float64
	CameraRotX     float64
	CameraShiftX   float64
}

// Renderer consumes the per-frame snapshot. No type in this repository
// implements it; the demo front-end (cmd/gamedemo) reads RenderState
// from the gameplay loop directly in its View.
type Renderer interface {
	Render(state RenderState)
}
