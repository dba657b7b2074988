// Package chart holds the in-memory chart tree the gameplay core plays
// against: BPM/time-signature maps, note lanes, laser sections, camera
// graphs, and the audio-effect table. It is produced by an external
// KSH/KSON/VOX parser and is immutable for the duration of a song.
package chart

import (
	"errors"
	"fmt"
	"hash/fnv"
)

// PPQN is the number of pulses per quarter note. Fixed, matching the
// KSON chart format this engine was built against.
const PPQN = 240

// Pulse is an integer chart-position unit, PPQN per quarter note.
type Pulse int64

// BPMPoint is one entry in the chart's tempo map.
type BPMPoint struct {
	Pulse Pulse
	BPM   float64
}

// TimeSig is one entry in the chart's time-signature map, keyed by
// measure index (0-based).
type TimeSig struct {
	Measure int
	Num     int
	Denom   int
}

// LaneKind distinguishes the three note-lane namespaces a PlacedScoreTick
// (see package scoreticker) can reference.
type LaneKind int

const (
	LaneBT LaneKind = iota
	LaneFX
	LaneLaser
)

func (k LaneKind) String() string {
	switch k {
	case LaneBT:
		return "BT"
	case LaneFX:
		return "FX"
	case LaneLaser:
		return "Laser"
	default:
		return "Lane(?)"
	}
}

// Notes holds the chip/hold lanes and laser sections.
type Notes struct {
	BT    [4][]Interval
	FX    [2][]Interval
	Laser [2][]LaserSection
}

// AudioConfig carries the BGM offset and the effect table.
type AudioConfig struct {
	BGMOffsetMs float64
	Effects     EffectTable
}

// Chart is the immutable, fully-resolved song the gameplay core plays.
type Chart struct {
	BPM      []BPMPoint
	TimeSig  []TimeSig
	Notes    Notes
	Camera   CameraGraphs
	Audio    AudioConfig
	// DurationPulse is the chart's nominal end, used by the gameplay
	// loop to know when the song is over.
	DurationPulse Pulse
}

var (
	ErrEmptyChart        = errors.New("chart: empty chart")
	ErrNoBPM             = errors.New("chart: bpm map has no entry at pulse 0")
	ErrNonMonotonicPulse = errors.New("chart: non-monotonic pulse sequence")
	ErrEmptyLaserSection = errors.New("chart: laser section has no points")
	ErrBadGraphPoint     = errors.New("chart: graph point out of range")
)

// Validate checks the invariants required before play can start. A
// chart that fails validation is a fatal init error; the scene refuses
// to start.
func (c *Chart) Validate() error {
	if len(c.BPM) == 0 {
		return ErrNoBPM
	}
	if c.BPM[0].Pulse != 0 {
		return ErrNoBPM
	}
	if err := checkMonotonicBPM(c.BPM); err != nil {
		return err
	}
	for lane, ivs := range c.Notes.BT {
		if err := checkIntervals(ivs); err != nil {
			return fmt.Errorf("chart: BT lane %d: %w", lane, err)
		}
	}
	for lane, ivs := range c.Notes.FX {
		if err := checkIntervals(ivs); err != nil {
			return fmt.Errorf("chart: FX lane %d: %w", lane, err)
		}
	}
	for side, sections := range c.Notes.Laser {
		for i, sec := range sections {
			if len(sec.Points) == 0 {
				return fmt.Errorf("chart: laser side %d section %d: %w", side, i, ErrEmptyLaserSection)
			}
			if err := checkGraphPoints(sec.Points); err != nil {
				return fmt.Errorf("chart: laser side %d section %d: %w", side, i, err)
			}
		}
	}
	if len(c.BPM) == 0 && len(c.Notes.BT) == 0 {
		return ErrEmptyChart
	}
	return nil
}

func checkMonotonicBPM(pts []BPMPoint) error {
	last := Pulse(-1)
	for _, p := range pts {
		if p.Pulse < 0 || p.Pulse < last {
			return ErrNonMonotonicPulse
		}
		if p.Pulse > last {
			last = p.Pulse
		}
	}
	return nil
}

func checkIntervals(ivs []Interval) error {
	last := Pulse(-1)
	for _, iv := range ivs {
		if iv.Pulse < 0 || iv.Pulse < last {
			return ErrNonMonotonicPulse
		}
		last = iv.Pulse
		if iv.Length > 0 {
			last = iv.Pulse + iv.Length
		}
	}
	return nil
}

func checkGraphPoints(pts []GraphPoint) error {
	last := Pulse(-1)
	for _, p := range pts {
		if p.RelPulse < 0 || p.RelPulse <= last {
			return ErrNonMonotonicPulse
		}
		last = p.RelPulse
		if p.Value < 0 || p.Value > 1 {
			return ErrBadGraphPoint
		}
		if p.VF != nil && (*p.VF < 0 || *p.VF > 1) {
			return ErrBadGraphPoint
		}
	}
	return nil
}

// Hash returns a stable FNV-1a hash over the chart's canonical pulse/
// lane/value stream. Used as the result payload's chart_hash so the
// same chart always reports the same identity regardless of how it
// was parsed.
func (c *Chart) Hash() string {
	h := fnv.New64a()
	write := func(format string, args ...any) {
		fmt.Fprintf(h, format, args...)
	}
	for _, p := range c.BPM {
		write("B%d:%g;", p.Pulse, p.BPM)
	}
	for _, t := range c.TimeSig {
		write("T%d:%d/%d;", t.Measure, t.Num, t.Denom)
	}
	for lane, ivs := range c.Notes.BT {
		for _, iv := range ivs {
			write("bt%d:%d:%d;", lane, iv.Pulse, iv.Length)
		}
	}
	for lane, ivs := range c.Notes.FX {
		for _, iv := range ivs {
			write("fx%d:%d:%d;", lane, iv.Pulse, iv.Length)
		}
	}
	for side, sections := range c.Notes.Laser {
		for _, sec := range sections {
			write("ls%d@%d:w%d;", side, sec.Pulse, sec.Wide)
			for _, p := range sec.Points {
				vf := -1.0
				if p.VF != nil {
					vf = *p.VF
				}
				write("p%d:%g:%g;", p.RelPulse, p.Value, vf)
			}
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
