// Package scoreticker expands a chart's notes, holds, and laser
// sections into a flat, pulse-ordered stream of judged ticks — the
// PlacedScoreTick values the gameplay loop drains as the song plays.
package scoreticker

import (
	"sort"

	"github.com/Drewol/kson-rs-sub000/internal/chart"
)

// HoldTickGrid is the pulse spacing at which hold and laser ticks are
// placed: a sixteenth note (PPQN / 4).
const HoldTickGrid = chart.PPQN / 4

// Kind identifies what a PlacedScoreTick judges.
type Kind int

const (
	KindChip Kind = iota
	KindHold
	KindLaser
	KindSlam
)

// PlacedScoreTick is one entry in the score-tick stream. Lane's meaning
// depends on LaneKind: a BT/FX lane index, or a laser side (0=left,
// 1=right).
type PlacedScoreTick struct {
	Pulse    chart.Pulse
	Kind     Kind
	LaneKind chart.LaneKind
	Lane     int

	// Laser ticks: the target cursor position.
	Pos float64
	// Slam ticks: the value jump this slam represents.
	SlamStart, SlamEnd float64
}

// Summary aggregates tick counts for gauge derivation and
// maximum-score computation.
type Summary struct {
	ChipCount int
	HoldCount int
	LaserCount int
	SlamCount  int
}

// LongCount is the combined hold+laser+slam tick count package gauge
// uses as "long_count" when deriving tick_gain.
func (s Summary) LongCount() int {
	return s.HoldCount + s.LaserCount + s.SlamCount
}

// Generate expands c into a sorted, stable PlacedScoreTick stream plus
// its Summary.
func Generate(c *chart.Chart) ([]PlacedScoreTick, Summary) {
	var ticks []PlacedScoreTick
	var sum Summary

	for lane, ivs := range c.Notes.BT {
		ticks, sum = appendLaneTicks(ticks, sum, chart.LaneBT, lane, ivs)
	}
	for lane, ivs := range c.Notes.FX {
		ticks, sum = appendLaneTicks(ticks, sum, chart.LaneFX, lane, ivs)
	}
	for side, sections := range c.Notes.Laser {
		for _, sec := range sections {
			ticks, sum = appendLaserSectionTicks(ticks, sum, side, sec)
		}
	}

	sort.SliceStable(ticks, func(i, j int) bool { return ticks[i].Pulse < ticks[j].Pulse })
	return ticks, sum
}

func appendLaneTicks(ticks []PlacedScoreTick, sum Summary, laneKind chart.LaneKind, lane int, ivs []chart.Interval) ([]PlacedScoreTick, Summary) {
	for _, iv := range ivs {
		if iv.IsChip() {
			ticks = append(ticks, PlacedScoreTick{Pulse: iv.Pulse, Kind: KindChip, LaneKind: laneKind, Lane: lane})
			sum.ChipCount++
			continue
		}
		start := firstGridPulse(iv.Pulse)
		for p := start; p < iv.End(); p += HoldTickGrid {
			ticks = append(ticks, PlacedScoreTick{Pulse: p, Kind: KindHold, LaneKind: laneKind, Lane: lane})
			sum.HoldCount++
		}
	}
	return ticks, sum
}

// firstGridPulse returns the first multiple of HoldTickGrid that is
// >= p.
func firstGridPulse(p chart.Pulse) chart.Pulse {
	if p%HoldTickGrid == 0 {
		return p
	}
	return (p/HoldTickGrid + 1) * HoldTickGrid
}

func appendLaserSectionTicks(ticks []PlacedScoreTick, sum Summary, side int, sec chart.LaserSection) ([]PlacedScoreTick, Summary) {
	pts := sec.Points
	for i, p := range pts {
		abs := sec.Pulse + p.RelPulse
		if p.IsSlam() {
			ticks = append(ticks, PlacedScoreTick{
				Pulse: abs, Kind: KindSlam, LaneKind: chart.LaneLaser, Lane: side,
				SlamStart: p.Value, SlamEnd: *p.VF,
			})
			sum.SlamCount++
		}
		if i+1 >= len(pts) {
			continue
		}
		next := pts[i+1]
		segStart := abs
		segEnd := sec.Pulse + next.RelPulse
		start := firstGridPulse(segStart)
		if start == segStart {
			start += HoldTickGrid
		}
		for gp := start; gp < segEnd; gp += HoldTickGrid {
			ticks = append(ticks, PlacedScoreTick{
				Pulse: gp, Kind: KindLaser, LaneKind: chart.LaneLaser, Lane: side,
				Pos: sec.ValueAt(gp),
			})
			sum.LaserCount++
		}
	}
	return ticks, sum
}

// MaxScore is the total achievable score: 2 points per tick (a Crit).
func MaxScore(sum Summary) int {
	return 2 * (sum.ChipCount + sum.LongCount())
}

// DisplayScore converts an accumulated real score (0..MaxScore) to the
// 0..10,000,000 scale shown to the player.
func DisplayScore(real, max int) int {
	if max <= 0 {
		return 0
	}
	return int(10000000.0 * float64(real) / float64(max))
}
