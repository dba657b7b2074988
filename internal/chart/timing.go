package chart

import "sort"

// segment is a precomputed BPM segment: constant tempo from Pulse to
// (exclusive) the next segment's Pulse, with the wall-clock ms offset
// at which the segment starts.
type segment struct {
	pulse   Pulse
	bpm     float64
	msStart float64
	tickMs  float64 // ms per pulse within this segment
}

func (c *Chart) segments() []segment {
	segs := make([]segment, len(c.BPM))
	msAcc := 0.0
	for i, p := range c.BPM {
		tickMs := 60000.0 / (p.BPM * PPQN)
		segs[i] = segment{pulse: p.Pulse, bpm: p.BPM, msStart: msAcc, tickMs: tickMs}
		if i+1 < len(c.BPM) {
			span := float64(c.BPM[i+1].Pulse - p.Pulse)
			msAcc += span * tickMs
		}
	}
	return segs
}

// BPMAt returns the tempo in effect at pulse p: the last BPM entry with
// Pulse <= p.
func (c *Chart) BPMAt(p Pulse) float64 {
	if len(c.BPM) == 0 {
		return 120
	}
	idx := sort.Search(len(c.BPM), func(i int) bool { return c.BPM[i].Pulse > p }) - 1
	if idx < 0 {
		idx = 0
	}
	return c.BPM[idx].BPM
}

// PulseToMs converts a chart pulse to milliseconds from song start.
// Piecewise-linear across BPM segments; monotone non-decreasing.
func (c *Chart) PulseToMs(p Pulse) float64 {
	segs := c.segments()
	if len(segs) == 0 {
		return 0
	}
	idx := sort.Search(len(segs), func(i int) bool { return segs[i].pulse > p }) - 1
	if idx < 0 {
		idx = 0
	}
	seg := segs[idx]
	return seg.msStart + float64(p-seg.pulse)*seg.tickMs
}

// MsToPulse converts milliseconds from song start back to a chart
// pulse. Round-trips PulseToMs within ±1 pulse.
func (c *Chart) MsToPulse(ms float64) Pulse {
	segs := c.segments()
	if len(segs) == 0 {
		return 0
	}
	idx := sort.Search(len(segs), func(i int) bool { return segs[i].msStart > ms }) - 1
	if idx < 0 {
		idx = 0
	}
	seg := segs[idx]
	if seg.tickMs <= 0 {
		return seg.pulse
	}
	deltaPulse := (ms - seg.msStart) / seg.tickMs
	return seg.pulse + Pulse(deltaPulse+0.5)
}

// tsSegment is a precomputed time-signature segment: constant num/den
// from Measure to (exclusive) the next segment's Measure, with the
// pulse offset at which the segment's first measure starts.
type tsSegment struct {
	measure     int
	num, denom  int
	pulseStart  Pulse
	pulsePerMsr Pulse
}

func (c *Chart) tsSegments() []tsSegment {
	sigs := c.TimeSig
	if len(sigs) == 0 {
		sigs = []TimeSig{{Measure: 0, Num: 4, Denom: 4}}
	}
	segs := make([]tsSegment, len(sigs))
	pulseAcc := Pulse(0)
	for i, s := range sigs {
		ppm := Pulse(float64(4*s.Num) / float64(s.Denom) * PPQN)
		segs[i] = tsSegment{measure: s.Measure, num: s.Num, denom: s.Denom, pulseStart: pulseAcc, pulsePerMsr: ppm}
		if i+1 < len(sigs) {
			span := sigs[i+1].Measure - s.Measure
			pulseAcc += Pulse(span) * ppm
		}
	}
	return segs
}

// MeasureToPulse converts a 0-based measure index to its starting
// pulse, walking the time-signature list.
func (c *Chart) MeasureToPulse(m int) Pulse {
	segs := c.tsSegments()
	idx := sort.Search(len(segs), func(i int) bool { return segs[i].measure > m }) - 1
	if idx < 0 {
		idx = 0
	}
	seg := segs[idx]
	return seg.pulseStart + Pulse(m-seg.measure)*seg.pulsePerMsr
}

// PulseToMeasure is the inverse of MeasureToPulse.
func (c *Chart) PulseToMeasure(p Pulse) int {
	segs := c.tsSegments()
	idx := sort.Search(len(segs), func(i int) bool { return segs[i].pulseStart > p }) - 1
	if idx < 0 {
		idx = 0
	}
	seg := segs[idx]
	if seg.pulsePerMsr <= 0 {
		return seg.measure
	}
	return seg.measure + int((p-seg.pulseStart)/seg.pulsePerMsr)
}

// BeatLine is one crossing emitted by BeatLineIter.
type BeatLine struct {
	Pulse     Pulse
	IsMeasure bool
}

// BeatLineIter lazily walks beat (and measure) line crossings forward
// from pulse 0, following the chart's time-signature map. It never
// terminates on its own; callers stop calling Next when they've covered
// the pulse range they care about.
type BeatLineIter struct {
	c        *Chart
	segs     []tsSegment
	segIdx   int
	measure  int
	beatNum  int // 0-based beat within the current measure
}

// BeatLines returns an iterator starting at pulse 0.
func (c *Chart) BeatLines() *BeatLineIter {
	segs := c.tsSegments()
	return &BeatLineIter{c: c, segs: segs}
}

// Next returns the next beat-line crossing in pulse order.
func (it *BeatLineIter) Next() BeatLine {
	seg := it.segs[it.segIdx]
	pulsesPerBeat := Pulse(4 * PPQN / seg.denom)
	pulse := seg.pulseStart + Pulse(it.measure-seg.measure)*seg.pulsePerMsr + Pulse(it.beatNum)*pulsesPerBeat
	isMeasure := it.beatNum == 0

	it.beatNum++
	if it.beatNum >= seg.num {
		it.beatNum = 0
		it.measure++
		if it.segIdx+1 < len(it.segs) && it.measure >= it.segs[it.segIdx+1].measure {
			it.segIdx++
		}
	}
	return BeatLine{Pulse: pulse, IsMeasure: isMeasure}
}
