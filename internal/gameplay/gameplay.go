// Package gameplay implements the per-frame game loop: the tick that
// advances play time, consumes score ticks, updates laser trackers and
// the gauge, and exposes a render snapshot. It is the one place that
// ties chart, scoreticker, scoring, gauge, laser, audiosync, and
// filter together behind one per-frame Tick entry point.
package gameplay

import (
	"sort"
	"time"

	"github.com/Drewol/kson-rs-sub000/internal/audiosync"
	"github.com/Drewol/kson-rs-sub000/internal/chart"
	"github.com/Drewol/kson-rs-sub000/internal/filter"
	"github.com/Drewol/kson-rs-sub000/internal/gauge"
	"github.com/Drewol/kson-rs-sub000/internal/hitrating"
	"github.com/Drewol/kson-rs-sub000/internal/laser"
	"github.com/Drewol/kson-rs-sub000/internal/result"
	"github.com/Drewol/kson-rs-sub000/internal/scoreticker"
	"github.com/Drewol/kson-rs-sub000/internal/scoring"
	"github.com/Drewol/kson-rs-sub000/ports"
)

// hitFeedCap bounds the render-facing recent-hits feed; the full
// history for the end-of-song Result is kept separately and
// unbounded.
const hitFeedCap = 24

// Config are the fixed identifiers and gauge choice for one play of a
// chart; everything else the Loop derives from the chart itself.
type Config struct {
	SongID string
	DiffID string
	Gauge  gauge.Kind
}

// Loop is one running play of a chart. It owns every piece of
// game-thread state: chart, score-tick list, gauge, combo, laser
// trackers, and scoring. The audio thread and worker tasks are driven
// by other packages (audiobackend, workerpool); Loop only reaches into
// the audio thread via the command-queue-style filter.Controller.
type Loop struct {
	chart  *chart.Chart
	cfg    Config
	sync   *audiosync.Controller
	filter *filter.Controller

	ticks   []scoreticker.PlacedScoreTick
	summary scoreticker.Summary
	gauge   gauge.Gauge

	lasers          [2]*laser.Tracker
	laserSectionIdx [2]int

	combo    int
	maxCombo int
	score    int

	recentFeed []ports.HitEvent
	history    []result.HitEvent

	done       bool
	manualExit bool
}

// New builds a Loop for chart c. filterCtl may be nil if no audio
// backend is wired (e.g. headless tests); the laser-driven filter
// simply goes unused in that case.
func New(c *chart.Chart, cfg Config, sync *audiosync.Controller, filterCtl *filter.Controller) *Loop {
	ticks, sum := scoreticker.Generate(c)
	l := &Loop{
		chart:   c,
		cfg:     cfg,
		sync:    sync,
		filter:  filterCtl,
		ticks:   ticks,
		summary: sum,
		gauge:   gauge.New(cfg.Gauge, sum.ChipCount, sum.LongCount()),
		lasers:  [2]*laser.Tracker{laser.New(), laser.New()},
	}
	return l
}

// btnToLane maps an input button to the score-tick lane it judges
// chip presses against. Start/Back report ok=false: they drive scene
// control, not scoring.
func btnToLane(b ports.Button) (kind chart.LaneKind, lane int, ok bool) {
	if n := b.BTLane(); n >= 0 {
		return chart.LaneBT, n, true
	}
	if n := b.FXLane(); n >= 0 {
		return chart.LaneFX, n, true
	}
	return 0, 0, false
}

// HandlePress delivers a one-shot early/on-time chip hit for a button
// press event. It searches forward for the lane's nearest
// not-yet-judged Chip tick and, if the press falls within the Miss
// window of it, judges and removes it immediately rather than waiting
// for the frame-driven idle sweep.
func (l *Loop) HandlePress(btn ports.Button, pressTime time.Time) {
	laneKind, lane, ok := btnToLane(btn)
	if !ok {
		return
	}
	pressMs := l.sync.MsAt(pressTime)
	for i, tk := range l.ticks {
		if tk.Kind != scoreticker.KindChip || tk.LaneKind != laneKind || tk.Lane != lane {
			continue
		}
		rating := scoring.JudgeChipPress(l.chart, tk, pressMs)
		if rating == hitrating.None {
			continue
		}
		l.applyRating(tk, rating, pressMs-l.chart.PulseToMs(tk.Pulse))
		l.removeTickAt(i)
		return
	}
}

// HandleLaser integrates one analog laser delta into its side's
// tracker, applying the overshoot-clamp rule against the chart's
// current target direction.
func (l *Loop) HandleLaser(side int, delta float64, now time.Time) {
	if side < 0 || side > 1 {
		return
	}
	currentPulse := l.currentPulse(now)
	dir := 0
	if sec := l.activeLaserSection(side, currentPulse); sec != nil {
		dir = laser.ChartDirection(sec, currentPulse)
	}
	l.lasers[side].ApplyDelta(delta, now, dir)
}

func (l *Loop) currentPulse(now time.Time) chart.Pulse {
	playMs := l.sync.CurrentMs(now) - l.chart.Audio.BGMOffsetMs
	p := l.chart.MsToPulse(playMs)
	if p < 0 {
		return 0
	}
	return p
}

// activeLaserSection returns the side's laser section covering pulse
// p, advancing a monotonic per-side index so repeated calls across
// frames stay O(1) amortized rather than rescanning the full section
// list.
func (l *Loop) activeLaserSection(side int, p chart.Pulse) *chart.LaserSection {
	sections := l.chart.Notes.Laser[side]
	idx := l.laserSectionIdx[side]
	for idx < len(sections) && sections[idx].End() < p {
		idx++
	}
	l.laserSectionIdx[side] = idx
	if idx < len(sections) && sections[idx].Contains(p) {
		return &sections[idx]
	}
	return nil
}

// nextLaserTickIsSlam reports whether the next not-yet-consumed tick
// on side's laser lane is a Slam, the input TickAssist needs to know
// whether to keep snapping the cursor to the chart target.
func (l *Loop) nextLaserTickIsSlam(side int) bool {
	for _, tk := range l.ticks {
		if tk.LaneKind != chart.LaneLaser || tk.Lane != side {
			continue
		}
		return tk.Kind == scoreticker.KindSlam
	}
	return false
}

// Tick advances the loop by one game-thread frame: read the play time
// from the sync controller, update laser trackers, drive the filter controller, and judge every
// leading settled score tick. held reports whether each BT/FX lane's
// hold button is currently depressed, used for Hold-tick judging.
func (l *Loop) Tick(now time.Time, held func(laneKind chart.LaneKind, lane int) bool) {
	if l.done {
		return
	}
	playMs := l.sync.CurrentMs(now)
	currentPulse := l.currentPulse(now)
	missDeadlineMs := playMs - l.chart.Audio.BGMOffsetMs - scoring.GoodMs
	missDeadlinePulse := l.chart.MsToPulse(missDeadlineMs)

	for side := 0; side < 2; side++ {
		var target *float64
		wide := 1
		if sec := l.activeLaserSection(side, currentPulse); sec != nil {
			v := sec.ValueAt(currentPulse)
			target = &v
			if sec.Wide != 0 {
				wide = sec.Wide
			}
		}
		if l.lasers[side].SetChartState(target, wide) {
			l.lasers[side].ArmAssist(10)
		}
		l.lasers[side].TickAssist(l.nextLaserTickIsSlam(side))
	}

	if l.filter != nil {
		l.filter.Update(l.lasers[0].Cursor, l.lasers[1].Cursor, l.lasers[0].Active, l.lasers[1].Active)
	}

	front := 0
	for front < len(l.ticks) && l.ticks[front].Pulse <= currentPulse {
		tk := l.ticks[front]
		rating := l.judge(tk, missDeadlinePulse, held)
		if !rating.Settled() {
			front++
			continue
		}
		l.applyRating(tk, rating, 0)
		l.ticks = append(l.ticks[:front], l.ticks[front+1:]...)
	}

	if currentPulse >= l.chart.DurationPulse {
		l.done = true
	}
}

func (l *Loop) judge(tk scoreticker.PlacedScoreTick, missDeadlinePulse chart.Pulse, held func(chart.LaneKind, int) bool) hitrating.Rating {
	switch tk.Kind {
	case scoreticker.KindChip:
		return scoring.JudgeChipIdle(tk, missDeadlinePulse)
	case scoreticker.KindHold:
		return scoring.JudgeHold(held(tk.LaneKind, tk.Lane))
	case scoreticker.KindLaser:
		return scoring.JudgeLaser(tk, l.lasers[tk.Lane].Cursor)
	case scoreticker.KindSlam:
		return scoring.JudgeSlam(l.chart, tk, l.lasers[tk.Lane], missDeadlinePulse, l.sync)
	default:
		return hitrating.Miss
	}
}

func (l *Loop) applyRating(tk scoreticker.PlacedScoreTick, rating hitrating.Rating, deltaMs float64) {
	cat := gauge.CategoryTick
	if tk.Kind == scoreticker.KindChip {
		cat = gauge.CategoryChip
	}
	l.gauge.Apply(cat, rating)
	l.score += rating.Score()

	switch rating {
	case hitrating.Crit, hitrating.Good:
		l.combo++
		if l.combo > l.maxCombo {
			l.maxCombo = l.combo
		}
	case hitrating.Miss:
		l.combo = 0
	}

	ev := ports.HitEvent{Pulse: tk.Pulse, Rating: rating, DeltaMs: deltaMs}
	l.recentFeed = append(l.recentFeed, ev)
	if len(l.recentFeed) > hitFeedCap {
		l.recentFeed = l.recentFeed[len(l.recentFeed)-hitFeedCap:]
	}
	l.history = append(l.history, result.HitEvent{Pulse: int64(tk.Pulse), Rating: rating, DeltaMs: deltaMs})
}

func (l *Loop) removeTickAt(i int) {
	l.ticks = append(l.ticks[:i], l.ticks[i+1:]...)
}

// RequestClose marks the loop for manual exit (the Back button),
// settled at the next Finish call.
func (l *Loop) RequestClose() {
	l.manualExit = true
	l.done = true
}

// Done reports whether the song has reached its end or been manually
// closed.
func (l *Loop) Done() bool { return l.done }

// RenderState builds the per-frame snapshot a renderer consumes.
func (l *Loop) RenderState(now time.Time) ports.RenderState {
	playMs := l.sync.CurrentMs(now)
	currentPulse := l.currentPulse(now)
	zoom, rotX, shiftX := l.chart.Camera.ValuesAt(currentPulse)

	feed := make([]ports.HitEvent, len(l.recentFeed))
	copy(feed, l.recentFeed)

	return ports.RenderState{
		CurrentPulse: currentPulse,
		CurrentMs:    playMs,
		LaserCursor:  [2]float64{l.lasers[0].Cursor, l.lasers[1].Cursor},
		LaserWide:    [2]int{l.lasers[0].Wide, l.lasers[1].Wide},
		Combo:        l.combo,
		MaxCombo:     l.maxCombo,
		Score:        l.score,
		DisplayScore: scoreticker.DisplayScore(l.score, scoreticker.MaxScore(l.summary)),
		GaugeValue:   l.gauge.Value(),
		Cleared:      l.gauge.Cleared(),
		HitFeed:      feed,
		CameraZoom:   zoom,
		CameraRotX:   rotX,
		CameraShiftX: shiftX,
	}
}

// Finish builds the final Result payload. Valid once Done() reports
// true.
func (l *Loop) Finish(durationMs float64) result.Result {
	hist := make([]result.HitEvent, len(l.history))
	copy(hist, l.history)
	sort.SliceStable(hist, func(i, j int) bool { return hist[i].Pulse < hist[j].Pulse })

	return result.Result{
		SongID:     l.cfg.SongID,
		DiffID:     l.cfg.DiffID,
		Score:      scoreticker.DisplayScore(l.score, scoreticker.MaxScore(l.summary)),
		GaugeValue: l.gauge.Value(),
		HitRatings: hist,
		MaxCombo:   l.maxCombo,
		DurationMs: durationMs,
		ManualExit: l.manualExit,
		ChartHash:  l.chart.Hash(),
	}
}
