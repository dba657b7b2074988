package scoreticker

import (
	"testing"

	"github.com/Drewol/kson-rs-sub000/internal/chart"
)

func TestGenerateChipTick(t *testing.T) {
	c := &chart.Chart{BPM: []chart.BPMPoint{{Pulse: 0, BPM: 120}}}
	c.Notes.BT[0] = []chart.Interval{{Pulse: chart.PPQN}}
	ticks, sum := Generate(c)
	if len(ticks) != 1 || ticks[0].Kind != KindChip {
		t.Fatalf("expected one chip tick, got %+v", ticks)
	}
	if sum.ChipCount != 1 {
		t.Fatalf("expected ChipCount=1, got %d", sum.ChipCount)
	}
}

func TestGenerateHoldGrid(t *testing.T) {
	c := &chart.Chart{BPM: []chart.BPMPoint{{Pulse: 0, BPM: 120}}}
	c.Notes.FX[0] = []chart.Interval{{Pulse: 0, Length: chart.PPQN}}
	ticks, sum := Generate(c)
	wantCount := chart.PPQN / HoldTickGrid
	if len(ticks) != wantCount {
		t.Fatalf("expected %d hold ticks, got %d", wantCount, len(ticks))
	}
	if sum.HoldCount != wantCount {
		t.Fatalf("summary HoldCount = %d, want %d", sum.HoldCount, wantCount)
	}
	for _, tk := range ticks {
		if tk.Kind != KindHold || tk.LaneKind != chart.LaneFX {
			t.Fatalf("unexpected tick %+v", tk)
		}
	}
}

func TestGenerateSlamAndLaserTicks(t *testing.T) {
	vf := 1.0
	c := &chart.Chart{BPM: []chart.BPMPoint{{Pulse: 0, BPM: 120}}}
	c.Notes.Laser[0] = []chart.LaserSection{
		{
			Pulse: 0,
			Wide:  1,
			Points: []chart.GraphPoint{
				{RelPulse: 0, Value: 0, VF: &vf},
				{RelPulse: chart.PPQN, Value: 1},
			},
		},
	}
	ticks, sum := Generate(c)
	if sum.SlamCount != 1 {
		t.Fatalf("expected one slam, got %d", sum.SlamCount)
	}
	if ticks[0].Kind != KindSlam || ticks[0].SlamEnd != 1.0 {
		t.Fatalf("expected leading slam tick, got %+v", ticks[0])
	}
	if sum.LaserCount == 0 {
		t.Fatal("expected laser ticks between slam and segment end")
	}
}

func TestTicksSortedByPulse(t *testing.T) {
	c := &chart.Chart{BPM: []chart.BPMPoint{{Pulse: 0, BPM: 120}}}
	c.Notes.BT[0] = []chart.Interval{{Pulse: 480}}
	c.Notes.FX[0] = []chart.Interval{{Pulse: 240}}
	ticks, _ := Generate(c)
	for i := 1; i < len(ticks); i++ {
		if ticks[i].Pulse < ticks[i-1].Pulse {
			t.Fatalf("ticks not sorted: %+v", ticks)
		}
	}
}

func TestMaxAndDisplayScore(t *testing.T) {
	sum := Summary{ChipCount: 5}
	max := MaxScore(sum)
	if max != 10 {
		t.Fatalf("expected max score 10, got %d", max)
	}
	if got := DisplayScore(max, max); got != 10000000 {
		t.Fatalf("expected perfect display score, got %d", got)
	}
	if got := DisplayScore(0, max); got != 0 {
		t.Fatalf("expected zero display score, got %d", got)
	}
}
