package gauge

import (
	"testing"

	"github.com/Drewol/kson-rs-sub000/internal/hitrating"
)

func TestNormalAllCritChipsOnly(t *testing.T) {
	g := New(KindNormal, 10, 0)
	for i := 0; i < 10; i++ {
		g.Apply(CategoryChip, hitrating.Crit)
	}
	if got := g.Value(); got < 0.999 {
		t.Fatalf("expected gauge clamp to 1.0, got %v", got)
	}
	if !g.Cleared() {
		t.Fatal("expected cleared")
	}
}

func TestNormalHalfCritHalfMiss(t *testing.T) {
	g := New(KindNormal, 10, 0)
	for i := 0; i < 5; i++ {
		g.Apply(CategoryChip, hitrating.Crit)
		g.Apply(CategoryChip, hitrating.Miss)
	}
	got := g.Value()
	want := 5*0.21 - 5*0.02
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("gauge = %v, want %v", got, want)
	}
}

func TestGaugeBoundsNeverExceedRange(t *testing.T) {
	g := New(KindNormal, 3, 7)
	seq := []hitrating.Rating{hitrating.Crit, hitrating.Miss, hitrating.Good, hitrating.Miss, hitrating.Crit}
	for i := 0; i < 50; i++ {
		g.Apply(CategoryTick, seq[i%len(seq)])
		if v := g.Value(); v < 0 || v > 1 {
			t.Fatalf("gauge out of bounds: %v", v)
		}
	}
}

func TestHardGaugeFailsAndStaysFailed(t *testing.T) {
	g := New(KindHard, 5, 0)
	for i := 0; i < 20; i++ {
		g.Apply(CategoryChip, hitrating.Miss)
	}
	if g.Cleared() {
		t.Fatal("expected hard gauge to fail")
	}
	g.Apply(CategoryChip, hitrating.Crit)
	if g.Value() != 0 {
		t.Fatal("failed hard gauge must not regain")
	}
}

func TestHardGaugeClearsOnAllCrit(t *testing.T) {
	g := New(KindHard, 5, 0)
	for i := 0; i < 5; i++ {
		g.Apply(CategoryChip, hitrating.Crit)
	}
	if !g.Cleared() {
		t.Fatal("expected a full-start hard gauge to clear on an all-crit run")
	}
}

func TestMixedGainDerivation(t *testing.T) {
	g := New(KindNormal, 4, 16).(*Normal)
	if g.chipGain <= 0 || g.tickGain <= 0 {
		t.Fatalf("expected positive gains, got chip=%v tick=%v", g.chipGain, g.tickGain)
	}
	if g.chipGain != g.tickGain*4 {
		t.Fatalf("expected chip_gain == 4*tick_gain, got chip=%v tick=%v", g.chipGain, g.tickGain)
	}
}
