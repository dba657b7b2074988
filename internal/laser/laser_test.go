package laser

import (
	"testing"
	"time"
)

func timeZero() time.Time { return time.Unix(0, 0) }

func TestRisingEdgeDetected(t *testing.T) {
	tr := New()
	if edge := tr.SetChartState(nil, 1); edge {
		t.Fatal("no target yet: should not be a rising edge")
	}
	v := 0.5
	if edge := tr.SetChartState(&v, 1); !edge {
		t.Fatal("expected rising edge when target first appears")
	}
	if edge := tr.SetChartState(&v, 1); edge {
		t.Fatal("second frame with same target should not be a rising edge")
	}
}

func TestCursorHiddenWithoutTarget(t *testing.T) {
	tr := New()
	tr.Cursor = 0.8
	tr.SetChartState(nil, 1)
	if tr.Cursor != 0 {
		t.Fatalf("expected cursor to reset to 0 when hidden, got %v", tr.Cursor)
	}
}

func TestAssistSnapsToTarget(t *testing.T) {
	tr := New()
	v := 0.3
	tr.SetChartState(&v, 1)
	tr.ArmAssist(10)
	tr.Cursor = 0.9
	tr.TickAssist(false)
	if tr.Cursor != 0.3 {
		t.Fatalf("expected assist snap to 0.3, got %v", tr.Cursor)
	}
	if tr.AssistTicks != 9 {
		t.Fatalf("expected assist countdown to decrement, got %d", tr.AssistTicks)
	}
}

func TestAssistDoesNotSnapOnSlam(t *testing.T) {
	tr := New()
	v := 0.3
	tr.SetChartState(&v, 1)
	tr.ArmAssist(10)
	tr.Cursor = 0.9
	tr.TickAssist(true)
	if tr.Cursor != 0.9 {
		t.Fatalf("expected no snap ahead of a slam, got %v", tr.Cursor)
	}
}

func TestApplyDeltaClampsToRange(t *testing.T) {
	tr := New()
	tr.ApplyDelta(-2, timeZero(), 0)
	if tr.Cursor != 0 {
		t.Fatalf("expected clamp to 0, got %v", tr.Cursor)
	}
	tr.Cursor = 0
	tr.ApplyDelta(5, timeZero(), 0)
	if tr.Cursor != 1 {
		t.Fatalf("expected clamp to 1, got %v", tr.Cursor)
	}
}

func TestApplyDeltaHoldsAtTargetAgainstDirection(t *testing.T) {
	tr := New()
	v := 0.5
	tr.SetChartState(&v, 1)
	tr.Cursor = 0.5
	// Chart moving up (dir=1); player nudges down against it.
	tr.ApplyDelta(-0.05, timeZero(), 1)
	if tr.Cursor != 0.5 {
		t.Fatalf("expected cursor held at target, got %v", tr.Cursor)
	}
}
