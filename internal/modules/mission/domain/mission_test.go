package domain

import (
	"testing"
	"time"
)

var testTargets = []TargetTone{
	{Name: "Tiefes A", FrequencyHz: 220, Color: "blau"},
	{Name: "Kammerton A", FrequencyHz: 440, Color: "gelb"},
	{Name: "Hohes E", FrequencyHz: 659.26, Color: "rot"},
}

func at(ms int) time.Time {
	return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(ms) * time.Millisecond)
}

func newTestController(t *testing.T) *Controller {
	t.Helper()
	c, err := NewController(testTargets)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func findEvent(events []Event, kind EventKind) (Event, bool) {
	for _, ev := range events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return Event{}, false
}

func TestContinuousHoldCompletesAtThreshold(t *testing.T) {
	t.Parallel()
	c := newTestController(t)
	c.Ingest(435, true, at(0)) // Tiefes A is current; 435 is out of tolerance for 220
	if c.State() != StateIdle {
		t.Fatalf("435 Hz must not hit the 220 Hz target, state %s", c.State())
	}

	// Scenario A against the 440 Hz target.
	c = mustAdvanceTo(t, c, 1)
	events := c.Ingest(435, true, at(0))
	if _, ok := findEvent(events, EventHitStarted); !ok {
		t.Fatalf("expected hit to start, events %v", events)
	}
	if events := c.Ingest(435, true, at(1400)); len(events) != 0 {
		t.Fatalf("no completion before 1500ms, got %v", events)
	}
	if got := c.HoldProgress(); got < 0.92 || got > 0.94 {
		t.Fatalf("expected progress 1400/1500, got %.3f", got)
	}
	events = c.Ingest(435, true, at(1500))
	done, ok := findEvent(events, EventTargetCompleted)
	if !ok {
		t.Fatalf("expected completion at exactly 1500ms, events %v", events)
	}
	if done.HeldFor != 1500*time.Millisecond {
		t.Fatalf("held duration = %v", done.HeldFor)
	}
	if c.State() != StateCompleted || c.CompletedCount() != 1 {
		t.Fatalf("state %s completed %d", c.State(), c.CompletedCount())
	}
}

func TestSingleOutOfToleranceSampleResetsHold(t *testing.T) {
	t.Parallel()
	c := newTestController(t)
	c = mustAdvanceTo(t, c, 1) // 440 Hz target

	// Scenario B: the 300 Hz sample at t=800 discards all accumulated hold.
	c.Ingest(435, true, at(0))
	events := c.Ingest(300, true, at(800))
	reset, ok := findEvent(events, EventHoldReset)
	if !ok {
		t.Fatalf("expected hold reset, events %v", events)
	}
	if reset.HeldFor != 800*time.Millisecond {
		t.Fatalf("discarded hold = %v", reset.HeldFor)
	}
	if c.State() != StateIdle || c.HoldProgress() != 0 {
		t.Fatalf("state %s progress %.2f after reset", c.State(), c.HoldProgress())
	}
	c.Ingest(435, true, at(801))
	if events := c.Ingest(435, true, at(1600)); len(events) != 0 {
		t.Fatalf("hold restarted at 801ms, completion impossible by 1600ms: %v", events)
	}
}

func TestNoSignalBehavesLikeOutOfTolerance(t *testing.T) {
	t.Parallel()
	c := newTestController(t)
	c.Ingest(220, true, at(0))
	if c.State() != StateHitting {
		t.Fatalf("state %s", c.State())
	}
	events := c.Ingest(0, false, at(700))
	if _, ok := findEvent(events, EventHoldReset); !ok {
		t.Fatalf("missing sample must reset the hold, events %v", events)
	}
	if c.State() != StateIdle {
		t.Fatalf("state %s", c.State())
	}
	if _, voiced := c.LastFrequency(); voiced {
		t.Fatal("last frequency must be unvoiced")
	}
}

func TestToleranceBoundaryIsInclusive(t *testing.T) {
	t.Parallel()
	c := newTestController(t)
	c.Ingest(220+ToleranceHz, true, at(0))
	if c.State() != StateHitting {
		t.Fatalf("exact boundary must count as a hit, state %s", c.State())
	}
	c.Ingest(220-ToleranceHz, true, at(100))
	if c.State() != StateHitting {
		t.Fatalf("lower boundary must count as a hit, state %s", c.State())
	}
	events := c.Ingest(220+ToleranceHz+0.01, true, at(200))
	if _, ok := findEvent(events, EventHoldReset); !ok {
		t.Fatal("just outside the boundary must reset")
	}
}

func TestCompletedIgnoresSamplesUntilAdvanceFires(t *testing.T) {
	t.Parallel()
	c := newTestController(t)
	holdTarget(t, c, 220, 0)
	if c.State() != StateCompleted {
		t.Fatalf("state %s", c.State())
	}
	if events := c.Ingest(900, true, at(1600)); len(events) != 0 {
		t.Fatalf("completed mission must ignore samples, got %v", events)
	}
	if events := c.Tick(at(1500 + 2999)); len(events) != 0 {
		t.Fatalf("advance fired before its delay elapsed: %v", events)
	}
	events := c.Tick(at(1500 + 3000))
	adv, ok := findEvent(events, EventTargetAdvanced)
	if !ok {
		t.Fatalf("expected advance at delay boundary, events %v", events)
	}
	if adv.TargetIndex != 1 || adv.Target.FrequencyHz != 440 {
		t.Fatalf("advanced to %+v", adv)
	}
	if c.State() != StateIdle || c.HoldProgress() != 0 {
		t.Fatalf("state %s progress %.2f after advance", c.State(), c.HoldProgress())
	}
}

func TestEndlessModeIsTerminal(t *testing.T) {
	t.Parallel()
	c := newTestController(t)

	// Scenario C: complete all three targets, then the delayed transition
	// enters endless mode and no further target logic runs.
	base := 0
	freqs := []float64{220, 440, 659.26}
	for i, f := range freqs {
		holdTarget(t, c, f, base)
		events := c.Tick(at(base + 1500 + 3000))
		if i < len(freqs)-1 {
			if _, ok := findEvent(events, EventTargetAdvanced); !ok {
				t.Fatalf("target %d: expected advance, events %v", i, events)
			}
		} else {
			if _, ok := findEvent(events, EventEndlessEntered); !ok {
				t.Fatalf("expected endless mode after final target, events %v", events)
			}
		}
		base += 1500 + 3000
	}

	if c.State() != StateEndless || c.CompletedCount() != 3 {
		t.Fatalf("state %s completed %d", c.State(), c.CompletedCount())
	}
	if _, ok := c.Target(); ok {
		t.Fatal("endless mode has no target")
	}
	if events := c.Ingest(523.25, true, at(base)); len(events) != 0 {
		t.Fatalf("samples in endless mode must not transition, got %v", events)
	}
	if f, voiced := c.LastFrequency(); !voiced || f != 523.25 {
		t.Fatalf("endless mode still records frequency for display, got %v %v", f, voiced)
	}
	if events := c.Tick(at(base + 10000)); len(events) != 0 {
		t.Fatalf("nothing left to fire in endless mode: %v", events)
	}
}

func TestResetInvalidatesPendingAdvance(t *testing.T) {
	t.Parallel()
	c := newTestController(t)
	holdTarget(t, c, 220, 0)
	if !c.AdvancePending() {
		t.Fatal("advance must be pending after completion")
	}
	c.Reset()
	if c.AdvancePending() {
		t.Fatal("reset must invalidate the pending advance")
	}
	if events := c.Tick(at(1500 + 3000)); len(events) != 0 {
		t.Fatalf("stale advance fired into the fresh session: %v", events)
	}
	if c.State() != StateIdle || c.TargetIndex() != 0 || c.CompletedCount() != 0 {
		t.Fatalf("reset controller: state %s index %d completed %d", c.State(), c.TargetIndex(), c.CompletedCount())
	}
}

func TestHoldProgressIsZeroOutsideHitting(t *testing.T) {
	t.Parallel()
	c := newTestController(t)
	if c.HoldProgress() != 0 {
		t.Fatal("idle progress must be 0")
	}
	c.Ingest(220, true, at(0))
	c.Ingest(220, true, at(750))
	if got := c.HoldProgress(); got != 0.5 {
		t.Fatalf("progress at 750/1500 = %.2f", got)
	}
	c.Ingest(220, true, at(2000))
	if c.State() != StateCompleted {
		t.Fatalf("state %s", c.State())
	}
	if c.HoldProgress() != 0 {
		t.Fatal("completed progress must be 0")
	}
}

func TestTargetIndexNeverDecreases(t *testing.T) {
	t.Parallel()
	c := newTestController(t)
	holdTarget(t, c, 220, 0)
	c.Tick(at(1500 + 3000))
	if c.TargetIndex() != 1 {
		t.Fatalf("index %d", c.TargetIndex())
	}
	c.Ingest(100, true, at(5000))
	c.Ingest(0, false, at(5100))
	if c.TargetIndex() != 1 {
		t.Fatalf("index decreased to %d", c.TargetIndex())
	}
}

func TestNewControllerRejectsInvalidTargets(t *testing.T) {
	t.Parallel()
	if _, err := NewController(nil); err == nil {
		t.Fatal("empty target list must be rejected")
	}
	if _, err := NewController([]TargetTone{{Name: "kaputt", FrequencyHz: -1}}); err == nil {
		t.Fatal("negative frequency must be rejected")
	}
}

// holdTarget drives the controller to completion of the current target by
// holding freq from baseMs until the required hold elapses.
func holdTarget(t *testing.T, c *Controller, freq float64, baseMs int) {
	t.Helper()
	c.Ingest(freq, true, at(baseMs))
	events := c.Ingest(freq, true, at(baseMs+1500))
	if _, ok := findEvent(events, EventTargetCompleted); !ok {
		t.Fatalf("target not completed at %v Hz, events %v", freq, events)
	}
}

// mustAdvanceTo completes targets until index is reached.
func mustAdvanceTo(t *testing.T, c *Controller, index int) *Controller {
	t.Helper()
	base := 0
	for c.TargetIndex() < index {
		target, _ := c.Target()
		holdTarget(t, c, target.FrequencyHz, base)
		if events := c.Tick(at(base + 1500 + 3000)); len(events) == 0 {
			t.Fatal("advance did not fire")
		}
		base += 1500 + 3000
	}
	return c
}
