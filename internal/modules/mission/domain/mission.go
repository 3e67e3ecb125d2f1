package domain

import (
	"fmt"
	"time"
)

// Tuning values of the pitch mission. The kiosk hardware never exposes these;
// they are part of the game design, not configuration.
const (
	ToleranceHz  = 40.0
	RequiredHold = 1500 * time.Millisecond
	AdvanceDelay = 3000 * time.Millisecond
)

// TargetTone is one tone of the ordered mission sequence. The sequence is
// immutable for the lifetime of a session.
type TargetTone struct {
	Name        string
	FrequencyHz float64
	Color       string
}

func (t TargetTone) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("target name is required")
	}
	if t.FrequencyHz <= 0 {
		return fmt.Errorf("target %q frequency must be positive", t.Name)
	}
	return nil
}

type State int

const (
	StateIdle State = iota
	StateHitting
	StateCompleted
	StateEndless
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHitting:
		return "hitting"
	case StateCompleted:
		return "completed"
	case StateEndless:
		return "endless"
	}
	return "unknown"
}

type EventKind string

const (
	EventHitStarted      EventKind = "hit_started"
	EventHoldReset       EventKind = "hold_reset"
	EventTargetCompleted EventKind = "target_completed"
	EventTargetAdvanced  EventKind = "target_advanced"
	EventEndlessEntered  EventKind = "endless_entered"
)

// Event describes a state transition produced by Ingest or Tick.
type Event struct {
	Kind        EventKind
	Target      TargetTone
	TargetIndex int
	HeldFor     time.Duration
	At          time.Time
}

// pendingAdvance is the deferred transition out of StateCompleted. It carries
// the generation it was scheduled under so a Reset in between invalidates it
// instead of letting a stale advance fire into the fresh session.
type pendingAdvance struct {
	due        time.Time
	generation uint64
	toEndless  bool
}

// Controller is the pitch mission state machine. One instance exists per
// kiosk session, owned by the presentation layer and fed synchronously once
// per analysis frame; it is not safe for concurrent use and does not need to
// be. All timing derives from the caller-supplied instants, never from the
// wall clock.
type Controller struct {
	targets    []TargetTone
	state      State
	index      int
	completed  int
	hitStart   time.Time
	held       time.Duration
	lastFreq   float64
	voiced     bool
	pending    *pendingAdvance
	generation uint64
}

func NewController(targets []TargetTone) (*Controller, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("mission needs at least one target tone")
	}
	owned := make([]TargetTone, len(targets))
	copy(owned, targets)
	for _, t := range owned {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return &Controller{targets: owned}, nil
}

// Ingest classifies one dominant-frequency sample against the current target.
// voiced=false means the upstream analysis found no peak above its energy
// floor; that is a normal input value, not an error, and behaves like an
// out-of-tolerance sample. Returned events are in occurrence order.
func (c *Controller) Ingest(freqHz float64, voiced bool, at time.Time) []Event {
	c.lastFreq = freqHz
	c.voiced = voiced

	switch c.state {
	case StateEndless:
		// Free play: the sample is recorded for visualization only.
		return nil
	case StateCompleted:
		// Success acknowledgment window: samples are ignored until the
		// scheduled advance fires via Tick.
		return nil
	}

	if !voiced {
		return c.interrupt(at)
	}

	target := c.targets[c.index]
	diff := freqHz - target.FrequencyHz
	if diff < 0 {
		diff = -diff
	}
	if diff > ToleranceHz {
		return c.interrupt(at)
	}

	var events []Event
	if c.state == StateIdle {
		c.state = StateHitting
		c.hitStart = at
		c.held = 0
		events = append(events, Event{Kind: EventHitStarted, Target: target, TargetIndex: c.index, At: at})
	}
	c.held = at.Sub(c.hitStart)
	if c.held < RequiredHold {
		return events
	}

	c.state = StateCompleted
	c.completed++
	c.pending = &pendingAdvance{
		due:        at.Add(AdvanceDelay),
		generation: c.generation,
		toEndless:  c.completed == len(c.targets),
	}
	events = append(events, Event{Kind: EventTargetCompleted, Target: target, TargetIndex: c.index, HeldFor: c.held, At: at})
	return events
}

// Tick fires the deferred advance once its delay has elapsed. The frame loop
// calls it every frame; it is a no-op unless an advance is both pending and due.
func (c *Controller) Tick(at time.Time) []Event {
	if c.pending == nil || at.Before(c.pending.due) {
		return nil
	}
	pending := *c.pending
	c.pending = nil
	if pending.generation != c.generation {
		// Scheduled before a reset; the session it belonged to is gone.
		return nil
	}

	if pending.toEndless {
		c.state = StateEndless
		c.held = 0
		return []Event{{Kind: EventEndlessEntered, At: at}}
	}
	c.index++
	c.state = StateIdle
	c.held = 0
	target := c.targets[c.index]
	return []Event{{Kind: EventTargetAdvanced, Target: target, TargetIndex: c.index, At: at}}
}

// Reset returns the controller to the start of the sequence and invalidates
// any pending advance.
func (c *Controller) Reset() {
	c.generation++
	c.state = StateIdle
	c.index = 0
	c.completed = 0
	c.held = 0
	c.hitStart = time.Time{}
	c.pending = nil
	c.voiced = false
	c.lastFreq = 0
}

func (c *Controller) interrupt(at time.Time) []Event {
	if c.state != StateHitting {
		return nil
	}
	target := c.targets[c.index]
	held := c.held
	c.state = StateIdle
	c.held = 0
	c.hitStart = time.Time{}
	return []Event{{Kind: EventHoldReset, Target: target, TargetIndex: c.index, HeldFor: held, At: at}}
}

func (c *Controller) State() State { return c.state }

// Target returns the current target tone. ok is false in endless mode, where
// no target logic runs anymore.
func (c *Controller) Target() (TargetTone, bool) {
	if c.state == StateEndless {
		return TargetTone{}, false
	}
	return c.targets[c.index], true
}

func (c *Controller) TargetIndex() int    { return c.index }
func (c *Controller) CompletedCount() int { return c.completed }
func (c *Controller) TotalTargets() int   { return len(c.targets) }

// HoldProgress is the hold-duration ratio clamped to [0,1]. It is 0 in every
// state except hitting.
func (c *Controller) HoldProgress() float64 {
	if c.state != StateHitting {
		return 0
	}
	ratio := float64(c.held) / float64(RequiredHold)
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

// LastFrequency reports the most recent sample for visualization. ok is false
// while the analysis delivers no signal.
func (c *Controller) LastFrequency() (float64, bool) {
	return c.lastFreq, c.voiced
}

// AdvancePending reports whether the controller is inside the success
// acknowledgment window between a completion and its deferred advance.
func (c *Controller) AdvancePending() bool { return c.pending != nil }
