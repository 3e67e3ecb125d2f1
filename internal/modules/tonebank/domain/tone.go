package domain

import (
	"fmt"
	"math"
	"strings"
)

// noteIndex maps German note names to their chromatic offset from C.
// "H" is the German B natural, "B" the German B flat.
var noteIndex = map[string]int{
	"C": 0, "CIS": 1, "DES": 1,
	"D": 2, "DIS": 3, "ES": 3,
	"E": 4, "F": 5, "FIS": 6, "GES": 6,
	"G": 7, "GIS": 8, "AS": 8,
	"A": 9, "B": 10, "H": 11,
}

// NoteFrequency converts a German note name and octave to Hz via the equal
// temperament relation around A4 = 440 Hz.
func NoteFrequency(note string, octave int) (float64, error) {
	idx, ok := noteIndex[strings.ToUpper(strings.TrimSpace(note))]
	if !ok {
		return 0, fmt.Errorf("unknown note name: %q", note)
	}
	if octave < 0 || octave > 8 {
		return 0, fmt.Errorf("octave %d out of range [0,8]", octave)
	}
	midi := (octave+1)*12 + idx
	return 440 * math.Pow(2, float64(midi-69)/12), nil
}

// Step is one tone of a program: play the note, then rest for the pause.
type Step struct {
	Note       string
	Octave     int
	DurationMs int
	PauseMs    int
}

func (s Step) Validate() error {
	if _, err := NoteFrequency(s.Note, s.Octave); err != nil {
		return err
	}
	if s.DurationMs <= 0 {
		return fmt.Errorf("step duration must be positive")
	}
	if s.PauseMs < 0 {
		return fmt.Errorf("step pause must not be negative")
	}
	return nil
}

// Program is one barcode-triggered tone sequence.
type Program struct {
	Code  string
	Title string
	Color string
	Steps []Step
}

func (p Program) Validate() error {
	if p.Code == "" {
		return fmt.Errorf("program code is required")
	}
	if p.Title == "" {
		return fmt.Errorf("program %q title is required", p.Code)
	}
	if len(p.Steps) == 0 {
		return fmt.Errorf("program %q has no steps", p.Code)
	}
	for i, step := range p.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("program %q step %d: %w", p.Code, i, err)
		}
	}
	return nil
}

// DurationMs is the total playing time including pauses.
func (p Program) DurationMs() int {
	total := 0
	for _, step := range p.Steps {
		total += step.DurationMs + step.PauseMs
	}
	return total
}

// Pulse is one slice of the expanded playback schedule. Rest pulses carry no
// frequency; the renderer goes dark for their duration.
type Pulse struct {
	FrequencyHz float64
	DurationMs  int
	Rest        bool
}

// Playback expands a program into the flat pulse schedule the renderer walks.
func Playback(p Program) ([]Pulse, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	pulses := make([]Pulse, 0, len(p.Steps)*2)
	for _, step := range p.Steps {
		freq, err := NoteFrequency(step.Note, step.Octave)
		if err != nil {
			return nil, err
		}
		pulses = append(pulses, Pulse{FrequencyHz: freq, DurationMs: step.DurationMs})
		if step.PauseMs > 0 {
			pulses = append(pulses, Pulse{DurationMs: step.PauseMs, Rest: true})
		}
	}
	return pulses, nil
}

// Bank is the immutable set of programs wired to the kiosk's barcodes.
type Bank struct {
	programs map[string]Program
	order    []string
}

func NewBank(programs []Program) (*Bank, error) {
	bank := &Bank{programs: make(map[string]Program, len(programs))}
	for _, p := range programs {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := bank.programs[p.Code]; exists {
			return nil, fmt.Errorf("duplicate program code: %s", p.Code)
		}
		bank.programs[p.Code] = p
		bank.order = append(bank.order, p.Code)
	}
	return bank, nil
}

func (b *Bank) Lookup(code string) (Program, bool) {
	p, ok := b.programs[code]
	return p, ok
}

// Programs returns the bank in registration order.
func (b *Bank) Programs() []Program {
	out := make([]Program, 0, len(b.order))
	for _, code := range b.order {
		out = append(out, b.programs[code])
	}
	return out
}
