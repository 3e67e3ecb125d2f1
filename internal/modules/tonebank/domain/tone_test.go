package domain

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestNoteFrequencyAnchorsOnKammerton(t *testing.T) {
	t.Parallel()

	freq, err := NoteFrequency("A", 4)
	if err != nil {
		t.Fatalf("NoteFrequency: %v", err)
	}
	if !almostEqual(freq, 440) {
		t.Fatalf("A4 = %.2f Hz, want 440", freq)
	}
}

func TestNoteFrequencyGermanNames(t *testing.T) {
	t.Parallel()

	cases := []struct {
		note   string
		octave int
		want   float64
	}{
		{"H", 4, 493.88},
		{"B", 4, 466.16},
		{"C", 5, 523.25},
		{"Fis", 3, 185.00},
		{"e", 4, 329.63},
	}
	for _, tc := range cases {
		freq, err := NoteFrequency(tc.note, tc.octave)
		if err != nil {
			t.Fatalf("NoteFrequency(%q, %d): %v", tc.note, tc.octave, err)
		}
		if !almostEqual(freq, tc.want) {
			t.Fatalf("%s%d = %.2f Hz, want %.2f", tc.note, tc.octave, freq, tc.want)
		}
	}
}

func TestNoteFrequencyRejectsUnknownNote(t *testing.T) {
	t.Parallel()

	if _, err := NoteFrequency("X", 4); err == nil {
		t.Fatal("expected error for unknown note")
	}
	if _, err := NoteFrequency("A", 12); err == nil {
		t.Fatal("expected error for octave out of range")
	}
}

func TestPlaybackExpandsStepsAndPauses(t *testing.T) {
	t.Parallel()

	program := Program{
		Code:  "test",
		Title: "Test",
		Steps: []Step{
			{Note: "A", Octave: 4, DurationMs: 400, PauseMs: 100},
			{Note: "C", Octave: 5, DurationMs: 600},
		},
	}

	pulses, err := Playback(program)
	if err != nil {
		t.Fatalf("Playback: %v", err)
	}
	if len(pulses) != 3 {
		t.Fatalf("len(pulses) = %d, want 3", len(pulses))
	}
	if pulses[0].Rest || !almostEqual(pulses[0].FrequencyHz, 440) || pulses[0].DurationMs != 400 {
		t.Fatalf("unexpected first pulse: %+v", pulses[0])
	}
	if !pulses[1].Rest || pulses[1].DurationMs != 100 {
		t.Fatalf("unexpected rest pulse: %+v", pulses[1])
	}
	if pulses[2].Rest || !almostEqual(pulses[2].FrequencyHz, 523.25) {
		t.Fatalf("unexpected last pulse: %+v", pulses[2])
	}
	if got := program.DurationMs(); got != 1100 {
		t.Fatalf("DurationMs = %d, want 1100", got)
	}
}

func TestBankLookupAndOrder(t *testing.T) {
	t.Parallel()

	bank, err := NewBank([]Program{
		{Code: "sonnenlied", Title: "Sonnenlied", Steps: []Step{{Note: "C", Octave: 4, DurationMs: 300}}},
		{Code: "brummbaer", Title: "Brummbär", Steps: []Step{{Note: "A", Octave: 2, DurationMs: 300}}},
	})
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}

	if _, ok := bank.Lookup("sonnenlied"); !ok {
		t.Fatal("expected sonnenlied to resolve")
	}
	if _, ok := bank.Lookup("nachtigall"); ok {
		t.Fatal("unexpected hit for unknown code")
	}

	programs := bank.Programs()
	if len(programs) != 2 || programs[0].Code != "sonnenlied" || programs[1].Code != "brummbaer" {
		t.Fatalf("unexpected program order: %+v", programs)
	}
}

func TestNewBankRejectsDuplicateCodes(t *testing.T) {
	t.Parallel()

	_, err := NewBank([]Program{
		{Code: "doppelt", Title: "Eins", Steps: []Step{{Note: "C", Octave: 4, DurationMs: 300}}},
		{Code: "doppelt", Title: "Zwei", Steps: []Step{{Note: "D", Octave: 4, DurationMs: 300}}},
	})
	if err == nil {
		t.Fatal("expected duplicate code error")
	}
}
