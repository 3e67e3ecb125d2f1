package dto

// ProgramOutput summarises one barcode program for listings.
type ProgramOutput struct {
	Code       string
	Title      string
	Color      string
	Steps      int
	DurationMs int
}

// PulseOutput is one slice of an expanded playback schedule.
type PulseOutput struct {
	FrequencyHz float64
	DurationMs  int
	Rest        bool
}

// ScanOutput is the result of resolving a scanned barcode.
type ScanOutput struct {
	Program ProgramOutput
	Pulses  []PulseOutput
}
