package out

import (
	"context"
	"fmt"
	"math"

	"klangkiosk/internal/modules/analyzer/domain"
	analyzerout "klangkiosk/internal/modules/analyzer/port/out"
)

// SynthSegment is one step of the synthetic capture script. Level 0 renders
// silence (a rest between tones).
type SynthSegment struct {
	FrequencyHz float64
	Frames      int
	Level       float64
}

// SynthSource synthesizes magnitude frames without any audio hardware: a
// clean spectral peak at the scripted frequency over a low noise floor. The
// kiosk demo mode and the tests run on it. Deterministic by construction.
type SynthSource struct {
	sampleRate int
	fftSize    int
	script     []SynthSegment
	segment    int
	frame      int
	open       bool
}

func NewSynthSource(sampleRate, fftSize int, script []SynthSegment) (*SynthSource, error) {
	if sampleRate <= 0 || fftSize <= 0 {
		return nil, fmt.Errorf("synth source needs positive sample rate and fft size")
	}
	if len(script) == 0 {
		return nil, fmt.Errorf("synth source needs a script")
	}
	for _, seg := range script {
		if seg.Frames <= 0 {
			return nil, fmt.Errorf("synth segment needs at least one frame")
		}
	}
	owned := make([]SynthSegment, len(script))
	copy(owned, script)
	return &SynthSource{sampleRate: sampleRate, fftSize: fftSize, script: owned}, nil
}

// SweepScript alternates each frequency with a short rest, the shape a
// visitor humming along to the mission produces.
func SweepScript(frequencies []float64, toneFrames, restFrames int) []SynthSegment {
	script := make([]SynthSegment, 0, len(frequencies)*2)
	for _, f := range frequencies {
		script = append(script, SynthSegment{FrequencyHz: f, Frames: toneFrames, Level: 0.9})
		script = append(script, SynthSegment{Frames: restFrames})
	}
	return script
}

func (s *SynthSource) Open(_ context.Context) error {
	s.open = true
	s.segment = 0
	s.frame = 0
	return nil
}

func (s *SynthSource) Read(_ context.Context) (domain.Frame, error) {
	if !s.open {
		return domain.Frame{}, domain.ErrStreamClosed
	}
	seg := s.script[s.segment]
	bins := make([]float64, s.fftSize/2)
	for i := range bins {
		bins[i] = 0.005
	}
	if seg.Level > 0 && seg.FrequencyHz > 0 {
		peak := int(math.Round(seg.FrequencyHz * float64(s.fftSize) / float64(s.sampleRate)))
		if peak > 0 && peak < len(bins) {
			bins[peak] = seg.Level
			// Spectral leakage into the neighbors keeps the frame honest.
			if peak-1 > 0 {
				bins[peak-1] = seg.Level * 0.35
			}
			if peak+1 < len(bins) {
				bins[peak+1] = seg.Level * 0.35
			}
		}
	}

	s.frame++
	if s.frame >= seg.Frames {
		s.frame = 0
		s.segment = (s.segment + 1) % len(s.script)
	}
	return domain.Frame{Bins: bins, SampleRate: s.sampleRate, FFTSize: s.fftSize}, nil
}

func (s *SynthSource) Close() error {
	s.open = false
	return nil
}

var _ analyzerout.FrameSource = (*SynthSource)(nil)
