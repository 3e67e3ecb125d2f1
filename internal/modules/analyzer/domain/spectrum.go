package domain

import "fmt"

// Frame is one frequency-domain magnitude snapshot from a capture source.
type Frame struct {
	Bins       []float64
	SampleRate int
	FFTSize    int
}

func (f Frame) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("frame sample rate must be positive")
	}
	if f.FFTSize <= 0 {
		return fmt.Errorf("frame fft size must be positive")
	}
	if len(f.Bins) == 0 {
		return fmt.Errorf("frame has no bins")
	}
	return nil
}

// BinFrequency converts a bin index to its center frequency.
func (f Frame) BinFrequency(bin int) float64 {
	return float64(bin) * float64(f.SampleRate) / float64(f.FFTSize)
}

// SearchRange bounds the peak search so hum and hiss outside the kiosk's
// singable range never win the peak pick.
type SearchRange struct {
	MinHz float64
	MaxHz float64
}

func (r SearchRange) Validate() error {
	if r.MinHz <= 0 || r.MaxHz <= r.MinHz {
		return fmt.Errorf("search range [%g,%g] is invalid", r.MinHz, r.MaxHz)
	}
	return nil
}

// Sample is the per-frame dominant-frequency estimate. Voiced is false when
// the strongest bin in range stays below the energy floor; the mission treats
// that as a normal "no signal" value.
type Sample struct {
	FrequencyHz float64
	Magnitude   float64
	Voiced      bool
}

// Dominant picks the highest-magnitude bin inside the search range. This is a
// naive spectral peak pick, not a pitch-accurate estimator; by definition it
// yields exactly one candidate per frame. Ties keep the lower bin.
func Dominant(frame Frame, within SearchRange, energyFloor float64) Sample {
	best := -1
	bestMag := 0.0
	for bin := 1; bin < len(frame.Bins); bin++ {
		freq := frame.BinFrequency(bin)
		if freq < within.MinHz {
			continue
		}
		if freq > within.MaxHz {
			break
		}
		if mag := frame.Bins[bin]; mag > bestMag {
			best = bin
			bestMag = mag
		}
	}
	if best < 0 || bestMag < energyFloor {
		return Sample{}
	}
	return Sample{FrequencyHz: frame.BinFrequency(best), Magnitude: bestMag, Voiced: true}
}
