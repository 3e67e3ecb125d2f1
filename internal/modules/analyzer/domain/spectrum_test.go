package domain

import "testing"

func frameWithPeak(peakBin int, mag float64) Frame {
	bins := make([]float64, 1024)
	for i := range bins {
		bins[i] = 0.01
	}
	bins[peakBin] = mag
	return Frame{Bins: bins, SampleRate: 44100, FFTSize: 2048}
}

func TestDominantPicksHighestBinInRange(t *testing.T) {
	t.Parallel()
	// Bin 20 at 44100/2048 Hz per bin ≈ 430.7 Hz.
	frame := frameWithPeak(20, 0.9)
	sample := Dominant(frame, SearchRange{MinHz: 80, MaxHz: 1200}, 0.08)
	if !sample.Voiced {
		t.Fatal("expected voiced sample")
	}
	want := frame.BinFrequency(20)
	if sample.FrequencyHz != want {
		t.Fatalf("frequency %.2f, want %.2f", sample.FrequencyHz, want)
	}
	if sample.Magnitude != 0.9 {
		t.Fatalf("magnitude %.2f", sample.Magnitude)
	}
}

func TestDominantHonorsEnergyFloor(t *testing.T) {
	t.Parallel()
	frame := frameWithPeak(20, 0.05)
	sample := Dominant(frame, SearchRange{MinHz: 80, MaxHz: 1200}, 0.08)
	if sample.Voiced {
		t.Fatalf("peak below floor must be unvoiced, got %+v", sample)
	}
}

func TestDominantIgnoresBinsOutsideRange(t *testing.T) {
	t.Parallel()
	frame := frameWithPeak(2, 1.0) // ~43 Hz, below the range
	frame.Bins[20] = 0.5
	sample := Dominant(frame, SearchRange{MinHz: 80, MaxHz: 1200}, 0.08)
	if !sample.Voiced || sample.FrequencyHz != frame.BinFrequency(20) {
		t.Fatalf("expected in-range peak to win, got %+v", sample)
	}

	frame = frameWithPeak(100, 1.0) // ~2153 Hz, above the range
	frame.Bins[20] = 0.5
	sample = Dominant(frame, SearchRange{MinHz: 80, MaxHz: 1200}, 0.08)
	if !sample.Voiced || sample.FrequencyHz != frame.BinFrequency(20) {
		t.Fatalf("expected in-range peak to win, got %+v", sample)
	}
}

func TestDominantTieKeepsLowerBin(t *testing.T) {
	t.Parallel()
	frame := frameWithPeak(20, 0.7)
	frame.Bins[30] = 0.7
	sample := Dominant(frame, SearchRange{MinHz: 80, MaxHz: 1200}, 0.08)
	if sample.FrequencyHz != frame.BinFrequency(20) {
		t.Fatalf("tie must keep the lower bin, got %.2f", sample.FrequencyHz)
	}
}

func TestDominantSilenceIsUnvoiced(t *testing.T) {
	t.Parallel()
	frame := Frame{Bins: make([]float64, 1024), SampleRate: 44100, FFTSize: 2048}
	sample := Dominant(frame, SearchRange{MinHz: 80, MaxHz: 1200}, 0.08)
	if sample.Voiced {
		t.Fatalf("silent frame must be unvoiced, got %+v", sample)
	}
}

func TestFrameValidate(t *testing.T) {
	t.Parallel()
	if err := (Frame{Bins: []float64{1}, SampleRate: 44100, FFTSize: 2048}).Validate(); err != nil {
		t.Fatalf("valid frame rejected: %v", err)
	}
	if err := (Frame{SampleRate: 44100, FFTSize: 2048}).Validate(); err == nil {
		t.Fatal("empty bins must be rejected")
	}
	if err := (Frame{Bins: []float64{1}, FFTSize: 2048}).Validate(); err == nil {
		t.Fatal("zero sample rate must be rejected")
	}
}
