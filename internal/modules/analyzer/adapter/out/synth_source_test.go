package out_test

import (
	"context"
	"testing"

	analyzerout "klangkiosk/internal/modules/analyzer/adapter/out"
	"klangkiosk/internal/modules/analyzer/domain"
)

func TestSynthSourcePeaksAtScriptedFrequency(t *testing.T) {
	t.Parallel()
	src, err := analyzerout.NewSynthSource(44100, 2048, []analyzerout.SynthSegment{
		{FrequencyHz: 440, Frames: 2, Level: 0.9},
		{Frames: 1},
	})
	if err != nil {
		t.Fatalf("new synth source: %v", err)
	}
	ctx := context.Background()
	if err := src.Open(ctx); err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	frame, err := src.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	sample := domain.Dominant(frame, domain.SearchRange{MinHz: 80, MaxHz: 1200}, 0.08)
	if !sample.Voiced {
		t.Fatal("expected voiced frame")
	}
	// 440 Hz lands within one bin width (~21.5 Hz) of the scripted tone.
	if diff := sample.FrequencyHz - 440; diff < -22 || diff > 22 {
		t.Fatalf("peak at %.2f Hz, want within one bin of 440", sample.FrequencyHz)
	}
}

func TestSynthSourceScriptAdvancesIntoRest(t *testing.T) {
	t.Parallel()
	src, err := analyzerout.NewSynthSource(44100, 2048, []analyzerout.SynthSegment{
		{FrequencyHz: 440, Frames: 2, Level: 0.9},
		{Frames: 1},
	})
	if err != nil {
		t.Fatalf("new synth source: %v", err)
	}
	ctx := context.Background()
	if err := src.Open(ctx); err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	src.Read(ctx)
	src.Read(ctx)
	frame, err := src.Read(ctx) // third frame is the rest segment
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	sample := domain.Dominant(frame, domain.SearchRange{MinHz: 80, MaxHz: 1200}, 0.08)
	if sample.Voiced {
		t.Fatalf("rest frame must be unvoiced, got %+v", sample)
	}

	// The script loops: the fourth frame is the tone again.
	frame, _ = src.Read(ctx)
	sample = domain.Dominant(frame, domain.SearchRange{MinHz: 80, MaxHz: 1200}, 0.08)
	if !sample.Voiced {
		t.Fatal("script must loop back to the tone")
	}
}

func TestSynthSourceReadAfterCloseFails(t *testing.T) {
	t.Parallel()
	src, err := analyzerout.NewSynthSource(44100, 2048, analyzerout.SweepScript([]float64{220}, 2, 1))
	if err != nil {
		t.Fatalf("new synth source: %v", err)
	}
	ctx := context.Background()
	if err := src.Open(ctx); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := src.Read(ctx); err != domain.ErrStreamClosed {
		t.Fatalf("expected ErrStreamClosed, got %v", err)
	}
}
