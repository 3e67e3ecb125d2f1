package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	analyzerout "klangkiosk/internal/modules/analyzer/adapter/out"
	"klangkiosk/internal/modules/analyzer/domain"
	portout "klangkiosk/internal/modules/analyzer/port/out"
	"klangkiosk/internal/modules/analyzer/service"
	apperrors "klangkiosk/internal/platform/errors"
)

type fakeHost struct {
	describeErr error
}

func (h *fakeHost) Describe(_ context.Context, m domain.Manifest) (domain.Metadata, error) {
	if h.describeErr != nil {
		return domain.Metadata{}, h.describeErr
	}
	return domain.Metadata{Name: m.Name, Version: m.Version, SampleRate: 44100, FFTSize: 2048}, nil
}

func (h *fakeHost) Open(_ context.Context, _ domain.Manifest) (portout.FrameSource, error) {
	return nil, errors.New("not used")
}

func writeManifests(t *testing.T, dir string, manifests []domain.Manifest) {
	t.Helper()
	raw, err := json.Marshal(manifests)
	if err != nil {
		t.Fatalf("marshal manifests: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sources.json"), raw, 0o644); err != nil {
		t.Fatalf("write sources.json: %v", err)
	}
}

func TestSampleReturnsDominantTone(t *testing.T) {
	t.Parallel()

	source, err := analyzerout.NewSynthSource(44100, 2048, []analyzerout.SynthSegment{
		{FrequencyHz: 440, Frames: 10, Level: 0.9},
	})
	if err != nil {
		t.Fatalf("NewSynthSource: %v", err)
	}
	svc, err := service.NewAnalyzerService(
		domain.SearchRange{MinHz: 80, MaxHz: 1200}, 0.08, source, nil, nil)
	if err != nil {
		t.Fatalf("NewAnalyzerService: %v", err)
	}
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	sample, err := svc.Sample(context.Background())
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if !sample.Voiced {
		t.Fatal("expected voiced sample")
	}
	// The estimate lands on a bin center, so allow half a bin of error.
	binWidth := 44100.0 / 2048
	if math.Abs(sample.FrequencyHz-440) > binWidth {
		t.Fatalf("frequency = %.2f, want within one bin of 440", sample.FrequencyHz)
	}
}

func TestSampleWithoutSourceFails(t *testing.T) {
	t.Parallel()

	svc, err := service.NewAnalyzerService(
		domain.SearchRange{MinHz: 80, MaxHz: 1200}, 0.08, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewAnalyzerService: %v", err)
	}
	if _, err := svc.Sample(context.Background()); !errors.Is(err, apperrors.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestDoctorDetectsChecksumMismatch(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	binPath := filepath.Join(tmp, "dummy-source")
	if err := os.WriteFile(binPath, []byte("not-a-real-source"), 0o755); err != nil {
		t.Fatalf("write source binary: %v", err)
	}
	writeManifests(t, tmp, []domain.Manifest{{
		Name:    "demo",
		Version: "1.0.0",
		Binary:  binPath,
		SHA256:  strings.Repeat("0", 64),
		Enabled: true,
	}})

	svc, err := service.NewAnalyzerService(
		domain.SearchRange{MinHz: 80, MaxHz: 1200}, 0.08, nil,
		analyzerout.NewFileManifestStore(tmp), nil)
	if err != nil {
		t.Fatalf("NewAnalyzerService: %v", err)
	}
	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if !results[0].BinaryReachable {
		t.Fatal("expected binary to be reachable")
	}
	if results[0].ChecksumValid {
		t.Fatal("expected checksum mismatch")
	}
}

func TestDoctorPassesHealthySource(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	payload := []byte("source-binary-payload")
	binPath := filepath.Join(tmp, "sinesource")
	if err := os.WriteFile(binPath, payload, 0o755); err != nil {
		t.Fatalf("write source binary: %v", err)
	}
	sum := sha256.Sum256(payload)
	writeManifests(t, tmp, []domain.Manifest{{
		Name:    "sinesource",
		Version: "1.0.0",
		Binary:  binPath,
		SHA256:  hex.EncodeToString(sum[:]),
		Enabled: true,
	}})

	svc, err := service.NewAnalyzerService(
		domain.SearchRange{MinHz: 80, MaxHz: 1200}, 0.08, nil,
		analyzerout.NewFileManifestStore(tmp), &fakeHost{})
	if err != nil {
		t.Fatalf("NewAnalyzerService: %v", err)
	}
	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	r := results[0]
	if !r.BinaryReachable || !r.ChecksumValid || !r.LifecycleOK {
		t.Fatalf("expected healthy source, got %+v", r)
	}
}
