package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"klangkiosk/internal/modules/analyzer/domain"
	"klangkiosk/internal/modules/analyzer/dto"
	analyzerout "klangkiosk/internal/modules/analyzer/port/out"
	apperrors "klangkiosk/internal/platform/errors"
)

type AnalyzerService struct {
	within      domain.SearchRange
	energyFloor float64
	source      analyzerout.FrameSource
	store       analyzerout.ManifestStore
	host        analyzerout.SourceHost
}

func NewAnalyzerService(within domain.SearchRange, energyFloor float64, source analyzerout.FrameSource, store analyzerout.ManifestStore, host analyzerout.SourceHost) (*AnalyzerService, error) {
	if err := within.Validate(); err != nil {
		return nil, err
	}
	if energyFloor < 0 {
		return nil, fmt.Errorf("energy floor must be non-negative")
	}
	return &AnalyzerService{within: within, energyFloor: energyFloor, source: source, store: store, host: host}, nil
}

func (s *AnalyzerService) Start(ctx context.Context) error {
	if s.source == nil {
		return apperrors.ErrSourceUnavailable
	}
	return s.source.Open(ctx)
}

func (s *AnalyzerService) Stop() error {
	if s.source == nil {
		return nil
	}
	return s.source.Close()
}

func (s *AnalyzerService) Sample(ctx context.Context) (domain.Sample, error) {
	if s.source == nil {
		return domain.Sample{}, apperrors.ErrSourceUnavailable
	}
	frame, err := s.source.Read(ctx)
	if err != nil {
		return domain.Sample{}, fmt.Errorf("read frame: %w", err)
	}
	if err := frame.Validate(); err != nil {
		return domain.Sample{}, fmt.Errorf("invalid frame: %w", err)
	}
	return domain.Dominant(frame, s.within, s.energyFloor), nil
}

func (s *AnalyzerService) ListSources(ctx context.Context) ([]domain.Manifest, error) {
	if s.store == nil {
		return []domain.Manifest{}, nil
	}
	return s.store.Load(ctx)
}

// Doctor validates every registered capture source: manifest shape, binary
// presence, checksum, and a live describe round trip for enabled sources.
func (s *AnalyzerService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.BinaryReachable = fileExists(m.Binary)
		if result.BinaryReachable {
			result.ChecksumValid = checksumMatches(m.Binary, m.SHA256) == nil
		}
		if result.BinaryReachable && result.ChecksumValid && m.Enabled && s.host != nil {
			if _, err := s.host.Describe(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !result.BinaryReachable {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if result.BinaryReachable && !result.ChecksumValid {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func checksumMatches(path, wantHex string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open binary: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash binary: %w", err)
	}
	if hex.EncodeToString(h.Sum(nil)) != wantHex {
		return domain.ErrChecksumMismatch
	}
	return nil
}
