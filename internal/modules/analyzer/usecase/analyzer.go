package usecase

import (
	"context"

	"klangkiosk/internal/modules/analyzer/dto"
	analyzerin "klangkiosk/internal/modules/analyzer/port/in"
	"klangkiosk/internal/modules/analyzer/service"
)

type Interactor struct {
	svc *service.AnalyzerService
}

func NewInteractor(svc *service.AnalyzerService) analyzerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Sample(ctx context.Context) (dto.SampleOutput, error) {
	sample, err := i.svc.Sample(ctx)
	if err != nil {
		return dto.SampleOutput{}, err
	}
	return dto.SampleOutput{FrequencyHz: sample.FrequencyHz, Magnitude: sample.Magnitude, Voiced: sample.Voiced}, nil
}

func (i *Interactor) ListSources(ctx context.Context) ([]dto.SourceInfo, error) {
	manifests, err := i.svc.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SourceInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, dto.SourceInfo{Name: m.Name, Version: m.Version, Binary: m.Binary, Enabled: m.Enabled})
	}
	return out, nil
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}
