package in

import (
	"context"

	"klangkiosk/internal/modules/analyzer/dto"
)

type Usecase interface {
	// Sample reads one frame from the active capture source and returns its
	// dominant-frequency estimate. Called once per frame by the kiosk loop.
	Sample(ctx context.Context) (dto.SampleOutput, error)
	ListSources(ctx context.Context) ([]dto.SourceInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
}
