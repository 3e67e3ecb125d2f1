package in

import (
	"context"
	"time"

	"klangkiosk/internal/modules/mission/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Ingest(ctx context.Context, input dto.IngestInput) ([]dto.TransitionOutput, error)
	Tick(ctx context.Context, at time.Time) ([]dto.TransitionOutput, error)
	Snapshot(ctx context.Context) (dto.SnapshotOutput, error)
	Reset(ctx context.Context) error
}
