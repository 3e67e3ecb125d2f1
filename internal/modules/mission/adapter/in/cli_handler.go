package in

import (
	"context"
	"time"

	missiondto "klangkiosk/internal/modules/mission/dto"
	missionin "klangkiosk/internal/modules/mission/port/in"
)

type CLIHandler struct {
	usecase missionin.Usecase
}

func NewCLIHandler(usecase missionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, targets []missiondto.TargetInput) (missiondto.StartOutput, error) {
	return h.usecase.Start(ctx, missiondto.StartInput{Targets: targets})
}

func (h CLIHandler) Ingest(ctx context.Context, freqHz float64, voiced bool, at time.Time) ([]missiondto.TransitionOutput, error) {
	return h.usecase.Ingest(ctx, missiondto.IngestInput{FrequencyHz: freqHz, Voiced: voiced, At: at})
}

func (h CLIHandler) Tick(ctx context.Context, at time.Time) ([]missiondto.TransitionOutput, error) {
	return h.usecase.Tick(ctx, at)
}

func (h CLIHandler) Snapshot(ctx context.Context) (missiondto.SnapshotOutput, error) {
	return h.usecase.Snapshot(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}
