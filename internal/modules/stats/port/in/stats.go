package in

import (
	"context"

	"klangkiosk/internal/modules/stats/dto"
)

type Usecase interface {
	RecordMissionRun(ctx context.Context, input dto.MissionRunInput) error
	RecordPlay(ctx context.Context, input dto.PlayInput) error
	Overview(ctx context.Context) (dto.OverviewOutput, error)
}
