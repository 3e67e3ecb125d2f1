package in

import (
	"context"

	statsdto "klangkiosk/internal/modules/stats/dto"
	statsin "klangkiosk/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) RecordMissionRun(ctx context.Context, input statsdto.MissionRunInput) error {
	return h.usecase.RecordMissionRun(ctx, input)
}

func (h CLIHandler) RecordPlay(ctx context.Context, input statsdto.PlayInput) error {
	return h.usecase.RecordPlay(ctx, input)
}

func (h CLIHandler) Overview(ctx context.Context) (statsdto.OverviewOutput, error) {
	return h.usecase.Overview(ctx)
}
