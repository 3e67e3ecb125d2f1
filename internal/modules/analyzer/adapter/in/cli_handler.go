package in

import (
	"context"

	analyzerdto "klangkiosk/internal/modules/analyzer/dto"
	analyzerin "klangkiosk/internal/modules/analyzer/port/in"
)

type CLIHandler struct {
	usecase analyzerin.Usecase
}

func NewCLIHandler(usecase analyzerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Sample(ctx context.Context) (analyzerdto.SampleOutput, error) {
	return h.usecase.Sample(ctx)
}

func (h CLIHandler) ListSources(ctx context.Context) ([]analyzerdto.SourceInfo, error) {
	return h.usecase.ListSources(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]analyzerdto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
