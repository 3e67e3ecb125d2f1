package in

import (
	"context"

	tonedto "klangkiosk/internal/modules/tonebank/dto"
	tonein "klangkiosk/internal/modules/tonebank/port/in"
)

type CLIHandler struct {
	usecase tonein.Usecase
}

func NewCLIHandler(usecase tonein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]tonedto.ProgramOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Scan(ctx context.Context, code string) (tonedto.ScanOutput, error) {
	return h.usecase.Scan(ctx, code)
}
