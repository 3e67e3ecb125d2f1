package in

import (
	"context"

	pairsdto "klangkiosk/internal/modules/pairs/dto"
	pairsin "klangkiosk/internal/modules/pairs/port/in"
)

type CLIHandler struct {
	usecase pairsin.Usecase
}

func NewCLIHandler(usecase pairsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Deal(ctx context.Context, seed int64) (pairsdto.BoardOutput, error) {
	return h.usecase.Deal(ctx, seed)
}

func (h CLIHandler) Snapshot(ctx context.Context) (pairsdto.BoardOutput, error) {
	return h.usecase.Snapshot(ctx)
}
