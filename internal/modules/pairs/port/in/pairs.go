package in

import (
	"context"

	"klangkiosk/internal/modules/pairs/dto"
)

// Usecase drives the memory board from the kiosk loop. Deal with seed 0
// draws a random seed.
type Usecase interface {
	Deal(ctx context.Context, seed int64) (dto.BoardOutput, error)
	Flip(ctx context.Context, index int) ([]dto.TransitionOutput, error)
	Tick(ctx context.Context) ([]dto.TransitionOutput, error)
	Snapshot(ctx context.Context) (dto.BoardOutput, error)
}
