package usecase

import (
	"context"

	"klangkiosk/internal/modules/pairs/dto"
	"klangkiosk/internal/modules/pairs/port/in"
)

// Pairs adapts the pairs service to the inbound port.
type Pairs struct {
	svc in.Usecase
}

func New(svc in.Usecase) *Pairs {
	return &Pairs{svc: svc}
}

func (u *Pairs) Deal(ctx context.Context, seed int64) (dto.BoardOutput, error) {
	return u.svc.Deal(ctx, seed)
}

func (u *Pairs) Flip(ctx context.Context, index int) ([]dto.TransitionOutput, error) {
	return u.svc.Flip(ctx, index)
}

func (u *Pairs) Tick(ctx context.Context) ([]dto.TransitionOutput, error) {
	return u.svc.Tick(ctx)
}

func (u *Pairs) Snapshot(ctx context.Context) (dto.BoardOutput, error) {
	return u.svc.Snapshot(ctx)
}
