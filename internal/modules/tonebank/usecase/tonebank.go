package usecase

import (
	"context"

	"klangkiosk/internal/modules/tonebank/dto"
	"klangkiosk/internal/modules/tonebank/port/in"
)

// Tonebank adapts the tone service to the inbound port.
type Tonebank struct {
	svc in.Usecase
}

func New(svc in.Usecase) *Tonebank {
	return &Tonebank{svc: svc}
}

func (u *Tonebank) List(ctx context.Context) ([]dto.ProgramOutput, error) {
	return u.svc.List(ctx)
}

func (u *Tonebank) Scan(ctx context.Context, code string) (dto.ScanOutput, error) {
	return u.svc.Scan(ctx, code)
}
