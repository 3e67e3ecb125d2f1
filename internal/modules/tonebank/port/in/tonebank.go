package in

import (
	"context"

	"klangkiosk/internal/modules/tonebank/dto"
)

// Usecase resolves scanned barcodes to tone programs.
type Usecase interface {
	List(ctx context.Context) ([]dto.ProgramOutput, error)
	Scan(ctx context.Context, code string) (dto.ScanOutput, error)
}
