package service

import (
	"context"
	"fmt"

	"klangkiosk/internal/modules/tonebank/domain"
	"klangkiosk/internal/modules/tonebank/dto"
	"klangkiosk/internal/modules/tonebank/port/out"
	apperrors "klangkiosk/internal/platform/errors"
	"klangkiosk/internal/platform/slug"
)

// ToneService resolves barcode scans against the configured program bank.
type ToneService struct {
	bank     *domain.Bank
	recorder out.PlayRecorder
}

func NewToneService(programs []domain.Program, recorder out.PlayRecorder) (*ToneService, error) {
	normalized := make([]domain.Program, 0, len(programs))
	for _, p := range programs {
		p.Code = slug.Make(p.Code)
		normalized = append(normalized, p)
	}
	bank, err := domain.NewBank(normalized)
	if err != nil {
		return nil, fmt.Errorf("build tone bank: %w", err)
	}
	return &ToneService{bank: bank, recorder: recorder}, nil
}

func (s *ToneService) List(ctx context.Context) ([]dto.ProgramOutput, error) {
	programs := s.bank.Programs()
	outputs := make([]dto.ProgramOutput, 0, len(programs))
	for _, p := range programs {
		outputs = append(outputs, programOutput(p))
	}
	return outputs, nil
}

// Scan resolves a barcode, records the play, and returns the pulse schedule.
// Scanner input is normalized the same way codes are at registration, so a
// wedge that uppercases or pads the code still resolves.
func (s *ToneService) Scan(ctx context.Context, code string) (dto.ScanOutput, error) {
	program, ok := s.bank.Lookup(slug.Make(code))
	if !ok {
		return dto.ScanOutput{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownProgram, code)
	}

	pulses, err := domain.Playback(program)
	if err != nil {
		return dto.ScanOutput{}, fmt.Errorf("expand playback: %w", err)
	}

	if err := s.recorder.RecordPlay(ctx, program.Title, program.DurationMs()); err != nil {
		return dto.ScanOutput{}, fmt.Errorf("record play: %w", err)
	}

	output := dto.ScanOutput{
		Program: programOutput(program),
		Pulses:  make([]dto.PulseOutput, 0, len(pulses)),
	}
	for _, pulse := range pulses {
		output.Pulses = append(output.Pulses, dto.PulseOutput{
			FrequencyHz: pulse.FrequencyHz,
			DurationMs:  pulse.DurationMs,
			Rest:        pulse.Rest,
		})
	}
	return output, nil
}

func programOutput(p domain.Program) dto.ProgramOutput {
	return dto.ProgramOutput{
		Code:       p.Code,
		Title:      p.Title,
		Color:      p.Color,
		Steps:      len(p.Steps),
		DurationMs: p.DurationMs(),
	}
}
