package service

import (
	"context"
	"fmt"
	"time"

	"klangkiosk/internal/modules/pairs/domain"
	"klangkiosk/internal/modules/pairs/dto"
	"klangkiosk/internal/modules/pairs/port/out"
	"klangkiosk/internal/platform/clock"
	apperrors "klangkiosk/internal/platform/errors"
)

// PairsService owns the single memory board of the kiosk.
type PairsService struct {
	clock       clock.Clock
	recorder    out.PlayRecorder
	motifs      []string
	revealDelay time.Duration
	board       *domain.Board
}

func NewPairsService(clk clock.Clock, recorder out.PlayRecorder, motifs []string, revealDelay time.Duration) *PairsService {
	return &PairsService{clock: clk, recorder: recorder, motifs: motifs, revealDelay: revealDelay}
}

// Deal shuffles a fresh board. A zero seed draws one from the clock so every
// walk-up visitor gets a different layout without typing anything.
func (s *PairsService) Deal(ctx context.Context, seed int64) (dto.BoardOutput, error) {
	now := s.clock.Now()
	if seed == 0 {
		seed = now.UnixNano()
	}
	if s.board == nil {
		board, err := domain.Deal(s.motifs, seed, now)
		if err != nil {
			return dto.BoardOutput{}, fmt.Errorf("deal board: %w", err)
		}
		board.SetRevealDelay(s.revealDelay)
		s.board = board
	} else if err := s.board.Redeal(s.motifs, seed, now); err != nil {
		return dto.BoardOutput{}, fmt.Errorf("redeal board: %w", err)
	}
	return s.snapshot(), nil
}

func (s *PairsService) Flip(ctx context.Context, index int) ([]dto.TransitionOutput, error) {
	if s.board == nil {
		return nil, fmt.Errorf("%w: no board dealt", apperrors.ErrInvalidInput)
	}
	now := s.clock.Now()
	events := s.board.Flip(index, now)
	for _, event := range events {
		if event.Kind != domain.EventBoardSolved {
			continue
		}
		durationMs := s.board.Elapsed(now).Milliseconds()
		if err := s.recorder.RecordSolve(ctx, s.board.Moves(), durationMs); err != nil {
			return transitions(events), fmt.Errorf("record solve: %w", err)
		}
	}
	return transitions(events), nil
}

func (s *PairsService) Tick(ctx context.Context) ([]dto.TransitionOutput, error) {
	if s.board == nil {
		return nil, nil
	}
	return transitions(s.board.Tick(s.clock.Now())), nil
}

func (s *PairsService) Snapshot(ctx context.Context) (dto.BoardOutput, error) {
	if s.board == nil {
		return dto.BoardOutput{}, fmt.Errorf("%w: no board dealt", apperrors.ErrInvalidInput)
	}
	return s.snapshot(), nil
}

func (s *PairsService) snapshot() dto.BoardOutput {
	cards := s.board.Cards()
	output := dto.BoardOutput{
		Seed:         s.board.Seed(),
		Cards:        make([]dto.CardOutput, 0, len(cards)),
		Moves:        s.board.Moves(),
		MatchedPairs: s.board.MatchedPairs(),
		TotalPairs:   s.board.TotalPairs(),
		Solved:       s.board.Solved(),
		ElapsedMs:    s.board.Elapsed(s.clock.Now()).Milliseconds(),
		HidePending:  s.board.HidePending(),
	}
	for _, card := range cards {
		output.Cards = append(output.Cards, dto.CardOutput{
			Motif:   card.Motif,
			FaceUp:  card.FaceUp,
			Matched: card.Matched,
		})
	}
	return output
}

func transitions(events []domain.Event) []dto.TransitionOutput {
	if len(events) == 0 {
		return nil
	}
	out := make([]dto.TransitionOutput, 0, len(events))
	for _, event := range events {
		out = append(out, dto.TransitionOutput{
			Kind:    string(event.Kind),
			Indices: event.Indices,
			Motif:   event.Motif,
			At:      event.At,
		})
	}
	return out
}
