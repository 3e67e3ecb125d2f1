package usecase

import (
	"context"
	"fmt"

	"klangkiosk/internal/modules/stats/domain"
	"klangkiosk/internal/modules/stats/dto"
	statsin "klangkiosk/internal/modules/stats/port/in"
	"klangkiosk/internal/modules/stats/service"
	apperrors "klangkiosk/internal/platform/errors"
)

type Interactor struct {
	svc *service.StatsService
}

func NewInteractor(svc *service.StatsService) statsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) RecordMissionRun(ctx context.Context, input dto.MissionRunInput) error {
	if input.MissionID == "" {
		return fmt.Errorf("%w: mission id is required", apperrors.ErrInvalidInput)
	}
	return i.svc.RecordMissionRun(ctx, domain.MissionRun{
		MissionID:   input.MissionID,
		TargetName:  input.TargetName,
		TargetIndex: input.TargetIndex,
		FrequencyHz: input.FrequencyHz,
		HeldForMs:   input.HeldForMs,
	})
}

func (i *Interactor) RecordPlay(ctx context.Context, input dto.PlayInput) error {
	return i.svc.RecordPlay(ctx, domain.Play{
		Station:    domain.Station(input.Station),
		Detail:     input.Detail,
		DurationMs: input.DurationMs,
		Moves:      input.Moves,
	})
}

func (i *Interactor) Overview(ctx context.Context) (dto.OverviewOutput, error) {
	totals, runs, plays, err := i.svc.Overview(ctx)
	if err != nil {
		return dto.OverviewOutput{}, err
	}
	out := dto.OverviewOutput{}
	for _, t := range totals {
		out.Totals = append(out.Totals, dto.StationTotalOutput{Station: string(t.Station), Plays: t.Plays})
	}
	for _, r := range runs {
		out.RecentRuns = append(out.RecentRuns, dto.MissionRunOutput{
			TargetName:  r.TargetName,
			TargetIndex: r.TargetIndex,
			FrequencyHz: r.FrequencyHz,
			HeldForMs:   r.HeldForMs,
			CompletedAt: r.CompletedAt,
		})
	}
	for _, p := range plays {
		out.RecentPlays = append(out.RecentPlays, dto.PlayOutput{
			Station:    string(p.Station),
			Detail:     p.Detail,
			DurationMs: p.DurationMs,
			Moves:      p.Moves,
			PlayedAt:   p.PlayedAt,
		})
	}
	return out, nil
}
