package service

import (
	"context"
	"fmt"

	"klangkiosk/internal/modules/stats/domain"
	statsout "klangkiosk/internal/modules/stats/port/out"
	"klangkiosk/internal/platform/clock"
	"klangkiosk/internal/platform/id"
	"klangkiosk/internal/platform/tx"
)

type StatsService struct {
	clock clock.Clock
	idGen id.Generator
	store statsout.PlayStore
	txm   tx.Manager
}

func NewStatsService(clock clock.Clock, idGen id.Generator, store statsout.PlayStore, txm tx.Manager) *StatsService {
	return &StatsService{clock: clock, idGen: idGen, store: store, txm: txm}
}

// RecordMissionRun writes the run row, the play row, and the station total
// in one transaction so the overview never shows a half-counted play.
func (s *StatsService) RecordMissionRun(ctx context.Context, run domain.MissionRun) error {
	if run.MissionID == "" {
		return fmt.Errorf("mission id is required")
	}
	run.ID = s.idGen.New()
	run.CompletedAt = s.clock.Now()
	play := domain.Play{
		ID:         s.idGen.New(),
		Station:    domain.StationMission,
		Detail:     run.TargetName,
		DurationMs: run.HeldForMs,
		PlayedAt:   run.CompletedAt,
	}
	return s.txm.Within(ctx, func(ctx context.Context) error {
		if err := s.store.InsertMissionRun(ctx, run); err != nil {
			return err
		}
		if err := s.store.InsertPlay(ctx, play); err != nil {
			return err
		}
		return s.store.BumpStationTotal(ctx, domain.StationMission)
	})
}

func (s *StatsService) RecordPlay(ctx context.Context, play domain.Play) error {
	if err := play.Station.Validate(); err != nil {
		return err
	}
	play.ID = s.idGen.New()
	play.PlayedAt = s.clock.Now()
	return s.txm.Within(ctx, func(ctx context.Context) error {
		if err := s.store.InsertPlay(ctx, play); err != nil {
			return err
		}
		return s.store.BumpStationTotal(ctx, play.Station)
	})
}

func (s *StatsService) Overview(ctx context.Context) ([]domain.StationTotal, []domain.MissionRun, []domain.Play, error) {
	totals, err := s.store.StationTotals(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	runs, err := s.store.RecentMissionRuns(ctx, 10)
	if err != nil {
		return nil, nil, nil, err
	}
	plays, err := s.store.RecentPlays(ctx, 10)
	if err != nil {
		return nil, nil, nil, err
	}
	return totals, runs, plays, nil
}
