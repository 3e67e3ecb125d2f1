package service

import (
	"context"
	"fmt"
	"time"

	"klangkiosk/internal/modules/mission/domain"
	missionout "klangkiosk/internal/modules/mission/port/out"
	"klangkiosk/internal/platform/clock"
	apperrors "klangkiosk/internal/platform/errors"
	"klangkiosk/internal/platform/id"
)

// MissionService owns the single controller of the current kiosk session.
// It is driven synchronously from one frame loop; see domain.Controller.
type MissionService struct {
	clock    clock.Clock
	idGen    id.Generator
	recorder missionout.RunRecorder

	ctrl      *domain.Controller
	missionID string
}

func NewMissionService(clock clock.Clock, idGen id.Generator, recorder missionout.RunRecorder) *MissionService {
	return &MissionService{clock: clock, idGen: idGen, recorder: recorder}
}

func (s *MissionService) Start(_ context.Context, targets []domain.TargetTone) (string, domain.TargetTone, int, error) {
	if s.ctrl != nil {
		return "", domain.TargetTone{}, 0, apperrors.ErrMissionAlreadyActive
	}
	ctrl, err := domain.NewController(targets)
	if err != nil {
		return "", domain.TargetTone{}, 0, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	s.ctrl = ctrl
	s.missionID = s.idGen.New()
	target, _ := ctrl.Target()
	return s.missionID, target, ctrl.TotalTargets(), nil
}

func (s *MissionService) Ingest(ctx context.Context, freqHz float64, voiced bool, at time.Time) ([]domain.Event, error) {
	if s.ctrl == nil {
		return nil, apperrors.ErrNoActiveMission
	}
	events := s.ctrl.Ingest(freqHz, voiced, at)
	for _, ev := range events {
		if ev.Kind != domain.EventTargetCompleted {
			continue
		}
		run := domain.Run{
			MissionID:   s.missionID,
			Target:      ev.Target,
			TargetIndex: ev.TargetIndex,
			HeldFor:     ev.HeldFor,
			CompletedAt: s.clock.Now(),
		}
		if s.recorder != nil {
			if err := s.recorder.RecordRun(ctx, run); err != nil {
				return events, fmt.Errorf("record run: %w", err)
			}
		}
	}
	return events, nil
}

func (s *MissionService) Tick(_ context.Context, at time.Time) ([]domain.Event, error) {
	if s.ctrl == nil {
		return nil, apperrors.ErrNoActiveMission
	}
	return s.ctrl.Tick(at), nil
}

func (s *MissionService) Reset(_ context.Context) error {
	if s.ctrl == nil {
		return apperrors.ErrNoActiveMission
	}
	s.ctrl.Reset()
	s.missionID = s.idGen.New()
	return nil
}

func (s *MissionService) Controller() (*domain.Controller, string, error) {
	if s.ctrl == nil {
		return nil, "", apperrors.ErrNoActiveMission
	}
	return s.ctrl, s.missionID, nil
}
