package usecase

import (
	"context"
	"time"

	"klangkiosk/internal/modules/mission/domain"
	"klangkiosk/internal/modules/mission/dto"
	missionin "klangkiosk/internal/modules/mission/port/in"
	"klangkiosk/internal/modules/mission/service"
)

type Interactor struct {
	svc *service.MissionService
}

func NewInteractor(svc *service.MissionService) missionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error) {
	targets := make([]domain.TargetTone, 0, len(input.Targets))
	for _, t := range input.Targets {
		targets = append(targets, domain.TargetTone{Name: t.Name, FrequencyHz: t.FrequencyHz, Color: t.Color})
	}
	missionID, target, total, err := i.svc.Start(ctx, targets)
	if err != nil {
		return dto.StartOutput{}, err
	}
	return dto.StartOutput{
		MissionID:    missionID,
		Target:       targetOutput(target),
		TotalTargets: total,
	}, nil
}

func (i *Interactor) Ingest(ctx context.Context, input dto.IngestInput) ([]dto.TransitionOutput, error) {
	events, err := i.svc.Ingest(ctx, input.FrequencyHz, input.Voiced, input.At)
	if err != nil {
		return nil, err
	}
	return transitions(events), nil
}

func (i *Interactor) Tick(ctx context.Context, at time.Time) ([]dto.TransitionOutput, error) {
	events, err := i.svc.Tick(ctx, at)
	if err != nil {
		return nil, err
	}
	return transitions(events), nil
}

func (i *Interactor) Snapshot(_ context.Context) (dto.SnapshotOutput, error) {
	ctrl, missionID, err := i.svc.Controller()
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	out := dto.SnapshotOutput{
		MissionID:      missionID,
		State:          ctrl.State().String(),
		TargetIndex:    ctrl.TargetIndex(),
		CompletedCount: ctrl.CompletedCount(),
		TotalTargets:   ctrl.TotalTargets(),
		HoldProgress:   ctrl.HoldProgress(),
		AdvancePending: ctrl.AdvancePending(),
	}
	if target, ok := ctrl.Target(); ok {
		out.HasTarget = true
		out.Target = targetOutput(target)
	}
	out.LastFrequencyHz, out.Voiced = ctrl.LastFrequency()
	return out, nil
}

func (i *Interactor) Reset(ctx context.Context) error {
	return i.svc.Reset(ctx)
}

func targetOutput(t domain.TargetTone) dto.TargetOutput {
	return dto.TargetOutput{Name: t.Name, FrequencyHz: t.FrequencyHz, Color: t.Color}
}

func transitions(events []domain.Event) []dto.TransitionOutput {
	out := make([]dto.TransitionOutput, 0, len(events))
	for _, ev := range events {
		out = append(out, dto.TransitionOutput{
			Kind:        string(ev.Kind),
			Target:      targetOutput(ev.Target),
			TargetIndex: ev.TargetIndex,
			HeldForMs:   ev.HeldFor.Milliseconds(),
		})
	}
	return out
}
