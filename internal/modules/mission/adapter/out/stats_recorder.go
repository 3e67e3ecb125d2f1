package out

import (
	"context"

	"klangkiosk/internal/modules/mission/domain"
	missionout "klangkiosk/internal/modules/mission/port/out"
	statsdto "klangkiosk/internal/modules/stats/dto"
	statsin "klangkiosk/internal/modules/stats/port/in"
)

// StatsRunRecorder forwards completed target runs to the stats module.
type StatsRunRecorder struct {
	stats statsin.Usecase
}

func NewStatsRunRecorder(stats statsin.Usecase) missionout.RunRecorder {
	return &StatsRunRecorder{stats: stats}
}

func (r *StatsRunRecorder) RecordRun(ctx context.Context, run domain.Run) error {
	return r.stats.RecordMissionRun(ctx, statsdto.MissionRunInput{
		MissionID:   run.MissionID,
		TargetName:  run.Target.Name,
		TargetIndex: run.TargetIndex,
		FrequencyHz: run.Target.FrequencyHz,
		HeldForMs:   run.HeldFor.Milliseconds(),
	})
}
