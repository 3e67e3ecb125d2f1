package out

import (
	"context"

	statsdto "klangkiosk/internal/modules/stats/dto"
	statsin "klangkiosk/internal/modules/stats/port/in"
	toneout "klangkiosk/internal/modules/tonebank/port/out"
)

// StatsPlayRecorder forwards resolved scans to the stats module.
type StatsPlayRecorder struct {
	stats statsin.Usecase
}

func NewStatsPlayRecorder(stats statsin.Usecase) toneout.PlayRecorder {
	return &StatsPlayRecorder{stats: stats}
}

func (r *StatsPlayRecorder) RecordPlay(ctx context.Context, detail string, durationMs int) error {
	return r.stats.RecordPlay(ctx, statsdto.PlayInput{
		Station:    "klangtafel",
		Detail:     detail,
		DurationMs: int64(durationMs),
	})
}
