package out

import (
	"context"
	"fmt"

	pairsout "klangkiosk/internal/modules/pairs/port/out"
	statsdto "klangkiosk/internal/modules/stats/dto"
	statsin "klangkiosk/internal/modules/stats/port/in"
)

// StatsSolveRecorder forwards solved boards to the stats module.
type StatsSolveRecorder struct {
	stats statsin.Usecase
}

func NewStatsSolveRecorder(stats statsin.Usecase) pairsout.PlayRecorder {
	return &StatsSolveRecorder{stats: stats}
}

func (r *StatsSolveRecorder) RecordSolve(ctx context.Context, moves int, durationMs int64) error {
	return r.stats.RecordPlay(ctx, statsdto.PlayInput{
		Station:    "paare",
		Detail:     fmt.Sprintf("gelöst in %d Zügen", moves),
		DurationMs: durationMs,
		Moves:      moves,
	})
}
