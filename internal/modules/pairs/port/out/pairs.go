package out

import "context"

// PlayRecorder receives one entry per solved board.
type PlayRecorder interface {
	RecordSolve(ctx context.Context, moves int, durationMs int64) error
}
