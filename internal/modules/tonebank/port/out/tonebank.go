package out

import "context"

// PlayRecorder receives one entry per resolved scan.
type PlayRecorder interface {
	RecordPlay(ctx context.Context, detail string, durationMs int) error
}
