package out

import (
	"context"

	"klangkiosk/internal/modules/mission/domain"
)

// RunRecorder receives one record per completed target tone. The mission
// itself keeps no persistent state; the recorder is a write-only sink.
type RunRecorder interface {
	RecordRun(ctx context.Context, run domain.Run) error
}
