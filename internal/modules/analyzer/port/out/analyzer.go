package out

import (
	"context"

	"klangkiosk/internal/modules/analyzer/domain"
)

// FrameSource is an open capture stream. Read blocks until the next frame is
// available; implementations pace themselves, the caller never buffers.
type FrameSource interface {
	Open(ctx context.Context) error
	Read(ctx context.Context) (domain.Frame, error)
	Close() error
}

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

// SourceHost runs external capture-source plugins.
type SourceHost interface {
	Describe(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Open(ctx context.Context, manifest domain.Manifest) (FrameSource, error)
}
