package out

import (
	"context"

	"klangkiosk/internal/modules/stats/domain"
)

type PlayStore interface {
	InsertMissionRun(ctx context.Context, run domain.MissionRun) error
	InsertPlay(ctx context.Context, play domain.Play) error
	BumpStationTotal(ctx context.Context, station domain.Station) error
	StationTotals(ctx context.Context) ([]domain.StationTotal, error)
	RecentMissionRuns(ctx context.Context, limit int) ([]domain.MissionRun, error)
	RecentPlays(ctx context.Context, limit int) ([]domain.Play, error)
}
