package out_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"klangkiosk/internal/modules/stats/domain"
	statsout "klangkiosk/internal/modules/stats/adapter/out"
	"klangkiosk/internal/platform/tx"
)

func newStore(t *testing.T) *statsout.SQLitePlayStore {
	t.Helper()
	store, err := statsout.NewSQLitePlayStore(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPlayRoundTripAndTotals(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()
	manager := tx.NewSQLManager(store.DB())

	play := domain.Play{
		ID:         "play-1",
		Station:    domain.StationTonebank,
		Detail:     "Sonnenlied",
		DurationMs: 2500,
		PlayedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	err := manager.Within(ctx, func(ctx context.Context) error {
		if err := store.InsertPlay(ctx, play); err != nil {
			return err
		}
		return store.BumpStationTotal(ctx, play.Station)
	})
	if err != nil {
		t.Fatalf("record play: %v", err)
	}

	totals, err := store.StationTotals(ctx)
	if err != nil {
		t.Fatalf("station totals: %v", err)
	}
	if len(totals) != 1 || totals[0].Station != domain.StationTonebank || totals[0].Plays != 1 {
		t.Fatalf("totals = %+v", totals)
	}

	plays, err := store.RecentPlays(ctx, 5)
	if err != nil {
		t.Fatalf("recent plays: %v", err)
	}
	if len(plays) != 1 || plays[0].Detail != "Sonnenlied" || !plays[0].PlayedAt.Equal(play.PlayedAt) {
		t.Fatalf("plays = %+v", plays)
	}
}

func TestMissionRunRoundTrip(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	run := domain.MissionRun{
		ID:          "run-1",
		MissionID:   "mission-1",
		TargetName:  "Kammerton A",
		TargetIndex: 1,
		FrequencyHz: 440,
		HeldForMs:   1500,
		CompletedAt: time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC),
	}
	if err := store.InsertMissionRun(ctx, run); err != nil {
		t.Fatalf("insert mission run: %v", err)
	}
	runs, err := store.RecentMissionRuns(ctx, 5)
	if err != nil {
		t.Fatalf("recent mission runs: %v", err)
	}
	if len(runs) != 1 || runs[0].TargetName != "Kammerton A" || runs[0].HeldForMs != 1500 {
		t.Fatalf("runs = %+v", runs)
	}
}

func TestFailedTransactionLeavesNoPartialRows(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()
	manager := tx.NewSQLManager(store.DB())

	sentinel := errors.New("boom")
	err := manager.Within(ctx, func(ctx context.Context) error {
		if err := store.InsertPlay(ctx, domain.Play{ID: "play-x", Station: domain.StationPairs, PlayedAt: time.Now()}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	plays, err := store.RecentPlays(ctx, 5)
	if err != nil {
		t.Fatalf("recent plays: %v", err)
	}
	if len(plays) != 0 {
		t.Fatalf("rolled-back play is visible: %+v", plays)
	}
}

func TestBumpStationTotalAccumulates(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := store.BumpStationTotal(ctx, domain.StationMission); err != nil {
			t.Fatalf("bump: %v", err)
		}
	}
	totals, err := store.StationTotals(ctx)
	if err != nil {
		t.Fatalf("station totals: %v", err)
	}
	if len(totals) != 1 || totals[0].Plays != 3 {
		t.Fatalf("totals = %+v", totals)
	}
}
