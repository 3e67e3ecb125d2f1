package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"klangkiosk/internal/modules/stats/domain"
	"klangkiosk/internal/platform/tx"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLitePlayStore struct {
	db *sql.DB
}

func NewSQLitePlayStore(dbPath string) (*SQLitePlayStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLitePlayStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

// DB exposes the handle so the bootstrap can build a tx.SQLManager over the
// same connection pool.
func (s *SQLitePlayStore) DB() *sql.DB { return s.db }

func (s *SQLitePlayStore) Close() error { return s.db.Close() }

func (s *SQLitePlayStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS mission_runs (
  id TEXT PRIMARY KEY,
  mission_id TEXT NOT NULL,
  target_name TEXT NOT NULL,
  target_index INTEGER NOT NULL,
  frequency_hz REAL NOT NULL,
  held_for_ms INTEGER NOT NULL,
  completed_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS plays (
  id TEXT PRIMARY KEY,
  station TEXT NOT NULL,
  detail TEXT,
  duration_ms INTEGER NOT NULL,
  moves INTEGER NOT NULL,
  played_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS station_totals (
  station TEXT PRIMARY KEY,
  plays INTEGER NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create stats tables: %w", err)
	}
	return nil
}

// execer picks the transaction from tx.SQLManager.Within when one is active.
func (s *SQLitePlayStore) execer(ctx context.Context) interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if txn, ok := tx.FromContext(ctx); ok {
		return txn
	}
	return s.db
}

func (s *SQLitePlayStore) InsertMissionRun(ctx context.Context, run domain.MissionRun) error {
	const stmt = `
INSERT INTO mission_runs (id, mission_id, target_name, target_index, frequency_hz, held_for_ms, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?);
`
	_, err := s.execer(ctx).ExecContext(ctx, stmt,
		run.ID,
		run.MissionID,
		run.TargetName,
		run.TargetIndex,
		run.FrequencyHz,
		run.HeldForMs,
		run.CompletedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert mission run: %w", err)
	}
	return nil
}

func (s *SQLitePlayStore) InsertPlay(ctx context.Context, play domain.Play) error {
	const stmt = `
INSERT INTO plays (id, station, detail, duration_ms, moves, played_at)
VALUES (?, ?, ?, ?, ?, ?);
`
	_, err := s.execer(ctx).ExecContext(ctx, stmt,
		play.ID,
		string(play.Station),
		play.Detail,
		play.DurationMs,
		play.Moves,
		play.PlayedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert play: %w", err)
	}
	return nil
}

func (s *SQLitePlayStore) BumpStationTotal(ctx context.Context, station domain.Station) error {
	const stmt = `
INSERT INTO station_totals (station, plays) VALUES (?, 1)
ON CONFLICT(station) DO UPDATE SET plays = plays + 1;
`
	if _, err := s.execer(ctx).ExecContext(ctx, stmt, string(station)); err != nil {
		return fmt.Errorf("bump station total: %w", err)
	}
	return nil
}

func (s *SQLitePlayStore) StationTotals(ctx context.Context) ([]domain.StationTotal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT station, plays FROM station_totals ORDER BY station`)
	if err != nil {
		return nil, fmt.Errorf("query station totals: %w", err)
	}
	defer rows.Close()

	totals := []domain.StationTotal{}
	for rows.Next() {
		var total domain.StationTotal
		var station string
		if err := rows.Scan(&station, &total.Plays); err != nil {
			return nil, fmt.Errorf("scan station total: %w", err)
		}
		total.Station = domain.Station(station)
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate station totals: %w", err)
	}
	return totals, nil
}

func (s *SQLitePlayStore) RecentMissionRuns(ctx context.Context, limit int) ([]domain.MissionRun, error) {
	const query = `
SELECT id, mission_id, target_name, target_index, frequency_hz, held_for_ms, completed_at
FROM mission_runs ORDER BY completed_at DESC, id DESC LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query mission runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.MissionRun{}
	for rows.Next() {
		var run domain.MissionRun
		var completedAt string
		if err := rows.Scan(&run.ID, &run.MissionID, &run.TargetName, &run.TargetIndex, &run.FrequencyHz, &run.HeldForMs, &completedAt); err != nil {
			return nil, fmt.Errorf("scan mission run: %w", err)
		}
		run.CompletedAt, err = parseTime(completedAt)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mission runs: %w", err)
	}
	return runs, nil
}

func (s *SQLitePlayStore) RecentPlays(ctx context.Context, limit int) ([]domain.Play, error) {
	const query = `
SELECT id, station, detail, duration_ms, moves, played_at
FROM plays ORDER BY played_at DESC, id DESC LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query plays: %w", err)
	}
	defer rows.Close()

	plays := []domain.Play{}
	for rows.Next() {
		var play domain.Play
		var station, playedAt string
		if err := rows.Scan(&play.ID, &station, &play.Detail, &play.DurationMs, &play.Moves, &playedAt); err != nil {
			return nil, fmt.Errorf("scan play: %w", err)
		}
		play.Station = domain.Station(station)
		play.PlayedAt, err = parseTime(playedAt)
		if err != nil {
			return nil, err
		}
		plays = append(plays, play)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plays: %w", err)
	}
	return plays, nil
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp: %w", err)
	}
	return t, nil
}
