package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"klangkiosk/internal/modules/pairs/service"
	apperrors "klangkiosk/internal/platform/errors"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

type fakeRecorder struct {
	solves int
	moves  int
	fail   bool
}

func (f *fakeRecorder) RecordSolve(ctx context.Context, moves int, durationMs int64) error {
	if f.fail {
		return errors.New("stats unavailable")
	}
	f.solves++
	f.moves = moves
	return nil
}

func newPairs(clk *fakeClock, recorder *fakeRecorder) *Pairs {
	return New(service.NewPairsService(clk, recorder, []string{"Glocke", "Trommel"}, 1200*time.Millisecond))
}

// solveBoard flips every pair in motif order; mismatches wait out the delay.
func solveBoard(t *testing.T, clk *fakeClock, pairs *Pairs) {
	t.Helper()
	ctx := context.Background()
	snap, err := pairs.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	byMotif := make(map[string][]int)
	for i, card := range snap.Cards {
		byMotif[card.Motif] = append(byMotif[card.Motif], i)
	}
	for _, indices := range byMotif {
		for _, index := range indices {
			if _, err := pairs.Flip(ctx, index); err != nil {
				t.Fatalf("Flip(%d): %v", index, err)
			}
			clk.advance(300 * time.Millisecond)
		}
	}
}

func TestDealAndSolveRecordsPlay(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	recorder := &fakeRecorder{}
	pairs := newPairs(clk, recorder)
	ctx := context.Background()

	board, err := pairs.Deal(ctx, 42)
	if err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if board.TotalPairs != 2 || len(board.Cards) != 4 {
		t.Fatalf("unexpected board: %+v", board)
	}

	solveBoard(t, clk, pairs)

	snap, err := pairs.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !snap.Solved {
		t.Fatal("expected solved board")
	}
	if recorder.solves != 1 || recorder.moves != 2 {
		t.Fatalf("solves = %d, moves = %d; want 1, 2", recorder.solves, recorder.moves)
	}
}

func TestFlipWithoutBoardFails(t *testing.T) {
	t.Parallel()

	pairs := newPairs(&fakeClock{now: time.Now()}, &fakeRecorder{})

	_, err := pairs.Flip(context.Background(), 0)
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDealWithZeroSeedDrawsFromClock(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	pairs := newPairs(clk, &fakeRecorder{})

	board, err := pairs.Deal(context.Background(), 0)
	if err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if board.Seed != clk.now.UnixNano() {
		t.Fatalf("seed = %d, want clock nanos %d", board.Seed, clk.now.UnixNano())
	}
}

func TestRedealResetsProgress(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	pairs := newPairs(clk, &fakeRecorder{})
	ctx := context.Background()

	if _, err := pairs.Deal(ctx, 42); err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if _, err := pairs.Flip(ctx, 0); err != nil {
		t.Fatalf("Flip: %v", err)
	}

	board, err := pairs.Deal(ctx, 43)
	if err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if board.Moves != 0 || board.MatchedPairs != 0 || board.Seed != 43 {
		t.Fatalf("unexpected board after redeal: %+v", board)
	}
	for i, card := range board.Cards {
		if card.FaceUp {
			t.Fatalf("card %d still face up after redeal", i)
		}
	}
}
