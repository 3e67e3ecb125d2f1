package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// RevealDelay is how long a mismatched pair stays face up before flipping back.
const RevealDelay = 1200 * time.Millisecond

// Card is one face on the board. Matched cards stay face up for good.
type Card struct {
	Motif   string
	FaceUp  bool
	Matched bool
}

// EventKind labels board transitions for the log and the view layer.
type EventKind string

const (
	EventCardRevealed EventKind = "card_revealed"
	EventPairMatched  EventKind = "pair_matched"
	EventPairHidden   EventKind = "pair_hidden"
	EventBoardSolved  EventKind = "board_solved"
)

// Event is one board transition.
type Event struct {
	Kind    EventKind
	Indices []int
	Motif   string
	At      time.Time
}

// pendingHide is a scheduled flip-back of a mismatched pair. A generation
// mismatch at fire time means the board was redealt in between and the hide
// must be dropped.
type pendingHide struct {
	due        time.Time
	generation uint64
	first      int
	second     int
}

// Board is the memory game state machine. It is not safe for concurrent use;
// the kiosk loop feeds it from a single goroutine.
type Board struct {
	cards       []Card
	seed        int64
	firstUp     int
	matched     int
	moves       int
	startedAt   time.Time
	solvedAt    time.Time
	pending     *pendingHide
	generation  uint64
	revealDelay time.Duration
}

// Deal builds a shuffled board from the motif list. The same seed always
// produces the same layout, which keeps boards reproducible from a code.
func Deal(motifs []string, seed int64, startedAt time.Time) (*Board, error) {
	if len(motifs) < 2 {
		return nil, fmt.Errorf("need at least 2 motifs, got %d", len(motifs))
	}
	seen := make(map[string]struct{}, len(motifs))
	for _, motif := range motifs {
		if motif == "" {
			return nil, fmt.Errorf("motif name must not be empty")
		}
		if _, dup := seen[motif]; dup {
			return nil, fmt.Errorf("duplicate motif: %s", motif)
		}
		seen[motif] = struct{}{}
	}

	cards := make([]Card, 0, len(motifs)*2)
	for _, motif := range motifs {
		cards = append(cards, Card{Motif: motif}, Card{Motif: motif})
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return &Board{cards: cards, seed: seed, firstUp: -1, startedAt: startedAt}, nil
}

// Flip turns the card at index face up. Illegal flips are silently ignored:
// out-of-range indices, already face-up or matched cards, and any flip while
// a mismatched pair is still waiting to hide.
func (b *Board) Flip(index int, at time.Time) []Event {
	if b.Solved() || b.pending != nil {
		return nil
	}
	if index < 0 || index >= len(b.cards) {
		return nil
	}
	card := &b.cards[index]
	if card.FaceUp || card.Matched {
		return nil
	}

	card.FaceUp = true
	events := []Event{{Kind: EventCardRevealed, Indices: []int{index}, Motif: card.Motif, At: at}}

	if b.firstUp < 0 {
		b.firstUp = index
		return events
	}

	first := b.firstUp
	b.firstUp = -1
	b.moves++

	if b.cards[first].Motif == card.Motif {
		b.cards[first].Matched = true
		card.Matched = true
		b.matched++
		events = append(events, Event{
			Kind:    EventPairMatched,
			Indices: []int{first, index},
			Motif:   card.Motif,
			At:      at,
		})
		if b.matched == len(b.cards)/2 {
			b.solvedAt = at
			events = append(events, Event{Kind: EventBoardSolved, At: at})
		}
		return events
	}

	b.pending = &pendingHide{
		due:        at.Add(b.delay()),
		generation: b.generation,
		first:      first,
		second:     index,
	}
	return events
}

// Tick flips a mismatched pair back once its reveal delay has elapsed.
func (b *Board) Tick(at time.Time) []Event {
	if b.pending == nil || at.Before(b.pending.due) {
		return nil
	}
	pending := b.pending
	b.pending = nil
	if pending.generation != b.generation {
		return nil
	}

	b.cards[pending.first].FaceUp = false
	b.cards[pending.second].FaceUp = false
	return []Event{{
		Kind:    EventPairHidden,
		Indices: []int{pending.first, pending.second},
		At:      at,
	}}
}

// Redeal reshuffles with a fresh seed and drops any pending hide.
func (b *Board) Redeal(motifs []string, seed int64, startedAt time.Time) error {
	fresh, err := Deal(motifs, seed, startedAt)
	if err != nil {
		return err
	}
	generation := b.generation + 1
	delay := b.revealDelay
	*b = *fresh
	b.generation = generation
	b.revealDelay = delay
	return nil
}

// SetRevealDelay overrides the default mismatch reveal delay.
func (b *Board) SetRevealDelay(d time.Duration) {
	if d > 0 {
		b.revealDelay = d
	}
}

func (b *Board) delay() time.Duration {
	if b.revealDelay > 0 {
		return b.revealDelay
	}
	return RevealDelay
}

func (b *Board) Cards() []Card {
	out := make([]Card, len(b.cards))
	copy(out, b.cards)
	return out
}

func (b *Board) Seed() int64 { return b.seed }

func (b *Board) Moves() int { return b.moves }

func (b *Board) MatchedPairs() int { return b.matched }

func (b *Board) TotalPairs() int { return len(b.cards) / 2 }

func (b *Board) Solved() bool { return !b.solvedAt.IsZero() }

// Elapsed is the play time so far, frozen once the board is solved.
func (b *Board) Elapsed(now time.Time) time.Duration {
	if b.Solved() {
		return b.solvedAt.Sub(b.startedAt)
	}
	return now.Sub(b.startedAt)
}

// HidePending reports whether a mismatched pair is waiting to flip back.
func (b *Board) HidePending() bool { return b.pending != nil }
