package dto

import "time"

type CardOutput struct {
	Motif   string
	FaceUp  bool
	Matched bool
}

type BoardOutput struct {
	Seed         int64
	Cards        []CardOutput
	Moves        int
	MatchedPairs int
	TotalPairs   int
	Solved       bool
	ElapsedMs    int64
	HidePending  bool
}

type TransitionOutput struct {
	Kind    string
	Indices []int
	Motif   string
	At      time.Time
}
