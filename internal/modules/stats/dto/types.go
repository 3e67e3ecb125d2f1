package dto

import "time"

type MissionRunInput struct {
	MissionID   string
	TargetName  string
	TargetIndex int
	FrequencyHz float64
	HeldForMs   int64
}

type PlayInput struct {
	Station    string
	Detail     string
	DurationMs int64
	Moves      int
}

type MissionRunOutput struct {
	TargetName  string
	TargetIndex int
	FrequencyHz float64
	HeldForMs   int64
	CompletedAt time.Time
}

type PlayOutput struct {
	Station    string
	Detail     string
	DurationMs int64
	Moves      int
	PlayedAt   time.Time
}

type StationTotalOutput struct {
	Station string
	Plays   int
}

type OverviewOutput struct {
	Totals      []StationTotalOutput
	RecentRuns  []MissionRunOutput
	RecentPlays []PlayOutput
}
