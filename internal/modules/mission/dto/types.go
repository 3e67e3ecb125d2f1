package dto

import "time"

type TargetInput struct {
	Name        string
	FrequencyHz float64
	Color       string
}

type StartInput struct {
	Targets []TargetInput
}

type TargetOutput struct {
	Name        string
	FrequencyHz float64
	Color       string
}

type StartOutput struct {
	MissionID    string
	Target       TargetOutput
	TotalTargets int
}

type IngestInput struct {
	FrequencyHz float64
	Voiced      bool
	At          time.Time
}

type TransitionOutput struct {
	Kind        string
	Target      TargetOutput
	TargetIndex int
	HeldForMs   int64
}

type SnapshotOutput struct {
	MissionID       string
	State           string
	HasTarget       bool
	Target          TargetOutput
	TargetIndex     int
	CompletedCount  int
	TotalTargets    int
	HoldProgress    float64
	LastFrequencyHz float64
	Voiced          bool
	AdvancePending  bool
}
