package domain

import "time"

// Run is the record of one completed target tone.
type Run struct {
	MissionID   string
	Target      TargetTone
	TargetIndex int
	HeldFor     time.Duration
	CompletedAt time.Time
}
