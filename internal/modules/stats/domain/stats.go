package domain

import (
	"fmt"
	"time"
)

// Station identifies one kiosk station in the play log.
type Station string

const (
	StationMission  Station = "stimmspiel"
	StationTonebank Station = "klangtafel"
	StationPairs    Station = "paare"
)

func (s Station) Validate() error {
	switch s {
	case StationMission, StationTonebank, StationPairs:
		return nil
	default:
		return fmt.Errorf("unknown station: %s", s)
	}
}

// MissionRun is one completed target tone of the pitch mission.
type MissionRun struct {
	ID          string
	MissionID   string
	TargetName  string
	TargetIndex int
	FrequencyHz float64
	HeldForMs   int64
	CompletedAt time.Time
}

// Play is one finished interaction at any station: a scanned tone program,
// a solved pairs board, a completed mission target.
type Play struct {
	ID         string
	Station    Station
	Detail     string
	DurationMs int64
	Moves      int
	PlayedAt   time.Time
}

type StationTotal struct {
	Station Station
	Plays   int
}
