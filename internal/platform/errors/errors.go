package apperrors

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrNoActiveMission      = errors.New("no active mission")
	ErrMissionAlreadyActive = errors.New("mission already active")
	ErrUnknownProgram       = errors.New("unknown tone program")
	ErrSourceUnavailable    = errors.New("capture source unavailable")
)
