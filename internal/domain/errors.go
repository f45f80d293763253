package domain

import "errors"

var (
	ErrProgramNotFound    = errors.New("program not found")
	ErrLevelNotFound      = errors.New("level not found")
	ErrInvalidPhase       = errors.New("action not available in current phase")
	ErrNoMoreLevels       = errors.New("no more levels")
	ErrCapacityNotAllowed = errors.New("capacity option not offered")
)
