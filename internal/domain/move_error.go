package domain

import "fmt"

type MoveErrorKind string

const (
	MoveErrorCapacityExceeded    MoveErrorKind = "capacity_exceeded"
	MoveErrorOutOfOrder          MoveErrorKind = "out_of_order"
	MoveErrorInvalidSource       MoveErrorKind = "invalid_source"
	MoveErrorNotRemovable        MoveErrorKind = "not_removable"
	MoveErrorMustBeInactiveFirst MoveErrorKind = "must_be_inactive_first"
	MoveErrorInactiveMustSwap    MoveErrorKind = "inactive_must_swap"
	MoveErrorBusy                MoveErrorKind = "busy"
	MoveErrorNotRunning          MoveErrorKind = "not_running"
	MoveErrorInvalidRequest      MoveErrorKind = "invalid_request"
)

type CapacityKind string

const (
	CapacityHardLimit        CapacityKind = "hard_limit"
	CapacityUnsatisfiable    CapacityKind = "unsatisfiable"
	CapacityNeedsSwap        CapacityKind = "needs_swap"
	CapacityNoInactiveToFree CapacityKind = "no_inactive_to_free"
)

// MoveError is the recoverable outcome of a rejected move or toggle.
// State is never modified when one is returned.
type MoveError struct {
	Kind     MoveErrorKind
	Capacity CapacityKind
	// Program is the name of the program the request was about.
	Program string
	// Expected names the program at the front of the task queue for OutOfOrder.
	Expected ProgramID
	// ExpectedName is the display name of Expected when it is known.
	ExpectedName string
	Detail       string
}

func (e *MoveError) Error() string {
	switch e.Kind {
	case MoveErrorCapacityExceeded:
		return e.capacityMessage()
	case MoveErrorOutOfOrder:
		expected := e.ExpectedName
		if expected == "" {
			expected = string(e.Expected)
		}
		return fmt.Sprintf("Out of order: load %s next.", expected)
	case MoveErrorInvalidSource:
		return "That move is not allowed from there."
	case MoveErrorNotRemovable:
		return fmt.Sprintf("%s is the operating system and must stay in RAM.", e.program())
	case MoveErrorMustBeInactiveFirst:
		return fmt.Sprintf("%s is still open. Mark it inactive before swapping it to virtual memory.", e.program())
	case MoveErrorInactiveMustSwap:
		return fmt.Sprintf("%s is inactive. Swap it to virtual memory instead of closing it.", e.program())
	case MoveErrorBusy:
		return "Please wait, the previous operation is still in progress."
	case MoveErrorNotRunning:
		return "No level is running. Start or advance a level first."
	case MoveErrorInvalidRequest:
		if e.Detail != "" {
			return "Invalid request: " + e.Detail
		}
		return "Invalid request."
	default:
		return string(e.Kind)
	}
}

func (e *MoveError) capacityMessage() string {
	switch e.Capacity {
	case CapacityHardLimit:
		return fmt.Sprintf("%s is too large to ever run with this much RAM.", e.program())
	case CapacityUnsatisfiable:
		return fmt.Sprintf("Not enough RAM for %s even if every inactive program is swapped out.", e.program())
	case CapacityNeedsSwap:
		return fmt.Sprintf("Not enough free RAM for %s. Swap inactive programs to virtual memory first.", e.program())
	case CapacityNoInactiveToFree:
		return fmt.Sprintf("Not enough free RAM for %s and no inactive programs to swap out. Mark a program inactive first.", e.program())
	default:
		return fmt.Sprintf("Not enough RAM for %s.", e.program())
	}
}

func (e *MoveError) program() string {
	if e.Program == "" {
		return "This program"
	}

	return e.Program
}
