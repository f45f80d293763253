package application

import (
	"time"

	"github.com/bnema/vmsim/internal/domain"
)

const (
	PointsLoad  = 10
	PointsSwap  = 5
	PointsClose = 3
)

var DefaultCapacityOptions = []int{2, 4, 8, 16}

type Delays struct {
	Load   time.Duration
	SwapIn time.Duration
	Close  time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		Load:   2000 * time.Millisecond,
		SwapIn: 1000 * time.Millisecond,
		Close:  1000 * time.Millisecond,
	}
}

// MoveCommand asks to move a program between containers. Program holds either
// an instance id or a program id; for a program id the first resident
// instance in Source is used.
type MoveCommand struct {
	Program string
	Source  domain.ContainerKind
	Target  domain.ContainerKind
}
