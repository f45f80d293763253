package application

import (
	"time"

	"github.com/bnema/vmsim/internal/domain"
)

type MoveRecord struct {
	At      time.Time
	Program domain.ProgramID
	Name    string
	Source  domain.ContainerKind
	Target  domain.ContainerKind
	Points  int
}

// Snapshot is a copy of everything a presentation layer can observe.
type Snapshot struct {
	SessionID         string
	Phase             domain.Phase
	Mode              domain.Mode
	LevelIndex        int
	LevelCount        int
	Level             *domain.Level
	Capacity          int
	CapacityOptions   []int
	RAM               []domain.PlacedProgram
	VirtualMemory     []domain.PlacedProgram
	SecondaryStorage  []domain.Program
	Queue             []domain.ProgramID
	Score             int
	Used              int
	UsagePercent      float64
	Prompt            string
	Message           string
	Busy              bool
	BusyText          string
	CanAdvance        bool
	AllLevelsComplete bool
	History           []MoveRecord
}

func (s Snapshot) Free() int {
	return s.Capacity - s.Used
}

func (s Snapshot) NextProgram() (domain.ProgramID, bool) {
	if len(s.Queue) == 0 {
		return "", false
	}

	return s.Queue[0], true
}
