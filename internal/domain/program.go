package domain

import (
	"fmt"
	"strings"
)

type ProgramID string

type Status string

const (
	StatusOpen     Status = "open"
	StatusInactive Status = "inactive"
)

func (s Status) Toggled() Status {
	if s == StatusInactive {
		return StatusOpen
	}

	return StatusInactive
}

type Program struct {
	ID        ProgramID
	Name      string
	Size      int
	Removable bool
	// DefaultStatus is empty for catalog entries that never carry a status outside RAM.
	DefaultStatus Status
}

func (p Program) Validate() error {
	if strings.TrimSpace(string(p.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("program %q: name is required", p.ID)
	}
	if p.Size <= 0 {
		return fmt.Errorf("program %q: size must be positive, got %d", p.ID, p.Size)
	}
	switch p.DefaultStatus {
	case "", StatusOpen, StatusInactive:
	default:
		return fmt.Errorf("program %q: unsupported default status %q", p.ID, p.DefaultStatus)
	}

	return nil
}

// PlacedProgram is a runtime copy of a catalog entry held by a container.
type PlacedProgram struct {
	InstanceID string
	Program    Program
	Status     Status
}

func (p PlacedProgram) ID() ProgramID {
	return p.Program.ID
}

func (p PlacedProgram) Size() int {
	return p.Program.Size
}

// Swappable reports whether the instance can be freed to make room in RAM.
func (p PlacedProgram) Swappable() bool {
	return p.Program.Removable && p.Status == StatusInactive
}
