package domain

import (
	"errors"
	"fmt"
	"slices"
)

type Catalog struct {
	Programs []Program
	Levels   []Level
}

func (c Catalog) Validate() error {
	if len(c.Programs) == 0 {
		return errors.New("catalog has no programs")
	}

	seen := make(map[ProgramID]struct{}, len(c.Programs))
	fixed := 0
	for _, p := range c.Programs {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("duplicate program id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		if !p.Removable {
			fixed++
		}
	}
	if fixed > 1 {
		return fmt.Errorf("catalog declares %d non-removable programs, at most one is allowed", fixed)
	}

	for i, level := range c.Levels {
		if err := level.Validate(); err != nil {
			return fmt.Errorf("level %d: %w", i+1, err)
		}
		for _, id := range level.Sequence {
			if _, ok := seen[id]; !ok {
				return fmt.Errorf("level %q references %w: %q", level.Name, ErrProgramNotFound, id)
			}
		}
		if err := c.validateLevelFit(level); err != nil {
			return err
		}
	}

	return nil
}

// validateLevelFit rejects levels holding a program that fits the capacity
// alone but never next to the pinned program. Programs larger than the whole
// capacity stay allowed: loading them is the hard-limit lesson.
func (c Catalog) validateLevelFit(level Level) error {
	pinned, ok := c.Pinned()
	if !ok || !slices.Contains(level.Sequence, pinned.ID) {
		return nil
	}
	for _, id := range level.UniquePrograms() {
		p, err := c.Program(id)
		if err != nil {
			return err
		}
		if !p.Removable || p.Size > level.Capacity {
			continue
		}
		if p.Size+pinned.Size > level.Capacity {
			return fmt.Errorf("level %q: program %q (size %d) cannot fit next to %q (size %d) in capacity %d",
				level.Name, p.ID, p.Size, pinned.ID, pinned.Size, level.Capacity)
		}
	}

	return nil
}

func (c Catalog) Program(id ProgramID) (Program, error) {
	for _, p := range c.Programs {
		if p.ID == id {
			return p, nil
		}
	}

	return Program{}, ErrProgramNotFound
}

func (c Catalog) Level(index int) (Level, error) {
	if index < 0 || index >= len(c.Levels) {
		return Level{}, ErrLevelNotFound
	}

	return c.Levels[index], nil
}

// Pinned returns the non-removable program, if the catalog declares one.
func (c Catalog) Pinned() (Program, bool) {
	for _, p := range c.Programs {
		if !p.Removable {
			return p, true
		}
	}

	return Program{}, false
}

// ProgramsFitting returns catalog programs that can be resident in RAM of the
// given capacity, in catalog order. Removable programs must fit next to the
// pinned program whenever the pinned program itself fits.
func (c Catalog) ProgramsFitting(capacity int) []Program {
	reserved := 0
	if pinned, ok := c.Pinned(); ok && pinned.Size <= capacity {
		reserved = pinned.Size
	}

	programs := make([]Program, 0, len(c.Programs))
	for _, p := range c.Programs {
		limit := capacity
		if p.Removable {
			limit -= reserved
		}
		if p.Size <= limit {
			programs = append(programs, p)
		}
	}

	return programs
}
