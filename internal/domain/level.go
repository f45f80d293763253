package domain

import (
	"fmt"
	"strings"
)

type Level struct {
	Capacity    int
	Name        string
	Description string
	Sequence    []ProgramID
}

func (l Level) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if l.Capacity <= 0 {
		return fmt.Errorf("level %q: capacity must be positive, got %d", l.Name, l.Capacity)
	}
	if len(l.Sequence) == 0 {
		return fmt.Errorf("level %q: program sequence is empty", l.Name)
	}

	return nil
}

// UniquePrograms returns the sequence ids in first-seen order.
func (l Level) UniquePrograms() []ProgramID {
	ids := make([]ProgramID, 0, len(l.Sequence))
	seen := make(map[ProgramID]struct{}, len(l.Sequence))
	for _, id := range l.Sequence {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}
