package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Programs []programSchema `toml:"programs"`
	Levels   []levelSchema   `toml:"levels"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported catalog schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type programSchema struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
	Size int    `toml:"size"`
	// Removable defaults to true when omitted.
	Removable     *bool  `toml:"removable,omitempty"`
	DefaultStatus string `toml:"default_status,omitempty"`
}

type levelSchema struct {
	Name        string   `toml:"name"`
	Capacity    int      `toml:"capacity"`
	Description string   `toml:"description"`
	Programs    []string `toml:"programs"`
}
