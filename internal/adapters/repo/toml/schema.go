package toml

import "fmt"

const (
	currentSchemaVersion = 1
	allMethodsKeyword    = "all"
)

type fileSchema struct {
	Version            int          `toml:"version"`
	GracePeriodSeconds int          `toml:"grace_period_seconds"`
	Plans              []planSchema `toml:"plans"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported plans schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type planSchema struct {
	ID                 string   `toml:"id"`
	MaxConcurrent      int      `toml:"max_concurrent"`
	MaxDurationSeconds int      `toml:"max_duration_seconds"`
	Methods            []string `toml:"methods"`
}
