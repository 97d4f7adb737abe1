package filter

import (
	"github.com/animus-cli/animus/internal/domain"
)

// LevelFilter filters records by minimum severity
type LevelFilter struct {
	minLevel domain.Level
}

// NewLevelFilter creates a level filter
func NewLevelFilter(minLevel domain.Level) *LevelFilter {
	return &LevelFilter{minLevel: minLevel}
}

// Match returns true if the record is at least as severe as the minimum
func (f *LevelFilter) Match(rec *domain.EventRecord) bool {
	return rec.Level.Severity() >= f.minLevel.Severity()
}
