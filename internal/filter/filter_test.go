package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animus-cli/animus/internal/domain"
)

func testRecord(level domain.Level, source domain.LogSource, provider, msg string) *domain.EventRecord {
	return &domain.EventRecord{
		TimeCreated:  time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		LogName:      source,
		Level:        level,
		EventID:      100,
		ProviderName: provider,
		Message:      msg,
	}
}

func TestLevelFilter(t *testing.T) {
	f := NewLevelFilter(domain.LevelWarning)

	assert.True(t, f.Match(testRecord(domain.LevelCritical, domain.SourceSystem, "p", "m")))
	assert.True(t, f.Match(testRecord(domain.LevelError, domain.SourceSystem, "p", "m")))
	assert.True(t, f.Match(testRecord(domain.LevelWarning, domain.SourceSystem, "p", "m")))
	assert.False(t, f.Match(testRecord(domain.LevelInformation, domain.SourceSystem, "p", "m")))
	assert.False(t, f.Match(testRecord(domain.Level(7), domain.SourceSystem, "p", "m")), "unknown sorts below known")
}

func TestSourceFilter(t *testing.T) {
	f := NewSourceFilter([]domain.LogSource{domain.SourceSystem, domain.SourceSecurity})

	assert.True(t, f.Match(testRecord(domain.LevelError, domain.SourceSystem, "p", "m")))
	assert.True(t, f.Match(testRecord(domain.LevelError, domain.SourceSecurity, "p", "m")))
	assert.False(t, f.Match(testRecord(domain.LevelError, domain.SourceApplication, "p", "m")))

	empty := NewSourceFilter(nil)
	assert.True(t, empty.Match(testRecord(domain.LevelError, domain.SourceApplication, "p", "m")))
}

func TestProviderFilter(t *testing.T) {
	f := NewProviderFilter([]string{"Service Control Manager", "Microsoft-Windows-*"})

	assert.True(t, f.Match(testRecord(domain.LevelError, domain.SourceSystem, "Service Control Manager", "m")))
	assert.True(t, f.Match(testRecord(domain.LevelError, domain.SourceSystem, "service control manager", "m")), "exact match is case-insensitive")
	assert.True(t, f.Match(testRecord(domain.LevelError, domain.SourceSystem, "Microsoft-Windows-DNS-Client", "m")))
	assert.False(t, f.Match(testRecord(domain.LevelError, domain.SourceSystem, "disk", "m")))
}

func TestPatternFilter(t *testing.T) {
	f, err := NewPatternFilter(`(?i)terminated unexpectedly`)
	require.NoError(t, err)

	assert.True(t, f.Match(testRecord(domain.LevelError, domain.SourceSystem, "p", "The service Terminated Unexpectedly")))
	assert.False(t, f.Match(testRecord(domain.LevelError, domain.SourceSystem, "p", "service started")))

	_, err = NewPatternFilter("[[")
	require.Error(t, err)
}

func TestExcludePatternFilter(t *testing.T) {
	f, err := NewExcludePatternFilter(`noise`)
	require.NoError(t, err)

	assert.False(t, f.Match(testRecord(domain.LevelError, domain.SourceSystem, "p", "known noise event")))
	assert.True(t, f.Match(testRecord(domain.LevelError, domain.SourceSystem, "p", "real failure")))
}

func TestChain(t *testing.T) {
	level := NewLevelFilter(domain.LevelWarning)
	source := NewSourceFilter([]domain.LogSource{domain.SourceSystem})
	chain := NewChain(level, source)

	assert.True(t, chain.Match(testRecord(domain.LevelError, domain.SourceSystem, "p", "m")))
	assert.False(t, chain.Match(testRecord(domain.LevelError, domain.SourceApplication, "p", "m")))
	assert.False(t, chain.Match(testRecord(domain.LevelVerbose, domain.SourceSystem, "p", "m")))

	pat, err := NewPatternFilter("disk")
	require.NoError(t, err)
	chain.Add(pat)
	assert.True(t, chain.Match(testRecord(domain.LevelError, domain.SourceSystem, "p", "disk failure")))
	assert.False(t, chain.Match(testRecord(domain.LevelError, domain.SourceSystem, "p", "other")))

	assert.True(t, NewChain().Match(testRecord(domain.LevelVerbose, domain.SourceSystem, "p", "m")), "empty chain matches all")
}
