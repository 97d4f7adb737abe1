package filter

import (
	"strings"

	"github.com/animus-cli/animus/internal/domain"
)

// SourceFilter restricts records to a set of source logs
type SourceFilter struct {
	sources []domain.LogSource
}

// NewSourceFilter creates a source filter; an empty set matches everything
func NewSourceFilter(sources []domain.LogSource) *SourceFilter {
	return &SourceFilter{sources: sources}
}

// Match returns true if the record's log is in the set
func (f *SourceFilter) Match(rec *domain.EventRecord) bool {
	if len(f.sources) == 0 {
		return true
	}
	for _, s := range f.sources {
		if rec.LogName == s {
			return true
		}
	}
	return false
}

// ProviderFilter restricts records to a set of provider names.
// Names ending in * match by prefix.
type ProviderFilter struct {
	providers []string
}

// NewProviderFilter creates a provider filter; an empty set matches everything
func NewProviderFilter(providers []string) *ProviderFilter {
	return &ProviderFilter{providers: providers}
}

// Match returns true if the record's provider is in the set
func (f *ProviderFilter) Match(rec *domain.EventRecord) bool {
	if len(f.providers) == 0 {
		return true
	}
	for _, p := range f.providers {
		if strings.HasSuffix(p, "*") {
			if strings.HasPrefix(rec.ProviderName, strings.TrimSuffix(p, "*")) {
				return true
			}
		} else if strings.EqualFold(rec.ProviderName, p) {
			return true
		}
	}
	return false
}
