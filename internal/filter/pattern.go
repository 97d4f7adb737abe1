package filter

import (
	"regexp"

	"github.com/animus-cli/animus/internal/domain"
)

// PatternFilter includes records whose message matches a regex
type PatternFilter struct {
	pattern *regexp.Regexp
}

// NewPatternFilter creates a pattern filter from a pattern string
func NewPatternFilter(pattern string) (*PatternFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &PatternFilter{pattern: re}, nil
}

// NewPatternFilterFromRegexp creates a pattern filter from a compiled regex
func NewPatternFilterFromRegexp(re *regexp.Regexp) *PatternFilter {
	return &PatternFilter{pattern: re}
}

// Match returns true if the message matches (nil pattern matches all)
func (f *PatternFilter) Match(rec *domain.EventRecord) bool {
	if f.pattern == nil {
		return true
	}
	return f.pattern.MatchString(rec.Message)
}

// ExcludePatternFilter excludes records whose message matches a regex
type ExcludePatternFilter struct {
	pattern *regexp.Regexp
}

// NewExcludePatternFilter creates an exclusion filter from a pattern string
func NewExcludePatternFilter(pattern string) (*ExcludePatternFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &ExcludePatternFilter{pattern: re}, nil
}

// Match returns true if the message does NOT match the exclusion pattern
func (f *ExcludePatternFilter) Match(rec *domain.EventRecord) bool {
	if f.pattern == nil {
		return true
	}
	return !f.pattern.MatchString(rec.Message)
}
