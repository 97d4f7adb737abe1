package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LogSource identifies one of the queried Windows event logs
type LogSource string

const (
	SourceSystem      LogSource = "System"
	SourceApplication LogSource = "Application"
	SourceSecurity    LogSource = "Security"
)

// AllSources returns the full set of collectable logs in canonical order
func AllSources() []LogSource {
	return []LogSource{SourceSystem, SourceApplication, SourceSecurity}
}

// ParseLogSource converts a string to a LogSource
func ParseLogSource(s string) (LogSource, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "system":
		return SourceSystem, true
	case "application":
		return SourceApplication, true
	case "security":
		return SourceSecurity, true
	}
	return "", false
}

// Level is an event severity backed by the raw Windows level code.
// Codes 1-5 are the known levels; any other code is carried through
// unchanged and rendered as Unknown(n).
type Level int

const (
	LevelCritical    Level = 1
	LevelError       Level = 2
	LevelWarning     Level = 3
	LevelInformation Level = 4
	LevelVerbose     Level = 5
)

// Known reports whether the level is one of the five named severities
func (l Level) Known() bool {
	return l >= LevelCritical && l <= LevelVerbose
}

func (l Level) String() string {
	switch l {
	case LevelCritical:
		return "Critical"
	case LevelError:
		return "Error"
	case LevelWarning:
		return "Warning"
	case LevelInformation:
		return "Information"
	case LevelVerbose:
		return "Verbose"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

// Severity returns the ordering weight of a level (higher = more severe).
// Unknown levels sort below Verbose.
func (l Level) Severity() int {
	if !l.Known() {
		return 0
	}
	return 6 - int(l)
}

// ParseLevel converts a level name or numeric code string to a Level
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return LevelCritical, true
	case "error":
		return LevelError, true
	case "warning":
		return LevelWarning, true
	case "information", "info":
		return LevelInformation, true
	case "verbose":
		return LevelVerbose, true
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return Level(n), true
	}
	if raw, ok := parseUnknownLevel(s); ok {
		return Level(raw), true
	}
	return 0, false
}

func parseUnknownLevel(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "Unknown(") || !strings.HasSuffix(s, ")") {
		return 0, false
	}
	n, err := strconv.Atoi(s[len("Unknown(") : len(s)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// MarshalJSON serializes the level as its display name so downstream
// consumers see "Error" rather than a bare code.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts both level names and raw numeric codes
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, ok := ParseLevel(s)
		if !ok {
			return fmt.Errorf("invalid level %q", s)
		}
		*l = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid level %s", data)
	}
	*l = Level(n)
	return nil
}

// EventRecord is one normalized event log entry. Field names on the wire
// follow the collector output contract (TimeCreated, LogName, ...) that the
// downstream Q&A layer depends on. Records are never mutated after the
// normalizer produces them.
type EventRecord struct {
	TimeCreated  time.Time `json:"TimeCreated"`
	LogName      LogSource `json:"LogName"`
	Level        Level     `json:"Level"`
	EventID      int       `json:"EventID"`
	ProviderName string    `json:"ProviderName"`
	Message      string    `json:"Message"`
	MachineName  string    `json:"MachineName,omitempty"`
	ProcessID    int       `json:"ProcessId,omitempty"`
	ThreadID     int       `json:"ThreadId,omitempty"`
}
