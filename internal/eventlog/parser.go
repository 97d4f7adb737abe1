package eventlog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/animus-cli/animus/internal/domain"
)

// RawRecord is the typed shape of one Get-WinEvent record as emitted by the
// collection script. The script output is the only place an untyped
// property bag exists; nothing past Normalize sees one.
type RawRecord struct {
	TimeCreated  string
	LogName      string
	Level        int64
	EventID      int64
	ProviderName string
	Message      string
	MachineName  string
	ProcessID    int64
	ThreadID     int64
}

// decodeRecords parses the JSON emitted by ConvertTo-Json, which produces a
// bare object for a single record and an array otherwise.
func decodeRecords(data []byte) []RawRecord {
	parsed := gjson.ParseBytes(data)
	if !parsed.Exists() {
		return nil
	}

	var records []RawRecord
	appendOne := func(v gjson.Result) {
		if !v.IsObject() {
			return
		}
		records = append(records, RawRecord{
			TimeCreated:  v.Get("TimeCreated").String(),
			LogName:      v.Get("LogName").String(),
			Level:        v.Get("Level").Int(),
			EventID:      v.Get("EventID").Int(),
			ProviderName: v.Get("ProviderName").String(),
			Message:      v.Get("Message").String(),
			MachineName:  v.Get("MachineName").String(),
			ProcessID:    v.Get("ProcessId").Int(),
			ThreadID:     v.Get("ThreadId").Int(),
		})
	}

	if parsed.IsArray() {
		parsed.ForEach(func(_, v gjson.Result) bool {
			appendOne(v)
			return true
		})
	} else {
		appendOne(parsed)
	}
	return records
}

// Normalize converts one raw record into an EventRecord. A record that
// cannot be normalized is dropped by the caller, never allowed to abort
// the batch.
func Normalize(raw RawRecord, source domain.LogSource) (domain.EventRecord, error) {
	ts, err := parseTimestamp(raw.TimeCreated)
	if err != nil {
		return domain.EventRecord{}, fmt.Errorf("record timestamp %q: %w", raw.TimeCreated, err)
	}

	logName := source
	if parsed, ok := domain.ParseLogSource(raw.LogName); ok {
		logName = parsed
	}

	return domain.EventRecord{
		TimeCreated:  ts.UTC(),
		LogName:      logName,
		Level:        domain.Level(raw.Level),
		EventID:      int(raw.EventID),
		ProviderName: raw.ProviderName,
		Message:      SanitizeMessage(raw.Message),
		MachineName:  raw.MachineName,
		ProcessID:    int(raw.ProcessID),
		ThreadID:     int(raw.ThreadID),
	}, nil
}

// SanitizeMessage folds CRLF and lone CR into single newlines and strips
// everything outside printable ASCII. Lossy by design: the result must be
// safe inside a JSON string and a plain-text prompt.
func SanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case r >= 0x20 && r <= 0x7e:
			return r
		default:
			return -1
		}
	}, msg)
}

var psDateRe = regexp.MustCompile(`^/Date\((-?\d+)\)/$`)

// parseTimestamp accepts the ISO-8601 round-trip format the collection
// script emits, plus the legacy /Date(ms)/ encoding older ConvertTo-Json
// versions produce.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if m := psDateRe.FindStringSubmatch(s); m != nil {
		ms, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(ms).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}
