package eventlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animus-cli/animus/internal/domain"
)

func TestDecodeRecords(t *testing.T) {
	t.Run("array of records", func(t *testing.T) {
		data := []byte(`[
			{"TimeCreated":"2026-08-20T10:00:00Z","LogName":"System","Level":2,"EventID":7034,"ProviderName":"Service Control Manager","Message":"The service terminated unexpectedly"},
			{"TimeCreated":"2026-08-20T09:00:00Z","LogName":"System","Level":3,"EventID":1014,"ProviderName":"DNS Client Events","Message":"Name resolution timed out"}
		]`)
		records := decodeRecords(data)
		require.Len(t, records, 2)
		assert.Equal(t, int64(7034), records[0].EventID)
		assert.Equal(t, "DNS Client Events", records[1].ProviderName)
	})

	t.Run("single object without array wrapper", func(t *testing.T) {
		// ConvertTo-Json unwraps single-element collections
		data := []byte(`{"TimeCreated":"2026-08-20T10:00:00Z","LogName":"Application","Level":4,"EventID":1,"ProviderName":"MsiInstaller","Message":"ok"}`)
		records := decodeRecords(data)
		require.Len(t, records, 1)
		assert.Equal(t, "MsiInstaller", records[0].ProviderName)
	})

	t.Run("empty result", func(t *testing.T) {
		assert.Empty(t, decodeRecords([]byte(`[]`)))
		assert.Empty(t, decodeRecords([]byte(``)))
		assert.Empty(t, decodeRecords([]byte("  \n")))
	})

	t.Run("non-object array elements are skipped", func(t *testing.T) {
		records := decodeRecords([]byte(`[null, 42, {"TimeCreated":"2026-08-20T10:00:00Z","Level":2,"EventID":5}]`))
		require.Len(t, records, 1)
		assert.Equal(t, int64(5), records[0].EventID)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("complete record", func(t *testing.T) {
		rec, err := Normalize(RawRecord{
			TimeCreated:  "2026-08-20T10:15:30.1234567Z",
			LogName:      "System",
			Level:        2,
			EventID:      7034,
			ProviderName: "Service Control Manager",
			Message:      "The Print Spooler service terminated unexpectedly.\r\nIt has done this 3 time(s).",
			MachineName:  "DESKTOP-AB12CD",
			ProcessID:    712,
			ThreadID:     816,
		}, domain.SourceSystem)
		require.NoError(t, err)

		assert.Equal(t, domain.SourceSystem, rec.LogName)
		assert.Equal(t, domain.LevelError, rec.Level)
		assert.Equal(t, 7034, rec.EventID)
		assert.Equal(t, time.UTC, rec.TimeCreated.Location())
		assert.Equal(t, "The Print Spooler service terminated unexpectedly.\nIt has done this 3 time(s).", rec.Message)
		assert.Equal(t, 712, rec.ProcessID)
	})

	t.Run("missing timestamp is an error", func(t *testing.T) {
		_, err := Normalize(RawRecord{LogName: "System", Level: 2, EventID: 1}, domain.SourceSystem)
		require.Error(t, err)
	})

	t.Run("unparseable log name falls back to queried source", func(t *testing.T) {
		rec, err := Normalize(RawRecord{
			TimeCreated: "2026-08-20T10:00:00Z",
			LogName:     "Microsoft-Windows-Whatever/Operational",
			Level:       4,
		}, domain.SourceApplication)
		require.NoError(t, err)
		assert.Equal(t, domain.SourceApplication, rec.LogName)
	})

	t.Run("unknown level code is preserved", func(t *testing.T) {
		rec, err := Normalize(RawRecord{TimeCreated: "2026-08-20T10:00:00Z", Level: 7}, domain.SourceSystem)
		require.NoError(t, err)
		assert.Equal(t, domain.Level(7), rec.Level)
		assert.Equal(t, "Unknown(7)", rec.Level.String())
	})
}

func TestSanitizeMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text unchanged", "service started", "service started"},
		{"CRLF folded", "line one\r\nline two", "line one\nline two"},
		{"lone CR folded", "line one\rline two", "line one\nline two"},
		{"tab becomes space", "a\tb", "a b"},
		{"control characters stripped", "a\x00b\x1bc", "abc"},
		{"non-ASCII stripped", "café — done", "caf  done"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeMessage(tt.in))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Run("round-trip format", func(t *testing.T) {
		ts, err := parseTimestamp("2026-08-20T10:15:30.1234567Z")
		require.NoError(t, err)
		assert.Equal(t, 2026, ts.Year())
	})

	t.Run("offset timestamps convert to UTC downstream", func(t *testing.T) {
		ts, err := parseTimestamp("2026-08-20T12:15:30+02:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 8, 20, 10, 15, 30, 0, time.UTC), ts.UTC())
	})

	t.Run("legacy Date(ms) encoding", func(t *testing.T) {
		ts, err := parseTimestamp("/Date(1755684930000)/")
		require.NoError(t, err)
		assert.Equal(t, int64(1755684930), ts.Unix())
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := parseTimestamp("yesterday")
		require.Error(t, err)
		_, err = parseTimestamp("")
		require.Error(t, err)
	})
}
