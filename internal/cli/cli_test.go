package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animus-cli/animus/internal/config"
	"github.com/animus-cli/animus/internal/domain"
	"github.com/animus-cli/animus/internal/output"
)

// testGlobals creates a Globals struct with captured stdout/stderr
func testGlobals(format string) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Globals{
		Format: format,
		Stdout: stdout,
		Stderr: stderr,
		Config: config.Default(),
	}, stdout, stderr
}

// scriptedRunner serves canned JSON per source log; other scripts get "{}"
type scriptedRunner struct {
	bySource map[string]string
}

func (r *scriptedRunner) Run(_ context.Context, script string) ([]byte, error) {
	for name, out := range r.bySource {
		if strings.Contains(script, "LogName='"+name+"'") {
			return []byte(out), nil
		}
	}
	if strings.Contains(script, "Get-WinEvent") {
		return []byte(`[]`), nil
	}
	return []byte(`{}`), nil
}

func fixedClock() clock.Clock {
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC))
	return mock
}

func writeTestDocument(t *testing.T) string {
	t.Helper()

	events := domain.NewEvents()
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	events.System = []domain.EventRecord{
		{TimeCreated: base, LogName: domain.SourceSystem, Level: domain.LevelError, EventID: 7034, ProviderName: "Service Control Manager", Message: "The service terminated unexpectedly"},
		{TimeCreated: base.Add(time.Minute), LogName: domain.SourceSystem, Level: domain.LevelWarning, EventID: 1014, ProviderName: "DNS Client Events", Message: "Name resolution timed out"},
	}
	events.Application = []domain.EventRecord{
		{TimeCreated: base, LogName: domain.SourceApplication, Level: domain.LevelInformation, EventID: 1, ProviderName: "MsiInstaller", Message: "Installation completed"},
	}

	doc := &domain.Document{
		CollectionInfo: domain.CollectionInfo{
			CollectionID:   "test-collection",
			CollectionTime: base.Add(2 * time.Hour),
			TimeRange:      domain.TimeRange{StartTime: base.Add(-46 * time.Hour), EndTime: base.Add(2 * time.Hour), HoursBack: 48},
			EventCounts:    events.Counts(),
		},
		SystemInfo: domain.SystemInfo{
			OS:       domain.OSInfo{Caption: "Microsoft Windows 11 Pro", BuildNumber: "26100"},
			Computer: domain.ComputerInfo{MachineName: "DESKTOP-AB12CD"},
			Disks:    []domain.DiskInfo{},
		},
		Events: events,
	}

	path := filepath.Join(t.TempDir(), "doc.json")
	_, err := output.NewWriter().WriteDocument(path, doc)
	require.NoError(t, err)
	return path
}

// --- Collect Command Tests ---

func TestCollectCmd_Run(t *testing.T) {
	systemEvents := `[{"TimeCreated":"2026-08-20T11:30:00Z","LogName":"System","Level":2,"EventID":7034,"ProviderName":"Service Control Manager","Message":"down"}]`

	t.Run("writes document and reports counts", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		globals.Runner = &scriptedRunner{bySource: map[string]string{"System": systemEvents}}
		globals.Clock = fixedClock()

		out := filepath.Join(t.TempDir(), "logs.json")
		cmd := &CollectCmd{Output: out, Hours: 24, MaxEvents: 100, Timeout: "30s"}
		require.NoError(t, cmd.Run(globals))

		assert.Contains(t, stdout.String(), "Collected 1 events")
		assert.Contains(t, stdout.String(), "Saved to "+out)

		doc, err := output.ReadDocument(out)
		require.NoError(t, err)
		assert.Equal(t, 1, doc.CollectionInfo.EventCounts.SystemEvents)
		assert.Equal(t, 24, doc.CollectionInfo.TimeRange.HoursBack)
		assert.NotEmpty(t, doc.CollectionInfo.CollectionID)
		assert.NotNil(t, doc.Events.Application)
	})

	t.Run("json format emits machine-readable result", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		globals.Runner = &scriptedRunner{bySource: map[string]string{"System": systemEvents}}
		globals.Clock = fixedClock()

		cmd := &CollectCmd{Output: filepath.Join(t.TempDir(), "logs.json"), Hours: 24, MaxEvents: 100, Timeout: "30s"}
		require.NoError(t, cmd.Run(globals))

		var result map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "collected", result["type"])
		assert.NotEmpty(t, result["collection_id"])
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		globals, _, stderr := testGlobals("text")
		cmd := &CollectCmd{Hours: 0, MaxEvents: 100, Timeout: "30s"}
		require.Error(t, cmd.Run(globals))
		assert.Contains(t, stderr.String(), "INVALID_HOURS")

		globals, _, stderr = testGlobals("text")
		cmd = &CollectCmd{Hours: 24, MaxEvents: 100, Timeout: "soon"}
		require.Error(t, cmd.Run(globals))
		assert.Contains(t, stderr.String(), "INVALID_TIMEOUT")
	})

	t.Run("all sources disabled is an error", func(t *testing.T) {
		globals, _, stderr := testGlobals("text")
		cmd := &CollectCmd{Hours: 24, MaxEvents: 100, Timeout: "30s", NoSystem: true, NoApplication: true}
		require.Error(t, cmd.Run(globals))
		assert.Contains(t, stderr.String(), "NO_SOURCES")
	})
}

func TestCollectCmd_Sources(t *testing.T) {
	globals, _, _ := testGlobals("text")

	cmd := &CollectCmd{}
	assert.Equal(t,
		[]domain.LogSource{domain.SourceSystem, domain.SourceApplication},
		cmd.sources(globals), "Security is off by default")

	cmd = &CollectCmd{Security: true}
	assert.Contains(t, cmd.sources(globals), domain.SourceSecurity)

	cmd = &CollectCmd{NoSystem: true}
	assert.Equal(t, []domain.LogSource{domain.SourceApplication}, cmd.sources(globals))

	globals.Config.Collect.IncludeSecurity = true
	cmd = &CollectCmd{}
	assert.Contains(t, cmd.sources(globals), domain.SourceSecurity, "config can enable Security")
}

// --- Events Command Tests ---

func TestEventsCmd_Run(t *testing.T) {
	path := writeTestDocument(t)

	t.Run("lists all events with trailer", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &EventsCmd{File: path}
		require.NoError(t, cmd.Run(globals))

		out := stdout.String()
		assert.Contains(t, out, "Service Control Manager")
		assert.Contains(t, out, "MsiInstaller")
		assert.Contains(t, out, "3 of 3 events matched")
	})

	t.Run("level filter", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &EventsCmd{File: path, Level: "error"}
		require.NoError(t, cmd.Run(globals))

		assert.Contains(t, stdout.String(), "1 of 3 events matched")
		assert.NotContains(t, stdout.String(), "MsiInstaller")
	})

	t.Run("source and pattern filters", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &EventsCmd{File: path, Source: []string{"system"}, Pattern: "resolution"}
		require.NoError(t, cmd.Run(globals))
		assert.Contains(t, stdout.String(), "1 of 3 events matched")
	})

	t.Run("json format emits one record per line", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		cmd := &EventsCmd{File: path, Level: "warning"}
		require.NoError(t, cmd.Run(globals))

		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 2)
		var rec domain.EventRecord
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
		assert.Equal(t, 7034, rec.EventID)
	})

	t.Run("invalid level is rejected", func(t *testing.T) {
		globals, _, stderr := testGlobals("text")
		cmd := &EventsCmd{File: path, Level: "chartreuse"}
		require.Error(t, cmd.Run(globals))
		assert.Contains(t, stderr.String(), "INVALID_LEVEL")
	})

	t.Run("missing file is a readable error", func(t *testing.T) {
		globals, _, stderr := testGlobals("text")
		cmd := &EventsCmd{File: filepath.Join(t.TempDir(), "missing.json")}
		require.Error(t, cmd.Run(globals))
		assert.Contains(t, stderr.String(), "FILE_NOT_READABLE")
	})
}

// --- Status Command Tests ---

func TestStatusCmd_Run(t *testing.T) {
	path := writeTestDocument(t)

	t.Run("text overview", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &StatusCmd{File: path}
		require.NoError(t, cmd.Run(globals))

		out := stdout.String()
		assert.Contains(t, out, "Collection Status")
		assert.Contains(t, out, "Total=3")
		assert.Contains(t, out, "DESKTOP-AB12CD")
	})

	t.Run("json overview", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		cmd := &StatusCmd{File: path}
		require.NoError(t, cmd.Run(globals))

		var status statusSummary
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &status))
		assert.Equal(t, "status", status.Type)
		assert.Equal(t, 3, status.TotalEvents)
		assert.Equal(t, 1, status.Errors)
		assert.Equal(t, 1, status.Warnings)
		assert.Equal(t, "test-collection", status.CollectionID)
	})
}

// --- Summarize Command Tests ---

func TestSummarizeCmd_Run(t *testing.T) {
	path := writeTestDocument(t)

	t.Run("text report to stdout", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &SummarizeCmd{File: path}
		require.NoError(t, cmd.Run(globals))

		out := stdout.String()
		assert.Contains(t, out, "## SYSTEM INFORMATION")
		assert.Contains(t, out, "## SIGNIFICANT EVENTS")
		assert.Contains(t, out, "Total Events: 3")
	})

	t.Run("json summary to stdout", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		cmd := &SummarizeCmd{File: path}
		require.NoError(t, cmd.Run(globals))

		var sum domain.SummaryDocument
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &sum))
		assert.Equal(t, 3, sum.EventSummary.TotalEvents)
		assert.Len(t, sum.AggregatedEvents["System"], 2)
	})

	t.Run("json summary to file", func(t *testing.T) {
		globals, _, _ := testGlobals("json")
		out := filepath.Join(t.TempDir(), "summary.json")
		cmd := &SummarizeCmd{File: path, Output: out}
		require.NoError(t, cmd.Run(globals))

		var sum domain.SummaryDocument
		raw, err := os.ReadFile(out)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &sum))
		assert.Equal(t, "test-collection", sum.CollectionInfo.CollectionID)
	})
}

// --- Version Command Tests ---

func TestVersionCmd_Run(t *testing.T) {
	globals, stdout, _ := testGlobals("text")
	require.NoError(t, (&VersionCmd{}).Run(globals))
	assert.Contains(t, stdout.String(), "animus version")

	globals, stdout, _ = testGlobals("json")
	require.NoError(t, (&VersionCmd{}).Run(globals))
	var v map[string]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &v))
	assert.Equal(t, "version", v["type"])
}

// --- Warning emission ---

func TestEmitWarning(t *testing.T) {
	globals, _, stderr := testGlobals("text")
	emitWarning(globals, "something degraded")
	assert.Contains(t, stderr.String(), "Warning: something degraded")

	globals, stdout, _ := testGlobals("json")
	emitWarning(globals, "something degraded")
	var w map[string]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &w))
	assert.Equal(t, "warning", w["type"])

	globals, stdout, stderr = testGlobals("text")
	globals.Quiet = true
	emitWarning(globals, "hidden")
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}
