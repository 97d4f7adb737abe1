package eventlog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/animus-cli/animus/internal/domain"
)

// Default collection parameters
const (
	DefaultHoursBack  = 48
	DefaultMaxRecords = 500
	DefaultTimeout    = 60 * time.Second
)

// Options configures one collection run. All parameters are plain scalars
// plus the source set; there is no ambient state.
type Options struct {
	Sources    []domain.LogSource
	HoursBack  int
	MaxRecords int
	Timeout    time.Duration // per-source query timeout
}

// Result is the outcome of one collection run
type Result struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Events      domain.Events
	Warnings    []string
	Dropped     int // records that failed to normalize
}

// Collector queries the Windows event logs one source at a time.
// Queries run strictly sequentially; all state is owned by the single run.
type Collector struct {
	runner Runner
	clock  clock.Clock
	logger *zap.Logger
}

// New creates a Collector. A nil clock falls back to the wall clock and a
// nil logger to a no-op logger.
func New(runner Runner, clk clock.Clock, logger *zap.Logger) *Collector {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{runner: runner, clock: clk, logger: logger}
}

// Collect queries each enabled source for records inside
// [now-HoursBack, now], capped per source at MaxRecords newest-first.
// A source that cannot be queried degrades to an empty result with a
// warning; only an unreachable event subsystem is a hard failure.
func (c *Collector) Collect(ctx context.Context, opts Options) (*Result, error) {
	if len(opts.Sources) == 0 {
		return nil, errors.New("no log sources enabled")
	}
	if opts.HoursBack <= 0 {
		opts.HoursBack = DefaultHoursBack
	}
	if opts.MaxRecords <= 0 {
		opts.MaxRecords = DefaultMaxRecords
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	now := c.clock.Now().UTC()
	result := &Result{
		WindowStart: now.Add(-time.Duration(opts.HoursBack) * time.Hour),
		WindowEnd:   now,
		Events:      domain.NewEvents(),
	}

	for _, source := range opts.Sources {
		records, warning, err := c.collectSource(ctx, source, result.WindowStart, result.WindowEnd, opts, result)
		if err != nil {
			return nil, err
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Events.SetSource(source, records)
	}

	return result, nil
}

func (c *Collector) collectSource(ctx context.Context, source domain.LogSource, start, end time.Time, opts Options, result *Result) ([]domain.EventRecord, string, error) {
	log := c.logger.With(zap.String("log", string(source)))

	queryCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	log.Debug("querying event log",
		zap.Time("start", start),
		zap.Int("max_records", opts.MaxRecords))

	out, err := c.runner.Run(queryCtx, buildQueryScript(source, start, opts.MaxRecords))
	if err != nil {
		if errors.Is(err, ErrPowerShellNotFound) {
			return nil, "", fmt.Errorf("event subsystem unavailable: %w", err)
		}
		warning := fmt.Sprintf("%s log could not be queried: %v", source, err)
		log.Warn("source query failed, continuing with empty result", zap.Error(err))
		return []domain.EventRecord{}, warning, nil
	}

	records := []domain.EventRecord{}
	for _, raw := range decodeRecords(out) {
		rec, err := Normalize(raw, source)
		if err != nil {
			result.Dropped++
			log.Debug("dropped malformed record", zap.Error(err))
			continue
		}
		// The script filters server-side, but mock sources and clock skew
		// make the client-side window check load-bearing.
		if rec.TimeCreated.Before(start) || rec.TimeCreated.After(end) {
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].TimeCreated.After(records[j].TimeCreated)
	})
	if len(records) > opts.MaxRecords {
		records = records[:opts.MaxRecords]
	}

	log.Debug("source collected", zap.Int("records", len(records)))
	return records, "", nil
}

// buildQueryScript constructs the Get-WinEvent invocation for one source.
// NoMatchingEventsFound is an empty result, not an error.
func buildQueryScript(source domain.LogSource, start time.Time, maxRecords int) string {
	return fmt.Sprintf(`$ErrorActionPreference = 'Stop'
try {
  Get-WinEvent -FilterHashtable @{LogName='%s'; StartTime=[datetime]::Parse('%s').ToLocalTime()} -MaxEvents %d |
    Select-Object @{n='TimeCreated';e={$_.TimeCreated.ToUniversalTime().ToString('o')}},
      LogName,
      @{n='Level';e={$_.Level}},
      @{n='EventID';e={$_.Id}},
      ProviderName, Message, MachineName, ProcessId, ThreadId |
    ConvertTo-Json -Compress -Depth 3
} catch {
  if ($_.FullyQualifiedErrorId -like 'NoMatchingEventsFound*') { '[]' } else { throw }
}`, source, start.Format(time.RFC3339), maxRecords)
}
