package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/animus-cli/animus/internal/domain"
	"github.com/animus-cli/animus/internal/eventlog"
	"github.com/animus-cli/animus/internal/output"
)

// CollectCmd runs the collection pipeline and writes the JSON document
type CollectCmd struct {
	Output        string `short:"o" default:"${config_output}" help:"Output file path"`
	Hours         int    `default:"${config_hours}" help:"How many hours back to collect"`
	MaxEvents     int    `default:"${config_max_events}" help:"Maximum events per log"`
	Security      bool   `help:"Include the Security log (requires elevation)"`
	NoSystem      bool   `help:"Skip the System log"`
	NoApplication bool   `help:"Skip the Application log"`
	Timeout       string `default:"60s" help:"Per-log query timeout (e.g. '30s', '2m')"`
}

// Run executes the collect command
func (c *CollectCmd) Run(globals *Globals) error {
	ctx := context.Background()

	if c.Hours <= 0 {
		return c.outputError(globals, "INVALID_HOURS", "hours must be a positive integer")
	}
	if c.MaxEvents <= 0 {
		return c.outputError(globals, "INVALID_MAX_EVENTS", "max-events must be a positive integer")
	}
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return c.outputError(globals, "INVALID_TIMEOUT", fmt.Sprintf("invalid timeout: %s", err))
	}

	sources := c.sources(globals)
	if len(sources) == 0 {
		return c.outputError(globals, "NO_SOURCES", "all log sources are disabled")
	}

	globals.Info("Collecting %d hours of events from %v...", c.Hours, sources)

	collector := eventlog.New(globals.runner(), globals.clock(), globals.Logger)
	result, err := collector.Collect(ctx, eventlog.Options{
		Sources:    sources,
		HoursBack:  c.Hours,
		MaxRecords: c.MaxEvents,
		Timeout:    timeout,
	})
	if err != nil {
		return c.outputError(globals, "COLLECT_FAILED", err.Error())
	}
	for _, w := range result.Warnings {
		emitWarning(globals, w)
	}

	globals.Debug("Capturing host snapshot")
	host, hostWarnings := collector.Snapshot(ctx, timeout)
	for _, w := range hostWarnings {
		emitWarning(globals, w)
	}

	doc := &domain.Document{
		CollectionInfo: domain.CollectionInfo{
			CollectionID:   uuid.NewString(),
			CollectionTime: result.WindowEnd,
			TimeRange: domain.TimeRange{
				StartTime: result.WindowStart,
				EndTime:   result.WindowEnd,
				HoursBack: c.Hours,
			},
			EventCounts:    result.Events.Counts(),
			Warnings:       append(result.Warnings, hostWarnings...),
			DroppedRecords: result.Dropped,
		},
		SystemInfo: host,
		Events:     result.Events,
	}

	fellBack, err := output.NewWriter().WriteDocument(c.Output, doc)
	if err != nil {
		return c.outputError(globals, "WRITE_FAILED", err.Error())
	}
	if fellBack {
		emitWarning(globals, "document failed serialization; wrote minimal document with empty event lists")
	}

	if globals.Format == "json" {
		return json.NewEncoder(globals.Stdout).Encode(map[string]any{
			"type":          "collected",
			"output":        c.Output,
			"collection_id": doc.CollectionInfo.CollectionID,
			"event_counts":  doc.CollectionInfo.EventCounts,
			"warnings":      len(doc.CollectionInfo.Warnings),
			"dropped":       doc.CollectionInfo.DroppedRecords,
		})
	}

	counts := doc.CollectionInfo.EventCounts
	fmt.Fprintf(globals.Stdout, "Collected %d events (System: %d, Application: %d, Security: %d)\n",
		counts.TotalEvents, counts.SystemEvents, counts.ApplicationEvents, counts.SecurityEvents)
	if doc.CollectionInfo.DroppedRecords > 0 {
		fmt.Fprintf(globals.Stdout, "Dropped %d malformed records\n", doc.CollectionInfo.DroppedRecords)
	}
	fmt.Fprintf(globals.Stdout, "Saved to %s\n", c.Output)
	return nil
}

// sources resolves the enabled log set from flags and config
func (c *CollectCmd) sources(globals *Globals) []domain.LogSource {
	includeSystem := !c.NoSystem
	includeApplication := !c.NoApplication
	includeSecurity := c.Security
	if cfg := globals.Config; cfg != nil {
		includeSystem = includeSystem && cfg.Collect.IncludeSystem
		includeApplication = includeApplication && cfg.Collect.IncludeApplication
		includeSecurity = includeSecurity || cfg.Collect.IncludeSecurity
	}

	var sources []domain.LogSource
	if includeSystem {
		sources = append(sources, domain.SourceSystem)
	}
	if includeApplication {
		sources = append(sources, domain.SourceApplication)
	}
	if includeSecurity {
		sources = append(sources, domain.SourceSecurity)
	}
	return sources
}

func (c *CollectCmd) outputError(globals *Globals, code, message string) error {
	return outputErrorCommon(globals, code, message)
}
