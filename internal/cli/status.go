package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/animus-cli/animus/internal/output"
)

// StatusCmd shows an overview of a saved collection document
type StatusCmd struct {
	File string `arg:"" required:"" help:"Collection document to read"`
}

// statusSummary is the machine-readable status shape
type statusSummary struct {
	Type           string `json:"type"` // Always "status"
	CollectionID   string `json:"collection_id"`
	CollectionTime string `json:"collection_time"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	HoursBack      int    `json:"hours_back"`
	TotalEvents    int    `json:"total_events"`
	SystemEvents   int    `json:"system_events"`
	AppEvents      int    `json:"application_events"`
	SecurityEvents int    `json:"security_events"`
	Errors         int    `json:"errors"`
	Warnings       int    `json:"warnings"`
	Dropped        int    `json:"dropped_records"`
	Computer       string `json:"computer"`
	OS             string `json:"os"`
}

// Run executes the status command
func (c *StatusCmd) Run(globals *Globals) error {
	doc, err := output.ReadDocument(c.File)
	if err != nil {
		return c.outputError(globals, "FILE_NOT_READABLE", err.Error())
	}

	var errorCount, warningCount int
	for _, rec := range doc.Events.All() {
		switch {
		case rec.Level.Severity() >= 4: // Error and Critical
			errorCount++
		case rec.Level.Severity() == 3:
			warningCount++
		}
	}

	info := doc.CollectionInfo
	counts := info.EventCounts

	if globals.Format == "json" {
		return json.NewEncoder(globals.Stdout).Encode(statusSummary{
			Type:           "status",
			CollectionID:   info.CollectionID,
			CollectionTime: info.CollectionTime.Format(time.RFC3339),
			StartTime:      info.TimeRange.StartTime.Format(time.RFC3339),
			EndTime:        info.TimeRange.EndTime.Format(time.RFC3339),
			HoursBack:      info.TimeRange.HoursBack,
			TotalEvents:    counts.TotalEvents,
			SystemEvents:   counts.SystemEvents,
			AppEvents:      counts.ApplicationEvents,
			SecurityEvents: counts.SecurityEvents,
			Errors:         errorCount,
			Warnings:       warningCount,
			Dropped:        info.DroppedRecords,
			Computer:       doc.SystemInfo.Computer.MachineName,
			OS:             doc.SystemInfo.OS.Caption,
		})
	}

	fmt.Fprintln(globals.Stdout, output.Render(output.Styles.Header, "Collection Status"))
	table := tablewriter.NewWriter(globals.Stdout)
	table.Header("Field", "Value")
	table.Append([]string{"Collected", info.CollectionTime.Format(time.RFC3339)})
	table.Append([]string{"Range", fmt.Sprintf("%s - %s (%dh)",
		info.TimeRange.StartTime.Format(time.RFC3339),
		info.TimeRange.EndTime.Format(time.RFC3339),
		info.TimeRange.HoursBack)})
	table.Append([]string{"Events", fmt.Sprintf("Total=%d System=%d Application=%d Security=%d",
		counts.TotalEvents, counts.SystemEvents, counts.ApplicationEvents, counts.SecurityEvents)})
	table.Append([]string{"Severity", fmt.Sprintf("Errors=%d Warnings=%d", errorCount, warningCount)})
	table.Append([]string{"Computer", fmt.Sprintf("%s (%s %s)",
		orDash(doc.SystemInfo.Computer.MachineName),
		doc.SystemInfo.Computer.Manufacturer, doc.SystemInfo.Computer.Model)})
	table.Append([]string{"OS", fmt.Sprintf("%s build %s",
		orDash(doc.SystemInfo.OS.Caption), orDash(doc.SystemInfo.OS.BuildNumber))})
	if doc.SystemInfo.OS.UptimeHours > 0 {
		table.Append([]string{"Uptime", fmt.Sprintf("%.1f hours", doc.SystemInfo.OS.UptimeHours)})
	}
	if info.DroppedRecords > 0 {
		table.Append([]string{"Dropped", fmt.Sprintf("%d malformed records", info.DroppedRecords)})
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, w := range info.Warnings {
		fmt.Fprintf(globals.Stdout, "%s %s\n", output.Render(output.Styles.Warning, "Warning:"), w)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (c *StatusCmd) outputError(globals *Globals, code, message string) error {
	return outputErrorCommon(globals, code, message)
}
