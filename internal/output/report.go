package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/animus-cli/animus/internal/aggregate"
	"github.com/animus-cli/animus/internal/domain"
)

// Per-tier display bounds for the text report. The downstream consumer has
// a fixed context budget, so the most severe and most frequent win.
const (
	maxCriticalErrors = 10
	maxWarnings       = 5
	maxInfoEvents     = 3
	maxTopRanked      = 10
	perLogTopRanked   = 5
	maxMessageChars   = 200
)

// NewSummaryDocument builds the aggregated variant of a collection
// document
func NewSummaryDocument(doc *domain.Document, sampleCap int) *domain.SummaryDocument {
	return &domain.SummaryDocument{
		CollectionInfo:   doc.CollectionInfo,
		SystemInfo:       doc.SystemInfo,
		EventSummary:     BuildEventSummary(doc),
		AggregatedEvents: aggregate.ByLog(doc.Events, sampleCap),
	}
}

// BuildEventSummary computes collection-wide statistics: counts by log and
// level, plus most-frequent providers and event IDs.
func BuildEventSummary(doc *domain.Document) domain.EventSummary {
	summary := domain.EventSummary{
		ByLogType: make(map[string]int, 3),
		ByLevel:   make(map[string]int),
	}

	for _, src := range domain.AllSources() {
		events := doc.Events.BySource(src)
		summary.ByLogType[string(src)] = len(events)
		summary.TotalEvents += len(events)

		providerCounts := make(map[string]int)
		eventIDCounts := make(map[int]int)
		for _, rec := range events {
			summary.ByLevel[rec.Level.String()]++
			if rec.ProviderName != "" {
				providerCounts[rec.ProviderName]++
			}
			eventIDCounts[rec.EventID]++
		}

		for _, pc := range topCounts(providerCounts, perLogTopRanked) {
			summary.TopSources = append(summary.TopSources, domain.SourceCount{
				Source: pc.key, LogType: string(src), Count: pc.count,
			})
		}
		idCounts := make(map[string]int, len(eventIDCounts))
		for id, n := range eventIDCounts {
			idCounts[fmt.Sprintf("%d", id)] = n
		}
		for _, ic := range topCounts(idCounts, perLogTopRanked) {
			var id int
			fmt.Sscanf(ic.key, "%d", &id)
			summary.TopEventIDs = append(summary.TopEventIDs, domain.EventIDCount{
				EventID: id, LogType: string(src), Count: ic.count,
			})
		}
	}

	sort.SliceStable(summary.TopSources, func(i, j int) bool {
		return summary.TopSources[i].Count > summary.TopSources[j].Count
	})
	if len(summary.TopSources) > maxTopRanked {
		summary.TopSources = summary.TopSources[:maxTopRanked]
	}
	sort.SliceStable(summary.TopEventIDs, func(i, j int) bool {
		return summary.TopEventIDs[i].Count > summary.TopEventIDs[j].Count
	})
	if len(summary.TopEventIDs) > maxTopRanked {
		summary.TopEventIDs = summary.TopEventIDs[:maxTopRanked]
	}

	return summary
}

type keyCount struct {
	key   string
	count int
}

// topCounts ranks a count map, keeping entries that occurred more than once
func topCounts(counts map[string]int, limit int) []keyCount {
	pairs := make([]keyCount, 0, len(counts))
	for k, n := range counts {
		if n > 1 {
			pairs = append(pairs, keyCount{k, n})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].key < pairs[j].key
	})
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

// WriteTextReport renders the summary as the plain-text context block the
// downstream Q&A layer consumes
func WriteTextReport(w io.Writer, sum *domain.SummaryDocument) error {
	var b strings.Builder

	b.WriteString("## SYSTEM INFORMATION\n")
	fmt.Fprintf(&b, "OS: %s %s (build %s)\n",
		orUnknown(sum.SystemInfo.OS.Caption), sum.SystemInfo.OS.Version, orUnknown(sum.SystemInfo.OS.BuildNumber))
	fmt.Fprintf(&b, "Computer: %s (%s %s)\n",
		orUnknown(sum.SystemInfo.Computer.MachineName),
		sum.SystemInfo.Computer.Manufacturer, sum.SystemInfo.Computer.Model)
	fmt.Fprintf(&b, "CPU: %s\n", orUnknown(sum.SystemInfo.Processor.Name))
	if mem := sum.SystemInfo.Computer.TotalPhysicalMemory; mem > 0 {
		fmt.Fprintf(&b, "Memory: %.1f GB\n", float64(mem)/(1<<30))
	}
	if sum.SystemInfo.OS.UptimeHours > 0 {
		fmt.Fprintf(&b, "Uptime: %.1f hours\n", sum.SystemInfo.OS.UptimeHours)
	}
	b.WriteString("\n")

	info := sum.CollectionInfo
	b.WriteString("## COLLECTION INFORMATION\n")
	fmt.Fprintf(&b, "Collection Time: %s\n", info.CollectionTime.Format(time.RFC3339))
	fmt.Fprintf(&b, "Time Range: %s to %s (%d hours)\n",
		info.TimeRange.StartTime.Format(time.RFC3339),
		info.TimeRange.EndTime.Format(time.RFC3339),
		info.TimeRange.HoursBack)
	for _, warning := range info.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", warning)
	}
	b.WriteString("\n")

	b.WriteString("## EVENT SUMMARY\n")
	fmt.Fprintf(&b, "Total Events: %d\n", sum.EventSummary.TotalEvents)
	b.WriteString("Events by Log Type:\n")
	for _, src := range domain.AllSources() {
		fmt.Fprintf(&b, "- %s: %d\n", src, sum.EventSummary.ByLogType[string(src)])
	}
	b.WriteString("Events by Severity Level:\n")
	for _, name := range orderedLevels(sum.EventSummary.ByLevel) {
		fmt.Fprintf(&b, "- %s: %d\n", name, sum.EventSummary.ByLevel[name])
	}
	if len(sum.EventSummary.TopSources) > 0 {
		b.WriteString("Top Event Sources:\n")
		for _, s := range sum.EventSummary.TopSources {
			fmt.Fprintf(&b, "- %s (%s): %d events\n", s.Source, s.LogType, s.Count)
		}
	}
	if len(sum.EventSummary.TopEventIDs) > 0 {
		b.WriteString("Top Event IDs:\n")
		for _, e := range sum.EventSummary.TopEventIDs {
			fmt.Fprintf(&b, "- Event ID %d (%s): %d occurrences\n", e.EventID, e.LogType, e.Count)
		}
	}
	b.WriteString("\n")

	b.WriteString("## SIGNIFICANT EVENTS\n")
	for _, src := range domain.AllSources() {
		writeSignificantEvents(&b, string(src), sum.AggregatedEvents[string(src)])
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTextReportFile renders the text report to a file using the same
// atomic-write discipline as the JSON documents
func WriteTextReportFile(path string, sum *domain.SummaryDocument) error {
	var b strings.Builder
	if err := WriteTextReport(&b, sum); err != nil {
		return err
	}
	return writeAtomic(path, []byte(b.String()))
}

func writeSignificantEvents(b *strings.Builder, logType string, aggs []domain.AggregatedEvent) {
	var criticalErrors, warnings, infos []domain.AggregatedEvent
	for _, a := range aggs {
		switch a.Level {
		case domain.LevelCritical, domain.LevelError:
			criticalErrors = append(criticalErrors, a)
		case domain.LevelWarning:
			warnings = append(warnings, a)
		default:
			infos = append(infos, a)
		}
	}

	if len(criticalErrors) > 0 {
		fmt.Fprintf(b, "\n### %s Critical/Error Events:\n", logType)
		writeAggregates(b, criticalErrors, maxCriticalErrors)
	}
	if len(warnings) > 0 {
		fmt.Fprintf(b, "\n### %s Warning Events:\n", logType)
		writeAggregates(b, warnings, maxWarnings)
	}
	// Informational noise only earns space when something went wrong
	if (len(criticalErrors) > 0 || len(warnings) > 0) && len(infos) > 0 {
		fmt.Fprintf(b, "\n### %s Information Events (selected):\n", logType)
		writeAggregates(b, infos, maxInfoEvents)
	}
}

func writeAggregates(b *strings.Builder, aggs []domain.AggregatedEvent, limit int) {
	if len(aggs) > limit {
		aggs = aggs[:limit]
	}
	for _, a := range aggs {
		fmt.Fprintf(b, "%s | %s | Event ID: %d | Count: %d\n",
			a.Level, orUnknown(a.ProviderName), a.EventID, a.OccurrenceCount)
		if len(a.SampleMessages) > 0 {
			fmt.Fprintf(b, "Message: %s\n", truncateMessage(a.SampleMessages[0]))
		}
		if a.OccurrenceCount > 1 {
			fmt.Fprintf(b, "When: %s to %s\n",
				a.FirstSeen.Format(time.RFC3339), a.LastSeen.Format(time.RFC3339))
		} else {
			fmt.Fprintf(b, "When: %s\n", a.FirstSeen.Format(time.RFC3339))
		}
		b.WriteString("\n")
	}
}

func truncateMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\n", " ")
	if len(msg) > maxMessageChars {
		return msg[:maxMessageChars-3] + "..."
	}
	return msg
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// orderedLevels returns present level names most severe first, unknown
// variants last
func orderedLevels(byLevel map[string]int) []string {
	known := []string{"Critical", "Error", "Warning", "Information", "Verbose"}
	var out []string
	for _, name := range known {
		if byLevel[name] > 0 {
			out = append(out, name)
		}
	}
	var unknowns []string
	for name := range byLevel {
		if _, ok := domain.ParseLevel(name); ok && !isKnownName(name) {
			unknowns = append(unknowns, name)
		}
	}
	sort.Strings(unknowns)
	return append(out, unknowns...)
}

func isKnownName(name string) bool {
	switch name {
	case "Critical", "Error", "Warning", "Information", "Verbose":
		return true
	}
	return false
}
