// Package aggregate folds normalized event records into counted groups so
// repeated identical alerts (a flapping service, a retry loop) become one
// entity with sample evidence.
package aggregate

import (
	"sort"

	"github.com/animus-cli/animus/internal/domain"
)

// DefaultSampleCap bounds sample messages per group regardless of
// occurrence count
const DefaultSampleCap = 3

// Fold groups records by (LogName, ProviderName, EventID, Level) and
// returns the aggregates sorted by occurrence count descending, ties by
// most recent LastSeen. Input order is not assumed chronological.
func Fold(records []domain.EventRecord, sampleCap int) []domain.AggregatedEvent {
	if sampleCap <= 0 {
		sampleCap = DefaultSampleCap
	}

	groups := make(map[domain.GroupKey]*domain.AggregatedEvent)
	order := make([]domain.GroupKey, 0)

	for _, rec := range records {
		key := domain.GroupKey{
			LogName:      rec.LogName,
			ProviderName: rec.ProviderName,
			EventID:      rec.EventID,
			Level:        rec.Level,
		}

		agg, ok := groups[key]
		if !ok {
			groups[key] = &domain.AggregatedEvent{
				LogName:         rec.LogName,
				Level:           rec.Level,
				EventID:         rec.EventID,
				ProviderName:    rec.ProviderName,
				OccurrenceCount: 1,
				FirstSeen:       rec.TimeCreated,
				LastSeen:        rec.TimeCreated,
				SampleMessages:  []string{rec.Message},
			}
			order = append(order, key)
			continue
		}

		agg.OccurrenceCount++
		if rec.TimeCreated.Before(agg.FirstSeen) {
			agg.FirstSeen = rec.TimeCreated
		}
		if rec.TimeCreated.After(agg.LastSeen) {
			agg.LastSeen = rec.TimeCreated
		}
		if len(agg.SampleMessages) < sampleCap && !containsMessage(agg.SampleMessages, rec.Message) {
			agg.SampleMessages = append(agg.SampleMessages, rec.Message)
		}
	}

	result := make([]domain.AggregatedEvent, 0, len(order))
	for _, key := range order {
		result = append(result, *groups[key])
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].OccurrenceCount != result[j].OccurrenceCount {
			return result[i].OccurrenceCount > result[j].OccurrenceCount
		}
		return result[i].LastSeen.After(result[j].LastSeen)
	})

	return result
}

// ByLog folds each source log separately, keyed by log name
func ByLog(events domain.Events, sampleCap int) map[string][]domain.AggregatedEvent {
	out := make(map[string][]domain.AggregatedEvent, 3)
	for _, src := range domain.AllSources() {
		out[string(src)] = Fold(events.BySource(src), sampleCap)
	}
	return out
}

func containsMessage(samples []string, msg string) bool {
	for _, s := range samples {
		if s == msg {
			return true
		}
	}
	return false
}
