package domain

import "time"

// GroupKey identifies one aggregation bucket. Exact match on all four
// fields: repeated identical alerts collapse, distinct failure types stay
// separate.
type GroupKey struct {
	LogName      LogSource
	ProviderName string
	EventID      int
	Level        Level
}

// AggregatedEvent is the terminal state of one aggregation bucket
type AggregatedEvent struct {
	LogName         LogSource `json:"LogName"`
	Level           Level     `json:"Level"`
	EventID         int       `json:"EventID"`
	ProviderName    string    `json:"ProviderName"`
	OccurrenceCount int       `json:"OccurrenceCount"`
	FirstSeen       time.Time `json:"FirstSeen"`
	LastSeen        time.Time `json:"LastSeen"`
	SampleMessages  []string  `json:"SampleMessages"`
}

// Key returns the grouping key for the aggregate
func (a *AggregatedEvent) Key() GroupKey {
	return GroupKey{
		LogName:      a.LogName,
		ProviderName: a.ProviderName,
		EventID:      a.EventID,
		Level:        a.Level,
	}
}

// SourceCount is one entry of a most-frequent-providers ranking
type SourceCount struct {
	Source  string `json:"Source"`
	LogType string `json:"LogType"`
	Count   int    `json:"Count"`
}

// EventIDCount is one entry of a most-frequent-event-IDs ranking
type EventIDCount struct {
	EventID int    `json:"EventID"`
	LogType string `json:"LogType"`
	Count   int    `json:"Count"`
}

// EventSummary holds collection-wide statistics for the summarized document
type EventSummary struct {
	TotalEvents int            `json:"TotalEvents"`
	ByLogType   map[string]int `json:"ByLogType"`
	ByLevel     map[string]int `json:"ByLevel"`
	TopSources  []SourceCount  `json:"TopSources"`
	TopEventIDs []EventIDCount `json:"TopEventIDs"`
}

// SummaryDocument is the aggregated variant of a collection document,
// sized for a token-limited text consumer.
type SummaryDocument struct {
	CollectionInfo   CollectionInfo               `json:"CollectionInfo"`
	SystemInfo       SystemInfo                   `json:"SystemInfo"`
	EventSummary     EventSummary                 `json:"EventSummary"`
	AggregatedEvents map[string][]AggregatedEvent `json:"AggregatedEvents"`
}
