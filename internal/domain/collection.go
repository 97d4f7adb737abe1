package domain

import "time"

// TimeRange is the collection window
type TimeRange struct {
	StartTime time.Time `json:"StartTime"`
	EndTime   time.Time `json:"EndTime"`
	HoursBack int       `json:"HoursBack"`
}

// EventCounts holds per-source and total event counts
type EventCounts struct {
	SystemEvents      int `json:"SystemEvents"`
	ApplicationEvents int `json:"ApplicationEvents"`
	SecurityEvents    int `json:"SecurityEvents"`
	TotalEvents       int `json:"TotalEvents"`
}

// CollectionInfo is the metadata block of a collection document
type CollectionInfo struct {
	CollectionID   string      `json:"CollectionID"`
	CollectionTime time.Time   `json:"CollectionTime"`
	TimeRange      TimeRange   `json:"TimeRange"`
	EventCounts    EventCounts `json:"EventCounts"`
	Warnings       []string    `json:"Warnings,omitempty"`
	DroppedRecords int         `json:"DroppedRecords,omitempty"`
}

// Events holds the normalized records grouped by source log.
// Slices are always non-nil so an inaccessible source serializes as []
// rather than null.
type Events struct {
	System      []EventRecord `json:"System"`
	Application []EventRecord `json:"Application"`
	Security    []EventRecord `json:"Security"`
}

// BySource returns the slice for one source
func (e *Events) BySource(src LogSource) []EventRecord {
	switch src {
	case SourceSystem:
		return e.System
	case SourceApplication:
		return e.Application
	case SourceSecurity:
		return e.Security
	}
	return nil
}

// SetSource replaces the slice for one source
func (e *Events) SetSource(src LogSource, records []EventRecord) {
	switch src {
	case SourceSystem:
		e.System = records
	case SourceApplication:
		e.Application = records
	case SourceSecurity:
		e.Security = records
	}
}

// All returns every record in System, Application, Security order
func (e *Events) All() []EventRecord {
	all := make([]EventRecord, 0, len(e.System)+len(e.Application)+len(e.Security))
	all = append(all, e.System...)
	all = append(all, e.Application...)
	all = append(all, e.Security...)
	return all
}

// Counts recomputes per-source counts from the stored slices
func (e *Events) Counts() EventCounts {
	c := EventCounts{
		SystemEvents:      len(e.System),
		ApplicationEvents: len(e.Application),
		SecurityEvents:    len(e.Security),
	}
	c.TotalEvents = c.SystemEvents + c.ApplicationEvents + c.SecurityEvents
	return c
}

// NewEvents returns an Events with all slices allocated empty
func NewEvents() Events {
	return Events{
		System:      []EventRecord{},
		Application: []EventRecord{},
		Security:    []EventRecord{},
	}
}

// Document is the root object serialized to the output file
type Document struct {
	CollectionInfo CollectionInfo `json:"CollectionInfo"`
	SystemInfo     SystemInfo     `json:"SystemInfo"`
	Events         Events         `json:"Events"`
}
