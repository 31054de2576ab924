package model

import "time"

// Observation is one source event's field values: one match scouted, one
// grouped set of form rows, one scan result. It is never persisted on its
// own; it is either merged into a TeamRecord or discarded.
type Observation struct {
	Source SourceTag      `json:"source"`
	Fields map[string]any `json:"fields"`
}

// ObservationLogEntry is one raw entry in the append-only observation log
// blob, kept for audit and for rebuilding aggregates after a reset.
type ObservationLogEntry struct {
	ID         string         `json:"id"`
	TeamNumber string         `json:"team_number"`
	Source     SourceTag      `json:"source"`
	Fields     map[string]any `json:"fields"`
	LoggedAt   time.Time      `json:"logged_at"`
}
