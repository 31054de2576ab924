package model

import "time"

// EditEntry records one human correction to a field. Its presence in the
// ledger is a standing instruction: never auto-overwrite this field again.
type EditEntry struct {
	Value     any       `json:"value"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// EditLedger maps field key to the latest human correction. Entries are
// replaced by newer edits and never purged automatically; the ledger is part
// of the persisted record and survives restarts.
type EditLedger map[string]EditEntry

// Has reports whether a field is under human correction. Every automated
// merge path checks this before writing.
func (l EditLedger) Has(field string) bool {
	_, ok := l[field]
	return ok
}

// Record replaces the ledger entry for a field with a fresh reason and
// timestamp.
func (l EditLedger) Record(field string, value any, reason string) {
	l[field] = EditEntry{Value: value, Reason: reason, Timestamp: time.Now().UTC()}
}
