package domain

// Record is a flat field name to value mapping, in either the draft
// vocabulary or the persisted column vocabulary.
type Record map[string]any
