package domain

import "time"

// AuditEvent records a change of customer association on a booking.
type AuditEvent struct {
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id"`
	Context   string    `json:"context"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
}
