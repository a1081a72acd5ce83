package domain

import "time"

// QueueEntry marks an incoming amount as awaiting the matching engine.
// It is written in the same transaction as the amount and marked processed
// once matching has been attempted, so a sweep can re-drive anything a
// crashed request left behind. Processing the same amount twice is safe.
type QueueEntry struct {
	ID          string
	AmountID    string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// Pending reports whether matching has not yet been attempted.
func (q *QueueEntry) Pending() bool {
	return q.ProcessedAt == nil
}
