package domain

import "time"

// StatusLogEntry is an immutable audit record of one accepted status
// transition. Entries are append-only; ordered by ChangedAt they reconstruct
// the full lifecycle history of a ticket.
type StatusLogEntry struct {
	ID        int64
	TicketID  int64
	OldStatus TicketStatus
	NewStatus TicketStatus
	ChangedBy int64
	ChangedAt time.Time
}
