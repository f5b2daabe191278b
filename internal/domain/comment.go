package domain

import "time"

// Comment is a message on a ticket thread. UserID is the author and is
// immutable after creation; edit/delete rights derive from it, never from
// the ticket's ownership.
type Comment struct {
	ID        int64
	TicketID  int64
	UserID    int64
	Text      string
	CreatedAt time.Time
}
