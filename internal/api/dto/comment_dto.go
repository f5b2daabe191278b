package dto

import "time"

// CommentRequest payload for creating and editing comments.
type CommentRequest struct {
	Text string `json:"text"`
}

// CommentResponse view.
type CommentResponse struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
