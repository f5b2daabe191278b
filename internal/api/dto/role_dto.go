package dto

import (
	"time"

	"github.com/ticketdesk/ticketdesk/internal/domain"
)

// RoleRequest payload for role create/update.
type RoleRequest struct {
	Name string `json:"name"`
}

// RoleResponse view.
type RoleResponse struct {
	ID        int64       `json:"id"`
	Name      domain.Role `json:"name"`
	CreatedAt time.Time   `json:"created_at"`
}
