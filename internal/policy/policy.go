// Package policy holds the access-control decision functions. Everything in
// here is pure: given an actor and a resource the predicates return a
// decision and never touch storage, so they can be evaluated concurrently
// from any number of requests without coordination.
package policy

import "github.com/ticketdesk/ticketdesk/internal/domain"

// Action identifies an operation guarded by a role gate.
type Action string

const (
	ActionCreateTicket Action = "ticket:create"
	ActionAssignTicket Action = "ticket:assign"
	ActionChangeStatus Action = "ticket:change_status"
	ActionDeleteTicket Action = "ticket:delete"
	ActionManageRoles  Action = "roles:manage"
)

// roleGates is the static allow-list of roles per gated action. Actions not
// listed here carry no role gate and rely on resource-level checks only.
var roleGates = map[Action][]domain.Role{
	ActionCreateTicket: {domain.RoleUser, domain.RoleManager},
	ActionAssignTicket: {domain.RoleManager, domain.RoleSupport},
	ActionChangeStatus: {domain.RoleManager, domain.RoleSupport},
	ActionDeleteTicket: {domain.RoleManager},
	ActionManageRoles:  {domain.RoleManager},
}

// RoleAllows reports whether the role passes the action-level gate. The gate
// is data-independent; ownership is evaluated separately by the resource
// predicates below.
func RoleAllows(action Action, role domain.Role) bool {
	allowed, ok := roleGates[action]
	if !ok {
		return false
	}
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}

// AllowedRoles returns the gate's allow-list for an action.
func AllowedRoles(action Action) []domain.Role {
	return roleGates[action]
}

// CanAccessTicket decides whether the actor may read the ticket, read its
// comments, or add a comment to it. Managers see everything, support staff
// see tickets assigned to them, users see tickets they created.
func CanAccessTicket(actor domain.Actor, ticket *domain.Ticket) bool {
	switch actor.Role {
	case domain.RoleManager:
		return true
	case domain.RoleSupport:
		return ticket.AssignedTo != nil && *ticket.AssignedTo == actor.ID
	case domain.RoleUser:
		return ticket.CreatedBy == actor.ID
	}
	return false
}

// CanModifyComment decides whether the actor may edit or delete the comment.
// Managers may modify any comment; everyone else only their own. Ticket
// ownership plays no part here.
func CanModifyComment(actor domain.Actor, comment *domain.Comment) bool {
	if actor.Role == domain.RoleManager {
		return true
	}
	return comment.UserID == actor.ID
}
