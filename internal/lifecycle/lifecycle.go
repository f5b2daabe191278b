// Package lifecycle implements the ticket status state machine. The legal
// transition graph is fixed: OPEN -> IN_PROGRESS -> RESOLVED -> CLOSED, with
// no skipping, no reversal and no self-transition. CLOSED is terminal.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/ticketdesk/ticketdesk/internal/domain"
	apperrors "github.com/ticketdesk/ticketdesk/pkg/util/errorutil"
)

// allowedTransitions maps each state to the set of states it may move to.
// States absent from a value set are unreachable from that key.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress},
	domain.TicketStatusInProgress: {domain.TicketStatusResolved},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed},
	domain.TicketStatusClosed:     {},
}

// CanTransition reports whether current -> next is a legal move.
func CanTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// NextStates returns the states reachable from current.
func NextStates(current domain.TicketStatus) []domain.TicketStatus {
	return allowedTransitions[current]
}

// TransitionStore applies an accepted transition. The status update and the
// audit-log append must commit or fail as one unit; implementations that
// lose the compare-and-swap on the expected old status return
// ErrStatusConflict from the repository layer.
type TransitionStore interface {
	ApplyTransition(ctx context.Context, ticketID int64, oldStatus, newStatus domain.TicketStatus, changedBy int64) (*domain.StatusLogEntry, error)
}

// Engine validates requested transitions against the graph and records an
// audit entry for each accepted one. It enforces only the state machine;
// role gating happens at the boundary before the engine is consulted.
type Engine struct {
	store TransitionStore
}

// NewEngine builds an engine over the given store.
func NewEngine(store TransitionStore) *Engine {
	return &Engine{store: store}
}

// ChangeStatus moves the ticket to next on behalf of the actor. On an
// illegal pair it fails with INVALID_TRANSITION and leaves ticket and log
// untouched; repeating a rejected transition never mutates anything. On
// success the ticket's in-memory status is updated and the appended log
// entry is returned.
func (e *Engine) ChangeStatus(ctx context.Context, ticket *domain.Ticket, next domain.TicketStatus, actor domain.Actor) (*domain.StatusLogEntry, error) {
	if !CanTransition(ticket.Status, next) {
		return nil, apperrors.NewInvalidTransition(
			fmt.Sprintf("cannot move ticket from %s to %s", ticket.Status, next),
			map[string]any{"current_status": ticket.Status, "requested_status": next},
		)
	}

	entry, err := e.store.ApplyTransition(ctx, ticket.ID, ticket.Status, next, actor.ID)
	if err != nil {
		return nil, err
	}

	ticket.Status = next
	return entry, nil
}
