package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ticketdesk/ticketdesk/internal/domain"
	"github.com/ticketdesk/ticketdesk/internal/events"
	"github.com/ticketdesk/ticketdesk/internal/lifecycle"
	"github.com/ticketdesk/ticketdesk/internal/policy"
	"github.com/ticketdesk/ticketdesk/internal/repository"
	apperrors "github.com/ticketdesk/ticketdesk/pkg/util/errorutil"
)

// statusChangeAttempts bounds the re-read loop when a concurrent transition
// wins the compare-and-swap.
const statusChangeAttempts = 3

// TicketService coordinates ticket workflows. Every method takes the acting
// Actor explicitly; nothing is read from ambient request state.
type TicketService struct {
	tickets    repository.TicketRepository
	statusLogs repository.StatusLogRepository
	engine     *lifecycle.Engine
	dispatcher events.Dispatcher
}

// TicketDependencies bundles requirements for the ticket service.
type TicketDependencies struct {
	TicketRepo    repository.TicketRepository
	StatusLogRepo repository.StatusLogRepository
	Dispatcher    events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// TicketListFilter describes listing filters. Visibility scoping by role is
// applied on top of it.
type TicketListFilter struct {
	Statuses []domain.TicketStatus
	Limit    int
	Offset   int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		statusLogs: deps.StatusLogRepo,
		engine:     lifecycle.NewEngine(deps.TicketRepo),
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket creates a ticket owned by the actor. New tickets always start
// OPEN and unassigned.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   actor.ID,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets visible to the actor: managers see all,
// support staff the tickets assigned to them, users the tickets they
// created.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Actor, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		Statuses: filter.Statuses,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}
	switch actor.Role {
	case domain.RoleSupport:
		id := actor.ID
		repoFilter.AssignedTo = &id
	case domain.RoleUser:
		id := actor.ID
		repoFilter.CreatedBy = &id
	}
	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket fetches a ticket the actor may access. Existence is checked
// before permission, so callers learn "not found" only when the ticket truly
// does not exist.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Actor, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// AssignTicket sets the ticket's assignee. The operation is gated by role
// only; a support actor may reassign tickets not currently assigned to them.
func (s *TicketService) AssignTicket(ctx context.Context, actor domain.Actor, ticketID, assigneeID int64) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.UpdateAssignee(ctx, ticket.ID, assigneeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	ticket.AssignedTo = &assigneeID
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  events.TicketAssignedPayload{AssigneeID: assigneeID},
	})
	return ticket, nil
}

// ChangeStatus moves the ticket along the lifecycle graph on behalf of the
// actor. When a concurrent transition wins the compare-and-swap the current
// status is re-read and the request re-evaluated against the new state.
func (s *TicketService) ChangeStatus(ctx context.Context, actor domain.Actor, ticketID int64, newStatus domain.TicketStatus) (*domain.Ticket, *domain.StatusLogEntry, error) {
	if !newStatus.Valid() {
		return nil, nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	var lastErr error
	for attempt := 0; attempt < statusChangeAttempts; attempt++ {
		ticket, err := s.loadTicket(ctx, ticketID)
		if err != nil {
			return nil, nil, err
		}

		entry, err := s.engine.ChangeStatus(ctx, ticket, newStatus, actor)
		if err != nil {
			if errors.Is(err, repository.ErrStatusConflict) {
				lastErr = err
				continue
			}
			return nil, nil, apperrors.MapError(err)
		}

		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Actor:    actor,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: entry.OldStatus,
				NewStatus: entry.NewStatus,
			},
		})
		return ticket, entry, nil
	}
	return nil, nil, apperrors.NewConflict("ticket status changed concurrently", map[string]any{"ticket_id": ticketID, "cause": lastErr.Error()})
}

// DeleteTicket removes a ticket permanently.
func (s *TicketService) DeleteTicket(ctx context.Context, actor domain.Actor, ticketID int64) error {
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticketID,
		Actor:    actor,
	})
	return nil
}

// ListStatusLog returns the ticket's audit trail, oldest first.
func (s *TicketService) ListStatusLog(ctx context.Context, actor domain.Actor, ticketID int64) ([]domain.StatusLogEntry, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	entries, err := s.statusLogs.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
