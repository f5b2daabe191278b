package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketdesk/ticketdesk/internal/domain"
	apperrors "github.com/ticketdesk/ticketdesk/pkg/util/errorutil"
)

var allStatuses = []domain.TicketStatus{
	domain.TicketStatusOpen,
	domain.TicketStatusInProgress,
	domain.TicketStatusResolved,
	domain.TicketStatusClosed,
}

func TestCanTransitionExhaustive(t *testing.T) {
	legal := map[[2]domain.TicketStatus]bool{
		{domain.TicketStatusOpen, domain.TicketStatusInProgress}:     true,
		{domain.TicketStatusInProgress, domain.TicketStatusResolved}: true,
		{domain.TicketStatusResolved, domain.TicketStatusClosed}:     true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := legal[[2]domain.TicketStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestClosedIsTerminal(t *testing.T) {
	assert.Empty(t, NextStates(domain.TicketStatusClosed))
}

type fakeTransitionStore struct {
	applied []domain.StatusLogEntry
	err     error
}

func (s *fakeTransitionStore) ApplyTransition(_ context.Context, ticketID int64, oldStatus, newStatus domain.TicketStatus, changedBy int64) (*domain.StatusLogEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	entry := domain.StatusLogEntry{
		ID:        int64(len(s.applied) + 1),
		TicketID:  ticketID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		ChangedAt: time.Now(),
	}
	s.applied = append(s.applied, entry)
	return &entry, nil
}

func TestEngineAcceptsAdjacentTransition(t *testing.T) {
	store := &fakeTransitionStore{}
	engine := NewEngine(store)
	ticket := &domain.Ticket{ID: 42, Status: domain.TicketStatusOpen}
	actor := domain.Actor{ID: 9, Role: domain.RoleSupport}

	entry, err := engine.ChangeStatus(context.Background(), ticket, domain.TicketStatusInProgress, actor)
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	assert.Equal(t, domain.TicketStatusOpen, entry.OldStatus)
	assert.Equal(t, domain.TicketStatusInProgress, entry.NewStatus)
	assert.Equal(t, int64(9), entry.ChangedBy)
	assert.Len(t, store.applied, 1)
}

func TestEngineRejectsIllegalTransitions(t *testing.T) {
	illegal := []struct {
		from, to domain.TicketStatus
	}{
		{domain.TicketStatusOpen, domain.TicketStatusResolved},
		{domain.TicketStatusOpen, domain.TicketStatusClosed},
		{domain.TicketStatusOpen, domain.TicketStatusOpen},
		{domain.TicketStatusInProgress, domain.TicketStatusOpen},
		{domain.TicketStatusInProgress, domain.TicketStatusClosed},
		{domain.TicketStatusResolved, domain.TicketStatusInProgress},
		{domain.TicketStatusClosed, domain.TicketStatusOpen},
		{domain.TicketStatusClosed, domain.TicketStatusResolved},
	}

	for _, tt := range illegal {
		store := &fakeTransitionStore{}
		engine := NewEngine(store)
		ticket := &domain.Ticket{ID: 1, Status: tt.from}

		_, err := engine.ChangeStatus(context.Background(), ticket, tt.to, domain.Actor{ID: 1, Role: domain.RoleManager})
		require.Error(t, err, "%s -> %s", tt.from, tt.to)
		assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
		assert.Equal(t, tt.from, ticket.Status, "rejected transition must not mutate the ticket")
		assert.Empty(t, store.applied, "rejected transition must not touch the log")
	}
}

// Repeating a rejected transition any number of times never mutates state or
// appends log entries.
func TestEngineRejectionIsIdempotent(t *testing.T) {
	store := &fakeTransitionStore{}
	engine := NewEngine(store)
	ticket := &domain.Ticket{ID: 1, Status: domain.TicketStatusClosed}

	for i := 0; i < 5; i++ {
		_, err := engine.ChangeStatus(context.Background(), ticket, domain.TicketStatusOpen, domain.Actor{ID: 1, Role: domain.RoleManager})
		require.Error(t, err)
	}
	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
	assert.Empty(t, store.applied)
}

func TestEngineLeavesTicketUntouchedOnStoreError(t *testing.T) {
	store := &fakeTransitionStore{err: assert.AnError}
	engine := NewEngine(store)
	ticket := &domain.Ticket{ID: 1, Status: domain.TicketStatusOpen}

	_, err := engine.ChangeStatus(context.Background(), ticket, domain.TicketStatusInProgress, domain.Actor{ID: 1, Role: domain.RoleManager})
	require.Error(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
}
