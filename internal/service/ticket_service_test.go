package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketdesk/ticketdesk/internal/domain"
)

var (
	manager = domain.Actor{ID: 1, Role: domain.RoleManager}
	support = domain.Actor{ID: 9, Role: domain.RoleSupport}
	enduser = domain.Actor{ID: 7, Role: domain.RoleUser}
)

func newTicketServiceForTest() (*TicketService, *fakeTicketRepo) {
	tickets := newFakeTicketRepo()
	return NewTicketService(TicketDependencies{
		TicketRepo:    tickets,
		StatusLogRepo: &fakeStatusLogRepo{tickets: tickets},
	}), tickets
}

func mustCreateTicket(t *testing.T, svc *TicketService, actor domain.Actor) *domain.Ticket {
	t.Helper()
	ticket, err := svc.CreateTicket(context.Background(), actor, TicketCreateInput{
		Title:       "printer on fire",
		Description: "it prints fire",
	})
	require.NoError(t, err)
	return ticket
}

func TestCreateTicketStartsOpenAndUnassigned(t *testing.T) {
	svc, _ := newTicketServiceForTest()

	ticket := mustCreateTicket(t, svc, enduser)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, enduser.ID, ticket.CreatedBy)
	assert.Nil(t, ticket.AssignedTo)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
}

func TestGetTicketChecksExistenceBeforePermission(t *testing.T) {
	svc, _ := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, enduser)

	// Missing id: NOT_FOUND even for an actor with no access whatsoever.
	_, err := svc.GetTicket(context.Background(), support, ticket.ID+100)
	require.Error(t, err)
	assert.True(t, errCodeIs(err, "NOT_FOUND"))

	// Existing id without access: FORBIDDEN, never NOT_FOUND.
	_, err = svc.GetTicket(context.Background(), support, ticket.ID)
	require.Error(t, err)
	assert.True(t, errCodeIs(err, "FORBIDDEN"))

	// Creator and manager both get through.
	_, err = svc.GetTicket(context.Background(), enduser, ticket.ID)
	assert.NoError(t, err)
	_, err = svc.GetTicket(context.Background(), manager, ticket.ID)
	assert.NoError(t, err)
}

func TestListTicketsScopesByRole(t *testing.T) {
	svc, repo := newTicketServiceForTest()
	mine := mustCreateTicket(t, svc, enduser)
	other := mustCreateTicket(t, svc, domain.Actor{ID: 3, Role: domain.RoleUser})
	require.NoError(t, repo.UpdateAssignee(context.Background(), other.ID, support.ID))

	all, err := svc.ListTickets(context.Background(), manager, TicketListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assigned, err := svc.ListTickets(context.Background(), support, TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, other.ID, assigned[0].ID)

	created, err := svc.ListTickets(context.Background(), enduser, TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, mine.ID, created[0].ID)
}

// Status changes are gated by role only: support staff may drive tickets
// they are not assigned to.
func TestChangeStatusBySupportNotAssigned(t *testing.T) {
	svc, _ := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, enduser)

	updated, entry, err := svc.ChangeStatus(context.Background(), support, ticket.ID, domain.TicketStatusInProgress)
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
	assert.Equal(t, domain.TicketStatusOpen, entry.OldStatus)
	assert.Equal(t, domain.TicketStatusInProgress, entry.NewStatus)
	assert.Equal(t, support.ID, entry.ChangedBy)
}

func TestChangeStatusRepeatRejectedAfterApply(t *testing.T) {
	svc, repo := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, enduser)

	_, _, err := svc.ChangeStatus(context.Background(), support, ticket.ID, domain.TicketStatusInProgress)
	require.NoError(t, err)

	// Same request again: current state is now IN_PROGRESS, so the pair is
	// no longer adjacent.
	_, _, err = svc.ChangeStatus(context.Background(), support, ticket.ID, domain.TicketStatusInProgress)
	require.Error(t, err)
	assert.True(t, errCodeIs(err, "INVALID_TRANSITION"))
	assert.Len(t, repo.logs, 1, "rejected transition must not append log entries")
}

func TestChangeStatusFullLifecycle(t *testing.T) {
	svc, repo := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, enduser)

	for _, next := range []domain.TicketStatus{
		domain.TicketStatusInProgress,
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
	} {
		_, _, err := svc.ChangeStatus(context.Background(), manager, ticket.ID, next)
		require.NoError(t, err, "to %s", next)
	}

	// CLOSED is terminal.
	for _, next := range []domain.TicketStatus{
		domain.TicketStatusOpen,
		domain.TicketStatusInProgress,
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
	} {
		_, _, err := svc.ChangeStatus(context.Background(), manager, ticket.ID, next)
		require.Error(t, err, "to %s", next)
		assert.True(t, errCodeIs(err, "INVALID_TRANSITION"))
	}

	require.Len(t, repo.logs, 3)
	log, err := svc.ListStatusLog(context.Background(), manager, ticket.ID)
	require.NoError(t, err)
	require.Len(t, log, 3)
	assert.Equal(t, domain.TicketStatusOpen, log[0].OldStatus)
	assert.Equal(t, domain.TicketStatusClosed, log[2].NewStatus)
}

func TestChangeStatusSkipRejected(t *testing.T) {
	svc, repo := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, enduser)

	_, _, err := svc.ChangeStatus(context.Background(), manager, ticket.ID, domain.TicketStatusResolved)
	require.Error(t, err)
	assert.True(t, errCodeIs(err, "INVALID_TRANSITION"))

	current, getErr := repo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.TicketStatusOpen, current.Status)
	assert.Empty(t, repo.logs)
}

func TestChangeStatusUnknownStatusRejected(t *testing.T) {
	svc, _ := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, enduser)

	_, _, err := svc.ChangeStatus(context.Background(), manager, ticket.ID, domain.TicketStatus("ARCHIVED"))
	require.Error(t, err)
	assert.True(t, errCodeIs(err, "VALIDATION_FAILED"))
}

func TestChangeStatusMissingTicket(t *testing.T) {
	svc, _ := newTicketServiceForTest()

	_, _, err := svc.ChangeStatus(context.Background(), manager, 404, domain.TicketStatusInProgress)
	require.Error(t, err)
	assert.True(t, errCodeIs(err, "NOT_FOUND"))
}

// A concurrent writer that moved the ticket to the requested state's
// predecessor makes the retried request succeed against the new state.
func TestChangeStatusReevaluatedAfterConcurrentWin(t *testing.T) {
	svc, repo := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, enduser)

	// Simulate the race: the status moves underneath after the first read.
	repo.tickets[ticket.ID].Status = domain.TicketStatusInProgress

	_, entry, err := svc.ChangeStatus(context.Background(), manager, ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, entry.OldStatus)
}

func TestAssignTicketIsRoleGatedOnly(t *testing.T) {
	svc, _ := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, enduser)

	// Support not assigned to the ticket may still reassign it.
	updated, err := svc.AssignTicket(context.Background(), support, ticket.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, int64(5), *updated.AssignedTo)

	_, err = svc.AssignTicket(context.Background(), manager, ticket.ID+100, 5)
	require.Error(t, err)
	assert.True(t, errCodeIs(err, "NOT_FOUND"))
}

func TestDeleteTicket(t *testing.T) {
	svc, repo := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, enduser)

	require.NoError(t, svc.DeleteTicket(context.Background(), manager, ticket.ID))
	_, err := repo.GetByID(context.Background(), ticket.ID)
	require.Error(t, err)

	err = svc.DeleteTicket(context.Background(), manager, ticket.ID)
	require.Error(t, err)
	assert.True(t, errCodeIs(err, "NOT_FOUND"))
}

func TestListStatusLogRequiresTicketAccess(t *testing.T) {
	svc, _ := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, enduser)
	_, _, err := svc.ChangeStatus(context.Background(), support, ticket.ID, domain.TicketStatusInProgress)
	require.NoError(t, err)

	_, err = svc.ListStatusLog(context.Background(), support, ticket.ID)
	require.Error(t, err)
	assert.True(t, errCodeIs(err, "FORBIDDEN"))

	entries, err := svc.ListStatusLog(context.Background(), enduser, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
