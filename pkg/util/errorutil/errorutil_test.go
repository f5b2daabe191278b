package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewForbidden("access denied")
	mapped := ToDomainError(fmt.Errorf("handler: %w", original))

	assert.Equal(t, "FORBIDDEN", mapped.Code)
	assert.Equal(t, http.StatusForbidden, mapped.HTTPStatus)
}

func TestToDomainErrorRowMiss(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorOpaque(t *testing.T) {
	mapped := ToDomainError(errors.New("connection reset"))
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestInvalidTransitionMapsToBadRequest(t *testing.T) {
	err := NewInvalidTransition("cannot move ticket from CLOSED to OPEN", nil)
	mapped := ToDomainError(err)

	assert.Equal(t, "INVALID_TRANSITION", mapped.Code)
	assert.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)
}

func TestIsCode(t *testing.T) {
	err := NewNotFound("ticket", nil)
	assert.True(t, IsCode(err, "NOT_FOUND"))
	assert.False(t, IsCode(err, "FORBIDDEN"))
	assert.False(t, IsCode(errors.New("plain"), "NOT_FOUND"))
	assert.False(t, IsCode(nil, "NOT_FOUND"))
}
