package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	err := NewValidationError("limit must be greater than zero")
	de := ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
}

func TestToDomainErrorNoRows(t *testing.T) {
	de := ToDomainError(pgx.ErrNoRows)
	require.NotNil(t, de)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestToDomainErrorWrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("query issue"), pgx.ErrNoRows)
	de := ToDomainError(wrapped)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestToDomainErrorUnclassified(t *testing.T) {
	de := ToDomainError(errors.New("connection reset"))
	require.NotNil(t, de)
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, "internal server error", de.Message, "raw cause never leaks into the message")
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("issue")))
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.False(t, IsNotFound(NewValidationError("bad")))
	assert.False(t, IsNotFound(nil))
}

func TestNewNotFoundMessage(t *testing.T) {
	de := ToDomainError(NewNotFound("Issue"))
	assert.Equal(t, "Issue not found", de.Message)
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewInternalError("Error creating issue", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Error creating issue")
}
