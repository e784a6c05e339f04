package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestApiErrMatchesSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		check  func(error) bool
	}{
		{"forbidden", NewForbiddenError("nope"), http.StatusForbidden, IsForbidden},
		{"not found", NewNotFoundError("gone"), http.StatusNotFound, IsNotFound},
		{"bad request", NewBadRequestError("bad"), http.StatusBadRequest, IsBadRequest},
		{"unauthorized", Unauthorized, http.StatusUnauthorized, IsUnauthorized},
		{"conflict", NewConflictError("twice"), http.StatusConflict, IsConflict},
		{"validation", NewValidationError(map[string][]string{"title": {"required"}}), http.StatusBadRequest, IsValidation},
		{"expired token", NewExpiredTokenError(), http.StatusUnauthorized, IsUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var apiErr *ApiErr
			assert.True(t, errors.As(tt.err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.True(t, tt.check(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewInvalidJSONError("body must not be empty", nil)
	assert.Equal(t, "invalid JSON: body must not be empty", err.Error())
	assert.Equal(t, "invalid JSON", err.Message())

	wrapped := NewInternalErrorWithCause("load failed", NewNotFoundError("row missing"))
	assert.Equal(t, "load failed -> row missing", wrapped.GetFullError())
}

func TestNewDatabaseError(t *testing.T) {
	tests := []struct {
		name     string
		cause    error
		status   int
		sentinel error
	}{
		{"translated duplicate", gorm.ErrDuplicatedKey, http.StatusConflict, ErrUniqueConstraintViolation},
		{"postgres duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "likes_pkey"`), http.StatusConflict, ErrUniqueConstraintViolation},
		{"sqlite duplicate", errors.New("UNIQUE constraint failed: likes.blog_post_id, likes.user_id"), http.StatusConflict, ErrUniqueConstraintViolation},
		{"foreign key", gorm.ErrForeignKeyViolated, http.StatusBadRequest, ErrForeignKeyConstraint},
		{"record not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), http.StatusNotFound, ErrNotFound},
		{"timeout", context.DeadlineExceeded, http.StatusServiceUnavailable, ErrDatabaseTimeout},
		{"generic", errors.New("syntax error"), http.StatusInternalServerError, ErrDatabaseQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("create", "like", tt.cause)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestStoreErrorsMatchStatusCheckers(t *testing.T) {
	duplicate := NewDatabaseError("create", "like", gorm.ErrDuplicatedKey)
	assert.True(t, IsConflict(duplicate))
	assert.True(t, IsDuplicateKey(duplicate))
	assert.Equal(t, "like already exists", duplicate.Message())

	foreignKey := NewDatabaseError("create", "comment", gorm.ErrForeignKeyViolated)
	assert.True(t, IsBadRequest(foreignKey))
	assert.True(t, IsForeignKeyViolation(foreignKey))
}

func TestEntityErrors(t *testing.T) {
	exists := NewAlreadyExists("like")
	assert.Equal(t, http.StatusConflict, exists.StatusCode)
	assert.Equal(t, "like already exists", exists.Error())
	assert.True(t, IsConflict(exists))
	assert.ErrorIs(t, exists, ErrAlreadyExists)

	missing := NewNotFound("like")
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	assert.Equal(t, "like not found", missing.Error())
	assert.True(t, IsNotFound(missing))
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.False(t, IsDuplicateKey(errors.New("boom")))
}
