package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindForbidden, KindOf(Forbidden("nope")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("gone")))
	assert.Equal(t, KindInvalidCredentials, KindOf(InvalidCredentials()))

	// Wrapped taxonomy errors keep their kind.
	wrapped := fmt.Errorf("outer: %w", Conflict("dup"))
	assert.Equal(t, KindConflict, KindOf(wrapped))

	// Foreign errors read as internal.
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "no access", Forbidden("no access").Error())
	assert.Equal(t, "invalid credentials", InvalidCredentials().Error())

	cause := errors.New("disk full")
	err := Internal("", cause)
	assert.Equal(t, "disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(KindUnauthenticated))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(KindInvalidCredentials))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(KindForbidden))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(KindNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(KindConflict))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindValidation))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindInternal))
}
