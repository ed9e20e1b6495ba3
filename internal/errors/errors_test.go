package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusBadRequest},
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeInvalidCredentials, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeUpstream, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, New(tc.code, "x").HTTPStatus(), string(tc.code))
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, CodeInternal, "saving board")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "saving board")
	assert.Contains(t, err.Error(), "disk full")
}

func TestAsThroughWrapping(t *testing.T) {
	inner := NotFound("board not found")
	wrapped := fmt.Errorf("handling request: %w", inner)

	e, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, e.Code)
	assert.True(t, IsCode(wrapped, CodeNotFound))
	assert.False(t, IsCode(wrapped, CodeForbidden))
}

func TestIsCodePlainError(t *testing.T) {
	assert.False(t, IsCode(stderrors.New("plain"), CodeNotFound))
}
