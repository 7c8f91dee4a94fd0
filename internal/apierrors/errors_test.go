package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Unauthenticated("who are you"), http.StatusUnauthorized},
		{NotFound("nope"), http.StatusNotFound},
		{Conflict("already there"), http.StatusConflict},
		{Upstream("db down", errors.New("dial refused")), http.StatusInternalServerError},
		{errors.New("untyped"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, StatusCode(tc.err), tc.err.Error())
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("missing"))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUpstream_UnwrapsCause(t *testing.T) {
	cause := errors.New("dial refused")
	err := Upstream("db down", cause)

	assert.ErrorIs(t, err, cause)
}

func TestPublicMessage_HidesUpstreamCause(t *testing.T) {
	err := Upstream("failed to load orders", errors.New("password=hunter2 dial refused"))

	msg := PublicMessage(err)
	assert.Equal(t, "failed to load orders", msg)
	assert.NotContains(t, msg, "hunter2")
}
