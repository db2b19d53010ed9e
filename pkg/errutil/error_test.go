package errutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusFrom(t *testing.T) {
	require.Equal(t, StatusUnknown, StatusFrom(nil))
	require.Equal(t, StatusConflict, StatusFrom(Conflict("duplicate request", nil)))
	require.Equal(t, StatusInternal, StatusFrom(errors.New("plain error")))

	// Classifier survives wrapping.
	wrapped := fmt.Errorf("outer: %w", NotFound("event not found", nil))
	require.Equal(t, StatusNotFound, StatusFrom(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[CoreStatus]int{
		StatusBadRequest:            http.StatusBadRequest,
		StatusInvalidID:             http.StatusBadRequest,
		StatusUnauthorized:          http.StatusUnauthorized,
		StatusForbidden:             http.StatusForbidden,
		StatusNotFound:              http.StatusNotFound,
		StatusConflict:              http.StatusConflict,
		StatusClientClosedRequest:   499,
		StatusBadGateway:            http.StatusBadGateway,
		StatusGatewayTimeout:        http.StatusGatewayTimeout,
		StatusUnsupportedCondition:  http.StatusInternalServerError,
		StatusUnsupportedReward:     http.StatusInternalServerError,
		CoreStatus("SOMETHING_NEW"): http.StatusInternalServerError,
	}

	for status, want := range cases {
		require.Equal(t, want, status.HTTPStatus(), string(status))
	}
}

func TestBaseError(t *testing.T) {
	cause := errors.New("unique constraint violated")
	err := Conflict("duplicate request", cause)

	var be BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, "duplicate request", be.Message)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "[CONFLICT] duplicate request: unique constraint violated", err.Error())
}

func TestUnsupportedTypeErrors(t *testing.T) {
	err := UnsupportedCondition("MOON_PHASE")
	require.Equal(t, StatusUnsupportedCondition, StatusFrom(err))
	require.Contains(t, err.Error(), "MOON_PHASE")

	err = UnsupportedReward("GOLD_BAR")
	require.Equal(t, StatusUnsupportedReward, StatusFrom(err))
	require.Contains(t, err.Error(), "GOLD_BAR")
}
