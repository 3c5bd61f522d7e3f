package errors_test

import (
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/jrsteele09/polar-health-link/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestStatusError(t *testing.T) {
	err := apperrors.Wrapf(apperrors.NewStatusError(apperrors.ErrTokenExchangeFailed, 401, "bad code"), "[Test] exchange")

	require.True(t, errors.Is(err, apperrors.ErrTokenExchangeFailed))
	require.False(t, errors.Is(err, apperrors.ErrRegistrationFailed))

	var statusErr *apperrors.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, 401, statusErr.StatusCode)
	require.Equal(t, "bad code", statusErr.Body)
	require.Equal(t, "[Test] exchange: token exchange failed: 401 - bad code", err.Error())
}

func TestStatusError_NoBody(t *testing.T) {
	err := apperrors.NewStatusError(apperrors.ErrTransactionListFailed, 503, "")
	require.Equal(t, "transaction listing failed: 503", err.Error())
}

func TestWrapf_Nil(t *testing.T) {
	require.NoError(t, apperrors.Wrapf(nil, "ignored %d", 1))
	require.EqualError(t, apperrors.Wrapf(fmt.Errorf("boom"), "op %s", "x"), "op x: boom")
}
