package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/xpense/internal/calculator"
	"github.com/mmynk/xpense/internal/storage"
)

// toConnectError maps domain sentinel errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, calculator.ErrInvalidInput),
		errors.Is(err, calculator.ErrTooManyParticipants):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// outcome labels a simplification result for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, calculator.ErrTooManyParticipants):
		return "too_many_participants"
	case errors.Is(err, calculator.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, calculator.ErrConservationViolation):
		return "conservation_violation"
	default:
		return "error"
	}
}
