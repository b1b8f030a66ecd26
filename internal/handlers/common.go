package handlers

import (
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lebadvisor/lebadvisor-api/internal/inventory"
)

// Clock injects "now" into availability filtering so handlers are testable
// without wall-clock dependence.
type Clock func() time.Time

// apiError translates the inventory error taxonomy into HTTP responses.
// Anything outside the taxonomy is a genuine infrastructure failure.
func apiError(err error) error {
	var statusErr huma.StatusError
	if errors.As(err, &statusErr) {
		return err
	}
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, inventory.ErrNotAuthorized):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, inventory.ErrInvalidInput),
		errors.Is(err, inventory.ErrAlreadyConfirmed),
		errors.Is(err, inventory.ErrIncompleteRange),
		errors.Is(err, inventory.ErrOutOfRange):
		return huma.Error400BadRequest(err.Error())
	default:
		return huma.Error500InternalServerError("Unexpected error: " + err.Error())
	}
}

// parseDate parses a YYYY-MM-DD date.
func parseDate(s string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, huma.Error400BadRequest("Invalid date format. Use YYYY-MM-DD.")
	}
	return day, nil
}
