package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"expensetracker/internal/core"
)

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// statusFor maps ledger errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the error text shown to clients. Validation and lookup
// failures are echoed; anything else is hidden.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "amount must be a positive number"
	case errors.Is(err, core.ErrEmptyCategory):
		return "category is required"
	case errors.Is(err, core.ErrInvalidWindow):
		return "window must be one of all, week, month"
	case errors.Is(err, core.ErrValidation):
		return "invalid expense"
	case errors.Is(err, core.ErrNotFound):
		return "expense not found"
	case errors.Is(err, core.ErrStorageUnavailable):
		return "storage unavailable"
	default:
		return "internal error"
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
