// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing JSON responses
// and the wire shapes of ledger records.

package http

import (
	"encoding/json"
	"net/http"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	payload    interface{}
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Data sets the value encoded as the response body.
func (b *JSONResponseBuilder) Data(v interface{}) *JSONResponseBuilder {
	b.payload = v
	return b
}

// Write sends the built response to the http.ResponseWriter. A nil payload
// writes headers only.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter, r *http.Request) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if b.payload == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	body, err := json.Marshal(b.payload)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode response",
			applog.FieldError, err, applog.FieldErrorType, applog.ErrorTypeInternal)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(body, '\n'))
}

type errorBody struct {
	Error string `json:"error"`
}

// ErrorResponse creates a standard JSON error response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Data(errorBody{Error: message})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusMethodNotAllowed, "method not allowed")
}

// TooManyRequestsError creates a 429 response.
func TooManyRequestsError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later")
}

// ledgerError creates the response for an error returned by the ledger.
func ledgerError(err error) *JSONResponseBuilder {
	return ErrorResponse(statusFor(err), publicMessage(err))
}

// ExpenseJSON is the wire shape of a stored expense.
type ExpenseJSON struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
	Note        string `json:"note,omitempty"`
	Date        string `json:"date"`
}

type CategoryJSON struct {
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
}

// ViewJSON is the wire shape of a filtered list with its totals.
type ViewJSON struct {
	Window     string         `json:"window"`
	Label      string         `json:"label"`
	Count      int            `json:"count"`
	Total      string         `json:"total"`
	TotalCents int64          `json:"total_cents"`
	ByCategory []CategoryJSON `json:"by_category"`
	Expenses   []ExpenseJSON  `json:"expenses"`
}

func NewExpenseJSON(e core.Expense) ExpenseJSON {
	return ExpenseJSON{
		ID:          e.ID,
		Amount:      e.Amount.String(),
		AmountCents: e.Amount.Cents,
		Category:    e.Category,
		Note:        e.Note,
		Date:        e.Date.String(),
	}
}

func NewViewJSON(v core.View) ViewJSON {
	out := ViewJSON{
		Window:     string(v.Window),
		Label:      v.Window.Label(),
		Count:      v.Count,
		Total:      v.Total.String(),
		TotalCents: v.Total.Cents,
		ByCategory: make([]CategoryJSON, 0, len(v.ByCategory)),
		Expenses:   make([]ExpenseJSON, 0, len(v.Expenses)),
	}
	for _, c := range v.ByCategory {
		out.ByCategory = append(out.ByCategory, CategoryJSON{
			Category:    c.Name,
			Amount:      c.Amount.String(),
			AmountCents: c.Amount.Cents,
		})
	}
	for _, e := range v.Expenses {
		out.Expenses = append(out.Expenses, NewExpenseJSON(e))
	}
	return out
}
