package http

import (
	"net/http"

	applog "expensetracker/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(map[string]string{"status": "ok"}).Write(w, r)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "ready", "store": s.backend}
	if err := s.ledger.Ready(r.Context()); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed",
			applog.FieldBackend, s.backend, applog.FieldError, err)
		body["status"] = "unavailable"
		NewJSONResponse().Status(http.StatusServiceUnavailable).Data(body).Write(w, r)
		return
	}
	NewJSONResponse().Data(body).Write(w, r)
}

// handleListExpenses serves the filtered expense list with its totals.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	window, err := ParseWindowParam(r.URL.Query())
	if err != nil {
		BadRequestError(publicMessage(err)).Write(w, r)
		return
	}

	view, err := s.ledger.View(r.Context(), window)
	if err != nil {
		s.fail(w, r, "List expenses failed", err, applog.OpList)
		return
	}
	NewJSONResponse().Data(NewViewJSON(view)).Write(w, r)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}

	e, err := s.ledger.GetExpense(r.Context(), id)
	if err != nil {
		s.fail(w, r, "Get expense failed", err, applog.OpRead)
		return
	}
	NewJSONResponse().Data(NewExpenseJSON(e)).Write(w, r)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	in, err := ParseExpenseInput(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}

	e, err := s.ledger.AddExpense(r.Context(), in.Amount, in.Category, in.Note)
	if err != nil {
		s.fail(w, r, "Create expense failed", err, applog.OpCreate)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", expenseLocation(e.ID)).
		Data(NewExpenseJSON(e)).
		Write(w, r)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	in, err := ParseExpenseInput(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}

	e, err := s.ledger.UpdateExpense(r.Context(), id, in.Amount, in.Category, in.Note)
	if err != nil {
		s.fail(w, r, "Update expense failed", err, applog.OpUpdate)
		return
	}
	NewJSONResponse().Data(NewExpenseJSON(e)).Write(w, r)
}

// handleDeleteExpense removes an expense. Unknown ids succeed.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}

	if err := s.ledger.RemoveExpense(r.Context(), id); err != nil {
		s.fail(w, r, "Delete expense failed", err, applog.OpDelete)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w, r)
}

// fail logs err at a level matching its status and writes the error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error, op string) {
	status := statusFor(err)
	logger := applog.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		applog.NewStructuredLogger(logger).LogError(r.Context(), msg, err, op, nil)
	} else {
		logger.DebugContext(r.Context(), msg, applog.FieldOperation, op, applog.FieldError, err)
	}
	ledgerError(err).Write(w, r)
}

func expenseLocation(id int64) string {
	return "/api/expenses/" + formatID(id)
}
