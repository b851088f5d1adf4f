package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/ledger"
	applog "expensetracker/internal/log"
)

// LedgerService runs the write path (validate, store) and the read path
// (list, filter, aggregate) of the expense ledger.
type LedgerService struct {
	store    ledger.Store
	logger   *applog.Logger
	calendar core.Calendar
	location *time.Location
	now      func() time.Time
}

type Option func(*LedgerService)

// WithClock replaces time.Now as the source of "today" and of the window
// reference instant.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

func WithCalendar(c core.Calendar) Option {
	return func(s *LedgerService) { s.calendar = c }
}

// WithLocation sets the time zone expense dates and windows are computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *LedgerService) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithLogger(l *applog.Logger) Option {
	return func(s *LedgerService) {
		if l != nil {
			s.logger = l.WithComponent(applog.ComponentLedger)
		}
	}
}

func NewLedgerService(store ledger.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:    store,
		logger:   applog.Discard(),
		calendar: core.DefaultCalendar,
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the reference instant in the service location.
func (s *LedgerService) Now() time.Time {
	return s.now().In(s.location)
}

// Today is the calendar day new expenses are dated on.
func (s *LedgerService) Today() core.Date {
	return core.DateOf(s.Now())
}

// AddExpense validates raw input and records a new expense dated today.
// Rejected input returns an error wrapping core.ErrValidation and writes
// nothing.
func (s *LedgerService) AddExpense(ctx context.Context, amount, category, note string) (core.Expense, error) {
	d, err := core.NewDraft(amount, category, note)
	if err != nil {
		s.logger.WarnContext(ctx, "Expense rejected",
			applog.FieldOperation, applog.OpCreate,
			applog.FieldErrorType, applog.ErrorTypeValidation,
			applog.FieldError, err)
		return core.Expense{}, err
	}

	e, err := s.store.Add(ctx, d, s.Today())
	if err != nil {
		s.logFailure(ctx, "Failed to save expense", err, applog.OpCreate, 0)
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense created",
		applog.NewFields().WithExpense(e.ID, e.Amount.Cents, e.Category).WithOperation(applog.OpCreate).ToSlice()...)
	return e, nil
}

// UpdateExpense replaces amount, category and note of expense id. The date
// and id never change.
func (s *LedgerService) UpdateExpense(ctx context.Context, id int64, amount, category, note string) (core.Expense, error) {
	d, err := core.NewDraft(amount, category, note)
	if err != nil {
		s.logger.WarnContext(ctx, "Expense update rejected",
			applog.FieldOperation, applog.OpUpdate,
			applog.FieldExpenseID, id,
			applog.FieldErrorType, applog.ErrorTypeValidation,
			applog.FieldError, err)
		return core.Expense{}, err
	}

	e, err := s.store.Update(ctx, id, d)
	if err != nil {
		s.logFailure(ctx, "Failed to update expense", err, applog.OpUpdate, id)
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense updated",
		applog.NewFields().WithExpense(e.ID, e.Amount.Cents, e.Category).WithOperation(applog.OpUpdate).ToSlice()...)
	return e, nil
}

// RemoveExpense deletes expense id. Removing an unknown id succeeds.
func (s *LedgerService) RemoveExpense(ctx context.Context, id int64) error {
	if err := s.store.Remove(ctx, id); err != nil {
		s.logFailure(ctx, "Failed to delete expense", err, applog.OpDelete, id)
		return fmt.Errorf("delete expense: %w", err)
	}
	s.logger.InfoContext(ctx, "Expense deleted", applog.FieldExpenseID, id, applog.FieldOperation, applog.OpDelete)
	return nil
}

// GetExpense returns a single expense.
func (s *LedgerService) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// View reads the whole ledger, narrows it to w around the current instant
// and computes the totals.
func (s *LedgerService) View(ctx context.Context, w core.Window) (core.View, error) {
	return s.ViewAt(ctx, w, s.Now())
}

// ViewAt is View with an explicit reference instant.
func (s *LedgerService) ViewAt(ctx context.Context, w core.Window, ref time.Time) (core.View, error) {
	if !w.IsValid() {
		return core.View{}, fmt.Errorf("%w: %q", core.ErrInvalidWindow, w)
	}
	all, err := s.store.ListAll(ctx)
	if err != nil {
		s.logFailure(ctx, "Failed to list expenses", err, applog.OpList, 0)
		return core.View{}, fmt.Errorf("list expenses: %w", err)
	}

	v := core.Summarize(w, s.calendar.Apply(all, w, ref))
	s.logger.DebugContext(ctx, "Ledger view computed",
		applog.NewFields().WithView(string(w), v.Count, v.Total.Cents).ToSlice()...)
	return v, nil
}

// Ready reports whether the store can serve requests. Stores without a
// health check are always ready.
func (s *LedgerService) Ready(ctx context.Context) error {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("ledger store not ready: %w", err)
		}
	}
	return nil
}

// Close releases the underlying store.
func (s *LedgerService) Close() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close ledger store: %w", err)
	}
	return nil
}

func (s *LedgerService) logFailure(ctx context.Context, msg string, err error, op string, id int64) {
	fields := applog.NewFields().WithError(err).WithOperation(op)
	if id > 0 {
		fields[applog.FieldExpenseID] = id
	}
	switch {
	case errors.Is(err, core.ErrNotFound):
		fields.WithErrorType(applog.ErrorTypeNotFound)
		s.logger.WarnContext(ctx, msg, fields.ToSlice()...)
	case errors.Is(err, core.ErrValidation):
		fields.WithErrorType(applog.ErrorTypeValidation)
		s.logger.WarnContext(ctx, msg, fields.ToSlice()...)
	default:
		fields.WithErrorType(applog.ErrorTypeDatabase)
		s.logger.ErrorContext(ctx, msg, fields.ToSlice()...)
	}
}
