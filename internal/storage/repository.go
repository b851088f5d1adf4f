package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *applog.Logger
}

// NewSQLiteRepository opens the database at dbPath and ensures the schema.
// Existing expenses are kept. A nil logger discards output.
func NewSQLiteRepository(dbPath string, logger *applog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = applog.Discard()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: create db directory: %w", core.ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %w", core.ErrStorageUnavailable, err)
	}
	// One writer, one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %w", core.ErrStorageUnavailable, err)
	}

	if err := EnsureSchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger.WithComponent(applog.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the connection is still usable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return unavailable("ping database", err)
	}
	return nil
}

// Add implements ledger.ExpenseWriter
func (r *SQLiteRepository) Add(ctx context.Context, d core.Draft, on core.Date) (core.Expense, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := on.Validate(); err != nil {
		return core.Expense{}, err
	}

	row, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		Amount:   d.Amount.Cents,
		Category: d.Category,
		Note:     nullableNote(d.Note),
		Date:     on.String(),
	})
	if err != nil {
		return core.Expense{}, unavailable("create expense", err)
	}

	e, err := toCore(row)
	if err != nil {
		return core.Expense{}, err
	}

	r.logger.InfoContext(ctx, "Expense saved to SQLite",
		applog.FieldExpenseID, e.ID,
		applog.FieldAmountCents, e.Amount.Cents,
		applog.FieldCategory, e.Category,
		applog.FieldDate, e.Date.String())

	return e, nil
}

// Update implements ledger.ExpenseWriter
func (r *SQLiteRepository) Update(ctx context.Context, id int64, d core.Draft) (core.Expense, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return core.Expense{}, err
	}

	row, err := r.queries.UpdateExpense(ctx, UpdateExpenseParams{
		Amount:   d.Amount.Cents,
		Category: d.Category,
		Note:     nullableNote(d.Note),
		ID:       id,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, unavailable("update expense", err)
	}

	r.logger.InfoContext(ctx, "Expense updated in SQLite",
		applog.FieldExpenseID, id,
		applog.FieldAmountCents, d.Amount.Cents)
	return toCore(row)
}

// Remove implements ledger.ExpenseWriter
func (r *SQLiteRepository) Remove(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteExpense(ctx, id)
	if err != nil {
		return unavailable("delete expense", err)
	}
	if n == 0 {
		r.logger.DebugContext(ctx, "Expense already absent", applog.FieldExpenseID, id)
		return nil
	}
	r.logger.InfoContext(ctx, "Expense deleted from SQLite", applog.FieldExpenseID, id)
	return nil
}

// ListAll implements ledger.ExpenseReader
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, unavailable("list expenses", err)
	}

	expenses := make([]core.Expense, len(rows))
	for i, row := range rows {
		if expenses[i], err = toCore(row); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// Get implements ledger.ExpenseReader
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Expense, error) {
	row, err := r.queries.GetExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, unavailable("get expense by id", err)
	}
	return toCore(row)
}

// Count returns the number of stored expenses.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountExpenses(ctx)
	if err != nil {
		return 0, unavailable("count expenses", err)
	}
	return n, nil
}

func toCore(row Expense) (core.Expense, error) {
	money := core.Money{Cents: row.Amount}
	if err := money.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("%w: expense %d has invalid amount %d cents", core.ErrStorageUnavailable, row.ID, row.Amount)
	}
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: expense %d has invalid date %q", core.ErrStorageUnavailable, row.ID, row.Date)
	}
	return core.Expense{
		ID:       row.ID,
		Amount:   money,
		Category: row.Category,
		Note:     row.Note.String,
		Date:     date,
	}, nil
}

func nullableNote(note string) sql.NullString {
	return sql.NullString{String: note, Valid: note != ""}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, core.ErrStorageUnavailable, err)
}
