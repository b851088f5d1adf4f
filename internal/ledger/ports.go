// Package ledger declares the storage port of the expense ledger.
package ledger

import (
	"context"

	"expensetracker/internal/core"
)

// Ports for ledger storage adapters.
type (
	ExpenseWriter interface {
		// Add validates d, assigns a fresh id and persists the expense dated on.
		Add(ctx context.Context, d core.Draft, on core.Date) (core.Expense, error)
		// Update replaces amount, category and note of an existing expense.
		// Returns core.ErrNotFound for unknown ids.
		Update(ctx context.Context, id int64, d core.Draft) (core.Expense, error)
		// Remove deletes the expense. Unknown ids are not an error.
		Remove(ctx context.Context, id int64) error
	}

	ExpenseReader interface {
		// ListAll returns every expense, most recently created first.
		ListAll(ctx context.Context) ([]core.Expense, error)
		Get(ctx context.Context, id int64) (core.Expense, error)
	}

	// Store is the full ledger contract implemented by every backend.
	Store interface {
		ExpenseWriter
		ExpenseReader
		Close() error
	}
)
