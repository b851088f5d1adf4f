package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Expense is a raw row of the expenses table. Amount is in cents.
type Expense struct {
	ID       int64
	Amount   int64
	Category string
	Note     sql.NullString
	Date     string
}

const createExpense = `INSERT INTO expenses (amount_cents, category, note, date)
VALUES (?, ?, ?, ?)
RETURNING id, amount_cents, category, note, date`

type CreateExpenseParams struct {
	Amount   int64
	Category string
	Note     sql.NullString
	Date     string
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error) {
	row := q.db.QueryRowContext(ctx, createExpense, arg.Amount, arg.Category, arg.Note, arg.Date)
	var i Expense
	err := row.Scan(&i.ID, &i.Amount, &i.Category, &i.Note, &i.Date)
	return i, err
}

const updateExpense = `UPDATE expenses
SET amount_cents = ?, category = ?, note = ?
WHERE id = ?
RETURNING id, amount_cents, category, note, date`

type UpdateExpenseParams struct {
	Amount   int64
	Category string
	Note     sql.NullString
	ID       int64
}

func (q *Queries) UpdateExpense(ctx context.Context, arg UpdateExpenseParams) (Expense, error) {
	row := q.db.QueryRowContext(ctx, updateExpense, arg.Amount, arg.Category, arg.Note, arg.ID)
	var i Expense
	err := row.Scan(&i.ID, &i.Amount, &i.Category, &i.Note, &i.Date)
	return i, err
}

const deleteExpense = `DELETE FROM expenses WHERE id = ?`

func (q *Queries) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpense, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getExpense = `SELECT id, amount_cents, category, note, date FROM expenses WHERE id = ?`

func (q *Queries) GetExpense(ctx context.Context, id int64) (Expense, error) {
	row := q.db.QueryRowContext(ctx, getExpense, id)
	var i Expense
	err := row.Scan(&i.ID, &i.Amount, &i.Category, &i.Note, &i.Date)
	return i, err
}

const listExpenses = `SELECT id, amount_cents, category, note, date FROM expenses ORDER BY id DESC`

func (q *Queries) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var i Expense
		if err := rows.Scan(&i.ID, &i.Amount, &i.Category, &i.Note, &i.Date); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countExpenses = `SELECT COUNT(*) FROM expenses`

func (q *Queries) CountExpenses(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countExpenses)
	var count int64
	err := row.Scan(&count)
	return count, err
}
