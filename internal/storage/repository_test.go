package storage

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
	"expensetracker/internal/ledger"
	applog "expensetracker/internal/log"
)

var _ ledger.Store = (*SQLiteRepository)(nil)

func openRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "ledger.db")
	repo, err := NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func draft(cents int64, category, note string) core.Draft {
	return core.Draft{Amount: core.Money{Cents: cents}, Category: category, Note: note}
}

func TestSQLiteAddListGet(t *testing.T) {
	ctx := context.Background()
	repo, _ := openRepo(t)
	day := core.NewDate(2024, 1, 15)

	first, err := repo.Add(ctx, draft(1250, "  Books  ", "   "), day)
	require.NoError(t, err)
	assert.Equal(t, "Books", first.Category)
	assert.False(t, first.HasNote())
	assert.Equal(t, core.Money{Cents: 1250}, first.Amount)
	assert.Equal(t, day, first.Date)

	second, err := repo.Add(ctx, draft(700, "Food", "lunch"), day)
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second, all[0])
	assert.Equal(t, first, all[1])

	got, err := repo.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "lunch", got.Note)

	_, err = repo.Get(ctx, 999)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSQLiteAmountRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := openRepo(t)
	for _, cents := range []int64{1, 10, 100, 1999, 123456789, 1 << 52, 9007199254740991} {
		e, err := repo.Add(ctx, draft(cents, "A", ""), core.NewDate(2024, 1, 1))
		require.NoError(t, err)
		got, err := repo.Get(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, cents, got.Amount.Cents)
	}

	for _, in := range []string{"90071992547409.91", "90071992547409.89", "70000000000000.01"} {
		amount, err := core.ParseAmount(in)
		require.NoError(t, err, in)
		e, err := repo.Add(ctx, core.Draft{Amount: amount, Category: "A"}, core.NewDate(2024, 1, 1))
		require.NoError(t, err, in)
		got, err := repo.Get(ctx, e.ID)
		require.NoError(t, err, in)
		assert.Equal(t, in, got.Amount.String())
	}

	for _, in := range []string{"90071992547409.93", "900000000000000.01"} {
		_, err := core.ParseAmount(in)
		assert.ErrorIs(t, err, core.ErrInvalidAmount, in)
	}
	_, err := repo.Add(ctx, draft(1<<53, "A", ""), core.NewDate(2024, 1, 1))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestSQLiteRejectsInvalidWithoutWriting(t *testing.T) {
	ctx := context.Background()
	repo, _ := openRepo(t)

	_, err := repo.Add(ctx, draft(0, "Food", ""), core.NewDate(2024, 1, 1))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	_, err = repo.Add(ctx, draft(10, " ", ""), core.NewDate(2024, 1, 1))
	assert.ErrorIs(t, err, core.ErrEmptyCategory)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteUpdate(t *testing.T) {
	ctx := context.Background()
	repo, _ := openRepo(t)
	day := core.NewDate(2024, 1, 1)
	target, _ := repo.Add(ctx, draft(100, "Food", "note"), day)
	other, _ := repo.Add(ctx, draft(200, "Rent", ""), day)

	got, err := repo.Update(ctx, target.ID, draft(350, " Books ", " "))
	require.NoError(t, err)
	assert.Equal(t, core.Expense{ID: target.ID, Amount: core.Money{Cents: 350}, Category: "Books", Date: day}, got)

	stillOther, err := repo.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other, stillOther)

	_, err = repo.Update(ctx, 999, draft(1, "A", ""))
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = repo.Update(ctx, target.ID, draft(100, "", ""))
	assert.ErrorIs(t, err, core.ErrEmptyCategory)
	unchanged, _ := repo.Get(ctx, target.ID)
	assert.Equal(t, got, unchanged)
}

func TestSQLiteRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, _ := openRepo(t)
	e, _ := repo.Add(ctx, draft(100, "Food", ""), core.NewDate(2024, 1, 1))

	require.NoError(t, repo.Remove(ctx, e.ID))
	require.NoError(t, repo.Remove(ctx, e.ID))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	next, err := repo.Add(ctx, draft(100, "Food", ""), core.NewDate(2024, 1, 1))
	require.NoError(t, err)
	assert.Greater(t, next.ID, e.ID, "ids must not be reused")
}

func TestSQLiteDataSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	repo, path := openRepo(t)
	e, err := repo.Add(ctx, draft(100, "Food", ""), core.NewDate(2024, 1, 1))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, e, all[0])
}

func TestSQLiteStorageErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	repo, _ := openRepo(t)
	require.NoError(t, repo.Close())

	_, err := repo.ListAll(ctx)
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
}

func TestSQLiteLogsAsStorageComponent(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: slog.LevelDebug, Output: &buf})
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"), logger)
	require.NoError(t, err)
	defer repo.Close()

	e, err := repo.Add(ctx, draft(1250, "Food", ""), core.NewDate(2024, 1, 1))
	require.NoError(t, err)
	require.NoError(t, repo.Remove(ctx, e.ID))

	out := buf.String()
	assert.Contains(t, out, "Expense saved to SQLite")
	assert.Contains(t, out, "Expense deleted from SQLite")
	assert.Equal(t, 2, strings.Count(out, "component=storage"))
	assert.Contains(t, out, "amount_cents=1250")
}
