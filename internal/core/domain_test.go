package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateValidate(t *testing.T) {
	assert.NoError(t, NewDate(2025, 1, 1).Validate())
	assert.ErrorIs(t, Date{}.Validate(), ErrInvalidDate)
}

func TestDateOfIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	d := DateOf(time.Date(2024, 3, 10, 23, 59, 0, 0, loc))
	assert.Equal(t, "2024-03-10", d.String())
	assert.Equal(t, time.UTC, d.Location())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, 2, 29), d)

	_, err = ParseDate("29/02/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestNewDraft(t *testing.T) {
	t.Run("trims category and drops blank note", func(t *testing.T) {
		d, err := NewDraft("12.5", "  Books  ", "   ")
		require.NoError(t, err)
		assert.Equal(t, Draft{Amount: Money{Cents: 1250}, Category: "Books"}, d)
	})

	t.Run("keeps trimmed note", func(t *testing.T) {
		d, err := NewDraft("3", "Food", " lunch ")
		require.NoError(t, err)
		assert.Equal(t, "lunch", d.Note)
	})

	bads := []struct {
		amount, category string
		want             error
	}{
		{"abc", "Food", ErrInvalidAmount},
		{"0", "Food", ErrInvalidAmount},
		{"-3", "Food", ErrInvalidAmount},
		{"3", "", ErrEmptyCategory},
		{"3", "   ", ErrEmptyCategory},
	}
	for _, tc := range bads {
		_, err := NewDraft(tc.amount, tc.category, "")
		assert.ErrorIs(t, err, tc.want, "amount=%q category=%q", tc.amount, tc.category)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{ID: 1, Amount: Money{Cents: 100}, Category: "Cat", Date: NewDate(2025, 1, 1)}
	require.NoError(t, good.Validate())

	bads := []Expense{
		{Amount: Money{Cents: 100}, Category: "Cat"},
		{Amount: Money{Cents: 0}, Category: "Cat", Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: 100}, Category: " ", Date: NewDate(2025, 1, 1)},
	}
	for i, e := range bads {
		assert.Error(t, e.Validate(), "case %d", i)
	}
}

func TestExpenseApplyKeepsIdentity(t *testing.T) {
	e := Expense{ID: 7, Amount: Money{Cents: 100}, Category: "Food", Note: "x", Date: NewDate(2024, 1, 1)}
	got := e.Apply(Draft{Amount: Money{Cents: 200}, Category: "Rent"})
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, e.Date, got.Date)
	assert.Equal(t, Money{Cents: 200}, got.Amount)
	assert.Equal(t, "Rent", got.Category)
	assert.False(t, got.HasNote())
}
