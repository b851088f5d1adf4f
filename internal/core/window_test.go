package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expenseOn(id int64, date string, cents int64, category string) Expense {
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return Expense{ID: id, Amount: Money{Cents: cents}, Category: category, Date: d}
}

func ids(records []Expense) []int64 {
	out := make([]int64, 0, len(records))
	for _, e := range records {
		out = append(out, e.ID)
	}
	return out
}

func TestParseWindow(t *testing.T) {
	cases := map[string]Window{
		"":           WindowAll,
		"all":        WindowAll,
		"Week":       WindowWeek,
		"this-week":  WindowWeek,
		"MONTH":      WindowMonth,
		"this-month": WindowMonth,
	}
	for in, want := range cases {
		got, err := ParseWindow(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseWindow("year")
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestApplyWindowAllIsIdentity(t *testing.T) {
	records := []Expense{
		expenseOn(3, "2030-01-01", 100, "A"),
		expenseOn(2, "1999-05-05", 100, "B"),
		expenseOn(1, "2024-01-01", 100, "A"),
	}
	for _, ref := range []time.Time{time.Now(), time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)} {
		assert.Equal(t, records, ApplyWindow(records, WindowAll, ref))
	}
}

func TestApplyWindowMonth(t *testing.T) {
	records := []Expense{
		expenseOn(3, "2024-02-01", 500, "Rent"),
		expenseOn(2, "2024-01-15", 2000, "Food"),
		expenseOn(1, "2024-01-01", 1000, "Food"),
	}
	ref := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

	got := ApplyWindow(records, WindowMonth, ref)
	assert.Equal(t, []int64{2, 1}, ids(got))
	assert.Equal(t, Money{Cents: 3000}, TotalSpending(got))
	assert.Equal(t, []CategoryAmount{{Name: "Food", Amount: Money{Cents: 3000}}}, TotalsByCategory(got))
}

func TestApplyWindowMonthExcludesFutureMonths(t *testing.T) {
	records := []Expense{
		expenseOn(2, "2024-03-01", 100, "A"),
		expenseOn(1, "2024-02-29", 100, "A"),
	}
	ref := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []int64{1}, ids(ApplyWindow(records, WindowMonth, ref)))
}

func TestApplyWindowWeek(t *testing.T) {
	// 2024-01-17 is a Wednesday; the Sunday-based week is 14th..20th.
	ref := time.Date(2024, 1, 17, 9, 30, 0, 0, time.UTC)
	records := []Expense{
		expenseOn(6, "2024-01-21", 100, "A"),
		expenseOn(5, "2024-01-20", 100, "A"),
		expenseOn(4, "2024-01-17", 100, "B"),
		expenseOn(3, "2024-01-14", 100, "A"),
		expenseOn(2, "2024-01-13", 100, "A"),
		expenseOn(1, "2023-01-17", 100, "A"),
	}
	assert.Equal(t, []int64{5, 4, 3}, ids(ApplyWindow(records, WindowWeek, ref)))

	monday := Calendar{WeekStart: time.Monday}
	assert.Equal(t, []int64{6, 5, 4}, ids(monday.Apply(records, WindowWeek, ref)))
}

func TestCalendarBounds(t *testing.T) {
	tests := []struct {
		name     string
		cal      Calendar
		window   Window
		ref      time.Time
		from, to string
	}{
		{"week on sunday itself", DefaultCalendar, WindowWeek, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), "2024-01-14", "2024-01-20"},
		{"week on saturday", DefaultCalendar, WindowWeek, time.Date(2024, 1, 20, 23, 59, 0, 0, time.UTC), "2024-01-14", "2024-01-20"},
		{"week across month", DefaultCalendar, WindowWeek, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "2024-02-25", "2024-03-02"},
		{"monday week on sunday", Calendar{WeekStart: time.Monday}, WindowWeek, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), "2024-01-08", "2024-01-14"},
		{"leap february", DefaultCalendar, WindowMonth, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), "2024-02-01", "2024-02-29"},
		{"december", DefaultCalendar, WindowMonth, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), "2023-12-01", "2023-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, ok := tt.cal.Bounds(tt.window, tt.ref)
			require.True(t, ok)
			assert.Equal(t, tt.from, from.String())
			assert.Equal(t, tt.to, to.String())
		})
	}

	_, _, ok := DefaultCalendar.Bounds(WindowAll, time.Now())
	assert.False(t, ok)
}

func TestBoundsUseReferenceLocation(t *testing.T) {
	// 2024-01-31 23:30 in UTC-5 is already February in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	ref := time.Date(2024, 1, 31, 23, 30, 0, 0, loc)
	from, to, _ := DefaultCalendar.Bounds(WindowMonth, ref)
	assert.Equal(t, "2024-01-01", from.String())
	assert.Equal(t, "2024-01-31", to.String())
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("Monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d)

	d, err = ParseWeekday("sun")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, d)

	_, err = ParseWeekday("funday")
	assert.Error(t, err)
}
