package core

import (
	"fmt"
	"strings"
	"time"
)

// Window selects the period an expense list is narrowed to.
type Window string

const (
	WindowAll   Window = "all"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// ParseWindow accepts "all", "week" and "month" (case-insensitive) plus the
// long forms "this-week" and "this-month". Empty input means WindowAll.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return WindowAll, nil
	case "week", "this-week", "thisweek":
		return WindowWeek, nil
	case "month", "this-month", "thismonth":
		return WindowMonth, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWindow, s)
}

func (w Window) IsValid() bool {
	switch w {
	case WindowAll, WindowWeek, WindowMonth:
		return true
	}
	return false
}

// Label is the human-readable name of the window.
func (w Window) Label() string {
	switch w {
	case WindowWeek:
		return "This Week"
	case WindowMonth:
		return "This Month"
	default:
		return "All"
	}
}

// Calendar computes window bounds. WeekStart is the first day of a week.
type Calendar struct {
	WeekStart time.Weekday
}

// DefaultCalendar starts weeks on Sunday.
var DefaultCalendar = Calendar{WeekStart: time.Sunday}

// Bounds returns the inclusive first and last day of w around ref. Both
// dates are taken in ref's location. ok is false for WindowAll.
func (c Calendar) Bounds(w Window, ref time.Time) (from, to Date, ok bool) {
	today := DateOf(ref)
	switch w {
	case WindowWeek:
		offset := (int(ref.Weekday()) - int(c.WeekStart) + 7) % 7
		from = today.AddDays(-offset)
		return from, from.AddDays(6), true
	case WindowMonth:
		from = NewDate(today.Year(), int(today.Month()), 1)
		return from, Date{Time: from.AddDate(0, 1, -1)}, true
	}
	return Date{}, Date{}, false
}

// Apply keeps the records whose date falls inside w. Input order is preserved.
func (c Calendar) Apply(records []Expense, w Window, ref time.Time) []Expense {
	from, to, ok := c.Bounds(w, ref)
	if !ok {
		return records
	}
	out := make([]Expense, 0, len(records))
	for _, e := range records {
		if e.Date.Before(from.Time) || e.Date.After(to.Time) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ApplyWindow filters records with the default calendar.
func ApplyWindow(records []Expense, w Window, ref time.Time) []Expense {
	return DefaultCalendar.Apply(records, w, ref)
}

// ParseWeekday maps a weekday name ("sunday", "mon", ...) to time.Weekday.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
