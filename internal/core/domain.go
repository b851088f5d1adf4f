package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the on-disk and wire format of an expense date.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar day. The wrapped time is always midnight UTC so that
	// dates compare by day regardless of the location they were taken in.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID       int64
		Amount   Money
		Category string
		Note     string // empty means absent
		Date     Date
	}

	// Draft is the mutable part of an expense as submitted by a caller.
	Draft struct {
		Amount   Money
		Category string
		Note     string
	}
)

var (
	// ErrValidation is the parent of every input rejection.
	ErrValidation    = errors.New("validation rejected")
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrEmptyCategory = fmt.Errorf("%w: empty category", ErrValidation)
	ErrInvalidDate   = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidWindow = fmt.Errorf("%w: invalid window", ErrValidation)

	ErrNotFound           = errors.New("expense not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day t falls on in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > maxCents {
		return ErrInvalidAmount
	}
	return nil
}

// NewDraft parses and normalizes raw caller input. The returned draft is
// valid whenever err is nil.
func NewDraft(amount, category, note string) (Draft, error) {
	m, err := ParseAmount(amount)
	if err != nil {
		return Draft{}, err
	}
	d := Draft{Amount: m, Category: category, Note: note}.Normalize()
	if err := d.Validate(); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// Normalize trims category and note.
func (d Draft) Normalize() Draft {
	d.Category = strings.TrimSpace(d.Category)
	d.Note = strings.TrimSpace(d.Note)
	return d
}

func (d Draft) Validate() error {
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(d.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// HasNote reports whether the expense carries a note.
func (e Expense) HasNote() bool {
	return e.Note != ""
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	return Draft{Amount: e.Amount, Category: e.Category, Note: e.Note}.Validate()
}

// Apply returns a copy of e carrying the draft's mutable fields.
func (e Expense) Apply(d Draft) Expense {
	e.Amount = d.Amount
	e.Category = d.Category
	e.Note = d.Note
	return e
}
