package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"expensetracker/internal/core"
	apphttp "expensetracker/internal/http"
)

// describe turns ledger errors into messages fit for a terminal. The
// sentinel stays in the chain.
func describe(err error) error {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return fmt.Errorf("amount must be a positive number: %w", err)
	case errors.Is(err, core.ErrEmptyCategory):
		return fmt.Errorf("category is required: %w", err)
	case errors.Is(err, core.ErrInvalidWindow):
		return fmt.Errorf("window must be one of all, week, month: %w", err)
	case errors.Is(err, core.ErrNotFound):
		return fmt.Errorf("no such expense: %w", err)
	}
	return err
}

func (a *app) printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(a.out, string(out))
	return nil
}

func (a *app) printExpense(verb string, e core.Expense) error {
	if a.jsonOutput {
		return a.printJSON(apphttp.NewExpenseJSON(e))
	}
	fmt.Fprintf(a.out, "%s expense #%d: %s %s on %s", verb, e.ID, e.Amount, e.Category, e.Date)
	if e.HasNote() {
		fmt.Fprintf(a.out, " (%s)", e.Note)
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *app) printList(v core.View) error {
	if v.Count == 0 {
		fmt.Fprintf(a.out, "No expenses (%s)\n", v.Window.Label())
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tCATEGORY\tNOTE")
	for _, e := range v.Expenses {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Amount, e.Category, e.Note)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\n%s: %d expenses, total %s\n", v.Window.Label(), v.Count, v.Total)
	return nil
}

func (a *app) printSummary(v core.View) error {
	fmt.Fprintf(a.out, "%s: %d expenses, total %s\n", v.Window.Label(), v.Count, v.Total)
	if len(v.ByCategory) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, c := range v.ByCategory {
		fmt.Fprintf(tw, "  %s\t%s\n", c.Name, c.Amount)
	}
	return tw.Flush()
}
