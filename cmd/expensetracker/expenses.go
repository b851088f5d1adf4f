package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"expensetracker/internal/core"
	apphttp "expensetracker/internal/http"
)

func (a *app) newAddCmd() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "add <amount> <category>",
		Short: "Record an expense dated today",
		Long: `Add records a new expense dated today.

The amount accepts a dot or a comma as decimal separator and is rounded to
cents. The category is trimmed and must not be empty.

Example:
  expensetracker add 12.50 Food
  expensetracker add 3,20 Coffee --note "with Anna"`,
		Args:        cobra.ExactArgs(2),
		Annotations: ledgerAnnotation(),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.ledger.AddExpense(cmd.Context(), args[0], args[1], note)
			if err != nil {
				return describe(err)
			}
			return a.printExpense("Added", e)
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "optional free-text note")
	return cmd
}

func (a *app) newEditCmd() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "edit <id> <amount> <category>",
		Short: "Change amount, category and note of an expense",
		Long: `Edit replaces the amount, category and note of an existing expense.
The date is kept. Omitting --note clears the note.

Example:
  expensetracker edit 3 14.00 Dining --note "team lunch"`,
		Args:        cobra.ExactArgs(3),
		Annotations: ledgerAnnotation(),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := a.ledger.UpdateExpense(cmd.Context(), id, args[1], args[2], note)
			if err != nil {
				return describe(err)
			}
			return a.printExpense("Updated", e)
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "optional free-text note")
	return cmd
}

func (a *app) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "rm <id>",
		Aliases:     []string{"delete"},
		Short:       "Remove an expense",
		Long:        `Rm deletes an expense by id. Removing an unknown id is not an error.`,
		Args:        cobra.ExactArgs(1),
		Annotations: ledgerAnnotation(),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.ledger.RemoveExpense(cmd.Context(), id); err != nil {
				return describe(err)
			}
			if a.jsonOutput {
				return a.printJSON(map[string]int64{"deleted": id})
			}
			fmt.Fprintf(a.out, "Removed expense #%d\n", id)
			return nil
		},
	}
}

func (a *app) newListCmd() *cobra.Command {
	var window string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		Long: `List prints the expenses of a window (all, week or month), newest first,
followed by their total.`,
		Args:        cobra.NoArgs,
		Annotations: ledgerAnnotation(),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.view(cmd, window)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(apphttp.NewViewJSON(view))
			}
			return a.printList(view)
		},
	}
	cmd.Flags().StringVarP(&window, "window", "w", "all", "window: all, week or month")
	return cmd
}

func (a *app) newSummaryCmd() *cobra.Command {
	var window string
	cmd := &cobra.Command{
		Use:         "summary",
		Short:       "Show the total and per-category totals of a window",
		Args:        cobra.NoArgs,
		Annotations: ledgerAnnotation(),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.view(cmd, window)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(apphttp.NewViewJSON(view))
			}
			return a.printSummary(view)
		},
	}
	cmd.Flags().StringVarP(&window, "window", "w", "month", "window: all, week or month")
	return cmd
}

func (a *app) view(cmd *cobra.Command, raw string) (core.View, error) {
	w, err := core.ParseWindow(raw)
	if err != nil {
		return core.View{}, describe(err)
	}
	view, err := a.ledger.View(cmd.Context(), w)
	if err != nil {
		return core.View{}, describe(err)
	}
	return view, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid expense id %q: must be a positive integer", raw)
	}
	return id, nil
}
