package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"expensetracker/internal/backend"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
)

func (a *app) newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored expense and recreate the schema",
		Long: `Reset migrates the SQLite schema down and back up, destroying all stored
expenses. It refuses to run without --yes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset destroys all expenses; pass --yes to confirm")
			}
			if backend.BackendType(a.cfg.DataBackend) != backend.SQLiteBackend {
				return fmt.Errorf("reset needs the sqlite backend, got %q", a.cfg.DataBackend)
			}
			if err := storage.ResetSchema(a.cfg.SQLiteDBPath); err != nil {
				return fmt.Errorf("reset schema: %w", err)
			}
			version, _, err := storage.SchemaVersion(a.cfg.SQLiteDBPath)
			if err != nil {
				return fmt.Errorf("read schema version: %w", err)
			}

			a.logger.WarnContext(cmd.Context(), "Ledger reset",
				applog.FieldOperation, applog.OpReset,
				applog.FieldDBPath, a.cfg.SQLiteDBPath,
				applog.FieldSchemaVersion, version)
			fmt.Fprintf(a.out, "Ledger at %s reset to schema version %d\n", a.cfg.SQLiteDBPath, version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm destroying all expenses")
	return cmd
}
