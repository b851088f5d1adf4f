package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	applog "expensetracker/internal/log"
	"expensetracker/internal/services"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// needsLedger marks commands that open the ledger store before running.
const needsLedger = "needs-ledger"

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	jsonOutput bool

	cfg    *config.Config
	logger *applog.Logger
	ledger *services.LedgerService

	out    io.Writer
	errOut io.Writer
}

func newApp(out, errOut io.Writer) *app {
	return &app{v: config.NewViper(), out: out, errOut: errOut}
}

// execute runs the command line args and releases the ledger afterwards,
// also when the command failed.
func (a *app) execute(ctx context.Context, args []string) error {
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.teardown())
}

func (a *app) rootCmd() *cobra.Command {

	root := &cobra.Command{
		Use:   "expensetracker",
		Short: "Personal expense tracker",
		Long: `expensetracker records personal expenses (amount, category, optional note)
in a local SQLite ledger and reports totals for all time, the current week
or the current month.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: ./expensetracker.yaml if present)")
	flags.String("db", "", "SQLite database path")
	flags.String("backend", "", "data backend: sqlite or memory")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&a.jsonOutput, "json", false, "output as JSON")

	_ = a.v.BindPFlag(config.KeySQLiteDBPath, flags.Lookup("db"))
	_ = a.v.BindPFlag(config.KeyDataBackend, flags.Lookup("backend"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(
		a.newServeCmd(),
		a.newAddCmd(),
		a.newEditCmd(),
		a.newRemoveCmd(),
		a.newListCmd(),
		a.newSummaryCmd(),
		a.newResetCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads .env and configuration, builds the logger and, for commands
// that need it, opens the ledger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Logs go to stderr so command output stays clean; serve logs to stdout.
	logOut := a.errOut
	if cmd.Name() == "serve" {
		logOut = a.out
	}
	a.logger, err = cli.SetupLogger(cfg.LogLevel, logOut)
	if err != nil {
		return err
	}

	if cmd.Annotations[needsLedger] != "true" {
		return nil
	}
	a.ledger, err = cli.OpenLedger(cmd.Context(), cfg, a.logger)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	return nil
}

func (a *app) teardown() error {
	if a.ledger == nil {
		return nil
	}
	err := a.ledger.Close()
	a.ledger = nil
	return err
}

func ledgerAnnotation() map[string]string {
	return map[string]string{needsLedger: "true"}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "expensetracker %s\n", version)
		},
	}
}
