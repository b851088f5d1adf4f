package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"expensetracker/internal/cli"
	apphttp "expensetracker/internal/http"
	applog "expensetracker/internal/log"
)

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "serve",
		Short:       "Run the HTTP JSON API",
		Long:        `Serve runs the HTTP API on PORT until SIGINT or SIGTERM.`,
		Args:        cobra.NoArgs,
		Annotations: ledgerAnnotation(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()
			return a.serve(ctx)
		},
	}
}

// serve runs the server until ctx is cancelled or the listener fails, then
// shuts it down within the configured timeout.
func (a *app) serve(ctx context.Context) error {
	srv := apphttp.NewServer(":"+a.cfg.Port, a.ledger, apphttp.Options{
		RateLimitPerMinute: a.cfg.RateLimitPerMinute,
		Backend:            a.cfg.DataBackend,
		Logger:             a.logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.InfoContext(gctx, "Starting expensetracker server",
			"port", a.cfg.Port,
			applog.FieldBackend, a.cfg.DataBackend,
			applog.FieldOperation, applog.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on port %s: %w", a.cfg.Port, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down server", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("Server stopped with error", applog.FieldError, err)
		return err
	}
	a.logger.Info("Server stopped gracefully")
	return nil
}
