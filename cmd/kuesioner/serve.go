package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soaringjerry/kuesioner/internal/api"
	"github.com/soaringjerry/kuesioner/internal/middleware"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve queries and the dashboard summary over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Addr
			}
			return a.serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func (a *app) serve(ctx context.Context, addr string) error {
	opts := api.Options{
		Source:   a.source(),
		Recorder: a.recorder(),
		Auth:     middleware.NewAuthenticator(a.cfg.JWTSecret, a.cfg.AdminPasswordHash, a.cfg.TokenTTL),
		Log:      a.logger,
	}
	if a.store != nil {
		opts.History = a.store
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("kuesioner listening",
			zap.String("addr", addr),
			zap.String("data", a.cfg.DataPath),
			zap.Bool("auth", opts.Auth.Enabled()),
			zap.Bool("history", a.store != nil))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
