package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marquinacarlos/portablogio-backend/internal/auth"
	"github.com/marquinacarlos/portablogio-backend/internal/config"
	"github.com/marquinacarlos/portablogio-backend/internal/contact"
	"github.com/marquinacarlos/portablogio-backend/internal/handlers"
	"github.com/marquinacarlos/portablogio-backend/internal/logging"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	skipMigrate bool
}

func NewServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.skipMigrate, "skip-migrate", false, "do not create missing tables on startup")
	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	initLogging(cfg)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if !opts.skipMigrate {
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}
	relay := contact.NewRelay(contact.NewResendMailer(cfg.Mail), cfg.Mail.From, cfg.Mail.To)

	router := handlers.NewRouter(cfg, handlers.Dependencies{
		Posts:    store,
		Projects: store,
		Services: store,
		Auth:     auth.NewService(store, tokens),
		Tokens:   tokens,
		Contact:  relay,
		DB:       store,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
