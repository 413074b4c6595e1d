package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marquinacarlos/portablogio-backend/internal/apperr"
	"github.com/marquinacarlos/portablogio-backend/internal/auth"
	"github.com/marquinacarlos/portablogio-backend/internal/models"
)

type seedOptions struct {
	email    string
	password string
	username string
	update   bool
}

// accountManager is the part of auth.Service seed-admin uses.
type accountManager interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	SetPassword(ctx context.Context, email, password string) error
}

func NewSeedAdminCommand() *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin user",
		Long: `Create the admin user that signs in to the dashboard.

Flags fall back to ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_USERNAME. The
username defaults to the local part of the email. If the user already
exists, nothing changes unless --update (or a true ADMIN_UPDATE) is given,
which resets the password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.applyEnv(); err != nil {
				return err
			}
			if opts.email == "" || opts.password == "" {
				return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required")
			}

			cfg, err := loadDatabaseConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			// Tokens are never issued here, so any non-empty secret works.
			tokens, err := auth.NewTokenManager("seed-admin")
			if err != nil {
				return err
			}
			return seedAdmin(ctx, auth.NewService(store, tokens), *opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "admin email (ADMIN_EMAIL)")
	cmd.Flags().StringVar(&opts.password, "password", "", "admin password (ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&opts.username, "username", "", "admin username (ADMIN_USERNAME)")
	cmd.Flags().BoolVar(&opts.update, "update", false, "reset the password if the user exists")
	return cmd
}

func (o *seedOptions) applyEnv() error {
	if o.email == "" {
		o.email = os.Getenv("ADMIN_EMAIL")
	}
	if o.password == "" {
		o.password = os.Getenv("ADMIN_PASSWORD")
	}
	if o.username == "" {
		o.username = os.Getenv("ADMIN_USERNAME")
	}
	if o.username == "" {
		o.username = defaultUsername(o.email)
	}
	if raw := os.Getenv("ADMIN_UPDATE"); !o.update && raw != "" {
		update, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("ADMIN_UPDATE: %w", err)
		}
		o.update = update
	}
	return nil
}

func defaultUsername(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "admin"
	}
	return local
}

func seedAdmin(ctx context.Context, accounts accountManager, opts seedOptions, out io.Writer) error {
	user, err := accounts.Register(ctx, opts.username, opts.email, opts.password)
	if err == nil {
		fmt.Fprintf(out, "user created: id=%d username=%s email=%s\n", user.ID, user.Username, user.Email)
		return nil
	}
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		return err
	}

	if !opts.update {
		fmt.Fprintf(out, "user %s already exists; rerun with --update to reset the password\n", opts.email)
		return nil
	}
	if err := accounts.SetPassword(ctx, opts.email, opts.password); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	fmt.Fprintln(out, "password updated")
	return nil
}
