package commands

import (
	"context"
	"errors"
	"fmt"

	"CardForge/internal/auth"
	"CardForge/internal/cli/api"
	"CardForge/internal/cli/bootstrap"
	"CardForge/internal/config"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Sign in and select the user's local database" }
func (loginCmd) Usage() string       { return "login [-server] <email> <password>" }

// Run signs in locally, or against the configured server with -server.
func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("login")
	remote := fs.Bool("server", false, "sign in against the server")
	rest, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return ErrUsage
	}
	email, password := rest[0], rest[1]

	if *remote {
		token, err := api.NewClient(cfg.ServerURL).Login(ctx, email, password)
		if errors.Is(err, api.ErrUnauthorized) {
			return errors.New("invalid email or password")
		}
		if err != nil {
			return err
		}
		sessions := bootstrap.DefaultSessions
		if err := sessions.Save(token); err != nil {
			return fmt.Errorf("saving auth: %w", err)
		}
		if err := sessions.SaveLogin(email); err != nil {
			return fmt.Errorf("saving login: %w", err)
		}
		fmt.Fprintf(Out, "Logged in to %s as %s\n", cfg.ServerURL, email)
		return nil
	}

	u, err := bootstrap.Auth(cfg).Login(email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return errors.New("invalid email or password")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Logged in as %s\n", u.Email)
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Forget the stored session" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := bootstrap.Auth(cfg).Logout(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

func init() {
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
}
