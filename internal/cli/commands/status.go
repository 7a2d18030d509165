package commands

import (
	"context"
	"fmt"
	"time"

	"CardForge/internal/cli/api"
	"CardForge/internal/cli/bootstrap"
	"CardForge/internal/config"
)

// serverProbeTimeout bounds the server check of status.
const serverProbeTimeout = 3 * time.Second

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show the active login, database and server state" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	login, token, err := bootstrap.Auth(cfg).CurrentUser()
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Logged in as: %s\n", login)
	if cfg.DatabaseDSN != "" {
		fmt.Fprintln(Out, "Database:     DATABASE_URI")
	} else {
		fmt.Fprintf(Out, "Database:     %s\n", cfg.StoreDSN(login))
	}

	err = withApp(cfg, func(app *bootstrap.App) error {
		decks, err := app.Decks.List(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Decks:        %d\n", len(decks))
		return nil
	})
	if err != nil {
		return err
	}

	// the server is optional; an unreachable server is reported, not failed on
	probeCtx, cancel := context.WithTimeout(ctx, serverProbeTimeout)
	defer cancel()
	if u, err := api.NewClient(cfg.ServerURL).Me(probeCtx, token); err != nil {
		fmt.Fprintf(Out, "Server:       %s unavailable (%v)\n", cfg.ServerURL, err)
	} else {
		fmt.Fprintf(Out, "Server:       %s signed in as %s\n", cfg.ServerURL, u.Email)
	}
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
