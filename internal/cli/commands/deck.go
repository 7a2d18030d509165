package commands

import (
	"context"
	"fmt"
	"time"

	"CardForge/internal/cli/bootstrap"
	"CardForge/internal/config"
)

type decksCmd struct{}

func (decksCmd) Name() string        { return "decks" }
func (decksCmd) Description() string { return "List decks, most recently updated first" }
func (decksCmd) Usage() string       { return "decks" }

func (decksCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		decks, err := app.Decks.List(ctx)
		if err != nil {
			return err
		}
		if len(decks) == 0 {
			fmt.Fprintln(Out, "No decks")
			return nil
		}
		for _, d := range decks {
			fmt.Fprintf(Out, "- %s  %-12s %s  updated %s\n", d.ID, d.Type, d.Name, d.UpdatedAt.Local().Format(time.DateTime))
		}
		fmt.Fprintf(Out, "Total: %d\n", len(decks))
		return nil
	})
}

type deckCreateCmd struct{}

func (deckCreateCmd) Name() string        { return "deck-create" }
func (deckCreateCmd) Description() string { return "Create a deck" }
func (deckCreateCmd) Usage() string       { return "deck-create <name> <image|text|mixed|composition>" }

func (deckCreateCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		d, err := app.Decks.Create(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, "Created:")
		fmt.Fprintf(Out, "  id:   %s\n", d.ID)
		fmt.Fprintf(Out, "  name: %s\n", d.Name)
		fmt.Fprintf(Out, "  type: %s\n", d.Type)
		return nil
	})
}

type deckRenameCmd struct{}

func (deckRenameCmd) Name() string        { return "deck-rename" }
func (deckRenameCmd) Description() string { return "Rename a deck" }
func (deckRenameCmd) Usage() string       { return "deck-rename <deck-id> <name>" }

func (deckRenameCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		d, err := app.Decks.Rename(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Renamed %s to %q\n", d.ID, d.Name)
		return nil
	})
}

func init() {
	RegisterCmd(decksCmd{})
	RegisterCmd(deckCreateCmd{})
	RegisterCmd(deckRenameCmd{})
}
