package commands

import (
	"context"
	"fmt"
	"os"

	"CardForge/internal/bundle"
	"CardForge/internal/cli/bootstrap"
	"CardForge/internal/config"
)

type exportCmd struct{}

func (exportCmd) Name() string        { return "export" }
func (exportCmd) Description() string { return "Export a deck with its cards and images to a JSON file" }
func (exportCmd) Usage() string       { return "export <deck-id> [<file>|-]" }

func (exportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		b, err := app.Codec.Export(ctx, args[0])
		if err != nil {
			return err
		}
		path := bundle.ExportFileName(b.Deck)
		if len(args) == 2 {
			path = args[1]
		}
		if path == "-" {
			return bundle.Encode(Out, b)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return err
		}
		if err := bundle.Encode(f, b); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Exported %d card(s), %d image(s) to %s\n", len(b.Cards), len(b.Images), path)
		return nil
	})
}

type importCmd struct{}

func (importCmd) Name() string        { return "import" }
func (importCmd) Description() string { return "Import a deck file as a new deck" }
func (importCmd) Usage() string       { return "import <file>" }

func (importCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	return withApp(cfg, func(app *bootstrap.App) error {
		id, err := app.Codec.ImportFrom(ctx, f)
		if err != nil {
			return err
		}
		d, err := app.Decks.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Imported deck %s  %s\n", d.ID, d.Name)
		return nil
	})
}

func init() {
	RegisterCmd(exportCmd{})
	RegisterCmd(importCmd{})
}
