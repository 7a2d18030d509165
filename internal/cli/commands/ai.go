package commands

import (
	"context"
	"fmt"

	"CardForge/internal/cli/bootstrap"
	"CardForge/internal/config"
	"CardForge/internal/model"
)

type translateCmd struct{}

func (translateCmd) Name() string        { return "translate" }
func (translateCmd) Description() string { return "Translate the source text of a composition card" }
func (translateCmd) Usage() string       { return "translate <card-id>" }

func (translateCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		c, err := app.Cards.Translate(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, c.Content.(model.CompositionContent).TranslatedEnglish)
		return nil
	})
}

type extractCmd struct{}

func (extractCmd) Name() string        { return "extract" }
func (extractCmd) Description() string { return "Extract study phrases from a translated composition card" }
func (extractCmd) Usage() string       { return "extract <card-id>" }

func (extractCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		c, err := app.Cards.ExtractPhrases(ctx, args[0])
		if err != nil {
			return err
		}
		phrases := c.Content.(model.CompositionContent).ExtractedPhrases
		printQAs(phrases)
		fmt.Fprintf(Out, "Extracted: %d\n", len(phrases))
		return nil
	})
}

func init() {
	RegisterCmd(translateCmd{})
	RegisterCmd(extractCmd{})
}
