package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"CardForge/internal/cli/bootstrap"
	"CardForge/internal/config"
	"CardForge/internal/model"
	"CardForge/internal/service"
)

type cardsCmd struct{}

func (cardsCmd) Name() string        { return "cards" }
func (cardsCmd) Description() string { return "List the cards of a deck" }
func (cardsCmd) Usage() string {
	return "cards [-sort updatedAt|createdAt|name] [-deleted] <deck-id>"
}

func (cardsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("cards")
	sortBy := fs.String("sort", "", "sort key")
	deleted := fs.Bool("deleted", false, "list deleted cards")
	rest, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return ErrUsage
	}
	key, err := service.ParseSortKey(*sortBy)
	if err != nil {
		return err
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		var cards []model.Card
		if *deleted {
			cards, err = app.Cards.ListDeleted(ctx, rest[0])
		} else {
			cards, err = app.Cards.List(ctx, rest[0], key)
		}
		if err != nil {
			return err
		}
		if len(cards) == 0 {
			fmt.Fprintln(Out, "No cards")
			return nil
		}
		for _, c := range cards {
			fmt.Fprintln(Out, cardSummary(c))
		}
		fmt.Fprintf(Out, "Total: %d\n", len(cards))
		return nil
	})
}

type cardShowCmd struct{}

func (cardShowCmd) Name() string        { return "card-show" }
func (cardShowCmd) Description() string { return "Show one card" }
func (cardShowCmd) Usage() string       { return "card-show [-json] <card-id>" }

func (cardShowCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("card-show")
	asJSON := fs.Bool("json", false, "print the card as JSON")
	rest, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		c, err := app.Cards.Get(ctx, rest[0])
		if err != nil {
			return err
		}
		if *asJSON {
			return printJSON(c)
		}
		printCard(*c)
		return nil
	})
}

func printCard(c model.Card) {
	fmt.Fprintf(Out, "id:      %s\n", c.ID)
	fmt.Fprintf(Out, "deck:    %s\n", c.DeckIDValue())
	fmt.Fprintf(Out, "name:    %s\n", c.Name)
	fmt.Fprintf(Out, "type:    %s\n", c.Type())
	if len(c.Tags) > 0 {
		fmt.Fprintf(Out, "tags:    %s\n", strings.Join(c.Tags, ", "))
	}
	if c.Memo != "" {
		fmt.Fprintf(Out, "memo:    %s\n", c.Memo)
	}
	if c.IsDeleted {
		fmt.Fprintln(Out, "deleted: yes")
	}
	switch v := c.Content.(type) {
	case model.TextContent:
		printQAs(v.TextQAs)
	case model.ImageContent:
		fmt.Fprintf(Out, "image:   %s\n", v.ImageID)
		printMasks(v.Masks)
	case model.CompositionContent:
		fmt.Fprintf(Out, "source:      %s\n", v.SourceJapanese)
		fmt.Fprintf(Out, "translation: %s\n", v.TranslatedEnglish)
		printQAs(v.ExtractedPhrases)
	case model.MixedContent:
		fmt.Fprintf(Out, "image:   %s\n", v.ImageID)
		printMasks(v.Masks)
		printQAs(v.TextQAs)
	}
}

func printQAs(qas []model.TextQA) {
	for i, qa := range qas {
		fmt.Fprintf(Out, "  %d. %s -> %s\n", i+1, qa.Question, qa.Answer)
	}
}

type cardAddTextCmd struct{}

func (cardAddTextCmd) Name() string        { return "card-add-text" }
func (cardAddTextCmd) Description() string { return "Add a text card with one or more QA pairs" }
func (cardAddTextCmd) Usage() string {
	return "card-add-text <deck-id> <name> <question> <answer> [<question> <answer>...]"
}

func (cardAddTextCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 4 || len(args)%2 != 0 {
		return ErrUsage
	}
	qas := make([]model.TextQA, 0, (len(args)-2)/2)
	for i := 2; i < len(args); i += 2 {
		qas = append(qas, model.TextQA{Question: args[i], Answer: args[i+1]})
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		c, err := app.Cards.CreateText(ctx, args[0], args[1], qas)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Created text card %s with %d QA\n", c.ID, len(qas))
		return nil
	})
}

type cardAddImageCmd struct{}

func (cardAddImageCmd) Name() string        { return "card-add-image" }
func (cardAddImageCmd) Description() string { return "Add one image card per file" }
func (cardAddImageCmd) Usage() string       { return "card-add-image <deck-id> <file>..." }

func (cardAddImageCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	uploads := make([]service.ImageUpload, 0, len(args)-1)
	for _, path := range args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		uploads = append(uploads, service.ImageUpload{FileName: filepath.Base(path), Data: data})
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		cards, err := app.Cards.AddImages(ctx, args[0], uploads)
		if err != nil {
			return err
		}
		for _, c := range cards {
			fmt.Fprintf(Out, "Created image card %s  %s\n", c.ID, c.Name)
		}
		return nil
	})
}

type cardAddCompositionCmd struct{}

func (cardAddCompositionCmd) Name() string { return "card-add-composition" }
func (cardAddCompositionCmd) Description() string {
	return "Add a composition card; -translate fills the translation"
}
func (cardAddCompositionCmd) Usage() string {
	return "card-add-composition [-translate] <deck-id> <name> <source> [<translation>]"
}

func (cardAddCompositionCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("card-add-composition")
	translate := fs.Bool("translate", false, "translate the source text")
	rest, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(rest) < 3 || len(rest) > 4 || (*translate && len(rest) == 4) {
		return ErrUsage
	}
	translated := ""
	if len(rest) == 4 {
		translated = rest[3]
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		c, err := app.Cards.CreateComposition(ctx, rest[0], rest[1], rest[2], translated)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Created composition card %s\n", c.ID)
		if !*translate {
			return nil
		}
		c, err = app.Cards.Translate(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("card saved, translation failed: %w", err)
		}
		fmt.Fprintf(Out, "Translation: %s\n", c.Content.(model.CompositionContent).TranslatedEnglish)
		return nil
	})
}

type cardDeleteCmd struct{}

func (cardDeleteCmd) Name() string        { return "card-delete" }
func (cardDeleteCmd) Description() string { return "Move a card to the deck's trash" }
func (cardDeleteCmd) Usage() string       { return "card-delete <card-id>" }

func (cardDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		if err := app.Cards.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Deleted %s\n", args[0])
		return nil
	})
}

type cardRestoreCmd struct{}

func (cardRestoreCmd) Name() string        { return "card-restore" }
func (cardRestoreCmd) Description() string { return "Restore a deleted card" }
func (cardRestoreCmd) Usage() string       { return "card-restore <card-id>" }

func (cardRestoreCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		if err := app.Cards.Restore(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Restored %s\n", args[0])
		return nil
	})
}

type cardMoveCmd struct{}

func (cardMoveCmd) Name() string        { return "card-move" }
func (cardMoveCmd) Description() string { return "Move cards to another deck" }
func (cardMoveCmd) Usage() string       { return "card-move <deck-id> <card-id>..." }

func (cardMoveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		if err := app.Cards.Move(ctx, args[1:], args[0]); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Moved %d card(s) to %s\n", len(args)-1, args[0])
		return nil
	})
}

func init() {
	RegisterCmd(cardsCmd{})
	RegisterCmd(cardShowCmd{})
	RegisterCmd(cardAddTextCmd{})
	RegisterCmd(cardAddImageCmd{})
	RegisterCmd(cardAddCompositionCmd{})
	RegisterCmd(cardDeleteCmd{})
	RegisterCmd(cardRestoreCmd{})
	RegisterCmd(cardMoveCmd{})
}
