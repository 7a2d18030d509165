package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"time"

	"CardForge/internal/cli/bootstrap"
	"CardForge/internal/config"
	"CardForge/internal/model"
)

// withApp opens the active user's database for the duration of fn.
func withApp(cfg *config.Config, fn func(app *bootstrap.App) error) error {
	app, done, err := bootstrap.OpenApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = done() }()
	return fn(app)
}

// newFlagSet returns a silent flag set; parse errors turn into ErrUsage.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, ErrUsage
	}
	return fs.Args(), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// cardSummary is the one-line description used in listings.
func cardSummary(c model.Card) string {
	var detail string
	switch v := c.Content.(type) {
	case model.TextContent:
		detail = fmt.Sprintf("%d QA", len(v.TextQAs))
	case model.ImageContent:
		detail = fmt.Sprintf("%d masks", len(v.Masks))
	case model.CompositionContent:
		detail = fmt.Sprintf("%d phrases", len(v.ExtractedPhrases))
		if v.TranslatedEnglish == "" {
			detail += ", untranslated"
		}
	case model.MixedContent:
		detail = fmt.Sprintf("%d masks, %d QA", len(v.Masks), len(v.TextQAs))
	}
	del := ""
	if c.IsDeleted {
		del = " (deleted)"
	}
	return fmt.Sprintf("- %s  %-12s %s  [%s]  updated %s%s",
		c.ID, c.Type(), c.Name, detail, c.UpdatedAt.Local().Format(time.DateTime), del)
}

func printMasks(masks []model.Mask) {
	for _, m := range masks {
		group := ""
		if m.GroupID != "" {
			group = "  group=" + m.GroupID
		}
		q := ""
		if !m.IsQuestion {
			q = "  (answer)"
		}
		fmt.Fprintf(Out, "  mask %s  %q  %.0fx%.0f at (%.0f,%.0f)%s%s\n",
			m.ID, m.Label, m.Rect.Width, m.Rect.Height, m.Rect.X, m.Rect.Y, group, q)
	}
}
