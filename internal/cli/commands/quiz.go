package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"CardForge/internal/cli/bootstrap"
	"CardForge/internal/config"
	"CardForge/internal/quiz"
	"CardForge/internal/render"
)

type quizCmd struct{}

func (quizCmd) Name() string { return "quiz" }
func (quizCmd) Description() string {
	return "Study a deck interactively; -images writes masked PNGs for image items"
}
func (quizCmd) Usage() string { return "quiz [-no-shuffle] [-images <dir>] <deck-id>" }

func (quizCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("quiz")
	noShuffle := fs.Bool("no-shuffle", false, "keep deck order")
	imageDir := fs.String("images", "", "directory for rendered image items")
	rest, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return ErrUsage
	}
	var opts []quiz.Option
	if *noShuffle {
		opts = append(opts, quiz.WithoutShuffle())
	}
	if *imageDir != "" {
		if err := os.MkdirAll(*imageDir, 0o700); err != nil {
			return err
		}
	}

	return withApp(cfg, func(app *bootstrap.App) error {
		s, err := app.Cards.StartQuiz(ctx, rest[0], opts...)
		if err != nil {
			return err
		}
		p := &quizPrompter{app: app, in: bufio.NewScanner(In), imageDir: *imageDir}
		return p.run(ctx, s)
	})
}

type quizPrompter struct {
	app      *bootstrap.App
	in       *bufio.Scanner
	imageDir string
}

// readLine returns the next trimmed input line; false on end of input.
func (p *quizPrompter) readLine() (string, bool) {
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

func (p *quizPrompter) run(ctx context.Context, s *quiz.Session) error {
	if s.Finished() {
		fmt.Fprintln(Out, "Nothing to study in this deck")
		return nil
	}

	for {
		if err := p.round(ctx, s); err != nil {
			return err
		}
		res, ok := s.Result()
		if !ok {
			st := s.State()
			fmt.Fprintf(Out, "\nStopped after %d of %d, score %d\n", st.Index, st.Total, st.Score)
			return nil
		}
		fmt.Fprintf(Out, "\nScore: %d/%d (%d%%)\n", res.Score, res.Total, res.Percent())
		if !p.askAgain() {
			return nil
		}
		if err := s.Restart(); err != nil {
			return err
		}
	}
}

// round presents items until the session finishes or the user quits.
func (p *quizPrompter) round(ctx context.Context, s *quiz.Session) error {
	for !s.Finished() {
		if err := ctx.Err(); err != nil {
			return err
		}
		it, _ := s.Current()
		st := s.State()
		fmt.Fprintf(Out, "\n[%d/%d] %s\n", st.Index+1, st.Total, it.Card.Name)
		if err := p.present(ctx, st.Index, it, false); err != nil {
			return err
		}

		fmt.Fprint(Out, "Press Enter to reveal (q to quit) ")
		line, ok := p.readLine()
		if !ok || line == "q" {
			return nil
		}
		if err := s.Reveal(); err != nil {
			return err
		}
		if err := p.present(ctx, st.Index, it, true); err != nil {
			return err
		}

		correct, quit := p.askGrade()
		if quit {
			return nil
		}
		if err := s.Grade(correct); err != nil {
			return err
		}
	}
	return nil
}

func (p *quizPrompter) askAgain() bool {
	fmt.Fprint(Out, "Try again? [y/N] ")
	line, ok := p.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

func (p *quizPrompter) askGrade() (correct, quit bool) {
	for {
		fmt.Fprint(Out, "Correct? [y/n/q] ")
		line, ok := p.readLine()
		if !ok {
			return false, true
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, false
		case "n", "no":
			return false, false
		case "q":
			return false, true
		}
	}
}

// present prints the question side, or the answer side once revealed.
func (p *quizPrompter) present(ctx context.Context, index int, it quiz.Item, revealed bool) error {
	if it.Kind != quiz.KindImage {
		if revealed {
			fmt.Fprintf(Out, "A: %s\n", it.Answer())
		} else {
			fmt.Fprintf(Out, "Q: %s\n", it.Prompt())
		}
		return nil
	}

	labels := make([]string, 0, len(it.Masks))
	for _, m := range it.Masks {
		labels = append(labels, m.Label)
	}
	if revealed {
		fmt.Fprintf(Out, "A: %s\n", strings.Join(labels, ", "))
	} else {
		fmt.Fprintf(Out, "Q: what is under %d mask(s)?\n", len(it.Masks))
	}
	if p.imageDir == "" {
		return nil
	}
	path, err := p.writeImage(ctx, index, it, revealed)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "   image: %s\n", path)
	return nil
}

func (p *quizPrompter) writeImage(ctx context.Context, index int, it quiz.Item, revealed bool) (string, error) {
	blob, err := p.app.Cards.Image(ctx, it.Card.ID)
	if err != nil {
		return "", err
	}
	png, err := render.MaskedPNG(blob.Data, it.FocusMasks(), revealed)
	if err != nil {
		return "", err
	}
	side := "question"
	if revealed {
		side = "answer"
	}
	path := filepath.Join(p.imageDir, fmt.Sprintf("%03d-%s.png", index+1, side))
	if err := os.WriteFile(path, png, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func init() { RegisterCmd(quizCmd{}) }
