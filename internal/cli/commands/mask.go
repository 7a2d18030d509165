package commands

import (
	"context"
	"fmt"
	"strconv"

	"CardForge/internal/cli/bootstrap"
	"CardForge/internal/config"
	"CardForge/internal/model"
)

type maskAddCmd struct{}

func (maskAddCmd) Name() string        { return "mask-add" }
func (maskAddCmd) Description() string { return "Draw a question mask on an image card (pixels)" }
func (maskAddCmd) Usage() string {
	return "mask-add [-label <text>] <card-id> <x> <y> <width> <height>"
}

func (maskAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("mask-add")
	label := fs.String("label", "", "mask label")
	rest, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 5 {
		return ErrUsage
	}
	var nums [4]float64
	for i, s := range rest[1:] {
		if nums[i], err = strconv.ParseFloat(s, 64); err != nil {
			return ErrUsage
		}
	}
	rect := model.Rect{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}
	return withApp(cfg, func(app *bootstrap.App) error {
		c, err := app.Cards.AddMask(ctx, rest[0], rect, *label)
		if err != nil {
			return err
		}
		masks := c.Content.(model.ImageContent).Masks
		fmt.Fprintln(Out, "Masks:")
		printMasks(masks)
		return nil
	})
}

type maskLinkCmd struct{}

func (maskLinkCmd) Name() string        { return "mask-link" }
func (maskLinkCmd) Description() string { return "Group masks so they are quizzed together" }
func (maskLinkCmd) Usage() string       { return "mask-link <card-id> <mask-id> <mask-id>..." }

func (maskLinkCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		c, err := app.Cards.LinkMasks(ctx, args[0], args[1:])
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, "Masks:")
		printMasks(c.Content.(model.ImageContent).Masks)
		return nil
	})
}

type maskUnlinkCmd struct{}

func (maskUnlinkCmd) Name() string        { return "mask-unlink" }
func (maskUnlinkCmd) Description() string { return "Dissolve a mask group" }
func (maskUnlinkCmd) Usage() string       { return "mask-unlink <card-id> <group-id>" }

func (maskUnlinkCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		c, err := app.Cards.UnlinkGroup(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, "Masks:")
		printMasks(c.Content.(model.ImageContent).Masks)
		return nil
	})
}

func init() {
	RegisterCmd(maskAddCmd{})
	RegisterCmd(maskLinkCmd{})
	RegisterCmd(maskUnlinkCmd{})
}
