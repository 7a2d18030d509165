package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"CardForge/internal/config"
)

// ExitInterrupted: код выхода, если команду прервали сигналом.
const ExitInterrupted = 130

// Dispatch is the single entry point to execute CLI commands.
// It prints help and usage messages and returns a process exit code:
// 0 on success, 1 on a command error, 2 on bad usage, 130 when ctx was cancelled.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	// глобальный --help в любом месте печатает список команд
	for _, a := range os.Args[1:] {
		if a == "--help" || a == "-h" {
			fmt.Fprint(Out, FormatGlobalUsage())
			return 0
		}
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	name := strings.ToLower(args[0])
	if name == "help" { // cardforge help [command]
		if len(args) == 1 {
			fmt.Fprint(Out, FormatGlobalUsage())
			return 0
		}
		if c, ok := Get(strings.ToLower(args[1])); ok {
			fmt.Fprintf(Out, "%s\n\nUsage: %s\n", c.Description(), c.Usage())
			return 0
		}
		unknown(args[1])
		return 2
	}

	c, ok := Get(name)
	if !ok {
		unknown(name)
		return 2
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return 2
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		fmt.Fprintf(Out, "%s interrupted\n", name)
		return ExitInterrupted
	default:
		fmt.Fprintf(Out, "%s error: %v\n", name, err)
		return 1
	}
}

// unknown печатает подсказку по похожим командам или общий список.
func unknown(name string) {
	fmt.Fprintf(Out, "Unknown command: %s\n", name)
	if hints := Suggest(strings.ToLower(name)); len(hints) > 0 {
		fmt.Fprintf(Out, "Did you mean: %s\n", strings.Join(hints, ", "))
		return
	}
	fmt.Fprint(Out, "\n"+FormatGlobalUsage())
}
