package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"CardForge/internal/cli/commands"
	"CardForge/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// справка по глобальным флагам вместе со списком команд
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, commands.FormatGlobalUsage()+"\nGlobal flags:\n")
		flag.PrintDefaults()
	}

	cfg := config.NewConfig()
	if cfg.Version {
		printVersion()
		return
	}

	// Ctrl+C прерывает интерактивный quiz и долгие AI-запросы
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Dispatch(ctx, cfg, flag.Args())
	stop()
	os.Exit(code)
}

func printVersion() {
	fmt.Printf("CardForge CLI\nVersion: %s\nBuild date: %s\n", version, buildDate)
}
