package main

import (
	"fmt"
	"net/http"

	"CardForge/internal/ai"
	"CardForge/internal/auth"
	"CardForge/internal/bundle"
	"CardForge/internal/config"
	"CardForge/internal/handlers"
	"CardForge/internal/logger"
	"CardForge/internal/middleware"
	"CardForge/internal/repo"
	"CardForge/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()

	if cfg.Version {
		fmt.Printf("CardForge server\nVersion: %s\nBuild date: %s\n", version, buildDate)
		return
	}

	sugar, err := logger.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	middleware.SetLogger(sugar) // передаём логгер в middleware
	defer func() { _ = sugar.Sync() }()

	// все пользователи входят под одним mock-идентификатором, поэтому база у сервера одна
	dsn := cfg.StoreDSN(auth.MockUserID)
	gormDB, err := repo.InitDB(dsn)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}
	defer func() { _ = repo.Close(gormDB) }()

	store := repo.NewStore(gormDB)
	gen := ai.New(ai.Config{APIKey: cfg.OpenAIKey, BaseURL: cfg.OpenAIBaseURL, Model: cfg.AIModel}, sugar)

	deckService := service.NewDeckService(store, sugar)
	cardService := service.NewCardService(store, gen, sugar, service.WithMaxImageBytes(cfg.BlobMaxBytes()))
	codec := bundle.NewCodec(store, sugar)

	h := handlers.NewHandler(deckService, cardService, codec, sugar, cfg)

	addr := cfg.BaseURL
	sugar.Infow("Starting server", "addr", addr)
	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"ExternalDatabase", cfg.DatabaseDSN != "",
		"AIConfigured", cfg.OpenAIKey != "",
		"BlobMaxSizeMB", cfg.BlobMaxSizeMB,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
