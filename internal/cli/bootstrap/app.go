// Package bootstrap opens the local study database of the active CLI user.
package bootstrap

import (
	"fmt"

	"CardForge/internal/ai"
	"CardForge/internal/bundle"
	"CardForge/internal/cli/repo"
	fsrepo "CardForge/internal/cli/repo/fs"
	cliservice "CardForge/internal/cli/service"
	"CardForge/internal/config"
	"CardForge/internal/logger"
	corerepo "CardForge/internal/repo"
	"CardForge/internal/service"

	"go.uber.org/zap"
)

// App: набор сервисов, с которыми работает команда.
type App struct {
	Login string
	DSN   string
	Decks *service.DeckService
	Cards *service.CardService
	Codec *bundle.Codec
	Log   *zap.SugaredLogger
}

// Sessions is the file-backed session state of the CLI.
type Sessions interface {
	repo.TokenStore
	repo.UserContextStore
}

// DefaultSessions stores the session under the user config directory.
var DefaultSessions Sessions = fsrepo.AuthFSStore{}

// NewLogger returns the CLI logger: development output with cfg.Debug, errors only otherwise.
func NewLogger(cfg *config.Config) *zap.SugaredLogger {
	if cfg.Debug {
		if l, err := logger.New(true); err == nil {
			return l
		}
	}
	return logger.Quiet()
}

// Auth returns the auth service over DefaultSessions.
func Auth(cfg *config.Config) cliservice.AuthService {
	return cliservice.NewAuthService(DefaultSessions, DefaultSessions, cfg.AuthSecret)
}

// OpenApp открывает базу активного логина, мигрирует её и собирает сервисы.
// Возвращаемый cleanup закрывает базу.
func OpenApp(cfg *config.Config) (*App, func() error, error) {
	login, _, err := Auth(cfg).CurrentUser()
	if err != nil {
		return nil, nil, err
	}
	dsn := cfg.StoreDSN(login)
	db, err := corerepo.InitDB(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open user db: %w", err)
	}
	log := NewLogger(cfg)
	store := corerepo.NewStore(db)
	gen := ai.New(ai.Config{APIKey: cfg.OpenAIKey, BaseURL: cfg.OpenAIBaseURL, Model: cfg.AIModel}, log)

	app := &App{
		Login: login,
		DSN:   dsn,
		Decks: service.NewDeckService(store, log),
		Cards: service.NewCardService(store, gen, log, service.WithMaxImageBytes(cfg.BlobMaxBytes())),
		Codec: bundle.NewCodec(store, log),
		Log:   log,
	}
	cleanup := func() error {
		_ = log.Sync()
		return corerepo.Close(db)
	}
	return app, cleanup, nil
}
