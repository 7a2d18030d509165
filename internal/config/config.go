package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// DBFileName is the sqlite file created under the per-user directory.
const DBFileName = "cardforge.sqlite"

type Config struct {
	// Storage: DATABASE_URI wins over the per-user sqlite file under CLIENT_DB_PATH
	DatabaseDSN   string `env:"DATABASE_URI"`
	ClientDBPath  string `env:"CLIENT_DB_PATH"`
	BlobMaxSizeMB int    `env:"BLOB_MAX_MB"`

	// HTTP API
	AuthSecret  string `env:"AUTH_SECRET"`
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	ServerURL   string `env:"-"`

	// Generative text service
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	AIModel       string `env:"AI_MODEL"`

	Debug   bool `env:"DEBUG"`
	Version bool `env:"-"` // flag only
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// флаги по умолчанию берут значения из env, явный флаг перекрывает env
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN: postgres URL or sqlite file path")
	flag.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "directory holding per-user sqlite databases")
	flag.IntVar(&cfg.BlobMaxSizeMB, "blob-max-mb", cfg.BlobMaxSizeMB, "maximum size of an uploaded image in MB")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "secret used to sign session tokens")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "HTTP listen address (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "advertise an https server URL")
	flag.StringVar(&cfg.OpenAIBaseURL, "ai-base-url", cfg.OpenAIBaseURL, "OpenAI-compatible API base URL")
	flag.StringVar(&cfg.AIModel, "ai-model", cfg.AIModel, "chat model used for translation and phrase extraction")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "development logging")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "show version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.BlobMaxSizeMB <= 0 {
		cfg.BlobMaxSizeMB = 50
	}
	// BaseURL должен быть "address:port" без схемы и пути
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}
	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}
	if cfg.ClientDBPath == "" {
		home, _ := os.UserHomeDir()
		cfg.ClientDBPath = filepath.Join(home, ".cardforge")
	}
}

// StoreDSN returns the database to open for login.
func (cfg *Config) StoreDSN(login string) string {
	if cfg.DatabaseDSN != "" {
		return cfg.DatabaseDSN
	}
	return filepath.Join(cfg.ClientDBPath, login, DBFileName)
}

// BlobMaxBytes is BlobMaxSizeMB in bytes.
func (cfg *Config) BlobMaxBytes() int64 {
	return int64(cfg.BlobMaxSizeMB) << 20
}
