package cliparse

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strconv"
)

// DevSecretKey is the fallback session-signing key. Tokens signed with it are
// forgeable, so main logs a warning when it is in use.
const DevSecretKey = "dev-secret-change-me"

type Config struct {
	Port        int
	DatabaseURL string
	SQLitePath  string
	SecretKey   string
	GodUsername string
	GodPassword string
}

// UsesSQLite reports whether the local file-backed store is selected.
// An empty DATABASE_URL falls back to SQLite.
func (c Config) UsesSQLite() bool {
	return c.DatabaseURL == ""
}

// ParseFlags validates flags and fills in environment fallbacks
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("olympiad-abyss", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Postgres URL (empty uses SQLite)")
	fs.StringVar(&cfg.SQLitePath, "f", "", "SQLite database file path")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SecretKey, "secret", "", "Session signing key (prefer env)")
	fs.StringVar(&cfg.GodUsername, "god-user", "", "Bootstrap god username (prefer env)")
	fs.StringVar(&cfg.GodPassword, "god-pass", "", "Bootstrap god password (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 5000 // default
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = os.Getenv("SQLITE_PATH")
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join("instance", "app.db")
	}

	if cfg.SecretKey == "" {
		cfg.SecretKey = os.Getenv("SECRET_KEY")
	}
	if cfg.SecretKey == "" {
		cfg.SecretKey = DevSecretKey
	}

	// Bootstrap god-account credentials
	if cfg.GodUsername == "" {
		cfg.GodUsername = os.Getenv("GOD_USERNAME")
	}
	if cfg.GodUsername == "" {
		cfg.GodUsername = "god"
	}
	if cfg.GodPassword == "" {
		cfg.GodPassword = os.Getenv("GOD_PASSWORD")
	}
	if cfg.GodPassword == "" {
		cfg.GodPassword = "godpass"
	}

	return cfg, nil
}
