package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

type Config struct {
	ClientID       string        `long:"client-id" env:"REDDIT_CLIENT_ID" description:"Reddit script app client ID"`
	ClientSecret   string        `long:"client-secret" env:"REDDIT_CLIENT_SECRET" description:"Reddit script app client secret"`
	Username       string        `long:"username" env:"REDDIT_USERNAME" description:"Reddit account username"`
	Password       string        `long:"password" env:"REDDIT_PASSWORD" description:"Reddit account password"`
	UserAgent      string        `long:"user-agent" env:"REDDIT_USER_AGENT" default:"reddit-mcp-server" description:"User-Agent sent with every Reddit request"`
	APIURL         string        `long:"api-url" env:"REDDIT_API_URL" default:"https://oauth.reddit.com" description:"Reddit OAuth API base URL"`
	TokenURL       string        `long:"token-url" env:"REDDIT_TOKEN_URL" default:"https://www.reddit.com/api/v1/access_token" description:"Reddit OAuth token endpoint"`
	RequestTimeout time.Duration `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"30s" description:"HTTP request timeout"`
	MaxRetries     int           `long:"max-retries" env:"MAX_RETRIES" default:"3" description:"Maximum number of retry attempts"`
	RetryDelay     time.Duration `long:"retry-delay" env:"RETRY_DELAY" default:"1s" description:"Delay between retry attempts"`
	EnvFile        string        `long:"env-file" description:"Path to .env file for local development"`
	Debug          bool          `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	LogFormat      string        `long:"log-format" env:"LOG_FORMAT" default:"text" choice:"text" choice:"json" choice:"tint" description:"Log output format"`
	VerifyAuth     bool          `long:"verify-auth" env:"VERIFY_AUTH" description:"Check Reddit credentials at startup and exit on failure"`
}

func Load() (*Config, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses the given command line arguments on top of the environment.
// The .env file is loaded between two parse passes so that --env-file can
// point at it and the variables it defines still reach the struct.
func LoadArgs(args []string) (*Config, error) {
	var cfg Config

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil {
			slog.Warn("Failed to load .env file", "file", cfg.EnvFile, "error", err)
		}
	} else {
		_ = godotenv.Load()
	}

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, fmt.Errorf("failed to parse config after loading env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports missing credentials and nonsensical retry settings
func (c *Config) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "REDDIT_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "REDDIT_CLIENT_SECRET")
	}
	if c.Username == "" {
		missing = append(missing, "REDDIT_USERNAME")
	}
	if c.Password == "" {
		missing = append(missing, "REDDIT_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing Reddit credentials: %s", strings.Join(missing, ", "))
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("max-retries must not be negative, got %d", c.MaxRetries)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request-timeout must be positive, got %s", c.RequestTimeout)
	}

	return nil
}
