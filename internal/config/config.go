// Package config loads process configuration for the chess tools server.
//
// All settings come from environment variables with defaults. The resulting
// Config is passed explicitly into the scraper, the chess.com client, the
// announcers and the servers; no package keeps its own global settings.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultListingURL     = "https://www.echecsfrance.com/en/tournaments"
	DefaultDetailBaseURL  = "https://www.echecs.asso.fr/"
	DefaultChessComURL    = "https://api.chess.com/pub"
	DefaultConcurrency    = 15
	DefaultSummaryTimeout = 5 * time.Second
	DefaultDetailTimeout  = 10 * time.Second
	DefaultListingTimeout = 30 * time.Second
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 10000
	DefaultLogLevel       = "info"
)

// Config holds all application configuration.
type Config struct {
	Scraper  ScraperConfig
	ChessCom ChessComConfig
	Discord  DiscordConfig
	Telegram TelegramConfig
	Server   ServerConfig
	LogLevel string
}

// ScraperConfig configures the tournament listing and detail scrapes.
type ScraperConfig struct {
	ListingURL     string
	DetailBaseURL  string
	Concurrency    int
	SummaryTimeout time.Duration
	DetailTimeout  time.Duration
	ListingTimeout time.Duration
}

type ChessComConfig struct {
	BaseURL string
}

type DiscordConfig struct {
	WebhookURL string
}

type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

// Enabled reports whether both a token and a chat are configured.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}

type ServerConfig struct {
	Host string
	Port int
	// SpaceHost, when set, overrides the base URL advertised on the index page.
	SpaceHost string
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Scraper: ScraperConfig{
			ListingURL:     DefaultListingURL,
			DetailBaseURL:  DefaultDetailBaseURL,
			Concurrency:    DefaultConcurrency,
			SummaryTimeout: DefaultSummaryTimeout,
			DetailTimeout:  DefaultDetailTimeout,
			ListingTimeout: DefaultListingTimeout,
		},
		ChessCom: ChessComConfig{
			BaseURL: DefaultChessComURL,
		},
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads configuration from environment variables on top of Default and
// validates the result.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := Default()
	env := envReader{getenv: getenv}

	cfg.Scraper.ListingURL = env.stringOr("CHESS_LISTING_URL", cfg.Scraper.ListingURL)
	cfg.Scraper.DetailBaseURL = env.stringOr("CHESS_DETAIL_BASE_URL", cfg.Scraper.DetailBaseURL)
	cfg.Scraper.Concurrency = env.intOr("SCRAPER_CONCURRENCY", cfg.Scraper.Concurrency)
	cfg.Scraper.SummaryTimeout = env.durationOr("SCRAPER_SUMMARY_TIMEOUT", cfg.Scraper.SummaryTimeout)
	cfg.Scraper.DetailTimeout = env.durationOr("SCRAPER_DETAIL_TIMEOUT", cfg.Scraper.DetailTimeout)
	cfg.Scraper.ListingTimeout = env.durationOr("SCRAPER_LISTING_TIMEOUT", cfg.Scraper.ListingTimeout)

	cfg.ChessCom.BaseURL = strings.TrimRight(env.stringOr("CHESSCOM_API_URL", cfg.ChessCom.BaseURL), "/")

	cfg.Discord.WebhookURL = env.stringOr("DISCORD_WEBHOOK_URL", "")

	cfg.Telegram.BotToken = env.stringOr("TELEGRAM_BOT_TOKEN", "")
	cfg.Telegram.ChatID = env.int64Or("TELEGRAM_CHAT_ID", 0)

	cfg.Server.Host = env.stringOr("HOST", cfg.Server.Host)
	cfg.Server.Port = env.intOr("PORT", cfg.Server.Port)
	cfg.Server.SpaceHost = env.stringOr("SPACE_HOST", "")

	cfg.LogLevel = env.stringOr("LOG_LEVEL", cfg.LogLevel)

	if env.err != nil {
		return nil, env.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := validateURL("listing URL", c.Scraper.ListingURL); err != nil {
		return err
	}
	if err := validateURL("detail base URL", c.Scraper.DetailBaseURL); err != nil {
		return err
	}
	if err := validateURL("chess.com API URL", c.ChessCom.BaseURL); err != nil {
		return err
	}
	if c.Discord.WebhookURL != "" {
		if err := validateURL("discord webhook URL", c.Discord.WebhookURL); err != nil {
			return err
		}
	}
	if c.Scraper.Concurrency < 1 {
		return fmt.Errorf("scraper concurrency must be at least 1, got %d", c.Scraper.Concurrency)
	}
	if c.Scraper.SummaryTimeout <= 0 || c.Scraper.DetailTimeout <= 0 || c.Scraper.ListingTimeout <= 0 {
		return fmt.Errorf("scraper timeouts must be positive")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be http or https: %q", name, raw)
	}
	return nil
}

// envReader collects the first parse error so Load can report it once.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) stringOr(key, def string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return def
}

func (e *envReader) intOr(key string, def int) int {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(fmt.Errorf("parsing %s: %w", key, err))
		return def
	}
	return n
}

func (e *envReader) int64Or(key string, def int64) int64 {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		e.fail(fmt.Errorf("parsing %s: %w", key, err))
		return def
	}
	return n
}

// durationOr accepts Go durations ("5s") or a bare number of seconds ("5").
func (e *envReader) durationOr(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(fmt.Errorf("parsing %s: %w", key, err))
		return def
	}
	return d
}

func (e *envReader) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}
