// Package config defines the top-level configuration for the roarwatch bot
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by ROARWATCH_* environment variables.
type Config struct {
	Token     TokenConfig    `toml:"token"`
	Quotes    QuotesConfig   `toml:"quotes"`
	Telegram  TelegramConfig `toml:"telegram"`
	Keys      KeyConfig      `toml:"keys"`
	Notify    NotifyConfig   `toml:"notify"`
	Render    RenderConfig   `toml:"render"`
	Alerts    AlertsConfig   `toml:"alerts"`
	Server    ServerConfig   `toml:"server"`
	Mode      string         `toml:"mode"`
	LogLevel  string         `toml:"log_level"`
	LogFormat string         `toml:"log_format"`
}

// TokenConfig identifies the tracked asset.
type TokenConfig struct {
	Address string `toml:"address"`
	Symbol  string `toml:"symbol"`
}

// QuotesConfig holds quote-source endpoint and polling parameters.
type QuotesConfig struct {
	BaseURL        string   `toml:"base_url"`
	PollInterval   duration `toml:"poll_interval"`
	RequestTimeout duration `toml:"request_timeout"`
}

// TelegramConfig holds chat transport behavior knobs. The bot token itself
// lives in KeyConfig.
type TelegramConfig struct {
	Enabled     bool     `toml:"enabled"`
	PollTimeout duration `toml:"poll_timeout"`
	AdminChatID int64    `toml:"admin_chat_id"`
}

// KeyConfig holds the Telegram bot token credential sources. Exactly one of
// RawBotToken or EncryptedTokenPath is needed for bot modes.
type KeyConfig struct {
	RawBotToken        string `toml:"raw_bot_token"`
	EncryptedTokenPath string `toml:"encrypted_token_path"`
	TokenPassword      string `toml:"token_password"`
}

// NotifyConfig holds subscriber fan-out parameters.
type NotifyConfig struct {
	MaxConcurrent  int  `toml:"max_concurrent"`
	DisableOnBlock bool `toml:"disable_on_block"`
	EventsBuffer   int  `toml:"events_buffer"`
}

// RenderConfig holds notification card parameters.
type RenderConfig struct {
	BackgroundPath string `toml:"background_path"`
	Width          int    `toml:"width"`
	Height         int    `toml:"height"`
}

// AlertsConfig holds operational alert channel settings (separate from
// subscriber notifications).
type AlertsConfig struct {
	DiscordWebhookURL string `toml:"discord_webhook_url"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled         bool     `toml:"enabled"`
	Port            int      `toml:"port"`
	APIKey          string   `toml:"api_key"`
	CORSOrigins     []string `toml:"cors_origins"`
	RateLimitPerMin int      `toml:"rate_limit_per_min"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Token: TokenConfig{
			Address: "0xD8C978de79E12728e38aa952a6cB4166F891790f",
			Symbol:  "ROAR",
		},
		Quotes: QuotesConfig{
			BaseURL:        "https://api.dexscreener.com",
			PollInterval:   duration{30 * time.Second},
			RequestTimeout: duration{10 * time.Second},
		},
		Telegram: TelegramConfig{
			Enabled:     true,
			PollTimeout: duration{50 * time.Second},
		},
		Notify: NotifyConfig{
			MaxConcurrent:  10,
			DisableOnBlock: true,
			EventsBuffer:   64,
		},
		Render: RenderConfig{
			Width:  800,
			Height: 600,
		},
		Server: ServerConfig{
			Enabled:         true,
			Port:            8080,
			CORSOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimitPerMin: 120,
		},
		Mode:      "bot",
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"monitor": true,
	"bot":     true,
	"full":    true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats enumerates the accepted values for Config.LogFormat.
var validLogFormats = map[string]bool{
	"json": true,
	"text": true,
}

// NeedsTelegram reports whether the selected mode requires a working chat
// transport.
func (c *Config) NeedsTelegram() bool {
	mode := strings.ToLower(c.Mode)
	return (mode == "bot" || mode == "full") && c.Telegram.Enabled
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: monitor, bot, full)", c.Mode))
	}

	// Logging
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}
	if !validLogFormats[strings.ToLower(c.LogFormat)] {
		errs = append(errs, fmt.Sprintf("unknown log_format %q (valid: json, text)", c.LogFormat))
	}

	// Token
	if c.Token.Address == "" {
		errs = append(errs, "token: address must not be empty")
	} else if !common.IsHexAddress(c.Token.Address) {
		errs = append(errs, fmt.Sprintf("token: address %q is not a valid contract address", c.Token.Address))
	}
	if c.Token.Symbol == "" {
		errs = append(errs, "token: symbol must not be empty")
	}

	// Quotes
	if c.Quotes.BaseURL == "" {
		errs = append(errs, "quotes: base_url must not be empty")
	}
	if c.Quotes.PollInterval.Duration <= 0 {
		errs = append(errs, "quotes: poll_interval must be > 0")
	}
	if c.Quotes.RequestTimeout.Duration <= 0 {
		errs = append(errs, "quotes: request_timeout must be > 0")
	}

	// Telegram — a token source is required for bot modes.
	if c.NeedsTelegram() {
		if c.Keys.RawBotToken == "" && c.Keys.EncryptedTokenPath == "" {
			errs = append(errs, "keys: either raw_bot_token or encrypted_token_path must be set for mode "+c.Mode)
		}
		if c.Keys.EncryptedTokenPath != "" && c.Keys.TokenPassword == "" {
			errs = append(errs, "keys: token_password is required when encrypted_token_path is set")
		}
		if c.Telegram.PollTimeout.Duration <= 0 {
			errs = append(errs, "telegram: poll_timeout must be > 0")
		}
	}

	// Notify
	if c.Notify.MaxConcurrent < 1 {
		errs = append(errs, "notify: max_concurrent must be >= 1")
	}
	if c.Notify.EventsBuffer < 1 {
		errs = append(errs, "notify: events_buffer must be >= 1")
	}

	// Render
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Sprintf("render: width and height must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
		if c.Server.RateLimitPerMin < 1 {
			errs = append(errs, "server: rate_limit_per_min must be >= 1")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
