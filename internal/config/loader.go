package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ROARWATCH_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known ROARWATCH_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Token ──
	setStr(&cfg.Token.Address, "ROARWATCH_TOKEN_ADDRESS")
	setStr(&cfg.Token.Symbol, "ROARWATCH_TOKEN_SYMBOL")

	// ── Quotes ──
	setStr(&cfg.Quotes.BaseURL, "ROARWATCH_QUOTES_BASE_URL")
	setDuration(&cfg.Quotes.PollInterval, "ROARWATCH_QUOTES_POLL_INTERVAL")
	setDuration(&cfg.Quotes.RequestTimeout, "ROARWATCH_QUOTES_REQUEST_TIMEOUT")

	// ── Telegram ──
	setBool(&cfg.Telegram.Enabled, "ROARWATCH_TELEGRAM_ENABLED")
	setDuration(&cfg.Telegram.PollTimeout, "ROARWATCH_TELEGRAM_POLL_TIMEOUT")
	setInt64(&cfg.Telegram.AdminChatID, "ROARWATCH_TELEGRAM_ADMIN_CHAT_ID")

	// ── Keys ──
	setStr(&cfg.Keys.RawBotToken, "ROARWATCH_TELEGRAM_TOKEN")
	setStr(&cfg.Keys.RawBotToken, "TELEGRAM_BOT_TOKEN") // compatibility alias
	setStr(&cfg.Keys.EncryptedTokenPath, "ROARWATCH_KEYS_ENCRYPTED_TOKEN_PATH")
	setStr(&cfg.Keys.TokenPassword, "ROARWATCH_KEYS_TOKEN_PASSWORD")

	// ── Notify ──
	setInt(&cfg.Notify.MaxConcurrent, "ROARWATCH_NOTIFY_MAX_CONCURRENT")
	setBool(&cfg.Notify.DisableOnBlock, "ROARWATCH_NOTIFY_DISABLE_ON_BLOCK")
	setInt(&cfg.Notify.EventsBuffer, "ROARWATCH_NOTIFY_EVENTS_BUFFER")

	// ── Render ──
	setStr(&cfg.Render.BackgroundPath, "ROARWATCH_RENDER_BACKGROUND_PATH")
	setInt(&cfg.Render.Width, "ROARWATCH_RENDER_WIDTH")
	setInt(&cfg.Render.Height, "ROARWATCH_RENDER_HEIGHT")

	// ── Alerts ──
	setStr(&cfg.Alerts.DiscordWebhookURL, "ROARWATCH_ALERTS_DISCORD_WEBHOOK_URL")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "ROARWATCH_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "ROARWATCH_SERVER_PORT")
	setStr(&cfg.Server.APIKey, "ROARWATCH_SERVER_API_KEY")
	setStringSlice(&cfg.Server.CORSOrigins, "ROARWATCH_SERVER_CORS_ORIGINS")
	setInt(&cfg.Server.RateLimitPerMin, "ROARWATCH_SERVER_RATE_LIMIT_PER_MIN")

	// ── Top-level ──
	setStr(&cfg.Mode, "ROARWATCH_MODE")
	setStr(&cfg.LogLevel, "ROARWATCH_LOG_LEVEL")
	setStr(&cfg.LogFormat, "ROARWATCH_LOG_FORMAT")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
