package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultCompetitorChannels is the monitored channel list used when
// COMPETITOR_CHANNELS is not set: competitor channels in the AI / no-code /
// automation niche, in @handle format.
var DefaultCompetitorChannels = []string{
	"@buildwithkaran",
	"@AIJasonZ",
	"@MattVidPro",
	"@WorldofAI",
	"@AllAboutAI",
	"@maboroshitech",
	"@SkillLeapAI",
	"@TheAIGRID",
	"@NoCodeFamily",
	"@MattWolfe",
	"@1littlecoder",
	"@GregIsenberg",
	"@aiaborsh",
	"@income_stream_surfers",
	"@FutureTools",
}

var handleRe = regexp.MustCompile(`^@[A-Za-z0-9._-]+$`)

// Config holds everything the monitor needs, loaded from the environment
// (with .env support).
type Config struct {
	Port        string
	LogLevel    string
	Environment string
	CORSOrigins string

	ScrapingDogAPIKey  string
	CompetitorChannels []string

	RecentDays          int
	MinPerformanceRatio float64
	RunInterval         time.Duration
	RequestDelay        time.Duration

	RedisURL        string
	ChannelCacheTTL time.Duration

	GmailAddress     string
	GmailAppPassword string
	RecipientEmail   string
	SMTPHost         string
	SMTPPort         string

	TelegramBotToken string
	TelegramChatID   int64
}

// Load reads configuration from .env (if present) and the environment.
// It fails only on malformed values; missing credentials merely disable the
// corresponding feature.
func Load() (*Config, error) {
	// Missing .env is fine, env vars may come from the real environment
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		ScrapingDogAPIKey: os.Getenv("SCRAPINGDOG_API_KEY"),

		RedisURL: os.Getenv("REDIS_URL"),

		GmailAddress:     os.Getenv("GMAIL_ADDRESS"),
		GmailAppPassword: os.Getenv("GMAIL_APP_PASSWORD"),
		RecipientEmail:   os.Getenv("RECIPIENT_EMAIL"),
		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	var err error
	if cfg.RecentDays, err = getEnvInt("RECENT_DAYS", 90); err != nil {
		return nil, err
	}
	if cfg.MinPerformanceRatio, err = getEnvFloat("MIN_PERFORMANCE_RATIO", 1.0); err != nil {
		return nil, err
	}
	if cfg.RunInterval, err = getEnvDuration("RUN_INTERVAL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RequestDelay, err = getEnvDuration("REQUEST_DELAY", 1500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.ChannelCacheTTL, err = getEnvDuration("CHANNEL_CACHE_TTL", 6*time.Hour); err != nil {
		return nil, err
	}

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		cfg.TelegramChatID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", raw, err)
		}
	}

	if cfg.CompetitorChannels, err = parseChannels(os.Getenv("COMPETITOR_CHANNELS")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EmailConfigured reports whether all email settings are present.
func (c *Config) EmailConfigured() bool {
	return c.GmailAddress != "" && c.GmailAppPassword != "" && c.RecipientEmail != ""
}

// TelegramConfigured reports whether all Telegram settings are present.
func (c *Config) TelegramConfigured() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// parseChannels parses a comma-separated handle list, validating the @handle
// format. An empty value falls back to the default competitor list.
func parseChannels(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultCompetitorChannels, nil
	}

	var handles []string
	for _, part := range strings.Split(raw, ",") {
		handle := strings.TrimSpace(part)
		if handle == "" {
			continue
		}
		if !handleRe.MatchString(handle) {
			return nil, fmt.Errorf("invalid channel handle %q: must be @handle format", handle)
		}
		handles = append(handles, handle)
	}
	if len(handles) == 0 {
		return DefaultCompetitorChannels, nil
	}
	return handles, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
