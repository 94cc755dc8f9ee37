package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultBaseURL   = "http://localhost:8080"
	defaultLoginPath = "/login"
	defaultTimeout   = 30 * time.Second
)

type Config struct {
	BaseURL   string
	LoginPath string
	Username  string
	Password  string

	Headless bool
	SlowMo   time.Duration
	Timeout  time.Duration

	ScreenshotDir     string
	DiscordWebhookURL string
}

// FromEnv loads an optional .env file and reads the configuration from the
// process environment. Variables already set take precedence over the file.
func FromEnv(files ...string) (Config, error) {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	return FromLookup(os.LookupEnv)
}

func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	headless, err := strconv.ParseBool(get("HEADLESS", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("HEADLESS: %w", err)
	}

	slowMo, err := millis(get("SLOW_MO_MS", "0"))
	if err != nil {
		return Config{}, fmt.Errorf("SLOW_MO_MS: %w", err)
	}

	timeout, err := millis(get("TIMEOUT_MS", strconv.FormatInt(defaultTimeout.Milliseconds(), 10)))
	if err != nil {
		return Config{}, fmt.Errorf("TIMEOUT_MS: %w", err)
	}

	return Config{
		BaseURL:           get("LOGIN_BASE_URL", defaultBaseURL),
		LoginPath:         get("LOGIN_PATH", defaultLoginPath),
		Username:          get("LOGIN_USERNAME", ""),
		Password:          get("LOGIN_PASSWORD", ""),
		Headless:          headless,
		SlowMo:            slowMo,
		Timeout:           timeout,
		ScreenshotDir:     get("SCREENSHOT_DIR", ""),
		DiscordWebhookURL: get("DISCORD_WEBHOOK_URL", ""),
	}, nil
}

func millis(s string) (time.Duration, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative duration %d", n)
	}
	return time.Duration(n) * time.Millisecond, nil
}
