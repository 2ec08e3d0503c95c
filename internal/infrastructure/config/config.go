package config

import (
	"os"
	"strconv"
	"time"

	usecasecontract "github.com/mikiasgoitom/Pawgram/internal/usecase/contract"
)

// Config holds application configuration values.
type Config struct {
	ViewportDebounce     time.Duration
	DoubleTapCooldown    time.Duration
	LikeFeedbackDuration time.Duration
	VisibilityThreshold  float64
	HighMatchThreshold   float64
	FeedPageTTL          time.Duration
	SessionIdleTimeout   time.Duration
}

// NewConfig creates a new Config instance, loading values from environment variables.
func NewConfig() usecasecontract.IConfigProvider {
	return &Config{
		ViewportDebounce:     time.Millisecond * time.Duration(getEnvAsInt("FEED_VIEWPORT_DEBOUNCE_MS", 100)),
		DoubleTapCooldown:    time.Millisecond * time.Duration(getEnvAsInt("FEED_DOUBLE_TAP_COOLDOWN_MS", 600)),
		LikeFeedbackDuration: time.Millisecond * time.Duration(getEnvAsInt("FEED_LIKE_FEEDBACK_MS", 300)),
		VisibilityThreshold:  getEnvAsFloat("FEED_VISIBILITY_THRESHOLD", 0.5),
		HighMatchThreshold:   getEnvAsFloat("FEED_HIGH_MATCH_THRESHOLD", 150),
		FeedPageTTL:          time.Minute * time.Duration(getEnvAsInt("FEED_PAGE_TTL_MINUTES", 30)),
		SessionIdleTimeout:   time.Minute * time.Duration(getEnvAsInt("FEED_SESSION_IDLE_MINUTES", 30)),
	}
}

// GetViewportDebounce returns the window that collapses geometry-change notifications.
func (c *Config) GetViewportDebounce() time.Duration {
	return c.ViewportDebounce
}

// GetDoubleTapCooldown returns the per-item suppression window for double taps.
func (c *Config) GetDoubleTapCooldown() time.Duration {
	return c.DoubleTapCooldown
}

// GetLikeFeedbackDuration returns how long the like acknowledgment signal stays up.
func (c *Config) GetLikeFeedbackDuration() time.Duration {
	return c.LikeFeedbackDuration
}

// GetVisibilityThreshold returns the visible fraction that triggers an auto-view.
func (c *Config) GetVisibilityThreshold() float64 {
	return c.VisibilityThreshold
}

// GetHighMatchThreshold returns the FitScore total at which the feed marks
// an item highly compatible. Empirically chosen, tune freely.
func (c *Config) GetHighMatchThreshold() float64 {
	return c.HighMatchThreshold
}

// GetFeedPageTTL returns the expiry for cached feed pages.
func (c *Config) GetFeedPageTTL() time.Duration {
	return c.FeedPageTTL
}

// GetSessionIdleTimeout returns how long an untouched feed session is kept.
func (c *Config) GetSessionIdleTimeout() time.Duration {
	return c.SessionIdleTimeout
}

// Helper function to get an environment variable or return a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as an integer or return a default value.
func getEnvAsInt(name string, fallback int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as a float or return a default value.
func getEnvAsFloat(name string, fallback float64) float64 {
	valueStr := getEnv(name, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return fallback
}
