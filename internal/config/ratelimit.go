package config

import (
	"os"
	"time"
)

// RateLimitConfig controls the Redis token-bucket limiter applied to the
// auth and JSON API routes. Capacity is the bucket size, RefillTokens are
// added every RefillInterval, and TTL bounds how long idle buckets live.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

// LoadRateLimitConfig builds a RateLimitConfig from the environment and
// normalizes nonsensical values (zero capacity, non-positive intervals).
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envIntDef("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   envIntDef("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: parseDur(getenv("RATE_LIMIT_REFILL_INTERVAL", "1s")),
		TTL:            parseDur(getenv("RATE_LIMIT_TTL", "10m")),
		KeyStrategy:    getenv("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
		Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	// Buckets must outlive several refill intervals, otherwise state is lost
	// between bursts.
	if min := 5 * cfg.RefillInterval; cfg.TTL < min {
		cfg.TTL = min
	}
	return cfg
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}

func envIntDef(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n := atoi(v); n != 0 || v == "0" {
			return n
		}
	}
	return def
}
