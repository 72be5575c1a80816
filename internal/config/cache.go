package config

import (
	"os"
	"time"
)

// CacheConfig defines settings for the week-grid cache.  When
// Enabled is false or no Redis client is configured, the cache is
// disabled and every request projects the grid from a fresh list.
// TTL bounds staleness for entries that miss an invalidation (e.g. a
// write from another instance); mutations invalidate eagerly, so the
// TTL is a backstop rather than the primary freshness mechanism.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: getenv("CACHE_ENABLED", "true") == "true",
		TTL:     parseDur(getenv("CACHE_TTL", "5m")),
		Prefix:  getenv("CACHE_PREFIX", "week"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Minute
	}
	return d
}
