package config

import (
	"os"
	"strconv"
)

type RateLimitConfig struct {
	// AnonymousLimit is the number of demo requests allowed per IP per
	// calendar day.
	AnonymousLimit int
	// DefaultKeyLimit is the requests-per-24h limit assigned to newly
	// issued API keys.
	DefaultKeyLimit int
	// LogAnonymousUsage also writes usage log rows for anonymous calls.
	LogAnonymousUsage bool
	// TrustProxyHeader controls whether X-Forwarded-For is consulted for
	// the client IP. The header is not authoritative behind an untrusted
	// proxy.
	TrustProxyHeader bool
}

func NewRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		AnonymousLimit:    getEnvInt("ANON_RATE_LIMIT", 40),
		DefaultKeyLimit:   getEnvInt("DEFAULT_KEY_RATE_LIMIT", 100),
		LogAnonymousUsage: getEnvBool("LOG_ANONYMOUS_USAGE", false),
		TrustProxyHeader:  getEnvBool("TRUST_PROXY_HEADER", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
