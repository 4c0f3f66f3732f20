package config

import (
	"time"
)

type CacheConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	DefaultTTL    time.Duration
}

func NewCacheConfig() *CacheConfig {
	return &CacheConfig{
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		DefaultTTL:    time.Minute,
	}
}

// Enabled reports whether a Redis host was configured. The API key cache is
// optional; without it every validation hits the database.
func (c *CacheConfig) Enabled() bool {
	return c.RedisHost != ""
}
