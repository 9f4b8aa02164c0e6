package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware. Caching is
// off unless Enabled is set and a Redis client could be created. Methods
// lists the HTTP methods to cache; TTL is the lifetime of an entry. Prefix
// namespaces the keys and MaxBodyBytes caps the stored response size.
type CacheConfig struct {
	Enabled      bool          `env:"CACHE_ENABLED" env-default:"false"`
	Methods      []string      `env:"CACHE_METHODS" env-separator:"," env-default:"POST"`
	TTL          time.Duration `env:"CACHE_TTL" env-default:"5m" validate:"gt=0"`
	Prefix       string        `env:"CACHE_PREFIX" env-default:"bfhl" validate:"required"`
	MaxBodyBytes int           `env:"CACHE_MAX_BODY_BYTES" env-default:"1048576" validate:"min=0"`
}

// MethodSet returns Methods upper-cased as a lookup set.
func (c CacheConfig) MethodSet() map[string]bool {
	m := map[string]bool{}
	for _, p := range c.Methods {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
