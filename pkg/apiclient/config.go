package apiclient

import "time"

type Config struct {
	BaseURL       string        `env:"API_BASE_URL" envDefault:"http://localhost:8080"` // BaseURL is the backend base URL all paths are resolved against.
	Timeout       time.Duration `env:"API_TIMEOUT" envDefault:"10s"`                    // Timeout bounds generic calls.
	ConfigTimeout time.Duration `env:"API_CONFIG_TIMEOUT" envDefault:"5s"`              // ConfigTimeout bounds lightweight config fetches.
	CacheTTL      time.Duration `env:"API_CACHE_TTL" envDefault:"5m"`                   // CacheTTL is how long read responses are served from cache.
}

// FromConfig builds a client from runtime configuration, loaded once
// at startup and immutable for the process lifetime. Zero fields fall
// back to built-in defaults.
func FromConfig(cfg Config, opts ...Option) *Client {
	base := []Option{}
	if cfg.Timeout > 0 {
		base = append(base, WithTimeout(cfg.Timeout))
	}
	if cfg.CacheTTL > 0 {
		base = append(base, WithCacheTTL(cfg.CacheTTL))
	}
	return New(cfg.BaseURL, append(base, opts...)...)
}
