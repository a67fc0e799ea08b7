package runtimeconfig

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrResolverDepthInvalid   = errors.New("config: resolver max depth must be at least 1")
	ErrLoggingProviderUnknown = errors.New("config: unknown logging provider")
	ErrLoggingFormatInvalid   = errors.New("config: invalid logging format")
	ErrStorageProviderUnknown = errors.New("config: unknown storage provider")
)

// Config is the root runtime configuration for the engine.
type Config struct {
	Resolver ResolverConfig
	Storage  StorageConfig
	Logging  LoggingConfig
	Features Features
}

// ResolverConfig bounds recursive import expansion.
type ResolverConfig struct {
	MaxDepth int
}

// StorageConfig selects the file-scope backend.
type StorageConfig struct {
	// Provider is "memory" or "sqlite".
	Provider string
	// DSN applies to the sqlite provider.
	DSN string
	// CacheTTL enables read caching on the sqlite provider when
	// positive. Memory storage never caches.
	CacheTTL time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles optional engine surfaces.
type Features struct {
	// Commands enables the go-command message handlers.
	Commands bool
	// HTMLPreview enables the goldmark preview renderer on the facade.
	HTMLPreview bool
}

// DefaultConfig returns the engine defaults: depth-5 resolution, the
// in-memory file scope, and console logging through go-logger.
func DefaultConfig() Config {
	return Config{
		Resolver: ResolverConfig{MaxDepth: 5},
		Storage:  StorageConfig{Provider: "memory"},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
		Features: Features{
			Commands:    true,
			HTMLPreview: true,
		},
	}
}

// Validate checks cross-field constraints before the module boots.
func (c Config) Validate() error {
	if c.Resolver.MaxDepth < 1 {
		return ErrResolverDepthInvalid
	}

	switch strings.ToLower(strings.TrimSpace(c.Storage.Provider)) {
	case "", "memory", "sqlite":
	default:
		return ErrStorageProviderUnknown
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Provider)) {
	case "", "gologger", "noop":
	default:
		return ErrLoggingProviderUnknown
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "json", "console", "pretty":
	default:
		return ErrLoggingFormatInvalid
	}

	return nil
}
