package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile      = ".env"
	defaultPort         = "8080"
	defaultSiteFile     = "site.yaml"
	defaultContentDir   = "content"
	defaultMenuLocation = "primary"
	defaultLogLevel     = "info"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	defaultContentTTL   = 5 * time.Minute
)

// Config captures runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Site     SiteConfig
	LogLevel string
	DevMode  bool
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Addr returns the listen address for the configured port.
func (s ServerConfig) Addr() string { return ":" + s.Port }

// SiteConfig points at the site description and its content.
type SiteConfig struct {
	File         string
	ContentDir   string
	MenuLocation string
	ContentTTL   time.Duration
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects explicit values that take precedence over the system environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles configuration from defaults, the .env file, the process
// environment and explicit overrides, in increasing order of precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnv, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnv[key]; ok {
			return value, true
		}
		return "", false
	}

	var invalid []string
	duration := func(key string, def time.Duration) time.Duration {
		raw, ok := lookup(key)
		if !ok || strings.TrimSpace(raw) == "" {
			return def
		}
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}

	port := stringWithDefault(lookup, "HANKO_THEME_PORT", "")
	if port == "" {
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		invalid = append(invalid, "HANKO_THEME_PORT")
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         port,
			ReadTimeout:  duration("HANKO_THEME_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: duration("HANKO_THEME_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  duration("HANKO_THEME_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Site: SiteConfig{
			File:         stringWithDefault(lookup, "HANKO_THEME_SITE_FILE", defaultSiteFile),
			ContentDir:   stringWithDefault(lookup, "HANKO_THEME_CONTENT_DIR", defaultContentDir),
			MenuLocation: stringWithDefault(lookup, "HANKO_THEME_MENU_LOCATION", defaultMenuLocation),
			ContentTTL:   duration("HANKO_THEME_CONTENT_TTL", defaultContentTTL),
		},
		LogLevel: stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
		DevMode:  boolValue(lookup, "HANKO_THEME_DEV"),
	}

	if len(invalid) > 0 {
		return Config{}, &ValidationError{fields: invalid}
	}
	return cfg, nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, def string) string {
	if value, ok := lookup(key); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return def
}

func boolValue(lookup func(string) (string, bool), key string) bool {
	value, ok := lookup(key)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
