package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile            = ".env"
	defaultPort               = "8080"
	defaultReadTimeout        = 15 * time.Second
	defaultWriteTimeout       = 30 * time.Second
	defaultIdleTimeout        = 120 * time.Second
	defaultEnvironment        = "local"
	defaultSiteName           = "Bandipur Cable Car"
	defaultContactEmail       = "info@bandipurcablecar.com.np"
	defaultContentSource      = ContentSourceFiles
	defaultContentDir         = "content"
	defaultContentReadTimeout = 3 * time.Second
	defaultContentRetries     = 1
)

// Content sources understood by the loader.
const (
	ContentSourceFirestore = "firestore"
	ContentSourceFiles     = "files"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string
	Server      ServerConfig
	Site        SiteConfig
	Content     ContentConfig
	Firestore   FirestoreConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SiteConfig holds values rendered into every page.
type SiteConfig struct {
	Name         string
	ContactEmail string
}

// ContentConfig selects the content store backend and its read policy.
type ContentConfig struct {
	Source      string
	Dir         string
	ReadTimeout time.Duration
	Retries     int
}

// FirestoreConfig stores database parameters.
type FirestoreConfig struct {
	ProjectID       string
	DatabaseID      string
	EmulatorHost    string
	CredentialsFile string
}

// IsLocal reports whether the server runs in a developer environment.
func (c Config) IsLocal() bool {
	switch c.Environment {
	case "local", "dev", "development", "test":
		return true
	}
	return false
}

// ValidationError is returned when required configuration fields are missing or invalid.
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

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the application configuration by combining defaults, .env overrides
// and environment variables. Precedence is dotenv < OS env < explicit env map.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}

	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
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
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Environment: strings.ToLower(stringWithDefault(lookup, "SITE_ENVIRONMENT", defaultEnvironment)),
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "SITE_SERVER_PORT", stringWithDefault(lookup, "PORT", defaultPort)),
			ReadTimeout:  durationWithDefault(lookup, "SITE_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "SITE_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "SITE_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Site: SiteConfig{
			Name:         stringWithDefault(lookup, "SITE_NAME", defaultSiteName),
			ContactEmail: stringWithDefault(lookup, "SITE_CONTACT_EMAIL", defaultContactEmail),
		},
		Content: ContentConfig{
			Source:      strings.ToLower(stringWithDefault(lookup, "SITE_CONTENT_SOURCE", defaultContentSource)),
			Dir:         stringWithDefault(lookup, "SITE_CONTENT_DIR", defaultContentDir),
			ReadTimeout: durationWithDefault(lookup, "SITE_CONTENT_READ_TIMEOUT", defaultContentReadTimeout),
			Retries:     intWithDefault(lookup, "SITE_CONTENT_RETRIES", defaultContentRetries),
		},
		Firestore: FirestoreConfig{
			ProjectID:       stringWithDefault(lookup, "SITE_FIRESTORE_PROJECT_ID", ""),
			DatabaseID:      stringWithDefault(lookup, "SITE_FIRESTORE_DATABASE_ID", ""),
			EmulatorHost:    stringWithDefault(lookup, "SITE_FIRESTORE_EMULATOR_HOST", ""),
			CredentialsFile: stringWithDefault(lookup, "SITE_FIRESTORE_CREDENTIALS_FILE", ""),
		},
	}

	// Cloud Run exposes the project under the generic key.
	if cfg.Firestore.ProjectID == "" {
		cfg.Firestore.ProjectID = stringWithDefault(lookup, "GOOGLE_CLOUD_PROJECT", "")
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if strings.TrimSpace(cfg.Server.Port) == "" {
		missing = append(missing, "Server.Port")
	}
	switch cfg.Content.Source {
	case ContentSourceFirestore:
		if cfg.Firestore.ProjectID == "" {
			missing = append(missing, "Firestore.ProjectID")
		}
	case ContentSourceFiles:
		if strings.TrimSpace(cfg.Content.Dir) == "" {
			missing = append(missing, "Content.Dir")
		}
	default:
		missing = append(missing, "Content.Source")
	}
	if cfg.Content.ReadTimeout <= 0 {
		missing = append(missing, "Content.ReadTimeout")
	}
	if cfg.Content.Retries < 0 {
		missing = append(missing, "Content.Retries")
	}
	if strings.TrimSpace(cfg.Site.Name) == "" {
		missing = append(missing, "Site.Name")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		values[key] = strings.Trim(value, "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
