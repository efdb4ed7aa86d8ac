// Package config loads the service configuration.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file (POS_CONFIG or --config), and environment variables, which win. In
// development the environment is usually populated from a .env file before
// Load is called.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Read backends for catalog, stock, rate and lookup queries
const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
)

// Config holds the service configuration
type Config struct {
	// Port the HTTP server listens on. Default: "8080"
	Port string `yaml:"port"`

	// Env is "production" or anything else. Default: "development"
	Env string `yaml:"env"`

	DocStore DocStoreConfig `yaml:"doc_store"`

	// ReadBackend selects where list queries go: "rest" or "postgres".
	// Writes always go through the document store API.
	// Default: "rest"
	ReadBackend string `yaml:"read_backend"`

	// DatabaseURL is the DSN of the ledger's Postgres database, required
	// when ReadBackend is "postgres".
	DatabaseURL string `yaml:"database_url"`

	Company CompanyConfig `yaml:"company"`

	Images ImagesConfig `yaml:"images"`

	// LookupLimit caps list queries for lookups. Default: 1000
	LookupLimit int `yaml:"lookup_limit"`

	// TerminalIdleTimeout evicts terminals nobody touched for this long.
	// Default: 12h
	TerminalIdleTimeout time.Duration `yaml:"terminal_idle_timeout"`
}

// DocStoreConfig holds the remote document store connection settings
type DocStoreConfig struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	APISecret string        `yaml:"api_secret"`
	Timeout   time.Duration `yaml:"timeout"`
}

// CompanyConfig holds the ambient company context
type CompanyConfig struct {
	Name string `yaml:"name"`
	// BaseCurrency is the currency catalog prices are stored in
	BaseCurrency string `yaml:"base_currency"`
}

// ImagesConfig holds catalog image settings
type ImagesConfig struct {
	// CacheDir stores optimized images. Default: "cache/images"
	CacheDir string `yaml:"cache_dir"`
	// DriveCredentials is a service account JSON file. Optional: without it
	// "drive:" image references cannot be served.
	DriveCredentials string `yaml:"drive_credentials"`
}

// Default returns the built-in defaults
func Default() *Config {
	return &Config{
		Port:        "8080",
		Env:         "development",
		ReadBackend: BackendREST,
		DocStore: DocStoreConfig{
			Timeout: 30 * time.Second,
		},
		Company: CompanyConfig{
			BaseCurrency: "USD",
		},
		Images: ImagesConfig{
			CacheDir: "cache/images",
		},
		LookupLimit:         1000,
		TerminalIdleTimeout: 12 * time.Hour,
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// and the environment
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	// PORT from some hosts comes with a leading colon
	c.Port = strings.TrimPrefix(c.Port, ":")
	setString(&c.Env, "ENV")
	setString(&c.DocStore.BaseURL, "DOCSTORE_URL")
	setString(&c.DocStore.APIKey, "DOCSTORE_API_KEY")
	setString(&c.DocStore.APISecret, "DOCSTORE_API_SECRET")
	setString(&c.ReadBackend, "READ_BACKEND")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.Company.Name, "COMPANY")
	setString(&c.Company.BaseCurrency, "BASE_CURRENCY")
	setString(&c.Images.CacheDir, "IMAGE_CACHE_DIR")
	setString(&c.Images.DriveCredentials, "GOOGLE_APPLICATION_CREDENTIALS")

	if v := os.Getenv("DOCSTORE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DOCSTORE_TIMEOUT %q: %w", v, err)
		}
		c.DocStore.Timeout = d
	}
	if v := os.Getenv("LOOKUP_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LOOKUP_LIMIT %q: %w", v, err)
		}
		c.LookupLimit = n
	}
	if v := os.Getenv("TERMINAL_IDLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TERMINAL_IDLE_TIMEOUT %q: %w", v, err)
		}
		c.TerminalIdleTimeout = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate checks the configuration for missing or inconsistent values
func (c *Config) Validate() error {
	var errs []error

	if c.DocStore.BaseURL == "" {
		errs = append(errs, errors.New("doc_store.base_url (DOCSTORE_URL) is required"))
	}
	if c.Company.BaseCurrency == "" {
		errs = append(errs, errors.New("company.base_currency (BASE_CURRENCY) is required"))
	}
	switch c.ReadBackend {
	case BackendREST:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("database_url (DATABASE_URL) is required for the postgres read backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown read_backend %q, expected %q or %q", c.ReadBackend, BackendREST, BackendPostgres))
	}
	if c.LookupLimit <= 0 {
		errs = append(errs, fmt.Errorf("lookup_limit must be greater than 0, got %d", c.LookupLimit))
	}
	if c.DocStore.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("doc_store.timeout must be positive, got %s", c.DocStore.Timeout))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
