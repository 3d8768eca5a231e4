package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"mosmix-api/internal/forecast"
)

const (
	DefaultConfigPath = "config/config.yaml"

	DefaultCatalogURL      = "https://www.dwd.de/DE/leistungen/met_verfahren_mosmix/mosmix_stationskatalog.cfg?view=nasPublication&nn=16102"
	DefaultForecastBaseURL = "https://s3.eu-central-1.amazonaws.com/app-prod-static.warnwetter.de/v16"
)

type Config struct {
	App      AppConfig      `yaml:"app" envconfig:"APP"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Log      LogConfig      `yaml:"log" envconfig:"LOG"`
	Upstream UpstreamConfig `yaml:"upstream" envconfig:"UPSTREAM"`
	Cache    CacheConfig    `yaml:"cache" envconfig:"CACHE"`
	Sentry   SentryConfig   `yaml:"sentry" envconfig:"SENTRY"`
	Timezone TimezoneConfig `yaml:"timezone" envconfig:"TIMEZONE"`
}

type AppConfig struct {
	Name    string `yaml:"name" split_words:"true"`
	Version string `yaml:"version" split_words:"true"`
	Env     string `yaml:"env" split_words:"true"`
}

type ServerConfig struct {
	Port         string        `yaml:"port" split_words:"true"`
	ReadTimeout  time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout time.Duration `yaml:"write_timeout" split_words:"true"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" split_words:"true"`
}

type LogConfig struct {
	Level  string `yaml:"level" split_words:"true"`
	Format string `yaml:"format" split_words:"true"`
}

// UpstreamConfig describes the DWD endpoints and how they are called.
type UpstreamConfig struct {
	CatalogURL        string        `yaml:"catalog_url" split_words:"true"`
	ForecastBaseURL   string        `yaml:"forecast_base_url" split_words:"true"`
	SchemaVersion     string        `yaml:"schema_version" split_words:"true"`
	Timeout           time.Duration `yaml:"timeout" split_words:"true"`
	RequestsPerSecond float64       `yaml:"requests_per_second" split_words:"true"`
	Burst             int           `yaml:"burst" split_words:"true"`
	MaxRetries        int           `yaml:"max_retries" split_words:"true"`
	RetryBackoff      time.Duration `yaml:"retry_backoff" split_words:"true"`
}

type CacheConfig struct {
	// StationTTL of zero keeps the catalog for the process lifetime.
	StationTTL time.Duration `yaml:"station_ttl" split_words:"true"`
	// LoadTimeout bounds one catalog download shared by all waiting requests.
	LoadTimeout time.Duration `yaml:"load_timeout" split_words:"true"`
}

type SentryConfig struct {
	DSN   string `yaml:"dsn" split_words:"true"`
	Debug bool   `yaml:"debug" split_words:"true"`
}

type TimezoneConfig struct {
	Enabled bool `yaml:"enabled" split_words:"true"`
}

// ConfigProvider fills a Config from some source.
type ConfigProvider interface {
	Load(cfg *Config) error
}

// FileConfigProvider reads YAML. A missing file is not an error.
type FileConfigProvider struct {
	path string
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	return &FileConfigProvider{path: path}
}

func (p *FileConfigProvider) Load(cfg *Config) error {
	yamlData, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", p.path, err)
	}

	if err := yaml.Unmarshal(yamlData, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		App: AppConfig{
			Name:    "mosmix-api",
			Version: "1.0.0",
			Env:     "development",
		},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Upstream: UpstreamConfig{
			CatalogURL:        DefaultCatalogURL,
			ForecastBaseURL:   DefaultForecastBaseURL,
			SchemaVersion:     string(forecast.Current),
			Timeout:           15 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
			MaxRetries:        2,
			RetryBackoff:      200 * time.Millisecond,
		},
		Cache: CacheConfig{
			LoadTimeout: time.Minute,
		},
		Timezone: TimezoneConfig{
			Enabled: true,
		},
	}
}

// NewConfig loads config/config.yaml, an optional .env file and the
// environment, in that order of precedence from lowest to highest.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return NewConfigWithProvider(NewFileConfigProvider(DefaultConfigPath))
}

func NewConfigWithProvider(provider ConfigProvider) (*Config, error) {
	cnf := defaultConfig()

	if err := provider.Load(&cnf); err != nil {
		return nil, err
	}

	if err := envconfig.Process("", &cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	if err := cnf.Validate(); err != nil {
		return nil, err
	}

	return &cnf, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return errors.New("app.name is required")
	}

	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port %q", c.Server.Port)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}

	if c.Upstream.CatalogURL == "" || c.Upstream.ForecastBaseURL == "" {
		return errors.New("upstream URLs must not be empty")
	}

	if _, err := forecast.ParseSchemaVersion(c.Upstream.SchemaVersion); err != nil {
		return err
	}

	if c.Upstream.RequestsPerSecond < 0 || c.Upstream.Burst < 0 || c.Upstream.MaxRetries < 0 {
		return errors.New("upstream rate limit and retry settings must not be negative")
	}

	if c.Cache.StationTTL < 0 {
		return errors.New("station cache TTL must not be negative")
	}

	if c.Cache.LoadTimeout < 0 {
		return errors.New("station cache load timeout must not be negative")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}
