// Package config loads the console configuration from defaults, an optional
// config file and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Session  SessionConfig  `mapstructure:"session"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	App      AppConfig      `mapstructure:"app"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
}

// ServerConfig holds HTTP server settings. Timeouts are seconds.
type ServerConfig struct {
	Port            string `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	IdleTimeout     int    `mapstructure:"idle_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// BackendConfig points at the pharmacy REST service.
type BackendConfig struct {
	URL string `mapstructure:"url"`
	// Timeout of zero means no client-side timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
	// Store is "gorm" or "redis".
	Store  string `mapstructure:"store"`
	Secure bool   `mapstructure:"secure"`
}

// DatabaseConfig holds the session database settings. Driver is "sqlite" or
// "postgres".
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type UploadsConfig struct {
	Dir      string `mapstructure:"dir"`
	BaseURL  string `mapstructure:"base_url"`
	MaxBytes int64  `mapstructure:"max_bytes"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env          string `mapstructure:"env"`
	Dev          bool   `mapstructure:"dev"`
	Migrations   bool   `mapstructure:"migrations"`
	TemplatesDir string `mapstructure:"templates_dir"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type JobsConfig struct {
	PurgeSchedule string `mapstructure:"purge_schedule"`
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Addr returns ":port".
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

func (s ServerConfig) Timeout(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("server.shutdown_timeout", 10)

	v.SetDefault("backend.url", "http://localhost:3000")
	v.SetDefault("backend.timeout", time.Duration(0))

	v.SetDefault("session.secret", "devsessionsecret")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.store", "gorm")
	v.SetDefault("session.secure", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "pharmacy.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "pharmacy")
	v.SetDefault("database.password", "pharmacy")
	v.SetDefault("database.name", "pharmacy")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.base_url", "/uploads")
	v.SetDefault("uploads.max_bytes", 5<<20)

	v.SetDefault("app.env", "dev")
	v.SetDefault("app.dev", false)
	v.SetDefault("app.migrations", true)
	v.SetDefault("app.templates_dir", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("jobs.purge_schedule", "@every 15m")
}

// Load reads configuration. path may name a YAML/TOML/JSON file; empty means
// defaults and environment only. Environment keys are the dotted key upper-cased
// with dots replaced by underscores (SERVER_PORT, BACKEND_URL, ...). PORT,
// DEV, SESSION_SECRET and API_URL are also honoured.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"server.port":    "PORT",
		"app.dev":        "DEV",
		"backend.url":    "API_URL",
		"session.secret": "SESSION_SECRET",
	} {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case "gorm", "redis":
	default:
		return fmt.Errorf("session.store must be gorm or redis, got %q", c.Session.Store)
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	return nil
}
