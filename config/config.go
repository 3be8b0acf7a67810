package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the deckhand tool server
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Host      HostConfig      `mapstructure:"host"`
	Export    ExportConfig    `mapstructure:"export"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

func (g GeneralConfig) Normalize() GeneralConfig {
	g.LogLevel = strings.ToLower(strings.TrimSpace(g.LogLevel))
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
	return g
}

func (g GeneralConfig) Validate() error {
	switch g.LogLevel {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("general.log_level must be one of debug, info, warn, error (got %q)", g.LogLevel)
	}
}

// Host drivers.
const (
	DriverCOM    = "com"
	DriverMemory = "memory"
)

// HostConfig selects and configures the presentation application driver.
type HostConfig struct {
	Driver  string `mapstructure:"driver"`
	ProgID  string `mapstructure:"prog_id"`
	Visible bool   `mapstructure:"visible"`
}

func (h HostConfig) Normalize() HostConfig {
	h.Driver = strings.ToLower(strings.TrimSpace(h.Driver))
	if h.Driver == "" {
		h.Driver = DriverCOM
	}
	h.ProgID = strings.TrimSpace(h.ProgID)
	if h.ProgID == "" {
		h.ProgID = "PowerPoint.Application"
	}
	return h
}

func (h HostConfig) Validate() error {
	if h.Driver != DriverCOM && h.Driver != DriverMemory {
		return fmt.Errorf("host.driver must be %q or %q (got %q)", DriverCOM, DriverMemory, h.Driver)
	}
	return nil
}

// ExportConfig controls where and how large slide images are written.
type ExportConfig struct {
	Dir          string `mapstructure:"dir"`
	DefaultWidth int    `mapstructure:"default_width"`
}

func (e ExportConfig) Normalize() ExportConfig {
	e.Dir = strings.TrimSpace(e.Dir)
	if e.Dir == "" {
		e.Dir = filepath.Join(os.TempDir(), "deckhand")
	}
	if e.DefaultWidth == 0 {
		e.DefaultWidth = 1920
	}
	return e
}

func (e ExportConfig) Validate() error {
	if e.DefaultWidth < 1 {
		return fmt.Errorf("export.default_width must be positive")
	}
	return nil
}

// Transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
	TransportBoth  = "both"
)

// ServerConfig contains transport and auth settings
type ServerConfig struct {
	Transport   string        `mapstructure:"transport"`
	Address     string        `mapstructure:"address"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	CallTimeout time.Duration `mapstructure:"call_timeout"`
}

func (s ServerConfig) Normalize() ServerConfig {
	s.Transport = strings.ToLower(strings.TrimSpace(s.Transport))
	if s.Transport == "" {
		s.Transport = TransportStdio
	}
	if strings.TrimSpace(s.Address) == "" {
		s.Address = "127.0.0.1:10001"
	}
	if s.CallTimeout <= 0 {
		s.CallTimeout = 2 * time.Minute
	}
	return s
}

// HTTP reports whether the HTTP surface should run.
func (s ServerConfig) HTTP() bool { return s.Transport == TransportHTTP || s.Transport == TransportBoth }

// Stdio reports whether the stdio transport should run.
func (s ServerConfig) Stdio() bool { return s.Transport == TransportStdio || s.Transport == TransportBoth }

func (s ServerConfig) Validate() error {
	switch s.Transport {
	case TransportStdio, TransportHTTP, TransportBoth:
	default:
		return fmt.Errorf("server.transport must be stdio, http or both (got %q)", s.Transport)
	}
	if s.HTTP() && strings.TrimSpace(s.JWTSecret) == "" {
		return fmt.Errorf("server.jwt_secret required when the http transport is enabled")
	}
	return nil
}

// TelemetryConfig contains logging sinks and metrics settings
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	LogFile string `mapstructure:"log_file"`
}

// Ledger drivers.
const (
	LedgerMemory = "memory"
	LedgerRedis  = "redis"
)

// StorageConfig selects the handle ledger
type StorageConfig struct {
	Ledger string      `mapstructure:"ledger"`
	Redis  RedisConfig `mapstructure:"redis"`
}

func (s StorageConfig) Normalize() StorageConfig {
	s.Ledger = strings.ToLower(strings.TrimSpace(s.Ledger))
	if s.Ledger == "" {
		s.Ledger = LedgerMemory
	}
	if s.Redis.Timeout <= 0 {
		s.Redis.Timeout = 5 * time.Second
	}
	if strings.TrimSpace(s.Redis.KeyPrefix) == "" {
		s.Redis.KeyPrefix = "deckhand:handle:"
	}
	return s
}

func (s StorageConfig) Validate() error {
	switch s.Ledger {
	case LedgerMemory:
		return nil
	case LedgerRedis:
		return s.Redis.Validate()
	default:
		return fmt.Errorf("storage.ledger must be memory or redis (got %q)", s.Ledger)
	}
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host      string        `mapstructure:"host"`
	Port      string        `mapstructure:"port"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	Timeout   time.Duration `mapstructure:"timeout"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

// Load reads deckhand.json from path, or from ./config, the working
// directory and the executable's directory when path is empty. A missing
// file is not an error; DECKHAND_* environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("deckhand")
	v.SetConfigType("json")
	setDefaults(v)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if exe, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(exe))
		}
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("DECKHAND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// are absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")
	v.SetDefault("host.driver", DriverCOM)
	v.SetDefault("host.prog_id", "PowerPoint.Application")
	v.SetDefault("host.visible", true)
	v.SetDefault("export.dir", "")
	v.SetDefault("export.default_width", 1920)
	v.SetDefault("server.transport", TransportStdio)
	v.SetDefault("server.address", "127.0.0.1:10001")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.call_timeout", 2*time.Minute)
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.log_file", "")
	v.SetDefault("storage.ledger", LedgerMemory)
	v.SetDefault("storage.redis.host", "")
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.timeout", 5*time.Second)
	v.SetDefault("storage.redis.key_prefix", "deckhand:handle:")
}

// Normalize applies defaults to every section.
func (c *Config) Normalize() {
	c.General = c.General.Normalize()
	c.Host = c.Host.Normalize()
	c.Export = c.Export.Normalize()
	c.Server = c.Server.Normalize()
	c.Storage = c.Storage.Normalize()
}

// Validate checks every section.
func (c *Config) Validate() error {
	for _, v := range []interface{ Validate() error }{c.General, c.Host, c.Export, c.Server, c.Storage} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
