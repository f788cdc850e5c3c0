// Package config resolves runtime settings from defaults, an optional YAML
// file in the data directory, a .env file and TEMPO_* environment variables,
// in that order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"

	NotifierLocal  = "local"
	NotifierPlugin = "plugin"
	NotifierNone   = "none"
)

type Config struct {
	DataDir    string
	StateDir   string
	DBPath     string
	ConfigPath string

	StorageDriver  string
	RedisURL       string
	RedisKeyPrefix string

	DebounceWindow time.Duration
	Timezone       string

	NotifierDriver string
	NotifierPlugin string

	LogLevel       string
	MetricsAddress string
	// ReloadInterval is how often the daemon re-reads storage; 0 disables.
	ReloadInterval time.Duration
}

type fileConfig struct {
	Storage struct {
		Driver    string `yaml:"driver"`
		RedisURL  string `yaml:"redis_url"`
		KeyPrefix string `yaml:"key_prefix"`
	} `yaml:"storage"`
	Debounce string `yaml:"debounce"`
	Timezone string `yaml:"timezone"`
	Notifier struct {
		Driver string `yaml:"driver"`
		Plugin string `yaml:"plugin"`
	} `yaml:"notifier"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Metrics struct {
		Address string `yaml:"address"`
	} `yaml:"metrics"`
	Daemon struct {
		Reload string `yaml:"reload"`
	} `yaml:"daemon"`
}

// New returns the defaults for dataDir without touching the filesystem.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data path is required")
	}
	stateDir := filepath.Join(dataDir, ".tempo")
	return Config{
		DataDir:        dataDir,
		StateDir:       stateDir,
		DBPath:         filepath.Join(stateDir, "tempo.db"),
		ConfigPath:     filepath.Join(stateDir, "config.yaml"),
		StorageDriver:  StorageSQLite,
		RedisURL:       "redis://localhost:6379/0",
		RedisKeyPrefix: "tempo",
		DebounceWindow: time.Second,
		NotifierDriver: NotifierLocal,
		LogLevel:       "warn",
		MetricsAddress: "127.0.0.1:9464",
		ReloadInterval: 30 * time.Second,
	}, nil
}

// Load layers the config file and environment over the defaults.
func Load(dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	if err := godotenv.Load(filepath.Join(dataDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyFile(); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile() error {
	raw, err := os.ReadFile(c.ConfigPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	file := fileConfig{}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("decode config %s: %w", c.ConfigPath, err)
	}
	c.StorageDriver = orDefault(file.Storage.Driver, c.StorageDriver)
	c.RedisURL = orDefault(file.Storage.RedisURL, c.RedisURL)
	c.RedisKeyPrefix = orDefault(file.Storage.KeyPrefix, c.RedisKeyPrefix)
	if file.Debounce != "" {
		window, err := time.ParseDuration(file.Debounce)
		if err != nil {
			return fmt.Errorf("decode config debounce: %w", err)
		}
		c.DebounceWindow = window
	}
	c.Timezone = orDefault(file.Timezone, c.Timezone)
	c.NotifierDriver = orDefault(file.Notifier.Driver, c.NotifierDriver)
	c.NotifierPlugin = orDefault(file.Notifier.Plugin, c.NotifierPlugin)
	c.LogLevel = orDefault(file.Log.Level, c.LogLevel)
	c.MetricsAddress = orDefault(file.Metrics.Address, c.MetricsAddress)
	if file.Daemon.Reload != "" {
		interval, err := time.ParseDuration(file.Daemon.Reload)
		if err != nil {
			return fmt.Errorf("decode config daemon.reload: %w", err)
		}
		c.ReloadInterval = interval
	}
	return nil
}

func (c *Config) applyEnv() {
	c.StorageDriver = getEnv("TEMPO_STORAGE_DRIVER", c.StorageDriver)
	c.RedisURL = getEnv("TEMPO_REDIS_URL", c.RedisURL)
	c.RedisKeyPrefix = getEnv("TEMPO_REDIS_KEY_PREFIX", c.RedisKeyPrefix)
	c.DebounceWindow = getDurationEnv("TEMPO_DEBOUNCE", c.DebounceWindow)
	c.Timezone = getEnv("TEMPO_TIMEZONE", c.Timezone)
	c.NotifierDriver = getEnv("TEMPO_NOTIFIER", c.NotifierDriver)
	c.NotifierPlugin = getEnv("TEMPO_NOTIFIER_PLUGIN", c.NotifierPlugin)
	c.LogLevel = getEnv("TEMPO_LOG_LEVEL", c.LogLevel)
	c.MetricsAddress = getEnv("TEMPO_METRICS_ADDRESS", c.MetricsAddress)
	c.ReloadInterval = getDurationEnv("TEMPO_DAEMON_RELOAD", c.ReloadInterval)
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageSQLite, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	switch c.NotifierDriver {
	case NotifierLocal, NotifierNone:
	case NotifierPlugin:
		if strings.TrimSpace(c.NotifierPlugin) == "" {
			return fmt.Errorf("notifier plugin binary is required for the plugin driver")
		}
	default:
		return fmt.Errorf("unknown notifier driver %q", c.NotifierDriver)
	}
	if c.DebounceWindow < 0 {
		return fmt.Errorf("debounce window must be non-negative")
	}
	if c.ReloadInterval < 0 {
		return fmt.Errorf("daemon reload interval must be non-negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone; empty means the host zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
