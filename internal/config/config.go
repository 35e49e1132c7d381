package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Search SearchConfig `yaml:"search"`
}

type ServerConfig struct {
	// Transport selects "stdio" or "http".
	Transport string `yaml:"transport"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path routes logs to a rotated file; empty logs to stderr.
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type SearchConfig struct {
	DebounceDelay Duration `yaml:"debounce_delay"`
	CacheTTL      Duration `yaml:"cache_ttl"`
	CacheCapacity int      `yaml:"cache_capacity"`
	SlowThreshold Duration `yaml:"slow_threshold"`
	MaxHistory    int      `yaml:"max_history"`
}

// Duration wraps time.Duration so YAML values like "300ms" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Transport: "stdio",
			Host:      "127.0.0.1",
			Port:      8080,
		},
		DB: DBConfig{
			Path: "timetrace.db",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
		},
		Search: SearchConfig{
			DebounceDelay: Duration(300 * time.Millisecond),
			CacheTTL:      Duration(5 * time.Minute),
			CacheCapacity: 128,
			SlowThreshold: Duration(time.Second),
			MaxHistory:    20,
		},
	}

	if path := os.Getenv("TIMETRACE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if transport := os.Getenv("TIMETRACE_TRANSPORT"); transport != "" {
		cfg.Server.Transport = transport
	}
	if host := os.Getenv("TIMETRACE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TIMETRACE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMETRACE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("TIMETRACE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("TIMETRACE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("TIMETRACE_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if debounce := os.Getenv("TIMETRACE_DEBOUNCE_DELAY"); debounce != "" {
		d, err := time.ParseDuration(debounce)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMETRACE_DEBOUNCE_DELAY: %w", err)
		}
		cfg.Search.DebounceDelay = Duration(d)
	}
	if ttl := os.Getenv("TIMETRACE_CACHE_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMETRACE_CACHE_TTL: %w", err)
		}
		cfg.Search.CacheTTL = Duration(d)
	}

	if cfg.Server.Transport != "stdio" && cfg.Server.Transport != "http" {
		return Config{}, fmt.Errorf("invalid transport %q: must be stdio or http", cfg.Server.Transport)
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
