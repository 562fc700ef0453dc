// Package config загружает конфигурацию сервиса из YAML-файла и переменных окружения
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"sensor-bi-service/internal/cache"
	"sensor-bi-service/internal/source"
)

// DefaultSourceURL адрес внешнего API показаний
const DefaultSourceURL = "http://26.232.171.144:8000/listarDados"

// Config содержит конфигурацию сервиса
type Config struct {
	Env       string             `yaml:"env"`
	Server    ServerConfig       `yaml:"server"`
	Source    SourceConfig       `yaml:"source"`
	MySQL     source.MySQLConfig `yaml:"mysql"`
	Redis     cache.RedisConfig  `yaml:"redis"`
	Analytics AnalyticsConfig    `yaml:"analytics"`
}

// ServerConfig параметры HTTP сервера
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// AllowedOrigins источники CORS; пусто означает любые
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SourceConfig параметры источника показаний
type SourceConfig struct {
	Kind    string        `yaml:"kind"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
	// Fallback включает подстановку демонстрационного набора при ошибке источника
	Fallback bool `yaml:"fallback"`
}

// AnalyticsConfig параметры агрегатора
type AnalyticsConfig struct {
	// Timezone зона отображения подписей временного ряда (IANA)
	Timezone string `yaml:"timezone"`
	// Dedup стратегия устранения дубликатов пар: value или identity
	Dedup string `yaml:"dedup"`
}

// Default возвращает конфигурацию по умолчанию
func Default() Config {
	return Config{
		Env: "prod",
		Server: ServerConfig{
			Addr:            ":3000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Source: SourceConfig{
			Kind:     source.KindREST,
			URL:      DefaultSourceURL,
			Timeout:  10 * time.Second,
			Fallback: true,
		},
		Redis: cache.RedisConfig{
			Addr:            "localhost:6379",
			ConnectAttempts: 5,
		},
		Analytics: AnalyticsConfig{
			Timezone: "Local",
			Dedup:    "value",
		},
	}
}

// Load читает файл (если путь задан), применяет переменные окружения и проверяет результат
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("APP_ENV", &c.Env)
	str("SERVER_ADDR", &c.Server.Addr)
	str("SOURCE_KIND", &c.Source.Kind)
	str("SOURCE_URL", &c.Source.URL)
	str("MYSQL_DSN", &c.MySQL.DSN)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("DISPLAY_TIMEZONE", &c.Analytics.Timezone)
	str("PAIRING_DEDUP", &c.Analytics.Dedup)

	if v, ok := lookup("REDIS_DB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = n
	}
	if v, ok := lookup("SOURCE_FALLBACK"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SOURCE_FALLBACK: %w", err)
		}
		c.Source.Fallback = b
	}
	return nil
}

// Validate проверяет согласованность конфигурации
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	switch c.Source.Kind {
	case source.KindREST:
		if c.Source.URL == "" {
			return fmt.Errorf("config: source.url is required for kind %q", c.Source.Kind)
		}
	case source.KindMySQL:
		if c.MySQL.DSN == "" {
			return fmt.Errorf("config: mysql.dsn is required for kind %q", c.Source.Kind)
		}
	case source.KindFixture:
	default:
		return fmt.Errorf("config: unknown source.kind %q", c.Source.Kind)
	}
	switch c.Analytics.Dedup {
	case "value", "identity":
	default:
		return fmt.Errorf("config: unknown analytics.dedup %q", c.Analytics.Dedup)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: analytics.timezone: %w", err)
	}
	return nil
}

// Location возвращает зону отображения
func (c Config) Location() (*time.Location, error) {
	if c.Analytics.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Analytics.Timezone)
}

// RedisEnabled истинно, если задан адрес Redis
func (c Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}
