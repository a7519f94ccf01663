// Package config загружает конфигурацию клиента из .env, переменных
// окружения SHOPKEEPER_* и необязательного config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Окружения приложения
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	envPrefix         = "SHOPKEEPER"
	defaultAPIURL     = "http://localhost:8080"
	defaultLogLevel   = "info"
	defaultTimeout    = 30 * time.Second
	defaultSchedule   = "@every 5m"
	defaultConfigDir  = ".shopkeeper"
	storeFileName     = "store.json"
	sessionFileName   = "session.db"
	activityFileName  = "activity.db"
	defaultConfigName = "config"
)

// Config конфигурация клиента. Передаётся в конструкторы явно.
type Config struct {
	APIURL        string        `mapstructure:"api_url"`
	Env           string        `mapstructure:"app_env"`
	LogLevel      string        `mapstructure:"log_level"`
	ConfigDir     string        `mapstructure:"config_dir"`
	StorePath     string        `mapstructure:"store_path"`
	SessionPath   string        `mapstructure:"session_path"`
	ActivityPath  string        `mapstructure:"activity_path"`
	WatchSchedule string        `mapstructure:"watch_schedule"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout"`
}

// LoadOptions управляет источниками конфигурации
type LoadOptions struct {
	// ConfigFile явный путь к config.yaml; пусто означает поиск в ConfigDir и "."
	ConfigFile string
	// EnvFile путь к .env; пусто означает ".env" в текущей директории
	EnvFile string
}

// Load собирает конфигурацию. Приоритет: env > config.yaml > значения по умолчанию.
// Пути, не заданные явно, вычисляются относительно config_dir.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// Загружаем .env файл если существует
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	v.SetDefault("api_url", defaultAPIURL)
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("config_dir", filepath.Join(homeDir, defaultConfigDir))
	v.SetDefault("http_timeout", defaultTimeout)
	v.SetDefault("watch_schedule", defaultSchedule)
	// Ключи без значения по умолчанию тоже регистрируем, иначе Unmarshal не видит env
	v.SetDefault("store_path", "")
	v.SetDefault("session_path", "")
	v.SetDefault("activity_path", "")

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("config_dir"))
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Конфиг не найден, используем значения по умолчанию
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.fillPaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is configured,
// rooted at dir.
func Default(dir string) *Config {
	cfg := &Config{
		APIURL:        defaultAPIURL,
		Env:           EnvLocal,
		LogLevel:      defaultLogLevel,
		ConfigDir:     dir,
		HTTPTimeout:   defaultTimeout,
		WatchSchedule: defaultSchedule,
	}
	cfg.fillPaths()
	return cfg
}

func (c *Config) fillPaths() {
	if c.StorePath == "" {
		c.StorePath = filepath.Join(c.ConfigDir, storeFileName)
	}
	if c.SessionPath == "" {
		c.SessionPath = filepath.Join(c.ConfigDir, sessionFileName)
	}
	if c.ActivityPath == "" {
		c.ActivityPath = filepath.Join(c.ConfigDir, activityFileName)
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.APIURL == "" {
		errs = append(errs, fmt.Errorf("api_url cannot be empty"))
	} else if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		errs = append(errs, fmt.Errorf("api_url must start with http:// or https://"))
	}

	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		errs = append(errs, fmt.Errorf("unknown app_env %q", c.Env))
	}

	if c.StorePath == "" {
		errs = append(errs, fmt.Errorf("store_path cannot be empty"))
	}

	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http_timeout must be positive"))
	}

	if _, err := cron.ParseStandard(c.WatchSchedule); err != nil {
		errs = append(errs, fmt.Errorf("invalid watch_schedule %q: %w", c.WatchSchedule, err))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Env == ""
}
