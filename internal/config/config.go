package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sandeepkv93/focusflow/internal/ai"
	"github.com/sandeepkv93/focusflow/internal/scheduler"
	"github.com/sandeepkv93/focusflow/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. FOCUSFLOW_AI_API_KEY.
const EnvPrefix = "FOCUSFLOW"

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	DataDir       string              `yaml:"data_dir" mapstructure:"data_dir"`
	Storage       StorageConfig       `yaml:"storage" mapstructure:"storage"`
	AI            AIConfig            `yaml:"ai" mapstructure:"ai"`
	Notifications NotificationsConfig `yaml:"notifications" mapstructure:"notifications"`
	Recap         RecapConfig         `yaml:"recap" mapstructure:"recap"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
}

type StorageConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Path is the database file (sqlite) or directory (file). Empty means
	// inside DataDir.
	Path string `yaml:"path,omitempty" mapstructure:"path"`
}

type AIConfig struct {
	APIKey            string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Model             string        `yaml:"model" mapstructure:"model"`
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

type NotificationsConfig struct {
	Desktop bool `yaml:"desktop" mapstructure:"desktop"`
}

type RecapConfig struct {
	Cron string `yaml:"cron" mapstructure:"cron"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file,omitempty" mapstructure:"file"`
}

// DefaultDataDir is ~/.focusflow, or .focusflow when no home is available.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".focusflow"
	}
	return filepath.Join(home, ".focusflow")
}

// DefaultPath is where `config init` writes and Load looks by default.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

func DefaultConfig() Config {
	return Config{
		DataDir: DefaultDataDir(),
		Storage: StorageConfig{Backend: storage.BackendSQLite},
		AI: AIConfig{
			Model:             ai.DefaultModel,
			BaseURL:           ai.DefaultBaseURL,
			Timeout:           ai.DefaultTimeout,
			RequestsPerMinute: ai.DefaultRequestsPerMinute,
		},
		Notifications: NotificationsConfig{Desktop: false},
		Recap:         RecapConfig{Cron: scheduler.DefaultRecapCron},
		Log:           LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads an optional .env, the YAML file at path (skipped when it does
// not exist) and FOCUSFLOW_* environment overrides, in increasing priority.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	def := DefaultConfig()
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, def)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("data_dir", c.DataDir)
	v.SetDefault("storage.backend", c.Storage.Backend)
	v.SetDefault("storage.path", c.Storage.Path)
	v.SetDefault("ai.api_key", c.AI.APIKey)
	v.SetDefault("ai.model", c.AI.Model)
	v.SetDefault("ai.base_url", c.AI.BaseURL)
	v.SetDefault("ai.timeout", c.AI.Timeout)
	v.SetDefault("ai.requests_per_minute", c.AI.RequestsPerMinute)
	v.SetDefault("notifications.desktop", c.Notifications.Desktop)
	v.SetDefault("recap.cron", c.Recap.Cron)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
	v.SetDefault("log.file", c.Log.File)
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case storage.BackendSQLite, storage.BackendFile:
	default:
		return fmt.Errorf("%w: storage.backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: data_dir is empty", ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	if c.AI.Timeout < 0 || c.AI.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: ai limits must not be negative", ErrInvalidConfig)
	}
	if err := scheduler.ValidateCron(c.Recap.Cron); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// StoragePath resolves where the selected backend keeps its data.
func (c Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Backend == storage.BackendFile {
		return filepath.Join(c.DataDir, "data")
	}
	return filepath.Join(c.DataDir, "focusflow.db")
}

func (c Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, "focusflow.log")
}

// Save writes c as YAML with owner-only permissions; the file may hold an
// API key.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
