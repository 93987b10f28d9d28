package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	UI     UIConfig     `mapstructure:"ui"`
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
}

// APIConfig points the list screen at the survey service.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PageSize      int           `mapstructure:"page_size"`
	DateFormat    string        `mapstructure:"date_format"`
	Timezone      string        `mapstructure:"timezone"`
	ToastTTL      time.Duration `mapstructure:"toast_ttl"`
	OpenDelay     time.Duration `mapstructure:"open_delay"`
	CurrentUser   string        `mapstructure:"current_user"`
	CurrentUserID int64         `mapstructure:"current_user_id"`
}

// LogConfig selects where logs go. An empty path means stderr.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// ServerConfig configures the local development API.
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	DatabasePath string `mapstructure:"database_path"`
	Seed         bool   `mapstructure:"seed"`
}

// Location resolves the configured timezone, falling back to local time.
func (u UIConfig) Location() *time.Location {
	if u.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func home() string { return os.Getenv("HOME") }

// Path returns the config file location: $SURVEYBOARD_CONFIG or the XDG-style default.
func Path() string {
	if p := os.Getenv("SURVEYBOARD_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(home(), ".config", "surveyboard", "config.toml")
}

func defaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:5080")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("ui.page_size", 8)
	v.SetDefault("ui.date_format", "02/01/2006")
	v.SetDefault("ui.timezone", "")
	v.SetDefault("ui.toast_ttl", 4*time.Second)
	v.SetDefault("ui.open_delay", 100*time.Millisecond)
	v.SetDefault("ui.current_user", "Basem Shawaly")
	v.SetDefault("ui.current_user_id", 1)
	v.SetDefault("log.path", filepath.Join(home(), ".local", "state", "surveyboard", "surveyboard.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("server.addr", ":5080")
	v.SetDefault("server.database_path", filepath.Join(home(), ".local", "share", "surveyboard", "surveys.db"))
	v.SetDefault("server.seed", true)
}

// Load reads configuration from a .env file, the config file and env.
// Env var overrides use prefix SURVEYBOARD_; SURVEYBOARD_API_URL is accepted
// as a shorthand for api.base_url.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	defaults(v)

	v.SetConfigType("toml")
	if p := os.Getenv("SURVEYBOARD_CONFIG"); p != "" {
		v.SetConfigFile(p)
	} else {
		v.AddConfigPath(filepath.Join(home(), ".config", "surveyboard"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SURVEYBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("api.base_url", "SURVEYBOARD_API_URL", "SURVEYBOARD_API_BASE_URL"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.PageSize <= 0 {
		c.UI.PageSize = 8
	}
	return c, nil
}

// Save writes cfg to Path(), creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.toast_ttl", cfg.UI.ToastTTL.String())
	v.Set("ui.open_delay", cfg.UI.OpenDelay.String())
	v.Set("ui.current_user", cfg.UI.CurrentUser)
	v.Set("ui.current_user_id", cfg.UI.CurrentUserID)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.database_path", cfg.Server.DatabasePath)
	v.Set("server.seed", cfg.Server.Seed)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
