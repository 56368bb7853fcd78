package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/rssview/internal/validation"
)

type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	UI      UIConfig      `mapstructure:"ui"`
}

// BackendConfig is the feed backend the viewer talks to.
type BackendConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// ServerConfig configures the bundled reference backend.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	UpstreamTimeout   time.Duration `mapstructure:"upstream_timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	AllowPrivate      bool          `mapstructure:"allow_private"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type UIConfig struct {
	Opener string   `mapstructure:"opener"`
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Backend: BackendConfig{
			BaseURL:   "http://127.0.0.1:8080",
			Timeout:   30 * time.Second,
			UserAgent: "rssview/1.0 (https://github.com/pders01/rssview)",
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:8080",
			UpstreamTimeout:   60 * time.Second,
			UserAgent:         "rssss",
			RequestsPerSecond: 2,
			Burst:             5,
			AllowPrivate:      false,
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(homeDir, ".rssview", "rssview.log"),
		},
		UI: UIConfig{
			Opener: getDefaultOpener(),
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#EF4444",
			},
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// ConfigDir is where the config file is looked up by default.
func ConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "rssview")
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	for key, value := range flatten(defaultConfig()) {
		v.SetDefault(key, value)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RSSVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.Log.File != "" {
		logFile, err := validation.NewFilePathValidator().ValidateFile(config.Log.File)
		if err != nil {
			return nil, fmt.Errorf("invalid log.file: %w", err)
		}
		config.Log.File = logFile
	}
	config.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(config.Backend.BaseURL), "/")

	return &config, nil
}

// flatten lists every leaf setting under its dotted key. Leaf keys are what
// viper binds environment variables to.
func flatten(cfg *Config) map[string]interface{} {
	return map[string]interface{}{
		"backend.base_url":           cfg.Backend.BaseURL,
		"backend.timeout":            cfg.Backend.Timeout,
		"backend.user_agent":         cfg.Backend.UserAgent,
		"server.addr":                cfg.Server.Addr,
		"server.upstream_timeout":    cfg.Server.UpstreamTimeout,
		"server.user_agent":          cfg.Server.UserAgent,
		"server.requests_per_second": cfg.Server.RequestsPerSecond,
		"server.burst":               cfg.Server.Burst,
		"server.allow_private":       cfg.Server.AllowPrivate,
		"log.level":                  cfg.Log.Level,
		"log.file":                   cfg.Log.File,
		"ui.opener":                  cfg.UI.Opener,
		"ui.colors.primary":          cfg.UI.Colors.Primary,
		"ui.colors.secondary":        cfg.UI.Colors.Secondary,
		"ui.colors.accent":           cfg.UI.Colors.Accent,
		"ui.colors.text":             cfg.UI.Colors.Text,
		"ui.colors.muted":            cfg.UI.Colors.Muted,
		"ui.colors.error":            cfg.UI.Colors.Error,
	}
}

func Save(config *Config, path string) error {
	v := viper.New()

	for key, value := range flatten(config) {
		// Durations as strings keep the TOML readable
		if d, ok := value.(time.Duration); ok {
			value = d.String()
		}
		v.Set(key, value)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
