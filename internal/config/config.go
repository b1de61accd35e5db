// Package config provides configuration management for Focus.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/focus-cli/internal/domain"
)

// Player names accepted by media.player.
const (
	PlayerNone = "none"
	PlayerMPV  = "mpv"
)

// Config holds all configuration for the Focus application.
type Config struct {
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
	Timer         TimerConfig        `mapstructure:"timer"`
	Defaults      DefaultsConfig     `mapstructure:"defaults"`
	Media         MediaConfig        `mapstructure:"media"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	MCP           MCPConfig          `mapstructure:"mcp"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig holds logging settings. An empty file means data_dir/focus.log.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// TimerConfig holds clock settings.
type TimerConfig struct {
	TickInterval Duration `mapstructure:"tick_interval"`
}

// DefaultsConfig seeds the timer and app settings when nothing is persisted.
type DefaultsConfig struct {
	FocusDuration int     `mapstructure:"focus_duration"`
	BreakDuration int     `mapstructure:"break_duration"`
	TotalHours    float64 `mapstructure:"total_hours"`
	Volume        int     `mapstructure:"volume"`
	Theme         string  `mapstructure:"theme"`
}

// MediaConfig selects the player used for vibes.
type MediaConfig struct {
	Player  string `mapstructure:"player"`
	MPVPath string `mapstructure:"mpv_path"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Sound bool `mapstructure:"sound"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			DataDir: "~/.focus",
		},
		Log: LogConfig{
			Level: "info",
		},
		Timer: TimerConfig{
			TickInterval: Duration(time.Second),
		},
		Defaults: DefaultsConfig{
			FocusDuration: domain.DefaultFocusDuration,
			BreakDuration: domain.DefaultBreakDuration,
			TotalHours:    domain.DefaultTotalHours,
			Volume:        domain.DefaultVolume,
			Theme:         string(domain.ThemeDefault),
		},
		Media: MediaConfig{
			Player:  PlayerNone,
			MPVPath: "mpv",
		},
		Notifications: NotificationConfig{
			Sound: true,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
	}
}

// Load loads the configuration from the config file, creating it with
// defaults on first run.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from an explicit path.
func LoadFrom(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.Storage.DataDir, "focus.log")
	} else if cfg.Log.File, err = expandHome(cfg.Log.File); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values a user can get wrong in the file.
func (c *Config) Validate() error {
	if err := c.TimerSettings().Validate(); err != nil {
		return fmt.Errorf("invalid [defaults]: %w", err)
	}
	if err := domain.ValidateVolume(c.Defaults.Volume); err != nil {
		return fmt.Errorf("invalid [defaults]: %w", err)
	}
	if _, err := domain.ParseTheme(c.Defaults.Theme); err != nil {
		return fmt.Errorf("invalid [defaults]: %w", err)
	}
	if c.Timer.TickInterval <= 0 {
		return fmt.Errorf("invalid [timer]: tick_interval must be positive")
	}
	switch c.Media.Player {
	case PlayerNone, PlayerMPV:
	default:
		return fmt.Errorf("invalid [media]: unknown player %q", c.Media.Player)
	}
	return nil
}

// SaveTo writes the configuration to configPath.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("timer.tick_interval", cfg.Timer.TickInterval.String())
	v.Set("defaults.focus_duration", cfg.Defaults.FocusDuration)
	v.Set("defaults.break_duration", cfg.Defaults.BreakDuration)
	v.Set("defaults.total_hours", cfg.Defaults.TotalHours)
	v.Set("defaults.volume", cfg.Defaults.Volume)
	v.Set("defaults.theme", cfg.Defaults.Theme)
	v.Set("media.player", cfg.Media.Player)
	v.Set("media.mpv_path", cfg.Media.MPVPath)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("mcp.enabled", cfg.MCP.Enabled)

	return v.WriteConfigAs(configPath)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".focus", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "focus.db")
}

// TimerSettings returns the configured default timer settings.
func (c *Config) TimerSettings() domain.TimerSettings {
	return domain.TimerSettings{
		FocusDuration: c.Defaults.FocusDuration,
		BreakDuration: c.Defaults.BreakDuration,
		TotalHours:    c.Defaults.TotalHours,
	}
}

// AppSettings returns the configured default app settings.
func (c *Config) AppSettings() domain.AppSettings {
	a := domain.DefaultAppSettings()
	a.Volume = c.Defaults.Volume
	if theme, err := domain.ParseTheme(c.Defaults.Theme); err == nil {
		a.Theme = theme
		a.LightMode = theme == domain.ThemeLight
	}
	return a
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetEnvPrefix("FOCUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("timer.tick_interval", d.Timer.TickInterval.String())
	v.SetDefault("defaults.focus_duration", d.Defaults.FocusDuration)
	v.SetDefault("defaults.break_duration", d.Defaults.BreakDuration)
	v.SetDefault("defaults.total_hours", d.Defaults.TotalHours)
	v.SetDefault("defaults.volume", d.Defaults.Volume)
	v.SetDefault("defaults.theme", d.Defaults.Theme)
	v.SetDefault("media.player", d.Media.Player)
	v.SetDefault("media.mpv_path", d.Media.MPVPath)
	v.SetDefault("notifications.sound", d.Notifications.Sound)
	v.SetDefault("mcp.enabled", d.MCP.Enabled)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}
