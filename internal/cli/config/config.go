package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultServer is used when no server is configured
const DefaultServer = "http://localhost:8000"

// Config stores CLI configuration
type Config struct {
	Server     string        `mapstructure:"server"`      // Backend base URL
	StorageDir string        `mapstructure:"storage_dir"` // Persisted session storage
	Timeout    time.Duration `mapstructure:"timeout"`     // Per-request timeout (streams excluded)
	Log        LogConfig     `mapstructure:"log"`
	Device     DeviceConfig  `mapstructure:"device"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	AddSource bool   `mapstructure:"add_source"`
}

// DeviceConfig controls the device context attached to chat queries
type DeviceConfig struct {
	Timezone           string        `mapstructure:"timezone"`       // IANA name override
	ShareLocation      bool          `mapstructure:"share_location"` // Geolocation permission
	Latitude           *float64      `mapstructure:"latitude"`
	Longitude          *float64      `mapstructure:"longitude"`
	GeolocationURL     string        `mapstructure:"geolocation_url"` // Used when no fixed coordinates are set
	GeolocationTimeout time.Duration `mapstructure:"geolocation_timeout"`
	BatteryDir         string        `mapstructure:"battery_dir"` // sysfs power_supply directory
}

// HomeDir returns ~/.cora
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cora"), nil
}

// GetConfigPath returns the default configuration file path (~/.cora/config.yaml)
func GetConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from configPath, or from ~/.cora/config.yaml when
// configPath is empty. A missing default file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := HomeDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("CORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.StorageDir == "" {
		dir, err := HomeDir()
		if err != nil {
			return nil, err
		}
		cfg.StorageDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server", DefaultServer)
	v.SetDefault("storage_dir", "")
	v.SetDefault("timeout", 30*time.Second)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.file_path", "")
	v.SetDefault("log.add_source", false)

	v.SetDefault("device.timezone", "")
	v.SetDefault("device.share_location", false)
	v.SetDefault("device.geolocation_url", "")
	v.SetDefault("device.geolocation_timeout", 10*time.Second)
	v.SetDefault("device.battery_dir", "/sys/class/power_supply")
}

// Validate 验证配置
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil || c.Server == "" {
		return fmt.Errorf("invalid server URL: %q", c.Server)
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported server scheme: %s", u.Scheme)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", c.Log.Format)
	}

	if (c.Device.Latitude == nil) != (c.Device.Longitude == nil) {
		return fmt.Errorf("device.latitude and device.longitude must be set together")
	}
	if c.Device.GeolocationTimeout <= 0 {
		return fmt.Errorf("device.geolocation_timeout must be positive")
	}

	return nil
}
