package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Level   string `mapstructure:"level"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`
	NoColor bool   `mapstructure:"no_color"`

	// Default values for the watch command
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// DefaultsConfig holds default values applied before flags
type DefaultsConfig struct {
	ADB          string `mapstructure:"adb"`
	PIDWidth     int    `mapstructure:"pid_width"`
	PackageWidth int    `mapstructure:"package_width"`
	TagWidth     int    `mapstructure:"tag_width"`

	// Filter defaults
	Tags           []string `mapstructure:"tags"`
	IgnoredTags    []string `mapstructure:"ignored_tags"`
	HideSystemTags bool     `mapstructure:"hide_system_tags"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Level:   "verbose",
		Quiet:   false,
		Verbose: false,
		Defaults: DefaultsConfig{
			ADB:          "adb",
			PIDWidth:     5,
			PackageWidth: 20,
			TagWidth:     20,
		},
	}
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.acw.yaml or ./.acw.yml
// 2. ~/.acw.yaml or ~/.acw.yml
// 3. $XDG_CONFIG_HOME/acw/config.yaml (or ~/.config/acw/config.yaml)
// 4. /etc/acw/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	configFile := findConfigFile()
	if configFile != "" {
		v := viper.New()
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}

		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".acw.yaml", ".acw.yml", "acw.yaml", "acw.yml"}

	home, homeErr := os.UserHomeDir()

	// XDG_CONFIG_HOME or ~/.config
	configDir, configDirErr := os.UserConfigDir()

	// Search locations in order of precedence (highest first)
	var searchPaths []string

	cwd, err := os.Getwd()
	if err == nil {
		searchPaths = append(searchPaths, cwd)
	}

	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}

	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "acw"))
	}

	searchPaths = append(searchPaths, "/etc/acw")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		// Also check for config.yaml in subdirs
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ACW_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("ACW_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("ACW_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("ACW_NO_COLOR"); v == "true" || v == "1" {
		cfg.NoColor = true
	}
	if v := os.Getenv("ACW_ADB"); v != "" {
		cfg.Defaults.ADB = v
	}
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}
