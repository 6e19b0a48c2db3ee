package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the user-level defaults for ryu. Every field can be
// overridden per invocation by a command flag.
type Config struct {
	// Remote is the git remote pushed to and used for platform detection
	Remote string `mapstructure:"remote"`
	// Trunk overrides trunk detection when set
	Trunk string `mapstructure:"trunk"`
	// Draft makes new pull requests drafts by default
	Draft bool `mapstructure:"draft"`
	// Workers bounds concurrent stack syncs
	Workers int `mapstructure:"workers"`
}

// Load reads the config file from ~/.config/ryu/config.yaml, layered
// under RYU_* environment variables. A missing file yields defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("RYU")
	v.AutomaticEnv()

	v.SetDefault("remote", "origin")
	v.SetDefault("trunk", "")
	v.SetDefault("draft", false)
	v.SetDefault("workers", 0)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ryu"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ryu"), nil
}
