// Package config loads the user's Ember settings file.
//
// The file lives at ~/.config/ember/ember.yaml by default and may define:
//
//	default_context:
//	  author_name: Ada Lovelace
//	templates_dir: ~/.ember/templates
//	replay_dir: ~/.ember/replay
//	abbreviations:
//	  corp: https://git.example.com/{0}.git
//
// A missing file is not an error; every field has a default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds user-level settings.
type Config struct {
	DefaultContext map[string]any    `mapstructure:"default_context"`
	TemplatesDir   string            `mapstructure:"templates_dir"`
	ReplayDir      string            `mapstructure:"replay_dir"`
	Abbreviations  map[string]string `mapstructure:"abbreviations"`
}

// Load reads the settings file at path. When path is empty the EMBER_CONFIG
// environment variable is consulted, then the default location.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path == "" {
		path = os.Getenv("EMBER_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ember")
		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, "ember"))
		}
	}

	cfg := defaults()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (path == "" && os.IsNotExist(err)) {
			return cfg, nil
		}
		if path != "" && os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s does not exist: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.TemplatesDir = expandHome(cfg.TemplatesDir)
	cfg.ReplayDir = expandHome(cfg.ReplayDir)
	return cfg, nil
}

func defaults() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DefaultContext: map[string]any{},
		TemplatesDir:   filepath.Join(home, ".ember", "templates"),
		ReplayDir:      filepath.Join(home, ".ember", "replay"),
		Abbreviations:  map[string]string{},
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~"+string(os.PathSeparator)) && path != "~" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
