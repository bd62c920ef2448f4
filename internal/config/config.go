// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package config loads the settings of the jcdemo command.
package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the jcdemo command.
type Config struct {
	// Placeholder is shown in the path input while it is empty.
	Placeholder string `yaml:"placeholder"`

	// Lenient enables JSON with comments and trailing commas.
	Lenient bool `yaml:"lenient"`

	// SeedFile, if set, names a JSON file edited in place of the built-in
	// document. Its contents are read once at startup.
	SeedFile string `yaml:"seed_file"`

	// Watch, if true, reloads the document when the seed file changes.
	// It has no effect unless SeedFile is set.
	Watch bool `yaml:"watch"`

	// LogFile, if set, names a file that receives logs. Logs are discarded
	// if it is empty, since the terminal belongs to the interface.
	LogFile string `yaml:"log_file"`

	// LogLevel is the minimum level logged: debug, info, warn, or error.
	LogLevel string `yaml:"log_level"`

	// Width and Height are the initial size of the view, used until the
	// terminal reports its size. Zero means unknown.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Placeholder: "Type your JSON path here...",
		LogLevel:    "info",
	}
}

// Load loads configuration from the YAML file at path. Settings not given in
// the file keep their default values. If path is empty or the file does not
// exist, Load returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		} else if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies settings from the environment.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("JCDEMO_SEED_FILE"); path != "" {
		c.SeedFile = path
	}
	if path := os.Getenv("JCDEMO_LOG_FILE"); path != "" {
		c.LogFile = path
	}
}

// Validate reports an error if c contains invalid settings.
func (c *Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level of c. An empty level means info.
func (c *Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// ReadSeed returns the contents of the seed file, or "" if none is set.
func (c *Config) ReadSeed() (string, error) {
	if c.SeedFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.SeedFile)
	if err != nil {
		return "", fmt.Errorf("read seed: %w", err)
	}
	return string(data), nil
}
