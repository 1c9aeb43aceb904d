// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ActiveContext string `yaml:"active_context"`
	Contexts      map[string]Context
}

// Context is one server the CLI can talk to: the pit-wall laptop typically
// has one per venue.
type Context struct {
	URL   string
	Token string
}

// configPath resolves where the CLI configuration lives. TSCLI_CONFIG
// overrides the default for tests and for running against several stacks.
func configPath() (string, error) {
	if p := os.Getenv("TSCLI_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tscli.yaml"), nil
}

// LoadConfig reads the CLI configuration. A missing file is an error: every
// command except login needs a context to talk to.
func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file not found at %s, run `tscli login` first", path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

// GetContext retrieves the context by name, falling back to the configured
// active context when name is empty.
func (c *Config) GetContext(name string) (*Context, error) {
	if name == "" {
		if c.ActiveContext == "" {
			return nil, fmt.Errorf("no default context set")
		}
		name = c.ActiveContext
	}

	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context '%s' not found", name)
	}
	if ctx.URL == "" {
		return nil, fmt.Errorf("context '%s' has no URL configured", name)
	}
	if ctx.Token == "" {
		return nil, fmt.Errorf("context '%s' has no token configured", name)
	}
	return &ctx, nil
}

// SaveConfig writes the CLI configuration back, creating the directory on
// first login. The file holds operator tokens, hence the 0600 mode.
func SaveConfig(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
