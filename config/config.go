// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the server configuration, loaded from config.toml in the data
// directory. Every field has a working default so a missing file is fine.
type Config struct {
	ApiPort     uint16 `toml:"api_port"`
	GatewayPort uint16 `toml:"gateway_port"`

	// PresenceTtlSec is how long a presence record survives without a
	// refreshing heartbeat. The store enforces it, not a sweeper.
	PresenceTtlSec int `toml:"presence_ttl_sec"`

	// CommandDeadlineSec is how long a dispatched command may stay pending
	// before the sweep declares it timed out.
	CommandDeadlineSec int `toml:"command_deadline_sec"`

	// SweepIntervalSec is the tick of the background command sweep.
	SweepIntervalSec int `toml:"sweep_interval_sec"`

	// TerminalGraceSec is how long a finished command row is kept around so
	// dashboards can observe the final status before it is cleared.
	TerminalGraceSec int `toml:"terminal_grace_sec"`

	// MqttBroker enables presence-change publishing when non-empty,
	// e.g. "tcp://broker.pit:1883".
	MqttBroker string `toml:"mqtt_broker"`

	// DeviceTokenDays is the validity of freshly minted device tokens.
	DeviceTokenDays int `toml:"device_token_days"`

	LogLevel string `toml:"log_level"`
}

const (
	defaultPresenceTtlSec     = 90
	defaultCommandDeadlineSec = 20
	defaultSweepIntervalSec   = 5
	defaultTerminalGraceSec   = 60
	defaultDeviceTokenDays    = 365

	minPresenceTtlSec     = 30
	minCommandDeadlineSec = 15
	maxCommandDeadlineSec = 30
)

func defaults() Config {
	return Config{
		ApiPort:            8080,
		GatewayPort:        8443,
		PresenceTtlSec:     defaultPresenceTtlSec,
		CommandDeadlineSec: defaultCommandDeadlineSec,
		SweepIntervalSec:   defaultSweepIntervalSec,
		TerminalGraceSec:   defaultTerminalGraceSec,
		DeviceTokenDays:    defaultDeviceTokenDays,
	}
}

// Load reads the config file at path. A missing file yields the defaults;
// an unreadable or invalid file is an error.
func Load(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.PresenceTtlSec < minPresenceTtlSec {
		return fmt.Errorf("presence_ttl_sec must be at least %d, got %d", minPresenceTtlSec, c.PresenceTtlSec)
	}
	if c.CommandDeadlineSec < minCommandDeadlineSec || c.CommandDeadlineSec > maxCommandDeadlineSec {
		return fmt.Errorf("command_deadline_sec must be within [%d, %d], got %d",
			minCommandDeadlineSec, maxCommandDeadlineSec, c.CommandDeadlineSec)
	}
	if c.SweepIntervalSec < 1 {
		return fmt.Errorf("sweep_interval_sec must be positive, got %d", c.SweepIntervalSec)
	}
	if c.TerminalGraceSec < 0 {
		return fmt.Errorf("terminal_grace_sec must not be negative, got %d", c.TerminalGraceSec)
	}
	return nil
}

func (c Config) PresenceTtl() time.Duration {
	return time.Duration(c.PresenceTtlSec) * time.Second
}

func (c Config) CommandDeadline() time.Duration {
	return time.Duration(c.CommandDeadlineSec) * time.Second
}

func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

func (c Config) TerminalGrace() time.Duration {
	return time.Duration(c.TerminalGraceSec) * time.Second
}

func (c Config) DeviceTokenValidity() time.Duration {
	return time.Duration(c.DeviceTokenDays) * 24 * time.Hour
}
