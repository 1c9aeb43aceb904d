// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.Nil(t, err)
	require.Equal(t, uint16(8080), cfg.ApiPort)
	require.Equal(t, 90*time.Second, cfg.PresenceTtl())
	require.Equal(t, 20*time.Second, cfg.CommandDeadline())
	require.Equal(t, 5*time.Second, cfg.SweepInterval())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
api_port = 9090
command_deadline_sec = 30
mqtt_broker = "tcp://broker.pit:1883"
`
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.Nil(t, err)
	require.Equal(t, uint16(9090), cfg.ApiPort)
	require.Equal(t, 30*time.Second, cfg.CommandDeadline())
	require.Equal(t, "tcp://broker.pit:1883", cfg.MqttBroker)
	// untouched fields keep their defaults
	require.Equal(t, uint16(8443), cfg.GatewayPort)
}

func TestLoadRejectsOutOfBounds(t *testing.T) {
	for name, content := range map[string]string{
		"ttl too short":     "presence_ttl_sec = 10",
		"deadline too long": "command_deadline_sec = 120",
		"deadline too low":  "command_deadline_sec = 5",
		"bad sweep":         "sweep_interval_sec = 0",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := Load(path)
			require.NotNil(t, err)
		})
	}
}
