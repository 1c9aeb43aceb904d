// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testDataDir(t *testing.T) string {
	dir := t.TempDir()
	// Random ports so parallel test runs don't collide.
	cfg := "api_port = 0\ngateway_port = 0\n"
	require.Nil(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(cfg), 0o600))
	return dir
}

func TestServe(t *testing.T) {
	common := CommonArgs{DataDir: testDataDir(t)}
	server := ServeCmd{}

	go func() {
		require.Nil(t, server.Run(common))
	}()
	time.Sleep(time.Millisecond * 300)

	apiAddr := server.apiServer.Listener.Addr().String()
	r, err := http.Get(fmt.Sprintf("http://%s/v1/vehicles", apiAddr))
	require.Nil(t, err)
	require.Equal(t, http.StatusUnauthorized, r.StatusCode)
	require.True(t, len(r.Header.Get("X-Request-Id")) > 0)

	r, err = http.Get(fmt.Sprintf("http://%s/metrics", apiAddr))
	require.Nil(t, err)
	require.Equal(t, http.StatusOK, r.StatusCode)

	gwAddr := server.gatewayServer.Listener.Addr().String()
	r, err = http.Get(fmt.Sprintf("http://%s/edge/command", gwAddr))
	require.Nil(t, err)
	require.Equal(t, http.StatusUnauthorized, r.StatusCode)

	server.quit <- syscall.SIGTERM
}

func TestProvision(t *testing.T) {
	common := CommonArgs{DataDir: testDataDir(t)}

	require.Nil(t, VehicleAddCmd{ID: "gt3-07", Name: "No. 7 GT3"}.Run(common))
	require.Nil(t, EventCreateCmd{ID: "monza-2026", Status: "live"}.Run(common))
	require.Nil(t, EventAssignCmd{VehicleID: "gt3-07", EventID: "monza-2026"}.Run(common))
	require.Nil(t, TokenAddCmd{Description: "pit wall", Scopes: "vehicles:read", ExpiresDays: 30}.Run(common))

	_, _, db, fleetStorage, err := common.openStorage()
	require.Nil(t, err)
	defer func() {
		require.Nil(t, db.Close())
	}()

	v, err := fleetStorage.VehicleGet("gt3-07")
	require.Nil(t, err)
	require.NotNil(t, v)
	require.Equal(t, "monza-2026", v.EventID)

	// Duplicate provisioning is rejected.
	require.NotNil(t, VehicleAddCmd{ID: "gt3-07"}.Run(common))
}
