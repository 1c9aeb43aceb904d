// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pitlink/trackside-cloud/auth"
	"github.com/pitlink/trackside-cloud/presence"
	"github.com/pitlink/trackside-cloud/server"
	"github.com/pitlink/trackside-cloud/storage"
	"github.com/pitlink/trackside-cloud/storage/commands"
	"github.com/pitlink/trackside-cloud/storage/fleet"
)

type client struct {
	srv   *httptest.Server
	token string
}

func (c client) do(t *testing.T, method, resource string, body []byte, status int) []byte {
	req, err := http.NewRequest(method, c.srv.URL+resource, bytes.NewReader(body))
	require.Nil(t, err)
	if c.token != "" {
		req.Header.Set(HeaderOperatorToken, c.token)
	}
	res, err := c.srv.Client().Do(req)
	require.Nil(t, err)
	buf, err := io.ReadAll(res.Body)
	require.Nil(t, err)
	require.Equal(t, status, res.StatusCode, string(buf))
	return buf
}

func (c client) GET(t *testing.T, resource string, status int) []byte {
	return c.do(t, http.MethodGet, resource, nil, status)
}

func (c client) POST(t *testing.T, resource string, body string, status int) []byte {
	return c.do(t, http.MethodPost, resource, []byte(body), status)
}

type fixture struct {
	client   client
	fleet    *fleet.Storage
	commands *commands.Storage
	presence presence.Store
}

func (f fixture) newClient(t *testing.T, scopes string) client {
	s, err := auth.ScopesFromString(scopes)
	require.Nil(t, err)
	value, err := f.fleet.TokenCreate("test "+scopes, s, time.Now().Add(time.Hour))
	require.Nil(t, err)
	return client{srv: f.client.srv, token: value}
}

func testWrapper(t *testing.T, testFunc func(f fixture)) {
	tmpdir := t.TempDir()
	db, err := storage.NewDb(filepath.Join(tmpdir, "sql.db"))
	require.Nil(t, err)
	t.Cleanup(func() {
		require.Nil(t, db.Close())
	})
	fs, err := storage.NewFs(tmpdir)
	require.Nil(t, err)

	fleetStorage, err := fleet.NewStorage(db, fs)
	require.Nil(t, err)
	commandStorage, err := commands.NewStorage(db)
	require.Nil(t, err)
	store := presence.NewStore(90 * time.Second)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	e := server.NewEchoServer("api-test", logger)
	RegisterHandlers(e, fleetStorage, commandStorage, store)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	f := fixture{
		client:   client{srv: srv},
		fleet:    fleetStorage,
		commands: commandStorage,
		presence: store,
	}
	f.client = f.newClient(t, "vehicles:read,commands:dispatch,diagnostics:read")
	testFunc(f)
}

func (f fixture) provision(t *testing.T) {
	_, err := f.fleet.EventCreate("monza-2026", "Monza 6h", fleet.EventLive)
	require.Nil(t, err)
	_, err = f.fleet.VehicleCreate("gt3-07", "No. 7 GT3")
	require.Nil(t, err)
	require.Nil(t, f.fleet.VehicleAssign("gt3-07", "monza-2026"))
}

func TestOperatorAuth(t *testing.T) {
	testWrapper(t, func(f fixture) {
		anon := client{srv: f.client.srv}
		_ = anon.GET(t, "/v1/vehicles", 401)

		bogus := client{srv: f.client.srv, token: "opr_nonsense"}
		_ = bogus.GET(t, "/v1/vehicles", 401)
	})
}

func TestScopeEnforcement(t *testing.T) {
	testWrapper(t, func(f fixture) {
		f.provision(t)
		readOnly := f.newClient(t, "vehicles:read")

		_ = readOnly.GET(t, "/v1/vehicles", 200)
		_ = readOnly.POST(t, "/events/monza-2026/vehicles/gt3-07/command",
			`{"command_type":"start_stream"}`, 403)
		_ = readOnly.GET(t, "/diagnostics?event_id=monza-2026", 403)

		// Dispatch implies read.
		dispatcher := f.newClient(t, "commands:dispatch")
		_ = dispatcher.GET(t, "/events/monza-2026/vehicles/gt3-07/command", 404)
	})
}

func TestCommandDispatch(t *testing.T) {
	testWrapper(t, func(f fixture) {
		f.provision(t)

		buf := f.client.POST(t, "/events/monza-2026/vehicles/gt3-07/command",
			`{"command_type":"switch_camera","parameters":{"camera_id":"pov"}}`, 202)
		var resp DispatchResp
		require.Nil(t, json.Unmarshal(buf, &resp))
		require.NotEmpty(t, resp.RequestID)
		require.Equal(t, "pending", resp.Status)

		// Second dispatch while one is pending is rejected, not queued.
		_ = f.client.POST(t, "/events/monza-2026/vehicles/gt3-07/command",
			`{"command_type":"stop_stream"}`, 409)

		buf = f.client.GET(t, "/events/monza-2026/vehicles/gt3-07/command", 200)
		var cmd commands.PendingCommand
		require.Nil(t, json.Unmarshal(buf, &cmd))
		require.Equal(t, resp.RequestID, cmd.RequestID)
		require.Equal(t, "set_active_camera", cmd.CommandType)
		require.JSONEq(t, `{"camera_id":"cockpit"}`, string(cmd.Parameters))
	})
}

func TestCommandDispatchValidation(t *testing.T) {
	testWrapper(t, func(f fixture) {
		f.provision(t)

		_ = f.client.POST(t, "/events/monza-2026/vehicles/gt3-07/command",
			`{"command_type":"eject"}`, 400)
		_ = f.client.POST(t, "/events/monza-2026/vehicles/gt3-07/command",
			`{"command_type":"set_active_camera","parameters":{}}`, 400)
		_ = f.client.POST(t, "/events/spa-2026/vehicles/gt3-07/command",
			`{"command_type":"start_stream"}`, 404)
		_ = f.client.POST(t, "/events/monza-2026/vehicles/gt3-11/command",
			`{"command_type":"start_stream"}`, 404)

		_ = f.client.GET(t, "/events/monza-2026/vehicles/gt3-07/command", 404)
	})
}

func TestDiagnostics(t *testing.T) {
	testWrapper(t, func(f fixture) {
		f.provision(t)

		_ = f.client.GET(t, "/diagnostics", 400)
		_ = f.client.GET(t, "/diagnostics?event_id=spa-2026", 404)

		buf := f.client.GET(t, "/diagnostics?event_id=monza-2026", 200)
		var resp DiagnosticsResp
		require.Nil(t, json.Unmarshal(buf, &resp))
		require.Equal(t, presence.StatusUnknown, resp.EdgeStatus)
		require.False(t, resp.IsOnline)

		f.presence.Touch("gt3-07", "10.0.0.7", "1.4.2")
		buf = f.client.GET(t, "/diagnostics?event_id=monza-2026", 200)
		require.Nil(t, json.Unmarshal(buf, &resp))
		require.Equal(t, presence.StatusOnline, resp.EdgeStatus)
		require.True(t, resp.IsOnline)
		require.Equal(t, "10.0.0.7", resp.EdgeIP)
		require.Equal(t, "1.4.2", resp.EdgeVersion)
		require.Greater(t, resp.EdgeLastSeenMs, int64(0))
	})
}

func TestVehicles(t *testing.T) {
	testWrapper(t, func(f fixture) {
		f.provision(t)
		_, err := f.fleet.VehicleCreate("gt3-11", "No. 11 GT3")
		require.Nil(t, err)

		f.presence.Touch("gt3-07", "10.0.0.7", "1.4.2")
		f.presence.SetAnnouncement("gt3-07", presence.Announcement{
			DeviceURL:    "https://10.0.0.7:8443",
			Capabilities: []string{"rtmp", "can"},
		})

		buf := f.client.GET(t, "/v1/vehicles", 200)
		var items []VehicleItem
		require.Nil(t, json.Unmarshal(buf, &items))
		require.Len(t, items, 2)

		buf = f.client.GET(t, "/v1/vehicles/gt3-07", 200)
		var detail VehicleDetail
		require.Nil(t, json.Unmarshal(buf, &detail))
		require.Equal(t, presence.StatusOnline, detail.EdgeStatus)
		require.Equal(t, "monza-2026", detail.EventID)
		require.Equal(t, "https://10.0.0.7:8443", detail.DeviceURL)

		// Never heard from; provisioned but unknown, not offline.
		buf = f.client.GET(t, "/v1/vehicles/gt3-11", 200)
		require.Nil(t, json.Unmarshal(buf, &detail))
		require.Equal(t, presence.StatusUnknown, detail.EdgeStatus)

		_ = f.client.GET(t, "/v1/vehicles/gt3-99", 404)
	})
}
