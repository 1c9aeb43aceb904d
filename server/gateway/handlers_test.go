// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package gateway

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
	"github.com/pitlink/trackside-cloud/notify"
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
		req.Header.Set(HeaderDeviceToken, c.token)
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
	auth     server.Authenticator
	fleet    *fleet.Storage
	commands *commands.Storage
	presence presence.Store
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

	a, err := server.NewAuthenticator("gateway-test-secret")
	require.Nil(t, err)
	notifier, err := notify.NewNotifier("")
	require.Nil(t, err)
	store := presence.NewStore(90 * time.Second)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	e := server.NewEchoServer("gateway-test", logger)
	RegisterHandlers(e, a, fleetStorage, commandStorage, store, notifier)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	_, err = fleetStorage.VehicleCreate("gt3-07", "No. 7 GT3")
	require.Nil(t, err)
	token, err := auth.NewDeviceToken(a, "gt3-07", time.Hour)
	require.Nil(t, err)

	testFunc(fixture{
		client:   client{srv: srv, token: token},
		auth:     a,
		fleet:    fleetStorage,
		commands: commandStorage,
		presence: store,
	})
}

func TestAuthRequired(t *testing.T) {
	testWrapper(t, func(f fixture) {
		anon := client{srv: f.client.srv}
		_ = anon.POST(t, "/telemetry/heartbeat", `{}`, 401)

		garbage := client{srv: f.client.srv, token: "not-a-token"}
		_ = garbage.POST(t, "/telemetry/heartbeat", `{}`, 401)

		// A well-formed token for a vehicle that was never provisioned.
		orphan, err := auth.NewDeviceToken(f.auth, "gt3-99", time.Hour)
		require.Nil(t, err)
		ghost := client{srv: f.client.srv, token: orphan}
		_ = ghost.POST(t, "/telemetry/heartbeat", `{}`, 403)

		// None of the rejected heartbeats left a presence record behind.
		_, ok := f.presence.LastSeen("gt3-07")
		require.False(t, ok)
		_, ok = f.presence.LastSeen("gt3-99")
		require.False(t, ok)
	})
}

func TestHeartbeatSimple(t *testing.T) {
	testWrapper(t, func(f fixture) {
		buf := f.client.POST(t, "/telemetry/heartbeat",
			`{"device_url":"https://10.0.0.7:8443","capabilities":["rtmp"],"version":"1.4.2"}`, 200)

		var resp HeartbeatSimpleResp
		require.Nil(t, json.Unmarshal(buf, &resp))
		require.Equal(t, "gt3-07", resp.VehicleID)
		require.Empty(t, resp.EventID)
		require.Equal(t, "none", resp.EventStatus)
		require.Greater(t, resp.ServerTsMs, int64(0))

		ann, ok := f.presence.Announcement("gt3-07")
		require.True(t, ok)
		require.Equal(t, "https://10.0.0.7:8443", ann.DeviceURL)
		rec, ok := f.presence.LastSeen("gt3-07")
		require.True(t, ok)
		require.Equal(t, "1.4.2", rec.Version)
	})
}

func TestHeartbeatSimpleWithEvent(t *testing.T) {
	testWrapper(t, func(f fixture) {
		_, err := f.fleet.EventCreate("monza-2026", "Monza 6h", fleet.EventScheduled)
		require.Nil(t, err)
		require.Nil(t, f.fleet.VehicleAssign("gt3-07", "monza-2026"))

		// The event is only scheduled, but presence reporting must carry the
		// assignment anyway.
		buf := f.client.POST(t, "/telemetry/heartbeat", `{"device_url":"https://10.0.0.7:8443"}`, 200)
		var resp HeartbeatSimpleResp
		require.Nil(t, json.Unmarshal(buf, &resp))
		require.Equal(t, "monza-2026", resp.EventID)
		require.Equal(t, fleet.EventScheduled, resp.EventStatus)
	})
}

func TestHeartbeatDetailed(t *testing.T) {
	testWrapper(t, func(f fixture) {
		_, err := f.fleet.EventCreate("monza-2026", "Monza 6h", fleet.EventLive)
		require.Nil(t, err)
		require.Nil(t, f.fleet.VehicleAssign("gt3-07", "monza-2026"))

		buf := f.client.POST(t, "/edge/heartbeat",
			`{"streaming_status":"live","cameras":[{"id":"cockpit","active":true}],"last_gps_ts":1700000000,"version":"1.4.2"}`, 200)
		var ack HeartbeatAck
		require.Nil(t, json.Unmarshal(buf, &ack))
		require.True(t, ack.Ack)

		st, ok := f.presence.Status("monza-2026", "gt3-07")
		require.True(t, ok)
		require.Equal(t, "live", st.StreamingStatus)
		require.Len(t, st.Cameras, 1)

		_, ok = f.presence.LastSeen("gt3-07")
		require.True(t, ok)
	})
}

func TestHeartbeatDetailedMalformed(t *testing.T) {
	testWrapper(t, func(f fixture) {
		// A malformed payload is rejected before any presence write, the
		// last-seen record included. The 400 body is the error alone: the
		// handler must not fall through and append an ack after it.
		buf := f.client.POST(t, "/edge/heartbeat", `{"streaming_status":`, 400)
		require.NotContains(t, string(buf), `"ack"`)
		buf = f.client.POST(t, "/edge/heartbeat", `{"streaming_status":["not","a","string"]}`, 400)
		require.NotContains(t, string(buf), `"ack"`)

		_, ok := f.presence.LastSeen("gt3-07")
		require.False(t, ok)
	})
}

func TestHeartbeatDetailedExtraFields(t *testing.T) {
	testWrapper(t, func(f fixture) {
		// The status report is open-ended. A newer device sending telemetry
		// this build does not know about is still recorded as alive.
		buf := f.client.POST(t, "/edge/heartbeat",
			`{"streaming_status":"live","last_gps_ts":1700000000,"battery_pct":97}`, 200)
		var ack HeartbeatAck
		require.Nil(t, json.Unmarshal(buf, &ack))
		require.True(t, ack.Ack)

		rec, ok := f.presence.LastSeen("gt3-07")
		require.True(t, ok)
		require.Greater(t, rec.LastSeenMs, int64(0))

		st, ok := f.presence.Status("", "gt3-07")
		require.True(t, ok)
		require.Equal(t, "live", st.StreamingStatus)
	})
}

func TestCommandPoll(t *testing.T) {
	testWrapper(t, func(f fixture) {
		// Unassigned vehicle has nothing to execute.
		_ = f.client.GET(t, "/edge/command", 204)

		_, err := f.fleet.EventCreate("monza-2026", "Monza 6h", fleet.EventLive)
		require.Nil(t, err)
		require.Nil(t, f.fleet.VehicleAssign("gt3-07", "monza-2026"))
		_ = f.client.GET(t, "/edge/command", 204)

		dispatched, err := f.commands.Dispatch("monza-2026", "gt3-07", "start_stream", nil)
		require.Nil(t, err)

		buf := f.client.GET(t, "/edge/command", 200)
		var cmd commands.PendingCommand
		require.Nil(t, json.Unmarshal(buf, &cmd))
		require.Equal(t, dispatched.RequestID, cmd.RequestID)
		require.Equal(t, "start_stream", cmd.CommandType)
	})
}

func TestCommandResponse(t *testing.T) {
	testWrapper(t, func(f fixture) {
		_, err := f.fleet.EventCreate("monza-2026", "Monza 6h", fleet.EventLive)
		require.Nil(t, err)
		require.Nil(t, f.fleet.VehicleAssign("gt3-07", "monza-2026"))
		cmd, err := f.commands.Dispatch("monza-2026", "gt3-07", "stop_stream", nil)
		require.Nil(t, err)

		buf := f.client.POST(t, "/events/monza-2026/edge/command-response",
			`{"command_id":"`+cmd.RequestID+`","status":"success"}`, 200)
		var resp CommandResponseResp
		require.Nil(t, json.Unmarshal(buf, &resp))
		require.True(t, resp.Applied)

		// The duplicate succeeds as a no-op.
		buf = f.client.POST(t, "/events/monza-2026/edge/command-response",
			`{"command_id":"`+cmd.RequestID+`","status":"failed","message":"late"}`, 200)
		require.Nil(t, json.Unmarshal(buf, &resp))
		require.False(t, resp.Applied)

		got, err := f.commands.Get(cmd.RequestID)
		require.Nil(t, err)
		require.Equal(t, commands.StatusSuccess, got.Status)
	})
}

func TestCommandResponseValidation(t *testing.T) {
	testWrapper(t, func(f fixture) {
		_, err := f.fleet.EventCreate("monza-2026", "Monza 6h", fleet.EventLive)
		require.Nil(t, err)
		require.Nil(t, f.fleet.VehicleAssign("gt3-07", "monza-2026"))
		cmd, err := f.commands.Dispatch("monza-2026", "gt3-07", "stop_stream", nil)
		require.Nil(t, err)

		_ = f.client.POST(t, "/events/monza-2026/edge/command-response",
			`{"command_id":"`+cmd.RequestID+`","status":"timeout"}`, 400)
		_ = f.client.POST(t, "/events/monza-2026/edge/command-response",
			`{"command_id":"no-such-id","status":"success"}`, 404)
		_ = f.client.POST(t, "/events/spa-2026/edge/command-response",
			`{"command_id":"`+cmd.RequestID+`","status":"success"}`, 404)

		// Another provisioned vehicle cannot resolve this command.
		_, err = f.fleet.VehicleCreate("gt3-11", "No. 11 GT3")
		require.Nil(t, err)
		otherToken, err := auth.NewDeviceToken(f.auth, "gt3-11", time.Hour)
		require.Nil(t, err)
		other := client{srv: f.client.srv, token: otherToken}
		_ = other.POST(t, "/events/monza-2026/edge/command-response",
			`{"command_id":"`+cmd.RequestID+`","status":"success"}`, 403)

		// Nothing above resolved it.
		got, err := f.commands.Get(cmd.RequestID)
		require.Nil(t, err)
		require.Equal(t, commands.StatusPending, got.Status)
	})
}
