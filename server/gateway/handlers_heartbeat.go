// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package gateway

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pitlink/trackside-cloud/notify"
	"github.com/pitlink/trackside-cloud/presence"
	"github.com/pitlink/trackside-cloud/server"
)

// @Summary Lightweight presence announcement
// @Accept  json
// @Produce json
// @Success 200 gateway.HeartbeatSimpleResp
// @Router  /telemetry/heartbeat [post]
func (h handlers) heartbeatSimple(c echo.Context) error {
	vehicle := CtxGetVehicle(c.Request().Context())

	body, err := server.ReadBody(c)
	if err != nil {
		return err
	}
	var hb HeartbeatSimple
	if err := server.ParseJsonBodyOpen(c, body, &hb); err != nil {
		return err
	}

	h.presence.Touch(vehicle.ID, c.RealIP(), hb.Version)
	h.presence.SetAnnouncement(vehicle.ID, presence.Announcement{
		DeviceURL:    hb.DeviceURL,
		Capabilities: hb.Capabilities,
	})
	server.MetricHeartbeats.WithLabelValues("simple").Inc()

	// The response carries the event context whatever the event's business
	// status is. Liveness reporting must keep working for a vehicle that is
	// unassigned or whose event is not live yet.
	resp := HeartbeatSimpleResp{
		EventStatus: "none",
		VehicleID:   vehicle.ID,
		ServerTsMs:  time.Now().UnixMilli(),
	}
	event, err := vehicle.Event()
	if err != nil {
		return server.EchoError(c, err, http.StatusInternalServerError, "Unable to look up event")
	}
	if event != nil {
		resp.EventID = event.ID
		resp.EventStatus = event.Status
	}

	h.notifyPresence(vehicle.ID, resp.EventID)
	return c.JSON(http.StatusOK, resp)
}

// @Summary Detailed event-scoped status report
// @Accept  json
// @Produce json
// @Success 200 gateway.HeartbeatAck
// @Router  /edge/heartbeat [post]
func (h handlers) heartbeatDetailed(c echo.Context) error {
	vehicle := CtxGetVehicle(c.Request().Context())

	// Parse before touching any state: a malformed payload must leave even
	// the last-seen record unchanged. Unknown fields are fine, though: the
	// status report is open-ended and newer devices send more telemetry.
	body, err := server.ReadBody(c)
	if err != nil {
		return err
	}
	var hb HeartbeatDetailed
	if err := server.ParseJsonBodyOpen(c, body, &hb); err != nil {
		return err
	}

	eventID := ""
	event, err := vehicle.Event()
	if err != nil {
		return server.EchoError(c, err, http.StatusInternalServerError, "Unable to look up event")
	}
	if event != nil {
		eventID = event.ID
	}

	h.presence.Touch(vehicle.ID, c.RealIP(), hb.Version)
	h.presence.SetStatus(eventID, vehicle.ID, presence.DetailedStatus{
		StreamingStatus: hb.StreamingStatus,
		Cameras:         hb.Cameras,
		LastGpsTs:       hb.LastGpsTs,
		LastCanTs:       hb.LastCanTs,
		Version:         hb.Version,
	})
	server.MetricHeartbeats.WithLabelValues("detailed").Inc()

	h.notifyPresence(vehicle.ID, eventID)
	return c.JSON(http.StatusOK, HeartbeatAck{Ack: true})
}

func (h handlers) notifyPresence(vehicleID, eventID string) {
	rec, ok := h.presence.LastSeen(vehicleID)
	if !ok {
		return
	}
	h.notifier.PresenceChanged(notify.PresenceEvent{
		VehicleID:  vehicleID,
		EventID:    eventID,
		Status:     string(presence.StatusOnline),
		LastSeenMs: rec.LastSeenMs,
	})
}
