// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pitlink/trackside-cloud/auth"
	"github.com/pitlink/trackside-cloud/presence"
	"github.com/pitlink/trackside-cloud/server"
)

// @Summary Edge connectivity diagnostics for an event
// @Produce json
// @Success 200 api.DiagnosticsResp
// @Router  /diagnostics [get]
func (h handlers) diagnostics(c echo.Context) error {
	if err := checkScope(c, auth.ScopeDiagnosticsR, "diagnostics:read"); err != nil {
		return err
	}

	eventID := c.QueryParam("event_id")
	if eventID == "" {
		return server.EchoError(c, nil, http.StatusBadRequest, "Missing event_id")
	}
	event, err := h.fleet.EventGet(eventID)
	if err != nil {
		return server.EchoError(c, err, http.StatusInternalServerError, "Unable to look up event")
	}
	if event == nil {
		return server.EchoError(c, nil, http.StatusNotFound, "Unknown event")
	}

	vehicles, err := h.fleet.VehiclesForEvent(eventID)
	if err != nil {
		return server.EchoError(c, err, http.StatusInternalServerError, "Unable to list vehicles")
	}

	// Purely derived from stored presence; this endpoint never writes.
	resp := DiagnosticsResp{EdgeStatus: presence.StatusUnknown}
	for _, v := range vehicles {
		rec, ok := h.presence.LastSeen(v.ID)
		if !ok || rec.LastSeenMs <= resp.EdgeLastSeenMs {
			continue
		}
		resp.EdgeLastSeenMs = rec.LastSeenMs
		resp.EdgeIP = rec.IP
		resp.EdgeVersion = rec.Version
	}
	if resp.EdgeLastSeenMs > 0 {
		resp.EdgeStatus = presence.Derive(resp.EdgeLastSeenMs, time.Now().UnixMilli())
		resp.IsOnline = resp.EdgeStatus.IsOnline()
	}
	return c.JSON(http.StatusOK, resp)
}
