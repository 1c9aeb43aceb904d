// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package gateway

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pitlink/trackside-cloud/notify"
	"github.com/pitlink/trackside-cloud/server"
	"github.com/pitlink/trackside-cloud/storage/commands"
)

// @Summary Fetch the pending command for the device's current event
// @Produce json
// @Success 200 commands.PendingCommand
// @Success 204
// @Router  /edge/command [get]
func (h handlers) commandPoll(c echo.Context) error {
	vehicle := CtxGetVehicle(c.Request().Context())

	event, err := vehicle.Event()
	if err != nil {
		return server.EchoError(c, err, http.StatusInternalServerError, "Unable to look up event")
	}
	if event == nil {
		// Commands are event-scoped; an unassigned vehicle has none.
		return c.NoContent(http.StatusNoContent)
	}

	cmd, err := h.commands.Pending(event.ID, vehicle.ID)
	if err != nil {
		return server.EchoError(c, err, http.StatusInternalServerError, "Unable to look up command")
	}
	if cmd == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, cmd)
}

// @Summary Report the outcome of a delivered command
// @Accept  json
// @Produce json
// @Success 200 gateway.CommandResponseResp
// @Router  /events/:event_id/edge/command-response [post]
func (h handlers) commandResponse(c echo.Context) error {
	vehicle := CtxGetVehicle(c.Request().Context())
	eventID := c.Param("event_id")

	body, err := server.ReadBody(c)
	if err != nil {
		return err
	}
	// Like the heartbeats, edge payloads tolerate unknown fields.
	var resp CommandResponse
	if err := server.ParseJsonBodyOpen(c, body, &resp); err != nil {
		return err
	}

	outcome := commands.Status(resp.Status)
	if outcome != commands.StatusSuccess && outcome != commands.StatusFailed {
		return server.EchoError(c, nil, http.StatusBadRequest, "Status must be success or failed")
	}

	cmd, err := h.commands.Get(resp.CommandID)
	if errors.Is(err, commands.ErrNotFound) {
		return server.EchoError(c, nil, http.StatusNotFound, "Unknown command id")
	} else if err != nil {
		return server.EchoError(c, err, http.StatusInternalServerError, "Unable to look up command")
	}
	if cmd.EventID != eventID {
		return server.EchoError(c, nil, http.StatusNotFound, "Unknown command id")
	}
	if cmd.VehicleID != vehicle.ID {
		return server.EchoError(c, nil, http.StatusForbidden, "Command belongs to another vehicle")
	}

	applied, err := h.commands.Acknowledge(resp.CommandID, vehicle.ID, outcome, resp.Message)
	if err != nil {
		return server.EchoError(c, err, http.StatusInternalServerError, "Unable to apply acknowledgement")
	}
	if applied {
		server.MetricCommandAcks.WithLabelValues(resp.Status).Inc()
		h.notifier.CommandResolved(notify.CommandEvent{
			RequestID:   cmd.RequestID,
			EventID:     cmd.EventID,
			VehicleID:   cmd.VehicleID,
			CommandType: cmd.CommandType,
			Status:      resp.Status,
			Message:     resp.Message,
		})
	}
	// A duplicate or late acknowledgement is not an error; the stored
	// outcome simply stands.
	return c.JSON(http.StatusOK, CommandResponseResp{Applied: applied})
}
