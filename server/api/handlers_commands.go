// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pitlink/trackside-cloud/auth"
	"github.com/pitlink/trackside-cloud/server"
	"github.com/pitlink/trackside-cloud/storage/commands"
	"github.com/pitlink/trackside-cloud/storage/fleet"
)

// resolvePair checks that the event exists and the vehicle is assigned to
// it. Command paths are event-scoped, so a stale dashboard pointing at last
// week's event gets a 404, not a command on the wrong event.
func (h handlers) resolvePair(c echo.Context, eventID, vehicleID string) (*fleet.Vehicle, error) {
	event, err := h.fleet.EventGet(eventID)
	if err != nil {
		return nil, server.EchoError(c, err, http.StatusInternalServerError, "Unable to look up event")
	}
	if event == nil {
		return nil, server.EchoError(c, nil, http.StatusNotFound, "Unknown event")
	}
	vehicle, err := h.fleet.VehicleGet(vehicleID)
	if err != nil {
		return nil, server.EchoError(c, err, http.StatusInternalServerError, "Unable to look up vehicle")
	}
	if vehicle == nil || vehicle.EventID != eventID {
		return nil, server.EchoError(c, nil, http.StatusNotFound, "Vehicle not assigned to event")
	}
	return vehicle, nil
}

// @Summary Dispatch a command to a vehicle's edge device
// @Accept  json
// @Produce json
// @Success 202 api.DispatchResp
// @Router  /events/:event_id/vehicles/:device_id/command [post]
func (h handlers) commandDispatch(c echo.Context) error {
	if err := checkScope(c, auth.ScopeCommandsDispatch, "commands:dispatch"); err != nil {
		return err
	}

	body, err := server.ReadBody(c)
	if err != nil {
		return err
	}
	var req DispatchReq
	if err := server.ParseJsonBody(c, body, &req); err != nil {
		return err
	}

	vehicle, err := h.resolvePair(c, c.Param("event_id"), c.Param("device_id"))
	if vehicle == nil {
		return err
	}

	cmd, err := h.commands.Dispatch(vehicle.EventID, vehicle.ID, req.CommandType, req.Parameters)
	switch {
	case errors.Is(err, commands.ErrUnknownCommand), errors.Is(err, commands.ErrInvalidParameters):
		return server.EchoError(c, err, http.StatusBadRequest, err.Error())
	case errors.Is(err, commands.ErrConflict):
		return server.EchoError(c, err, http.StatusConflict, "A command is already pending for this vehicle")
	case err != nil:
		return server.EchoError(c, err, http.StatusInternalServerError, "Unable to dispatch command")
	}

	server.MetricCommandsDispatched.Inc()
	return c.JSON(http.StatusAccepted, DispatchResp{
		RequestID: cmd.RequestID,
		Status:    string(cmd.Status),
	})
}

// @Summary Get the current command state for a vehicle
// @Produce json
// @Success 200 commands.PendingCommand
// @Router  /events/:event_id/vehicles/:device_id/command [get]
func (h handlers) commandGet(c echo.Context) error {
	if err := checkScope(c, auth.ScopeCommandsR, "commands:read"); err != nil {
		return err
	}

	vehicle, err := h.resolvePair(c, c.Param("event_id"), c.Param("device_id"))
	if vehicle == nil {
		return err
	}

	cmd, err := h.commands.Current(vehicle.EventID, vehicle.ID)
	if err != nil {
		return server.EchoError(c, err, http.StatusInternalServerError, "Unable to look up command")
	}
	if cmd == nil {
		return server.EchoError(c, nil, http.StatusNotFound, "No command for this vehicle")
	}
	return c.JSON(http.StatusOK, cmd)
}
