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
	"github.com/pitlink/trackside-cloud/storage/fleet"
)

func (h handlers) vehicleItem(v fleet.Vehicle, nowMs int64) VehicleItem {
	item := VehicleItem{
		ID:         v.ID,
		Name:       v.Name,
		EventID:    v.EventID,
		EdgeStatus: presence.StatusUnknown,
	}
	if rec, ok := h.presence.LastSeen(v.ID); ok {
		item.EdgeStatus = presence.Derive(rec.LastSeenMs, nowMs)
		item.LastSeenMs = rec.LastSeenMs
	}
	return item
}

// @Summary List provisioned vehicles with presence summary
// @Produce json
// @Success 200 []api.VehicleItem
// @Router  /v1/vehicles [get]
func (h handlers) vehicleList(c echo.Context) error {
	if err := checkScope(c, auth.ScopeVehiclesR, "vehicles:read"); err != nil {
		return err
	}

	vehicles, err := h.fleet.VehicleList()
	if err != nil {
		return server.EchoError(c, err, http.StatusInternalServerError, "Unable to list vehicles")
	}

	nowMs := time.Now().UnixMilli()
	items := make([]VehicleItem, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, h.vehicleItem(v, nowMs))
	}
	return c.JSON(http.StatusOK, items)
}

// @Summary Get one vehicle with its last announced device state
// @Produce json
// @Success 200 api.VehicleDetail
// @Router  /v1/vehicles/:id [get]
func (h handlers) vehicleGet(c echo.Context) error {
	if err := checkScope(c, auth.ScopeVehiclesR, "vehicles:read"); err != nil {
		return err
	}

	vehicle, err := h.fleet.VehicleGet(c.Param("id"))
	if err != nil {
		return server.EchoError(c, err, http.StatusInternalServerError, "Unable to look up vehicle")
	}
	if vehicle == nil {
		return server.EchoError(c, nil, http.StatusNotFound, "Unknown vehicle")
	}

	detail := VehicleDetail{
		VehicleItem: h.vehicleItem(*vehicle, time.Now().UnixMilli()),
	}
	if rec, ok := h.presence.LastSeen(vehicle.ID); ok {
		detail.EdgeIP = rec.IP
		detail.EdgeVersion = rec.Version
	}
	if ann, ok := h.presence.Announcement(vehicle.ID); ok {
		detail.DeviceURL = ann.DeviceURL
		detail.Capabilities = ann.Capabilities
	}
	return c.JSON(http.StatusOK, detail)
}
