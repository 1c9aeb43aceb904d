// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

// Package api is the operator-facing HTTP surface used by dashboards and the
// tscli tool.
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/pitlink/trackside-cloud/presence"
	"github.com/pitlink/trackside-cloud/storage/commands"
	"github.com/pitlink/trackside-cloud/storage/fleet"
)

type handlers struct {
	fleet    *fleet.Storage
	commands *commands.Storage
	presence presence.Store
}

func RegisterHandlers(
	e *echo.Echo,
	fleetStorage *fleet.Storage,
	commandStorage *commands.Storage,
	presenceStore presence.Store,
) {
	h := handlers{
		fleet:    fleetStorage,
		commands: commandStorage,
		presence: presenceStore,
	}
	e.Use(authOperator(fleetStorage))

	e.POST("/events/:event_id/vehicles/:device_id/command", h.commandDispatch)
	e.GET("/events/:event_id/vehicles/:device_id/command", h.commandGet)
	e.GET("/diagnostics", h.diagnostics)
	e.GET("/v1/vehicles", h.vehicleList)
	e.GET("/v1/vehicles/:id", h.vehicleGet)
}
