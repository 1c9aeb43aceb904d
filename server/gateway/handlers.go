// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

// Package gateway is the device-facing HTTP surface: heartbeats in, pending
// commands out, acknowledgements back.
package gateway

import (
	"github.com/labstack/echo/v4"

	"github.com/pitlink/trackside-cloud/notify"
	"github.com/pitlink/trackside-cloud/presence"
	"github.com/pitlink/trackside-cloud/server"
	"github.com/pitlink/trackside-cloud/storage/commands"
	"github.com/pitlink/trackside-cloud/storage/fleet"
)

type handlers struct {
	fleet    *fleet.Storage
	commands *commands.Storage
	presence presence.Store
	notifier notify.Notifier
}

func RegisterHandlers(
	e *echo.Echo,
	a server.Authenticator,
	fleetStorage *fleet.Storage,
	commandStorage *commands.Storage,
	presenceStore presence.Store,
	notifier notify.Notifier,
) {
	h := handlers{
		fleet:    fleetStorage,
		commands: commandStorage,
		presence: presenceStore,
		notifier: notifier,
	}
	e.Use(authDevice(a, fleetStorage))

	e.POST("/telemetry/heartbeat", h.heartbeatSimple)
	e.POST("/edge/heartbeat", h.heartbeatDetailed)
	e.GET("/edge/command", h.commandPoll)
	e.POST("/events/:event_id/edge/command-response", h.commandResponse)
}
