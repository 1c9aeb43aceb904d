// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package gateway

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pitlink/trackside-cloud/auth"
	"github.com/pitlink/trackside-cloud/server"
	"github.com/pitlink/trackside-cloud/storage/fleet"
)

const HeaderDeviceToken = "X-Device-Token"

// authDevice authenticates the edge device from its encrypted bearer token
// and attaches the provisioned vehicle to the request context. Operator
// tokens are a different credential scope and never pass here.
func authDevice(a server.Authenticator, fleetStorage *fleet.Storage) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get(HeaderDeviceToken)
			if token == "" {
				return server.EchoError(c, nil, http.StatusUnauthorized, "Missing device token")
			}
			cred, err := auth.ParseDeviceToken(a, token)
			if err != nil {
				return server.EchoError(c, err, http.StatusUnauthorized, "Invalid device token")
			}

			vehicle, err := fleetStorage.VehicleGet(cred.VehicleID)
			if err != nil {
				return server.EchoError(c, err, http.StatusInternalServerError, "Unable to look up vehicle")
			}
			if vehicle == nil {
				// Valid token for a deprovisioned vehicle.
				return server.EchoError(c, nil, http.StatusForbidden, "Unknown vehicle")
			}

			req := c.Request()
			ctx := req.Context()
			log := CtxGetLog(ctx).With("vehicle", vehicle.ID)
			ctx = CtxWithLog(ctx, log)
			ctx = CtxWithVehicle(ctx, vehicle)
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
