// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pitlink/trackside-cloud/auth"
	"github.com/pitlink/trackside-cloud/server"
	"github.com/pitlink/trackside-cloud/storage/fleet"
)

const HeaderOperatorToken = "X-Operator-Token"

// authOperator authenticates dashboard and CLI callers from their
// provisioned API token. Device tokens are a different credential scope and
// never pass here.
func authOperator(fleetStorage *fleet.Storage) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Prometheus scrapers carry no operator token.
			if c.Request().URL.Path == "/metrics" {
				return next(c)
			}
			value := c.Request().Header.Get(HeaderOperatorToken)
			if value == "" {
				return server.EchoError(c, nil, http.StatusUnauthorized, "Missing operator token")
			}
			token, err := fleetStorage.TokenLookup(value)
			if err != nil {
				return server.EchoError(c, err, http.StatusInternalServerError, "Unable to look up token")
			}
			if token == nil {
				return server.EchoError(c, nil, http.StatusUnauthorized, "Invalid operator token")
			}

			req := c.Request()
			ctx := req.Context()
			log := CtxGetLog(ctx).With("operator", token.PublicID)
			ctx = CtxWithLog(ctx, log)
			ctx = CtxWithOperator(ctx, token)
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}

// checkScope returns non-nil when the caller lacks the scope; the denial is
// both logged and returned to the caller.
func checkScope(c echo.Context, scope auth.Scopes, name string) error {
	token := CtxGetOperator(c.Request().Context())
	if !token.Scopes.Has(scope) {
		err := fmt.Errorf("token %d lacks scope %s", token.PublicID, name)
		return server.EchoError(c, err, http.StatusForbidden, "Missing scope: "+name)
	}
	return nil
}
