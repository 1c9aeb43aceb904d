// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package server

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
)

// NewEchoServer builds an echo instance with the request-scoped logger and
// the access log wired in. name tags the access log entries so the gateway
// and operator surfaces can be told apart in one stream.
func NewEchoServer(name string, logger *slog.Logger) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.Use(requestLogger(logger))
	server.Use(accessLog(name))

	return server
}

// requestLogger attaches a per-request logger carrying the request id and
// URI to the request context. The id is echoed back in the response header
// so edge devices can quote it in support reports.
func requestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = random.String(12) // No need for uuid, save some space
			}
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			log := base.With("req_id", rid, "uri", req.RequestURI)
			c.SetRequest(req.WithContext(CtxWithLog(req.Context(), log)))
			return next(c)
		}
	}
}

func accessLog(name string) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		HandleError:      true, // forwards error to the global error handler, so it can decide appropriate status code
		LogContentLength: true,
		LogError:         true,
		LogMethod:        true,
		LogStatus:        true,
		LogURI:           true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log := CtxGetLog(c.Request().Context())
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("content-length", v.ContentLength),
				slog.Int("status", v.Status),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("err", v.Error.Error()))
			}
			log.LogAttrs(context.Background(), level, name, attrs...)
			return nil
		},
	})
}
