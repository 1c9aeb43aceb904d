// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MetricHeartbeats = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackside",
		Name:      "heartbeats_total",
		Help:      "Heartbeats accepted, by variant.",
	}, []string{"variant"})

	MetricCommandsDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trackside",
		Name:      "commands_dispatched_total",
		Help:      "Commands accepted for delivery to edge devices.",
	})

	MetricCommandAcks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackside",
		Name:      "command_acks_total",
		Help:      "Command acknowledgements applied, by outcome.",
	}, []string{"outcome"})

	MetricCommandTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trackside",
		Name:      "command_timeouts_total",
		Help:      "Pending commands the sweep declared timed out.",
	})
)

// RegisterMetricsHandler exposes the prometheus registry on /metrics.
func RegisterMetricsHandler(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
