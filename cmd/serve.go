// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pitlink/trackside-cloud/context"
	"github.com/pitlink/trackside-cloud/notify"
	"github.com/pitlink/trackside-cloud/presence"
	"github.com/pitlink/trackside-cloud/server"
	"github.com/pitlink/trackside-cloud/server/api"
	"github.com/pitlink/trackside-cloud/server/gateway"
	"github.com/pitlink/trackside-cloud/storage/commands"
)

type ServeCmd struct {
	quit          chan os.Signal
	apiServer     *echo.Echo
	gatewayServer *echo.Echo
}

func (c *ServeCmd) Run(args CommonArgs) error {
	fs, cfg, db, fleetStorage, err := args.openStorage()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	logger, err := context.InitLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	commandStorage, err := commands.NewStorage(db)
	if err != nil {
		return err
	}

	secret, err := fs.Secrets.ReadOrCreate("token.secret")
	if err != nil {
		return err
	}
	authenticator, err := server.NewAuthenticator(string(secret))
	if err != nil {
		return err
	}

	presenceStore := presence.NewStore(cfg.PresenceTtl())
	notifier, err := notify.NewNotifier(cfg.MqttBroker)
	if err != nil {
		return err
	}
	defer notifier.Close()

	commandStorage.StartSweep(cfg.SweepInterval(), cfg.CommandDeadline(), cfg.TerminalGrace(),
		func(n int64) {
			server.MetricCommandTimeouts.Add(float64(n))
		})
	defer commandStorage.StopSweep()

	// setup channel to gracefully terminate server
	c.quit = make(chan os.Signal, 1)
	signal.Notify(c.quit, syscall.SIGTERM)
	serveErr := make(chan error)

	c.apiServer = server.NewEchoServer("rest-api", logger)
	api.RegisterHandlers(c.apiServer, fleetStorage, commandStorage, presenceStore)
	server.RegisterMetricsHandler(c.apiServer)

	c.gatewayServer = server.NewEchoServer("device-gateway", logger)
	gateway.RegisterHandlers(c.gatewayServer, authenticator, fleetStorage, commandStorage, presenceStore, notifier)

	go func() {
		if err := c.apiServer.Start(fmt.Sprintf(":%d", cfg.ApiPort)); err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	go func() {
		if err := c.gatewayServer.Start(fmt.Sprintf(":%d", cfg.GatewayPort)); err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-c.quit:
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := c.apiServer.Shutdown(ctx); err != nil {
			logger.Error("Unexpected error stopping rest-api server", "error", err)
		}
		if err := c.gatewayServer.Shutdown(ctx); err != nil {
			logger.Error("Unexpected error stopping device-gateway server", "error", err)
		}
	}

	return nil
}
