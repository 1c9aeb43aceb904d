// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pitlink/trackside-cloud/auth"
	"github.com/pitlink/trackside-cloud/server"
)

type VehicleAddCmd struct {
	ID   string `arg:"positional,required" help:"Vehicle id, e.g. gt3-07"`
	Name string `arg:"positional" help:"Display name"`
}

// Run provisions the vehicle and prints the device token its edge unit must
// present. The token is shown once; it is not stored in cleartext anywhere.
func (c VehicleAddCmd) Run(args CommonArgs) error {
	fs, cfg, db, fleetStorage, err := args.openStorage()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	name := c.Name
	if name == "" {
		name = c.ID
	}
	if _, err := fleetStorage.VehicleCreate(c.ID, name); err != nil {
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
	token, err := auth.NewDeviceToken(authenticator, c.ID, cfg.DeviceTokenValidity())
	if err != nil {
		return err
	}

	fmt.Println("Vehicle created:", c.ID)
	fmt.Println("Device token (store it on the edge unit now, it will not be shown again):")
	fmt.Println(token)
	return nil
}

type TokenAddCmd struct {
	Description string `arg:"positional,required" help:"Who or what this token is for"`
	Scopes      string `default:"vehicles:read,commands:read,diagnostics:read" help:"Comma-separated scopes"`
	ExpiresDays int    `arg:"--expires-days" default:"90"`
}

func (c TokenAddCmd) Run(args CommonArgs) error {
	_, _, db, fleetStorage, err := args.openStorage()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	scopes, err := auth.ScopesFromString(c.Scopes)
	if err != nil {
		return fmt.Errorf("%w. Available: %s", err, strings.Join(auth.ScopesAvailable(), ", "))
	}
	expires := time.Now().Add(time.Duration(c.ExpiresDays) * 24 * time.Hour)
	value, err := fleetStorage.TokenCreate(c.Description, scopes, expires)
	if err != nil {
		return err
	}

	fmt.Println("Operator token (store it now, it will not be shown again):")
	fmt.Println(value)
	return nil
}

type EventCreateCmd struct {
	ID     string `arg:"positional,required" help:"Event id, e.g. monza-2026"`
	Name   string `arg:"positional" help:"Display name"`
	Status string `default:"scheduled" help:"scheduled, live or finished"`
}

func (c EventCreateCmd) Run(args CommonArgs) error {
	_, _, db, fleetStorage, err := args.openStorage()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	name := c.Name
	if name == "" {
		name = c.ID
	}
	if _, err := fleetStorage.EventCreate(c.ID, name, c.Status); err != nil {
		return err
	}
	fmt.Println("Event created:", c.ID)
	return nil
}

type EventAssignCmd struct {
	VehicleID string `arg:"positional,required"`
	EventID   string `arg:"positional" help:"Empty to detach the vehicle"`
}

func (c EventAssignCmd) Run(args CommonArgs) error {
	_, _, db, fleetStorage, err := args.openStorage()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	if err := fleetStorage.VehicleAssign(c.VehicleID, c.EventID); err != nil {
		return err
	}
	if c.EventID == "" {
		fmt.Println("Vehicle detached:", c.VehicleID)
	} else {
		fmt.Printf("Vehicle %s assigned to event %s\n", c.VehicleID, c.EventID)
	}
	return nil
}
