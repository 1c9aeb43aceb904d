// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/pitlink/trackside-cloud/config"
	"github.com/pitlink/trackside-cloud/storage"
	"github.com/pitlink/trackside-cloud/storage/fleet"
)

type CommonArgs struct {
	DataDir string `arg:"required" help:"Directory to store data"`

	Serve       *ServeCmd       `arg:"subcommand:serve" help:"Run the cloud service"`
	VehicleAdd  *VehicleAddCmd  `arg:"subcommand:vehicle-add" help:"Provision a vehicle and print its device token"`
	TokenAdd    *TokenAddCmd    `arg:"subcommand:token-add" help:"Mint a scoped operator API token"`
	EventCreate *EventCreateCmd `arg:"subcommand:event-create" help:"Create an event"`
	EventAssign *EventAssignCmd `arg:"subcommand:event-assign" help:"Assign a vehicle to an event"`
}

func main() {
	args := CommonArgs{}
	p := arg.MustParse(&args)

	var err error
	switch {
	case args.Serve != nil:
		err = args.Serve.Run(args)
	case args.VehicleAdd != nil:
		err = args.VehicleAdd.Run(args)
	case args.TokenAdd != nil:
		err = args.TokenAdd.Run(args)
	case args.EventCreate != nil:
		err = args.EventCreate.Run(args)
	case args.EventAssign != nil:
		err = args.EventAssign.Run(args)
	default:
		p.Fail("missing required subcommand")
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

// openStorage wires the pieces every subcommand needs: data directory,
// config, database, fleet tables.
func (c CommonArgs) openStorage() (*storage.FsHandle, *config.Config, *storage.DbHandle, *fleet.Storage, error) {
	fs, err := storage.NewFs(c.DataDir)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	cfg, err := config.Load(fs.ConfigFile())
	if err != nil {
		return nil, nil, nil, nil, err
	}
	db, err := storage.NewDb(fs.DbFile())
	if err != nil {
		return nil, nil, nil, nil, err
	}
	fleetStorage, err := fleet.NewStorage(db, fs)
	if err != nil {
		_ = db.Close()
		return nil, nil, nil, nil, err
	}
	return fs, cfg, db, fleetStorage, nil
}
