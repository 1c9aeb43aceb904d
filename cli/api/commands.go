// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"encoding/json"
	"fmt"

	models "github.com/pitlink/trackside-cloud/server/api"
	"github.com/pitlink/trackside-cloud/storage/commands"
)

type (
	DispatchResp   = models.DispatchResp
	PendingCommand = commands.PendingCommand
)

type CommandsApi struct {
	api       *Api
	EventID   string
	VehicleID string
}

// Commands scopes the client to one (event, vehicle) pair, matching how the
// server addresses commands.
func (a *Api) Commands(eventID, vehicleID string) CommandsApi {
	return CommandsApi{
		api:       a,
		EventID:   eventID,
		VehicleID: vehicleID,
	}
}

func (c CommandsApi) resource() string {
	return fmt.Sprintf("/events/%s/vehicles/%s/command", c.EventID, c.VehicleID)
}

func (c CommandsApi) Dispatch(commandType string, parameters json.RawMessage) (*DispatchResp, error) {
	body := models.DispatchReq{
		CommandType: commandType,
		Parameters:  parameters,
	}
	var resp DispatchResp
	return &resp, c.api.Post(c.resource(), body, &resp)
}

func (c CommandsApi) Status() (*PendingCommand, error) {
	var cmd PendingCommand
	return &cmd, c.api.Get(c.resource(), &cmd)
}
