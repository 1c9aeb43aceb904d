// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package gateway

import (
	"github.com/pitlink/trackside-cloud/presence"
)

// HeartbeatSimple is the lightweight announcement every provisioned device
// sends, assigned to an event or not.
type HeartbeatSimple struct {
	DeviceURL    string   `json:"device_url"`
	Capabilities []string `json:"capabilities,omitempty"`
	Version      string   `json:"version,omitempty"`
}

// HeartbeatSimpleResp tells the device which event it is reporting into.
// event_status is "none" when no event is assigned.
type HeartbeatSimpleResp struct {
	EventID     string `json:"event_id"`
	EventStatus string `json:"event_status"`
	VehicleID   string `json:"vehicle_id"`
	ServerTsMs  int64  `json:"server_ts_ms"`
}

// HeartbeatDetailed is the event-scoped status report.
type HeartbeatDetailed struct {
	StreamingStatus string            `json:"streaming_status"`
	Cameras         []presence.Camera `json:"cameras,omitempty"`
	LastGpsTs       int64             `json:"last_gps_ts,omitempty"`
	LastCanTs       int64             `json:"last_can_ts,omitempty"`
	Version         string            `json:"version,omitempty"`
}

type HeartbeatAck struct {
	Ack bool `json:"ack"`
}

// CommandResponse is a device's completion report for a delivered command.
type CommandResponse struct {
	CommandID string `json:"command_id"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

type CommandResponseResp struct {
	// Applied is false for a duplicate or late acknowledgement: the call
	// succeeded but the stored outcome was already decided.
	Applied bool `json:"applied"`
}
