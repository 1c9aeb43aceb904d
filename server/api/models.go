// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"encoding/json"

	"github.com/pitlink/trackside-cloud/presence"
)

// DispatchReq is an operator's request to run a command on a vehicle.
type DispatchReq struct {
	CommandType string          `json:"command_type"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type DispatchResp struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// DiagnosticsResp summarizes edge connectivity for an event, derived from
// the age of the freshest heartbeat among the event's vehicles.
type DiagnosticsResp struct {
	EdgeStatus     presence.EdgeStatus `json:"edge_status"`
	IsOnline       bool                `json:"is_online"`
	EdgeLastSeenMs int64               `json:"edge_last_seen_ms,omitempty"`
	EdgeIP         string              `json:"edge_ip,omitempty"`
	EdgeVersion    string              `json:"edge_version,omitempty"`
}

// VehicleItem is the dashboard list entry: fleet row plus presence summary.
type VehicleItem struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	EventID    string              `json:"event_id,omitempty"`
	EdgeStatus presence.EdgeStatus `json:"edge_status"`
	LastSeenMs int64               `json:"last_seen_ms,omitempty"`
}

// VehicleDetail adds what the device last announced about itself.
type VehicleDetail struct {
	VehicleItem
	EdgeIP       string   `json:"edge_ip,omitempty"`
	EdgeVersion  string   `json:"edge_version,omitempty"`
	DeviceURL    string   `json:"device_url,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
}
