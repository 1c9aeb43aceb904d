// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

// Package notify fans presence and command outcomes out to external
// consumers (timing screens, dashboards). Delivery is best-effort: a lost
// notification is recovered by the next heartbeat, never retried here.
package notify

// PresenceEvent is published whenever a heartbeat is applied.
type PresenceEvent struct {
	VehicleID  string `json:"vehicle_id"`
	EventID    string `json:"event_id,omitempty"`
	Status     string `json:"status"`
	LastSeenMs int64  `json:"last_seen_ms"`
}

// CommandEvent is published when a command reaches a terminal status.
type CommandEvent struct {
	RequestID   string `json:"request_id"`
	EventID     string `json:"event_id"`
	VehicleID   string `json:"vehicle_id"`
	CommandType string `json:"command_type"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
}

type Notifier interface {
	PresenceChanged(e PresenceEvent)
	CommandResolved(e CommandEvent)
	Close()
}

// NewNotifier connects to the given MQTT broker; an empty broker address
// disables external notifications.
func NewNotifier(broker string) (Notifier, error) {
	if broker == "" {
		return &noop{}, nil
	}
	return newMqttNotifier(broker)
}
