// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package presence

type EdgeStatus string

const (
	StatusOnline  EdgeStatus = "online"
	StatusStale   EdgeStatus = "stale"
	StatusOffline EdgeStatus = "offline"
	StatusUnknown EdgeStatus = "unknown"
)

// The thresholds are part of the protocol contract and dashboards test the
// boundaries exactly: an age of 30.000s is still online, 30.001s is stale.
const (
	onlineWindowMs int64 = 30_000
	staleWindowMs  int64 = 60_000
)

// Derive computes the presence state from the age of the last heartbeat.
func Derive(lastSeenMs, nowMs int64) EdgeStatus {
	age := nowMs - lastSeenMs
	switch {
	case age <= onlineWindowMs:
		return StatusOnline
	case age <= staleWindowMs:
		return StatusStale
	default:
		return StatusOffline
	}
}

func (s EdgeStatus) IsOnline() bool {
	return s == StatusOnline
}
