// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

// Package presence tracks the liveness and last-known state of edge devices.
// Records age out in the store itself, so a crashed device disappears without
// any cleanup process.
package presence

import (
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
)

// Announcement is the lightweight, vehicle-scoped record written by the
// simple heartbeat. It is what auto-discovery consults to reach a device.
type Announcement struct {
	DeviceURL    string   `json:"device_url"`
	Capabilities []string `json:"capabilities"`
}

type Camera struct {
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Active bool   `json:"active,omitempty"`
}

// DetailedStatus is the event-scoped record written by the detailed
// heartbeat. Each write fully replaces the prior one.
type DetailedStatus struct {
	StreamingStatus string   `json:"streaming_status"`
	Cameras         []Camera `json:"cameras"`
	LastGpsTs       int64    `json:"last_gps_ts"`
	LastCanTs       int64    `json:"last_can_ts"`
	Version         string   `json:"version,omitempty"`
}

// Record is the shared last-seen state of a device. Both heartbeat variants
// update it, so downstream online/offline derivation does not depend on which
// endpoint the device happened to hit.
type Record struct {
	VehicleID  string `json:"vehicle_id"`
	LastSeenMs int64  `json:"last_seen_ms"`
	IP         string `json:"ip,omitempty"`
	Version    string `json:"version,omitempty"`
}

type Store interface {
	// Touch refreshes the shared last-seen record for a vehicle. An empty
	// version keeps the previously reported one.
	Touch(vehicleID, ip, version string)
	LastSeen(vehicleID string) (Record, bool)

	SetAnnouncement(vehicleID string, a Announcement)
	Announcement(vehicleID string) (Announcement, bool)

	// SetStatus stores the detailed status under an event-scoped key.
	// eventID may be empty when the device is not assigned to an event.
	SetStatus(eventID, vehicleID string, s DetailedStatus)
	Status(eventID, vehicleID string) (DetailedStatus, bool)
}

// lastSeenRetention is deliberately much longer than the payload TTL: a
// device whose payloads aged out must still read as "offline", not
// "unknown", since the two drive different operator guidance.
const lastSeenRetention = 24 * time.Hour

const maxTrackedVehicles = 4096

type cacheStore struct {
	seen     cache.Cache[string, Record]
	announce cache.Cache[string, Announcement]
	status   cache.Cache[string, DetailedStatus]

	nowMs func() int64
}

// NewStore returns a Store whose payload records expire after ttl.
func NewStore(ttl time.Duration) Store {
	return &cacheStore{
		seen:     cache.NewCache[string, Record]().WithTTL(lastSeenRetention).WithMaxKeys(maxTrackedVehicles),
		announce: cache.NewCache[string, Announcement]().WithTTL(ttl).WithMaxKeys(maxTrackedVehicles),
		status:   cache.NewCache[string, DetailedStatus]().WithTTL(ttl).WithMaxKeys(maxTrackedVehicles),
		nowMs:    func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *cacheStore) Touch(vehicleID, ip, version string) {
	rec := Record{
		VehicleID:  vehicleID,
		LastSeenMs: s.nowMs(),
		IP:         ip,
		Version:    version,
	}
	if prev, ok := s.seen.Get(vehicleID); ok {
		if rec.Version == "" {
			rec.Version = prev.Version
		}
		if rec.IP == "" {
			rec.IP = prev.IP
		}
	}
	s.seen.Set(vehicleID, rec, 0)
}

func (s *cacheStore) LastSeen(vehicleID string) (Record, bool) {
	return s.seen.Get(vehicleID)
}

func (s *cacheStore) SetAnnouncement(vehicleID string, a Announcement) {
	s.announce.Set(vehicleID, a, 0)
}

func (s *cacheStore) Announcement(vehicleID string) (Announcement, bool) {
	return s.announce.Get(vehicleID)
}

func (s *cacheStore) SetStatus(eventID, vehicleID string, st DetailedStatus) {
	s.status.Set(statusKey(eventID, vehicleID), st, 0)
}

func (s *cacheStore) Status(eventID, vehicleID string) (DetailedStatus, bool) {
	return s.status.Get(statusKey(eventID, vehicleID))
}

func statusKey(eventID, vehicleID string) string {
	return eventID + "/" + vehicleID
}
