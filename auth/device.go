// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package auth

import (
	"fmt"
	"time"

	"github.com/pitlink/trackside-cloud/server"
)

// DeviceCredential is the payload sealed inside an X-Device-Token. Device and
// operator credentials are distinct scopes: a device token can never call
// operator endpoints, and vice versa.
type DeviceCredential struct {
	VehicleID string `json:"vehicle_id"`
}

// NewDeviceToken mints the bearer credential handed to an edge device at
// provisioning time.
func NewDeviceToken(a server.Authenticator, vehicleID string, validity time.Duration) (string, error) {
	token, err := a.NewToken(DeviceCredential{VehicleID: vehicleID}, validity)
	if err != nil {
		return "", fmt.Errorf("failed to mint device token for %s: %w", vehicleID, err)
	}
	return token, nil
}

// ParseDeviceToken validates a presented device token and returns the
// credential it carries. Expired or tampered tokens fail.
func ParseDeviceToken(a server.Authenticator, token string) (*DeviceCredential, error) {
	var cred DeviceCredential
	if err := a.ParseToken(&cred, token); err != nil {
		return nil, fmt.Errorf("invalid device token: %w", err)
	}
	if cred.VehicleID == "" {
		return nil, fmt.Errorf("invalid device token: empty vehicle id")
	}
	return &cred, nil
}
