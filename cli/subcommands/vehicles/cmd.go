// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

// Package vehicles implements "tscli vehicles".
package vehicles

import (
	"github.com/spf13/cobra"
)

var VehiclesCmd = &cobra.Command{
	Use:   "vehicles",
	Short: "Inspect provisioned vehicles and their edge presence",
}
