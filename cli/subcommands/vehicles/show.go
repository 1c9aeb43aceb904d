// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package vehicles

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitlink/trackside-cloud/cli/api"
)

var showCmd = &cobra.Command{
	Use:   "show <vehicle-id>",
	Short: "Show one vehicle with its last announced device state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := api.CtxGetApi(cmd.Context())
		return showVehicle(api.Vehicles(), args[0])
	},
}

func init() {
	VehiclesCmd.AddCommand(showCmd)
}

func showVehicle(vapi api.VehiclesApi, id string) error {
	v, err := vapi.Show(id)
	cobra.CheckErr(err)

	fmt.Println("ID:          ", v.ID)
	fmt.Println("Name:        ", v.Name)
	if v.EventID != "" {
		fmt.Println("Event:       ", v.EventID)
	}
	fmt.Println("Status:      ", v.EdgeStatus)
	if v.LastSeenMs > 0 {
		fmt.Println("Last seen:   ", time.UnixMilli(v.LastSeenMs).Format(time.RFC3339))
	}
	if v.EdgeIP != "" {
		fmt.Println("Edge IP:     ", v.EdgeIP)
	}
	if v.EdgeVersion != "" {
		fmt.Println("Edge version:", v.EdgeVersion)
	}
	if v.DeviceURL != "" {
		fmt.Println("Device URL:  ", v.DeviceURL)
	}
	if len(v.Capabilities) > 0 {
		fmt.Println("Capabilities:", strings.Join(v.Capabilities, ", "))
	}
	return nil
}
