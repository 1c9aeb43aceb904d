// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitlink/trackside-cloud/cli/api"
)

var statusCmd = &cobra.Command{
	Use:   "status <event-id> <vehicle-id>",
	Short: "Show the current command state for a vehicle",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := api.CtxGetApi(cmd.Context())
		return status(api.Commands(args[0], args[1]))
	},
}

func init() {
	CommandsCmd.AddCommand(statusCmd)
}

func status(capi api.CommandsApi) error {
	cmd, err := capi.Status()
	cobra.CheckErr(err)

	fmt.Println("Request ID:   ", cmd.RequestID)
	fmt.Println("Command:      ", cmd.CommandType)
	if len(cmd.Parameters) > 0 {
		fmt.Println("Parameters:   ", string(cmd.Parameters))
	}
	fmt.Println("Status:       ", cmd.Status)
	fmt.Println("Dispatched at:", time.UnixMilli(cmd.CreatedMs).Format(time.RFC3339))
	if cmd.LastError != "" {
		fmt.Println("Error:        ", cmd.LastError)
	}
	return nil
}
