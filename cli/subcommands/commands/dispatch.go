// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitlink/trackside-cloud/cli/api"
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <event-id> <vehicle-id> <command-type>",
	Short: "Dispatch a command to a vehicle's edge device",
	Long: `Dispatch a command and optionally wait for the device to resolve it.

Example:
  tscli commands dispatch monza-2026 gt3-07 set_active_camera --parameters '{"camera_id":"cockpit"}'`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, _ := cmd.Flags().GetString("parameters")
		wait, _ := cmd.Flags().GetBool("wait")
		api := api.CtxGetApi(cmd.Context())
		return dispatch(api.Commands(args[0], args[1]), args[2], params, wait)
	},
}

func init() {
	CommandsCmd.AddCommand(dispatchCmd)
	dispatchCmd.Flags().String("parameters", "", "Command parameters as a JSON object")
	dispatchCmd.Flags().Bool("wait", false, "Poll until the command reaches a terminal status")
}

func dispatch(capi api.CommandsApi, commandType, params string, wait bool) error {
	var parameters json.RawMessage
	if params != "" {
		if !json.Valid([]byte(params)) {
			return fmt.Errorf("parameters are not valid JSON: %s", params)
		}
		parameters = json.RawMessage(params)
	}

	resp, err := capi.Dispatch(commandType, parameters)
	cobra.CheckErr(err)
	fmt.Println("Request ID:", resp.RequestID)
	fmt.Println("Status:    ", resp.Status)
	if !wait {
		return nil
	}

	for {
		time.Sleep(2 * time.Second)
		cmd, err := capi.Status()
		cobra.CheckErr(err)
		fmt.Println("Status:    ", cmd.Status)
		if cmd.Terminal() {
			if cmd.LastError != "" {
				fmt.Println("Error:     ", cmd.LastError)
			}
			return nil
		}
	}
}
