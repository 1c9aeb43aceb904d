// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

// Package diagnostics implements "tscli diagnostics".
package diagnostics

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitlink/trackside-cloud/cli/api"
)

var DiagnosticsCmd = &cobra.Command{
	Use:   "diagnostics <event-id>",
	Short: "Show edge connectivity diagnostics for an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := api.CtxGetApi(cmd.Context())
		return diagnostics(api, args[0])
	},
}

func diagnostics(a *api.Api, eventID string) error {
	d, err := a.Diagnostics(eventID)
	cobra.CheckErr(err)

	fmt.Println("Edge status: ", d.EdgeStatus)
	fmt.Println("Online:      ", d.IsOnline)
	if d.EdgeLastSeenMs > 0 {
		age := time.Since(time.UnixMilli(d.EdgeLastSeenMs)).Round(time.Second)
		fmt.Printf("Last seen:    %s (%s ago)\n",
			time.UnixMilli(d.EdgeLastSeenMs).Format(time.RFC3339), age)
	}
	if d.EdgeIP != "" {
		fmt.Println("Edge IP:     ", d.EdgeIP)
	}
	if d.EdgeVersion != "" {
		fmt.Println("Edge version:", d.EdgeVersion)
	}
	return nil
}
