// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

// Package commands implements "tscli commands".
package commands

import (
	"github.com/spf13/cobra"
)

var CommandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Dispatch commands to edge devices and poll their outcome",
}
