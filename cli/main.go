// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitlink/trackside-cloud/cli/api"
	"github.com/pitlink/trackside-cloud/cli/config"
	"github.com/pitlink/trackside-cloud/cli/subcommands/commands"
	"github.com/pitlink/trackside-cloud/cli/subcommands/diagnostics"
	"github.com/pitlink/trackside-cloud/cli/subcommands/login"
	"github.com/pitlink/trackside-cloud/cli/subcommands/vehicles"
)

var rootCmd = &cobra.Command{
	Use:   "tscli",
	Short: "A command line interface to the Trackside Cloud",
	Long: `tscli is a command-line interface for inspecting vehicle presence,
dispatching camera and stream commands, and reading edge diagnostics.

Configuration is stored in $HOME/.config/tscli.yaml`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// login manages the config itself and needs no server context.
		if cmd.Name() == "login" {
			return nil
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		contextName, err := cmd.Flags().GetString("context")
		if err != nil {
			return fmt.Errorf("failed to get context flag: %w", err)
		}

		appctx, err := cfg.GetContext(contextName)
		if err != nil {
			return fmt.Errorf("failed to get current context: %w", err)
		}

		client := api.NewClient(*appctx)

		ctx := context.WithValue(cmd.Context(), api.ContextKey, client)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("context", "c", "", "Specify the context to use from the configuration file")
	rootCmd.AddCommand(login.LoginCmd)
	rootCmd.AddCommand(vehicles.VehiclesCmd)
	rootCmd.AddCommand(commands.CommandsCmd)
	rootCmd.AddCommand(diagnostics.DiagnosticsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}
