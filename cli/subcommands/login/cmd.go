// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

// Package login implements "tscli login".
package login

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pitlink/trackside-cloud/cli/config"
)

var LoginCmd = &cobra.Command{
	Use:   "login <context-name> <server-url>",
	Short: "Configure authentication for a server",
	Long: `Configure a named context with an operator token.

Tokens are minted on the server with "trackside-cloud token-add" and saved
here into ~/.config/tscli.yaml.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")
		setDefault, _ := cmd.Flags().GetBool("set-default")
		return login(args[0], args[1], token, setDefault)
	},
}

func init() {
	LoginCmd.Flags().String("token", "", "Operator API token for this server")
	LoginCmd.Flags().Bool("set-default", true, "Set this context as the default")
	_ = LoginCmd.MarkFlagRequired("token")
}

func login(contextName, serverURL, token string, setDefault bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		// A fresh machine has no config yet.
		cfg = &config.Config{}
	}
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]config.Context)
	}

	cfg.Contexts[contextName] = config.Context{
		URL:   strings.TrimRight(serverURL, "/"),
		Token: token,
	}
	if setDefault {
		cfg.ActiveContext = contextName
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("Context '%s' saved for %s\n", contextName, serverURL)
	return nil
}
