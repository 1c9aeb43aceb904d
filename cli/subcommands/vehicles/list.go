// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package vehicles

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitlink/trackside-cloud/cli/api"
	"github.com/pitlink/trackside-cloud/cli/subcommands"
)

var allColumns = []string{
	"id",
	"name",
	"event",
	"status",
	"last-seen",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all vehicles",
	Long:  `List all vehicles known to the server with their presence state`,
	RunE: func(cmd *cobra.Command, args []string) error {
		columns, _ := cmd.Flags().GetString("columns")
		api := api.CtxGetApi(cmd.Context())
		return listVehicles(api.Vehicles(), columns)
	},
}

func init() {
	columnsStr := strings.Join(allColumns, ",")
	VehiclesCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("columns", "", "id,event,status,last-seen",
		"Comma-separated list of columns to display (available: "+columnsStr+")")
}

func listVehicles(vapi api.VehiclesApi, columnsStr string) error {
	items, err := vapi.List()
	cobra.CheckErr(err)

	columns := strings.Split(columnsStr, ",")
	for i, col := range columns {
		columns[i] = strings.TrimSpace(col)
		if slices.Index(allColumns, columns[i]) < 0 {
			return fmt.Errorf("invalid column: %s", col)
		}
	}

	headers := make([]string, 0, len(columns))
	for _, col := range columns {
		headers = append(headers, strings.ToUpper(strings.ReplaceAll(col, "-", " ")))
	}
	table := subcommands.NewTableWriter(headers)

	for _, item := range items {
		row := make([]any, 0, len(columns))
		for _, col := range columns {
			row = append(row, getColumnValue(&item, col))
		}
		table.AddRow(row...)
	}

	table.Render()
	return nil
}

func getColumnValue(item *api.VehicleItem, column string) string {
	switch column {
	case "id":
		return item.ID
	case "name":
		return item.Name
	case "event":
		if item.EventID == "" {
			return "-"
		}
		return item.EventID
	case "status":
		return string(item.EdgeStatus)
	case "last-seen":
		if item.LastSeenMs > 0 {
			return time.UnixMilli(item.LastSeenMs).Format("2006-01-02 15:04:05")
		}
		return "-"
	default:
		return ""
	}
}
