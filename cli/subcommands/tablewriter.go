// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package subcommands

import (
	"fmt"
	"strings"
)

type TableWriter struct {
	headers []string
	rows    [][]string
}

func NewTableWriter(headers []string) *TableWriter {
	return &TableWriter{
		headers: headers,
		rows:    make([][]string, 0),
	}
}

func (t *TableWriter) AddRow(columns ...any) {
	strColumns := make([]string, len(columns))
	for i, col := range columns {
		strColumns[i] = fmt.Sprintf("%v", col)
	}
	t.rows = append(t.rows, strColumns)
}

func (t *TableWriter) Render() {
	if len(t.headers) == 0 {
		return
	}

	colWidths := make([]int, len(t.headers))
	for i, header := range t.headers {
		colWidths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		for i := range t.headers {
			var content string
			if i < len(cells) {
				content = cells[i]
			}
			fmt.Print(content)
			if i < len(t.headers)-1 {
				fmt.Print(strings.Repeat(" ", colWidths[i]-len(content)+2))
			}
		}
		fmt.Println()
	}

	printRow(t.headers)
	for _, row := range t.rows {
		printRow(row)
	}
}
