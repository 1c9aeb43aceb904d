// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"net/url"

	models "github.com/pitlink/trackside-cloud/server/api"
)

type DiagnosticsResp = models.DiagnosticsResp

func (a *Api) Diagnostics(eventID string) (*DiagnosticsResp, error) {
	var resp DiagnosticsResp
	return &resp, a.Get("/diagnostics?event_id="+url.QueryEscape(eventID), &resp)
}
