// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Canonical command vocabulary. Everything stored or handed to a device uses
// these names; deprecated dashboard spellings are rewritten on the way in.
const (
	CmdSetActiveCamera  = "set_active_camera"
	CmdStartStream      = "start_stream"
	CmdStopStream       = "stop_stream"
	CmdRestartTelemetry = "restart_telemetry"
)

var (
	ErrUnknownCommand    = errors.New("unknown command type")
	ErrInvalidParameters = errors.New("invalid command parameters")
)

var canonicalCommands = map[string]bool{
	CmdSetActiveCamera:  true,
	CmdStartStream:      true,
	CmdStopStream:       true,
	CmdRestartTelemetry: true,
}

var commandAliases = map[string]string{
	"switch_camera": CmdSetActiveCamera,
	"set_camera":    CmdSetActiveCamera,
	"stream_start":  CmdStartStream,
	"stream_stop":   CmdStopStream,
}

// Old camera naming used by early dashboard builds.
var cameraAliases = map[string]string{
	"pov":    "cockpit",
	"driver": "cockpit",
	"bumper": "nose",
}

// NormalizeCommand maps deprecated command and camera names to their
// canonical forms and validates the parameters the command requires. The
// returned parameters are always valid JSON, "{}" when none were given.
func NormalizeCommand(commandType string, parameters json.RawMessage) (string, json.RawMessage, error) {
	if canonical, ok := commandAliases[commandType]; ok {
		commandType = canonical
	}
	if !canonicalCommands[commandType] {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownCommand, commandType)
	}

	if len(parameters) == 0 {
		parameters = json.RawMessage(`{}`)
	}
	var params map[string]any
	if err := json.Unmarshal(parameters, &params); err != nil {
		return "", nil, fmt.Errorf("%w: not a JSON object", ErrInvalidParameters)
	}

	if commandType == CmdSetActiveCamera {
		cameraID, ok := params["camera_id"].(string)
		if !ok || cameraID == "" {
			return "", nil, fmt.Errorf("%w: set_active_camera requires camera_id", ErrInvalidParameters)
		}
		if canonical, ok := cameraAliases[cameraID]; ok {
			params["camera_id"] = canonical
		}
	}

	normalized, err := json.Marshal(params)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s", ErrInvalidParameters, err)
	}
	return commandType, normalized, nil
}
