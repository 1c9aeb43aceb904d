// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResp is the structured body every error response carries. The cause
// goes to the log; the caller only sees the public message.
type ErrorResp struct {
	Message string `json:"message"`
}

// EchoError logs err with the request-scoped logger, responds with a
// structured error body and returns a non-nil error. Callers can always
// `return EchoError(...)` or use the result as an abort signal: the returned
// error reports the failure itself, not whether the response write succeeded,
// so an `if err != nil` guard upstream of state changes reliably fires.
func EchoError(c echo.Context, err error, status int, msg string) error {
	log := CtxGetLog(c.Request().Context())
	if err != nil {
		log.Error(msg, "error", err)
	} else {
		err = errors.New(msg)
		log.Warn(msg)
	}
	if writeErr := c.JSON(status, ErrorResp{Message: msg}); writeErr != nil {
		return errors.Join(err, writeErr)
	}
	return err
}

// ReadBody drains the request body, rejecting unreadable requests uniformly.
func ReadBody(c echo.Context) ([]byte, error) {
	bytes, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, EchoError(c, err, http.StatusBadRequest, "Failed to read request body")
	}
	return bytes, nil
}

// ParseJsonBody strictly parses body into value: unknown fields are errors,
// so a mistyped operator request is rejected instead of half-applied.
func ParseJsonBody(c echo.Context, body []byte, value any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	return decodeJsonBody(c, dec, value)
}

// ParseJsonBodyOpen parses body into value, ignoring fields it does not
// know. Edge payloads are open-ended: a newer device reporting extra
// telemetry must still be recorded as alive.
func ParseJsonBodyOpen(c echo.Context, body []byte, value any) error {
	return decodeJsonBody(c, json.NewDecoder(bytes.NewReader(body)), value)
}

func decodeJsonBody(c echo.Context, dec *json.Decoder, value any) error {
	if err := dec.Decode(value); err != nil {
		msg := fmt.Sprintf("Failed to parse request body: %s", err)
		return EchoError(c, err, http.StatusBadRequest, msg)
	}
	return nil
}
