// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

// Package api is the REST client tscli uses to talk to a trackside server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pitlink/trackside-cloud/cli/config"
	"github.com/pitlink/trackside-cloud/server"
)

type ctxKey int

const ContextKey ctxKey = 0

func CtxGetApi(ctx context.Context) *Api {
	return ctx.Value(ContextKey).(*Api)
}

type Api struct {
	url    string
	token  string
	client *http.Client
}

func NewClient(appctx config.Context) *Api {
	return &Api{
		url:    strings.TrimRight(appctx.URL, "/"),
		token:  appctx.Token,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *Api) Get(resource string, value any) error {
	return a.do(http.MethodGet, resource, nil, value)
}

func (a *Api) Post(resource string, body, value any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	return a.do(http.MethodPost, resource, buf, value)
}

func (a *Api) do(method, resource string, body []byte, value any) error {
	req, err := http.NewRequest(method, a.url+resource, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("X-Operator-Token", a.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	buf, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read server response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// The server always responds with a structured message.
		var errResp server.ErrorResp
		if json.Unmarshal(buf, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("%s (HTTP %d)", errResp.Message, res.StatusCode)
		}
		return fmt.Errorf("HTTP %d: %s", res.StatusCode, string(buf))
	}
	if value == nil || len(buf) == 0 {
		return nil
	}
	if err := json.Unmarshal(buf, value); err != nil {
		return fmt.Errorf("failed to parse server response: %w", err)
	}
	return nil
}
