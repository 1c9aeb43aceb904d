// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package server

import (
	"encoding/json"
	"fmt"
	"time"
)

// Authenticator issues and validates self-describing encrypted tokens. The
// token carries its own payload and expiry, so validation needs no lookup.
type Authenticator struct {
	tokenCipher *tokenCipher
}

func NewAuthenticator(tokenSecret string) (a Authenticator, err error) {
	if a.tokenCipher, err = newTokenCipher(tokenSecret); err != nil {
		err = fmt.Errorf("failed to initialize token cipher: %w", err)
	}
	return
}

// NewToken seals data plus an absolute expiry into an encrypted token string.
func (a Authenticator) NewToken(data any, expiresIn time.Duration) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed marshaling token payload: %w", err)
	}
	body, err := json.Marshal(tokenBody{
		Data:    payload,
		Expires: time.Now().Add(expiresIn).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("failed marshaling token body: %w", err)
	}
	sealed, err := a.tokenCipher.Encrypt(body)
	if err != nil {
		return "", fmt.Errorf("failed encrypting token: %w", err)
	}
	return string(sealed), nil
}

// ParseToken decrypts a presented token, enforces its expiry and unmarshals
// the payload into data.
func (a Authenticator) ParseToken(data any, token string) error {
	body, err := a.tokenCipher.Decrypt([]byte(token))
	if err != nil {
		return fmt.Errorf("failed decrypting token: %w", err)
	}
	var t tokenBody
	if err = json.Unmarshal(body, &t); err != nil {
		return fmt.Errorf("failed parsing token body: %w", err)
	}
	if time.Now().After(time.Unix(t.Expires, 0)) {
		return fmt.Errorf("token expired at unix timestamp: %d", t.Expires)
	}
	if err = json.Unmarshal(t.Data, data); err != nil {
		return fmt.Errorf("failed parsing token payload: %w", err)
	}
	return nil
}

type tokenBody struct {
	Data    json.RawMessage `json:"data"`
	Expires int64           `json:"expires"`
}
