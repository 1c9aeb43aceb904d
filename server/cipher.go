// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear
package server

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// tokenCipher seals token payloads with AES-256-GCM under a key derived from
// the deployment secret via scrypt. The wire format is base32 over
// [version | salt | nonce | ciphertext], so a token is self-describing and
// survives a key-salt rotation: decryption re-derives the key from the salt
// embedded in the token itself.
type tokenCipher struct {
	secret []byte
	salt   []byte
	key    []byte
}

const (
	cipherFormatVersion uint8 = 1

	cipherKeyLen   = 32 // AES-256
	cipherSaltLen  = 8  // scrypt salt
	cipherNonceLen = 12 // GCM nonce
)

// Tokens travel in headers and CLI flags, so the binary envelope is base32
// encoded without padding.
var cipherEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

var ErrCipherVersionMismatch = errors.New("token format version is not supported")

func newTokenCipher(secret string) (*tokenCipher, error) {
	salt := make([]byte, cipherSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate cipher salt: %w", err)
	}
	return newTokenCipherWithSalt([]byte(secret), salt)
}

func newTokenCipherWithSalt(secret, salt []byte) (*tokenCipher, error) {
	// scrypt parameters N=16, r=8, p=1: key derivation stays cheap (16KiB)
	// because every request re-derives on a salt change.
	key, err := scrypt.Key(secret, salt, 16, 8, 1, cipherKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive cipher key: %w", err)
	}
	return &tokenCipher{secret: secret, salt: salt, key: key}, nil
}

func (c *tokenCipher) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher block: %w", err)
	}
	mode, err := cipher.NewGCMWithNonceSize(block, cipherNonceLen)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher mode: %w", err)
	}
	return mode, nil
}

func (c *tokenCipher) Encrypt(data []byte) ([]byte, error) {
	mode, err := c.gcm()
	if err != nil {
		return nil, err
	}
	headerLen := 1 + cipherSaltLen + mode.NonceSize()
	envelope := make([]byte, headerLen, headerLen+len(data)+mode.Overhead())
	envelope[0] = cipherFormatVersion
	copy(envelope[1:1+cipherSaltLen], c.salt)
	nonce := envelope[1+cipherSaltLen : headerLen]
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate cipher nonce: %w", err)
	}
	envelope = mode.Seal(envelope[:headerLen], nonce, data, nil)

	out := make([]byte, cipherEncoding.EncodedLen(len(envelope)))
	cipherEncoding.Encode(out, envelope)
	return out, nil
}

func (c *tokenCipher) Decrypt(data []byte) ([]byte, error) {
	envelope := make([]byte, cipherEncoding.DecodedLen(len(data)))
	if _, err := cipherEncoding.Decode(envelope, data); err != nil {
		return nil, fmt.Errorf("invalid token data: failed to parse base32 encoding: %w", err)
	}
	if len(envelope) < 1 {
		return nil, fmt.Errorf("invalid token data: empty stream")
	}
	if version := envelope[0]; version != cipherFormatVersion {
		return nil, fmt.Errorf("%w: have %d, token carries %d",
			ErrCipherVersionMismatch, cipherFormatVersion, version)
	}
	if len(envelope) < 1+cipherSaltLen+cipherNonceLen {
		return nil, fmt.Errorf("invalid token data: insufficient length: %d", len(envelope))
	}

	// A token minted before a salt rotation carries the old salt; re-derive
	// the matching key rather than rejecting it.
	if salt := envelope[1 : 1+cipherSaltLen]; !bytes.Equal(c.salt, salt) {
		rotated, err := newTokenCipherWithSalt(c.secret, salt)
		if err != nil {
			return nil, err
		}
		c = rotated
	}

	mode, err := c.gcm()
	if err != nil {
		return nil, err
	}
	headerLen := 1 + cipherSaltLen + mode.NonceSize()
	nonce := envelope[1+cipherSaltLen : headerLen]
	plain, err := mode.Open(nil, nonce, envelope[headerLen:], nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token data: failed to decrypt: %w", err)
	}
	return plain, nil
}
