// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package storage

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FsHandle is the server's data directory: the sqlite file, the config file,
// the token secrets, and an append-only provisioning audit log.
type FsHandle struct {
	Audit   AuditFsHandle
	Secrets SecretsFsHandle

	root string
}

func NewFs(root string) (*FsHandle, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("unable to initialize data directory: %w", err)
	}
	return &FsHandle{
		Audit:   AuditFsHandle{root: filepath.Join(root, "audit")},
		Secrets: SecretsFsHandle{root: root},
		root:    root,
	}, nil
}

func (s FsHandle) DbFile() string {
	return filepath.Join(s.root, "trackside.db")
}

func (s FsHandle) ConfigFile() string {
	return filepath.Join(s.root, "config.toml")
}

// SecretsFsHandle manages the secrets the server derives credentials from.
type SecretsFsHandle struct {
	root string
}

// ReadOrCreate returns the named secret, generating and persisting a fresh
// one on first use so a new data directory is usable without manual setup.
func (s SecretsFsHandle) ReadOrCreate(name string) ([]byte, error) {
	path := filepath.Join(s.root, name)
	secret, err := os.ReadFile(path)
	if err == nil {
		return secret, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("unable to read secret %s: %w", name, err)
	}
	secret = []byte(rand.Text())
	if err := os.WriteFile(path, secret, 0o600); err != nil {
		return nil, fmt.Errorf("unable to persist secret %s: %w", name, err)
	}
	return secret, nil
}

// AuditFsHandle appends provisioning events, one file per entity.
type AuditFsHandle struct {
	root string
}

func (s AuditFsHandle) AppendEvent(id, msg string) {
	if err := s.appendEvent(id, msg); err != nil {
		// The audit trail is best effort; losing an entry must not fail
		// the provisioning operation it describes.
		fmt.Fprintf(os.Stderr, "audit: %s\n", err)
	}
}

func (s AuditFsHandle) ReadEvents(id string) (string, error) {
	content, err := os.ReadFile(filepath.Join(s.root, id))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("unable to read audit log for %s: %w", id, err)
	}
	return string(content), nil
}

func (s AuditFsHandle) appendEvent(id, msg string) error {
	if err := os.MkdirAll(s.root, 0o700); err != nil {
		return fmt.Errorf("unable to create audit directory: %w", err)
	}
	fd, err := os.OpenFile(filepath.Join(s.root, id), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("unable to open audit log for %s: %w", id, err)
	}
	line := fmt.Sprintf("%s %s\n", time.Now().UTC().Format(time.RFC3339), msg)
	if _, err = fd.WriteString(line); err != nil {
		_ = fd.Close()
		return fmt.Errorf("unable to append audit log for %s: %w", id, err)
	}
	return fd.Close()
}
