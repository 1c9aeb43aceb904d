// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package fleet

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"time"

	"github.com/pitlink/trackside-cloud/auth"
	"github.com/pitlink/trackside-cloud/storage"
)

// OperatorToken is an operator-facing API credential. Only the HMAC of the
// token value is stored; the cleartext is shown once at creation.
type OperatorToken struct {
	PublicID    uint32            `json:"public_id"`
	Description string            `json:"description"`
	Scopes      auth.Scopes       `json:"scopes"`
	Created     storage.Timestamp `json:"created"`
	Expires     storage.Timestamp `json:"expires"`
}

// TokenCreate mints a new operator token and returns its cleartext value.
func (s Storage) TokenCreate(description string, scopes auth.Scopes, expires time.Time) (string, error) {
	value := "opr_" + rand.Text()

	hashed, err := s.hashToken(value)
	if err != nil {
		return "", err
	}
	t := OperatorToken{
		Description: description,
		Scopes:      scopes,
		Created:     storage.Now(),
		Expires:     storage.Timestamp(expires.Unix()),
	}
	if err := s.stmtTokenCreate.run(hashed, &t); err != nil {
		return "", err
	}
	s.fs.Audit.AppendEvent("operators", fmt.Sprintf("Token created (desc=%q, scopes=%s)", description, scopes))
	return value, nil
}

// TokenLookup resolves a presented token value. It returns nil without an
// error when the token is unknown or expired.
func (s Storage) TokenLookup(value string) (*OperatorToken, error) {
	hashed, err := s.hashToken(value)
	if err != nil {
		return nil, err
	}
	t, err := s.stmtTokenLookup.run(hashed)
	if err != nil || t == nil {
		return nil, err
	}
	if t.Expires.ToTime().Before(time.Now()) {
		return nil, nil
	}
	return t, nil
}

func (s Storage) hashToken(value string) (string, error) {
	hasher := hmac.New(sha256.New, s.hmacSecret)
	if _, err := hasher.Write([]byte(value)); err != nil {
		return "", fmt.Errorf("unable to hash token value: %w", err)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

type stmtTokenCreate storage.DbStmt

func (s *stmtTokenCreate) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("TokenCreate", `
		INSERT INTO operator_tokens (value, description, scopes, created, expires)
		VALUES (?, ?, ?, ?, ?)`)
	return
}

func (s stmtTokenCreate) run(hashed string, t *OperatorToken) error {
	res, err := s.Stmt.Exec(hashed, t.Description, uint64(t.Scopes), t.Created, t.Expires)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.PublicID = uint32(id)
	return nil
}

type stmtTokenLookup storage.DbStmt

func (s *stmtTokenLookup) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("TokenLookup", `
		SELECT public_id, description, scopes, created, expires
		FROM operator_tokens WHERE value = ?`)
	return
}

func (s stmtTokenLookup) run(hashed string) (*OperatorToken, error) {
	var (
		t      OperatorToken
		scopes uint64
	)
	err := s.Stmt.QueryRow(hashed).Scan(&t.PublicID, &t.Description, &scopes, &t.Created, &t.Expires)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Scopes = auth.Scopes(scopes)
	return &t, nil
}
