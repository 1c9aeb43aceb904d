// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

//go:build nodb

// The nodb build produces the operator CLI without cgo: tscli links the
// command and fleet model types but never opens a database.
package storage

import (
	"database/sql"
	"errors"
)

var ErrDbConstraintUnique = errors.New("sqlite.ErrConstraintUnique")

func IsDbError(err error, code any) bool {
	return false
}

func IsUniqueViolation(err error) bool {
	return false
}

type DbHandle struct {
}

func NewDb(dbfile string) (*DbHandle, error) {
	return nil, errors.New("built without sqlite support")
}

func (d DbHandle) Close() error {
	return nil
}

func (d DbHandle) Exec(query string, args ...any) (sql.Result, error) {
	return nil, errors.New("built without sqlite support")
}

func (d DbHandle) Prepare(name, query string) (*sql.Stmt, error) {
	return nil, errors.New("built without sqlite support")
}

func (d *DbHandle) InitStmt(stmts ...DbStmtInit) error {
	return errors.New("built without sqlite support")
}

type DbStmt struct {
	Stmt *sql.Stmt
}

type DbStmtInit interface {
	Init(db DbHandle) error
}
