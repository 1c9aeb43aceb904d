// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

//go:build !nodb

package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var ErrDbConstraintUnique = errors.New("sqlite.ErrConstraintUnique")

// IsDbError reports whether err wraps the given sqlite extended error code.
func IsDbError(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == code
	}
	return false
}

func IsUniqueViolation(err error) bool {
	return IsDbError(err, sqlite3.ErrConstraintUnique)
}

type DbHandle struct {
	db *sql.DB
}

func NewDb(dbfile string) (*DbHandle, error) {
	db, err := sql.Open("sqlite3", dbfile+"?_journal=WAL&_busy_timeout=5000&_fk=on")
	if err != nil {
		return nil, fmt.Errorf("unable to open database %s: %w", dbfile, err)
	}
	// sqlite serializes writers; a single connection avoids SQLITE_BUSY
	// churn between the request handlers and the sweep.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("unable to initialize database %s: %w", dbfile, err)
	}
	return &DbHandle{db: db}, nil
}

func (d DbHandle) Close() error {
	return d.db.Close()
}

func (d DbHandle) Exec(query string, args ...any) (sql.Result, error) {
	return d.db.Exec(query, args...)
}

func (d DbHandle) Prepare(name, query string) (*sql.Stmt, error) {
	stmt, err := d.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare statement %s: %w", name, err)
	}
	return stmt, nil
}

func (d *DbHandle) InitStmt(stmts ...DbStmtInit) error {
	for _, stmt := range stmts {
		if err := stmt.Init(*d); err != nil {
			return err
		}
	}
	return nil
}

type DbStmt struct {
	Stmt *sql.Stmt
}

type DbStmtInit interface {
	Init(db DbHandle) error
}
