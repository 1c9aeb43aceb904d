// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

// Package commands stores in-flight remote instructions to edge devices and
// owns their lifecycle: dispatch, acknowledgement, timeout, clearing.
package commands

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pitlink/trackside-cloud/storage"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
)

var (
	// ErrConflict is the dispatch policy for a busy device: a second
	// dispatch while one command is pending is rejected, never queued.
	ErrConflict = errors.New("a command is already pending for this vehicle")

	ErrNotFound        = errors.New("command not found")
	ErrVehicleMismatch = errors.New("command belongs to another vehicle")
)

// PendingCommand is one remote instruction. Its status moves
// pending -> success|failed|timeout exactly once and never regresses; the
// acknowledgement handler and the timeout sweep race for that single
// transition through a conditional UPDATE.
type PendingCommand struct {
	RequestID   string          `json:"request_id"`
	EventID     string          `json:"event_id"`
	VehicleID   string          `json:"vehicle_id"`
	CommandType string          `json:"command_type"`
	Parameters  json.RawMessage `json:"parameters"`
	Status      Status          `json:"status"`
	CreatedMs   int64           `json:"created_ms"`
	LastError   string          `json:"last_error,omitempty"`
}

func (c PendingCommand) Terminal() bool {
	return c.Status != StatusPending
}

const schema = `
CREATE TABLE IF NOT EXISTS commands (
	request_id   TEXT PRIMARY KEY,
	event_id     TEXT NOT NULL,
	vehicle_id   TEXT NOT NULL,
	command_type TEXT NOT NULL,
	parameters   TEXT NOT NULL,
	status       TEXT NOT NULL,
	created_ms   INTEGER NOT NULL,
	finished_ms  INTEGER NOT NULL DEFAULT 0,
	last_error   TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS commands_one_pending
	ON commands (event_id, vehicle_id) WHERE status = 'pending';
`

type Storage struct {
	db *storage.DbHandle

	stmtInsert      stmtInsert
	stmtGet         stmtGet
	stmtCurrent     stmtCurrent
	stmtPending     stmtPending
	stmtResolve     stmtResolve
	stmtSweepExpire stmtSweepExpire
	stmtSweepClear  stmtSweepClear

	done chan struct{}
}

func NewStorage(db *storage.DbHandle) (*Storage, error) {
	handle := Storage{db: db}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("unable to initialize commands schema: %w", err)
	}

	if err := db.InitStmt(
		&handle.stmtInsert,
		&handle.stmtGet,
		&handle.stmtCurrent,
		&handle.stmtPending,
		&handle.stmtResolve,
		&handle.stmtSweepExpire,
		&handle.stmtSweepClear,
	); err != nil {
		return nil, err
	}

	return &handle, nil
}

// Dispatch validates and normalizes the command, then records it as pending.
// It fails with ErrConflict when a command is already pending for the same
// (event, vehicle) pair.
func (s *Storage) Dispatch(eventID, vehicleID, commandType string, parameters json.RawMessage) (*PendingCommand, error) {
	canonicalType, canonicalParams, err := NormalizeCommand(commandType, parameters)
	if err != nil {
		return nil, err
	}

	cmd := PendingCommand{
		RequestID:   uuid.New().String(),
		EventID:     eventID,
		VehicleID:   vehicleID,
		CommandType: canonicalType,
		Parameters:  canonicalParams,
		Status:      StatusPending,
		CreatedMs:   time.Now().UnixMilli(),
	}
	if err := s.stmtInsert.run(&cmd); err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return &cmd, nil
}

// Get returns the command with the given request id, or ErrNotFound.
func (s *Storage) Get(requestID string) (*PendingCommand, error) {
	return s.stmtGet.run(requestID)
}

// Current returns the most recent command for the pair, terminal or not.
// Terminal commands stay observable until the sweep clears them after the
// grace period. Returns nil when nothing was ever dispatched (or everything
// was cleared).
func (s *Storage) Current(eventID, vehicleID string) (*PendingCommand, error) {
	return s.stmtCurrent.run(eventID, vehicleID)
}

// Pending returns the command the device should execute next, nil when idle.
func (s *Storage) Pending(eventID, vehicleID string) (*PendingCommand, error) {
	return s.stmtPending.run(eventID, vehicleID)
}

// Acknowledge applies a device's completion report. The command must belong
// to vehicleID. A duplicate ACK on an already-terminal command is a no-op
// reported as applied=false: the first terminal writer wins and the stored
// outcome is never overwritten.
func (s *Storage) Acknowledge(requestID, vehicleID string, outcome Status, message string) (applied bool, err error) {
	if outcome != StatusSuccess && outcome != StatusFailed {
		return false, fmt.Errorf("invalid acknowledgement outcome: %s", outcome)
	}

	cmd, err := s.stmtGet.run(requestID)
	if err != nil {
		return false, err
	}
	if cmd.VehicleID != vehicleID {
		return false, ErrVehicleMismatch
	}

	lastError := ""
	if outcome == StatusFailed {
		lastError = message
	}
	return s.stmtResolve.run(requestID, outcome, lastError)
}

// StartSweep runs the background loop that times out overdue pending
// commands and clears terminal ones after the grace period. onTimeout, when
// non-nil, is invoked with the number of commands timed out per tick.
func (s *Storage) StartSweep(interval, deadline, grace time.Duration, onTimeout func(n int64)) {
	s.done = make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runSweep(deadline, grace, onTimeout)
			case <-s.done:
				slog.Info("Stopping command sweep")
				return
			}
		}
	}()
}

func (s *Storage) StopSweep() {
	close(s.done)
}

// runSweep never lets a failure kill the loop; a broken tick is retried on
// the next one.
func (s *Storage) runSweep(deadline, grace time.Duration, onTimeout func(n int64)) {
	nowMs := time.Now().UnixMilli()

	n, err := s.stmtSweepExpire.run(nowMs, nowMs-deadline.Milliseconds())
	if err != nil {
		slog.Error("Unable to time out overdue commands", "error", err)
	} else if n > 0 {
		slog.Info("Timed out overdue commands", "count", n)
		if onTimeout != nil {
			onTimeout(n)
		}
	}

	if _, err := s.stmtSweepClear.run(nowMs - grace.Milliseconds()); err != nil {
		slog.Error("Unable to clear finished commands", "error", err)
	}
}

type stmtInsert storage.DbStmt

func (s *stmtInsert) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("CommandInsert", `
		INSERT INTO commands (request_id, event_id, vehicle_id, command_type, parameters, status, created_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	return
}

func (s stmtInsert) run(c *PendingCommand) error {
	_, err := s.Stmt.Exec(c.RequestID, c.EventID, c.VehicleID, c.CommandType, string(c.Parameters), string(c.Status), c.CreatedMs)
	return err
}

const commandColumns = `request_id, event_id, vehicle_id, command_type, parameters, status, created_ms, last_error`

func scanCommand(row *sql.Row) (*PendingCommand, error) {
	var (
		c      PendingCommand
		params string
		status string
	)
	err := row.Scan(&c.RequestID, &c.EventID, &c.VehicleID, &c.CommandType, &params, &status, &c.CreatedMs, &c.LastError)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Parameters = json.RawMessage(params)
	c.Status = Status(status)
	return &c, nil
}

type stmtGet storage.DbStmt

func (s *stmtGet) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("CommandGet", `
		SELECT `+commandColumns+` FROM commands WHERE request_id = ?`)
	return
}

func (s stmtGet) run(requestID string) (*PendingCommand, error) {
	c, err := scanCommand(s.Stmt.QueryRow(requestID))
	if err == nil && c == nil {
		return nil, ErrNotFound
	}
	return c, err
}

type stmtCurrent storage.DbStmt

func (s *stmtCurrent) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("CommandCurrent", `
		SELECT `+commandColumns+` FROM commands
		WHERE event_id = ? AND vehicle_id = ?
		ORDER BY created_ms DESC LIMIT 1`)
	return
}

func (s stmtCurrent) run(eventID, vehicleID string) (*PendingCommand, error) {
	return scanCommand(s.Stmt.QueryRow(eventID, vehicleID))
}

type stmtPending storage.DbStmt

func (s *stmtPending) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("CommandPending", `
		SELECT `+commandColumns+` FROM commands
		WHERE event_id = ? AND vehicle_id = ? AND status = 'pending'`)
	return
}

func (s stmtPending) run(eventID, vehicleID string) (*PendingCommand, error) {
	return scanCommand(s.Stmt.QueryRow(eventID, vehicleID))
}

type stmtResolve storage.DbStmt

func (s *stmtResolve) Init(db storage.DbHandle) (err error) {
	// The status guard is the compare-and-set: whoever resolves first wins,
	// every later writer affects zero rows.
	s.Stmt, err = db.Prepare("CommandResolve", `
		UPDATE commands SET status = ?, last_error = ?, finished_ms = ?
		WHERE request_id = ? AND status = 'pending'`)
	return
}

func (s stmtResolve) run(requestID string, outcome Status, lastError string) (bool, error) {
	res, err := s.Stmt.Exec(string(outcome), lastError, time.Now().UnixMilli(), requestID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type stmtSweepExpire storage.DbStmt

func (s *stmtSweepExpire) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("CommandSweepExpire", `
		UPDATE commands SET status = 'timeout', finished_ms = ?
		WHERE status = 'pending' AND created_ms <= ?`)
	return
}

func (s stmtSweepExpire) run(nowMs, cutoffMs int64) (int64, error) {
	res, err := s.Stmt.Exec(nowMs, cutoffMs)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type stmtSweepClear storage.DbStmt

func (s *stmtSweepClear) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("CommandSweepClear", `
		DELETE FROM commands WHERE status != 'pending' AND finished_ms <= ?`)
	return
}

func (s stmtSweepClear) run(cutoffMs int64) (int64, error) {
	res, err := s.Stmt.Exec(cutoffMs)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
