// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

// Package fleet stores the provisioned vehicles, the events they report
// into, and the operator API tokens.
package fleet

import (
	"database/sql"
	"fmt"

	"github.com/pitlink/trackside-cloud/storage"
)

const (
	EventScheduled = "scheduled"
	EventLive      = "live"
	EventFinished  = "finished"
)

const schema = `
CREATE TABLE IF NOT EXISTS vehicles (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	event_id TEXT NOT NULL DEFAULT '',
	created  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	status  TEXT NOT NULL,
	created INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS operator_tokens (
	public_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	value       TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL,
	scopes      INTEGER NOT NULL,
	created     INTEGER NOT NULL,
	expires     INTEGER NOT NULL
);
`

type Storage struct {
	db *storage.DbHandle
	fs *storage.FsHandle

	hmacSecret []byte

	stmtVehicleCreate    stmtVehicleCreate
	stmtVehicleGet       stmtVehicleGet
	stmtVehicleList      stmtVehicleList
	stmtVehicleAssign    stmtVehicleAssign
	stmtVehiclesForEvent stmtVehiclesForEvent
	stmtEventCreate      stmtEventCreate
	stmtEventGet         stmtEventGet
	stmtEventSetStatus   stmtEventSetStatus
	stmtTokenCreate      stmtTokenCreate
	stmtTokenLookup      stmtTokenLookup
}

func NewStorage(db *storage.DbHandle, fs *storage.FsHandle) (*Storage, error) {
	hmacSecret, err := fs.Secrets.ReadOrCreate("hmac.secret")
	if err != nil {
		return nil, fmt.Errorf("unable to read HMAC secret for API tokens: %w", err)
	}
	handle := Storage{
		db:         db,
		fs:         fs,
		hmacSecret: hmacSecret,
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("unable to initialize fleet schema: %w", err)
	}

	if err := db.InitStmt(
		&handle.stmtVehicleCreate,
		&handle.stmtVehicleGet,
		&handle.stmtVehicleList,
		&handle.stmtVehicleAssign,
		&handle.stmtVehiclesForEvent,
		&handle.stmtEventCreate,
		&handle.stmtEventGet,
		&handle.stmtEventSetStatus,
		&handle.stmtTokenCreate,
		&handle.stmtTokenLookup,
	); err != nil {
		return nil, err
	}

	return &handle, nil
}

// Vehicle is one provisioned edge device identity. The id is immutable once
// assigned.
type Vehicle struct {
	h Storage

	ID      string            `json:"id"`
	Name    string            `json:"name"`
	EventID string            `json:"event_id,omitempty"`
	Created storage.Timestamp `json:"created"`
}

// Event returns the event the vehicle currently reports into, nil when
// unassigned.
func (v Vehicle) Event() (*Event, error) {
	if v.EventID == "" {
		return nil, nil
	}
	return v.h.EventGet(v.EventID)
}

type Event struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Status  string            `json:"status"`
	Created storage.Timestamp `json:"created"`
}

func (s Storage) VehicleCreate(id, name string) (*Vehicle, error) {
	v := Vehicle{
		h:       s,
		ID:      id,
		Name:    name,
		Created: storage.Now(),
	}
	if err := s.stmtVehicleCreate.run(&v); err != nil {
		return nil, err
	}
	s.fs.Audit.AppendEvent(id, "Vehicle created")
	return &v, nil
}

// VehicleGet returns nil without an error when the vehicle does not exist.
func (s Storage) VehicleGet(id string) (*Vehicle, error) {
	v, err := s.stmtVehicleGet.run(id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if v != nil {
		v.h = s
	}
	return v, err
}

func (s Storage) VehicleList() ([]Vehicle, error) {
	return s.stmtVehicleList.run()
}

// VehicleAssign points a vehicle at the event it should report into. An empty
// eventID detaches it.
func (s Storage) VehicleAssign(vehicleID, eventID string) error {
	if eventID != "" {
		if e, err := s.EventGet(eventID); err != nil {
			return err
		} else if e == nil {
			return fmt.Errorf("event %s does not exist", eventID)
		}
	}
	if err := s.stmtVehicleAssign.run(vehicleID, eventID); err != nil {
		return err
	}
	s.fs.Audit.AppendEvent(vehicleID, fmt.Sprintf("Assigned to event %q", eventID))
	return nil
}

func (s Storage) VehiclesForEvent(eventID string) ([]Vehicle, error) {
	return s.stmtVehiclesForEvent.run(eventID)
}

func (s Storage) EventCreate(id, name, status string) (*Event, error) {
	switch status {
	case EventScheduled, EventLive, EventFinished:
	default:
		return nil, fmt.Errorf("invalid event status: %s", status)
	}
	e := Event{
		ID:      id,
		Name:    name,
		Status:  status,
		Created: storage.Now(),
	}
	if err := s.stmtEventCreate.run(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// EventGet returns nil without an error when the event does not exist.
func (s Storage) EventGet(id string) (*Event, error) {
	e, err := s.stmtEventGet.run(id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (s Storage) EventSetStatus(id, status string) error {
	switch status {
	case EventScheduled, EventLive, EventFinished:
	default:
		return fmt.Errorf("invalid event status: %s", status)
	}
	return s.stmtEventSetStatus.run(id, status)
}

type stmtVehicleCreate storage.DbStmt

func (s *stmtVehicleCreate) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("VehicleCreate", `
		INSERT INTO vehicles (id, name, created) VALUES (?, ?, ?)`)
	return
}

func (s stmtVehicleCreate) run(v *Vehicle) error {
	_, err := s.Stmt.Exec(v.ID, v.Name, v.Created)
	if storage.IsUniqueViolation(err) {
		return fmt.Errorf("vehicle %s already exists", v.ID)
	}
	return err
}

type stmtVehicleGet storage.DbStmt

func (s *stmtVehicleGet) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("VehicleGet", `
		SELECT id, name, event_id, created FROM vehicles WHERE id = ?`)
	return
}

func (s stmtVehicleGet) run(id string) (*Vehicle, error) {
	var v Vehicle
	err := s.Stmt.QueryRow(id).Scan(&v.ID, &v.Name, &v.EventID, &v.Created)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type stmtVehicleList storage.DbStmt

func (s *stmtVehicleList) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("VehicleList", `
		SELECT id, name, event_id, created FROM vehicles ORDER BY id`)
	return
}

func (s stmtVehicleList) run() ([]Vehicle, error) {
	rows, err := s.Stmt.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.EventID, &v.Created); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

type stmtVehicleAssign storage.DbStmt

func (s *stmtVehicleAssign) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("VehicleAssign", `
		UPDATE vehicles SET event_id = ? WHERE id = ?`)
	return
}

func (s stmtVehicleAssign) run(vehicleID, eventID string) error {
	res, err := s.Stmt.Exec(eventID, vehicleID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("vehicle %s does not exist", vehicleID)
	}
	return nil
}

type stmtVehiclesForEvent storage.DbStmt

func (s *stmtVehiclesForEvent) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("VehiclesForEvent", `
		SELECT id, name, event_id, created FROM vehicles WHERE event_id = ? ORDER BY id`)
	return
}

func (s stmtVehiclesForEvent) run(eventID string) ([]Vehicle, error) {
	rows, err := s.Stmt.Query(eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.EventID, &v.Created); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

type stmtEventCreate storage.DbStmt

func (s *stmtEventCreate) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("EventCreate", `
		INSERT INTO events (id, name, status, created) VALUES (?, ?, ?, ?)`)
	return
}

func (s stmtEventCreate) run(e *Event) error {
	_, err := s.Stmt.Exec(e.ID, e.Name, e.Status, e.Created)
	if storage.IsUniqueViolation(err) {
		return fmt.Errorf("event %s already exists", e.ID)
	}
	return err
}

type stmtEventGet storage.DbStmt

func (s *stmtEventGet) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("EventGet", `
		SELECT id, name, status, created FROM events WHERE id = ?`)
	return
}

func (s stmtEventGet) run(id string) (*Event, error) {
	var e Event
	err := s.Stmt.QueryRow(id).Scan(&e.ID, &e.Name, &e.Status, &e.Created)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

type stmtEventSetStatus storage.DbStmt

func (s *stmtEventSetStatus) Init(db storage.DbHandle) (err error) {
	s.Stmt, err = db.Prepare("EventSetStatus", `
		UPDATE events SET status = ? WHERE id = ?`)
	return
}

func (s stmtEventSetStatus) run(id, status string) error {
	res, err := s.Stmt.Exec(status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("event %s does not exist", id)
	}
	return nil
}
