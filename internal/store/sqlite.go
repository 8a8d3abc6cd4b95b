// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The zac Authors

package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

//go:embed migrations/*.sql
var migrations embed.FS

// SQLite is a SQLite-backed store.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens (creating if needed) a SQLite store at the given path and
// brings its schema up to date.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}
	// one connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Get retrieves the latest body of a comment.
func (s *SQLite) Get(doc, name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body string
	err := s.db.QueryRow("SELECT body FROM comments WHERE doc = ? AND name = ?", doc, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return body, true, nil
}

// Put stores a body and records a new version when it changed.
func (s *SQLite) Put(doc, name, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		current string
		version int
	)
	err = tx.QueryRow("SELECT body, version FROM comments WHERE doc = ? AND name = ?", doc, name).
		Scan(&current, &version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	case current == body:
		return nil
	}

	version++
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.Exec(`
		INSERT INTO comments (doc, name, body, version, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(doc, name) DO UPDATE SET
			body = excluded.body,
			version = excluded.version,
			updated_at = excluded.updated_at
	`, doc, name, body, version, ts); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO comment_versions (id, doc, name, version, body, created_at) VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), doc, name, version, body, ts); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a comment and all of its versions.
func (s *SQLite) Delete(doc, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM comments WHERE doc = ? AND name = ?", doc, name); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM comment_versions WHERE doc = ? AND name = ?", doc, name); err != nil {
		return err
	}
	return tx.Commit()
}

// Names lists the stored comment names of doc.
func (s *SQLite) Names(doc string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT name FROM comments WHERE doc = ? ORDER BY name", doc)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetHistory returns versions newest first. A limit of 0 returns all.
func (s *SQLite) GetHistory(doc, name string, limit int) ([]VersionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := "SELECT id, version, body, created_at FROM comment_versions WHERE doc = ? AND name = ? ORDER BY version DESC"
	args := []any{doc, name}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []VersionEntry
	for rows.Next() {
		var e VersionEntry
		if err := rows.Scan(&e.ID, &e.Version, &e.Body, &e.Ts); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
