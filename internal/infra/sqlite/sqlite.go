// Package sqlite persists the party aggregate and the user directory.
// Each party is one row with its items serialized as a JSON column, the
// same shape the state travels in over the API. Saves replace the whole
// table in one transaction, so the last writer wins and the table always
// holds exactly one consistent snapshot.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lucky0011198/AVR-GARMENT/internal/domain"
)

// DB wraps the SQLite handle.
type DB struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database under dir and applies migrations.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dir, "garment.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// The modernc driver is not safe for concurrent writes on one file.
	conn.SetMaxOpenConns(1)

	db := &DB{db: conn, path: path}
	for _, stmt := range Migrations() {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return db, nil
}

// Close releases the underlying handle.
func (db *DB) Close() error { return db.db.Close() }

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

// Migrations returns the schema statements. Each string is a single SQL
// statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// One row per party, items as a JSON document.
		`CREATE TABLE IF NOT EXISTS parties (
			id         INTEGER PRIMARY KEY,
			party_name TEXT NOT NULL DEFAULT '',
			item       TEXT NOT NULL DEFAULT '[]'
		)`,

		// User directory for the allocation dropdown.
		`CREATE TABLE IF NOT EXISTS users (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)`,
	}
}

// ─── Party Persistence ──────────────────────────────────────────────────────

// SaveParties replaces the stored party list with the given one in a single
// transaction. Item internal ids are transport-local and are cleared before
// serialization so they are never written.
func (db *DB) SaveParties(parties []domain.Party) error {
	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM parties`); err != nil {
		return fmt.Errorf("clear parties: %w", err)
	}
	for _, p := range parties {
		stripped := make([]domain.Item, len(p.Items))
		for i, it := range p.Items {
			stripped[i] = it.Clone()
			stripped[i].InternalID = ""
		}
		items, err := json.Marshal(stripped)
		if err != nil {
			return fmt.Errorf("encode items for party %d: %w", p.ID, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO parties (id, party_name, item) VALUES (?, ?, ?)`,
			p.ID, p.Name, string(items),
		); err != nil {
			return fmt.Errorf("insert party %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// LoadParties reads every stored party. Items come back with fresh internal
// ids since those are never persisted.
func (db *DB) LoadParties() ([]domain.Party, error) {
	rows, err := db.db.Query(`SELECT id, party_name, item FROM parties ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query parties: %w", err)
	}
	defer rows.Close()

	var parties []domain.Party
	for rows.Next() {
		var p domain.Party
		var items string
		if err := rows.Scan(&p.ID, &p.Name, &items); err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &p.Items); err != nil {
			return nil, fmt.Errorf("decode items for party %d: %w", p.ID, err)
		}
		for i := range p.Items {
			p.Items[i].InternalID = uuid.NewString()
			if p.Items[i].Sizes == nil {
				p.Items[i].Sizes = []string{}
			}
			if p.Items[i].Allocations == nil {
				p.Items[i].Allocations = []domain.AllocationEntry{}
			}
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

// CountParties reports how many parties are stored.
func (db *DB) CountParties() (int, error) {
	var n int
	err := db.db.QueryRow(`SELECT COUNT(*) FROM parties`).Scan(&n)
	return n, err
}

// ─── User Directory ─────────────────────────────────────────────────────────

// SeedUsers inserts users that are not already present. Existing rows are
// left alone so renames made elsewhere survive a restart.
func (db *DB) SeedUsers(users []domain.User) error {
	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, u := range users {
		if _, err := tx.Exec(
			`INSERT INTO users (id, name) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
			u.ID, u.Name,
		); err != nil {
			return fmt.Errorf("insert user %s: %w", u.ID, err)
		}
	}
	return tx.Commit()
}

// LoadUsers reads the user directory ordered by id.
func (db *DB) LoadUsers() ([]domain.User, error) {
	rows, err := db.db.Query(`SELECT id, name FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
