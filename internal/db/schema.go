package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// items.status and requests.status are constrained to the closed state sets.
// items.status is derived state: only the inventory package writes it.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    name          TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    is_donor      INTEGER NOT NULL DEFAULT 0,
    is_affected   INTEGER NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY,
    donor_id    INTEGER NOT NULL REFERENCES users(id),
    name        TEXT NOT NULL,
    category    TEXT NOT NULL,
    description TEXT NOT NULL,
    location    TEXT NOT NULL,
    quantity    INTEGER NOT NULL CHECK (quantity >= 0),
    status      TEXT NOT NULL DEFAULT 'Available' CHECK (status IN ('Available', 'Requested', 'Completed')),
    image       BLOB,
    image_mime  TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_donor ON items(donor_id);

CREATE INDEX IF NOT EXISTS idx_items_batch_key
    ON items(donor_id, name, category, location, description);

CREATE TABLE IF NOT EXISTS requests (
    id                 INTEGER PRIMARY KEY,
    requester_id       INTEGER NOT NULL REFERENCES users(id),
    item_id            INTEGER NOT NULL REFERENCES items(id),
    requested_quantity INTEGER NOT NULL CHECK (requested_quantity > 0),
    status             TEXT NOT NULL DEFAULT 'Pending' CHECK (status IN ('Pending', 'Approved', 'Rejected')),
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_requests_item ON requests(item_id);
CREATE INDEX IF NOT EXISTS idx_requests_requester ON requests(requester_id);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
