package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GetSigningKey retrieves the session token signing key from the database.
// If no key exists yet, it generates and stores one.
func GetSigningKey(ctx context.Context, q DBTX) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating signing key: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('signing_key', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing signing key: %w", err)
	}

	// Read back whichever value won the insert.
	var key string
	err = q.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'signing_key'`,
	).Scan(&key)
	if err != nil {
		return "", fmt.Errorf("querying signing key: %w", err)
	}

	return key, nil
}
