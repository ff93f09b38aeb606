package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/empchart/internal/apperr"
	"github.com/starford/empchart/internal/checksum"
	"github.com/starford/empchart/internal/models"
)

const slotSchemaSQL = `
CREATE TABLE IF NOT EXISTS slots (
	name       TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	checksum   TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLite implements Provider with one row per slot.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the slot database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	if _, err := conn.Exec(slotSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// Read returns the stored body of a slot.
func (s *SQLite) Read(name string) ([]byte, error) {
	return s.ReadContext(context.Background(), name)
}

// ReadContext is Read with a caller-supplied context.
func (s *SQLite) ReadContext(ctx context.Context, name string) ([]byte, error) {
	var body []byte
	err := s.conn.QueryRowContext(ctx, `SELECT body FROM slots WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: read %s: %w", name, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return body, nil
}

// Write inserts or fully replaces a slot.
func (s *SQLite) Write(name string, content []byte) error {
	return s.WriteContext(context.Background(), name, content)
}

// WriteContext is Write with a caller-supplied context.
func (s *SQLite) WriteContext(ctx context.Context, name string, content []byte) error {
	if name == "" {
		return fmt.Errorf("storage: empty slot name")
	}
	if content == nil {
		content = []byte{}
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO slots (name, body, checksum, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			body       = excluded.body,
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, name, content, checksum.Sum(content), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	return nil
}

// Delete removes a slot.
func (s *SQLite) Delete(name string) error {
	return s.DeleteContext(context.Background(), name)
}

// DeleteContext is Delete with a caller-supplied context.
func (s *SQLite) DeleteContext(ctx context.Context, name string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("storage: delete %s: %w", name, apperr.ErrNotFound)
	}
	return nil
}

// List returns metadata for every stored slot, ordered by name.
func (s *SQLite) List() ([]models.SlotMetadata, error) {
	rows, err := s.conn.Query(`SELECT name, checksum, length(body), updated_at FROM slots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	defer rows.Close()

	var out []models.SlotMetadata
	for rows.Next() {
		var m models.SlotMetadata
		if err := rows.Scan(&m.Name, &m.Checksum, &m.Size, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
