package store

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteBackend stores every collection document as one row of the documents table.
type SQLiteBackend struct {
	DB *sql.DB
}

func NewSQLiteBackend(dataSourceName string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	// Writers serialize anyway; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteBackend{DB: db}, nil
}

func (b *SQLiteBackend) Load(ctx context.Context, name string) ([]byte, error) {
	var body string
	err := b.DB.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(body), nil
}

func (b *SQLiteBackend) Save(ctx context.Context, name string, data []byte) error {
	query := `
		INSERT INTO documents (name, body, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP
	`
	_, err := b.DB.ExecContext(ctx, query, name, string(data))
	return err
}

func (b *SQLiteBackend) Close() error {
	return b.DB.Close()
}
