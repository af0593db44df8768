package sqlite

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

// Open abre (o crea) el archivo sqlite y garantiza el esquema. Es el
// storage embebido para instalaciones de una sola caja y para demos.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// El driver es embebido: una sola conexión de escritura evita
	// SQLITE_BUSY en los pares reserva/habitación.
	db.SetMaxOpenConns(1)

	if err := EnsureSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema crea las tablas si no existen.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS owners (
			id         TEXT PRIMARY KEY,
			user_id    TEXT,
			name       TEXT NOT NULL,
			phone      TEXT NOT NULL DEFAULT '',
			email      TEXT NOT NULL DEFAULT '',
			pet_count  INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pets (
			id                   TEXT PRIMARY KEY,
			owner_id             TEXT NOT NULL,
			name                 TEXT NOT NULL,
			species              TEXT NOT NULL,
			breed                TEXT NOT NULL DEFAULT '',
			approval             TEXT NOT NULL,
			allergies            TEXT NOT NULL DEFAULT '',
			special_diet         TEXT NOT NULL DEFAULT '',
			bandage_instructions TEXT NOT NULL DEFAULT '',
			notes                TEXT NOT NULL DEFAULT '',
			created_at           TIMESTAMP NOT NULL,
			updated_at           TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id              TEXT PRIMARY KEY,
			number          TEXT NOT NULL UNIQUE,
			type            TEXT NOT NULL,
			status          TEXT NOT NULL,
			last_cleaned_at TIMESTAMP,
			last_cleaned_by TEXT,
			created_at      TIMESTAMP NOT NULL,
			updated_at      TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id                   TEXT PRIMARY KEY,
			pet_id               TEXT NOT NULL,
			room_id              TEXT NOT NULL,
			start_date           TIMESTAMP NOT NULL,
			end_date             TIMESTAMP,
			is_indefinite        INTEGER NOT NULL DEFAULT 0,
			status               TEXT NOT NULL,
			assistance           TEXT NOT NULL,
			schedule             TEXT NOT NULL,
			grooming             INTEGER NOT NULL DEFAULT 0,
			training             INTEGER NOT NULL DEFAULT 0,
			extra_walks          INTEGER NOT NULL DEFAULT 0,
			daily_rate_cents     INTEGER NOT NULL DEFAULT 0,
			total_cents          INTEGER NOT NULL DEFAULT 0,
			paid                 INTEGER NOT NULL DEFAULT 0,
			special_instructions TEXT NOT NULL DEFAULT '',
			created_at           TIMESTAMP NOT NULL,
			updated_at           TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_room ON reservations (room_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_pet ON reservations (pet_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
