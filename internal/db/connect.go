package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:scoreboard.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/scoreboard?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the tables if they do not exist. It runs once at Open
// rather than per request; every statement is IF NOT EXISTS so repeat calls
// (tests open several databases per process) are harmless.
func EnsureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS etudiants (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  external_id TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS sujets (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  session TEXT NOT NULL DEFAULT '',
  theme TEXT NOT NULL,
  UNIQUE (session, theme)
);

CREATE TABLE IF NOT EXISTS scores (
  etudiant_id INTEGER NOT NULL REFERENCES etudiants(id),
  sujet_id INTEGER NOT NULL REFERENCES sujets(id),
  score INTEGER NOT NULL,
  max_score INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,             -- unix millis
  PRIMARY KEY (etudiant_id, sujet_id)
);

CREATE TABLE IF NOT EXISTS quiz_sessions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  session_id TEXT NOT NULL,                -- not unique: append-only log
  started_at TEXT,
  completed_at TEXT NOT NULL,
  num_themes INTEGER,
  num_questions_total INTEGER,
  num_correct_total INTEGER,
  themes TEXT                              -- JSON array or NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS etudiants (
  id BIGSERIAL PRIMARY KEY,
  external_id TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS sujets (
  id BIGSERIAL PRIMARY KEY,
  session TEXT NOT NULL DEFAULT '',
  theme TEXT NOT NULL,
  UNIQUE (session, theme)
);

CREATE TABLE IF NOT EXISTS scores (
  etudiant_id BIGINT NOT NULL REFERENCES etudiants(id),
  sujet_id BIGINT NOT NULL REFERENCES sujets(id),
  score INTEGER NOT NULL,
  max_score INTEGER NOT NULL,
  updated_at BIGINT NOT NULL,
  PRIMARY KEY (etudiant_id, sujet_id)
);

CREATE TABLE IF NOT EXISTS quiz_sessions (
  id BIGSERIAL PRIMARY KEY,
  session_id TEXT NOT NULL,
  started_at TEXT,
  completed_at TEXT NOT NULL,
  num_themes INTEGER,
  num_questions_total INTEGER,
  num_correct_total INTEGER,
  themes TEXT
);
`
