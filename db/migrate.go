package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// SchemaVersion is the schema version Migrate brings the database to
const SchemaVersion = 1

// migrations are applied in order; index i moves the schema to version i+1.
// Every statement is formatted with the target schema name.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS %s.survey_threads (
			id           TEXT PRIMARY KEY,
			channel_id   TEXT NOT NULL,
			parent_ts    TEXT NOT NULL,
			reactor_id   TEXT NOT NULL,
			trigger_id   TEXT NOT NULL,
			trigger_ts   TEXT NOT NULL,
			survey_stage TEXT NOT NULL CHECK (survey_stage IN ('PROMPT', 'SURVEY')),
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS survey_threads_natural_key_stage_idx
			ON %s.survey_threads (channel_id, parent_ts, reactor_id, survey_stage)`,
		`CREATE TABLE IF NOT EXISTS %s.triggers (
			id          TEXT PRIMARY KEY,
			owner       TEXT NOT NULL,
			type        TEXT NOT NULL CHECK (type IN ('event', 'shortcut')),
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			workflow    TEXT NOT NULL,
			event_type  TEXT NOT NULL DEFAULT '',
			channel_ids TEXT[] NOT NULL DEFAULT '{}',
			filter      JSONB,
			inputs      JSONB NOT NULL DEFAULT '{}',
			button_text TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS triggers_owner_event_type_idx
			ON %s.triggers (owner, event_type)`,
	},
}

// Migrate ensures the schema exists and is at SchemaVersion
func Migrate(ctx context.Context, db *sqlx.DB, schema string) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}
	if schema == "" {
		return fmt.Errorf("migrate: schema cannot be empty")
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, schema)); err != nil {
		return fmt.Errorf("migrate: create schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s.schema_migrations (version INTEGER PRIMARY KEY)`, schema,
	)); err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	err := db.GetContext(ctx, &current, fmt.Sprintf(`SELECT COALESCE(MAX(version), 0) FROM %s.schema_migrations`, schema))
	if err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}

	if current >= SchemaVersion {
		return nil
	}

	for version := current + 1; version <= SchemaVersion; version++ {
		if err := applyMigration(ctx, db, schema, version); err != nil {
			return err
		}
		log.Printf("✅ Applied database migration %d to schema %s", version, schema)
	}

	return nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, schema string, version int) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, statement := range migrations[version-1] {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(statement, schema)); err != nil {
			return fmt.Errorf("migrate: apply version %d: %w", version, err)
		}
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s.schema_migrations (version) VALUES ($1)`, schema), version); err != nil {
		return fmt.Errorf("migrate: record version %d: %w", version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit version %d: %w", version, err)
	}

	return nil
}
