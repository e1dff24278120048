package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// migrations are applied in order; version N is migrations[N-1].
var migrations = []string{
	`
	CREATE TABLE IF NOT EXISTS explorations (
		id VARCHAR PRIMARY KEY,
		owner_id VARCHAR NOT NULL,
		title VARCHAR NOT NULL,
		category VARCHAR NOT NULL,
		objective VARCHAR NOT NULL DEFAULT '',
		init_state_name VARCHAR NOT NULL,
		states VARCHAR NOT NULL,
		version BIGINT NOT NULL,
		published BOOLEAN NOT NULL DEFAULT false,
		indexed BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS config_properties (
		name VARCHAR PRIMARY KEY,
		value VARCHAR NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS user_settings (
		user_id VARCHAR PRIMARY KEY,
		email VARCHAR NOT NULL,
		username VARCHAR NOT NULL,
		agreed_to_terms BOOLEAN NOT NULL DEFAULT false,
		registered_at TIMESTAMP NOT NULL
	);`,
	`
	CREATE TABLE IF NOT EXISTS queues (
		name VARCHAR PRIMARY KEY,
		rate VARCHAR NOT NULL DEFAULT ''
	);
	CREATE SEQUENCE IF NOT EXISTS task_seq START 1;
	CREATE TABLE IF NOT EXISTS tasks (
		seq BIGINT PRIMARY KEY DEFAULT nextval('task_seq'),
		name VARCHAR NOT NULL UNIQUE,
		queue VARCHAR NOT NULL,
		path VARCHAR NOT NULL,
		method VARCHAR NOT NULL,
		payload BLOB,
		headers VARCHAR NOT NULL DEFAULT '{}',
		eta TIMESTAMP NOT NULL
	);`,
}

// Run applies every migration that is not recorded in schema_migrations.
func Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	for i, m := range migrations {
		version := i + 1

		var count int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&count); err != nil {
			return fmt.Errorf("failed to read migration %d: %w", version, err)
		}
		if count > 0 {
			continue
		}

		if err := apply(ctx, db, version, m); err != nil {
			return err
		}
		zap.S().Named("migrations").Debugw("migration applied", "version", version)
	}

	return nil
}

func apply(ctx context.Context, db *sql.DB, version int, stmt string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to apply migration %d: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}
	return tx.Commit()
}
