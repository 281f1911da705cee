package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MigrationDB is the part of *pgxpool.Pool the migrator needs.
type MigrationDB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// EnsureMigrationsTable creates the bookkeeping table required to track applied migrations.
func EnsureMigrationsTable(ctx context.Context, db MigrationDB) error {
	_, err := db.Exec(ctx, `
        create table if not exists schema_migrations (
            name text primary key,
            applied_at timestamptz not null default now()
        )
    `)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// Migrate executes the unapplied .sql files found at the root of fsys, ordered
// lexicographically, and returns the names it applied. Each file runs in its
// own transaction together with its bookkeeping row.
func Migrate(ctx context.Context, db MigrationDB, fsys fs.FS) ([]string, error) {
	if err := EnsureMigrationsTable(ctx, db); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("migrations filesystem empty: %w", err)
		}
		return nil, fmt.Errorf("read migrations fs: %w", err)
	}

	var applied []string
	for _, name := range listSQLFiles(entries) {
		done, err := migrationApplied(ctx, db, name)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		contents, err := fs.ReadFile(fsys, name)
		if err != nil {
			return applied, fmt.Errorf("read %s: %w", name, err)
		}

		if err := runMigration(ctx, db, name, strings.TrimSpace(string(contents))); err != nil {
			return applied, err
		}
		applied = append(applied, name)
	}

	return applied, nil
}

func listSQLFiles(entries []fs.DirEntry) []string {
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files
}

func migrationApplied(ctx context.Context, db MigrationDB, name string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `select exists (select 1 from schema_migrations where name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", name, err)
	}
	return exists, nil
}

func runMigration(ctx context.Context, db MigrationDB, name, statement string) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}

	if statement != "" {
		if _, err := tx.Exec(ctx, statement); err != nil {
			tx.Rollback(ctx) //nolint:errcheck - safe to ignore rollback errors
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
	}

	if _, err := tx.Exec(ctx, `insert into schema_migrations (name) values ($1)`, name); err != nil {
		tx.Rollback(ctx) //nolint:errcheck - safe to ignore rollback errors
		return fmt.Errorf("record migration %s: %w", name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}
