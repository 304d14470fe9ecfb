// Package postgres owns the relational storage for user accounts: connection
// setup, schema migrations, and the UserRepository implementation.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/scientifictooffi/itransition-4task/internal/infrastructure/db/postgres/migrations"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for establishing a Postgres connection.
type Config struct {
	URL     string
	SSL     bool
	Timeout time.Duration
}

// Connect opens a pgx-backed *sql.DB, verifies connectivity with a ping, and
// applies pending schema migrations. A default timeout is applied when none
// is provided.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sql.Open("pgx", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	if err := migrate(pingCtx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// dsn appends an sslmode parameter unless the URL already carries one.
// Hosted Postgres typically requires SSL; local development does not.
func dsn(cfg Config) string {
	if strings.Contains(cfg.URL, "sslmode=") {
		return cfg.URL
	}
	mode := "disable"
	if cfg.SSL {
		mode = "require"
	}
	sep := "?"
	if strings.Contains(cfg.URL, "?") {
		sep = "&"
	}
	return cfg.URL + sep + "sslmode=" + mode
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}
