package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewSQLX opens a database/sql handle through lib/pq for sites that run the
// reconciliation over the plain driver instead of pgx.
func NewSQLX(ctx context.Context, databaseURL string, maxConns int32) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(int(maxConns))
		db.SetMaxIdleConns(int(maxConns))
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
