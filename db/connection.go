package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	// postgres driver registration
	_ "github.com/lib/pq"
)

// NewConnection opens and verifies a Postgres connection pool.
func NewConnection(databaseURL string) (*sqlx.DB, error) {
	conn, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}
