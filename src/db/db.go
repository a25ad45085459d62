package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ngo-Miingg/Parking-Smart/src/config"

	_ "github.com/lib/pq"
)

// schema creates the parking tables. The partial unique indexes back the
// at-most-one-open-session invariant for real plates and for RFID cards; the
// repository still checks before writing, the indexes make a lost race fail
// loudly instead of silently duplicating.
const schema = `
CREATE TABLE IF NOT EXISTS parking_log (
	id BIGSERIAL PRIMARY KEY,
	plate TEXT NOT NULL,
	rfid_uid TEXT,
	entry_time TIMESTAMPTZ NOT NULL,
	exit_time TIMESTAMPTZ,
	fee BIGINT,
	image_path TEXT,
	status TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_parking_log_open_plate
	ON parking_log (plate) WHERE status = 'IN' AND plate <> 'UNKNOWN';

CREATE UNIQUE INDEX IF NOT EXISTS idx_parking_log_open_uid
	ON parking_log (rfid_uid) WHERE status = 'IN' AND rfid_uid IS NOT NULL;

CREATE TABLE IF NOT EXISTS registered_vehicles (
	id BIGSERIAL PRIMARY KEY,
	plate TEXT UNIQUE NOT NULL,
	vehicle_type TEXT,
	owner TEXT,
	expiry_date TIMESTAMPTZ
);
`

// DB represents the database connection and operations
type DB struct {
	conn *sql.DB
}

// NewDB creates a new database connection
func NewDB(cfg *config.GlobalConfig) (*DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPass,
		cfg.DBName,
	)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Set connection pool settings
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Connected to PostgreSQL database",
		"host", cfg.DBHost,
		"port", cfg.DBPort,
		"database", cfg.DBName)

	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// GetConnection returns the underlying sql.DB connection
func (db *DB) GetConnection() *sql.DB {
	return db.conn
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// initSchema creates the parking tables and indexes if they do not exist
func initSchema(conn *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema script: %w", err)
	}

	slog.Info("Database schema created/verified")
	return nil
}
