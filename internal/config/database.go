package config

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	// Create categories table. Categories have no surrogate id: the
	// natural key (user_id, name, type) is what transactions reference.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			user_id VARCHAR(64) NOT NULL,
			name VARCHAR(20) NOT NULL,
			icon VARCHAR(20) NOT NULL DEFAULT '',
			type VARCHAR(10) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, name, type)
		)
	`)
	if err != nil {
		return err
	}

	// Create transactions table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			date TIMESTAMP NOT NULL,
			type VARCHAR(10) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category VARCHAR(20) NOT NULL,
			category_icon VARCHAR(20) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create month_history table (per-day running totals)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS month_history (
			user_id VARCHAR(64) NOT NULL,
			year INT NOT NULL,
			month INT NOT NULL,
			day INT NOT NULL,
			income NUMERIC(14,2) NOT NULL DEFAULT 0,
			expense NUMERIC(14,2) NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, year, month, day)
		)
	`)
	if err != nil {
		return err
	}

	// Create year_history table (per-month running totals)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS year_history (
			user_id VARCHAR(64) NOT NULL,
			year INT NOT NULL,
			month INT NOT NULL,
			income NUMERIC(14,2) NOT NULL DEFAULT 0,
			expense NUMERIC(14,2) NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, year, month)
		)
	`)
	if err != nil {
		return err
	}

	// Create user_settings table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS user_settings (
			user_id VARCHAR(64) PRIMARY KEY,
			currency VARCHAR(3) NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date)",
		"CREATE INDEX IF NOT EXISTS idx_month_history_user_period ON month_history(user_id, year, month)",
	}

	for _, idx := range indexes {
		_, err = db.Exec(idx)
		if err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
