package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements RegionStore using SQLite
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ RegionStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(config SQLiteConfig) (*SQLiteStore, error) {
	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", config.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:   db,
		path: config.Path,
	}

	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS regions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_regions_created_at ON regions(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRegion persists a new record
func (s *SQLiteStore) SaveRegion(ctx context.Context, record RegionRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM regions WHERE name = ?`, record.Name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check region name: %w", err)
	}
	if exists > 0 {
		return ErrRegionExists
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO regions (id, name, x, y, width, height, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Name, record.X, record.Y, record.Width, record.Height, record.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save region: %w", err)
	}
	return nil
}

// GetRegion loads a record by name
func (s *SQLiteStore) GetRegion(ctx context.Context, name string) (RegionRecord, error) {
	var record RegionRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, x, y, width, height, created_at
		FROM regions WHERE name = ?`, name,
	).Scan(&record.ID, &record.Name, &record.X, &record.Y, &record.Width, &record.Height, &record.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return RegionRecord{}, ErrRegionNotFound
	}
	if err != nil {
		return RegionRecord{}, fmt.Errorf("failed to load region: %w", err)
	}
	return record, nil
}

// ListRegions returns all records ordered by creation time
func (s *SQLiteStore) ListRegions(ctx context.Context) ([]RegionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, x, y, width, height, created_at
		FROM regions ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []RegionRecord
	for rows.Next() {
		var record RegionRecord
		if err := rows.Scan(&record.ID, &record.Name, &record.X, &record.Y, &record.Width, &record.Height, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteRegion removes a record by name
func (s *SQLiteStore) DeleteRegion(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM regions WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete region: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrRegionNotFound
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Health checks if the database is reachable
func (s *SQLiteStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
