package storage

import (
	"context"
	"errors"
	"time"

	detect "github.com/bluespot/cli/internal/detect"
	uuid "github.com/google/uuid"
)

// Sentinel errors callers branch on.
var (
	ErrRegionNotFound = errors.New("region not found")
	ErrRegionExists   = errors.New("a region with that name already exists")
)

// RegionStore is the persistence boundary for named capture regions. Records
// are immutable once saved; an edit is a delete plus a new save under the
// same name.
type RegionStore interface {
	// SaveRegion persists a new record. Fails with ErrRegionExists when the
	// name is already taken.
	SaveRegion(ctx context.Context, record RegionRecord) error

	// GetRegion loads a record by name. Fails with ErrRegionNotFound.
	GetRegion(ctx context.Context, name string) (RegionRecord, error)

	// ListRegions returns all records ordered by creation time.
	ListRegions(ctx context.Context) ([]RegionRecord, error)

	// DeleteRegion removes a record by name. Fails with ErrRegionNotFound.
	DeleteRegion(ctx context.Context, name string) error

	// Close closes the storage connection
	Close() error

	// Health checks if the storage is healthy and reachable
	Health(ctx context.Context) error
}

// RegionRecord is a named, timestamped capture region.
type RegionRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRegionRecord builds a record for a validated region.
func NewRegionRecord(name string, region detect.Region) RegionRecord {
	return RegionRecord{
		ID:        uuid.NewString(),
		Name:      name,
		X:         region.X,
		Y:         region.Y,
		Width:     region.Width,
		Height:    region.Height,
		CreatedAt: time.Now().UTC(),
	}
}

// Region returns the record's geometry.
func (r RegionRecord) Region() detect.Region {
	return detect.Region{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Validate rejects records with a degenerate geometry or a missing name.
func (r RegionRecord) Validate() error {
	if r.Name == "" {
		return errors.New("region name must not be empty")
	}
	_, err := detect.NewRegion(r.X, r.Y, r.Width, r.Height)
	return err
}

// StorageConfig contains configuration for region storage backends
type StorageConfig struct {
	// Type specifies the storage backend type (memory, jsonl, sqlite)
	Type string `json:"type" yaml:"type"`

	// Jsonl specific configuration
	Jsonl JsonlConfig `json:"jsonl,omitempty" yaml:"jsonl,omitempty"`

	// SQLite specific configuration
	SQLite SQLiteConfig `json:"sqlite,omitempty" yaml:"sqlite,omitempty"`
}

// JsonlConfig contains JSONL-specific configuration
type JsonlConfig struct {
	Path string `json:"path" yaml:"path"`
}

// SQLiteConfig contains SQLite-specific configuration
type SQLiteConfig struct {
	Path string `json:"path" yaml:"path"`
}
