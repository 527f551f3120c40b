package storage

import (
	"fmt"
)

// NewRegionStore creates a region store based on the provided configuration
func NewRegionStore(config StorageConfig) (RegionStore, error) {
	switch config.Type {
	case "", "memory":
		return NewMemoryStore(), nil
	case "jsonl":
		return NewJsonlStore(config.Jsonl)
	case "sqlite":
		return NewSQLiteStore(config.SQLite)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}
}
