package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"

	detect "github.com/bluespot/cli/internal/detect"
)

func testBackends(t *testing.T) map[string]RegionStore {
	t.Helper()
	tempDir := t.TempDir()

	jsonlStore, err := NewJsonlStore(JsonlConfig{Path: filepath.Join(tempDir, "regions.jsonl")})
	require.NoError(t, err)

	sqliteStore, err := NewSQLiteStore(SQLiteConfig{Path: filepath.Join(tempDir, "regions.db")})
	require.NoError(t, err)

	return map[string]RegionStore{
		"memory": NewMemoryStore(),
		"jsonl":  jsonlStore,
		"sqlite": sqliteStore,
	}
}

func TestRegionStore_BasicOperations(t *testing.T) {
	ctx := context.Background()

	for name, store := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer func() { _ = store.Close() }()

			require.NoError(t, store.Health(ctx))

			first := NewRegionRecord("login-form", detect.Region{X: 100, Y: 200, Width: 640, Height: 480})
			require.NoError(t, store.SaveRegion(ctx, first))

			second := NewRegionRecord("sidebar", detect.Region{X: 0, Y: 0, Width: 300, Height: 1080})
			second.CreatedAt = first.CreatedAt.Add(time.Second)
			require.NoError(t, store.SaveRegion(ctx, second))

			t.Run("get by name", func(t *testing.T) {
				got, err := store.GetRegion(ctx, "login-form")
				require.NoError(t, err)
				assert.Equal(t, first.ID, got.ID)
				assert.Equal(t, detect.Region{X: 100, Y: 200, Width: 640, Height: 480}, got.Region())
			})

			t.Run("list is ordered by creation time", func(t *testing.T) {
				records, err := store.ListRegions(ctx)
				require.NoError(t, err)
				require.Len(t, records, 2)
				assert.Equal(t, "login-form", records[0].Name)
				assert.Equal(t, "sidebar", records[1].Name)
			})

			t.Run("duplicate name is rejected", func(t *testing.T) {
				dup := NewRegionRecord("login-form", detect.Region{X: 1, Y: 1, Width: 10, Height: 10})
				assert.ErrorIs(t, store.SaveRegion(ctx, dup), ErrRegionExists)
			})

			t.Run("delete removes the record", func(t *testing.T) {
				require.NoError(t, store.DeleteRegion(ctx, "sidebar"))

				_, err := store.GetRegion(ctx, "sidebar")
				assert.ErrorIs(t, err, ErrRegionNotFound)

				assert.ErrorIs(t, store.DeleteRegion(ctx, "sidebar"), ErrRegionNotFound)
			})

			t.Run("missing name is not found", func(t *testing.T) {
				_, err := store.GetRegion(ctx, "nope")
				assert.ErrorIs(t, err, ErrRegionNotFound)
			})
		})
	}
}

func TestRegionStore_RejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("zero-size geometry", func(t *testing.T) {
		bad := NewRegionRecord("broken", detect.Region{X: 0, Y: 0, Width: 0, Height: 100})
		assert.Error(t, store.SaveRegion(ctx, bad))
	})

	t.Run("empty name", func(t *testing.T) {
		bad := NewRegionRecord("", detect.Region{X: 0, Y: 0, Width: 10, Height: 10})
		assert.Error(t, store.SaveRegion(ctx, bad))
	})
}

func TestNewRegionStore_Factory(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name    string
		config  StorageConfig
		wantErr bool
	}{
		{"memory", StorageConfig{Type: "memory"}, false},
		{"default is memory", StorageConfig{}, false},
		{"jsonl", StorageConfig{Type: "jsonl", Jsonl: JsonlConfig{Path: filepath.Join(tempDir, "r.jsonl")}}, false},
		{"sqlite", StorageConfig{Type: "sqlite", SQLite: SQLiteConfig{Path: filepath.Join(tempDir, "r.db")}}, false},
		{"unknown", StorageConfig{Type: "redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewRegionStore(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_ = store.Close()
		})
	}
}

func TestJsonlStore_SurvivesReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "regions.jsonl")

	store, err := NewJsonlStore(JsonlConfig{Path: path})
	require.NoError(t, err)

	record := NewRegionRecord("persisted", detect.Region{X: 5, Y: 6, Width: 70, Height: 80})
	require.NoError(t, store.SaveRegion(ctx, record))
	require.NoError(t, store.Close())

	reopened, err := NewJsonlStore(JsonlConfig{Path: path})
	require.NoError(t, err)

	got, err := reopened.GetRegion(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Region(), got.Region())
}
