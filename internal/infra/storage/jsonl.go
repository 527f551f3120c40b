package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	logger "github.com/bluespot/cli/internal/logger"
)

// JsonlStore implements RegionStore on a single JSONL file, one record per
// line. Saves append; deletes rewrite the file. The format is deliberately
// human-inspectable.
type JsonlStore struct {
	path string
	mu   sync.Mutex
}

var _ RegionStore = (*JsonlStore)(nil)

// NewJsonlStore creates a JSONL store at the configured path
func NewJsonlStore(config JsonlConfig) (*JsonlStore, error) {
	path := config.Path
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create regions directory: %w", err)
	}

	return &JsonlStore{path: path}, nil
}

// SaveRegion appends a new record to the file
func (s *JsonlStore) SaveRegion(ctx context.Context, record RegionRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.Name == record.Name {
			return ErrRegionExists
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open regions file: %w", err)
	}
	defer func() { _ = f.Close() }()

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal region: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append region: %w", err)
	}
	return nil
}

// GetRegion loads a record by name
func (s *JsonlStore) GetRegion(ctx context.Context, name string) (RegionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return RegionRecord{}, err
	}
	for _, r := range records {
		if r.Name == name {
			return r, nil
		}
	}
	return RegionRecord{}, ErrRegionNotFound
}

// ListRegions returns all records ordered by creation time
func (s *JsonlStore) ListRegions(ctx context.Context) ([]RegionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// DeleteRegion removes a record by name and rewrites the file
func (s *JsonlStore) DeleteRegion(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	kept := records[:0]
	found := false
	for _, r := range records {
		if r.Name == name {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return ErrRegionNotFound
	}

	return s.rewrite(kept)
}

// Close is a no-op; the file is not held open
func (s *JsonlStore) Close() error { return nil }

// Health verifies the regions file location is writable
func (s *JsonlStore) Health(ctx context.Context) error {
	testFile := s.path + ".write_test"
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("regions file location not writable: %w", err)
	}
	_ = os.Remove(testFile)
	return nil
}

func (s *JsonlStore) load() ([]RegionRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open regions file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var records []RegionRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record RegionRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			logger.Warn("Skipping malformed region line", "path", s.path, "error", err)
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read regions file: %w", err)
	}
	return records, nil
}

func (s *JsonlStore) rewrite(records []RegionRecord) error {
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temp regions file: %w", err)
	}

	for _, r := range records {
		line, err := json.Marshal(r)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to marshal region: %w", err)
		}
		if _, err := f.Write(append(line, '\n')); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write region: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp regions file: %w", err)
	}

	return os.Rename(tmp, s.path)
}
