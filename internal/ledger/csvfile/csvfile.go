// Package csvfile persists the request ledger in a CSV file so it
// survives restarts. Each append reads the existing file, adds the row
// in memory and rewrites the whole file through a temp-file rename.
// Usage records stay in memory; only requests are persisted. Concurrent
// processes writing the same file are not coordinated.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"stationery/internal/core"
	"stationery/internal/export"
)

type Store struct {
	mu     sync.Mutex
	path   string
	usages []core.UsageRecord
}

func New(path string) *Store {
	return &Store{path: path}
}

// AppendRequest persists the record at the end of the backing file.
func (s *Store) AppendRequest(_ context.Context, r core.RequestRecord) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return "", err
	}
	records = append(records, r)
	if err := s.writeAll(records); err != nil {
		return "", err
	}
	return fmt.Sprintf("csv:%d", len(records)), nil
}

// AppendUsage keeps the record in memory for the session.
func (s *Store) AppendUsage(_ context.Context, u core.UsageRecord) (string, error) {
	if err := u.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usages = append(s.usages, u)
	return fmt.Sprintf("use:%d", len(s.usages)), nil
}

// Snapshot reads requests back from the file; a missing file is an
// empty ledger, not an error.
func (s *Store) Snapshot(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests, err := s.readAll()
	if err != nil {
		return core.Snapshot{}, err
	}
	snap := core.Snapshot{
		Requests: requests,
		Usages:   make([]core.UsageRecord, len(s.usages)),
	}
	copy(snap.Usages, s.usages)
	return snap, nil
}

// Reset deletes the backing file and clears the in-memory usages.
// Nothing to delete is a clean reset.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.usages = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete ledger file %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) readAll() ([]core.RequestRecord, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger file %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse ledger file %s: %w", s.path, err)
	}
	var records []core.RequestRecord
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		rec, err := export.ParseRequestRow(row)
		if err != nil {
			return nil, fmt.Errorf("ledger file %s row %d: %w", s.path, i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) writeAll(records []core.RequestRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export.WriteRequestsCSV(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("write ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}
