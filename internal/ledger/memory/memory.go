// Package memory is the in-process session ledger: records live only as
// long as the process, which is the default deployment mode.
package memory

import (
	"context"
	"fmt"
	"sync"

	"stationery/internal/core"
)

type Store struct {
	mu       sync.Mutex
	requests []core.RequestRecord
	usages   []core.UsageRecord
}

func New() *Store {
	return &Store{}
}

// AppendRequest stores the record and returns a synthetic row reference.
func (s *Store) AppendRequest(_ context.Context, r core.RequestRecord) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r)
	return fmt.Sprintf("req:%d", len(s.requests)), nil
}

// AppendUsage stores the record and returns a synthetic row reference.
func (s *Store) AppendUsage(_ context.Context, u core.UsageRecord) (string, error) {
	if err := u.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usages = append(s.usages, u)
	return fmt.Sprintf("use:%d", len(s.usages)), nil
}

// Snapshot returns copies; callers cannot mutate the store through it.
func (s *Store) Snapshot(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := core.Snapshot{
		Requests: make([]core.RequestRecord, len(s.requests)),
		Usages:   make([]core.UsageRecord, len(s.usages)),
	}
	copy(snap.Requests, s.requests)
	copy(snap.Usages, s.usages)
	return snap, nil
}

// Reset clears both sequences.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.usages = nil
	return nil
}
