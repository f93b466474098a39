package store

import (
	"context"
	"sync"
	"time"
)

// Status describes job progress as exposed by the progress endpoint.
type Status struct {
	Status   string                 `json:"status"`
	Progress int                    `json:"progress"`
	Message  string                 `json:"message"`
	Start    *time.Time             `json:"start_time,omitempty"`
	End      *time.Time             `json:"end_time,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// StatusStore persists per-job progress. Writes are best effort in the
// pipeline: a failing store never fails a job.
type StatusStore interface {
	Set(ctx context.Context, jobID string, st Status) error
	Get(ctx context.Context, jobID string) (Status, bool, error)
	Close() error
}

// MemoryStatus is the default single-process store.
type MemoryStatus struct {
	mu    sync.RWMutex
	items map[string]Status
}

func NewMemoryStatus() *MemoryStatus {
	return &MemoryStatus{items: make(map[string]Status)}
}

func (s *MemoryStatus) Set(_ context.Context, jobID string, st Status) error {
	s.mu.Lock()
	s.items[jobID] = st
	s.mu.Unlock()
	return nil
}

func (s *MemoryStatus) Get(_ context.Context, jobID string) (Status, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.items[jobID]
	return st, ok, nil
}

func (s *MemoryStatus) Close() error { return nil }
