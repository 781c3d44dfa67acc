package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/arturoeanton/codeguard/internal/domain"
)

// MockCompleter is a testify mock for port.Completer.
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) ModelName() string { return "mock-model" }

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// memorySink records appended rows and can be told to fail.
type memorySink struct {
	mu      sync.Mutex
	records []domain.ActivityRecord
	err     error
}

func (s *memorySink) Name() string { return "memory" }

func (s *memorySink) Append(ctx context.Context, rec domain.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *memorySink) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

func (s *memorySink) Recent(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ActivityRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func (s *memorySink) all() []domain.ActivityRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ActivityRecord(nil), s.records...)
}

// blockingSink never finishes a write until its context ends.
type blockingSink struct {
	mu  sync.Mutex
	err error
}

func newBlockingSink() *blockingSink { return &blockingSink{} }

func (s *blockingSink) Name() string { return "blocking" }

func (s *blockingSink) Append(ctx context.Context, rec domain.ActivityRecord) error {
	<-ctx.Done()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ctx.Err()
	return s.err
}

func (s *blockingSink) lastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
