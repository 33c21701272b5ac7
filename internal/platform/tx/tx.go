package tx

import (
	"context"
	"sync"
)

// Manager wraps transactional boundaries for multi-adapter operations.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

// MutexManager serializes whole load-modify-save sequences behind a single
// process-wide lock, so a poll tick never observes a half-written collection.
type MutexManager struct {
	mu sync.Mutex
}

func (m *MutexManager) Within(ctx context.Context, fn func(context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
