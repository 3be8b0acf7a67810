// Package ledger records every session handle deckhand has minted so that
// none is ever handed out twice, including across restarts when a shared
// store is configured.
package ledger

import (
	"context"
	"fmt"
	"sync"
)

// Ledger is the handle store used by the session registry.
type Ledger interface {
	// Reserve records handle. It returns false when the handle was minted
	// before, open or retired.
	Reserve(ctx context.Context, handle string) (bool, error)
	// Retire marks handle closed. A retired handle stays reserved.
	Retire(ctx context.Context, handle string) error
	Close() error
}

// Driver names accepted by New.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// New builds the ledger named by driver.
func New(ctx context.Context, driver string, opts Options) (Ledger, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		return NewRedis(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported ledger driver: %s", driver)
	}
}

// State of a recorded handle.
type State string

const (
	StateOpen    State = "open"
	StateRetired State = "retired"
)

// Memory is a process-local ledger.
type Memory struct {
	mu      sync.RWMutex
	handles map[string]State
}

func NewMemory() *Memory {
	return &Memory{handles: make(map[string]State)}
}

func (m *Memory) Reserve(_ context.Context, handle string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.handles[handle]; ok {
		return false, nil
	}
	m.handles[handle] = StateOpen
	return true, nil
}

func (m *Memory) Retire(_ context.Context, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.handles[handle]; !ok {
		return fmt.Errorf("handle %s was never reserved", handle)
	}
	m.handles[handle] = StateRetired
	return nil
}

// State reports what the ledger knows about handle.
func (m *Memory) State(handle string) (State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.handles[handle]
	return s, ok
}

func (m *Memory) Close() error { return nil }
