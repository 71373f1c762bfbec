package cartstore

import (
	"context"
	"sync"

	"github.com/galwaybites/storefront/internal/cart"
)

// Memory is a map-backed Store for tests and local development.
type Memory struct {
	mu    sync.Mutex
	carts map[string]cart.Cart
}

func NewMemory() *Memory {
	return &Memory{carts: make(map[string]cart.Cart)}
}

func (m *Memory) Get(_ context.Context, userID string) (cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[userID], nil
}

func (m *Memory) Save(_ context.Context, userID string, c cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = c
	return nil
}

func (m *Memory) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}
