package cart

import (
	"context"
	"sync"

	"github.com/canteen-hub/api/internal/menu"
)

// Store persists cart snapshots per session. Load on a session that never
// saved returns an empty slice, not an error.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]Item, error)
	Save(ctx context.Context, sessionID string, items []Item) error
	Delete(ctx context.Context, sessionID string) error
}

// Session binds a Cart to its Store. Every mutation writes the resulting
// snapshot through immediately.
type Session struct {
	ID    string
	cart  *Cart
	store Store
}

// OpenSession loads the session's persisted cart, or starts an empty one.
func OpenSession(ctx context.Context, id string, store Store) (*Session, error) {
	items, err := store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Session{ID: id, cart: NewCart(items), store: store}, nil
}

func (s *Session) Add(ctx context.Context, item menu.Item) error {
	s.cart.Add(item)
	return s.store.Save(ctx, s.ID, s.cart.Items())
}

func (s *Session) Remove(ctx context.Context, id string) error {
	s.cart.Remove(id)
	return s.store.Save(ctx, s.ID, s.cart.Items())
}

func (s *Session) SetQuantity(ctx context.Context, id string, quantity int32) error {
	s.cart.SetQuantity(id, quantity)
	return s.store.Save(ctx, s.ID, s.cart.Items())
}

func (s *Session) Clear(ctx context.Context) error {
	s.cart.Clear()
	return s.store.Delete(ctx, s.ID)
}

func (s *Session) Items() []Item { return s.cart.Items() }
func (s *Session) Total() int64  { return s.cart.Total() }
func (s *Session) Len() int      { return s.cart.Len() }

// MemoryStore keeps carts in a process-local map. Used in tests and as the
// fallback when no Redis address is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]Item)}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := m.carts[sessionID]
	out := make([]Item, len(items))
	copy(out, items)
	return out, nil
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make([]Item, len(items))
	copy(snapshot, items)
	m.carts[sessionID] = snapshot
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}
