package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Bodega-api/internal/application/billing"
)

var _ billing.CartStore = (*CartStore)(nil)

// CartStore carritos en memoria (sin expiración).
type CartStore struct {
	mu    sync.Mutex
	carts map[string]billing.Cart
}

// NewCartStore construye el almacén.
func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]billing.Cart)}
}

func (s *CartStore) Get(_ context.Context, ownerID string) (*billing.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[ownerID]
	if !ok {
		return nil, nil
	}
	c.Lines = append([]billing.CartLine{}, c.Lines...)
	return &c, nil
}

func (s *CartStore) Save(_ context.Context, cart *billing.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *cart
	c.Lines = append([]billing.CartLine(nil), cart.Lines...)
	s.carts[cart.OwnerID] = c
	return nil
}

func (s *CartStore) Delete(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, ownerID)
	return nil
}
