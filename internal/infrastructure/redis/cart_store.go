package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Bodega-api/internal/application/billing"
	"github.com/jhoicas/Bodega-api/internal/domain"
)

var _ billing.CartStore = (*CartStore)(nil)

const cartKeyPrefix = "bodega:cart:"

// DefaultCartTTL vida de un carrito sin actividad.
const DefaultCartTTL = 24 * time.Hour

// CartStore guarda cada carrito como documento JSON con TTL renovado en cada escritura.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartStore construye el almacén; ttl <= 0 usa DefaultCartTTL.
func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &CartStore{client: client, ttl: ttl}
}

func (s *CartStore) Get(ctx context.Context, ownerID string) (*billing.Cart, error) {
	data, err := s.client.Get(ctx, s.key(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get cart: %w", domain.ErrStorageFailure, err)
	}
	var cart billing.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("%w: decode cart: %w", domain.ErrStorageFailure, err)
	}
	if cart.Lines == nil {
		cart.Lines = []billing.CartLine{}
	}
	return &cart, nil
}

func (s *CartStore) Save(ctx context.Context, cart *billing.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.key(cart.OwnerID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: save cart: %w", domain.ErrStorageFailure, err)
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, ownerID string) error {
	if err := s.client.Del(ctx, s.key(ownerID)).Err(); err != nil {
		return fmt.Errorf("%w: delete cart: %w", domain.ErrStorageFailure, err)
	}
	return nil
}

func (s *CartStore) key(ownerID string) string {
	return cartKeyPrefix + ownerID
}
