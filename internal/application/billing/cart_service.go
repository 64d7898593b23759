package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/application/access"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// CartService mantiene un carrito por usuario en el CartStore.
type CartService struct {
	store CartStore
	sales *SaleUseCase
}

// NewCartService construye el servicio.
func NewCartService(store CartStore, sales *SaleUseCase) *CartService {
	return &CartService{store: store, sales: sales}
}

// Get devuelve el carrito del actor (vacío si no tiene).
func (s *CartService) Get(ctx context.Context, actor entity.Actor) (*Cart, error) {
	if err := access.RequireStockWrite(actor); err != nil {
		return nil, err
	}
	return s.load(ctx, actor.ID)
}

func (s *CartService) load(ctx context.Context, ownerID string) (*Cart, error) {
	cart, err := s.store.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = NewCart(ownerID)
	}
	return cart, nil
}

// AddLine agrega una línea validada contra el stock actual y guarda el carrito.
func (s *CartService) AddLine(ctx context.Context, actor entity.Actor, cellID string, quantity int64, unitPrice decimal.Decimal) (*Cart, error) {
	cart, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.sales.AddLine(ctx, actor, cart, cellID, quantity, unitPrice); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveLine quita una línea del carrito.
func (s *CartService) RemoveLine(ctx context.Context, actor entity.Actor, lineID string) (*Cart, error) {
	cart, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear descarta el carrito.
func (s *CartService) Clear(ctx context.Context, actor entity.Actor) error {
	if err := access.RequireStockWrite(actor); err != nil {
		return err
	}
	return s.store.Delete(ctx, actor.ID)
}

// Checkout confirma el carrito y lo descarta. Si la venta falla el carrito se conserva.
func (s *CartService) Checkout(ctx context.Context, actor entity.Actor, customerName string) (*entity.Invoice, error) {
	cart, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}
	invoice, err := s.sales.Commit(ctx, actor, cart, customerName)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, actor.ID); err != nil {
		s.sales.log.Warn().Err(err).Str("owner", actor.ID).Msg("no se pudo descartar el carrito confirmado")
	}
	return invoice, nil
}

// SaleLineInput línea de una venta directa.
type SaleLineInput struct {
	CellID    string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Sell venta directa sin carrito persistido.
func (uc *SaleUseCase) Sell(ctx context.Context, actor entity.Actor, lines []SaleLineInput, customerName string) (*entity.Invoice, error) {
	cart := NewCart(actor.ID)
	for _, l := range lines {
		if _, err := uc.AddLine(ctx, actor, cart, l.CellID, l.Quantity, l.UnitPrice); err != nil {
			return nil, err
		}
	}
	return uc.Commit(ctx, actor, cart, customerName)
}
