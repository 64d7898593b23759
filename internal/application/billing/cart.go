package billing

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain"
)

// CartLine línea del carrito con el snapshot de la celda al agregarla.
type CartLine struct {
	ID         string          `json:"id"`
	CellID     string          `json:"cell_id"`
	Name       string          `json:"name"`
	PartNumber string          `json:"part_number"`
	ModelNo    string          `json:"model_no"`
	Warehouse  string          `json:"warehouse"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// Total cantidad × precio unitario.
func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Cart acumulador de líneas de venta de un usuario. No toca el inventario hasta el commit.
type Cart struct {
	OwnerID   string     `json:"owner_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart carrito vacío.
func NewCart(ownerID string) *Cart {
	return &Cart{OwnerID: ownerID, Lines: []CartLine{}}
}

func (c *Cart) addLine(l CartLine) CartLine {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	c.Lines = append(c.Lines, l)
	c.UpdatedAt = time.Now().UTC()
	return l
}

// RemoveLine quita la línea; ErrNotFound si no existe.
func (c *Cart) RemoveLine(lineID string) error {
	for i, l := range c.Lines {
		if l.ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
}

// IsEmpty indica si no hay líneas.
func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// TotalItems suma de cantidades.
func (c *Cart) TotalItems() int64 {
	var n int64
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// TotalAmount suma de totales de línea.
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// quantitiesByCell agrega las cantidades pedidas por celda. Las cantidades ya son positivas;
// ErrInvalidArgument si la suma del carrito desborda int64.
func (c *Cart) quantitiesByCell() (map[string]int64, error) {
	out := make(map[string]int64, len(c.Lines))
	var total int64
	for _, l := range c.Lines {
		if l.Quantity > math.MaxInt64-total {
			return nil, fmt.Errorf("%w: la cantidad total del carrito excede el máximo", domain.ErrInvalidArgument)
		}
		total += l.Quantity
		out[l.CellID] += l.Quantity
	}
	return out, nil
}
