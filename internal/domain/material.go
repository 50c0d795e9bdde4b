package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Material represents a catalog item with tiered pricing and a tracked stock count.
type Material struct {
	ID             string
	Name           string
	Specifications string
	Brand          string
	Functions      string
	Remarks        string
	OriginalPrice  decimal.Decimal
	Price          decimal.Decimal
	DiscountPrice  decimal.Decimal
	StockQuantity  int64
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PriceFor returns the unit price of the given tier.
func (m *Material) PriceFor(pt PriceType) (decimal.Decimal, error) {
	switch pt {
	case PriceTypeOriginal:
		return m.OriginalPrice, nil
	case PriceTypePrice:
		return m.Price, nil
	case PriceTypeDiscount:
		return m.DiscountPrice, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPriceType, pt)
	}
}

// ValidateStockDelta checks that applying delta keeps stock non-negative and
// representable.
func (m *Material) ValidateStockDelta(delta int64) error {
	if delta > 0 && m.StockQuantity > math.MaxInt64-delta {
		return fmt.Errorf("%w: stock %d, delta %d", ErrStockOverflow, m.StockQuantity, delta)
	}
	if m.StockQuantity+delta < 0 {
		return &StockViolationError{
			MaterialID: m.ID,
			Stock:      m.StockQuantity,
			Delta:      delta,
		}
	}
	return nil
}

// AdjustStock applies delta to the stock count or rejects it without mutating.
func (m *Material) AdjustStock(delta int64) error {
	if err := m.ValidateStockDelta(delta); err != nil {
		return err
	}
	m.StockQuantity += delta
	return nil
}

// Label is the "id-name" text shown next to a material in dropdowns and lists.
func (m *Material) Label() string {
	return m.ID + "-" + m.Name
}
