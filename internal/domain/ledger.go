package domain

import "github.com/shopspring/decimal"

// LedgerAmounts is the monetary outcome of a cashier transaction.
type LedgerAmounts struct {
	Money    decimal.Decimal
	Earnings decimal.Decimal
}

// ComputeLedger prices a transaction against a material. It has no side
// effects and does not look at any existing entry.
func ComputeLedger(m *Material, action Action, quantity int64, pt PriceType) (LedgerAmounts, error) {
	if err := ValidateTransaction(action, pt); err != nil {
		return LedgerAmounts{}, err
	}

	q := decimal.NewFromInt(quantity)

	switch action {
	case ActionIncoming:
		// Selling at cost records neither revenue nor profit.
		if pt == PriceTypeOriginal {
			return LedgerAmounts{Money: decimal.Zero, Earnings: decimal.Zero}, nil
		}
		unit, err := m.PriceFor(pt)
		if err != nil {
			return LedgerAmounts{}, err
		}
		return LedgerAmounts{
			Money:    q.Mul(unit),
			Earnings: q.Mul(unit.Sub(m.OriginalPrice)),
		}, nil
	case ActionOutgoing:
		return LedgerAmounts{
			Money:    q.Mul(m.OriginalPrice),
			Earnings: decimal.Zero,
		}, nil
	}

	return LedgerAmounts{}, ErrInvalidAction
}
