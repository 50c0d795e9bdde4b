package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSummary aggregates non-deleted entries over a time window.
type LedgerSummary struct {
	From          time.Time
	To            time.Time
	SalesMoney    decimal.Decimal
	SalesEarnings decimal.Decimal
	RestockSpend  decimal.Decimal
	SalesCount    int64
	RestockCount  int64
}

// NetCash is sales revenue minus restock spend.
func (s LedgerSummary) NetCash() decimal.Decimal {
	return s.SalesMoney.Sub(s.RestockSpend)
}
