package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
	"github.com/iho/washledger/tests/testutil"
)

func TestCashierLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := testutil.AsUser(context.Background(), "cashier-1", domain.RoleCashier)

	t.Run("sale removes stock and prices at the chosen tier", func(t *testing.T) {
		h.db.TruncateAll(ctx)
		m := h.db.CreateTestMaterial(ctx, testutil.MaterialFixture{Stock: 10})

		entry, err := h.cashier.CreateEntry(ctx, usecase.CreateEntryInput{
			MaterialID: m.ID,
			Action:     domain.ActionIncoming,
			Quantity:   3,
			PriceType:  domain.PriceTypeDiscount,
		})
		require.NoError(t, err)

		assert.True(t, entry.Money.Equal(decimal.NewFromInt(24)), entry.Money.String())
		assert.True(t, entry.Earnings.Equal(decimal.NewFromInt(9)), entry.Earnings.String())
		assert.Equal(t, "cashier-1", entry.CreatedBy)
		assert.Equal(t, int64(7), h.db.Stock(ctx, m.ID))

		logs, err := h.audit.GetByResourceID(ctx, domain.ResourceTypeEntry, entry.ID)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, string(domain.AuditActionEntryCreate), logs[0].Action)
	})

	t.Run("restock adds stock at cost", func(t *testing.T) {
		h.db.TruncateAll(ctx)
		m := h.db.CreateTestMaterial(ctx, testutil.MaterialFixture{Stock: 0})

		entry, err := h.cashier.CreateEntry(ctx, usecase.CreateEntryInput{
			MaterialID: m.ID,
			Action:     domain.ActionOutgoing,
			Quantity:   4,
			PriceType:  domain.PriceTypeOriginal,
		})
		require.NoError(t, err)

		assert.True(t, entry.Money.Equal(decimal.NewFromInt(20)))
		assert.True(t, entry.Earnings.IsZero())
		assert.Equal(t, int64(4), h.db.Stock(ctx, m.ID))
	})

	t.Run("overselling is rejected and leaves nothing behind", func(t *testing.T) {
		h.db.TruncateAll(ctx)
		m := h.db.CreateTestMaterial(ctx, testutil.MaterialFixture{Stock: 2})

		_, err := h.cashier.CreateEntry(ctx, usecase.CreateEntryInput{
			MaterialID: m.ID,
			Action:     domain.ActionIncoming,
			Quantity:   3,
			PriceType:  domain.PriceTypePrice,
		})
		require.ErrorIs(t, err, domain.ErrStockViolation)
		assert.Equal(t, domain.KindStockViolation, domain.KindOf(err))

		assert.Equal(t, int64(2), h.db.Stock(ctx, m.ID))
		entries, err := h.cashier.ListEntries(ctx, usecase.ListEntriesInput{MaterialID: m.ID, IncludeDeleted: true})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("update applies only the quantity differential", func(t *testing.T) {
		h.db.TruncateAll(ctx)
		m := h.db.CreateTestMaterial(ctx, testutil.MaterialFixture{Stock: 10})

		entry, err := h.cashier.CreateEntry(ctx, usecase.CreateEntryInput{
			MaterialID: m.ID,
			Action:     domain.ActionIncoming,
			Quantity:   2,
			PriceType:  domain.PriceTypePrice,
		})
		require.NoError(t, err)
		require.Equal(t, int64(8), h.db.Stock(ctx, m.ID))

		updated, err := h.cashier.UpdateEntry(ctx, usecase.UpdateEntryInput{
			ID:        entry.ID,
			Quantity:  5,
			PriceType: domain.PriceTypePrice,
			Remarks:   "customer took more",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(5), updated.Quantity)
		assert.True(t, updated.Money.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, int64(5), h.db.Stock(ctx, m.ID))

		_, err = h.cashier.UpdateEntry(ctx, usecase.UpdateEntryInput{
			ID:        entry.ID,
			Action:    domain.ActionOutgoing,
			Quantity:  5,
			PriceType: domain.PriceTypeOriginal,
		})
		require.ErrorIs(t, err, domain.ErrActionChangeNotAllowed)
	})

	t.Run("delete keeps stock and reverse restores it once", func(t *testing.T) {
		h.db.TruncateAll(ctx)
		m := h.db.CreateTestMaterial(ctx, testutil.MaterialFixture{Stock: 10})
		admin := testutil.AsUser(context.Background(), "owner", domain.RoleAdmin)

		entry, err := h.cashier.CreateEntry(ctx, usecase.CreateEntryInput{
			MaterialID: m.ID,
			Action:     domain.ActionIncoming,
			Quantity:   4,
			PriceType:  domain.PriceTypePrice,
		})
		require.NoError(t, err)

		deleted, err := h.cashier.DeleteEntry(admin, usecase.EntryActionInput{ID: entry.ID})
		require.NoError(t, err)
		assert.True(t, deleted.IsDeleted)
		assert.Equal(t, int64(6), h.db.Stock(ctx, m.ID))

		_, err = h.cashier.DeleteEntry(admin, usecase.EntryActionInput{ID: entry.ID})
		require.NoError(t, err)

		reversed, err := h.cashier.ReverseEntry(admin, usecase.EntryActionInput{ID: entry.ID})
		require.NoError(t, err)
		assert.Equal(t, domain.EntryStatusReversed, reversed.Status)
		assert.NotNil(t, reversed.ReversedAt)
		assert.Equal(t, int64(10), h.db.Stock(ctx, m.ID))

		_, err = h.cashier.ReverseEntry(admin, usecase.EntryActionInput{ID: entry.ID})
		require.ErrorIs(t, err, domain.ErrEntryAlreadyReversed)
		assert.Equal(t, int64(10), h.db.Stock(ctx, m.ID))
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		h.db.TruncateAll(ctx)
		m := h.db.CreateTestMaterial(ctx, testutil.MaterialFixture{Stock: 10})
		id := testutil.GenerateID()

		input := usecase.CreateEntryInput{
			ID:         id,
			MaterialID: m.ID,
			Action:     domain.ActionIncoming,
			Quantity:   1,
			PriceType:  domain.PriceTypePrice,
		}
		_, err := h.cashier.CreateEntry(ctx, input)
		require.NoError(t, err)

		_, err = h.cashier.CreateEntry(ctx, input)
		require.ErrorIs(t, err, domain.ErrEntryAlreadyExists)
		assert.Equal(t, int64(9), h.db.Stock(ctx, m.ID))
	})

	t.Run("unknown material", func(t *testing.T) {
		_, err := h.cashier.CreateEntry(ctx, usecase.CreateEntryInput{
			MaterialID: "missing",
			Action:     domain.ActionIncoming,
			Quantity:   1,
			PriceType:  domain.PriceTypePrice,
		})
		require.True(t, errors.Is(err, domain.ErrMaterialNotFound), "got %v", err)
	})
}

func TestSummaryExcludesDeletedEntries(t *testing.T) {
	h := newHarness(t)
	ctx := testutil.AsUser(context.Background(), "cashier-1", domain.RoleCashier)
	h.db.TruncateAll(ctx)

	m := h.db.CreateTestMaterial(ctx, testutil.MaterialFixture{Stock: 20})

	create := func(action domain.Action, qty int64, pt domain.PriceType) *domain.LedgerEntry {
		e, err := h.cashier.CreateEntry(ctx, usecase.CreateEntryInput{MaterialID: m.ID, Action: action, Quantity: qty, PriceType: pt})
		require.NoError(t, err)
		return e
	}

	create(domain.ActionIncoming, 2, domain.PriceTypePrice)
	create(domain.ActionOutgoing, 3, domain.PriceTypeOriginal)
	gone := create(domain.ActionIncoming, 1, domain.PriceTypePrice)

	_, err := h.cashier.DeleteEntry(ctx, usecase.EntryActionInput{ID: gone.ID})
	require.NoError(t, err)

	summary, err := h.summary.Summarize(ctx, usecase.SummaryInput{
		From: time.Now().Add(-time.Hour),
		To:   time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.SalesCount)
	assert.Equal(t, int64(1), summary.RestockCount)
	assert.True(t, summary.SalesMoney.Equal(decimal.NewFromInt(20)))
	assert.True(t, summary.RestockSpend.Equal(decimal.NewFromInt(15)))
	assert.True(t, summary.NetCash().Equal(decimal.NewFromInt(5)))
}

func TestMaterialCatalog(t *testing.T) {
	h := newHarness(t)
	ctx := testutil.AsUser(context.Background(), "owner", domain.RoleAdmin)
	h.db.TruncateAll(ctx)

	m, err := h.materials.CreateMaterial(ctx, usecase.CreateMaterialInput{
		Name:          "Tire shine",
		OriginalPrice: decimal.NewFromInt(3),
		Price:         decimal.NewFromInt(7),
		DiscountPrice: decimal.NewFromInt(6),
		StockQuantity: 12,
	})
	require.NoError(t, err)

	newPrice := decimal.NewFromInt(9)
	updated, err := h.materials.UpdateMaterial(ctx, usecase.UpdateMaterialInput{ID: m.ID, Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, int64(12), updated.StockQuantity)

	choices, err := h.materials.Choices(ctx)
	require.NoError(t, err)
	require.Len(t, choices, 1)
	assert.Equal(t, m.ID+"-Tire shine", choices[0].Label)
}
