package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/washledger/internal/domain"
)

var entryColumns = []string{
	"id", "material_id", "action", "quantity", "price_type", "money", "earnings",
	"remarks", "created_by", "updated_by", "status", "is_deleted",
	"created_at", "updated_at", "reversed_at",
}

func sampleEntry() *domain.LedgerEntry {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return &domain.LedgerEntry{
		ID:         "e1",
		MaterialID: "m1",
		Action:     domain.ActionIncoming,
		Quantity:   3,
		PriceType:  domain.PriceTypePrice,
		Money:      decimal.NewFromInt(30),
		Earnings:   decimal.NewFromInt(15),
		CreatedBy:  "cashier-1",
		UpdatedBy:  "cashier-1",
		Status:     domain.EntryStatusCommitted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestEntryRepositoryCreate(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec(`INSERT INTO ledger_entries`).
		WithArgs(
			"e1", "m1", "incoming", int64(3), "price",
			pgxmock.AnyArg(), pgxmock.AnyArg(),
			"", "cashier-1", "cashier-1", "committed", false,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewEntryRepository(pool)
	if err := repo.Create(context.Background(), tx, sampleEntry()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, pool)
}

func TestEntryRepositoryCreateMapsConstraintErrors(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{pgErrUniqueViolation, domain.ErrEntryAlreadyExists},
		{pgErrForeignKeyViolation, domain.ErrMaterialNotFound},
		{pgErrCheckViolation, domain.ErrOutgoingRequiresOriginalPrice},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			pool := newMockPool(t)
			tx := beginMockTx(t, pool)

			pool.ExpectExec(`INSERT INTO ledger_entries`).
				WillReturnError(&pgconn.PgError{Code: tc.code})

			repo := NewEntryRepository(pool)
			err := repo.Create(context.Background(), tx, sampleEntry())
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestEntryRepositoryGetByIDForUpdate(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)
	now := time.Now().UTC()
	reversed := now.Add(time.Minute)

	rows := pgxmock.NewRows(entryColumns).
		AddRow("e1", "m1", "outgoing", int64(4), "original_price", "20", "0",
			"restock", "admin", "admin", "reversed", true, now, reversed, reversed)

	pool.ExpectQuery(`SELECT (.+) FROM ledger_entries WHERE id = \$1 FOR UPDATE`).
		WithArgs("e1").
		WillReturnRows(rows)

	repo := NewEntryRepository(pool)
	entry, err := repo.GetByIDForUpdate(context.Background(), tx, "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Action != domain.ActionOutgoing || entry.PriceType != domain.PriceTypeOriginal {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if !entry.Money.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected money: %s", entry.Money)
	}
	if entry.ReversedAt == nil || !entry.ReversedAt.Equal(reversed) {
		t.Fatalf("expected reversed_at to be set")
	}
	if entry.State() != domain.EntryStateReversed {
		t.Fatalf("expected reversed state, got %s", entry.State())
	}

	assertExpectations(t, pool)
}

func TestEntryRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)

	pool.ExpectQuery(`SELECT (.+) FROM ledger_entries WHERE id = \$1`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	repo := NewEntryRepository(pool)
	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryRepositoryUpdateMissingRow(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec(`UPDATE ledger_entries`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewEntryRepository(pool)
	if err := repo.Update(context.Background(), tx, sampleEntry()); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryRepositoryListPassesFilter(t *testing.T) {
	pool := newMockPool(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows(entryColumns).
		AddRow("e2", "m1", "incoming", int64(1), "discount_price", "8", "3",
			"", "cashier-1", "cashier-1", "committed", false, now, now, nil)

	pool.ExpectQuery(`SELECT (.+) FROM ledger_entries`).
		WithArgs("m1", "cashier-1", "incoming", false, int32(10), int32(5)).
		WillReturnRows(rows)

	repo := NewEntryRepository(pool)
	entries, err := repo.List(context.Background(), domain.EntryFilter{
		MaterialID: "m1",
		CreatedBy:  "cashier-1",
		Action:     domain.ActionIncoming,
		Limit:      10,
		Offset:     5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].ReversedAt != nil {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	assertExpectations(t, pool)
}

func TestEntryRepositorySummarize(t *testing.T) {
	pool := newMockPool(t)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	rows := pgxmock.NewRows([]string{"sales_money", "sales_earnings", "restock_spend", "sales_count", "restock_count"}).
		AddRow("46", "21", "50", int64(3), int64(1))

	pool.ExpectQuery(`FROM ledger_entries\s+WHERE NOT is_deleted`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(rows)

	repo := NewEntryRepository(pool)
	summary, err := repo.Summarize(context.Background(), from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !summary.SalesMoney.Equal(decimal.NewFromInt(46)) || !summary.RestockSpend.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.SalesCount != 3 || summary.RestockCount != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}

	assertExpectations(t, pool)
}
