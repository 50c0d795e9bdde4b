package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/postgres/generated"
	"github.com/iho/washledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository over a pool.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(db),
	}
}

// Create inserts a new entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	err = queries.CreateLedgerEntry(ctx, generated.CreateLedgerEntryParams{
		ID:         entry.ID,
		MaterialID: entry.MaterialID,
		Action:     string(entry.Action),
		Quantity:   entry.Quantity,
		PriceType:  string(entry.PriceType),
		Money:      decimalToNumeric(entry.Money),
		Earnings:   decimalToNumeric(entry.Earnings),
		Remarks:    entry.Remarks,
		CreatedBy:  entry.CreatedBy,
		UpdatedBy:  entry.UpdatedBy,
		Status:     string(entry.Status),
		IsDeleted:  entry.IsDeleted,
		CreatedAt:  timeToPgTimestamptz(entry.CreatedAt),
		UpdatedAt:  timeToPgTimestamptz(entry.UpdatedAt),
		ReversedAt: optionalTimeToPgTimestamptz(entry.ReversedAt),
	})
	if err != nil {
		switch pgErrorCode(err) {
		case pgErrUniqueViolation:
			return domain.ErrEntryAlreadyExists
		case pgErrForeignKeyViolation:
			return domain.ErrMaterialNotFound
		case pgErrCheckViolation:
			return domain.ErrOutgoingRequiresOriginalPrice
		}
		return err
	}

	return nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	row, err := r.queries.GetLedgerEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return rowToEntry(row), nil
}

// GetByIDForUpdate retrieves an entry by ID with a FOR UPDATE lock.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerEntry, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetLedgerEntryByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return rowToEntry(row), nil
}

// Update writes the mutable fields of an entry.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := queries.UpdateLedgerEntry(ctx, generated.UpdateLedgerEntryParams{
		ID:         entry.ID,
		Quantity:   entry.Quantity,
		PriceType:  string(entry.PriceType),
		Money:      decimalToNumeric(entry.Money),
		Earnings:   decimalToNumeric(entry.Earnings),
		Remarks:    entry.Remarks,
		UpdatedBy:  entry.UpdatedBy,
		Status:     string(entry.Status),
		IsDeleted:  entry.IsDeleted,
		UpdatedAt:  timeToPgTimestamptz(entry.UpdatedAt),
		ReversedAt: optionalTimeToPgTimestamptz(entry.ReversedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// List lists entries newest first.
func (r *EntryRepository) List(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.ListLedgerEntries(ctx, generated.ListLedgerEntriesParams{
		MaterialID:     filter.MaterialID,
		CreatedBy:      filter.CreatedBy,
		Action:         string(filter.Action),
		IncludeDeleted: filter.IncludeDeleted,
		RowLimit:       int32(filter.Limit),
		RowOffset:      int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

// Summarize totals non-deleted entries created in [from, to).
func (r *EntryRepository) Summarize(ctx context.Context, from, to time.Time) (*domain.LedgerSummary, error) {
	row, err := r.queries.SummarizeLedgerEntries(ctx, generated.SummarizeLedgerEntriesParams{
		CreatedAt:   timeToPgTimestamptz(from),
		CreatedAt_2: timeToPgTimestamptz(to),
	})
	if err != nil {
		return nil, err
	}

	return &domain.LedgerSummary{
		SalesMoney:    numericToDecimal(row.SalesMoney),
		SalesEarnings: numericToDecimal(row.SalesEarnings),
		RestockSpend:  numericToDecimal(row.RestockSpend),
		SalesCount:    row.SalesCount,
		RestockCount:  row.RestockCount,
	}, nil
}

func rowToEntry(row generated.LedgerEntry) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:         row.ID,
		MaterialID: row.MaterialID,
		Action:     domain.Action(row.Action),
		Quantity:   row.Quantity,
		PriceType:  domain.PriceType(row.PriceType),
		Money:      numericToDecimal(row.Money),
		Earnings:   numericToDecimal(row.Earnings),
		Remarks:    row.Remarks,
		CreatedBy:  row.CreatedBy,
		UpdatedBy:  row.UpdatedBy,
		Status:     domain.EntryStatus(row.Status),
		IsDeleted:  row.IsDeleted,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
		ReversedAt: pgTimestamptzToOptionalTime(row.ReversedAt),
	}
}
